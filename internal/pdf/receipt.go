package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// ReceiptGenerator is an interface so the payment service can be tested
// without touching the filesystem.
type ReceiptGenerator interface {
	GenerateReceipt(data ReceiptData) (string, error)
}

type ReceiptData struct {
	Reference       string
	FullName        string
	PermitType      string
	ApplicationType string
	AmountKobo      int64
	PaidAt          time.Time
	Filename        string // if empty, derived from the reference
}

type DocumentGenerator struct {
	RootDir string
}

func NewDocumentGenerator(rootDir string) *DocumentGenerator {
	return &DocumentGenerator{RootDir: filepath.Clean(rootDir)}
}

func (g *DocumentGenerator) GenerateReceipt(data ReceiptData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("receipt_%s.pdf", data.Reference)
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payment receipt %s", data.Reference), false)
	pdf.SetAuthor("Almaroof Initiative", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "PAYMENT RECEIPT", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	sub := fmt.Sprintf("Ref %s  -  %s", data.Reference, data.PaidAt.Format("02.01.2006 15:04"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)

	g.row(pdf, "Applicant", data.FullName)
	g.row(pdf, "Permit type", data.PermitType)
	g.row(pdf, "Application", data.ApplicationType)
	g.row(pdf, "Amount paid", formatNaira(data.AmountKobo))
	g.hr(pdf)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 6, "This receipt confirms a completed permit payment.", "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", fmt.Errorf("write receipt pdf: %w", err)
	}
	return absPath, nil
}

func (g *DocumentGenerator) row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(50, 8, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
}

func (g *DocumentGenerator) hr(pdf *gofpdf.Fpdf) {
	pdf.Ln(2)
	x, y := pdf.GetXY()
	pageW, _ := pdf.GetPageSize()
	pdf.Line(x, y, pageW-20, y)
	pdf.Ln(4)
}

func (g *DocumentGenerator) ensureTarget(filename string) (string, error) {
	filename = filepath.Base(filename) // no path traversal via filenames
	dir := filepath.Join(g.RootDir, "receipts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create receipts dir: %w", err)
	}
	return filepath.Join(dir, filename), nil
}

// formatNaira renders a kobo amount as naira, e.g. 5000 -> "NGN 50.00".
func formatNaira(kobo int64) string {
	sign := ""
	if kobo < 0 {
		sign = "-"
		kobo = -kobo
	}
	s := fmt.Sprintf("%s%d.%02d", sign, kobo/100, kobo%100)
	return "NGN " + strings.TrimSpace(s)
}
