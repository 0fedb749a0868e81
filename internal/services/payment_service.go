package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/gateway"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/models"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/pdf"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/repositories"
)

var (
	ErrGatewayError     = errors.New("payment gateway error")
	ErrSignatureInvalid = errors.New("invalid webhook signature")
)

// GatewayClient is what the payment service needs from the Paystack client.
type GatewayClient interface {
	InitializeTransaction(ctx context.Context, req *gateway.InitializeRequest) (*gateway.InitializeResponse, error)
}

type PaymentService interface {
	// Initiate builds and sends the payment-initiation request for an
	// owner's permit and returns the gateway authorization URL. A failed
	// gateway call leaves the permit untouched, so the citizen may retry.
	Initiate(ctx context.Context, ownerID, permitID int) (string, error)
	// VerifyWebhook recomputes the HMAC-SHA512 of the raw body and compares
	// it to the signature header in constant time.
	VerifyWebhook(rawBody []byte, signature string) error
	// HandleEvent applies a verified event to the permit state machine,
	// at most once per transition.
	HandleEvent(rawBody []byte) error
}

type paymentService struct {
	permits     repositories.PermitRepository
	gateway     GatewayClient
	emails      EmailService
	receipts    pdf.ReceiptGenerator
	secret      []byte
	callbackURL string
}

func NewPaymentService(permits repositories.PermitRepository, gw GatewayClient, emails EmailService, receipts pdf.ReceiptGenerator, webhookSecret, callbackURL string) PaymentService {
	return &paymentService{
		permits:     permits,
		gateway:     gw,
		emails:      emails,
		receipts:    receipts,
		secret:      []byte(webhookSecret),
		callbackURL: callbackURL,
	}
}

func (s *paymentService) Initiate(ctx context.Context, ownerID, permitID int) (string, error) {
	// durable read-back: the permit must already be visible before the
	// gateway payload can reference it
	p, err := s.permits.GetByIDForOwner(permitID, ownerID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", ErrPermitNotFound
	}
	// any non-terminal permit may (re)enter the gateway flow, so a citizen
	// whose charge failed can try again
	if models.IsTerminal(p.Status) {
		return "", ErrInvalidStatus
	}

	resp, err := s.gateway.InitializeTransaction(ctx, &gateway.InitializeRequest{
		Email:       p.Email,
		Amount:      p.Amount, // kobo, as stored
		Reference:   p.Reference,
		CallbackURL: s.callbackURL,
		Metadata:    gateway.Metadata{PermitID: p.ID, OwnerID: p.UserID},
	})
	if err != nil {
		log.Printf("[payment][initiate] permit=%d ref=%s gateway call failed: %v", p.ID, p.Reference, err)
		return "", fmt.Errorf("%w: %v", ErrGatewayError, err)
	}

	ok, err := s.permits.MarkProcessing(p.ID, p.UserID)
	if err != nil {
		return "", err
	}
	if !ok {
		// raced with a webhook that already settled the permit
		log.Printf("[payment][initiate] permit=%d already settled, not moving to processing", p.ID)
	}
	log.Printf("[payment][initiate] permit=%d ref=%s authorization issued", p.ID, p.Reference)
	return resp.Data.AuthorizationURL, nil
}

func (s *paymentService) VerifyWebhook(rawBody []byte, signature string) error {
	mac := hmac.New(sha512.New, s.secret)
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureInvalid
	}
	return nil
}

func (s *paymentService) HandleEvent(rawBody []byte) error {
	var event models.GatewayEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return fmt.Errorf("%w: malformed event body", ErrValidation)
	}

	meta := event.Data.Metadata
	switch event.Event {
	case "charge.success":
		if meta.PermitID == 0 || meta.OwnerID == 0 {
			log.Printf("[payment][webhook] charge.success ref=%s without permit metadata, acknowledged", event.Data.Reference)
			return nil
		}
		applied, err := s.permits.MarkPaid(meta.PermitID, meta.OwnerID, time.Now())
		if err != nil {
			return err
		}
		if !applied {
			// already paid or ids didn't match a row; at-least-once
			// delivery makes this a normal no-op, but it must be
			// distinguishable in the logs from a fresh transition
			log.Printf("[payment][webhook] charge.success permit=%d owner=%d: no rows updated, treating as already applied", meta.PermitID, meta.OwnerID)
			return nil
		}
		log.Printf("[payment][webhook] charge.success permit=%d owner=%d ref=%s: marked paid", meta.PermitID, meta.OwnerID, event.Data.Reference)
		s.afterPaid(meta.PermitID, meta.OwnerID, event.Data.Amount)
		return nil

	case "charge.failed":
		if meta.PermitID == 0 || meta.OwnerID == 0 {
			log.Printf("[payment][webhook] charge.failed ref=%s without permit metadata, acknowledged", event.Data.Reference)
			return nil
		}
		applied, err := s.permits.MarkFailed(meta.PermitID, meta.OwnerID)
		if err != nil {
			return err
		}
		if !applied {
			log.Printf("[payment][webhook] charge.failed permit=%d: no rows updated, treating as already applied", meta.PermitID)
		} else {
			log.Printf("[payment][webhook] charge.failed permit=%d ref=%s: marked failed", meta.PermitID, event.Data.Reference)
		}
		return nil

	case "refund.processed":
		if meta.PermitID == 0 || meta.OwnerID == 0 {
			log.Printf("[payment][webhook] refund.processed ref=%s without permit metadata, acknowledged", event.Data.Reference)
			return nil
		}
		applied, err := s.permits.MarkRefunded(meta.PermitID, meta.OwnerID)
		if err != nil {
			return err
		}
		if !applied {
			log.Printf("[payment][webhook] refund.processed permit=%d: no rows updated, treating as already applied", meta.PermitID)
		} else {
			log.Printf("[payment][webhook] refund.processed permit=%d: marked refunded", meta.PermitID)
		}
		return nil

	default:
		// forward-compatible: unknown events are acknowledged unchanged
		log.Printf("[payment][webhook] event=%q ref=%s acknowledged without state change", event.Event, event.Data.Reference)
		return nil
	}
}

// afterPaid handles bookkeeping after a fresh paid transition: the gateway
// amount is compared for display only, and a receipt is dispatched
// best-effort. Nothing here can fail the webhook acknowledgment.
func (s *paymentService) afterPaid(permitID, ownerID int, gatewayAmount int64) {
	p, err := s.permits.GetByIDForOwner(permitID, ownerID)
	if err != nil || p == nil {
		log.Printf("[payment][receipt] permit=%d read-back failed: %v", permitID, err)
		return
	}
	if gatewayAmount != 0 && gatewayAmount != p.Amount {
		log.Printf("[payment][webhook] permit=%d amount mismatch: gateway=%d stored=%d (stored value is authoritative)", p.ID, gatewayAmount, p.Amount)
	}

	if s.receipts == nil || s.emails == nil {
		return
	}
	paidAt := time.Now()
	if p.PaidAt != nil {
		paidAt = *p.PaidAt
	}
	path, err := s.receipts.GenerateReceipt(pdf.ReceiptData{
		Reference:       p.Reference,
		FullName:        p.FullName,
		PermitType:      p.PermitType,
		ApplicationType: p.ApplicationType,
		AmountKobo:      p.Amount,
		PaidAt:          paidAt,
	})
	if err != nil {
		log.Printf("[payment][receipt] permit=%d generation failed: %v", p.ID, err)
		return
	}
	if err := s.emails.SendPaymentReceiptEmail(p.Email, p.Reference, path); err != nil {
		log.Printf("[payment][receipt] permit=%d email to %s failed: %v", p.ID, p.Email, err)
	}
}
