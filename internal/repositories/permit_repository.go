package repositories

import (
	"database/sql"
	"errors"
	"time"

	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/models"
)

// PermitRepository owns permit rows. All lifecycle writes are single
// conditional statements so concurrent webhook deliveries race harmlessly:
// the first matching update wins, the rest affect zero rows.
type PermitRepository interface {
	Create(p *models.Permit) error
	GetByIDForOwner(id, ownerID int) (*models.Permit, error)
	ListByOwner(ownerID, limit, offset int) ([]*models.Permit, error)

	// MarkProcessing bumps payment_attempts and moves the permit to
	// payment_processing; only non-terminal rows (pending_payment,
	// payment_processing, payment_failed) match. Returns false if nothing
	// matched.
	MarkProcessing(id, ownerID int) (bool, error)
	MarkPaid(id, ownerID int, paidAt time.Time) (bool, error)
	MarkFailed(id, ownerID int) (bool, error)
	MarkRefunded(id, ownerID int) (bool, error)
	Cancel(id, ownerID int) (bool, error)

	// ExpireStale moves overdue pending_payment rows to expired and
	// returns how many were affected.
	ExpireStale(now time.Time) (int64, error)
}

type permitRepository struct {
	DB *sql.DB
}

func NewPermitRepository(db *sql.DB) PermitRepository {
	return &permitRepository{DB: db}
}

const permitColumns = `
	id, full_name, email, phone, permit_type, application_type,
	amount, user_id, status, reference, payment_attempts,
	paid_at, expires_at, created_at
`

func (r *permitRepository) Create(p *models.Permit) error {
	const q = `
		INSERT INTO permits (
			full_name, email, phone, permit_type, application_type,
			amount, user_id, status, reference, payment_attempts, expires_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,0,$10)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q,
		p.FullName,
		p.Email,
		p.Phone,
		p.PermitType,
		p.ApplicationType,
		p.Amount,
		p.UserID,
		p.Status,
		p.Reference,
		p.ExpiresAt,
	).Scan(&p.ID, &p.CreatedAt)
}

// GetByIDForOwner returns (nil, nil) when no row matches, including
// cross-owner reads: existence is never confirmed for foreign permits.
func (r *permitRepository) GetByIDForOwner(id, ownerID int) (*models.Permit, error) {
	const q = `SELECT ` + permitColumns + ` FROM permits WHERE id = $1 AND user_id = $2`
	row := r.DB.QueryRow(q, id, ownerID)
	p, err := scanPermit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *permitRepository) ListByOwner(ownerID, limit, offset int) ([]*models.Permit, error) {
	const q = `
		SELECT ` + permitColumns + `
		FROM permits
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.Query(q, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Permit
	for rows.Next() {
		p, err := scanPermit(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *permitRepository) MarkProcessing(id, ownerID int) (bool, error) {
	return r.exec(`
		UPDATE permits
		SET status=$3, payment_attempts = payment_attempts + 1
		WHERE id=$1 AND user_id=$2 AND status IN ($4,$3,$5)
	`, id, ownerID, models.StatusPaymentProcessing,
		models.StatusPendingPayment, models.StatusPaymentFailed)
}

func (r *permitRepository) MarkPaid(id, ownerID int, paidAt time.Time) (bool, error) {
	res, err := r.DB.Exec(`
		UPDATE permits
		SET status=$3, paid_at=$4
		WHERE id=$1 AND user_id=$2 AND status IN ($5,$6)
	`, id, ownerID, models.StatusPaid, paidAt,
		models.StatusPendingPayment, models.StatusPaymentProcessing)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *permitRepository) MarkFailed(id, ownerID int) (bool, error) {
	return r.exec(`
		UPDATE permits
		SET status=$3
		WHERE id=$1 AND user_id=$2 AND status IN ($4,$5)
	`, id, ownerID, models.StatusPaymentFailed,
		models.StatusPendingPayment, models.StatusPaymentProcessing)
}

func (r *permitRepository) MarkRefunded(id, ownerID int) (bool, error) {
	return r.exec(`
		UPDATE permits
		SET status=$3
		WHERE id=$1 AND user_id=$2 AND status=$4
	`, id, ownerID, models.StatusRefunded, models.StatusPaid)
}

// Cancel is the explicit owner exit: any non-terminal row may move to
// cancelled, including a failed payment.
func (r *permitRepository) Cancel(id, ownerID int) (bool, error) {
	return r.exec(`
		UPDATE permits
		SET status=$3
		WHERE id=$1 AND user_id=$2 AND status IN ($4,$5,$6)
	`, id, ownerID, models.StatusCancelled,
		models.StatusPendingPayment, models.StatusPaymentProcessing,
		models.StatusPaymentFailed)
}

func (r *permitRepository) ExpireStale(now time.Time) (int64, error) {
	res, err := r.DB.Exec(`
		UPDATE permits
		SET status=$1
		WHERE status=$2 AND expires_at IS NOT NULL AND expires_at < $3
	`, models.StatusExpired, models.StatusPendingPayment, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *permitRepository) exec(q string, args ...interface{}) (bool, error) {
	res, err := r.DB.Exec(q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPermit(row rowScanner) (*models.Permit, error) {
	p := &models.Permit{}
	var (
		paidAt    sql.NullTime
		expiresAt sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.FullName, &p.Email, &p.Phone, &p.PermitType, &p.ApplicationType,
		&p.Amount, &p.UserID, &p.Status, &p.Reference, &p.PaymentAttempts,
		&paidAt, &expiresAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if paidAt.Valid {
		t := paidAt.Time
		p.PaidAt = &t
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		p.ExpiresAt = &t
	}
	return p, nil
}
