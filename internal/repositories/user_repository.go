package repositories

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/models"
)

// ErrDuplicate is returned by Create when the email or username is taken.
var ErrDuplicate = errors.New("duplicate key")

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByResetToken(token string) (*models.User, error)

	// lockout helpers; the increment is a single atomic statement so
	// concurrent signin attempts cannot lose updates
	IncrementFailedAttempts(userID int) (int, error)
	SetLockout(userID int, lockedUntil time.Time) error
	ResetLockout(userID int) error
	MarkVerified(userID int) error

	// reset-token helpers
	SetResetToken(userID int, token string, expiry time.Time) error
	ClearResetToken(userID int) error
	UpdatePasswordAndClearReset(userID int, passwordHash string) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, username, email, phone, password_hash, is_verified,
	failed_attempts_count, account_locked_until,
	reset_token, reset_token_expiry, created_at
`

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (
			username, email, phone, password_hash, is_verified,
			failed_attempts_count, account_locked_until,
			reset_token, reset_token_expiry
		)
		VALUES ($1,$2,$3,$4,FALSE,0,NULL,NULL,NULL)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(q,
		user.Username,
		user.Email,
		user.Phone,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepository) GetByResetToken(token string) (*models.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE reset_token = $1`, token)
}

// getOne returns (nil, nil) when no row matches.
func (r *userRepository) getOne(q string, arg interface{}) (*models.User, error) {
	u := &models.User{}
	var (
		lockedUntil sql.NullTime
		resetToken  sql.NullString
		resetExpiry sql.NullTime
	)
	err := r.DB.QueryRow(q, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.IsVerified,
		&u.FailedAttempts, &lockedUntil,
		&resetToken, &resetExpiry, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if lockedUntil.Valid {
		t := lockedUntil.Time
		u.LockedUntil = &t
	}
	if resetToken.Valid {
		s := resetToken.String
		u.ResetToken = &s
	}
	if resetExpiry.Valid {
		t := resetExpiry.Time
		u.ResetTokenExpiry = &t
	}
	return u, nil
}

func (r *userRepository) IncrementFailedAttempts(userID int) (int, error) {
	const q = `
		UPDATE users
		SET failed_attempts_count = failed_attempts_count + 1
		WHERE id = $1
		RETURNING failed_attempts_count
	`
	var n int
	err := r.DB.QueryRow(q, userID).Scan(&n)
	return n, err
}

func (r *userRepository) SetLockout(userID int, lockedUntil time.Time) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET account_locked_until=$1, failed_attempts_count=0
		WHERE id=$2
	`, lockedUntil, userID)
	return err
}

func (r *userRepository) ResetLockout(userID int) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET failed_attempts_count=0, account_locked_until=NULL
		WHERE id=$1
	`, userID)
	return err
}

func (r *userRepository) MarkVerified(userID int) error {
	_, err := r.DB.Exec(`UPDATE users SET is_verified=TRUE WHERE id=$1`, userID)
	return err
}

func (r *userRepository) SetResetToken(userID int, token string, expiry time.Time) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET reset_token=$1, reset_token_expiry=$2
		WHERE id=$3
	`, token, expiry, userID)
	return err
}

func (r *userRepository) ClearResetToken(userID int) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET reset_token=NULL, reset_token_expiry=NULL
		WHERE id=$1
	`, userID)
	return err
}

func (r *userRepository) UpdatePasswordAndClearReset(userID int, passwordHash string) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET password_hash=$1, reset_token=NULL, reset_token_expiry=NULL
		WHERE id=$2
	`, passwordHash, userID)
	return err
}
