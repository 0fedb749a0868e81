package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/models"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/repositories"
)

// ErrInvalidCredentials covers unknown email and wrong password alike, so
// the response never reveals which branch fired.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AccountLockedError carries the lock deadline so the boundary can hint at
// remaining time without exposing the attempt count.
type AccountLockedError struct {
	Until time.Time
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.Format(time.RFC3339))
}

// dummyHash keeps the bcrypt cost on the unknown-email path, so response
// timing does not separate "no such user" from "wrong password".
var dummyHash = []byte("$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW")

// SigninService wraps every signin attempt with the failed-attempt lockout:
// Active -> (threshold failures) -> Locked -> (window elapses) -> Active.
type SigninService interface {
	Signin(email, password string) (*models.User, error)
}

type signinService struct {
	users     repositories.UserRepository
	threshold int
	window    time.Duration
}

func NewSigninService(users repositories.UserRepository, threshold int, window time.Duration) SigninService {
	return &signinService{users: users, threshold: threshold, window: window}
}

func (s *signinService) Signin(email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}

	// lock check comes before the password compare, independent of
	// credential correctness
	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		return nil, &AccountLockedError{Until: *user.LockedUntil}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		n, incErr := s.users.IncrementFailedAttempts(user.ID)
		if incErr != nil {
			log.Printf("[auth][signin] increment failed attempts userID=%d: %v", user.ID, incErr)
			return nil, ErrInvalidCredentials
		}
		if n >= s.threshold {
			until := time.Now().Add(s.window)
			if lockErr := s.users.SetLockout(user.ID, until); lockErr != nil {
				log.Printf("[auth][signin] set lockout userID=%d: %v", user.ID, lockErr)
			} else {
				log.Printf("[auth][signin] account locked userID=%d until=%s", user.ID, until.Format(time.RFC3339))
			}
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.users.ResetLockout(user.ID); err != nil {
		log.Printf("[auth][signin] reset lockout userID=%d: %v", user.ID, err)
	}
	if !user.IsVerified {
		if err := s.users.MarkVerified(user.ID); err != nil {
			log.Printf("[auth][signin] mark verified userID=%d: %v", user.ID, err)
		}
	}
	user.FailedAttempts = 0
	user.LockedUntil = nil
	user.IsVerified = true
	return user, nil
}
