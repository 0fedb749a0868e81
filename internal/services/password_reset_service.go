package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/repositories"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/utils"
)

var (
	ErrInvalidResetToken = errors.New("invalid reset token")
	ErrExpiredResetToken = errors.New("expired reset token")
)

const resetTokenTTL = 1 * time.Hour

// PasswordResetService implements the token-based reset flow. The interface
// leaves room for an alternative recovery implementation (e.g. passcode
// based) without touching callers.
type PasswordResetService interface {
	// Initiate never reports whether the email exists; callers always get
	// the same acknowledgment.
	Initiate(email string) error
	// Complete consumes the token: it is cleared on success and on the
	// expired path alike, so no token is ever usable twice.
	Complete(token, newPassword string) error
}

type passwordResetService struct {
	users   repositories.UserRepository
	auth    AuthService
	emails  EmailService
	baseURL string
}

func NewPasswordResetService(users repositories.UserRepository, auth AuthService, emails EmailService, baseURL string) PasswordResetService {
	return &passwordResetService{users: users, auth: auth, emails: emails, baseURL: baseURL}
}

func (s *passwordResetService) Initiate(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		// don't leak existence
		log.Printf("[password-reset][initiate] no account for %q", email)
		return nil
	}

	token, err := utils.NewOpaqueToken(32)
	if err != nil {
		return err
	}
	if err := s.users.SetResetToken(user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	if s.emails != nil {
		resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
		if err := s.emails.SendPasswordResetEmail(user.Email, resetURL); err != nil {
			log.Printf("[password-reset][initiate] email to %s failed: %v", user.Email, err)
		}
	}
	return nil
}

func (s *passwordResetService) Complete(token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidResetToken
	}

	user, err := s.users.GetByResetToken(token)
	if err != nil {
		return err
	}
	if user == nil || user.ResetTokenExpiry == nil {
		return ErrInvalidResetToken
	}
	if time.Now().After(*user.ResetTokenExpiry) {
		if err := s.users.ClearResetToken(user.ID); err != nil {
			log.Printf("[password-reset][complete] clear expired token userID=%d: %v", user.ID, err)
		}
		return ErrExpiredResetToken
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordAndClearReset(user.ID, hash)
}
