package services

import (
	"errors"
	"log"
	"strings"

	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/models"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/repositories"
)

var ErrConflict = errors.New("email or username already registered")

type UserService interface {
	Signup(req *models.SignupRequest) (*models.User, error)
	GetByID(id int) (*models.User, error)
}

type userService struct {
	users  repositories.UserRepository
	auth   AuthService
	emails EmailService
}

func NewUserService(users repositories.UserRepository, auth AuthService, emails EmailService) UserService {
	return &userService{users: users, auth: auth, emails: emails}
}

func (s *userService) Signup(req *models.SignupRequest) (*models.User, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(strings.ToLower(req.Email)),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if s.emails != nil {
		if err := s.emails.SendWelcomeEmail(user.Email, user.Username); err != nil {
			// warn but do not fail signup
			log.Printf("[user][signup] welcome email to %s failed: %v", user.Email, err)
		}
	}
	return user, nil
}

func (s *userService) GetByID(id int) (*models.User, error) {
	return s.users.GetByID(id)
}
