package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/models"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/repositories"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims is the access-token claim set. It carries an identity snapshot so
// business handlers never re-read the user row per request.
type Claims struct {
	UserID     int    `json:"user_id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	IsVerified bool   `json:"is_verified"`
	jwt.RegisteredClaims
}

// RefreshClaims carries the user id only. A refresh token can authorize a
// token exchange and nothing else.
type RefreshClaims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

type AuthService interface {
	HashPassword(plain string) (string, error)
	IssueTokens(user *models.User) (*TokenPair, error)
	VerifyAccess(token string) (*Claims, error)
	// Refresh verifies the refresh token under the refresh key, re-reads
	// the current user row and issues a fresh access token.
	Refresh(refreshToken string) (string, time.Time, *models.User, error)
}

type authService struct {
	users         repositories.UserRepository
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(users repositories.UserRepository, accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) AuthService {
	return &authService{
		users:         users,
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (s *authService) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) IssueTokens(user *models.User) (*TokenPair, error) {
	now := time.Now()
	accessExp := now.Add(s.accessTTL)
	refreshExp := now.Add(s.refreshTTL)

	accessClaims := &Claims{
		UserID:     user.ID,
		Email:      user.Email,
		Username:   user.Username,
		IsVerified: user.IsVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(s.accessSecret)
	if err != nil {
		return nil, err
	}

	refreshClaims := &RefreshClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExp),
		},
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(s.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *authService) VerifyAccess(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.accessSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *authService) Refresh(refreshToken string) (string, time.Time, *models.User, error) {
	claims := &RefreshClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.refreshSecret, nil
	})
	// malformed, expired and wrong-key tokens are all the same failure here
	if err != nil || !token.Valid {
		return "", time.Time{}, nil, ErrTokenInvalid
	}

	user, err := s.users.GetByID(claims.UserID)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	if user == nil {
		return "", time.Time{}, nil, ErrTokenInvalid
	}

	now := time.Now()
	accessExp := now.Add(s.accessTTL)
	accessClaims := &Claims{
		UserID:     user.ID,
		Email:      user.Email,
		Username:   user.Username,
		IsVerified: user.IsVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(s.accessSecret)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return access, accessExp, user, nil
}
