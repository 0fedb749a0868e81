package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/models"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/services"
)

// =============================================================================
// Mock service implementations
// =============================================================================

type mockUserService struct {
	signupFunc  func(req *models.SignupRequest) (*models.User, error)
	getByIDFunc func(id int) (*models.User, error)
}

func (m *mockUserService) Signup(req *models.SignupRequest) (*models.User, error) {
	if m.signupFunc != nil {
		return m.signupFunc(req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) GetByID(id int) (*models.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(id)
	}
	return nil, errors.New("not implemented")
}

type mockSigninService struct {
	signinFunc func(email, password string) (*models.User, error)
}

func (m *mockSigninService) Signin(email, password string) (*models.User, error) {
	if m.signinFunc != nil {
		return m.signinFunc(email, password)
	}
	return nil, errors.New("not implemented")
}

type mockAuthService struct {
	hashPasswordFunc func(plain string) (string, error)
	issueTokensFunc  func(user *models.User) (*services.TokenPair, error)
	verifyAccessFunc func(token string) (*services.Claims, error)
	refreshFunc      func(refreshToken string) (string, time.Time, *models.User, error)
}

func (m *mockAuthService) HashPassword(plain string) (string, error) {
	if m.hashPasswordFunc != nil {
		return m.hashPasswordFunc(plain)
	}
	return "", errors.New("not implemented")
}

func (m *mockAuthService) IssueTokens(user *models.User) (*services.TokenPair, error) {
	if m.issueTokensFunc != nil {
		return m.issueTokensFunc(user)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) VerifyAccess(token string) (*services.Claims, error) {
	if m.verifyAccessFunc != nil {
		return m.verifyAccessFunc(token)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Refresh(refreshToken string) (string, time.Time, *models.User, error) {
	if m.refreshFunc != nil {
		return m.refreshFunc(refreshToken)
	}
	return "", time.Time{}, nil, errors.New("not implemented")
}

type mockResetService struct {
	initiateFunc func(email string) error
	completeFunc func(token, newPassword string) error
}

func (m *mockResetService) Initiate(email string) error {
	if m.initiateFunc != nil {
		return m.initiateFunc(email)
	}
	return errors.New("not implemented")
}

func (m *mockResetService) Complete(token, newPassword string) error {
	if m.completeFunc != nil {
		return m.completeFunc(token, newPassword)
	}
	return errors.New("not implemented")
}

type mockPaymentService struct {
	initiateFunc      func(ctx context.Context, ownerID, permitID int) (string, error)
	verifyWebhookFunc func(rawBody []byte, signature string) error
	handleEventFunc   func(rawBody []byte) error
}

func (m *mockPaymentService) Initiate(ctx context.Context, ownerID, permitID int) (string, error) {
	if m.initiateFunc != nil {
		return m.initiateFunc(ctx, ownerID, permitID)
	}
	return "", errors.New("not implemented")
}

func (m *mockPaymentService) VerifyWebhook(rawBody []byte, signature string) error {
	if m.verifyWebhookFunc != nil {
		return m.verifyWebhookFunc(rawBody, signature)
	}
	return errors.New("not implemented")
}

func (m *mockPaymentService) HandleEvent(rawBody []byte) error {
	if m.handleEventFunc != nil {
		return m.handleEventFunc(rawBody)
	}
	return errors.New("not implemented")
}

type mockPermitService struct {
	createFunc func(ownerID int, req *models.PermitRequest) (*models.Permit, error)
	getFunc    func(ownerID, permitID int) (*models.Permit, error)
	listFunc   func(ownerID int) ([]*models.Permit, error)
	cancelFunc func(ownerID, permitID int) error
	feeFunc    func(permitType, applicationType string) (int64, bool)
}

func (m *mockPermitService) Create(ownerID int, req *models.PermitRequest) (*models.Permit, error) {
	if m.createFunc != nil {
		return m.createFunc(ownerID, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPermitService) Get(ownerID, permitID int) (*models.Permit, error) {
	if m.getFunc != nil {
		return m.getFunc(ownerID, permitID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPermitService) List(ownerID int) ([]*models.Permit, error) {
	if m.listFunc != nil {
		return m.listFunc(ownerID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPermitService) Cancel(ownerID, permitID int) error {
	if m.cancelFunc != nil {
		return m.cancelFunc(ownerID, permitID)
	}
	return errors.New("not implemented")
}

func (m *mockPermitService) Fee(permitType, applicationType string) (int64, bool) {
	if m.feeFunc != nil {
		return m.feeFunc(permitType, applicationType)
	}
	return 0, false
}
