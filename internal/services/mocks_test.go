package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/gateway"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/models"
)

// =============================================================================
// Mock UserRepository
// =============================================================================

type mockUserRepository struct {
	createFunc          func(user *models.User) error
	getByIDFunc         func(id int) (*models.User, error)
	getByEmailFunc      func(email string) (*models.User, error)
	getByResetTokenFunc func(token string) (*models.User, error)
	incrementFunc       func(userID int) (int, error)
	setLockoutFunc      func(userID int, lockedUntil time.Time) error
	resetLockoutFunc    func(userID int) error
	markVerifiedFunc    func(userID int) error
	setResetTokenFunc   func(userID int, token string, expiry time.Time) error
	clearResetTokenFunc func(userID int) error
	updatePasswordFunc  func(userID int, hash string) error
}

func (m *mockUserRepository) Create(user *models.User) error {
	if m.createFunc != nil {
		return m.createFunc(user)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) GetByID(id int) (*models.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) GetByEmail(email string) (*models.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(email)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) GetByResetToken(token string) (*models.User, error) {
	if m.getByResetTokenFunc != nil {
		return m.getByResetTokenFunc(token)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) IncrementFailedAttempts(userID int) (int, error) {
	if m.incrementFunc != nil {
		return m.incrementFunc(userID)
	}
	return 0, errors.New("not implemented")
}

func (m *mockUserRepository) SetLockout(userID int, lockedUntil time.Time) error {
	if m.setLockoutFunc != nil {
		return m.setLockoutFunc(userID, lockedUntil)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) ResetLockout(userID int) error {
	if m.resetLockoutFunc != nil {
		return m.resetLockoutFunc(userID)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) MarkVerified(userID int) error {
	if m.markVerifiedFunc != nil {
		return m.markVerifiedFunc(userID)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) SetResetToken(userID int, token string, expiry time.Time) error {
	if m.setResetTokenFunc != nil {
		return m.setResetTokenFunc(userID, token, expiry)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) ClearResetToken(userID int) error {
	if m.clearResetTokenFunc != nil {
		return m.clearResetTokenFunc(userID)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) UpdatePasswordAndClearReset(userID int, hash string) error {
	if m.updatePasswordFunc != nil {
		return m.updatePasswordFunc(userID, hash)
	}
	return errors.New("not implemented")
}

// =============================================================================
// Mock PermitRepository
// =============================================================================

type mockPermitRepository struct {
	createFunc          func(p *models.Permit) error
	getByIDForOwnerFunc func(id, ownerID int) (*models.Permit, error)
	listByOwnerFunc     func(ownerID, limit, offset int) ([]*models.Permit, error)
	markProcessingFunc  func(id, ownerID int) (bool, error)
	markPaidFunc        func(id, ownerID int, paidAt time.Time) (bool, error)
	markFailedFunc      func(id, ownerID int) (bool, error)
	markRefundedFunc    func(id, ownerID int) (bool, error)
	cancelFunc          func(id, ownerID int) (bool, error)
	expireStaleFunc     func(now time.Time) (int64, error)
}

func (m *mockPermitRepository) Create(p *models.Permit) error {
	if m.createFunc != nil {
		return m.createFunc(p)
	}
	return errors.New("not implemented")
}

func (m *mockPermitRepository) GetByIDForOwner(id, ownerID int) (*models.Permit, error) {
	if m.getByIDForOwnerFunc != nil {
		return m.getByIDForOwnerFunc(id, ownerID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPermitRepository) ListByOwner(ownerID, limit, offset int) ([]*models.Permit, error) {
	if m.listByOwnerFunc != nil {
		return m.listByOwnerFunc(ownerID, limit, offset)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPermitRepository) MarkProcessing(id, ownerID int) (bool, error) {
	if m.markProcessingFunc != nil {
		return m.markProcessingFunc(id, ownerID)
	}
	return false, errors.New("not implemented")
}

func (m *mockPermitRepository) MarkPaid(id, ownerID int, paidAt time.Time) (bool, error) {
	if m.markPaidFunc != nil {
		return m.markPaidFunc(id, ownerID, paidAt)
	}
	return false, errors.New("not implemented")
}

func (m *mockPermitRepository) MarkFailed(id, ownerID int) (bool, error) {
	if m.markFailedFunc != nil {
		return m.markFailedFunc(id, ownerID)
	}
	return false, errors.New("not implemented")
}

func (m *mockPermitRepository) MarkRefunded(id, ownerID int) (bool, error) {
	if m.markRefundedFunc != nil {
		return m.markRefundedFunc(id, ownerID)
	}
	return false, errors.New("not implemented")
}

func (m *mockPermitRepository) Cancel(id, ownerID int) (bool, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(id, ownerID)
	}
	return false, errors.New("not implemented")
}

func (m *mockPermitRepository) ExpireStale(now time.Time) (int64, error) {
	if m.expireStaleFunc != nil {
		return m.expireStaleFunc(now)
	}
	return 0, errors.New("not implemented")
}

// =============================================================================
// Mock gateway client
// =============================================================================

type mockGatewayClient struct {
	initializeFunc func(ctx context.Context, req *gateway.InitializeRequest) (*gateway.InitializeResponse, error)
}

func (m *mockGatewayClient) InitializeTransaction(ctx context.Context, req *gateway.InitializeRequest) (*gateway.InitializeResponse, error) {
	if m.initializeFunc != nil {
		return m.initializeFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

// =============================================================================
// fakePermitStore: in-memory PermitRepository with the same conditional
// update semantics as the SQL implementation, for end-to-end scenarios.
// =============================================================================

type fakePermitStore struct {
	mu      sync.Mutex
	nextID  int
	permits map[int]*models.Permit
}

func newFakePermitStore() *fakePermitStore {
	return &fakePermitStore{nextID: 1, permits: make(map[int]*models.Permit)}
}

func (s *fakePermitStore) Create(p *models.Permit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	p.CreatedAt = time.Now()
	cp := *p
	s.permits[p.ID] = &cp
	return nil
}

func (s *fakePermitStore) GetByIDForOwner(id, ownerID int) (*models.Permit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.permits[id]
	if !ok || p.UserID != ownerID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *fakePermitStore) ListByOwner(ownerID, limit, offset int) ([]*models.Permit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*models.Permit
	for _, p := range s.permits {
		if p.UserID == ownerID {
			cp := *p
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (s *fakePermitStore) MarkProcessing(id, ownerID int) (bool, error) {
	return s.update(id, ownerID, func(p *models.Permit) bool {
		if models.IsTerminal(p.Status) {
			return false
		}
		p.Status = models.StatusPaymentProcessing
		p.PaymentAttempts++
		return true
	})
}

func (s *fakePermitStore) MarkPaid(id, ownerID int, paidAt time.Time) (bool, error) {
	return s.update(id, ownerID, func(p *models.Permit) bool {
		if p.Status != models.StatusPendingPayment && p.Status != models.StatusPaymentProcessing {
			return false
		}
		p.Status = models.StatusPaid
		t := paidAt
		p.PaidAt = &t
		return true
	})
}

func (s *fakePermitStore) MarkFailed(id, ownerID int) (bool, error) {
	return s.update(id, ownerID, func(p *models.Permit) bool {
		if p.Status != models.StatusPendingPayment && p.Status != models.StatusPaymentProcessing {
			return false
		}
		p.Status = models.StatusPaymentFailed
		return true
	})
}

func (s *fakePermitStore) MarkRefunded(id, ownerID int) (bool, error) {
	return s.update(id, ownerID, func(p *models.Permit) bool {
		if p.Status != models.StatusPaid {
			return false
		}
		p.Status = models.StatusRefunded
		return true
	})
}

func (s *fakePermitStore) Cancel(id, ownerID int) (bool, error) {
	return s.update(id, ownerID, func(p *models.Permit) bool {
		if models.IsTerminal(p.Status) {
			return false
		}
		p.Status = models.StatusCancelled
		return true
	})
}

func (s *fakePermitStore) ExpireStale(now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, p := range s.permits {
		if p.Status == models.StatusPendingPayment && p.ExpiresAt != nil && p.ExpiresAt.Before(now) {
			p.Status = models.StatusExpired
			n++
		}
	}
	return n, nil
}

func (s *fakePermitStore) update(id, ownerID int, fn func(*models.Permit) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.permits[id]
	if !ok || p.UserID != ownerID {
		return false, nil
	}
	return fn(p), nil
}
