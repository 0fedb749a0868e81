package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/models"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/repositories"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrAmountMismatch = errors.New("amount does not match the permit fee")
	ErrPermitNotFound = errors.New("permit not found")
	ErrInvalidStatus  = errors.New("permit is not awaiting payment")
)

// feeTable fixes the amount (in kobo) for every supported
// (permit_type, application_type) pair. The submitted amount must equal the
// table value exactly; it is never trusted from anywhere else.
var feeTable = map[string]map[string]int64{
	"business-permit": {
		models.ApplicationNew:   5000,
		models.ApplicationRenew: 3500,
	},
	"street-trade-permit": {
		models.ApplicationNew:   2500,
		models.ApplicationRenew: 1500,
	},
	"building-permit": {
		models.ApplicationNew:   10000,
		models.ApplicationRenew: 7500,
	},
}

// paymentWindow is how long a pending_payment permit stays payable before
// the expiry sweep picks it up.
const paymentWindow = 7 * 24 * time.Hour

type PermitService interface {
	Create(ownerID int, req *models.PermitRequest) (*models.Permit, error)
	Get(ownerID, permitID int) (*models.Permit, error)
	List(ownerID int) ([]*models.Permit, error)
	Cancel(ownerID, permitID int) error
	Fee(permitType, applicationType string) (int64, bool)
}

type permitService struct {
	permits repositories.PermitRepository
}

func NewPermitService(permits repositories.PermitRepository) PermitService {
	return &permitService{permits: permits}
}

func (s *permitService) Fee(permitType, applicationType string) (int64, bool) {
	byApp, ok := feeTable[permitType]
	if !ok {
		return 0, false
	}
	fee, ok := byApp[applicationType]
	return fee, ok
}

func (s *permitService) Create(ownerID int, req *models.PermitRequest) (*models.Permit, error) {
	permitType := strings.TrimSpace(req.PermitType)
	applicationType := strings.TrimSpace(req.ApplicationType)

	fee, ok := s.Fee(permitType, applicationType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown permit type %q/%q", ErrValidation, permitType, applicationType)
	}
	if req.Amount != fee {
		return nil, ErrAmountMismatch
	}

	expires := time.Now().Add(paymentWindow)
	p := &models.Permit{
		FullName:        strings.TrimSpace(req.FullName),
		Email:           strings.TrimSpace(strings.ToLower(req.Email)),
		Phone:           strings.TrimSpace(req.Phone),
		PermitType:      permitType,
		ApplicationType: applicationType,
		Amount:          fee,
		UserID:          ownerID,
		Status:          models.StatusPendingPayment,
		Reference:       "PRM-" + uuid.New().String(),
		ExpiresAt:       &expires,
	}
	if err := s.permits.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *permitService) Get(ownerID, permitID int) (*models.Permit, error) {
	p, err := s.permits.GetByIDForOwner(permitID, ownerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPermitNotFound
	}
	return p, nil
}

func (s *permitService) List(ownerID int) ([]*models.Permit, error) {
	return s.permits.ListByOwner(ownerID, 100, 0)
}

func (s *permitService) Cancel(ownerID, permitID int) error {
	ok, err := s.permits.Cancel(permitID, ownerID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	// nothing matched: missing, foreign, or already terminal
	p, err := s.permits.GetByIDForOwner(permitID, ownerID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPermitNotFound
	}
	return ErrInvalidStatus
}
