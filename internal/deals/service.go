package deals

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"homeleads/pkg/apperrors"
	"homeleads/pkg/sentinel"
)

// Service owns deal CRUD, ownership checks, and commission derivation.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create inserts a new deal owned by userID. Commission is derived from the
// price/percentage pair; stage defaults to lead.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*Deal, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "title is required")
	}
	stage := req.Stage
	if stage == "" {
		stage = StageLead
	}
	if !stage.Valid() {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "invalid stage")
	}
	if req.Probability != nil && (*req.Probability < 0 || *req.Probability > 100) {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "probability must be between 0 and 100")
	}

	now := time.Now()
	deal := &Deal{
		ID:                uuid.New(),
		UserID:            userID,
		ContactID:         req.ContactID,
		Title:             strings.TrimSpace(req.Title),
		HousePrice:        req.HousePrice,
		CommissionPct:     req.CommissionPct,
		Commission:        ComputeCommission(req.HousePrice, req.CommissionPct),
		Stage:             stage,
		Probability:       req.Probability,
		ExpectedCloseDate: req.ExpectedCloseDate,
		Notes:             req.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.Insert(ctx, deal); err != nil {
		return nil, err
	}
	return deal, nil
}

// Get returns a deal owned by userID.
func (s *Service) Get(ctx context.Context, userID, dealID uuid.UUID) (*Deal, error) {
	return s.owned(ctx, userID, dealID)
}

// List returns all deals owned by userID.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Deal, error) {
	return s.store.ListByUser(ctx, userID)
}

// Update applies a patch to an owned deal. When the patch touches the house
// price or the percentage, the stored commission is recomputed from the
// effective pair after the patch, so a price edit alone still refreshes the
// dollar amount against the previously stored percentage.
func (s *Service) Update(ctx context.Context, userID, dealID uuid.UUID, req UpdateRequest) (*Deal, error) {
	deal, err := s.owned(ctx, userID, dealID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, apperrors.New(apperrors.CodeInvalidInput, "title is required")
		}
		deal.Title = strings.TrimSpace(*req.Title)
	}
	if req.ContactID != nil {
		deal.ContactID = req.ContactID
	}
	financialsTouched := false
	if req.HousePrice != nil {
		deal.HousePrice = req.HousePrice
		financialsTouched = true
	}
	if req.CommissionPct != nil {
		deal.CommissionPct = req.CommissionPct
		financialsTouched = true
	}
	if financialsTouched {
		deal.Commission = ComputeCommission(deal.HousePrice, deal.CommissionPct)
	}
	if req.Stage != nil {
		if !req.Stage.Valid() {
			return nil, apperrors.New(apperrors.CodeInvalidInput, "invalid stage")
		}
		deal.Stage = *req.Stage
	}
	if req.Probability != nil {
		if *req.Probability < 0 || *req.Probability > 100 {
			return nil, apperrors.New(apperrors.CodeInvalidInput, "probability must be between 0 and 100")
		}
		deal.Probability = req.Probability
	}
	if req.ExpectedCloseDate != nil {
		deal.ExpectedCloseDate = req.ExpectedCloseDate
	}
	if req.Notes != nil {
		deal.Notes = *req.Notes
	}
	deal.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, deal); err != nil {
		return nil, err
	}
	return deal, nil
}

// UpdateStage moves a deal to a new stage. No transition graph: any stage
// reaches any other, including closed back to lead.
func (s *Service) UpdateStage(ctx context.Context, userID, dealID uuid.UUID, stage Stage) (*Deal, error) {
	if !stage.Valid() {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "invalid stage")
	}
	deal, err := s.owned(ctx, userID, dealID)
	if err != nil {
		return nil, err
	}
	deal.Stage = stage
	deal.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, deal); err != nil {
		return nil, err
	}
	return deal, nil
}

// Delete removes an owned deal.
func (s *Service) Delete(ctx context.Context, userID, dealID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, dealID); err != nil {
		return err
	}
	return s.store.Delete(ctx, dealID)
}

func (s *Service) owned(ctx context.Context, userID, dealID uuid.UUID) (*Deal, error) {
	deal, err := s.store.Get(ctx, dealID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "deal not found")
		}
		return nil, err
	}
	if deal.UserID != userID {
		return nil, apperrors.New(apperrors.CodeForbidden, "deal belongs to another user")
	}
	return deal, nil
}
