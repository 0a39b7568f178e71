package leads

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"homeleads/internal/identity"
	"homeleads/internal/notify"
	"homeleads/internal/platform/metrics"
	"homeleads/internal/platform/middleware"
	"homeleads/pkg/apperrors"
	"homeleads/pkg/sentinel"
)

// Source labels recorded against each submission kind.
const (
	sourceWebsite   = "Website"
	sourceOpenHouse = "open_house"
	// Event sign-ins record "Event & <name>" so the source itself carries
	// the originating event.
	sourceEventPrefix = "Event & "
)

// IdentityResolver is the slice of the identity normalizer the leads service
// needs.
type IdentityResolver interface {
	Resolve(ctx context.Context, sub identity.Submission) (identity.AttributeIDs, error)
	ResolveContact(ctx context.Context, ids identity.AttributeIDs) (uuid.UUID, error)
}

// Service runs the submission pipeline: validate, resolve attributes, append
// the event, then best-effort contact enrichment and notification. Only the
// first three steps can fail a submission.
type Service struct {
	store      Store
	identities IdentityResolver
	notifier   notify.Notifier
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func NewService(store Store, identities IdentityResolver, notifier notify.Notifier, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:      store,
		identities: identities,
		notifier:   notifier,
		logger:     logger,
		metrics:    m,
	}
}

// SubmitContact captures a contact-form message.
func (s *Service) SubmitContact(ctx context.Context, req ContactRequest) error {
	if err := validateContactRequest(req); err != nil {
		return err
	}
	sub := identity.Submission{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Source:    sourceWebsite,
	}
	event := &Event{
		Kind:    KindContactMessage,
		Message: req.Message,
	}
	return s.capture(ctx, sub, event, req.Message)
}

// SubmitOpenHouseSignIn captures an open-house sign-in.
func (s *Service) SubmitOpenHouseSignIn(ctx context.Context, req OpenHouseRequest) error {
	if err := validateOpenHouseRequest(req); err != nil {
		return err
	}
	sub := identity.Submission{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Source:    sourceOpenHouse,
	}
	worksWithRealtor := req.WorksWithRealtor
	event := &Event{
		Kind:             KindOpenHouse,
		Address:          req.Address,
		WorksWithRealtor: &worksWithRealtor,
		RealtorName:      req.RealtorName,
		RealtorCompany:   req.RealtorCompany,
	}
	return s.capture(ctx, sub, event, "Open house: "+req.Address)
}

// SubmitEventSignIn captures an event sign-in.
func (s *Service) SubmitEventSignIn(ctx context.Context, req EventRequest) error {
	if err := validateEventRequest(req); err != nil {
		return err
	}
	sub := identity.Submission{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Source:    sourceEventPrefix + req.EventName,
	}
	event := &Event{
		Kind:      KindEvent,
		EventName: req.EventName,
	}
	return s.capture(ctx, sub, event, "Event: "+req.EventName)
}

// capture runs the shared tail of every submission. The event insert is the
// commit point: enrichment and notification failures after it are logged and
// swallowed so the lead is never lost or reported as failed.
func (s *Service) capture(ctx context.Context, sub identity.Submission, event *Event, detail string) error {
	ids, err := s.identities.Resolve(ctx, sub)
	if err != nil {
		s.logger.ErrorContext(ctx, "attribute resolution failed",
			"kind", event.Kind,
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		return apperrors.New(apperrors.CodeInternal, "failed to save submission")
	}

	event.ID = uuid.New()
	event.Attrs = ids
	event.IsActive = true
	event.CreatedAt = time.Now()

	if err := s.store.Insert(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "lead event insert failed",
			"kind", event.Kind,
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		return apperrors.New(apperrors.CodeInternal, "failed to save submission")
	}
	s.metrics.LeadsCaptured.WithLabelValues(string(event.Kind)).Inc()

	if _, err := s.identities.ResolveContact(ctx, ids); err != nil {
		s.metrics.EnrichmentFailures.Inc()
		s.logger.ErrorContext(ctx, "contact enrichment failed after lead saved",
			"kind", event.Kind,
			"event_id", event.ID,
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
	}

	normalized := identity.Normalize(sub)
	lead := notify.Lead{
		Kind:      string(event.Kind),
		FirstName: normalized.FirstName,
		LastName:  normalized.LastName,
		Email:     normalized.Email,
		Phone:     normalized.Phone,
		Source:    normalized.Source,
		Detail:    detail,
	}
	if err := s.notifier.NotifyLead(ctx, lead); err != nil {
		s.metrics.NotificationFailures.Inc()
		s.logger.ErrorContext(ctx, "lead notification failed",
			"kind", event.Kind,
			"event_id", event.ID,
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
	}

	return nil
}

// ListMessages returns contact messages for the admin inbox.
func (s *Service) ListMessages(ctx context.Context, unreadOnly bool) ([]EventView, error) {
	return s.store.ListMessages(ctx, unreadOnly)
}

// MarkMessageRead flags a contact message as read.
func (s *Service) MarkMessageRead(ctx context.Context, id uuid.UUID) error {
	if err := s.store.MarkRead(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "message not found")
		}
		return err
	}
	return nil
}

// ListOpenHouseSignIns returns active open-house sign-ins grouped by address.
func (s *Service) ListOpenHouseSignIns(ctx context.Context) ([]SignInGroup, error) {
	return s.store.ListOpenHouseGroups(ctx)
}

// ListEventSignIns returns active event sign-ins grouped by event name.
func (s *Service) ListEventSignIns(ctx context.Context) ([]SignInGroup, error) {
	return s.store.ListEventGroups(ctx)
}

// DeactivateSignIn soft-deletes a sign-in row.
func (s *Service) DeactivateSignIn(ctx context.Context, id uuid.UUID) error {
	if err := s.store.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "sign-in not found")
		}
		return err
	}
	return nil
}
