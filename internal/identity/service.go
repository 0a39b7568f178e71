package identity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"homeleads/internal/platform/metrics"
	"homeleads/pkg/apperrors"
	"homeleads/pkg/sentinel"
)

// Normalizer converts raw submissions into attribute references and
// deduplicated contacts. It owns the matching rules; the store is pure I/O.
type Normalizer struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewNormalizer(store Store, logger *slog.Logger, m *metrics.Metrics) *Normalizer {
	return &Normalizer{store: store, logger: logger, metrics: m}
}

// Resolve normalizes a submission and resolves every attribute to its lookup
// row, creating rows as needed. A failure aborts the submission; attribute
// rows already created stay behind, which is harmless since the next attempt
// resolves to the same rows.
func (n *Normalizer) Resolve(ctx context.Context, sub Submission) (AttributeIDs, error) {
	sub = Normalize(sub)

	var ids AttributeIDs
	var err error
	if ids.FirstNameID, err = n.store.ResolveAttribute(ctx, KindFirstName, sub.FirstName); err != nil {
		return AttributeIDs{}, err
	}
	if ids.LastNameID, err = n.store.ResolveAttribute(ctx, KindLastName, sub.LastName); err != nil {
		return AttributeIDs{}, err
	}
	if ids.EmailID, err = n.store.ResolveAttribute(ctx, KindEmail, sub.Email); err != nil {
		return AttributeIDs{}, err
	}
	if sub.Phone != "" {
		phoneID, err := n.store.ResolveAttribute(ctx, KindPhone, sub.Phone)
		if err != nil {
			return AttributeIDs{}, err
		}
		ids.PhoneID = &phoneID
	}
	if ids.SourceID, err = n.store.ResolveAttribute(ctx, KindSource, sub.Source); err != nil {
		return AttributeIDs{}, err
	}
	return ids, nil
}

// ResolveContact matches the submission's identity to an existing contact or
// creates one.
//
// Matching rule: with a phone, first the exact (email, phone) pair, then the
// same email with no phone on record ("same email, phone now known" is the
// same person). Without a phone, only the no-phone branch. A match updates
// source attribution and updated_at; the stored phone is never backfilled.
//
// A lost insert race surfaces as a uniqueness conflict and is retried once as
// a lookup.
func (n *Normalizer) ResolveContact(ctx context.Context, ids AttributeIDs) (uuid.UUID, error) {
	contactID, err := n.resolveContact(ctx, ids)
	if err == nil {
		return contactID, nil
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return n.resolveContact(ctx, ids)
	}
	return uuid.Nil, err
}

func (n *Normalizer) resolveContact(ctx context.Context, ids AttributeIDs) (uuid.UUID, error) {
	match, err := n.findMatch(ctx, ids)
	if err != nil {
		return uuid.Nil, err
	}

	now := time.Now()
	if match != nil {
		if err := n.store.TouchContact(ctx, match.ID, ids.SourceID, now); err != nil {
			return uuid.Nil, err
		}
		n.metrics.ContactsMatched.Inc()
		return match.ID, nil
	}

	contact := &Contact{
		ID:          uuid.New(),
		FirstNameID: ids.FirstNameID,
		LastNameID:  ids.LastNameID,
		EmailID:     ids.EmailID,
		PhoneID:     ids.PhoneID,
		SourceID:    ids.SourceID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := n.store.InsertContact(ctx, contact); err != nil {
		return uuid.Nil, err
	}
	n.metrics.ContactsCreated.Inc()
	return contact.ID, nil
}

func (n *Normalizer) findMatch(ctx context.Context, ids AttributeIDs) (*Contact, error) {
	if ids.PhoneID != nil {
		match, err := n.store.FindContactByEmailAndPhone(ctx, ids.EmailID, *ids.PhoneID)
		if err == nil {
			return match, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, err
		}
	}
	match, err := n.store.FindContactByEmailNoPhone(ctx, ids.EmailID)
	if err == nil {
		return match, nil
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	return nil, err
}

// List returns all contacts for the admin follow-up view.
func (n *Normalizer) List(ctx context.Context) ([]ContactView, error) {
	return n.store.ListContacts(ctx)
}

// Get returns one contact with resolved attribute values.
func (n *Normalizer) Get(ctx context.Context, id uuid.UUID) (*ContactView, error) {
	view, err := n.store.GetContact(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "contact not found")
		}
		return nil, err
	}
	return view, nil
}

// Deactivate soft-deletes a contact. Rows are never removed.
func (n *Normalizer) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := n.store.SetContactActive(ctx, id, false); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "contact not found")
		}
		return err
	}
	return nil
}
