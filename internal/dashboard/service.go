package dashboard

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"homeleads/internal/deals"
	"homeleads/internal/identity"
	"homeleads/internal/leads"
)

// DealLister is the slice of the deals service the dashboard reads.
type DealLister interface {
	List(ctx context.Context, userID uuid.UUID) ([]deals.Deal, error)
}

// ContactLister is the slice of the identity normalizer the dashboard reads.
type ContactLister interface {
	List(ctx context.Context) ([]identity.ContactView, error)
}

// MessageLister is the slice of the leads service the dashboard reads.
type MessageLister interface {
	ListMessages(ctx context.Context, unreadOnly bool) ([]leads.EventView, error)
}

// Service assembles the admin dashboard summary.
type Service struct {
	deals    DealLister
	contacts ContactLister
	messages MessageLister
	cache    *Cache
}

func NewService(deals DealLister, contacts ContactLister, messages MessageLister, cache *Cache) *Service {
	return &Service{deals: deals, contacts: contacts, messages: messages, cache: cache}
}

// Summary returns the dashboard for one admin user, serving from cache when
// fresh. The three reads are independent and fan out concurrently.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (Summary, error) {
	if cached := s.cache.Get(ctx, userID.String()); cached != nil {
		return *cached, nil
	}

	var dealSet []deals.Deal
	var contactCount, unreadCount int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dealSet, err = s.deals.List(gctx, userID)
		return err
	})
	g.Go(func() error {
		contacts, err := s.contacts.List(gctx)
		if err != nil {
			return err
		}
		contactCount = len(contacts)
		return nil
	})
	g.Go(func() error {
		unread, err := s.messages.ListMessages(gctx, true)
		if err != nil {
			return err
		}
		unreadCount = len(unread)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	summary := Aggregate(dealSet)
	summary.ContactCount = contactCount
	summary.UnreadMessages = unreadCount

	s.cache.Set(ctx, userID.String(), summary)
	return summary, nil
}
