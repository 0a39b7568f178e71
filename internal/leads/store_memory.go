package leads

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"homeleads/internal/identity"
	"homeleads/pkg/sentinel"
)

// InMemoryStore keeps lead events in memory for unit tests. It resolves
// attribute values through the identity in-memory store it shares with the
// test's normalizer.
type InMemoryStore struct {
	mu         sync.RWMutex
	events     []*Event
	identities *identity.InMemoryStore
}

func NewInMemoryStore(identities *identity.InMemoryStore) *InMemoryStore {
	return &InMemoryStore{identities: identities}
}

func (s *InMemoryStore) Insert(_ context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *event
	s.events = append(s.events, &clone)
	return nil
}

func (s *InMemoryStore) ListMessages(ctx context.Context, unreadOnly bool) ([]EventView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var views []EventView
	for _, e := range s.events {
		if e.Kind != KindContactMessage || !e.IsActive {
			continue
		}
		if unreadOnly && e.IsRead {
			continue
		}
		views = append(views, s.view(ctx, e))
	}
	sortNewestFirst(views)
	return views, nil
}

func (s *InMemoryStore) MarkRead(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.ID == id {
			e.IsRead = true
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemoryStore) ListOpenHouseGroups(ctx context.Context) ([]SignInGroup, error) {
	return s.groups(ctx, KindOpenHouse, func(v EventView) string { return v.Address })
}

func (s *InMemoryStore) ListEventGroups(ctx context.Context) ([]SignInGroup, error) {
	return s.groups(ctx, KindEvent, func(v EventView) string { return v.EventName })
}

func (s *InMemoryStore) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.ID == id {
			e.IsActive = active
			return nil
		}
	}
	return sentinel.ErrNotFound
}

// EventCount reports all stored events regardless of flags; test helper.
func (s *InMemoryStore) EventCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

func (s *InMemoryStore) groups(ctx context.Context, kind Kind, key func(EventView) string) ([]SignInGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var views []EventView
	for _, e := range s.events {
		if e.Kind != kind || !e.IsActive {
			continue
		}
		views = append(views, s.view(ctx, e))
	}
	sort.SliceStable(views, func(i, j int) bool { return key(views[i]) < key(views[j]) })

	var groups []SignInGroup
	index := make(map[string]int)
	for _, v := range views {
		k := key(v)
		i, ok := index[k]
		if !ok {
			index[k] = len(groups)
			groups = append(groups, SignInGroup{Key: k})
			i = len(groups) - 1
		}
		groups[i].SignIns = append(groups[i].SignIns, v)
	}
	return groups, nil
}

func (s *InMemoryStore) view(ctx context.Context, e *Event) EventView {
	v := EventView{
		ID:               e.ID,
		Kind:             e.Kind,
		Message:          e.Message,
		Address:          e.Address,
		WorksWithRealtor: e.WorksWithRealtor,
		RealtorName:      e.RealtorName,
		RealtorCompany:   e.RealtorCompany,
		EventName:        e.EventName,
		IsRead:           e.IsRead,
		IsActive:         e.IsActive,
		CreatedAt:        e.CreatedAt,
	}
	v.FirstName = s.attributeValue(ctx, identity.KindFirstName, e.Attrs.FirstNameID)
	v.LastName = s.attributeValue(ctx, identity.KindLastName, e.Attrs.LastNameID)
	v.Email = s.attributeValue(ctx, identity.KindEmail, e.Attrs.EmailID)
	v.Source = s.attributeValue(ctx, identity.KindSource, e.Attrs.SourceID)
	if e.Attrs.PhoneID != nil {
		phone := s.attributeValue(ctx, identity.KindPhone, *e.Attrs.PhoneID)
		v.Phone = &phone
	}
	return v
}

func (s *InMemoryStore) attributeValue(_ context.Context, kind identity.AttributeKind, id int64) string {
	return s.identities.AttributeValue(kind, id)
}

func sortNewestFirst(views []EventView) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
}
