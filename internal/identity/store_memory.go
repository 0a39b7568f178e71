package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"homeleads/pkg/sentinel"
)

// InMemoryStore is a map-backed Store for unit tests and local development.
type InMemoryStore struct {
	mu         sync.RWMutex
	attributes map[AttributeKind]map[string]int64
	values     map[AttributeKind]map[int64]string
	nextID     int64
	contacts   map[uuid.UUID]*Contact
}

func NewInMemoryStore() *InMemoryStore {
	attributes := make(map[AttributeKind]map[string]int64)
	values := make(map[AttributeKind]map[int64]string)
	for _, kind := range []AttributeKind{KindFirstName, KindLastName, KindEmail, KindPhone, KindSource} {
		attributes[kind] = make(map[string]int64)
		values[kind] = make(map[int64]string)
	}
	return &InMemoryStore{
		attributes: attributes,
		values:     values,
		contacts:   make(map[uuid.UUID]*Contact),
	}
}

func (s *InMemoryStore) ResolveAttribute(_ context.Context, kind AttributeKind, value string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.attributes[kind][value]; ok {
		return id, nil
	}
	s.nextID++
	s.attributes[kind][value] = s.nextID
	s.values[kind][s.nextID] = value
	return s.nextID, nil
}

// AttributeValue returns the stored value for an attribute row, or "" when
// the id is unknown; used by test doubles that join against this store.
func (s *InMemoryStore) AttributeValue(kind AttributeKind, id int64) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[kind][id]
}

// AttributeCount reports how many rows exist for a kind; test helper.
func (s *InMemoryStore) AttributeCount(kind AttributeKind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.attributes[kind])
}

func (s *InMemoryStore) FindContactByEmailAndPhone(_ context.Context, emailID, phoneID int64) (*Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.contacts {
		if c.EmailID == emailID && c.PhoneID != nil && *c.PhoneID == phoneID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindContactByEmailNoPhone(_ context.Context, emailID int64) (*Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.contacts {
		if c.EmailID == emailID && c.PhoneID == nil {
			clone := *c
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) InsertContact(_ context.Context, contact *Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.contacts {
		if c.EmailID != contact.EmailID {
			continue
		}
		bothNil := c.PhoneID == nil && contact.PhoneID == nil
		bothSame := c.PhoneID != nil && contact.PhoneID != nil && *c.PhoneID == *contact.PhoneID
		if bothNil || bothSame {
			return sentinel.ErrConflict
		}
	}
	clone := *contact
	s.contacts[contact.ID] = &clone
	return nil
}

func (s *InMemoryStore) TouchContact(_ context.Context, id uuid.UUID, sourceID int64, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	c.SourceID = sourceID
	c.UpdatedAt = updatedAt
	return nil
}

func (s *InMemoryStore) ListContacts(_ context.Context) ([]ContactView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	views := make([]ContactView, 0, len(s.contacts))
	for _, c := range s.contacts {
		if !c.IsActive {
			continue
		}
		views = append(views, s.view(c))
	}
	return views, nil
}

func (s *InMemoryStore) GetContact(_ context.Context, id uuid.UUID) (*ContactView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contacts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	view := s.view(c)
	return &view, nil
}

func (s *InMemoryStore) SetContactActive(_ context.Context, id uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	c.IsActive = active
	return nil
}

// ContactCount reports the number of contact rows; test helper.
func (s *InMemoryStore) ContactCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contacts)
}

func (s *InMemoryStore) view(c *Contact) ContactView {
	view := ContactView{
		ID:        c.ID,
		FirstName: s.values[KindFirstName][c.FirstNameID],
		LastName:  s.values[KindLastName][c.LastNameID],
		Email:     s.values[KindEmail][c.EmailID],
		Source:    s.values[KindSource][c.SourceID],
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.PhoneID != nil {
		phone := s.values[KindPhone][*c.PhoneID]
		view.Phone = &phone
	}
	return view
}
