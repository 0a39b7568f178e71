// Package leads captures form submissions as append-only lead events. Events
// are never deduplicated; the same person signing in twice produces two rows,
// grouped by address or event name only at read time.
package leads

import (
	"time"

	"github.com/google/uuid"

	"homeleads/internal/identity"
)

// Kind discriminates the three lead event shapes.
type Kind string

const (
	KindContactMessage Kind = "contact_message"
	KindOpenHouse      Kind = "open_house"
	KindEvent          Kind = "event"
)

// Event is one captured submission. Attribute references point at the
// deduplicated lookup tables; the kind-specific fields are stored inline.
type Event struct {
	ID    uuid.UUID
	Kind  Kind
	Attrs identity.AttributeIDs

	// contact_message
	Message string

	// open_house
	Address          string
	WorksWithRealtor *bool
	RealtorName      string
	RealtorCompany   string

	// event
	EventName string

	IsRead    bool
	IsActive  bool
	CreatedAt time.Time
}

// EventView is an event with attribute values resolved for the admin inbox.
type EventView struct {
	ID               uuid.UUID `json:"id"`
	Kind             Kind      `json:"kind"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email"`
	Phone            *string   `json:"phone,omitempty"`
	Source           string    `json:"source"`
	Message          string    `json:"message,omitempty"`
	Address          string    `json:"address,omitempty"`
	WorksWithRealtor *bool     `json:"works_with_realtor,omitempty"`
	RealtorName      string    `json:"realtor_name,omitempty"`
	RealtorCompany   string    `json:"realtor_company,omitempty"`
	EventName        string    `json:"event_name,omitempty"`
	IsRead           bool      `json:"is_read"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

// SignInGroup bundles sign-ins under their correlating key (an open-house
// address or an event name).
type SignInGroup struct {
	Key     string      `json:"key"`
	SignIns []EventView `json:"sign_ins"`
}

// ContactRequest is the public contact-form payload.
type ContactRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Message   string `json:"message"`
}

// OpenHouseRequest is the public open-house sign-in payload.
type OpenHouseRequest struct {
	Address          string `json:"address"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	WorksWithRealtor bool   `json:"works_with_realtor"`
	RealtorName      string `json:"realtor_name,omitempty"`
	RealtorCompany   string `json:"realtor_company,omitempty"`
}

// EventRequest is the public event sign-in payload.
type EventRequest struct {
	EventName string `json:"event_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}
