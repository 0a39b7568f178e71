// Package identity resolves raw lead submissions into deduplicated attribute
// rows and contact records. Attributes (first name, last name, email, phone,
// source) live in per-kind lookup tables keyed by exact value; a contact is
// the deduplicated person behind an (email, phone) identity pair.
package identity

import (
	"time"

	"github.com/google/uuid"
)

// AttributeKind names one of the five attribute lookup tables.
type AttributeKind string

const (
	KindFirstName AttributeKind = "first_name"
	KindLastName  AttributeKind = "last_name"
	KindEmail     AttributeKind = "email"
	KindPhone     AttributeKind = "phone"
	KindSource    AttributeKind = "source"
)

// Submission is a raw lead form payload before normalization. Phone is
// optional; an empty string means not provided.
type Submission struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Source    string
}

// AttributeIDs references the resolved lookup rows for one submission.
type AttributeIDs struct {
	FirstNameID int64
	LastNameID  int64
	EmailID     int64
	PhoneID     *int64
	SourceID    int64
}

// Contact is the deduplicated person record. The identity key is
// (EmailID, PhoneID) where PhoneID may be nil.
type Contact struct {
	ID          uuid.UUID
	FirstNameID int64
	LastNameID  int64
	EmailID     int64
	PhoneID     *int64
	SourceID    int64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ContactView is a contact with its attribute values resolved, for the admin
// follow-up surface.
type ContactView struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Source    string    `json:"source"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
