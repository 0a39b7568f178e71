package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"homeleads/pkg/sentinel"
)

// PostgresStore persists attributes and contacts in PostgreSQL.
// This store is pure I/O; matching rules and normalization belong in the
// Normalizer service.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func attributeTable(kind AttributeKind) (string, error) {
	switch kind {
	case KindFirstName:
		return "first_names", nil
	case KindLastName:
		return "last_names", nil
	case KindEmail:
		return "emails", nil
	case KindPhone:
		return "phones", nil
	case KindSource:
		return "sources", nil
	default:
		return "", fmt.Errorf("unknown attribute kind %q", kind)
	}
}

// ResolveAttribute gets or creates the lookup row in a single round trip.
// The no-op DO UPDATE makes the statement return the existing id on conflict,
// which also closes the concurrent first-insert race.
func (s *PostgresStore) ResolveAttribute(ctx context.Context, kind AttributeKind, value string) (int64, error) {
	table, err := attributeTable(kind)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (value) VALUES ($1)
		ON CONFLICT (value) DO UPDATE SET value = EXCLUDED.value
		RETURNING id
	`, table)
	var id int64
	if err := s.db.QueryRowContext(ctx, query, value).Scan(&id); err != nil {
		return 0, fmt.Errorf("resolve %s attribute: %w", kind, err)
	}
	return id, nil
}

const contactColumns = `id, first_name_id, last_name_id, email_id, phone_id, source_id, is_active, created_at, updated_at`

func (s *PostgresStore) FindContactByEmailAndPhone(ctx context.Context, emailID, phoneID int64) (*Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE email_id = $1 AND phone_id = $2
	`
	contact, err := scanContact(s.db.QueryRowContext(ctx, query, emailID, phoneID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find contact by email and phone: %w", err)
	}
	return contact, nil
}

func (s *PostgresStore) FindContactByEmailNoPhone(ctx context.Context, emailID int64) (*Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE email_id = $1 AND phone_id IS NULL
	`
	contact, err := scanContact(s.db.QueryRowContext(ctx, query, emailID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find contact by email without phone: %w", err)
	}
	return contact, nil
}

func (s *PostgresStore) InsertContact(ctx context.Context, contact *Contact) error {
	if contact == nil {
		return fmt.Errorf("contact is required")
	}
	query := `
		INSERT INTO contacts (id, first_name_id, last_name_id, email_id, phone_id, source_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		contact.ID,
		contact.FirstNameID,
		contact.LastNameID,
		contact.EmailID,
		contact.PhoneID,
		contact.SourceID,
		contact.IsActive,
		contact.CreatedAt,
		contact.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (s *PostgresStore) TouchContact(ctx context.Context, id uuid.UUID, sourceID int64, updatedAt time.Time) error {
	query := `UPDATE contacts SET source_id = $2, updated_at = $3 WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id, sourceID, updatedAt)
	if err != nil {
		return fmt.Errorf("touch contact: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch contact rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

const contactViewQuery = `
	SELECT c.id, fn.value, ln.value, e.value, p.value, src.value, c.is_active, c.created_at, c.updated_at
	FROM contacts c
	JOIN first_names fn ON fn.id = c.first_name_id
	JOIN last_names ln ON ln.id = c.last_name_id
	JOIN emails e ON e.id = c.email_id
	LEFT JOIN phones p ON p.id = c.phone_id
	JOIN sources src ON src.id = c.source_id
`

func (s *PostgresStore) ListContacts(ctx context.Context) ([]ContactView, error) {
	rows, err := s.db.QueryContext(ctx, contactViewQuery+` WHERE c.is_active ORDER BY c.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []ContactView
	for rows.Next() {
		view, err := scanContactView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (s *PostgresStore) GetContact(ctx context.Context, id uuid.UUID) (*ContactView, error) {
	row := s.db.QueryRowContext(ctx, contactViewQuery+` WHERE c.id = $1`, id)
	view, err := scanContactView(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return view, nil
}

func (s *PostgresStore) SetContactActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := s.db.ExecContext(ctx, `UPDATE contacts SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set contact active: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set contact active rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*Contact, error) {
	var contact Contact
	var phoneID sql.NullInt64
	err := row.Scan(
		&contact.ID,
		&contact.FirstNameID,
		&contact.LastNameID,
		&contact.EmailID,
		&phoneID,
		&contact.SourceID,
		&contact.IsActive,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phoneID.Valid {
		contact.PhoneID = &phoneID.Int64
	}
	return &contact, nil
}

func scanContactView(row rowScanner) (*ContactView, error) {
	var view ContactView
	var phone sql.NullString
	err := row.Scan(
		&view.ID,
		&view.FirstName,
		&view.LastName,
		&view.Email,
		&phone,
		&view.Source,
		&view.IsActive,
		&view.CreatedAt,
		&view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		view.Phone = &phone.String
	}
	return &view, nil
}
