package leads

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"homeleads/pkg/sentinel"
)

// PostgresStore persists lead events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, event *Event) error {
	if event == nil {
		return fmt.Errorf("event is required")
	}
	query := `
		INSERT INTO lead_events (
			id, kind, first_name_id, last_name_id, email_id, phone_id, source_id,
			message, address, works_with_realtor, realtor_name, realtor_company, event_name,
			is_read, is_active, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.Kind,
		event.Attrs.FirstNameID,
		event.Attrs.LastNameID,
		event.Attrs.EmailID,
		event.Attrs.PhoneID,
		event.Attrs.SourceID,
		nullIfEmpty(event.Message),
		nullIfEmpty(event.Address),
		event.WorksWithRealtor,
		nullIfEmpty(event.RealtorName),
		nullIfEmpty(event.RealtorCompany),
		nullIfEmpty(event.EventName),
		event.IsRead,
		event.IsActive,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead event: %w", err)
	}
	return nil
}

const eventViewQuery = `
	SELECT le.id, le.kind, fn.value, ln.value, e.value, p.value, src.value,
	       le.message, le.address, le.works_with_realtor, le.realtor_name, le.realtor_company, le.event_name,
	       le.is_read, le.is_active, le.created_at
	FROM lead_events le
	JOIN first_names fn ON fn.id = le.first_name_id
	JOIN last_names ln ON ln.id = le.last_name_id
	JOIN emails e ON e.id = le.email_id
	LEFT JOIN phones p ON p.id = le.phone_id
	JOIN sources src ON src.id = le.source_id
`

func (s *PostgresStore) ListMessages(ctx context.Context, unreadOnly bool) ([]EventView, error) {
	query := eventViewQuery + ` WHERE le.kind = 'contact_message' AND le.is_active`
	if unreadOnly {
		query += ` AND NOT le.is_read`
	}
	query += ` ORDER BY le.created_at DESC`

	views, err := s.queryViews(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return views, nil
}

func (s *PostgresStore) MarkRead(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `UPDATE lead_events SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark lead event read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark lead event read rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListOpenHouseGroups(ctx context.Context) ([]SignInGroup, error) {
	query := eventViewQuery + ` WHERE le.kind = 'open_house' AND le.is_active ORDER BY le.address, le.created_at DESC`
	views, err := s.queryViews(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list open house sign-ins: %w", err)
	}
	return groupBy(views, func(v EventView) string { return v.Address }), nil
}

func (s *PostgresStore) ListEventGroups(ctx context.Context) ([]SignInGroup, error) {
	query := eventViewQuery + ` WHERE le.kind = 'event' AND le.is_active ORDER BY le.event_name, le.created_at DESC`
	views, err := s.queryViews(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list event sign-ins: %w", err)
	}
	return groupBy(views, func(v EventView) string { return v.EventName }), nil
}

func (s *PostgresStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := s.db.ExecContext(ctx, `UPDATE lead_events SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set lead event active: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set lead event active rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) queryViews(ctx context.Context, query string) ([]EventView, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []EventView
	for rows.Next() {
		var v EventView
		var phone, message, address, realtorName, realtorCompany, eventName sql.NullString
		var worksWithRealtor sql.NullBool
		err := rows.Scan(
			&v.ID, &v.Kind, &v.FirstName, &v.LastName, &v.Email, &phone, &v.Source,
			&message, &address, &worksWithRealtor, &realtorName, &realtorCompany, &eventName,
			&v.IsRead, &v.IsActive, &v.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if phone.Valid {
			v.Phone = &phone.String
		}
		v.Message = message.String
		v.Address = address.String
		if worksWithRealtor.Valid {
			v.WorksWithRealtor = &worksWithRealtor.Bool
		}
		v.RealtorName = realtorName.String
		v.RealtorCompany = realtorCompany.String
		v.EventName = eventName.String
		views = append(views, v)
	}
	return views, rows.Err()
}

// groupBy preserves the input ordering of keys.
func groupBy(views []EventView, key func(EventView) string) []SignInGroup {
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
	return groups
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
