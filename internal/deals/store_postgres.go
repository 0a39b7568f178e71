package deals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"homeleads/pkg/sentinel"
)

// PostgresStore persists deals in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const dealColumns = `id, user_id, contact_id, title, house_price, commission_pct, commission, stage, probability, expected_close_date, notes, created_at, updated_at`

func (s *PostgresStore) Insert(ctx context.Context, deal *Deal) error {
	if deal == nil {
		return fmt.Errorf("deal is required")
	}
	query := `
		INSERT INTO deals (` + dealColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(ctx, query,
		deal.ID,
		deal.UserID,
		deal.ContactID,
		deal.Title,
		deal.HousePrice,
		deal.CommissionPct,
		deal.Commission,
		deal.Stage,
		deal.Probability,
		deal.ExpectedCloseDate,
		deal.Notes,
		deal.CreatedAt,
		deal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert deal: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`
	deal, err := scanDeal(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get deal: %w", err)
	}
	return deal, nil
}

func (s *PostgresStore) Update(ctx context.Context, deal *Deal) error {
	if deal == nil {
		return fmt.Errorf("deal is required")
	}
	query := `
		UPDATE deals SET
			contact_id = $2, title = $3, house_price = $4, commission_pct = $5,
			commission = $6, stage = $7, probability = $8, expected_close_date = $9,
			notes = $10, updated_at = $11
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		deal.ID,
		deal.ContactID,
		deal.Title,
		deal.HousePrice,
		deal.CommissionPct,
		deal.Commission,
		deal.Stage,
		deal.Probability,
		deal.ExpectedCloseDate,
		deal.Notes,
		deal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update deal rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete deal rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE user_id = $1 ORDER BY updated_at DESC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	var result []Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		result = append(result, *deal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeal(row rowScanner) (*Deal, error) {
	var deal Deal
	var contactID uuid.NullUUID
	var housePrice, commissionPct, commission sql.NullFloat64
	var probability sql.NullInt64
	var expectedCloseDate sql.NullTime
	err := row.Scan(
		&deal.ID,
		&deal.UserID,
		&contactID,
		&deal.Title,
		&housePrice,
		&commissionPct,
		&commission,
		&deal.Stage,
		&probability,
		&expectedCloseDate,
		&deal.Notes,
		&deal.CreatedAt,
		&deal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if contactID.Valid {
		deal.ContactID = &contactID.UUID
	}
	if housePrice.Valid {
		deal.HousePrice = &housePrice.Float64
	}
	if commissionPct.Valid {
		deal.CommissionPct = &commissionPct.Float64
	}
	if commission.Valid {
		deal.Commission = &commission.Float64
	}
	if probability.Valid {
		p := int(probability.Int64)
		deal.Probability = &p
	}
	if expectedCloseDate.Valid {
		deal.ExpectedCloseDate = &expectedCloseDate.Time
	}
	return &deal, nil
}
