// Package deals is the CRM pipeline: deals owned by an admin user, tagged
// with one of five stage labels, carrying a derived commission amount.
package deals

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Stage labels a deal's position in the pipeline. It is a free-form label,
// not a state machine: any stage can move to any other, including out of
// closed.
type Stage string

const (
	StageLead          Stage = "lead"
	StageClient        Stage = "client"
	StageUnderContract Stage = "under-contract"
	StageClosed        Stage = "closed"
	StageLost          Stage = "lost"
)

// Stages is the fixed reporting order. Aggregations emit every stage, with
// explicit zeros for stages not present.
var Stages = []Stage{StageLead, StageClient, StageUnderContract, StageClosed, StageLost}

func (s Stage) Valid() bool {
	switch s {
	case StageLead, StageClient, StageUnderContract, StageClosed, StageLost:
		return true
	}
	return false
}

// Deal is one pipeline record. HousePrice, CommissionPct and Commission are
// nil when unknown; Commission is derived, never entered directly.
type Deal struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	ContactID         *uuid.UUID `json:"contact_id,omitempty"`
	Title             string     `json:"title"`
	HousePrice        *float64   `json:"house_price,omitempty"`
	CommissionPct     *float64   `json:"commission_pct,omitempty"`
	Commission        *float64   `json:"commission,omitempty"`
	Stage             Stage      `json:"stage"`
	Probability       *int       `json:"probability,omitempty"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	Notes             string     `json:"notes"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ComputeCommission derives the commission dollar amount. Nil when either
// input is absent or not a finite number; no rounding (display rounds).
func ComputeCommission(housePrice, commissionPct *float64) *float64 {
	if housePrice == nil || commissionPct == nil {
		return nil
	}
	if math.IsNaN(*housePrice) || math.IsInf(*housePrice, 0) ||
		math.IsNaN(*commissionPct) || math.IsInf(*commissionPct, 0) {
		return nil
	}
	amount := *housePrice * *commissionPct / 100
	return &amount
}

// CreateRequest is the payload for creating a deal.
type CreateRequest struct {
	Title             string     `json:"title"`
	ContactID         *uuid.UUID `json:"contact_id,omitempty"`
	HousePrice        *float64   `json:"house_price,omitempty"`
	CommissionPct     *float64   `json:"commission_pct,omitempty"`
	Stage             Stage      `json:"stage,omitempty"`
	Probability       *int       `json:"probability,omitempty"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	Notes             string     `json:"notes,omitempty"`
}

// UpdateRequest is a patch: nil fields are left unchanged. Editing either
// HousePrice or CommissionPct recomputes the stored commission from the
// effective pair after the patch is applied.
type UpdateRequest struct {
	Title             *string    `json:"title,omitempty"`
	ContactID         *uuid.UUID `json:"contact_id,omitempty"`
	HousePrice        *float64   `json:"house_price,omitempty"`
	CommissionPct     *float64   `json:"commission_pct,omitempty"`
	Stage             *Stage     `json:"stage,omitempty"`
	Probability       *int       `json:"probability,omitempty"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}
