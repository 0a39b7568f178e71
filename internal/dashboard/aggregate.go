// Package dashboard aggregates pipeline and lead data into the admin summary.
package dashboard

import (
	"homeleads/internal/deals"
)

// StageCount is one bucket of the stage distribution.
type StageCount struct {
	Stage deals.Stage `json:"stage"`
	Count int         `json:"count"`
}

// Summary is the dashboard payload.
type Summary struct {
	// TotalRevenue sums commission over closed deals that have one.
	TotalRevenue float64 `json:"total_revenue"`
	// ActiveLeads counts deals in lead, client or under-contract.
	ActiveLeads int `json:"active_leads"`
	// ConversionRate is closed/(closed+lost) as a percentage, 0 when no
	// deal has reached either terminal label yet.
	ConversionRate float64 `json:"conversion_rate"`
	// StageDistribution covers every stage in pipeline order, zeros
	// included.
	StageDistribution []StageCount `json:"stage_distribution"`

	ContactCount   int `json:"contact_count"`
	UnreadMessages int `json:"unread_messages"`
}

// Aggregate folds a deal set into the summary's pipeline metrics.
func Aggregate(dealSet []deals.Deal) Summary {
	counts := make(map[deals.Stage]int, len(deals.Stages))
	var revenue float64
	for _, d := range dealSet {
		counts[d.Stage]++
		if d.Stage == deals.StageClosed && d.Commission != nil {
			revenue += *d.Commission
		}
	}

	closed := counts[deals.StageClosed]
	lost := counts[deals.StageLost]
	var conversion float64
	if closed+lost > 0 {
		conversion = float64(closed) / float64(closed+lost) * 100
	}

	distribution := make([]StageCount, 0, len(deals.Stages))
	for _, stage := range deals.Stages {
		distribution = append(distribution, StageCount{Stage: stage, Count: counts[stage]})
	}

	return Summary{
		TotalRevenue:      revenue,
		ActiveLeads:       counts[deals.StageLead] + counts[deals.StageClient] + counts[deals.StageUnderContract],
		ConversionRate:    conversion,
		StageDistribution: distribution,
	}
}
