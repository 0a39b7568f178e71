package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeleads/internal/deals"
)

func f(v float64) *float64 { return &v }

func dealAt(stage deals.Stage, commission *float64) deals.Deal {
	return deals.Deal{Stage: stage, Commission: commission}
}

func TestAggregateEmpty(t *testing.T) {
	summary := Aggregate(nil)

	assert.Zero(t, summary.TotalRevenue)
	assert.Zero(t, summary.ActiveLeads)
	assert.Zero(t, summary.ConversionRate, "no division by zero")

	require.Len(t, summary.StageDistribution, 5)
	for i, stage := range deals.Stages {
		assert.Equal(t, stage, summary.StageDistribution[i].Stage)
		assert.Zero(t, summary.StageDistribution[i].Count)
	}
}

func TestAggregateConversionRate(t *testing.T) {
	summary := Aggregate([]deals.Deal{
		dealAt(deals.StageClosed, f(9000)),
		dealAt(deals.StageClosed, f(6000)),
		dealAt(deals.StageLost, nil),
	})

	assert.InDelta(t, 100.0*2/3, summary.ConversionRate, 1e-9)
	assert.InDelta(t, 15000, summary.TotalRevenue, 1e-9)
}

func TestAggregateRevenueOnlyClosedWithCommission(t *testing.T) {
	summary := Aggregate([]deals.Deal{
		dealAt(deals.StageClosed, f(10000)),
		dealAt(deals.StageClosed, nil),           // closed, commission unknown
		dealAt(deals.StageUnderContract, f(5000)), // not closed yet
	})

	assert.InDelta(t, 10000, summary.TotalRevenue, 1e-9)
}

func TestAggregateActiveLeads(t *testing.T) {
	summary := Aggregate([]deals.Deal{
		dealAt(deals.StageLead, nil),
		dealAt(deals.StageClient, nil),
		dealAt(deals.StageUnderContract, nil),
		dealAt(deals.StageClosed, nil),
		dealAt(deals.StageLost, nil),
	})

	assert.Equal(t, 3, summary.ActiveLeads)
}

func TestAggregateDistributionCompleteness(t *testing.T) {
	// Only lead-stage deals: every other stage still reports a zero.
	summary := Aggregate([]deals.Deal{
		dealAt(deals.StageLead, nil),
		dealAt(deals.StageLead, nil),
	})

	require.Len(t, summary.StageDistribution, 5)
	got := make(map[deals.Stage]int)
	for _, sc := range summary.StageDistribution {
		got[sc.Stage] = sc.Count
	}
	assert.Equal(t, 2, got[deals.StageLead])
	assert.Equal(t, 0, got[deals.StageClient])
	assert.Equal(t, 0, got[deals.StageUnderContract])
	assert.Equal(t, 0, got[deals.StageClosed])
	assert.Equal(t, 0, got[deals.StageLost])
}
