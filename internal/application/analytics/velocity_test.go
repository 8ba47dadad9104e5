package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/planning"
	"github.com/andrescamacho/tileplanner-go/internal/domain/sales"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

var analyticsToday = shared.Date(2026, time.March, 1)

type fakeSalesReader struct {
	records []*sales.Record
}

func (f *fakeSalesReader) FindInWindow(_ context.Context, from, to time.Time) ([]*sales.Record, error) {
	var out []*sales.Record
	for _, rec := range f.records {
		if !rec.WeekStart.Before(from) && rec.WeekStart.Before(to) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func weeklyRecord(productID int, weekStart time.Time, m2 int) *sales.Record {
	return &sales.Record{
		ProductID:  productID,
		WeekStart:  weekStart,
		QuantityM2: decimal.NewFromInt(int64(m2)),
	}
}

func TestAnalyzeComputesVelocityAndTrend(t *testing.T) {
	// Current 28-day window: 4 weeks of 140 m2. Prior window: 4 weeks
	// of 70 m2. Demand doubled.
	reader := &fakeSalesReader{records: []*sales.Record{
		weeklyRecord(1, shared.Date(2026, time.February, 2), 140),
		weeklyRecord(1, shared.Date(2026, time.February, 9), 140),
		weeklyRecord(1, shared.Date(2026, time.February, 16), 140),
		weeklyRecord(1, shared.Date(2026, time.February, 23), 140),
		weeklyRecord(1, shared.Date(2026, time.January, 5), 70),
		weeklyRecord(1, shared.Date(2026, time.January, 12), 70),
		weeklyRecord(1, shared.Date(2026, time.January, 19), 70),
		weeklyRecord(1, shared.Date(2026, time.January, 26), 70),
	}}
	analyzer := NewVelocityAnalyzer(reader, shared.NewFixedClock(analyticsToday), 28)

	metrics, err := analyzer.Analyze(context.Background(), []*catalog.Product{
		{ID: 1, SKU: "BALTICO 51X51", Active: true},
	})
	require.NoError(t, err)

	m := metrics[1]
	require.NotNil(t, m)
	assert.True(t, m.DailyVelocityM2.Equal(decimal.NewFromInt(20)), "560 m2 over 28 days, got %s", m.DailyVelocityM2)
	assert.True(t, m.ChangePct.Equal(decimal.NewFromInt(100)), "got %s", m.ChangePct)
	assert.Equal(t, planning.TrendUp, m.Direction)
	assert.Equal(t, planning.StrengthStrong, m.Strength)
	assert.Equal(t, planning.SignalGrowing, m.VelocityTrendSignal)
	assert.Equal(t, 4, m.SampleCount)
}

func TestAnalyzeZeroSalesStillProducesMetric(t *testing.T) {
	analyzer := NewVelocityAnalyzer(&fakeSalesReader{}, shared.NewFixedClock(analyticsToday), 28)

	metrics, err := analyzer.Analyze(context.Background(), []*catalog.Product{
		{ID: 7, SKU: "CARRARA 51X51", Active: true},
	})
	require.NoError(t, err)

	m := metrics[7]
	require.NotNil(t, m)
	assert.True(t, m.DailyVelocityM2.IsZero())
	assert.Equal(t, planning.TrendStable, m.Direction)
	assert.Equal(t, planning.ConfidenceLow, m.Confidence)
}

func TestAnalyzeDecliningSignal(t *testing.T) {
	// Prior window strong, current window weak.
	reader := &fakeSalesReader{records: []*sales.Record{
		weeklyRecord(1, shared.Date(2026, time.February, 9), 35),
		weeklyRecord(1, shared.Date(2026, time.January, 5), 140),
		weeklyRecord(1, shared.Date(2026, time.January, 12), 140),
		weeklyRecord(1, shared.Date(2026, time.January, 19), 140),
	}}
	analyzer := NewVelocityAnalyzer(reader, shared.NewFixedClock(analyticsToday), 28)

	metrics, err := analyzer.Analyze(context.Background(), []*catalog.Product{
		{ID: 1, SKU: "BALTICO 51X51", Active: true},
	})
	require.NoError(t, err)

	m := metrics[1]
	assert.Equal(t, planning.TrendDown, m.Direction)
	assert.Equal(t, planning.SignalDeclining, m.VelocityTrendSignal)
}
