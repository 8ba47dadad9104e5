package analytics

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/planning"
	"github.com/andrescamacho/tileplanner-go/internal/domain/sales"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// SalesReader is the slice of the store the analyzer needs
type SalesReader interface {
	FindInWindow(ctx context.Context, from, to time.Time) ([]*sales.Record, error)
}

// VelocityAnalyzer aggregates weekly sales into per-SKU daily demand
// rates and trend classifications. Velocity is a sliding-window mean;
// no forecasting model is involved.
type VelocityAnalyzer struct {
	salesReader  SalesReader
	clock        shared.Clock
	lookbackDays int
}

// NewVelocityAnalyzer creates an analyzer with the given lookback window
func NewVelocityAnalyzer(salesReader SalesReader, clock shared.Clock, lookbackDays int) *VelocityAnalyzer {
	return &VelocityAnalyzer{
		salesReader:  salesReader,
		clock:        clock,
		lookbackDays: lookbackDays,
	}
}

// Analyze computes TrendMetrics for every given product. Products with
// zero sales still produce a metric: velocity 0, direction stable,
// confidence low. Never an error for missing data.
func (a *VelocityAnalyzer) Analyze(ctx context.Context, products []*catalog.Product) (map[int]*planning.TrendMetrics, error) {
	today := a.clock.Today()

	// One read covers both the trend comparison (two lookback windows
	// back-to-back) and the 180-day signal window.
	from := today.AddDate(0, 0, -2*a.lookbackDays)
	records, err := a.salesReader.FindInWindow(ctx, from, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	currentStart := today.AddDate(0, 0, -a.lookbackDays)

	type accum struct {
		currentTotal decimal.Decimal
		priorTotal   decimal.Decimal
		fullTotal    decimal.Decimal
		weekly       map[time.Time]decimal.Decimal // current-window buckets
	}
	byProduct := make(map[int]*accum)
	for _, rec := range records {
		acc := byProduct[rec.ProductID]
		if acc == nil {
			acc = &accum{weekly: make(map[time.Time]decimal.Decimal)}
			byProduct[rec.ProductID] = acc
		}
		acc.fullTotal = acc.fullTotal.Add(rec.QuantityM2)
		if rec.WeekStart.Before(currentStart) {
			acc.priorTotal = acc.priorTotal.Add(rec.QuantityM2)
		} else {
			acc.currentTotal = acc.currentTotal.Add(rec.QuantityM2)
			acc.weekly[rec.WeekStart] = acc.weekly[rec.WeekStart].Add(rec.QuantityM2)
		}
	}

	out := make(map[int]*planning.TrendMetrics, len(products))
	for _, p := range products {
		metrics := &planning.TrendMetrics{
			ProductID:           p.ID,
			SKU:                 p.SKU,
			Direction:           planning.TrendStable,
			VelocityTrendSignal: planning.SignalStable,
			Confidence:          planning.ConfidenceLow,
		}
		acc := byProduct[p.ID]
		if acc == nil || acc.fullTotal.Sign() == 0 {
			out[p.ID] = metrics
			continue
		}

		days := decimal.NewFromInt(int64(a.lookbackDays))
		metrics.DailyVelocityM2 = acc.currentTotal.Div(days).Round(shared.QuantityScale)
		metrics.SampleCount = len(acc.weekly)
		metrics.CV = weeklyCV(acc.weekly)
		metrics.ChangePct = changePct(acc.currentTotal, acc.priorTotal)
		metrics.Direction, metrics.Strength = classifyDirection(metrics.ChangePct)
		metrics.VelocityTrendSignal = velocitySignal(acc.currentTotal, acc.fullTotal, a.lookbackDays)
		metrics.Confidence = classifyConfidence(metrics.SampleCount, metrics.CV)

		out[p.ID] = metrics
	}
	return out, nil
}

// weeklyCV is std-dev over mean across the weekly buckets. Statistics
// only - this value never enters supply-conservation arithmetic, so
// float math is fine here.
func weeklyCV(weekly map[time.Time]decimal.Decimal) decimal.Decimal {
	if len(weekly) == 0 {
		return decimal.Zero
	}
	var sum float64
	values := make([]float64, 0, len(weekly))
	for _, q := range weekly {
		v, _ := q.Float64()
		values = append(values, v)
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return decimal.Zero
	}
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sq / float64(len(values)))
	return shared.DecFromFloat(std / mean)
}

func changePct(current, prior decimal.Decimal) decimal.Decimal {
	if prior.Sign() == 0 {
		if current.Sign() == 0 {
			return decimal.Zero
		}
		return decimal.NewFromInt(100)
	}
	return current.Sub(prior).Div(prior).Mul(decimal.NewFromInt(100)).Round(2)
}

func classifyDirection(changePct decimal.Decimal) (planning.TrendDirection, planning.TrendStrength) {
	abs := changePct.Abs()
	if abs.LessThan(decimal.NewFromInt(5)) {
		return planning.TrendStable, planning.StrengthNone
	}
	dir := planning.TrendUp
	if changePct.Sign() < 0 {
		dir = planning.TrendDown
	}
	if abs.GreaterThanOrEqual(decimal.NewFromInt(20)) {
		return dir, planning.StrengthStrong
	}
	return dir, planning.StrengthModerate
}

// velocitySignal compares the lookback-window velocity against the
// double-window velocity: ratio beyond 1.20 / 0.80 flags growth or decline.
func velocitySignal(currentTotal, fullTotal decimal.Decimal, lookbackDays int) planning.VelocitySignal {
	if fullTotal.Sign() == 0 {
		return planning.SignalStable
	}
	vShort := currentTotal.Div(decimal.NewFromInt(int64(lookbackDays)))
	vLong := fullTotal.Div(decimal.NewFromInt(int64(2 * lookbackDays)))
	if vLong.Sign() == 0 {
		return planning.SignalStable
	}
	ratio := vShort.Div(vLong)
	switch {
	case ratio.GreaterThan(decimal.NewFromFloat(1.20)):
		return planning.SignalGrowing
	case ratio.LessThan(decimal.NewFromFloat(0.80)):
		return planning.SignalDeclining
	default:
		return planning.SignalStable
	}
}

func classifyConfidence(sampleCount int, cv decimal.Decimal) planning.VelocityConfidence {
	switch {
	case sampleCount >= 8 && cv.LessThan(decimal.NewFromFloat(0.5)):
		return planning.ConfidenceHigh
	case sampleCount >= 4 && cv.LessThan(decimal.NewFromFloat(1.0)):
		return planning.ConfidenceMedium
	default:
		return planning.ConfidenceLow
	}
}
