package planning

import "github.com/shopspring/decimal"

// TrendDirection is the sign of the demand change between windows
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// TrendStrength qualifies how pronounced the change is
type TrendStrength string

const (
	StrengthStrong   TrendStrength = "strong"   // |change| >= 20%
	StrengthModerate TrendStrength = "moderate" // |change| >= 5%
	StrengthNone     TrendStrength = ""
)

// VelocitySignal is the 90-vs-180-day velocity ratio classification
type VelocitySignal string

const (
	SignalGrowing   VelocitySignal = "growing"   // ratio > 1.20
	SignalStable    VelocitySignal = "stable"    // 0.80 .. 1.20
	SignalDeclining VelocitySignal = "declining" // ratio < 0.80
)

// VelocityConfidence grades the sample behind a velocity estimate
type VelocityConfidence string

const (
	ConfidenceHigh   VelocityConfidence = "high"   // >= 8 samples, cv < 0.5
	ConfidenceMedium VelocityConfidence = "medium" // >= 4 samples, cv < 1.0
	ConfidenceLow    VelocityConfidence = "low"
)

// TrendMetrics is the full per-SKU demand picture the velocity analyzer
// produces. Consumers take this struct, never a loose map.
type TrendMetrics struct {
	ProductID int
	SKU       string

	// DailyVelocityM2 is total m² sold in the window divided by window days.
	DailyVelocityM2 decimal.Decimal
	// CV is the coefficient of variation across weekly buckets.
	CV decimal.Decimal
	// SampleCount is the number of non-empty weekly buckets observed.
	SampleCount int

	Direction TrendDirection
	Strength  TrendStrength
	// ChangePct compares the current window against the prior window.
	ChangePct decimal.Decimal

	VelocityTrendSignal VelocitySignal
	Confidence          VelocityConfidence
}

// HasVelocity reports whether the SKU showed any demand at all
func (m *TrendMetrics) HasVelocity() bool {
	return m.DailyVelocityM2.Sign() > 0
}
