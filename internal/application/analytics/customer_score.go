package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tileplanner-go/internal/domain/sales"
)

// CustomerScorer turns customer patterns into per-SKU demand scores.
// A SKU's score is the sum over customers that habitually buy it of
// tier_weight x overdue_multiplier; overdue customers push their
// products up the ordering queue.
type CustomerScorer struct {
	patterns []*sales.CustomerPattern
}

// NewCustomerScorer creates a scorer over a loaded pattern set
func NewCustomerScorer(patterns []*sales.CustomerPattern) *CustomerScorer {
	return &CustomerScorer{patterns: patterns}
}

// ScoresBySKU computes the demand score per SKU as of today
func (s *CustomerScorer) ScoresBySKU(today time.Time) map[string]int {
	scores := make(map[string]int)
	for _, p := range s.patterns {
		weight := decimal.NewFromInt(int64(p.Tier.Weight()))
		contribution := weight.Mul(p.OverdueMultiplier(today))
		for _, sku := range p.TopProducts {
			scores[sku] += int(contribution.IntPart())
		}
	}
	return scores
}

// PrimaryCustomerBySKU maps each SKU to its highest-revenue habitual
// buyer; BL allocation groups a customer's products into one BL.
func (s *CustomerScorer) PrimaryCustomerBySKU() map[string]string {
	best := make(map[string]*sales.CustomerPattern)
	for _, p := range s.patterns {
		for _, sku := range p.TopProducts {
			if cur, ok := best[sku]; !ok || p.TotalRevenueUSD.GreaterThan(cur.TotalRevenueUSD) {
				best[sku] = p
			}
		}
	}
	out := make(map[string]string, len(best))
	for sku, p := range best {
		out[sku] = p.CustomerNormalized
	}
	return out
}

// ExpectedDueM2BySKU sums avg order size over customers currently
// overdue, per SKU. Only consulted when the coverage-gap injection
// flag is on.
func (s *CustomerScorer) ExpectedDueM2BySKU(today time.Time) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, p := range s.patterns {
		if p.DaysOverdue(today) == 0 {
			continue
		}
		for _, sku := range p.TopProducts {
			out[sku] = out[sku].Add(p.AvgOrderM2)
		}
	}
	return out
}

// AssignTiers classifies customers A/B/C by cumulative revenue share:
// the customers making up the first 20% of revenue are A, the next 30%
// B, the rest C. Input patterns are re-sorted by revenue descending.
func AssignTiers(patterns []*sales.CustomerPattern) {
	sorted := make([]*sales.CustomerPattern, len(patterns))
	copy(sorted, patterns)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TotalRevenueUSD.GreaterThan(sorted[j].TotalRevenueUSD)
	})

	var total decimal.Decimal
	for _, p := range sorted {
		total = total.Add(p.TotalRevenueUSD)
	}
	if total.Sign() == 0 {
		for _, p := range sorted {
			p.Tier = sales.TierC
		}
		return
	}

	aCut := total.Mul(decimal.NewFromFloat(0.20))
	bCut := total.Mul(decimal.NewFromFloat(0.50))
	var running decimal.Decimal
	for _, p := range sorted {
		running = running.Add(p.TotalRevenueUSD)
		switch {
		case running.LessThanOrEqual(aCut):
			p.Tier = sales.TierA
		case running.LessThanOrEqual(bCut):
			p.Tier = sales.TierB
		default:
			p.Tier = sales.TierC
		}
	}
}
