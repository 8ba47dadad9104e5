package planning

// ConfidenceBand expresses how much to trust a projection for a boat
// that departs a given number of days from today.
type ConfidenceBand struct {
	Label string
	Score int // 0-100; also drives the min/max uncertainty spread
}

// ConfidenceForDaysOut maps days-until-departure to a band. Nearer
// boats carry tighter projections.
func ConfidenceForDaysOut(daysOut int) ConfidenceBand {
	switch {
	case daysOut <= 14:
		return ConfidenceBand{Label: "very_high", Score: 95}
	case daysOut <= 30:
		return ConfidenceBand{Label: "high", Score: 80}
	case daysOut <= 60:
		return ConfidenceBand{Label: "medium", Score: 60}
	case daysOut <= 90:
		return ConfidenceBand{Label: "low", Score: 40}
	default:
		return ConfidenceBand{Label: "very_low", Score: 20}
	}
}

// Range spreads a projected pallet total into a min/max band:
// min = floor(total * score/100), max = floor(total * (2 - score/100)).
func (b ConfidenceBand) Range(totalPallets int) (min, max int) {
	min = totalPallets * b.Score / 100
	max = totalPallets * (200 - b.Score) / 100
	return min, max
}
