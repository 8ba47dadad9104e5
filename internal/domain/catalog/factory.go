package catalog

import (
	"fmt"
	"strings"
	"time"
)

// UnitType distinguishes factories that quote in square meters from
// those that quote in discrete units.
type UnitType string

const (
	UnitTypeM2    UnitType = "m2"
	UnitTypeUnits UnitType = "units"
)

// ParseUnitType converts the stored column value into the sum type
func ParseUnitType(s string) (UnitType, error) {
	switch UnitType(strings.ToLower(s)) {
	case UnitTypeM2:
		return UnitTypeM2, nil
	case UnitTypeUnits:
		return UnitTypeUnits, nil
	}
	return "", fmt.Errorf("unknown unit type %q", s)
}

// Factory is an immutable snapshot of an offshore production source.
// Unit-based factories have no finished-goods (SIESA) step in their
// deadline chain.
type Factory struct {
	ID                  int
	Name                string
	OriginPort          string
	ProductionLeadDays  int
	TransportToPortDays int
	CutoffDay           time.Weekday // weekday on which production-schedule adds close
	UnitType            UnitType
	Active              bool
	SortOrder           int
}

// LeadTimeDays is production floor time plus factory-to-port transport
func (f *Factory) LeadTimeDays() int {
	return f.ProductionLeadDays + f.TransportToPortDays
}

// HasSiesaStep reports whether the factory carries a finished-goods
// warehouse at origin. Unit-based factories ship straight from the line.
func (f *Factory) HasSiesaStep() bool {
	return f.UnitType == UnitTypeM2
}

// ParseCutoffDay converts a stored weekday name ("tuesday") into time.Weekday
func ParseCutoffDay(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), s) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown cutoff day %q", s)
}
