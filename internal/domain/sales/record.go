package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a weekly sales bucket for one product. WeekStart is always
// a Monday and never a future one.
type Record struct {
	ProductID          int
	WeekStart          time.Time
	QuantityM2         decimal.Decimal
	CustomerNormalized string
	TotalPriceUSD      decimal.Decimal
}
