package orderbuilder

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// BLProduct is one product placed on a bill of lading
type BLProduct struct {
	ProductID int             `json:"product_id"`
	SKU       string          `json:"sku"`
	Pallets   int             `json:"pallets"`
	M2        decimal.Decimal `json:"m2"`
	Score     int             `json:"score"`
	Critical  bool            `json:"critical"`
	Customer  string          `json:"primary_customer,omitempty"`
}

// BL is one bill of lading in the allocation report
type BL struct {
	Number     int             `json:"bl_number"`
	Products   []BLProduct     `json:"products"`
	Pallets    int             `json:"total_pallets"`
	Containers int             `json:"containers"`
	M2         decimal.Decimal `json:"total_m2"`
	WeightKg   decimal.Decimal `json:"total_weight_kg"`
	Customers  []string        `json:"customers,omitempty"`
}

// AllocationReport spreads an order across bills of lading so a single
// customs hold cannot strand every critical product at once.
type AllocationReport struct {
	BLs                  []BL     `json:"bls"`
	TotalCritical        int      `json:"total_critical"`
	MaxCriticalInOneBL   int      `json:"max_critical_in_one_bl"`
	RiskDistributionEven bool     `json:"risk_distribution_even"`
	Warnings             []string `json:"warnings,omitempty"`
}

// allocateBLs distributes the ship-now selection across NumBLs bills
// of lading: critical products round-robin, the rest by customer
// affinity, overflow migrated to the BL with most slack.
func (b *Builder) allocateBLs(items []ShipNowItem, in BuildInput) *AllocationReport {
	numBLs := in.NumBLs
	if numBLs < 1 {
		numBLs = 1
	}
	if numBLs > 5 {
		numBLs = 5
	}

	primaryCustomer := customersBySKU(in)

	var critical, rest []ShipNowItem
	for _, item := range items {
		if item.Score.Critical() {
			critical = append(critical, item)
		} else {
			rest = append(rest, item)
		}
	}
	sort.SliceStable(critical, func(i, j int) bool {
		return critical[i].Score.Total() > critical[j].Score.Total()
	})

	report := &AllocationReport{BLs: make([]BL, numBLs), TotalCritical: len(critical)}
	for i := range report.BLs {
		report.BLs[i].Number = i + 1
	}

	customerBL := make(map[string]int)
	place := func(blIdx int, item ShipNowItem, isCritical bool) {
		bl := &report.BLs[blIdx]
		customer := primaryCustomer[item.SKU]
		bl.Products = append(bl.Products, BLProduct{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Pallets:   item.Pallets,
			M2:        item.M2,
			Score:     item.Score.Total(),
			Critical:  isCritical,
			Customer:  customer,
		})
		bl.Pallets += item.Pallets
		bl.M2 = bl.M2.Add(item.M2)
		if customer != "" {
			if _, seen := customerBL[customer]; !seen {
				customerBL[customer] = blIdx
				bl.Customers = append(bl.Customers, customer)
			}
		}
	}

	for i, item := range critical {
		place(i%numBLs, item, true)
	}

	// Customer affinity: keep a customer's stock on the BL already
	// carrying their critical product so one hold delays one customer.
	for _, item := range rest {
		customer := primaryCustomer[item.SKU]
		if idx, ok := customerBL[customer]; ok && customer != "" {
			place(idx, item, false)
			continue
		}
		place(smallestBL(report.BLs), item, false)
	}

	b.migrateOverflow(report)
	b.finalizeBLs(report)
	return report
}

// migrateOverflow moves products off BLs exceeding the per-BL
// container cap, preferring non-critical lines.
func (b *Builder) migrateOverflow(report *AllocationReport) {
	capPallets := b.cfg.MaxContainersPerBL * b.cfg.PalletsPerContainer
	for i := range report.BLs {
		for report.BLs[i].Pallets > capPallets {
			victim := lastMovable(&report.BLs[i], false)
			if victim < 0 {
				victim = lastMovable(&report.BLs[i], true)
				if victim < 0 {
					report.Warnings = append(report.Warnings,
						fmt.Sprintf("BL %d exceeds %d pallets and no product can move", report.BLs[i].Number, capPallets))
					break
				}
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("BL %d over capacity; migrating critical product %s", report.BLs[i].Number, report.BLs[i].Products[victim].SKU))
			}
			target := mostSlack(report.BLs, i, capPallets, report.BLs[i].Products[victim].Pallets)
			if target < 0 {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("BL %d over capacity and no BL has slack for %s", report.BLs[i].Number, report.BLs[i].Products[victim].SKU))
				break
			}
			moved := report.BLs[i].Products[victim]
			report.BLs[i].Products = append(report.BLs[i].Products[:victim], report.BLs[i].Products[victim+1:]...)
			report.BLs[i].Pallets -= moved.Pallets
			report.BLs[i].M2 = report.BLs[i].M2.Sub(moved.M2)
			report.BLs[target].Products = append(report.BLs[target].Products, moved)
			report.BLs[target].Pallets += moved.Pallets
			report.BLs[target].M2 = report.BLs[target].M2.Add(moved.M2)
		}
	}
}

func (b *Builder) finalizeBLs(report *AllocationReport) {
	maxCritical := 0
	for i := range report.BLs {
		bl := &report.BLs[i]
		bl.Containers = shared.CeilDiv(shared.Dec(bl.Pallets), shared.Dec(b.cfg.PalletsPerContainer))
		bl.WeightKg = bl.M2.Mul(b.cfg.KgPerM2).Round(1)
		criticalCount := 0
		for _, p := range bl.Products {
			if p.Critical {
				criticalCount++
			}
		}
		if criticalCount > maxCritical {
			maxCritical = criticalCount
		}
	}
	report.MaxCriticalInOneBL = maxCritical
	allowed := int(math.Ceil(float64(report.TotalCritical) * 0.4))
	report.RiskDistributionEven = maxCritical <= allowed
}

func customersBySKU(in BuildInput) map[string]string {
	// Primary customers are resolved upstream; the builder receives
	// them through the stockout/metrics maps keyed by SKU when the
	// caller has pattern data.
	out := make(map[string]string)
	for _, pp := range in.Projection.Products {
		if c, ok := in.PrimaryCustomers[pp.SKU]; ok {
			out[pp.SKU] = c
		}
	}
	return out
}

func smallestBL(bls []BL) int {
	best := 0
	for i := 1; i < len(bls); i++ {
		if bls[i].Pallets < bls[best].Pallets {
			best = i
		}
	}
	return best
}

// lastMovable finds the index of the last product of the given
// criticality class, or -1.
func lastMovable(bl *BL, critical bool) int {
	for i := len(bl.Products) - 1; i >= 0; i-- {
		if bl.Products[i].Critical == critical {
			return i
		}
	}
	return -1
}

// mostSlack finds the BL (other than from) with the most remaining
// pallet headroom that can still absorb the given pallets.
func mostSlack(bls []BL, from, capPallets, pallets int) int {
	best, bestSlack := -1, 0
	for i := range bls {
		if i == from {
			continue
		}
		slack := capPallets - bls[i].Pallets
		if slack >= pallets && slack > bestSlack {
			best = i
			bestSlack = slack
		}
	}
	return best
}
