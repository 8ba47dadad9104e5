package draft

import (
	"time"
)

// Status represents where a boat×factory draft sits in its life
type Status string

const (
	// StatusDrafting - the user is still editing quantities
	StatusDrafting Status = "drafting"

	// StatusActionNeeded - flagged for review before it can be ordered
	StatusActionNeeded Status = "action_needed"

	// StatusOrdered - sent to the factory; items are authoritative
	StatusOrdered Status = "ordered"

	// StatusConfirmed - factory acknowledged; items are authoritative
	StatusConfirmed Status = "confirmed"

	// StatusCancelled - abandoned while still drafting
	StatusCancelled Status = "cancelled"
)

// IsCommitted reports whether the draft's items are locked supply:
// ordered and confirmed drafts feed in-transit for later boats.
func (s Status) IsCommitted() bool {
	return s == StatusOrdered || s == StatusConfirmed
}

// IsTentative reports whether the draft still cascades into later-boat
// baselines without being authoritative.
func (s Status) IsTentative() bool {
	return s == StatusDrafting || s == StatusActionNeeded
}

// Item is one product line inside a draft
type Item struct {
	ProductID       int
	SKU             string
	SelectedPallets int
	BLNumber        *int // 1..5 when assigned
}

// Draft ties a boat to a factory with the per-SKU pallet selection.
// At most one draft exists per (boat, factory).
//
// Lifecycle:
//
//	drafting -> action_needed -> ordered -> confirmed
//	drafting -> ordered
//	drafting -> cancelled
type Draft struct {
	id        int
	boatID    string
	factoryID int
	status    Status
	items     []Item
	createdAt time.Time
	updatedAt time.Time
}

// NewDraft creates a fresh draft in drafting state
func NewDraft(boatID string, factoryID int, now time.Time) *Draft {
	return &Draft{
		boatID:    boatID,
		factoryID: factoryID,
		status:    StatusDrafting,
		createdAt: now,
		updatedAt: now,
	}
}

// Reconstitute rebuilds a draft from persistence
func Reconstitute(id int, boatID string, factoryID int, status Status, items []Item, createdAt, updatedAt time.Time) *Draft {
	return &Draft{
		id:        id,
		boatID:    boatID,
		factoryID: factoryID,
		status:    status,
		items:     items,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Getters

func (d *Draft) ID() int              { return d.id }
func (d *Draft) BoatID() string       { return d.boatID }
func (d *Draft) FactoryID() int       { return d.factoryID }
func (d *Draft) Status() Status       { return d.status }
func (d *Draft) CreatedAt() time.Time { return d.createdAt }
func (d *Draft) UpdatedAt() time.Time { return d.updatedAt }

// Items returns a copy of the draft's lines
func (d *Draft) Items() []Item {
	out := make([]Item, len(d.items))
	copy(out, d.items)
	return out
}

// ItemForProduct returns the line for a product, or nil
func (d *Draft) ItemForProduct(productID int) *Item {
	for i := range d.items {
		if d.items[i].ProductID == productID {
			return &d.items[i]
		}
	}
	return nil
}

// TotalPallets sums the selected pallets across all lines
func (d *Draft) TotalPallets() int {
	total := 0
	for _, it := range d.items {
		total += it.SelectedPallets
	}
	return total
}

// SetID is called by the repository after insert
func (d *Draft) SetID(id int) { d.id = id }

// ReplaceItems swaps the full item set. Only editable drafts accept edits.
func (d *Draft) ReplaceItems(items []Item, now time.Time) error {
	if d.status.IsCommitted() || d.status == StatusCancelled {
		return &ErrIllegalTransition{DraftID: d.id, From: d.status, To: d.status,
			Description: "items are locked once the draft is committed"}
	}
	d.items = make([]Item, len(items))
	copy(d.items, items)
	d.updatedAt = now
	return nil
}

// validNext enumerates the lifecycle edges
var validNext = map[Status][]Status{
	StatusDrafting:     {StatusActionNeeded, StatusOrdered, StatusCancelled},
	StatusActionNeeded: {StatusOrdered},
	StatusOrdered:      {StatusConfirmed},
	StatusConfirmed:    {},
	StatusCancelled:    {},
}

// CanTransition reports whether from -> to is a legal lifecycle edge
func CanTransition(from, to Status) bool {
	for _, next := range validNext[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionTo moves the draft along a lifecycle edge, rejecting any
// edge not in the state machine.
func (d *Draft) TransitionTo(to Status, now time.Time) error {
	if !CanTransition(d.status, to) {
		return &ErrIllegalTransition{DraftID: d.id, From: d.status, To: to}
	}
	d.status = to
	d.updatedAt = now
	return nil
}
