package planning

import (
	"context"
	"fmt"

	"github.com/andrescamacho/tileplanner-go/internal/domain/draft"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// DraftStore is the slice of the draft repository the service needs
type DraftStore interface {
	FindByID(ctx context.Context, id int) (*draft.Draft, error)
	FindByBoatAndFactory(ctx context.Context, boatID string, factoryID int) (*draft.Draft, error)
	Save(ctx context.Context, d *draft.Draft) error
}

// DraftService owns the boat×factory draft lifecycle: item selection
// while drafting, then the one-way march to ordered and confirmed.
type DraftService struct {
	drafts DraftStore
	clock  shared.Clock
}

// NewDraftService creates the service
func NewDraftService(drafts DraftStore, clock shared.Clock) *DraftService {
	return &DraftService{drafts: drafts, clock: clock}
}

// GetDraft returns the draft for (boat, factory), or nil when none exists
func (s *DraftService) GetDraft(ctx context.Context, boatID string, factoryID int) (*draft.Draft, error) {
	return s.drafts.FindByBoatAndFactory(ctx, boatID, factoryID)
}

// UpsertItems replaces the item selection for (boat, factory), creating
// the draft on first write. Committed and cancelled drafts reject edits.
func (s *DraftService) UpsertItems(ctx context.Context, boatID string, factoryID int, items []draft.Item) (*draft.Draft, error) {
	if boatID == "" {
		return nil, shared.NewValidationError("boat_id", "must not be empty")
	}
	for _, item := range items {
		if item.SelectedPallets < 0 {
			return nil, shared.NewValidationError("selected_pallets",
				fmt.Sprintf("must be non-negative for product %d", item.ProductID))
		}
		if item.BLNumber != nil && (*item.BLNumber < 1 || *item.BLNumber > 5) {
			return nil, shared.NewValidationError("bl_number", "must be between 1 and 5")
		}
	}

	now := s.clock.Now()
	d, err := s.drafts.FindByBoatAndFactory(ctx, boatID, factoryID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		d = draft.NewDraft(boatID, factoryID, now)
	}
	if err := d.ReplaceItems(items, now); err != nil {
		return nil, shared.NewConflictError(err.Error())
	}
	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Transition moves a draft along its lifecycle. Illegal edges surface
// as conflicts.
func (s *DraftService) Transition(ctx context.Context, id int, to draft.Status) (*draft.Draft, error) {
	d, err := s.drafts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.TransitionTo(to, s.clock.Now()); err != nil {
		return nil, shared.NewConflictError(err.Error())
	}
	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Cancel abandons a draft still in drafting state
func (s *DraftService) Cancel(ctx context.Context, id int) (*draft.Draft, error) {
	return s.Transition(ctx, id, draft.StatusCancelled)
}
