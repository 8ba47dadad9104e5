package planning

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/tileplanner-go/internal/domain/draft"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

type fakeDraftStore struct {
	byID   map[int]*draft.Draft
	nextID int
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{byID: make(map[int]*draft.Draft), nextID: 1}
}

func (s *fakeDraftStore) FindByID(_ context.Context, id int) (*draft.Draft, error) {
	d, ok := s.byID[id]
	if !ok {
		return nil, shared.NewNotFoundError("draft", id)
	}
	return d, nil
}

func (s *fakeDraftStore) FindByBoatAndFactory(_ context.Context, boatID string, factoryID int) (*draft.Draft, error) {
	for _, d := range s.byID {
		if d.BoatID() == boatID && d.FactoryID() == factoryID {
			return d, nil
		}
	}
	return nil, nil
}

func (s *fakeDraftStore) Save(_ context.Context, d *draft.Draft) error {
	if d.ID() == 0 {
		d.SetID(s.nextID)
		s.nextID++
	}
	s.byID[d.ID()] = d
	return nil
}

func draftService() (*DraftService, *fakeDraftStore) {
	store := newFakeDraftStore()
	clock := shared.NewFixedClock(shared.Date(2026, time.March, 1))
	return NewDraftService(store, clock), store
}

func TestUpsertItemsCreatesDraftOnFirstWrite(t *testing.T) {
	svc, _ := draftService()

	d, err := svc.UpsertItems(context.Background(), "b1", 1, []draft.Item{
		{ProductID: 1, SKU: "BALTICO 51X51", SelectedPallets: 5},
	})
	require.NoError(t, err)
	assert.NotZero(t, d.ID())
	assert.Equal(t, draft.StatusDrafting, d.Status())
	assert.Equal(t, 5, d.TotalPallets())
}

func TestUpsertItemsReplacesExistingSelection(t *testing.T) {
	svc, _ := draftService()
	ctx := context.Background()

	first, err := svc.UpsertItems(ctx, "b1", 1, []draft.Item{{ProductID: 1, SelectedPallets: 5}})
	require.NoError(t, err)

	second, err := svc.UpsertItems(ctx, "b1", 1, []draft.Item{{ProductID: 1, SelectedPallets: 2}})
	require.NoError(t, err)
	assert.Equal(t, first.ID(), second.ID())
	assert.Equal(t, 2, second.TotalPallets())
}

func TestUpsertItemsRejectsNegativePallets(t *testing.T) {
	svc, _ := draftService()

	_, err := svc.UpsertItems(context.Background(), "b1", 1, []draft.Item{{ProductID: 1, SelectedPallets: -1}})
	require.Error(t, err)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}

func TestUpsertItemsRejectsCommittedDraft(t *testing.T) {
	svc, store := draftService()
	ctx := context.Background()

	d, err := svc.UpsertItems(ctx, "b1", 1, []draft.Item{{ProductID: 1, SelectedPallets: 5}})
	require.NoError(t, err)
	_, err = svc.Transition(ctx, d.ID(), draft.StatusOrdered)
	require.NoError(t, err)

	_, err = svc.UpsertItems(ctx, "b1", 1, []draft.Item{{ProductID: 1, SelectedPallets: 9}})
	require.Error(t, err)
	assert.True(t, shared.IsConflict(err))
	assert.Equal(t, 5, store.byID[d.ID()].TotalPallets())
}

func TestTransitionFollowsLifecycle(t *testing.T) {
	svc, _ := draftService()
	ctx := context.Background()

	d, err := svc.UpsertItems(ctx, "b1", 1, []draft.Item{{ProductID: 1, SelectedPallets: 5}})
	require.NoError(t, err)

	d, err = svc.Transition(ctx, d.ID(), draft.StatusActionNeeded)
	require.NoError(t, err)
	d, err = svc.Transition(ctx, d.ID(), draft.StatusOrdered)
	require.NoError(t, err)
	d, err = svc.Transition(ctx, d.ID(), draft.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, draft.StatusConfirmed, d.Status())

	_, err = svc.Transition(ctx, d.ID(), draft.StatusDrafting)
	require.Error(t, err)
	assert.True(t, shared.IsConflict(err))
}

func TestCancelOnlyFromDrafting(t *testing.T) {
	svc, _ := draftService()
	ctx := context.Background()

	d, err := svc.UpsertItems(ctx, "b1", 1, nil)
	require.NoError(t, err)
	d, err = svc.Cancel(ctx, d.ID())
	require.NoError(t, err)
	assert.Equal(t, draft.StatusCancelled, d.Status())

	other, err := svc.UpsertItems(ctx, "b2", 1, nil)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, other.ID(), draft.StatusOrdered)
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, other.ID())
	require.Error(t, err)
}
