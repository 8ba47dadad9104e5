package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/tileplanner-go/internal/adapters/persistence"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
	"github.com/andrescamacho/tileplanner-go/test/helpers"
)

func TestCachedFactoryServesStaleUntilClear(t *testing.T) {
	db := helpers.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&persistence.FactoryModel{
		ID: 1, Name: "Tarragona", OriginPort: "Valencia",
		ProductionLeadDays: 15, TransportToPortDays: 5,
		CutoffDay: "tuesday", UnitType: "m2", Active: true,
	}).Error)

	cached := persistence.NewCachedFactoryRepository(persistence.NewGormFactoryRepository(db))

	first, err := cached.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 15, first.ProductionLeadDays)

	// A settings edit lands directly in the store.
	require.NoError(t, db.Model(&persistence.FactoryModel{}).
		Where("id = ?", 1).
		Update("production_lead_days", 20).Error)

	stale, err := cached.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 15, stale.ProductionLeadDays, "cache holds until cleared")

	cached.Clear()

	fresh, err := cached.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 20, fresh.ProductionLeadDays)
}

func TestCachedFactoryMissIsNotFound(t *testing.T) {
	db := helpers.NewTestDB(t)
	cached := persistence.NewCachedFactoryRepository(persistence.NewGormFactoryRepository(db))

	_, err := cached.FindByID(context.Background(), 42)
	assert.True(t, shared.IsNotFound(err))
}

func TestCachedFactoryListRefreshesEntries(t *testing.T) {
	db := helpers.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&persistence.FactoryModel{
		ID: 1, Name: "Tarragona", OriginPort: "Valencia",
		ProductionLeadDays: 15, TransportToPortDays: 5,
		CutoffDay: "tuesday", UnitType: "m2", Active: true,
	}).Error)

	cached := persistence.NewCachedFactoryRepository(persistence.NewGormFactoryRepository(db))

	_, err := cached.FindActive(ctx)
	require.NoError(t, err)

	require.NoError(t, db.Model(&persistence.FactoryModel{}).
		Where("id = ?", 1).
		Update("production_lead_days", 25).Error)

	byID, err := cached.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 15, byID.ProductionLeadDays, "list populated the per-id cache")
}
