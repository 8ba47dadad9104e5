package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/andrescamacho/tileplanner-go/internal/domain/draft"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// GormDraftRepository implements draft persistence using GORM
type GormDraftRepository struct {
	db *gorm.DB
}

// NewGormDraftRepository creates a new GORM draft repository
func NewGormDraftRepository(db *gorm.DB) *GormDraftRepository {
	return &GormDraftRepository{db: db}
}

// FindByID retrieves a draft with its items
func (r *GormDraftRepository) FindByID(ctx context.Context, id int) (*draft.Draft, error) {
	var model DraftModel
	result := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&model)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, shared.NewNotFoundError("draft", id)
		}
		return nil, wrapErr("boat_factory_drafts/select", result.Error)
	}
	return modelToDraft(&model), nil
}

// FindByBoatAndFactory retrieves the single draft for (boat, factory),
// or nil when none exists.
func (r *GormDraftRepository) FindByBoatAndFactory(ctx context.Context, boatID string, factoryID int) (*draft.Draft, error) {
	var model DraftModel
	result := r.db.WithContext(ctx).Preload("Items").
		Where("boat_id = ? AND factory_id = ?", boatID, factoryID).
		First(&model)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, nil
		}
		return nil, wrapErr("boat_factory_drafts/select", result.Error)
	}
	return modelToDraft(&model), nil
}

// FindByFactory retrieves all drafts for a factory with items
func (r *GormDraftRepository) FindByFactory(ctx context.Context, factoryID int) ([]*draft.Draft, error) {
	var models []DraftModel
	result := r.db.WithContext(ctx).Preload("Items").
		Where("factory_id = ?", factoryID).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, wrapErr("boat_factory_drafts/select", result.Error)
	}

	drafts := make([]*draft.Draft, len(models))
	for i := range models {
		drafts[i] = modelToDraft(&models[i])
	}
	return drafts, nil
}

// FindCommitted retrieves every ordered/confirmed draft across
// factories; their items become in-transit supply for later boats.
func (r *GormDraftRepository) FindCommitted(ctx context.Context) ([]*draft.Draft, error) {
	var models []DraftModel
	result := r.db.WithContext(ctx).Preload("Items").
		Where("status IN ?", []string{string(draft.StatusOrdered), string(draft.StatusConfirmed)}).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, wrapErr("boat_factory_drafts/select", result.Error)
	}

	drafts := make([]*draft.Draft, len(models))
	for i := range models {
		drafts[i] = modelToDraft(&models[i])
	}
	return drafts, nil
}

// Save upserts the draft parent row and bulk-replaces its child items
// in one transaction.
func (r *GormDraftRepository) Save(ctx context.Context, d *draft.Draft) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := draftToModel(d)

		if model.ID == 0 {
			if err := tx.Omit("Items").Create(model).Error; err != nil {
				return wrapErr("boat_factory_drafts/insert", err)
			}
			d.SetID(model.ID)
		} else {
			if err := tx.Omit("Items").Save(model).Error; err != nil {
				return wrapErr("boat_factory_drafts/update", err)
			}
			if err := tx.Where("draft_id = ?", model.ID).Delete(&DraftItemModel{}).Error; err != nil {
				return wrapErr("draft_items/delete", err)
			}
		}

		items := d.Items()
		if len(items) == 0 {
			return nil
		}
		itemModels := make([]DraftItemModel, len(items))
		for i, it := range items {
			itemModels[i] = DraftItemModel{
				DraftID:         model.ID,
				ProductID:       it.ProductID,
				SKU:             it.SKU,
				SelectedPallets: it.SelectedPallets,
				BLNumber:        it.BLNumber,
			}
		}
		if err := tx.Create(&itemModels).Error; err != nil {
			return wrapErr("draft_items/insert", err)
		}
		return nil
	})
}

func draftToModel(d *draft.Draft) *DraftModel {
	return &DraftModel{
		ID:        d.ID(),
		BoatID:    d.BoatID(),
		FactoryID: d.FactoryID(),
		Status:    string(d.Status()),
		CreatedAt: d.CreatedAt(),
		UpdatedAt: d.UpdatedAt(),
	}
}

func modelToDraft(m *DraftModel) *draft.Draft {
	items := make([]draft.Item, len(m.Items))
	for i, it := range m.Items {
		items[i] = draft.Item{
			ProductID:       it.ProductID,
			SKU:             it.SKU,
			SelectedPallets: it.SelectedPallets,
			BLNumber:        it.BLNumber,
		}
	}
	return draft.Reconstitute(m.ID, m.BoatID, m.FactoryID, draft.Status(m.Status), items, m.CreatedAt, m.UpdatedAt)
}
