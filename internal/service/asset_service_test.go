package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"github.com/foxerka/enterprise-assets/internal/service"
	"github.com/foxerka/enterprise-assets/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetService_Create(t *testing.T) {
	deps, db := setupDeps(t)
	svc := service.NewAssetService(deps)
	ctx := context.Background()

	material := testutil.CreateAssetType(t, db, "Material")
	equipment := testutil.CreateAssetType(t, db, "Оборудование")
	working := testutil.CreateAssetStatus(t, db, "In operation")

	t.Run("status dropped for non-equipment type", func(t *testing.T) {
		dto, err := svc.Create(ctx, &domain.AssetRequest{
			Name:     "  Steel sheet ",
			TypeID:   domain.Some(material.ID),
			StatusID: domain.Some(working.ID),
			Quantity: decimal.NewFromInt(40),
		})
		require.NoError(t, err)
		assert.Equal(t, "Steel sheet", dto.Name)
		assert.Nil(t, dto.StatusID)
		assert.False(t, dto.ShowStatus)
		assert.Equal(t, domain.AssetTypeMaterial, dto.TypeCode)
	})

	t.Run("status kept for equipment type", func(t *testing.T) {
		dto, err := svc.Create(ctx, &domain.AssetRequest{
			Name:     "Lathe",
			TypeID:   domain.Some(equipment.ID),
			StatusID: domain.Some(working.ID),
			Quantity: decimal.NewFromInt(1),
		})
		require.NoError(t, err)
		require.NotNil(t, dto.StatusID)
		assert.Equal(t, working.ID, *dto.StatusID)
		assert.True(t, dto.ShowStatus)
		assert.Equal(t, "In operation", dto.StatusName)
	})

	t.Run("invalid draft is not written", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.AssetRequest{
			Name:       " ",
			Quantity:   decimal.NewFromInt(-1),
			CategoryID: domain.Some(int64(999)),
		})
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.Has("name"))
		assert.True(t, verrs.Has("quantity"))
		assert.True(t, verrs.Has("categoryId"))

		var count int64
		require.NoError(t, db.Model(&domain.Asset{}).Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})
}

func TestAssetService_UpdateKeepsCreatedAt(t *testing.T) {
	deps, db := setupDeps(t)
	svc := service.NewAssetService(deps)
	ctx := context.Background()

	created := time.Date(2023, 1, 15, 8, 0, 0, 0, time.UTC)
	asset := testutil.CreateAsset(t, db, "Drill", func(a *domain.Asset) { a.CreatedAt = created })

	dto, err := svc.Update(ctx, asset.ID, &domain.AssetRequest{
		Name:        "Drill press",
		Quantity:    decimal.NewFromInt(3),
		MinQuantity: decimal.NewNullDecimal(decimal.NewFromInt(5)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Drill press", dto.Name)
	assert.True(t, dto.IsLowStock)
	assert.Equal(t, "2023-01-15T08:00:00Z", dto.CreatedAt)

	_, err = svc.Update(ctx, 4040, &domain.AssetRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssetService_DeleteBlocked(t *testing.T) {
	deps, db := setupDeps(t)
	svc := service.NewAssetService(deps)
	ctx := context.Background()

	asset := testutil.CreateAsset(t, db, "Bolt M8")
	act := testutil.CreateWorkAct(t, db, &asset.ID, nil)
	testutil.CreateWorkActMaterial(t, db, act.ID, asset.ID)

	err := svc.Delete(ctx, asset.ID)
	var blocked *domain.IntegrityBlocked
	require.ErrorAs(t, err, &blocked)
	require.Len(t, blocked.Blockers, 2)
	assert.Equal(t, "work_acts.asset_id", blocked.Blockers[0].Relation)
	assert.Equal(t, "work_act_materials.asset_id", blocked.Blockers[1].Relation)

	free := testutil.CreateAsset(t, db, "Washer")
	require.NoError(t, svc.Delete(ctx, free.ID))
	assert.ErrorIs(t, svc.Delete(ctx, free.ID), domain.ErrNotFound)
}

func TestAssetService_ListAndStats(t *testing.T) {
	deps, db := setupDeps(t)
	svc := service.NewAssetService(deps)
	ctx := context.Background()

	eq := testutil.CreateAssetType(t, db, "Equipment")
	testutil.CreateAsset(t, db, "Press", func(a *domain.Asset) { a.TypeID = &eq.ID })
	testutil.CreateAsset(t, db, "Paint", func(a *domain.Asset) {
		a.Quantity = decimal.NewFromInt(2)
		a.MinQuantity = decimal.NewNullDecimal(decimal.NewFromInt(10))
	})
	testutil.CreateAsset(t, db, "Primer")

	page, err := svc.List(ctx, repository.AssetFilters{Search: "p"}, repository.SortConfig{Field: "name", Order: repository.SortOrderAsc}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Paint", page.Items[0].Name)
	assert.Equal(t, "Press", page.Items[1].Name)
	assert.Equal(t, 2, page.ToPaginatedResponse().TotalPages)

	stats, err := svc.Stats(ctx, repository.AssetFilters{})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	require.NotNil(t, stats.EquipmentCount)
	assert.Equal(t, 1, *stats.EquipmentCount)
	require.NotNil(t, stats.LowStock)
	assert.Equal(t, 1, *stats.LowStock)

	low, err := svc.Stats(ctx, repository.AssetFilters{LowStockOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, low.Total)
}

func TestAssetService_StatusHiddenAfterTypeRename(t *testing.T) {
	deps, db := setupDeps(t)
	assets := service.NewAssetService(deps)
	lookups := service.NewLookupService(deps)
	ctx := context.Background()

	equipment := testutil.CreateAssetType(t, db, "Оборудование")
	working := testutil.CreateAssetStatus(t, db, "In operation")

	created, err := assets.Create(ctx, &domain.AssetRequest{
		Name:     "Press",
		TypeID:   domain.Some(equipment.ID),
		StatusID: domain.Some(working.ID),
		Quantity: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	require.NotNil(t, created.StatusID)

	t.Run("renaming to another equipment name keeps the status", func(t *testing.T) {
		_, err := lookups.Update(ctx, domain.KindAssetType, equipment.ID, &domain.LookupRequest{Name: "Equipment"})
		require.NoError(t, err)

		dto, err := assets.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, dto.ShowStatus)
		require.NotNil(t, dto.StatusID)
		assert.Equal(t, working.ID, *dto.StatusID)
	})

	t.Run("renaming away from equipment clears the status", func(t *testing.T) {
		_, err := lookups.Update(ctx, domain.KindAssetType, equipment.ID, &domain.LookupRequest{Name: "Материал"})
		require.NoError(t, err)

		dto, err := assets.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.AssetTypeMaterial, dto.TypeCode)
		assert.False(t, dto.ShowStatus)
		assert.Nil(t, dto.StatusID)
		assert.Empty(t, dto.StatusName)
		assert.Empty(t, dto.StatusColor)

		var stored domain.Asset
		require.NoError(t, db.First(&stored, created.ID).Error)
		assert.Nil(t, stored.StatusID)
	})
}
