package service_test

import (
	"context"
	"testing"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"github.com/foxerka/enterprise-assets/internal/service"
	"github.com/foxerka/enterprise-assets/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupService_AssetTypeCodes(t *testing.T) {
	deps, _ := setupDeps(t)
	svc := service.NewLookupService(deps)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.KindAssetType, &domain.LookupRequest{Name: " Оборудование "})
	require.NoError(t, err)
	assert.Equal(t, "Оборудование", created.Name)
	assert.Equal(t, string(domain.AssetTypeEquipment), created.Code)
	assert.NotEmpty(t, created.Color)

	renamed, err := svc.Update(ctx, domain.KindAssetType, created.ID, &domain.LookupRequest{Name: "Tool"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.AssetTypeTool), renamed.Code)

	_, err = svc.Create(ctx, domain.KindCategory, &domain.LookupRequest{Name: ""})
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("name"))

	_, err = svc.Create(ctx, domain.KindAsset, &domain.LookupRequest{Name: "x"})
	assert.ErrorIs(t, err, service.ErrUnsupportedKind)
}

func TestLookupService_ListAndDelete(t *testing.T) {
	deps, db := setupDeps(t)
	svc := service.NewLookupService(deps)
	ctx := context.Background()

	kg := testutil.CreateUnit(t, db, "kg")
	testutil.CreateUnit(t, db, "pcs")
	testutil.CreateUnit(t, db, "m")
	testutil.CreateAsset(t, db, "Cable", func(a *domain.Asset) { a.UnitID = &kg.ID })

	page, err := svc.List(ctx, domain.KindUnit, repository.NameFilters{}, repository.SortConfig{}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, []string{"kg", "m", "pcs"}, []string{page.Items[0].Name, page.Items[1].Name, page.Items[2].Name})

	err = svc.Delete(ctx, domain.KindUnit, kg.ID)
	var blocked *domain.IntegrityBlocked
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, "assets.unit_id", blocked.Blockers[0].Relation)

	stats, err := svc.Stats(ctx, domain.KindUnit, repository.NameFilters{Search: "k"})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
}
