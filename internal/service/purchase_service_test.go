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
	"go.uber.org/zap"
)

func newPurchaseService(deps service.Deps) *service.PurchaseService {
	numbers := service.NewNumberSequenceService(repository.NewNumberSequenceRepository(deps.DB), zap.NewNop())
	return service.NewPurchaseService(deps, numbers)
}

func TestPurchaseService_Create(t *testing.T) {
	deps, db := setupDeps(t)
	svc := newPurchaseService(deps)
	ctx := context.Background()

	asset := testutil.CreateAsset(t, db, "Bearing 6204")
	supplier := testutil.CreateSupplier(t, db, "SKF")
	ordered := testutil.CreatePurchaseStatus(t, db, "Заказано")

	first, err := svc.Create(ctx, &domain.PurchaseRequest{
		AssetID:    asset.ID,
		SupplierID: supplier.ID,
		Quantity:   3,
		UnitPrice:  decimal.RequireFromString("19.99"),
		StatusID:   domain.Some(ordered.ID),
	})
	require.NoError(t, err)
	assert.Regexp(t, `^PUR-\d{8}-0001$`, first.PurchaseNumber)
	require.True(t, first.TotalCost.Valid)
	assert.Equal(t, "59.97", first.TotalCost.Decimal.StringFixed(2))
	assert.Equal(t, "SKF", first.SupplierName)

	second, err := svc.Create(ctx, &domain.PurchaseRequest{
		AssetID:    asset.ID,
		SupplierID: supplier.ID,
		Quantity:   1,
		UnitPrice:  decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.Regexp(t, `^PUR-\d{8}-0002$`, second.PurchaseNumber)
}

func TestPurchaseService_InvalidDoesNotConsumeNumber(t *testing.T) {
	deps, db := setupDeps(t)
	svc := newPurchaseService(deps)
	ctx := context.Background()

	asset := testutil.CreateAsset(t, db, "Gasket")
	supplier := testutil.CreateSupplier(t, db, "Parts Ltd")

	_, err := svc.Create(ctx, &domain.PurchaseRequest{
		AssetID:    asset.ID,
		SupplierID: 777,
		Quantity:   0,
		UnitPrice:  decimal.NewFromInt(1),
	})
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("quantity"))
	assert.True(t, verrs.Has("supplierId"))

	dto, err := svc.Create(ctx, &domain.PurchaseRequest{
		AssetID:    asset.ID,
		SupplierID: supplier.ID,
		Quantity:   2,
		UnitPrice:  decimal.RequireFromString("0.10"),
	})
	require.NoError(t, err)
	assert.Regexp(t, `-0001$`, dto.PurchaseNumber)
}

func TestPurchaseService_UpdateRecomputesTotal(t *testing.T) {
	deps, db := setupDeps(t)
	svc := newPurchaseService(deps)
	ctx := context.Background()

	asset := testutil.CreateAsset(t, db, "Filter")
	supplier := testutil.CreateSupplier(t, db, "Bosch")

	created, err := svc.Create(ctx, &domain.PurchaseRequest{
		AssetID: asset.ID, SupplierID: supplier.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	expected := time.Now().UTC().AddDate(0, 0, 10)
	updated, err := svc.Update(ctx, created.ID, &domain.PurchaseRequest{
		AssetID: asset.ID, SupplierID: supplier.ID, Quantity: 4, UnitPrice: decimal.RequireFromString("2.5"),
		ExpectedDelivery: &expected,
	})
	require.NoError(t, err)
	assert.Equal(t, created.PurchaseNumber, updated.PurchaseNumber)
	assert.Equal(t, "10.00", updated.TotalCost.Decimal.StringFixed(2))
	assert.Equal(t, "on-track", updated.Delivery.Tier)

	stats, err := svc.Stats(ctx, repository.PurchaseFilters{})
	require.NoError(t, err)
	require.NotNil(t, stats.TotalAmount)
	assert.Equal(t, "10.00", stats.TotalAmount.StringFixed(2))
}
