package integrity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/integrity"
	"github.com/foxerka/enterprise-assets/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestCanDelete_AssetReferencedByWorkActAndMaterial(t *testing.T) {
	db := testutil.SetupTestDB(t)
	checker := integrity.NewChecker(db, zap.NewNop())
	ctx := context.Background()

	asset := testutil.CreateAsset(t, db, "Lathe")
	act := testutil.CreateWorkAct(t, db, &asset.ID, nil)
	testutil.CreateWorkActMaterial(t, db, act.ID, asset.ID)

	allowed, blockers, err := checker.CanDelete(ctx, domain.KindAsset, asset.ID)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, []domain.Blocker{
		{Relation: "work_acts.asset_id", Count: 1},
		{Relation: "work_act_materials.asset_id", Count: 1},
	}, blockers)
}

func TestCanDelete_Unreferenced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	checker := integrity.NewChecker(db, zap.NewNop())

	category := testutil.CreateCategory(t, db, "Spare parts")

	allowed, blockers, err := checker.CanDelete(context.Background(), domain.KindCategory, category.ID)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Empty(t, blockers)
}

func TestCanDelete_IsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	checker := integrity.NewChecker(db, zap.NewNop())
	ctx := context.Background()

	ws := testutil.CreateWorkshop(t, db, "Assembly", nil)
	testutil.CreateAsset(t, db, "Press", func(a *domain.Asset) { a.WorkshopID = &ws.ID })

	_, first, err := checker.CanDelete(ctx, domain.KindWorkshop, ws.ID)
	require.NoError(t, err)
	_, second, err := checker.CanDelete(ctx, domain.KindWorkshop, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTryDelete_BlockedReportsEveryRelation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	checker := integrity.NewChecker(db, zap.NewNop())
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "ivanov", nil)
	master := testutil.CreateMaster(t, db, user.ID)
	testutil.CreateWorkAct(t, db, nil, &master.ID)
	testutil.CreateWorkAct(t, db, nil, &master.ID)
	testutil.CreateWorkshop(t, db, "Welding", &master.ID)

	err := checker.TryDelete(ctx, domain.KindMaster, master.ID)
	require.Error(t, err)

	var blocked *domain.IntegrityBlocked
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, domain.KindMaster, blocked.Kind)
	assert.Equal(t, master.ID, blocked.ID)
	assert.Equal(t, []domain.Blocker{
		{Relation: "work_acts.master_id", Count: 2},
		{Relation: "workshops.manager_id", Count: 1},
	}, blocked.Blockers)

	var count int64
	require.NoError(t, db.Model(&domain.Master{}).Where("id = ?", master.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "blocked entity must remain")
}

func TestTryDelete_AllowedRemovesEntity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	checker := integrity.NewChecker(db, zap.NewNop())
	ctx := context.Background()

	role := testutil.CreateRole(t, db, "Storekeeper")

	require.NoError(t, checker.TryDelete(ctx, domain.KindRole, role.ID))

	var count int64
	require.NoError(t, db.Model(&domain.Role{}).Where("id = ?", role.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTryDelete_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	checker := integrity.NewChecker(db, zap.NewNop())

	err := checker.TryDelete(context.Background(), domain.KindSupplier, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTryDelete_UserWithMaster(t *testing.T) {
	db := testutil.SetupTestDB(t)
	checker := integrity.NewChecker(db, zap.NewNop())

	user := testutil.CreateUser(t, db, "petrov", nil)
	testutil.CreateMaster(t, db, user.ID)

	err := checker.TryDelete(context.Background(), domain.KindUser, user.ID)
	var blocked *domain.IntegrityBlocked
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, []domain.Blocker{{Relation: "masters.user_id", Count: 1}}, blocked.Blockers)
}

func TestGuardTx(t *testing.T) {
	db := testutil.SetupTestDB(t)
	checker := integrity.NewChecker(db, zap.NewNop())

	supplier := testutil.CreateSupplier(t, db, "Metallservis")
	testutil.CreateAsset(t, db, "Sheet", func(a *domain.Asset) { a.SupplierID = &supplier.ID })
	free := testutil.CreateSupplier(t, db, "Unused")

	err := db.Transaction(func(tx *gorm.DB) error {
		return checker.GuardTx(tx, domain.KindSupplier, supplier.ID)
	})
	var blocked *domain.IntegrityBlocked
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, []domain.Blocker{{Relation: "assets.supplier_id", Count: 1}}, blocked.Blockers)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return checker.GuardTx(tx, domain.KindSupplier, free.ID)
	}))
	var count int64
	require.NoError(t, db.Model(&domain.Supplier{}).Where("id = ?", free.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "guard alone does not delete")

	err = db.Transaction(func(tx *gorm.DB) error {
		return checker.GuardTx(tx, domain.KindSupplier, 4242)
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCanDelete_UnknownKind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	checker := integrity.NewChecker(db, zap.NewNop())

	_, _, err := checker.CanDelete(context.Background(), domain.EntityKind("widget"), 1)
	assert.ErrorIs(t, err, integrity.ErrUnknownKind)
}

func TestRelations_EveryKindHasModel(t *testing.T) {
	for _, kind := range domain.AllKinds() {
		for _, r := range integrity.Relations(kind) {
			assert.NotNil(t, r.Model(), "relation %s of %s", r.Name, kind)
			assert.NotEmpty(t, r.Column)
		}
	}
}
