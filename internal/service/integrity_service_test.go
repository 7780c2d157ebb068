package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/integrity"
	"github.com/foxerka/enterprise-assets/internal/service"
	"github.com/foxerka/enterprise-assets/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrityService_PreviewDelete(t *testing.T) {
	deps, db := setupDeps(t)
	svc := service.NewIntegrityService(deps)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "foreman", nil)
	master := testutil.CreateMaster(t, db, user.ID)
	testutil.CreateWorkshop(t, db, "Assembly", &master.ID)
	testutil.CreateWorkAct(t, db, nil, &master.ID)
	testutil.CreateWorkAct(t, db, nil, &master.ID)

	preview, err := svc.PreviewDelete(ctx, domain.KindMaster, master.ID)
	require.NoError(t, err)
	assert.False(t, preview.Allowed)
	assert.Equal(t, []domain.Blocker{
		{Relation: "work_acts.master_id", Count: 2},
		{Relation: "workshops.manager_id", Count: 1},
	}, preview.Blockers)

	free := testutil.CreateSupplier(t, db, "Idle Supplier")
	preview, err = svc.PreviewDelete(ctx, domain.KindSupplier, free.ID)
	require.NoError(t, err)
	assert.True(t, preview.Allowed)
	assert.Empty(t, preview.Blockers)

	_, err = svc.PreviewDelete(ctx, domain.KindSupplier, 31337)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.PreviewDelete(ctx, domain.EntityKind("spaceship"), 1)
	assert.ErrorIs(t, err, integrity.ErrUnknownKind)
}

func TestIntegrityService_Validate(t *testing.T) {
	deps, db := setupDeps(t)
	svc := service.NewIntegrityService(deps)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "welder", nil)
	m := testutil.CreateMaster(t, db, user.ID)

	res, err := svc.Validate(ctx, domain.KindSupplier, 0, []byte(`{"name":"Acme","email":"not-an-email"}`))
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "email", res.Errors[0].Field)

	body := []byte(`{"userId":` + jsonInt(user.ID) + `,"specialtyId":` + jsonInt(m.SpecialtyID) +
		`,"qualificationId":` + jsonInt(m.QualificationID) + `,"hireDate":"2021-01-01T00:00:00Z"}`)
	res, err = svc.Validate(ctx, domain.KindMaster, 0, body)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "userId", res.Errors[0].Field)

	// editing the master itself is not a duplicate
	res, err = svc.Validate(ctx, domain.KindMaster, m.ID, body)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)

	res, err = svc.Validate(ctx, domain.KindPurchase, 0, []byte(`{"quantity":2,"unitPrice":"-1"}`))
	require.NoError(t, err)
	fields := domain.ValidationErrors(res.Errors).Fields()
	assert.Contains(t, fields, "unitPrice")
	assert.Contains(t, fields, "assetId")

	_, err = svc.Validate(ctx, domain.KindAsset, 0, []byte(`{"name":`))
	assert.ErrorIs(t, err, service.ErrInvalidPayload)

	var count int64
	require.NoError(t, db.Model(&domain.Supplier{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestIntegrityService_Status(t *testing.T) {
	deps, db := setupDeps(t)
	svc := service.NewIntegrityService(deps)
	ctx := context.Background()

	eqType := testutil.CreateAssetType(t, db, "Equipment")
	asset := testutil.CreateAsset(t, db, "Boiler", func(a *domain.Asset) { a.TypeID = &eqType.ID })
	installed := time.Now().UTC().AddDate(-3, 0, 0)
	unit := testutil.CreateEquipment(t, db, asset.ID, eqType.ID, func(e *domain.Equipment) {
		e.InstallationDate = &installed
		e.WarrantyPeriodMonths = testutil.Ptr(12)
	})

	st, err := svc.Status(ctx, domain.KindEquipment, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, "expired", st.Statuses["warranty"].Tier)
	assert.Equal(t, "red", st.Statuses["warranty"].Color)
	assert.Equal(t, "unscheduled", st.Statuses["maintenance"].Tier)

	_, err = svc.Status(ctx, domain.KindWorkshop, 1)
	assert.ErrorIs(t, err, service.ErrUnsupportedKind)

	_, err = svc.Status(ctx, domain.KindPurchase, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
