package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/service"
	"github.com/foxerka/enterprise-assets/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMasterService_Create(t *testing.T) {
	deps, db := setupDeps(t)
	svc := service.NewMasterService(deps)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "ivanov", nil)
	existing := testutil.CreateMaster(t, db, user.ID)
	other := testutil.CreateUser(t, db, "petrov", nil)

	req := &domain.MasterRequest{
		UserID:          other.ID,
		SpecialtyID:     existing.SpecialtyID,
		QualificationID: existing.QualificationID,
		HireDate:        time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	dto, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.SkillMedium, dto.SkillLevel)
	assert.True(t, dto.IsAvailable)
	assert.Equal(t, "Test petrov", dto.FullName)

	t.Run("user already linked", func(t *testing.T) {
		dup := *req
		dup.UserID = user.ID
		_, err := svc.Create(ctx, &dup)
		assert.ErrorIs(t, err, domain.ErrDuplicateAssignment)
	})

	t.Run("update rechecks other masters", func(t *testing.T) {
		move := *req
		move.UserID = user.ID
		_, err := svc.Update(ctx, dto.ID, &move)
		assert.ErrorIs(t, err, domain.ErrDuplicateAssignment)

		same := *req
		same.SkillLevel = domain.SkillExpert
		updated, err := svc.Update(ctx, dto.ID, &same)
		require.NoError(t, err)
		assert.Equal(t, domain.SkillExpert, updated.SkillLevel)
	})

	t.Run("unknown skill level", func(t *testing.T) {
		bad := *req
		bad.UserID = testutil.CreateUser(t, db, "sidorov", nil).ID
		bad.SkillLevel = "guru"
		_, err := svc.Create(ctx, &bad)
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.Has("skillLevel"))
	})
}

func TestMasterService_WorkStats(t *testing.T) {
	deps, db := setupDeps(t)
	svc := service.NewMasterService(deps)
	ctx := context.Background()

	master := testutil.CreateMaster(t, db, testutil.CreateUser(t, db, "smirnov", nil).ID)
	other := testutil.CreateMaster(t, db, testutil.CreateUser(t, db, "kuznetsov", nil).ID)

	act := testutil.CreateWorkAct(t, db, nil, &master.ID)
	testutil.CreateWorkAct(t, db, nil, &master.ID)
	otherAct := testutil.CreateWorkAct(t, db, nil, &other.ID)
	testutil.CreateCompletionAct(t, db, act.ID)
	testutil.CreateCompletionAct(t, db, otherAct.ID)

	eqType := testutil.CreateAssetType(t, db, "Equipment")
	asset := testutil.CreateAsset(t, db, "Mill", func(a *domain.Asset) { a.TypeID = &eqType.ID })
	testutil.CreateEquipment(t, db, asset.ID, eqType.ID, func(e *domain.Equipment) { e.AssignedMasterID = &master.ID })

	stats, err := svc.WorkStats(ctx, master.ID)
	require.NoError(t, err)
	assert.Equal(t, &domain.MasterStatsDTO{MasterID: master.ID, WorkActs: 2, CompletionActs: 1, EquipmentAssigned: 1}, stats)

	_, err = svc.WorkStats(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMasterService_Options(t *testing.T) {
	deps, db := setupDeps(t)
	svc := service.NewMasterService(deps)

	m := testutil.CreateMaster(t, db, testutil.CreateUser(t, db, "orlov", nil).ID)

	opts, err := svc.Options(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.True(t, opts[0].ID.IsNone())
	assert.Equal(t, service.NoMasterLabel, opts[0].Label)

	data, err := json.Marshal(opts[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":`+jsonInt(m.ID)+`,"label":"Test orlov"}`, string(data))
}

func jsonInt(v int64) string {
	data, _ := json.Marshal(v)
	return string(data)
}
