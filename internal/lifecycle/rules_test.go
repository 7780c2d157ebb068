package lifecycle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/lifecycle"
	"github.com/foxerka/enterprise-assets/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationErrors(t *testing.T, err error) domain.ValidationErrors {
	t.Helper()
	var ve domain.ValidationErrors
	require.True(t, errors.As(err, &ve), "expected ValidationErrors, got %v", err)
	return ve
}

func TestValidateAsset_NonEquipmentTypeClearsStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	rules := lifecycle.NewRules(db)

	material := testutil.CreateAssetType(t, db, "Материал")
	st := testutil.CreateAssetStatus(t, db, "В эксплуатации")

	a := &domain.Asset{Name: "Steel sheet", TypeID: &material.ID, StatusID: &st.ID, Quantity: decimal.NewFromInt(10)}
	require.NoError(t, rules.Validate(context.Background(), domain.KindAsset, a))
	assert.Nil(t, a.StatusID)
}

func TestValidateAsset_EquipmentTypeKeepsStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	rules := lifecycle.NewRules(db)

	eq := testutil.CreateAssetType(t, db, "  ОБОРУДОВАНИЕ ")
	st := testutil.CreateAssetStatus(t, db, "Faulty")

	a := &domain.Asset{Name: "CNC mill", TypeID: &eq.ID, StatusID: &st.ID}
	require.NoError(t, rules.Validate(context.Background(), domain.KindAsset, a))
	require.NotNil(t, a.StatusID)
	assert.Equal(t, st.ID, *a.StatusID)
}

func TestValidateAsset_TypeChangeClearsStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	rules := lifecycle.NewRules(db)
	ctx := context.Background()

	eq := testutil.CreateAssetType(t, db, "Equipment")
	tool := testutil.CreateAssetType(t, db, "Tool")
	st := testutil.CreateAssetStatus(t, db, "Reserve")

	a := testutil.CreateAsset(t, db, "Drill", func(a *domain.Asset) {
		a.TypeID = &eq.ID
		a.StatusID = &st.ID
	})

	a.TypeID = &tool.ID
	require.NoError(t, rules.Validate(ctx, domain.KindAsset, a))
	assert.Nil(t, a.StatusID)
}

func TestValidateAsset_FieldRules(t *testing.T) {
	db := testutil.SetupTestDB(t)
	rules := lifecycle.NewRules(db)

	missing := int64(404)
	a := &domain.Asset{
		Name:         "   ",
		Quantity:     decimal.NewFromInt(-1),
		PurchaseCost: decimal.NewNullDecimal(decimal.Zero),
		CategoryID:   &missing,
	}
	ve := validationErrors(t, rules.Validate(context.Background(), domain.KindAsset, a))

	fields := ve.Fields()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "quantity")
	assert.Contains(t, fields, "purchaseCost")
	assert.Equal(t, "does not exist", fields["categoryId"])
}

func TestValidateAsset_NullOptionalValuesAreValid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	rules := lifecycle.NewRules(db)

	a := &domain.Asset{Name: "Bolts", Quantity: decimal.Zero}
	assert.NoError(t, rules.Validate(context.Background(), domain.KindAsset, a))
}

func TestValidatePurchase_RecomputesTotal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	rules := lifecycle.NewRules(db)

	asset := testutil.CreateAsset(t, db, "Bearing")
	supplier := testutil.CreateSupplier(t, db, "SKF")

	p := &domain.Purchase{
		AssetID:    asset.ID,
		SupplierID: supplier.ID,
		Quantity:   3,
		UnitPrice:  decimal.RequireFromString("150.00"),
		TotalCost:  decimal.NewNullDecimal(decimal.NewFromInt(1)),
	}
	require.NoError(t, rules.Validate(context.Background(), domain.KindPurchase, p))
	require.True(t, p.TotalCost.Valid)
	assert.Equal(t, "450.00", p.TotalCost.Decimal.StringFixed(2))
}

func TestValidatePurchase_RequiredFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	rules := lifecycle.NewRules(db)

	p := &domain.Purchase{Quantity: 0, UnitPrice: decimal.Zero}
	ve := validationErrors(t, rules.Validate(context.Background(), domain.KindPurchase, p))

	fields := ve.Fields()
	for _, f := range []string{"assetId", "supplierId", "quantity", "unitPrice"} {
		assert.Contains(t, fields, f)
	}
}

func TestValidateEquipment_AssetMustBeEquipmentTyped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	rules := lifecycle.NewRules(db)

	material := testutil.CreateAssetType(t, db, "Material")
	asset := testutil.CreateAsset(t, db, "Paint", func(a *domain.Asset) { a.TypeID = &material.ID })

	e := &domain.Equipment{AssetID: asset.ID, EquipmentTypeID: material.ID}
	ve := validationErrors(t, rules.Validate(context.Background(), domain.KindEquipment, e))
	assert.Equal(t, "must reference an equipment-typed asset", ve.Fields()["assetId"])
}

func TestValidateEquipment_Valid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	rules := lifecycle.NewRules(db)

	eq := testutil.CreateAssetType(t, db, "equipment")
	asset := testutil.CreateAsset(t, db, "Press", func(a *domain.Asset) { a.TypeID = &eq.ID })
	months := 24

	e := &domain.Equipment{AssetID: asset.ID, EquipmentTypeID: eq.ID, WarrantyPeriodMonths: &months}
	assert.NoError(t, rules.Validate(context.Background(), domain.KindEquipment, e))
}

func TestValidateMaster_DuplicateAssignment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	rules := lifecycle.NewRules(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "sidorov", nil)
	existing := testutil.CreateMaster(t, db, user.ID)

	dup := &domain.Master{
		UserID:          user.ID,
		SpecialtyID:     existing.SpecialtyID,
		QualificationID: existing.QualificationID,
		HireDate:        time.Now(),
	}
	err := rules.Validate(ctx, domain.KindMaster, dup)
	assert.ErrorIs(t, err, domain.ErrDuplicateAssignment)

	// re-validating the existing master against itself is fine
	assert.NoError(t, rules.Validate(ctx, domain.KindMaster, existing))
}

func TestValidateMaster_DefaultsSkillLevel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	rules := lifecycle.NewRules(db)

	user := testutil.CreateUser(t, db, "kuznetsov", nil)
	other := testutil.CreateUser(t, db, "popov", nil)
	existing := testutil.CreateMaster(t, db, other.ID)

	m := &domain.Master{
		UserID:          user.ID,
		SpecialtyID:     existing.SpecialtyID,
		QualificationID: existing.QualificationID,
		HireDate:        time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, rules.Validate(context.Background(), domain.KindMaster, m))
	assert.Equal(t, domain.SkillMedium, m.SkillLevel)
}

func TestValidateUser_Passwords(t *testing.T) {
	db := testutil.SetupTestDB(t)
	rules := lifecycle.NewRules(db)
	ctx := context.Background()

	short := &lifecycle.UserDraft{User: &domain.User{Username: "a", FullName: "A"}, Password: "123", ConfirmPassword: "123"}
	ve := validationErrors(t, rules.Validate(ctx, domain.KindUser, short))
	assert.Contains(t, ve.Fields(), "password")

	mismatch := &lifecycle.UserDraft{User: &domain.User{Username: "a", FullName: "A"}, Password: "secret1", ConfirmPassword: "secret2"}
	ve = validationErrors(t, rules.Validate(ctx, domain.KindUser, mismatch))
	assert.Contains(t, ve.Fields(), "confirmPassword")

	ok := &lifecycle.UserDraft{User: &domain.User{Username: "a", FullName: "A"}, Password: "secret1", ConfirmPassword: "secret1"}
	assert.NoError(t, rules.Validate(ctx, domain.KindUser, ok))
}

func TestValidateUser_UsernameTaken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	rules := lifecycle.NewRules(db)

	testutil.CreateUser(t, db, "admin", nil)

	d := &lifecycle.UserDraft{User: &domain.User{Username: "admin", FullName: "Second"}, Password: "secret1", ConfirmPassword: "secret1"}
	ve := validationErrors(t, rules.Validate(context.Background(), domain.KindUser, d))
	assert.Equal(t, "is already taken", ve.Fields()["username"])
}

func TestValidateRole_UniqueName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	rules := lifecycle.NewRules(db)

	testutil.CreateRole(t, db, "Administrator")

	ve := validationErrors(t, rules.Validate(context.Background(), domain.KindRole, &domain.Role{Name: "Administrator"}))
	assert.Equal(t, "already exists", ve.Fields()["name"])
}

func TestValidate_LookupAndMismatchedDraft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	rules := lifecycle.NewRules(db)
	ctx := context.Background()

	ve := validationErrors(t, rules.Validate(ctx, domain.KindCategory, &domain.Category{Name: ""}))
	assert.Contains(t, ve.Fields(), "name")

	err := rules.Validate(ctx, domain.KindAsset, &domain.Supplier{})
	assert.ErrorIs(t, err, lifecycle.ErrUnsupportedDraft)
}
