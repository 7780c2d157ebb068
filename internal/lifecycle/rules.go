// Package lifecycle enforces the create and update rules of every entity.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MinPasswordLength is the shortest accepted user password
const MinPasswordLength = 6

// ErrUnsupportedDraft is returned when the draft type does not match the kind
var ErrUnsupportedDraft = errors.New("unsupported draft")

// UserDraft carries a user together with the plain password fields that
// never reach the store.
type UserDraft struct {
	User            *domain.User
	Password        string
	ConfirmPassword string
}

// Rules validates and normalizes drafts before they are written
type Rules struct {
	db       *gorm.DB
	validate *validator.Validate
}

// NewRules creates rules that look up references through db
func NewRules(db *gorm.DB) *Rules {
	return &Rules{db: db, validate: newValidator()}
}

// WithTx returns rules that read through tx
func (r *Rules) WithTx(tx *gorm.DB) *Rules {
	return &Rules{db: tx, validate: r.validate}
}

// Validate checks a draft of the given kind. The draft may be normalized in
// place (asset status cleared, purchase total recomputed). It returns nil,
// domain.ValidationErrors, domain.ErrDuplicateAssignment or a store error.
func (r *Rules) Validate(ctx context.Context, kind domain.EntityKind, draft interface{}) error {
	var (
		errs domain.ValidationErrors
		err  error
	)

	switch kind {
	case domain.KindAsset:
		a, ok := draft.(*domain.Asset)
		if !ok {
			return unsupported(kind, draft)
		}
		errs, err = r.validateAsset(ctx, a)
	case domain.KindEquipment:
		e, ok := draft.(*domain.Equipment)
		if !ok {
			return unsupported(kind, draft)
		}
		errs, err = r.validateEquipment(ctx, e)
	case domain.KindPurchase:
		p, ok := draft.(*domain.Purchase)
		if !ok {
			return unsupported(kind, draft)
		}
		errs, err = r.validatePurchase(ctx, p)
	case domain.KindMaintenance:
		m, ok := draft.(*domain.MaintenanceRecord)
		if !ok {
			return unsupported(kind, draft)
		}
		errs, err = r.validateMaintenance(ctx, m)
	case domain.KindMaster:
		m, ok := draft.(*domain.Master)
		if !ok {
			return unsupported(kind, draft)
		}
		errs, err = r.validateMaster(ctx, m)
	case domain.KindUser:
		switch u := draft.(type) {
		case *UserDraft:
			errs, err = r.validateUser(ctx, u)
		case *domain.User:
			errs, err = r.validateUser(ctx, &UserDraft{User: u})
		default:
			return unsupported(kind, draft)
		}
	case domain.KindRole:
		role, ok := draft.(*domain.Role)
		if !ok {
			return unsupported(kind, draft)
		}
		errs, err = r.validateRole(ctx, role)
	case domain.KindWorkshop:
		w, ok := draft.(*domain.Workshop)
		if !ok {
			return unsupported(kind, draft)
		}
		errs, err = r.validateWorkshop(ctx, w)
	case domain.KindSupplier:
		s, ok := draft.(*domain.Supplier)
		if !ok {
			return unsupported(kind, draft)
		}
		errs, err = structErrors(r.validate, s)
	case domain.KindWorkAct:
		w, ok := draft.(*domain.WorkAct)
		if !ok {
			return unsupported(kind, draft)
		}
		errs, err = r.validateWorkAct(ctx, w)
	default:
		if !kind.IsLookup() {
			return fmt.Errorf("%w: kind %s", ErrUnsupportedDraft, kind)
		}
		errs, err = structErrors(r.validate, draft)
	}

	if err != nil {
		return err
	}
	return errs.OrNil()
}

func unsupported(kind domain.EntityKind, draft interface{}) error {
	return fmt.Errorf("%w: %T for kind %s", ErrUnsupportedDraft, draft, kind)
}

// refCheck is one optional foreign key to verify
type refCheck struct {
	field string
	model interface{}
	id    *int64
}

func ref(field string, model interface{}, id *int64) refCheck {
	return refCheck{field: field, model: model, id: id}
}

func required(field string, model interface{}, id int64) refCheck {
	if id == 0 {
		return refCheck{field: field, model: model}
	}
	return refCheck{field: field, model: model, id: &id}
}

// checkRefs appends a "does not exist" error for every reference that does
// not resolve. Fields that already failed are skipped.
func (r *Rules) checkRefs(ctx context.Context, errs *domain.ValidationErrors, checks ...refCheck) error {
	for _, c := range checks {
		if c.id == nil || errs.Has(c.field) {
			continue
		}
		var count int64
		if err := r.db.WithContext(ctx).Model(c.model).Where("id = ?", *c.id).Count(&count).Error; err != nil {
			return domain.NewStoreError("check "+c.field, err)
		}
		if count == 0 {
			errs.Add(c.field, "does not exist")
		}
	}
	return nil
}

// assetTypeCode resolves the type code of an asset type id. ok is false
// when the type does not exist.
func (r *Rules) assetTypeCode(ctx context.Context, typeID int64) (domain.AssetTypeCode, bool, error) {
	var t domain.AssetType
	err := r.db.WithContext(ctx).Select("id", "name", "code").First(&t, typeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, domain.NewStoreError("load asset type", err)
	}
	if t.Code == "" {
		t.Code = domain.ResolveAssetTypeCode(t.Name)
	}
	return t.Code, true, nil
}

func (r *Rules) validateAsset(ctx context.Context, a *domain.Asset) (domain.ValidationErrors, error) {
	a.Name = strings.TrimSpace(a.Name)

	errs, err := structErrors(r.validate, a)
	if err != nil {
		return nil, err
	}
	checkNonNegative(&errs, "minQuantity", a.MinQuantity)
	checkPositive(&errs, "purchaseCost", a.PurchaseCost)
	checkPositive(&errs, "currentValue", a.CurrentValue)

	// status is only kept for equipment-typed assets
	isEquipment := false
	if a.TypeID != nil {
		code, found, err := r.assetTypeCode(ctx, *a.TypeID)
		if err != nil {
			return nil, err
		}
		if !found {
			errs.Add("typeId", "does not exist")
		}
		isEquipment = found && code == domain.AssetTypeEquipment
	}
	if !isEquipment {
		a.StatusID = nil
		a.Status = nil
	}

	if err := r.checkRefs(ctx, &errs,
		ref("categoryId", &domain.Category{}, a.CategoryID),
		ref("workshopId", &domain.Workshop{}, a.WorkshopID),
		ref("supplierId", &domain.Supplier{}, a.SupplierID),
		ref("statusId", &domain.AssetStatus{}, a.StatusID),
		ref("unitId", &domain.Unit{}, a.UnitID),
	); err != nil {
		return nil, err
	}
	return errs, nil
}

func (r *Rules) validateEquipment(ctx context.Context, e *domain.Equipment) (domain.ValidationErrors, error) {
	errs, err := structErrors(r.validate, e)
	if err != nil {
		return nil, err
	}

	if e.AssetID != 0 && !errs.Has("assetId") {
		var asset domain.Asset
		err := r.db.WithContext(ctx).Select("id", "type_id").First(&asset, e.AssetID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			errs.Add("assetId", "does not exist")
		case err != nil:
			return nil, domain.NewStoreError("load asset", err)
		default:
			isEquipment := false
			if asset.TypeID != nil {
				code, _, err := r.assetTypeCode(ctx, *asset.TypeID)
				if err != nil {
					return nil, err
				}
				isEquipment = code == domain.AssetTypeEquipment
			}
			if !isEquipment {
				errs.Add("assetId", "must reference an equipment-typed asset")
			}
		}
	}

	if err := r.checkRefs(ctx, &errs,
		required("equipmentTypeId", &domain.AssetType{}, e.EquipmentTypeID),
		ref("workshopId", &domain.Workshop{}, e.WorkshopID),
		ref("assignedMasterId", &domain.Master{}, e.AssignedMasterID),
		ref("statusId", &domain.AssetStatus{}, e.StatusID),
	); err != nil {
		return nil, err
	}
	return errs, nil
}

// PurchaseTotal returns quantity × unit price rounded to two places
func PurchaseTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

func (r *Rules) validatePurchase(ctx context.Context, p *domain.Purchase) (domain.ValidationErrors, error) {
	// never trust a client supplied total
	p.TotalCost = decimal.NewNullDecimal(PurchaseTotal(p.Quantity, p.UnitPrice))

	errs, err := structErrors(r.validate, p)
	if err != nil {
		return nil, err
	}
	if err := r.checkRefs(ctx, &errs,
		required("assetId", &domain.Asset{}, p.AssetID),
		required("supplierId", &domain.Supplier{}, p.SupplierID),
		ref("managerId", &domain.Master{}, p.ManagerID),
		ref("statusId", &domain.PurchaseStatus{}, p.StatusID),
	); err != nil {
		return nil, err
	}
	return errs, nil
}

func (r *Rules) validateMaintenance(ctx context.Context, m *domain.MaintenanceRecord) (domain.ValidationErrors, error) {
	errs, err := structErrors(r.validate, m)
	if err != nil {
		return nil, err
	}
	checkNonNegative(&errs, "cost", m.Cost)
	checkNonNegative(&errs, "downtimeHours", m.DowntimeHours)
	if err := r.checkRefs(ctx, &errs,
		required("equipmentId", &domain.Equipment{}, m.EquipmentID),
		ref("masterId", &domain.Master{}, m.MasterID),
		ref("statusId", &domain.AssetStatus{}, m.StatusID),
	); err != nil {
		return nil, err
	}
	return errs, nil
}

func (r *Rules) validateMaster(ctx context.Context, m *domain.Master) (domain.ValidationErrors, error) {
	if m.SkillLevel == "" {
		m.SkillLevel = domain.SkillMedium
	}

	errs, err := structErrors(r.validate, m)
	if err != nil {
		return nil, err
	}
	if err := r.checkRefs(ctx, &errs,
		required("userId", &domain.User{}, m.UserID),
		required("specialtyId", &domain.Specialty{}, m.SpecialtyID),
		required("qualificationId", &domain.Qualification{}, m.QualificationID),
	); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return errs, nil
	}

	// a user is linked to at most one master; on update the master itself is excluded
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Master{}).
		Where("user_id = ? AND id <> ?", m.UserID, m.ID).
		Count(&count).Error; err != nil {
		return nil, domain.NewStoreError("check master assignment", err)
	}
	if count > 0 {
		return nil, domain.ErrDuplicateAssignment
	}
	return nil, nil
}

func (r *Rules) validateUser(ctx context.Context, d *UserDraft) (domain.ValidationErrors, error) {
	u := d.User
	if u == nil {
		return nil, fmt.Errorf("%w: user draft without user", ErrUnsupportedDraft)
	}
	u.Username = strings.TrimSpace(u.Username)
	u.FullName = strings.TrimSpace(u.FullName)

	errs, err := structErrors(r.validate, u)
	if err != nil {
		return nil, err
	}

	creating := u.ID == 0
	if creating || d.Password != "" {
		switch {
		case len(d.Password) < MinPasswordLength:
			errs.Add("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
		case d.Password != d.ConfirmPassword:
			errs.Add("confirmPassword", "does not match password")
		}
	}

	if u.Username != "" && !errs.Has("username") {
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.User{}).
			Where("LOWER(username) = LOWER(?) AND id <> ?", u.Username, u.ID).
			Count(&count).Error; err != nil {
			return nil, domain.NewStoreError("check username", err)
		}
		if count > 0 {
			errs.Add("username", "is already taken")
		}
	}

	if err := r.checkRefs(ctx, &errs, ref("roleId", &domain.Role{}, u.RoleID)); err != nil {
		return nil, err
	}
	return errs, nil
}

func (r *Rules) validateRole(ctx context.Context, role *domain.Role) (domain.ValidationErrors, error) {
	role.Name = strings.TrimSpace(role.Name)

	errs, err := structErrors(r.validate, role)
	if err != nil {
		return nil, err
	}
	if role.Name != "" && !errs.Has("name") {
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.Role{}).
			Where("LOWER(name) = LOWER(?) AND id <> ?", role.Name, role.ID).
			Count(&count).Error; err != nil {
			return nil, domain.NewStoreError("check role name", err)
		}
		if count > 0 {
			errs.Add("name", "already exists")
		}
	}
	return errs, nil
}

func (r *Rules) validateWorkshop(ctx context.Context, w *domain.Workshop) (domain.ValidationErrors, error) {
	w.Name = strings.TrimSpace(w.Name)

	errs, err := structErrors(r.validate, w)
	if err != nil {
		return nil, err
	}
	if err := r.checkRefs(ctx, &errs, ref("managerId", &domain.Master{}, w.ManagerID)); err != nil {
		return nil, err
	}
	return errs, nil
}

func (r *Rules) validateWorkAct(ctx context.Context, w *domain.WorkAct) (domain.ValidationErrors, error) {
	var errs domain.ValidationErrors
	if err := r.checkRefs(ctx, &errs,
		ref("assetId", &domain.Asset{}, w.AssetID),
		ref("masterId", &domain.Master{}, w.MasterID),
	); err != nil {
		return nil, err
	}
	return errs, nil
}
