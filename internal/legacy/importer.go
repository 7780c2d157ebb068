package legacy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/lifecycle"
	"github.com/foxerka/enterprise-assets/internal/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Source runs read-only queries against the legacy database
type Source interface {
	Query(ctx context.Context, query string, args ...interface{}) ([]Row, error)
}

// Legacy table queries. Column aliases match the names read by the row mappers.
const (
	queryAssetTypes = `SELECT ID_ASSETTYPE AS id, AssetType AS name FROM ASSETTYPE`
	queryCategories = `SELECT ID_category AS id, Category AS name FROM CATEGORY`
	queryStatuses   = `SELECT ID_status AS id, Status AS name FROM STATUSASSETS`
	querySuppliers  = `SELECT id, name, contact_person, email, phone, address, tax_number, is_active FROM SUPPLIERS`
	queryWorkshops  = `SELECT id, name, location FROM WORKSHOPS`
	queryAssets     = `SELECT id, name, serial_number, description, asset_type, id_category, workshop_id, supplier_id,
		status, quantity, min_quantity, purchase_cost, current_value, purchase_date, warehouse_location
		FROM PRODUCTION_ASSETS`
	queryEquipment = `SELECT id, asset_id, equipment_type, workshop_id, status, manufacturer, installation_date,
		warranty_period_months, last_maintenance_date, next_maintenance_date, current_work_hours,
		max_work_hours_before_maintenance AS max_work_hours, notes
		FROM EQUIPMENT`
)

// Result counts what happened to the rows of one entity kind
type Result struct {
	Kind    domain.EntityKind `json:"kind"`
	Read    int               `json:"read"`
	Created int               `json:"created"`
	Updated int               `json:"updated"`
	Skipped int               `json:"skipped"`
}

// Importer copies lookups, suppliers, workshops, assets and equipment from
// the legacy database. Rows are matched by legacy id through LegacyMapping so
// running it again updates instead of duplicating.
type Importer struct {
	src    Source
	db     *gorm.DB
	rules  *lifecycle.Rules
	logger *zap.Logger
	now    func() time.Time
}

func NewImporter(src Source, db *gorm.DB, rules *lifecycle.Rules, logger *zap.Logger) *Importer {
	return &Importer{src: src, db: db, rules: rules, logger: logger, now: time.Now}
}

type step struct {
	kind  domain.EntityKind
	query string
	apply func(ctx context.Context, tx *gorm.DB, row Row, id *int64) (bool, error)
}

// errSkipRow marks a row that cannot be imported; the import continues
var errSkipRow = errors.New("row skipped")

// Run imports every kind in dependency order. Each kind is committed in its
// own transaction; a store failure stops the run.
func (i *Importer) Run(ctx context.Context) ([]Result, error) {
	steps := []step{
		{domain.KindAssetType, queryAssetTypes, i.applyAssetType},
		{domain.KindCategory, queryCategories, i.applyCategory},
		{domain.KindAssetStatus, queryStatuses, i.applyStatus},
		{domain.KindSupplier, querySuppliers, i.applySupplier},
		{domain.KindWorkshop, queryWorkshops, i.applyWorkshop},
		{domain.KindAsset, queryAssets, i.applyAsset},
		{domain.KindEquipment, queryEquipment, i.applyEquipment},
	}

	results := make([]Result, 0, len(steps))
	for _, s := range steps {
		res, err := i.runStep(ctx, s)
		results = append(results, res)
		if err != nil {
			return results, fmt.Errorf("failed to import %s: %w", s.kind, err)
		}
		i.logger.Info("legacy import step completed",
			zap.String("kind", string(res.Kind)),
			zap.Int("read", res.Read),
			zap.Int("created", res.Created),
			zap.Int("updated", res.Updated),
			zap.Int("skipped", res.Skipped),
		)
	}
	return results, nil
}

func (i *Importer) runStep(ctx context.Context, s step) (Result, error) {
	res := Result{Kind: s.kind}

	rows, err := i.src.Query(ctx, s.query)
	if err != nil {
		return res, err
	}
	res.Read = len(rows)

	err = i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			legacyID, ok := row.Int64("id")
			if !ok {
				res.Skipped++
				continue
			}

			existing, err := i.mapped(tx, s.kind, legacyID)
			if err != nil {
				return err
			}

			created, err := s.apply(ctx, tx, row, existing)
			if err != nil {
				if errors.Is(err, errSkipRow) {
					res.Skipped++
					logger.WithEntity(i.logger, string(s.kind), legacyID).Warn("legacy row skipped", zap.Error(err))
					continue
				}
				return err
			}
			if created {
				res.Created++
			} else {
				res.Updated++
			}
		}
		return nil
	})
	return res, err
}

// mapped returns the current id of an imported row, or nil when the row was
// never imported or its entity has been deleted since.
func (i *Importer) mapped(tx *gorm.DB, kind domain.EntityKind, legacyID int64) (*int64, error) {
	var m domain.LegacyMapping
	err := tx.Where("kind = ? AND legacy_id = ?", kind, legacyID).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStoreError("find legacy mapping", err)
	}

	model := modelFor(kind)
	var count int64
	if err := tx.Model(model).Where("id = ?", m.EntityID).Count(&count).Error; err != nil {
		return nil, domain.NewStoreError("find legacy entity", err)
	}
	if count == 0 {
		if err := tx.Delete(&m).Error; err != nil {
			return nil, domain.NewStoreError("delete stale legacy mapping", err)
		}
		return nil, nil
	}
	return &m.EntityID, nil
}

// resolve maps a legacy foreign key to the imported id
func (i *Importer) resolve(tx *gorm.DB, kind domain.EntityKind, legacyID *int64) (*int64, error) {
	if legacyID == nil {
		return nil, nil
	}
	return i.mapped(tx, kind, *legacyID)
}

func modelFor(kind domain.EntityKind) interface{} {
	switch kind {
	case domain.KindAssetType:
		return &domain.AssetType{}
	case domain.KindCategory:
		return &domain.Category{}
	case domain.KindAssetStatus:
		return &domain.AssetStatus{}
	case domain.KindSupplier:
		return &domain.Supplier{}
	case domain.KindWorkshop:
		return &domain.Workshop{}
	case domain.KindAsset:
		return &domain.Asset{}
	case domain.KindEquipment:
		return &domain.Equipment{}
	}
	return nil
}

// save validates entity, writes it and records the mapping for new rows
func (i *Importer) save(ctx context.Context, tx *gorm.DB, kind domain.EntityKind, legacyID int64, entity interface{}, id *int64, newID func() int64) (bool, error) {
	if err := i.rules.WithTx(tx).Validate(ctx, kind, entity); err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) || errors.Is(err, domain.ErrDuplicateAssignment) {
			return false, fmt.Errorf("%w: %v", errSkipRow, err)
		}
		return false, err
	}

	if id != nil {
		if err := tx.Omit(clause.Associations, "created_at").Save(entity).Error; err != nil {
			return false, domain.NewStoreError("update imported "+string(kind), err)
		}
		return false, nil
	}

	if err := tx.Omit(clause.Associations).Create(entity).Error; err != nil {
		return false, domain.NewStoreError("create imported "+string(kind), err)
	}
	mapping := domain.LegacyMapping{Kind: kind, LegacyID: legacyID, EntityID: newID(), ImportedAt: i.now()}
	if err := tx.Create(&mapping).Error; err != nil {
		return false, domain.NewStoreError("create legacy mapping", err)
	}
	return true, nil
}

func idOrZero(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}

func (i *Importer) applyAssetType(ctx context.Context, tx *gorm.DB, row Row, id *int64) (bool, error) {
	legacyID, _ := row.Int64("id")
	t := &domain.AssetType{ID: idOrZero(id), Name: row.String("name")}
	return i.save(ctx, tx, domain.KindAssetType, legacyID, t, id, func() int64 { return t.ID })
}

func (i *Importer) applyCategory(ctx context.Context, tx *gorm.DB, row Row, id *int64) (bool, error) {
	legacyID, _ := row.Int64("id")
	c := &domain.Category{ID: idOrZero(id), Name: row.String("name")}
	return i.save(ctx, tx, domain.KindCategory, legacyID, c, id, func() int64 { return c.ID })
}

func (i *Importer) applyStatus(ctx context.Context, tx *gorm.DB, row Row, id *int64) (bool, error) {
	legacyID, _ := row.Int64("id")
	s := &domain.AssetStatus{ID: idOrZero(id), Name: row.String("name")}
	return i.save(ctx, tx, domain.KindAssetStatus, legacyID, s, id, func() int64 { return s.ID })
}

func (i *Importer) applySupplier(ctx context.Context, tx *gorm.DB, row Row, id *int64) (bool, error) {
	legacyID, _ := row.Int64("id")
	s := &domain.Supplier{
		ID:            idOrZero(id),
		Name:          row.String("name"),
		ContactPerson: row.String("contact_person"),
		Email:         row.String("email"),
		Phone:         row.String("phone"),
		Address:       row.String("address"),
		TaxNumber:     row.String("tax_number"),
		IsActive:      row.Bool("is_active", true),
	}
	return i.save(ctx, tx, domain.KindSupplier, legacyID, s, id, func() int64 { return s.ID })
}

func (i *Importer) applyWorkshop(ctx context.Context, tx *gorm.DB, row Row, id *int64) (bool, error) {
	legacyID, _ := row.Int64("id")
	w := &domain.Workshop{ID: idOrZero(id), Name: row.String("name"), Location: row.String("location")}
	if id != nil {
		// managers are masters, which are not imported; keep whatever was assigned since
		var current domain.Workshop
		if err := tx.Select("manager_id").Take(&current, *id).Error; err != nil {
			return false, domain.NewStoreError("find workshop", err)
		}
		w.ManagerID = current.ManagerID
	}
	return i.save(ctx, tx, domain.KindWorkshop, legacyID, w, id, func() int64 { return w.ID })
}

func (i *Importer) applyAsset(ctx context.Context, tx *gorm.DB, row Row, id *int64) (bool, error) {
	legacyID, _ := row.Int64("id")
	a := &domain.Asset{
		ID:                idOrZero(id),
		Name:              row.String("name"),
		SerialNumber:      row.String("serial_number"),
		Description:       row.String("description"),
		MinQuantity:       row.Decimal("min_quantity"),
		PurchaseCost:      row.Decimal("purchase_cost"),
		CurrentValue:      row.Decimal("current_value"),
		PurchaseDate:      row.Time("purchase_date"),
		WarehouseLocation: row.String("warehouse_location"),
	}
	if q := row.Decimal("quantity"); q.Valid {
		a.Quantity = q.Decimal
	}

	var err error
	refs := []struct {
		kind   domain.EntityKind
		column string
		dst    **int64
	}{
		{domain.KindAssetType, "asset_type", &a.TypeID},
		{domain.KindCategory, "id_category", &a.CategoryID},
		{domain.KindWorkshop, "workshop_id", &a.WorkshopID},
		{domain.KindSupplier, "supplier_id", &a.SupplierID},
		{domain.KindAssetStatus, "status", &a.StatusID},
	}
	for _, ref := range refs {
		if *ref.dst, err = i.resolve(tx, ref.kind, row.Int64Ptr(ref.column)); err != nil {
			return false, err
		}
	}
	return i.save(ctx, tx, domain.KindAsset, legacyID, a, id, func() int64 { return a.ID })
}

func (i *Importer) applyEquipment(ctx context.Context, tx *gorm.DB, row Row, id *int64) (bool, error) {
	legacyID, _ := row.Int64("id")

	assetID, err := i.resolve(tx, domain.KindAsset, row.Int64Ptr("asset_id"))
	if err != nil {
		return false, err
	}
	if assetID == nil {
		return false, fmt.Errorf("%w: asset %v was not imported", errSkipRow, row["asset_id"])
	}

	typeID, err := i.resolve(tx, domain.KindAssetType, row.Int64Ptr("equipment_type"))
	if err != nil {
		return false, err
	}
	if typeID == nil {
		var asset domain.Asset
		if err := tx.Select("type_id").Take(&asset, *assetID).Error; err != nil {
			return false, domain.NewStoreError("find asset", err)
		}
		typeID = asset.TypeID
	}
	if typeID == nil {
		return false, fmt.Errorf("%w: no equipment type", errSkipRow)
	}

	e := &domain.Equipment{
		ID:                   idOrZero(id),
		AssetID:              *assetID,
		EquipmentTypeID:      *typeID,
		Manufacturer:         row.String("manufacturer"),
		InstallationDate:     row.Time("installation_date"),
		WarrantyPeriodMonths: row.IntPtr("warranty_period_months"),
		LastMaintenanceDate:  row.Time("last_maintenance_date"),
		NextMaintenanceDate:  row.Time("next_maintenance_date"),
		CurrentWorkHours:     row.IntPtr("current_work_hours"),
		MaxWorkHours:         row.IntPtr("max_work_hours"),
		Notes:                row.String("notes"),
	}
	if e.WorkshopID, err = i.resolve(tx, domain.KindWorkshop, row.Int64Ptr("workshop_id")); err != nil {
		return false, err
	}
	if e.StatusID, err = i.resolve(tx, domain.KindAssetStatus, row.Int64Ptr("status")); err != nil {
		return false, err
	}
	if id != nil {
		var current domain.Equipment
		if err := tx.Select("assigned_master_id").Take(&current, *id).Error; err != nil {
			return false, domain.NewStoreError("find equipment", err)
		}
		e.AssignedMasterID = current.AssignedMasterID
	}
	return i.save(ctx, tx, domain.KindEquipment, legacyID, e, id, func() int64 { return e.ID })
}
