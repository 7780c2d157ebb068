package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

func searchScope(search string, columns ...string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		pattern := "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
		conds := make([]string, 0, len(columns))
		args := make([]interface{}, 0, len(columns))
		for _, c := range columns {
			conds = append(conds, "LOWER("+c+") LIKE ?")
			args = append(args, pattern)
		}
		return db.Where(strings.Join(conds, " OR "), args...)
	}
}

func eqScope(column string, value int64) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", value)
	}
}

// AssetFilters defines filter options for asset listing
type AssetFilters struct {
	Search       string
	TypeID       *int64
	CategoryID   *int64
	WorkshopID   *int64
	SupplierID   *int64
	StatusID     *int64
	LowStockOnly bool
}

// assetSortableFields maps API field names to database column names for assets
var assetSortableFields = map[string]string{
	"id":           "id",
	"name":         "name",
	"serialNumber": "serial_number",
	"quantity":     "quantity",
	"purchaseDate": "purchase_date",
	"createdAt":    "created_at",
}

func (f AssetFilters) Scopes() []Scope {
	var scopes []Scope
	if f.Search != "" {
		scopes = append(scopes, searchScope(f.Search, "name", "serial_number", "warehouse_location"))
	}
	if f.TypeID != nil {
		scopes = append(scopes, eqScope("type_id", *f.TypeID))
	}
	if f.CategoryID != nil {
		scopes = append(scopes, eqScope("category_id", *f.CategoryID))
	}
	if f.WorkshopID != nil {
		scopes = append(scopes, eqScope("workshop_id", *f.WorkshopID))
	}
	if f.SupplierID != nil {
		scopes = append(scopes, eqScope("supplier_id", *f.SupplierID))
	}
	if f.StatusID != nil {
		scopes = append(scopes, eqScope("status_id", *f.StatusID))
	}
	if f.LowStockOnly {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("min_quantity IS NOT NULL AND quantity < min_quantity")
		})
	}
	return scopes
}

// Query builds the list query for assets
func (f AssetFilters) Query(sort SortConfig) Query {
	return Query{
		Scopes:   f.Scopes(),
		Order:    BuildOrderClause(sort, assetSortableFields, "id"),
		Preloads: []string{"Type", "Category", "Workshop", "Supplier", "Status", "Unit"},
	}
}

// EquipmentFilters defines filter options for equipment listing
type EquipmentFilters struct {
	Search     string
	WorkshopID *int64
	StatusID   *int64
	MasterID   *int64
	// DueBefore keeps equipment whose next maintenance is on or before the date
	DueBefore *time.Time
}

var equipmentSortableFields = map[string]string{
	"id":                  "id",
	"manufacturer":        "manufacturer",
	"installationDate":    "installation_date",
	"nextMaintenanceDate": "next_maintenance_date",
	"lastMaintenanceDate": "last_maintenance_date",
	"currentWorkHours":    "current_work_hours",
}

func (f EquipmentFilters) Scopes() []Scope {
	var scopes []Scope
	if f.Search != "" {
		search := f.Search
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			pattern := "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
			return db.Where("LOWER(manufacturer) LIKE ? OR LOWER(notes) LIKE ? OR asset_id IN (?)",
				pattern, pattern,
				db.Session(&gorm.Session{NewDB: true}).Table("assets").Select("id").
					Where("LOWER(name) LIKE ? OR LOWER(serial_number) LIKE ?", pattern, pattern))
		})
	}
	if f.WorkshopID != nil {
		scopes = append(scopes, eqScope("workshop_id", *f.WorkshopID))
	}
	if f.StatusID != nil {
		scopes = append(scopes, eqScope("status_id", *f.StatusID))
	}
	if f.MasterID != nil {
		scopes = append(scopes, eqScope("assigned_master_id", *f.MasterID))
	}
	if f.DueBefore != nil {
		due := *f.DueBefore
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("next_maintenance_date IS NOT NULL AND next_maintenance_date <= ?", due)
		})
	}
	return scopes
}

// Query builds the list query for equipment
func (f EquipmentFilters) Query(sort SortConfig) Query {
	return Query{
		Scopes:   f.Scopes(),
		Order:    BuildOrderClause(sort, equipmentSortableFields, "id"),
		Preloads: []string{"Asset", "EquipmentType", "Workshop", "AssignedMaster.User", "Status"},
	}
}

// PurchaseFilters defines filter options for purchase listing
type PurchaseFilters struct {
	Search     string
	StatusID   *int64
	SupplierID *int64
	AssetID    *int64
}

var purchaseSortableFields = map[string]string{
	"id":               "id",
	"purchaseNumber":   "purchase_number",
	"orderDate":        "order_date",
	"expectedDelivery": "expected_delivery",
	"totalCost":        "total_cost",
	"createdAt":        "created_at",
}

func (f PurchaseFilters) Scopes() []Scope {
	var scopes []Scope
	if f.Search != "" {
		scopes = append(scopes, searchScope(f.Search, "purchase_number", "notes"))
	}
	if f.StatusID != nil {
		scopes = append(scopes, eqScope("status_id", *f.StatusID))
	}
	if f.SupplierID != nil {
		scopes = append(scopes, eqScope("supplier_id", *f.SupplierID))
	}
	if f.AssetID != nil {
		scopes = append(scopes, eqScope("asset_id", *f.AssetID))
	}
	return scopes
}

// Query builds the list query for purchases
func (f PurchaseFilters) Query(sort SortConfig) Query {
	return Query{
		Scopes:   f.Scopes(),
		Order:    BuildOrderClause(sort, purchaseSortableFields, "id"),
		Preloads: []string{"Asset", "Supplier", "Manager.User", "Status"},
	}
}

// MaintenanceFilters defines filter options for maintenance history
type MaintenanceFilters struct {
	Search      string
	EquipmentID *int64
	MasterID    *int64
}

var maintenanceSortableFields = map[string]string{
	"id":              "id",
	"maintenanceDate": "maintenance_date",
	"type":            "maintenance_type",
	"cost":            "cost",
	"createdAt":       "created_at",
}

func (f MaintenanceFilters) Scopes() []Scope {
	var scopes []Scope
	if f.Search != "" {
		scopes = append(scopes, searchScope(f.Search, "maintenance_type", "description", "parts_replaced"))
	}
	if f.EquipmentID != nil {
		scopes = append(scopes, eqScope("equipment_id", *f.EquipmentID))
	}
	if f.MasterID != nil {
		scopes = append(scopes, eqScope("master_id", *f.MasterID))
	}
	return scopes
}

// Query builds the maintenance history query, newest first by default
func (f MaintenanceFilters) Query(sort SortConfig) Query {
	if _, ok := maintenanceSortableFields[sort.Field]; !ok {
		sort = SortConfig{Field: "maintenanceDate", Order: SortOrderDesc}
	}
	return Query{
		Scopes:   f.Scopes(),
		Order:    BuildOrderClause(sort, maintenanceSortableFields, "maintenance_date"),
		Preloads: []string{"Equipment.Asset", "Master.User", "Status"},
	}
}

// WorkshopFilters defines filter options for workshop listing
type WorkshopFilters struct {
	Search    string
	ManagerID *int64
}

var workshopSortableFields = map[string]string{
	"id":        "id",
	"name":      "name",
	"location":  "location",
	"createdAt": "created_at",
}

func (f WorkshopFilters) Scopes() []Scope {
	var scopes []Scope
	if f.Search != "" {
		scopes = append(scopes, searchScope(f.Search, "name", "location"))
	}
	if f.ManagerID != nil {
		scopes = append(scopes, eqScope("manager_id", *f.ManagerID))
	}
	return scopes
}

// Query builds the list query for workshops
func (f WorkshopFilters) Query(sort SortConfig) Query {
	return Query{
		Scopes:   f.Scopes(),
		Order:    BuildOrderClause(sort, workshopSortableFields, "id"),
		Preloads: []string{"Manager.User"},
	}
}

// SupplierFilters defines filter options for supplier listing
type SupplierFilters struct {
	Search   string
	IsActive *bool
}

var supplierSortableFields = map[string]string{
	"id":        "id",
	"name":      "name",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

func (f SupplierFilters) Scopes() []Scope {
	var scopes []Scope
	if f.Search != "" {
		scopes = append(scopes, searchScope(f.Search, "name", "contact_person", "email", "tax_number"))
	}
	if f.IsActive != nil {
		active := *f.IsActive
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", active)
		})
	}
	return scopes
}

// Query builds the list query for suppliers
func (f SupplierFilters) Query(sort SortConfig) Query {
	return Query{
		Scopes: f.Scopes(),
		Order:  BuildOrderClause(sort, supplierSortableFields, "id"),
	}
}

// MasterFilters defines filter options for master listing
type MasterFilters struct {
	SpecialtyID   *int64
	AvailableOnly bool
}

var masterSortableFields = map[string]string{
	"id":         "id",
	"hireDate":   "hire_date",
	"skillLevel": "skill_level",
}

func (f MasterFilters) Scopes() []Scope {
	var scopes []Scope
	if f.SpecialtyID != nil {
		scopes = append(scopes, eqScope("specialty_id", *f.SpecialtyID))
	}
	if f.AvailableOnly {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("is_available = ?", true)
		})
	}
	return scopes
}

// Query builds the list query for masters
func (f MasterFilters) Query(sort SortConfig) Query {
	return Query{
		Scopes:   f.Scopes(),
		Order:    BuildOrderClause(sort, masterSortableFields, "id"),
		Preloads: []string{"User", "Specialty", "Qualification"},
	}
}

// UserFilters defines filter options for user listing
type UserFilters struct {
	Search string
	RoleID *int64
}

var userSortableFields = map[string]string{
	"id":        "id",
	"username":  "username",
	"fullName":  "full_name",
	"createdAt": "created_at",
}

func (f UserFilters) Scopes() []Scope {
	var scopes []Scope
	if f.Search != "" {
		scopes = append(scopes, searchScope(f.Search, "username", "full_name", "email"))
	}
	if f.RoleID != nil {
		scopes = append(scopes, eqScope("role_id", *f.RoleID))
	}
	return scopes
}

// Query builds the list query for users
func (f UserFilters) Query(sort SortConfig) Query {
	return Query{
		Scopes:   f.Scopes(),
		Order:    BuildOrderClause(sort, userSortableFields, "id"),
		Preloads: []string{"Role"},
	}
}

// NameFilters is used by roles and the lookup tables
type NameFilters struct {
	Search string
}

var nameSortableFields = map[string]string{
	"id":   "id",
	"name": "name",
}

func (f NameFilters) Scopes() []Scope {
	if f.Search == "" {
		return nil
	}
	return []Scope{searchScope(f.Search, "name")}
}

// Query builds a list query ordered by name by default
func (f NameFilters) Query(sort SortConfig) Query {
	if _, ok := nameSortableFields[sort.Field]; !ok {
		sort = SortConfig{Field: "name", Order: SortOrderAsc}
	}
	return Query{
		Scopes: f.Scopes(),
		Order:  BuildOrderClause(sort, nameSortableFields, "name"),
	}
}
