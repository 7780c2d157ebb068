package integrity

import "github.com/foxerka/enterprise-assets/internal/domain"

// Relation is a column in another table that references an entity by id
type Relation struct {
	// Name is reported to callers as table.column
	Name   string
	Model  func() interface{}
	Column string
}

func rel(name, column string, model func() interface{}) Relation {
	return Relation{Name: name, Model: model, Column: column}
}

var (
	assets             = func() interface{} { return &domain.Asset{} }
	equipment          = func() interface{} { return &domain.Equipment{} }
	workshops          = func() interface{} { return &domain.Workshop{} }
	purchases          = func() interface{} { return &domain.Purchase{} }
	maintenanceRecords = func() interface{} { return &domain.MaintenanceRecord{} }
	masters            = func() interface{} { return &domain.Master{} }
	users              = func() interface{} { return &domain.User{} }
	workActs           = func() interface{} { return &domain.WorkAct{} }
	workActMaterials   = func() interface{} { return &domain.WorkActMaterial{} }
	completionActs     = func() interface{} { return &domain.CompletionAct{} }
)

// relations lists the referencing relations of every kind, in report order.
// Kinds without an entry have no blockers.
var relations = map[domain.EntityKind][]Relation{
	domain.KindAsset: {
		rel("work_acts.asset_id", "asset_id", workActs),
		rel("work_act_materials.asset_id", "asset_id", workActMaterials),
		rel("equipment.asset_id", "asset_id", equipment),
		rel("purchases.asset_id", "asset_id", purchases),
	},
	domain.KindAssetType: {
		rel("assets.type_id", "type_id", assets),
		rel("equipment.equipment_type_id", "equipment_type_id", equipment),
	},
	domain.KindCategory: {
		rel("assets.category_id", "category_id", assets),
	},
	domain.KindAssetStatus: {
		rel("assets.status_id", "status_id", assets),
		rel("equipment.status_id", "status_id", equipment),
		rel("maintenance_records.status_id", "status_id", maintenanceRecords),
	},
	domain.KindUnit: {
		rel("assets.unit_id", "unit_id", assets),
	},
	domain.KindPurchaseStatus: {
		rel("purchases.status_id", "status_id", purchases),
	},
	domain.KindSpecialty: {
		rel("masters.specialty_id", "specialty_id", masters),
	},
	domain.KindQualification: {
		rel("masters.qualification_id", "qualification_id", masters),
	},
	domain.KindWorkshop: {
		rel("equipment.workshop_id", "workshop_id", equipment),
		rel("assets.workshop_id", "workshop_id", assets),
	},
	domain.KindSupplier: {
		rel("purchases.supplier_id", "supplier_id", purchases),
		rel("assets.supplier_id", "supplier_id", assets),
	},
	domain.KindMaster: {
		rel("work_acts.master_id", "master_id", workActs),
		rel("workshops.manager_id", "manager_id", workshops),
		rel("equipment.assigned_master_id", "assigned_master_id", equipment),
		rel("purchases.manager_id", "manager_id", purchases),
		rel("maintenance_records.master_id", "master_id", maintenanceRecords),
	},
	domain.KindUser: {
		rel("masters.user_id", "user_id", masters),
	},
	domain.KindRole: {
		rel("users.role_id", "role_id", users),
	},
	domain.KindEquipment: {
		rel("maintenance_records.equipment_id", "equipment_id", maintenanceRecords),
	},
	domain.KindWorkAct: {
		rel("work_act_materials.work_act_id", "work_act_id", workActMaterials),
		rel("completion_acts.work_act_id", "work_act_id", completionActs),
	},
}

// Relations returns the referencing relations registered for kind
func Relations(kind domain.EntityKind) []Relation {
	return relations[kind]
}

// newModel returns an empty model of the entity kind
func newModel(kind domain.EntityKind) (interface{}, bool) {
	switch kind {
	case domain.KindAsset:
		return &domain.Asset{}, true
	case domain.KindEquipment:
		return &domain.Equipment{}, true
	case domain.KindWorkshop:
		return &domain.Workshop{}, true
	case domain.KindSupplier:
		return &domain.Supplier{}, true
	case domain.KindPurchase:
		return &domain.Purchase{}, true
	case domain.KindMaintenance:
		return &domain.MaintenanceRecord{}, true
	case domain.KindMaster:
		return &domain.Master{}, true
	case domain.KindUser:
		return &domain.User{}, true
	case domain.KindRole:
		return &domain.Role{}, true
	case domain.KindAssetType:
		return &domain.AssetType{}, true
	case domain.KindCategory:
		return &domain.Category{}, true
	case domain.KindAssetStatus:
		return &domain.AssetStatus{}, true
	case domain.KindUnit:
		return &domain.Unit{}, true
	case domain.KindPurchaseStatus:
		return &domain.PurchaseStatus{}, true
	case domain.KindSpecialty:
		return &domain.Specialty{}, true
	case domain.KindQualification:
		return &domain.Qualification{}, true
	case domain.KindWorkAct:
		return &domain.WorkAct{}, true
	}
	return nil, false
}
