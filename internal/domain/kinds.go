package domain

import "strings"

// EntityKind names an entity for integrity, status and aggregate dispatch
type EntityKind string

const (
	KindAsset          EntityKind = "asset"
	KindEquipment      EntityKind = "equipment"
	KindWorkshop       EntityKind = "workshop"
	KindSupplier       EntityKind = "supplier"
	KindPurchase       EntityKind = "purchase"
	KindMaintenance    EntityKind = "maintenance"
	KindMaster         EntityKind = "master"
	KindUser           EntityKind = "user"
	KindRole           EntityKind = "role"
	KindAssetType      EntityKind = "asset-type"
	KindCategory       EntityKind = "category"
	KindAssetStatus    EntityKind = "asset-status"
	KindUnit           EntityKind = "unit"
	KindPurchaseStatus EntityKind = "purchase-status"
	KindSpecialty      EntityKind = "specialty"
	KindQualification  EntityKind = "qualification"
	KindWorkAct        EntityKind = "work-act"
)

var allKinds = []EntityKind{
	KindAsset, KindEquipment, KindWorkshop, KindSupplier, KindPurchase,
	KindMaintenance, KindMaster, KindUser, KindRole, KindAssetType,
	KindCategory, KindAssetStatus, KindUnit, KindPurchaseStatus,
	KindSpecialty, KindQualification, KindWorkAct,
}

// AllKinds returns every known entity kind
func AllKinds() []EntityKind {
	out := make([]EntityKind, len(allKinds))
	copy(out, allKinds)
	return out
}

// ParseEntityKind accepts the singular kind or the plural resource name
// used in URLs ("assets", "asset-types", "equipment").
func ParseEntityKind(s string) (EntityKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range allKinds {
		if string(k) == s {
			return k, true
		}
	}
	switch s {
	case "assets":
		return KindAsset, true
	case "workshops":
		return KindWorkshop, true
	case "suppliers":
		return KindSupplier, true
	case "purchases":
		return KindPurchase, true
	case "masters":
		return KindMaster, true
	case "users":
		return KindUser, true
	case "roles":
		return KindRole, true
	case "asset-types":
		return KindAssetType, true
	case "categories":
		return KindCategory, true
	case "asset-statuses":
		return KindAssetStatus, true
	case "units":
		return KindUnit, true
	case "purchase-statuses":
		return KindPurchaseStatus, true
	case "specialties":
		return KindSpecialty, true
	case "qualifications":
		return KindQualification, true
	case "work-acts":
		return KindWorkAct, true
	}
	return "", false
}

// IsLookup reports whether the kind is a simple name-only reference table
func (k EntityKind) IsLookup() bool {
	switch k {
	case KindAssetType, KindCategory, KindAssetStatus, KindUnit,
		KindPurchaseStatus, KindSpecialty, KindQualification:
		return true
	}
	return false
}

// AssetTypeCode is the stable code an AssetType resolves to
type AssetTypeCode string

const (
	AssetTypeEquipment     AssetTypeCode = "equipment"
	AssetTypeMaterial      AssetTypeCode = "material"
	AssetTypeComponent     AssetTypeCode = "component"
	AssetTypeTool          AssetTypeCode = "tool"
	AssetTypeRawMaterial   AssetTypeCode = "raw_material"
	AssetTypeFinishedGoods AssetTypeCode = "finished_goods"
	AssetTypeOther         AssetTypeCode = "other"
)

// StatusCode is the stable code of an equipment or asset status
type StatusCode string

const (
	StatusInOperation      StatusCode = "in_operation"
	StatusUnderMaintenance StatusCode = "under_maintenance"
	StatusFaulty           StatusCode = "faulty"
	StatusDecommissioned   StatusCode = "decommissioned"
	StatusInRepair         StatusCode = "in_repair"
	StatusReserve          StatusCode = "reserve"
	StatusOther            StatusCode = "other"
)

// PurchaseStatusCode is the stable code of a purchase status
type PurchaseStatusCode string

const (
	PurchaseDraft           PurchaseStatusCode = "draft"
	PurchasePendingApproval PurchaseStatusCode = "pending_approval"
	PurchaseApproved        PurchaseStatusCode = "approved"
	PurchaseOrdered         PurchaseStatusCode = "ordered"
	PurchaseDelivered       PurchaseStatusCode = "delivered"
	PurchaseCancelled       PurchaseStatusCode = "cancelled"
	PurchaseOther           PurchaseStatusCode = "other"
)

// SkillLevel of a master
type SkillLevel string

const (
	SkillJunior SkillLevel = "junior"
	SkillMedium SkillLevel = "medium"
	SkillSenior SkillLevel = "senior"
	SkillExpert SkillLevel = "expert"
)

// Display names found in existing data, normalized with normalizeName.
var assetTypeNames = map[string]AssetTypeCode{
	"оборудование":      AssetTypeEquipment,
	"equipment":         AssetTypeEquipment,
	"материал":          AssetTypeMaterial,
	"материалы":         AssetTypeMaterial,
	"material":          AssetTypeMaterial,
	"комплектующие":     AssetTypeComponent,
	"component":         AssetTypeComponent,
	"инструмент":        AssetTypeTool,
	"tool":              AssetTypeTool,
	"сырье":             AssetTypeRawMaterial,
	"raw material":      AssetTypeRawMaterial,
	"готовая продукция": AssetTypeFinishedGoods,
	"finished goods":    AssetTypeFinishedGoods,
	"other":             AssetTypeOther,
}

var statusNames = map[string]StatusCode{
	"в эксплуатации":    StatusInOperation,
	"in operation":      StatusInOperation,
	"на обслуживании":   StatusUnderMaintenance,
	"under maintenance": StatusUnderMaintenance,
	"неисправен":        StatusFaulty,
	"faulty":            StatusFaulty,
	"списан":            StatusDecommissioned,
	"decommissioned":    StatusDecommissioned,
	"в ремонте":         StatusInRepair,
	"in repair":         StatusInRepair,
	"резерв":            StatusReserve,
	"в резерве":         StatusReserve,
	"reserve":           StatusReserve,
}

var purchaseStatusNames = map[string]PurchaseStatusCode{
	"черновик":         PurchaseDraft,
	"draft":            PurchaseDraft,
	"на согласовании":  PurchasePendingApproval,
	"pending approval": PurchasePendingApproval,
	"утверждено":       PurchaseApproved,
	"утвержден":        PurchaseApproved,
	"approved":         PurchaseApproved,
	"заказано":         PurchaseOrdered,
	"заказан":          PurchaseOrdered,
	"ordered":          PurchaseOrdered,
	"доставлено":       PurchaseDelivered,
	"доставлен":        PurchaseDelivered,
	"delivered":        PurchaseDelivered,
	"отменено":         PurchaseCancelled,
	"отменен":          PurchaseCancelled,
	"cancelled":        PurchaseCancelled,
}

// normalizeName trims, case folds and collapses separators so that
// "  Raw_Material " and "raw material" compare equal.
func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "ё", "е")
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

// ResolveAssetTypeCode maps a display name to its stable code
func ResolveAssetTypeCode(name string) AssetTypeCode {
	if code, ok := assetTypeNames[normalizeName(name)]; ok {
		return code
	}
	return AssetTypeOther
}

// ResolveStatusCode maps a display name to its stable code
func ResolveStatusCode(name string) StatusCode {
	if code, ok := statusNames[normalizeName(name)]; ok {
		return code
	}
	return StatusOther
}

// ResolvePurchaseStatusCode maps a display name to its stable code
func ResolvePurchaseStatusCode(name string) PurchaseStatusCode {
	if code, ok := purchaseStatusNames[normalizeName(name)]; ok {
		return code
	}
	return PurchaseOther
}
