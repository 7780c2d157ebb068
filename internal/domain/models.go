package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AssetType classifies assets (equipment, material, tool...).
// Code is derived from Name on write and is what business rules compare against.
type AssetType struct {
	ID   int64         `gorm:"primaryKey" json:"id"`
	Name string        `gorm:"type:varchar(100);not null" json:"name" validate:"notblank,max=100"`
	Code AssetTypeCode `gorm:"type:varchar(30);not null" json:"code"`
}

// BeforeSave keeps Code in sync with Name
func (t *AssetType) BeforeSave(tx *gorm.DB) error {
	t.Code = ResolveAssetTypeCode(t.Name)
	return nil
}

// Category groups assets for reporting
type Category struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name" validate:"notblank,max=100"`
}

// AssetStatus is the operational status of an equipment-typed asset or equipment unit
type AssetStatus struct {
	ID   int64      `gorm:"primaryKey" json:"id"`
	Name string     `gorm:"type:varchar(100);not null" json:"name" validate:"notblank,max=100"`
	Code StatusCode `gorm:"type:varchar(30);not null" json:"code"`
}

func (AssetStatus) TableName() string { return "asset_statuses" }

// BeforeSave keeps Code in sync with Name
func (s *AssetStatus) BeforeSave(tx *gorm.DB) error {
	s.Code = ResolveStatusCode(s.Name)
	return nil
}

// Unit is a unit of measure for asset quantities
type Unit struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(50);not null" json:"name" validate:"notblank,max=50"`
}

// PurchaseStatus tracks a purchase through approval and delivery
type PurchaseStatus struct {
	ID   int64              `gorm:"primaryKey" json:"id"`
	Name string             `gorm:"type:varchar(100);not null" json:"name" validate:"notblank,max=100"`
	Code PurchaseStatusCode `gorm:"type:varchar(30);not null" json:"code"`
}

func (PurchaseStatus) TableName() string { return "purchase_statuses" }

// BeforeSave keeps Code in sync with Name
func (s *PurchaseStatus) BeforeSave(tx *gorm.DB) error {
	s.Code = ResolvePurchaseStatusCode(s.Name)
	return nil
}

type Specialty struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name" validate:"notblank,max=100"`
}

func (Specialty) TableName() string { return "specialties" }

type Qualification struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name" validate:"notblank,max=100"`
}

// Asset is a generic inventory item: material, tool, or equipment.
// StatusID is only meaningful when the asset type resolves to equipment.
type Asset struct {
	ID                int64               `gorm:"primaryKey" json:"id"`
	Name              string              `gorm:"type:varchar(200);not null" json:"name" validate:"notblank,max=200"`
	SerialNumber      string              `gorm:"type:varchar(100)" json:"serialNumber,omitempty" validate:"max=100"`
	Description       string              `gorm:"type:text" json:"description,omitempty"`
	TypeID            *int64              `gorm:"index" json:"typeId"`
	Type              *AssetType          `gorm:"foreignKey:TypeID" json:"type,omitempty"`
	CategoryID        *int64              `gorm:"index" json:"categoryId"`
	Category          *Category           `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	WorkshopID        *int64              `gorm:"index" json:"workshopId"`
	Workshop          *Workshop           `gorm:"foreignKey:WorkshopID" json:"workshop,omitempty"`
	SupplierID        *int64              `gorm:"index" json:"supplierId"`
	Supplier          *Supplier           `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	StatusID          *int64              `gorm:"index" json:"statusId"`
	Status            *AssetStatus        `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	UnitID            *int64              `json:"unitId"`
	Unit              *Unit               `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Quantity          decimal.Decimal     `gorm:"type:numeric(14,3);not null" json:"quantity" validate:"gte=0"`
	MinQuantity       decimal.NullDecimal `gorm:"type:numeric(14,3)" json:"minQuantity"`
	PurchaseCost      decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"purchaseCost"`
	CurrentValue      decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"currentValue"`
	PurchaseDate      *time.Time          `json:"purchaseDate,omitempty"`
	WarehouseLocation string              `gorm:"type:varchar(200)" json:"warehouseLocation,omitempty"`
	CreatedAt         time.Time           `gorm:"not null" json:"createdAt"`
}

// IsLowStock reports whether quantity dropped below the configured minimum
func (a *Asset) IsLowStock() bool {
	return a.MinQuantity.Valid && a.Quantity.LessThan(a.MinQuantity.Decimal)
}

// Equipment is an equipment-typed asset with installation and maintenance tracking
type Equipment struct {
	ID                   int64        `gorm:"primaryKey" json:"id"`
	AssetID              int64        `gorm:"not null;index" json:"assetId" validate:"required"`
	Asset                *Asset       `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	EquipmentTypeID      int64        `gorm:"not null;index" json:"equipmentTypeId" validate:"required"`
	EquipmentType        *AssetType   `gorm:"foreignKey:EquipmentTypeID" json:"equipmentType,omitempty"`
	WorkshopID           *int64       `gorm:"index" json:"workshopId"`
	Workshop             *Workshop    `gorm:"foreignKey:WorkshopID" json:"workshop,omitempty"`
	AssignedMasterID     *int64       `gorm:"index" json:"assignedMasterId"`
	AssignedMaster       *Master      `gorm:"foreignKey:AssignedMasterID" json:"assignedMaster,omitempty"`
	StatusID             *int64       `gorm:"index" json:"statusId"`
	Status               *AssetStatus `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	Manufacturer         string       `gorm:"type:varchar(200)" json:"manufacturer,omitempty" validate:"max=200"`
	InstallationDate     *time.Time   `json:"installationDate,omitempty"`
	WarrantyPeriodMonths *int         `json:"warrantyPeriodMonths,omitempty" validate:"omitempty,gte=0,lte=600"`
	LastMaintenanceDate  *time.Time   `json:"lastMaintenanceDate,omitempty"`
	NextMaintenanceDate  *time.Time   `gorm:"index" json:"nextMaintenanceDate,omitempty"`
	CurrentWorkHours     *int         `json:"currentWorkHours,omitempty" validate:"omitempty,gte=0"`
	MaxWorkHours         *int         `gorm:"column:max_work_hours" json:"maxWorkHours,omitempty" validate:"omitempty,gte=0"`
	Notes                string       `gorm:"type:text" json:"notes,omitempty"`
}

func (Equipment) TableName() string { return "equipment" }

// StatusCode returns the code of the loaded status, or empty when unset
func (e *Equipment) StatusCode() StatusCode {
	if e.Status == nil {
		return ""
	}
	return e.Status.Code
}

// Workshop is a production site. ManagerID references a Master, not a User.
type Workshop struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name" validate:"notblank,max=200"`
	Location  string    `gorm:"type:varchar(200)" json:"location,omitempty" validate:"max=200"`
	ManagerID *int64    `gorm:"index" json:"managerId"`
	Manager   *Master   `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

type Supplier struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(200);not null" json:"name" validate:"notblank,max=200"`
	ContactPerson string    `gorm:"type:varchar(200)" json:"contactPerson,omitempty" validate:"max=200"`
	Email         string    `gorm:"type:varchar(254)" json:"email,omitempty" validate:"omitempty,email"`
	Phone         string    `gorm:"type:varchar(50)" json:"phone,omitempty" validate:"max=50"`
	Address       string    `gorm:"type:varchar(500)" json:"address,omitempty"`
	TaxNumber     string    `gorm:"type:varchar(50)" json:"taxNumber,omitempty" validate:"max=50"`
	IsActive      bool      `gorm:"not null" json:"isActive"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"updatedAt"`
}

// Purchase is an order of an asset from a supplier. TotalCost is always
// Quantity × UnitPrice and is recomputed on every save.
type Purchase struct {
	ID               int64               `gorm:"primaryKey" json:"id"`
	PurchaseNumber   string              `gorm:"type:varchar(50);uniqueIndex" json:"purchaseNumber"`
	AssetID          int64               `gorm:"not null;index" json:"assetId" validate:"required"`
	Asset            *Asset              `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	SupplierID       int64               `gorm:"not null;index" json:"supplierId" validate:"required"`
	Supplier         *Supplier           `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	ManagerID        *int64              `gorm:"index" json:"managerId"`
	Manager          *Master             `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Quantity         int                 `gorm:"not null" json:"quantity" validate:"gt=0"`
	UnitPrice        decimal.Decimal     `gorm:"type:numeric(14,2);not null" json:"unitPrice" validate:"gt=0"`
	TotalCost        decimal.NullDecimal `gorm:"type:numeric(16,2)" json:"totalCost"`
	OrderDate        *time.Time          `json:"orderDate,omitempty"`
	ExpectedDelivery *time.Time          `json:"expectedDelivery,omitempty"`
	ActualDelivery   *time.Time          `json:"actualDelivery,omitempty"`
	StatusID         *int64              `gorm:"index" json:"statusId"`
	Status           *PurchaseStatus     `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	Notes            string              `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time           `gorm:"not null" json:"createdAt"`
}

// StatusCode returns the code of the loaded status, or empty when unset
func (p *Purchase) StatusCode() PurchaseStatusCode {
	if p.Status == nil {
		return ""
	}
	return p.Status.Code
}

// MaintenanceRecord is one maintenance event performed on an equipment unit
type MaintenanceRecord struct {
	ID                  int64               `gorm:"primaryKey" json:"id"`
	EquipmentID         int64               `gorm:"not null;index" json:"equipmentId" validate:"required"`
	Equipment           *Equipment          `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`
	MasterID            *int64              `gorm:"index" json:"masterId"`
	Master              *Master             `gorm:"foreignKey:MasterID" json:"master,omitempty"`
	StatusID            *int64              `json:"statusId"`
	Status              *AssetStatus        `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	MaintenanceDate     *time.Time          `json:"maintenanceDate,omitempty"`
	Type                string              `gorm:"column:maintenance_type;type:varchar(100)" json:"type,omitempty" validate:"max=100"`
	Description         string              `gorm:"type:text" json:"description,omitempty"`
	PartsReplaced       string              `gorm:"type:text" json:"partsReplaced,omitempty"`
	Cost                decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"cost"`
	DowntimeHours       decimal.NullDecimal `gorm:"type:numeric(8,2)" json:"downtimeHours"`
	NextMaintenanceDate *time.Time          `json:"nextMaintenanceDate,omitempty"`
	CreatedAt           time.Time           `gorm:"not null" json:"createdAt"`
}

// Master is a staff member with maintenance or production duties,
// linked one-to-one with a User.
type Master struct {
	ID              int64          `gorm:"primaryKey" json:"id"`
	UserID          int64          `gorm:"not null;uniqueIndex" json:"userId" validate:"required"`
	User            *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	SpecialtyID     int64          `gorm:"not null" json:"specialtyId" validate:"required"`
	Specialty       *Specialty     `gorm:"foreignKey:SpecialtyID" json:"specialty,omitempty"`
	QualificationID int64          `gorm:"not null" json:"qualificationId" validate:"required"`
	Qualification   *Qualification `gorm:"foreignKey:QualificationID" json:"qualification,omitempty"`
	SkillLevel      SkillLevel     `gorm:"type:varchar(20);not null" json:"skillLevel" validate:"omitempty,oneof=junior medium senior expert"`
	HireDate        time.Time      `gorm:"not null" json:"hireDate" validate:"required"`
	IsAvailable     bool           `gorm:"not null" json:"isAvailable"`
}

// DisplayName returns the linked user's full name when loaded
func (m *Master) DisplayName() string {
	if m.User != nil {
		return m.User.FullName
	}
	return ""
}

type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"username" validate:"notblank,max=100"`
	FullName     string    `gorm:"type:varchar(200);not null" json:"fullName" validate:"notblank,max=200"`
	Email        string    `gorm:"type:varchar(254)" json:"email,omitempty" validate:"omitempty,email"`
	Phone        string    `gorm:"type:varchar(50)" json:"phone,omitempty" validate:"max=50"`
	PasswordHash string    `gorm:"type:varchar(100);not null" json:"-"`
	RoleID       *int64    `gorm:"index" json:"roleId"`
	Role         *Role     `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
}

type Role struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name" validate:"notblank,max=100"`
	Description string `gorm:"type:varchar(500)" json:"description,omitempty" validate:"max=500"`
}

// WorkAct records work performed by a master, optionally against an asset
type WorkAct struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	AssetID     *int64    `gorm:"index" json:"assetId"`
	MasterID    *int64    `gorm:"index" json:"masterId"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
}

// WorkActMaterial is an asset consumed by a work act
type WorkActMaterial struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	WorkActID int64           `gorm:"not null;index" json:"workActId" validate:"required"`
	AssetID   int64           `gorm:"not null;index" json:"assetId" validate:"required"`
	Quantity  decimal.Decimal `gorm:"type:numeric(14,3);not null" json:"quantity" validate:"gt=0"`
}

// CompletionAct closes a work act
type CompletionAct struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	WorkActID *int64    `gorm:"index" json:"workActId"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

// NumberSequence holds the last issued sequence number per scope and period.
// Purchase numbers use scope "PUR" and a yyyymmdd period.
type NumberSequence struct {
	Scope        string    `gorm:"type:varchar(20);primaryKey"`
	Period       int       `gorm:"primaryKey"`
	LastSequence int       `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// LegacyMapping links a row imported from the legacy database to the id it
// was stored under, so repeated imports update instead of duplicating.
type LegacyMapping struct {
	Kind       EntityKind `gorm:"type:varchar(30);primaryKey"`
	LegacyID   int64      `gorm:"primaryKey"`
	EntityID   int64      `gorm:"not null"`
	ImportedAt time.Time  `gorm:"not null"`
}
