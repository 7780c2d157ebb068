package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DTOs for API responses

// DerivedStatusDTO is a computed status badge (warranty, maintenance, delivery)
type DerivedStatusDTO struct {
	Label    string `json:"label"`
	Tier     string `json:"tier"`
	Color    string `json:"color"`
	DaysLeft *int   `json:"daysLeft"`
}

// LookupDTO is used for every name-only reference table
type LookupDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Code  string `json:"code,omitempty"`
	Color string `json:"color,omitempty"`
}

// SelectOptionDTO is an entry of a select list. ID is null for the
// "not assigned" entry.
type SelectOptionDTO struct {
	ID    Option[int64] `json:"id"`
	Label string        `json:"label"`
}

type AssetDTO struct {
	ID                int64               `json:"id"`
	Name              string              `json:"name"`
	SerialNumber      string              `json:"serialNumber,omitempty"`
	Description       string              `json:"description,omitempty"`
	TypeID            *int64              `json:"typeId"`
	TypeName          string              `json:"typeName,omitempty"`
	TypeCode          AssetTypeCode       `json:"typeCode,omitempty"`
	TypeColor         string              `json:"typeColor,omitempty"`
	CategoryID        *int64              `json:"categoryId"`
	CategoryName      string              `json:"categoryName,omitempty"`
	WorkshopID        *int64              `json:"workshopId"`
	WorkshopName      string              `json:"workshopName,omitempty"`
	SupplierID        *int64              `json:"supplierId"`
	SupplierName      string              `json:"supplierName,omitempty"`
	StatusID          *int64              `json:"statusId"`
	StatusName        string              `json:"statusName,omitempty"`
	StatusColor       string              `json:"statusColor,omitempty"`
	ShowStatus        bool                `json:"showStatus"`
	UnitID            *int64              `json:"unitId"`
	UnitName          string              `json:"unitName,omitempty"`
	Quantity          decimal.Decimal     `json:"quantity"`
	MinQuantity       decimal.NullDecimal `json:"minQuantity"`
	IsLowStock        bool                `json:"isLowStock"`
	PurchaseCost      decimal.NullDecimal `json:"purchaseCost"`
	CurrentValue      decimal.NullDecimal `json:"currentValue"`
	PurchaseDate      *time.Time          `json:"purchaseDate,omitempty"`
	WarehouseLocation string              `json:"warehouseLocation,omitempty"`
	CreatedAt         string              `json:"createdAt"` // ISO 8601
}

type EquipmentDTO struct {
	ID                   int64            `json:"id"`
	AssetID              int64            `json:"assetId"`
	AssetName            string           `json:"assetName,omitempty"`
	SerialNumber         string           `json:"serialNumber,omitempty"`
	EquipmentTypeID      int64            `json:"equipmentTypeId"`
	EquipmentTypeName    string           `json:"equipmentTypeName,omitempty"`
	WorkshopID           *int64           `json:"workshopId"`
	WorkshopName         string           `json:"workshopName,omitempty"`
	AssignedMasterID     *int64           `json:"assignedMasterId"`
	AssignedMasterName   string           `json:"assignedMasterName,omitempty"`
	StatusID             *int64           `json:"statusId"`
	StatusName           string           `json:"statusName,omitempty"`
	StatusColor          string           `json:"statusColor,omitempty"`
	Manufacturer         string           `json:"manufacturer,omitempty"`
	InstallationDate     *time.Time       `json:"installationDate,omitempty"`
	WarrantyPeriodMonths *int             `json:"warrantyPeriodMonths,omitempty"`
	LastMaintenanceDate  *time.Time       `json:"lastMaintenanceDate,omitempty"`
	NextMaintenanceDate  *time.Time       `json:"nextMaintenanceDate,omitempty"`
	CurrentWorkHours     *int             `json:"currentWorkHours,omitempty"`
	MaxWorkHours         *int             `json:"maxWorkHours,omitempty"`
	WorkHoursPercent     float64          `json:"workHoursPercent"`
	Notes                string           `json:"notes,omitempty"`
	Warranty             DerivedStatusDTO `json:"warranty"`
	Maintenance          DerivedStatusDTO `json:"maintenance"`
}

type WorkshopDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location,omitempty"`
	ManagerID   *int64 `json:"managerId"`
	ManagerName string `json:"managerName,omitempty"`
	CreatedAt   string `json:"createdAt"` // ISO 8601
}

type SupplierDTO struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	TaxNumber     string `json:"taxNumber,omitempty"`
	IsActive      bool   `json:"isActive"`
	CreatedAt     string `json:"createdAt"` // ISO 8601
	UpdatedAt     string `json:"updatedAt"` // ISO 8601
}

type PurchaseDTO struct {
	ID               int64               `json:"id"`
	PurchaseNumber   string              `json:"purchaseNumber"`
	AssetID          int64               `json:"assetId"`
	AssetName        string              `json:"assetName,omitempty"`
	SupplierID       int64               `json:"supplierId"`
	SupplierName     string              `json:"supplierName,omitempty"`
	ManagerID        *int64              `json:"managerId"`
	ManagerName      string              `json:"managerName,omitempty"`
	Quantity         int                 `json:"quantity"`
	UnitPrice        decimal.Decimal     `json:"unitPrice"`
	TotalCost        decimal.NullDecimal `json:"totalCost"`
	OrderDate        *time.Time          `json:"orderDate,omitempty"`
	ExpectedDelivery *time.Time          `json:"expectedDelivery,omitempty"`
	ActualDelivery   *time.Time          `json:"actualDelivery,omitempty"`
	StatusID         *int64              `json:"statusId"`
	StatusName       string              `json:"statusName,omitempty"`
	StatusColor      string              `json:"statusColor,omitempty"`
	Delivery         DerivedStatusDTO    `json:"delivery"`
	Notes            string              `json:"notes,omitempty"`
	CreatedAt        string              `json:"createdAt"` // ISO 8601
}

type MaintenanceRecordDTO struct {
	ID                  int64               `json:"id"`
	EquipmentID         int64               `json:"equipmentId"`
	EquipmentName       string              `json:"equipmentName,omitempty"`
	MasterID            *int64              `json:"masterId"`
	MasterName          string              `json:"masterName,omitempty"`
	StatusID            *int64              `json:"statusId"`
	StatusName          string              `json:"statusName,omitempty"`
	MaintenanceDate     *time.Time          `json:"maintenanceDate,omitempty"`
	Type                string              `json:"type,omitempty"`
	Description         string              `json:"description,omitempty"`
	PartsReplaced       string              `json:"partsReplaced,omitempty"`
	Cost                decimal.NullDecimal `json:"cost"`
	DowntimeHours       decimal.NullDecimal `json:"downtimeHours"`
	NextMaintenanceDate *time.Time          `json:"nextMaintenanceDate,omitempty"`
	NextMaintenance     DerivedStatusDTO    `json:"nextMaintenance"`
	CreatedAt           string              `json:"createdAt"` // ISO 8601
}

type MasterDTO struct {
	ID                int64      `json:"id"`
	UserID            int64      `json:"userId"`
	FullName          string     `json:"fullName,omitempty"`
	Username          string     `json:"username,omitempty"`
	SpecialtyID       int64      `json:"specialtyId"`
	SpecialtyName     string     `json:"specialtyName,omitempty"`
	QualificationID   int64      `json:"qualificationId"`
	QualificationName string     `json:"qualificationName,omitempty"`
	SkillLevel        SkillLevel `json:"skillLevel"`
	HireDate          time.Time  `json:"hireDate"`
	IsAvailable       bool       `json:"isAvailable"`
}

// MasterStatsDTO counts the work linked to one master
type MasterStatsDTO struct {
	MasterID          int64 `json:"masterId"`
	WorkActs          int64 `json:"workActs"`
	CompletionActs    int64 `json:"completionActs"`
	EquipmentAssigned int64 `json:"equipmentAssigned"`
}

type UserDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	RoleID    *int64 `json:"roleId"`
	RoleName  string `json:"roleName,omitempty"`
	CreatedAt string `json:"createdAt"` // ISO 8601
}

type RoleDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type WorkActDTO struct {
	ID          int64  `json:"id"`
	AssetID     *int64 `json:"assetId"`
	MasterID    *int64 `json:"masterId"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt"` // ISO 8601
}

// DeletePreviewDTO reports whether an entity can be deleted right now
type DeletePreviewDTO struct {
	Kind     EntityKind `json:"kind"`
	ID       int64      `json:"id"`
	Allowed  bool       `json:"allowed"`
	Blockers []Blocker  `json:"blockers"`
}

// ValidationResultDTO is returned by the draft validation endpoint
type ValidationResultDTO struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// EntityStatusDTO holds the derived statuses of one entity
type EntityStatusDTO struct {
	Kind     EntityKind                  `json:"kind"`
	ID       int64                       `json:"id"`
	Statuses map[string]DerivedStatusDTO `json:"statuses"`
}

// StatsSummaryDTO is the aggregate shown above a list. Only the counters
// relevant to the listed kind are set.
type StatsSummaryDTO struct {
	Kind             EntityKind       `json:"kind"`
	Total            int              `json:"total"`
	EquipmentCount   *int             `json:"equipmentCount,omitempty"`
	LowStock         *int             `json:"lowStock,omitempty"`
	Active           *int             `json:"active,omitempty"`
	MaintenanceDue   *int             `json:"maintenanceDue,omitempty"`
	Broken           *int             `json:"broken,omitempty"`
	TotalAmount      *decimal.Decimal `json:"totalAmount,omitempty"`
	Pending          *int             `json:"pending,omitempty"`
	WithManager      *int             `json:"withManager,omitempty"`
	AvailableMasters *int             `json:"availableMasters,omitempty"`
}

// MaintenanceScheduleItemDTO is one row of the maintenance priority list
type MaintenanceScheduleItemDTO struct {
	Priority  int          `json:"priority"`
	Equipment EquipmentDTO `json:"equipment"`
}

// Pagination response wrapper
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// Request DTOs

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expiresAt"` // ISO 8601
	User      UserDTO `json:"user"`
}

type LookupRequest struct {
	Name string `json:"name"`
}

type AssetRequest struct {
	Name              string              `json:"name"`
	SerialNumber      string              `json:"serialNumber,omitempty"`
	Description       string              `json:"description,omitempty"`
	TypeID            Option[int64]       `json:"typeId"`
	CategoryID        Option[int64]       `json:"categoryId"`
	WorkshopID        Option[int64]       `json:"workshopId"`
	SupplierID        Option[int64]       `json:"supplierId"`
	StatusID          Option[int64]       `json:"statusId"`
	UnitID            Option[int64]       `json:"unitId"`
	Quantity          decimal.Decimal     `json:"quantity"`
	MinQuantity       decimal.NullDecimal `json:"minQuantity"`
	PurchaseCost      decimal.NullDecimal `json:"purchaseCost"`
	CurrentValue      decimal.NullDecimal `json:"currentValue"`
	PurchaseDate      *time.Time          `json:"purchaseDate,omitempty"`
	WarehouseLocation string              `json:"warehouseLocation,omitempty"`
}

type EquipmentRequest struct {
	AssetID              int64         `json:"assetId"`
	EquipmentTypeID      int64         `json:"equipmentTypeId"`
	WorkshopID           Option[int64] `json:"workshopId"`
	AssignedMasterID     Option[int64] `json:"assignedMasterId"`
	StatusID             Option[int64] `json:"statusId"`
	Manufacturer         string        `json:"manufacturer,omitempty"`
	InstallationDate     *time.Time    `json:"installationDate,omitempty"`
	WarrantyPeriodMonths *int          `json:"warrantyPeriodMonths,omitempty"`
	LastMaintenanceDate  *time.Time    `json:"lastMaintenanceDate,omitempty"`
	NextMaintenanceDate  *time.Time    `json:"nextMaintenanceDate,omitempty"`
	CurrentWorkHours     *int          `json:"currentWorkHours,omitempty"`
	MaxWorkHours         *int          `json:"maxWorkHours,omitempty"`
	Notes                string        `json:"notes,omitempty"`
}

type WorkshopRequest struct {
	Name      string        `json:"name"`
	Location  string        `json:"location,omitempty"`
	ManagerID Option[int64] `json:"managerId"`
}

type SupplierRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	TaxNumber     string `json:"taxNumber,omitempty"`
	IsActive      *bool  `json:"isActive,omitempty"`
}

// PurchaseRequest carries no total cost: it is always computed server side.
type PurchaseRequest struct {
	AssetID          int64           `json:"assetId"`
	SupplierID       int64           `json:"supplierId"`
	ManagerID        Option[int64]   `json:"managerId"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	OrderDate        *time.Time      `json:"orderDate,omitempty"`
	ExpectedDelivery *time.Time      `json:"expectedDelivery,omitempty"`
	ActualDelivery   *time.Time      `json:"actualDelivery,omitempty"`
	StatusID         Option[int64]   `json:"statusId"`
	Notes            string          `json:"notes,omitempty"`
}

type MaintenanceRecordRequest struct {
	EquipmentID         int64               `json:"equipmentId"`
	MasterID            Option[int64]       `json:"masterId"`
	StatusID            Option[int64]       `json:"statusId"`
	MaintenanceDate     *time.Time          `json:"maintenanceDate,omitempty"`
	Type                string              `json:"type,omitempty"`
	Description         string              `json:"description,omitempty"`
	PartsReplaced       string              `json:"partsReplaced,omitempty"`
	Cost                decimal.NullDecimal `json:"cost"`
	DowntimeHours       decimal.NullDecimal `json:"downtimeHours"`
	NextMaintenanceDate *time.Time          `json:"nextMaintenanceDate,omitempty"`
}

type MasterRequest struct {
	UserID          int64      `json:"userId"`
	SpecialtyID     int64      `json:"specialtyId"`
	QualificationID int64      `json:"qualificationId"`
	SkillLevel      SkillLevel `json:"skillLevel,omitempty"`
	HireDate        time.Time  `json:"hireDate"`
	IsAvailable     *bool      `json:"isAvailable,omitempty"`
}

// UserRequest is used for create and update. Password is required on create
// and optional on update, where an empty value keeps the current hash.
type UserRequest struct {
	Username        string        `json:"username"`
	FullName        string        `json:"fullName"`
	Email           string        `json:"email,omitempty"`
	Phone           string        `json:"phone,omitempty"`
	RoleID          Option[int64] `json:"roleId"`
	Password        string        `json:"password,omitempty"`
	ConfirmPassword string        `json:"confirmPassword,omitempty"`
}

type RoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type WorkActRequest struct {
	AssetID     Option[int64] `json:"assetId"`
	MasterID    Option[int64] `json:"masterId"`
	Description string        `json:"description,omitempty"`
}
