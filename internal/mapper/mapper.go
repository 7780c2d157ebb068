package mapper

import (
	"time"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/status"
)

const timestampLayout = "2006-01-02T15:04:05Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ToDerivedStatusDTO converts a derived status
func ToDerivedStatusDTO(d status.Derived) domain.DerivedStatusDTO {
	return domain.DerivedStatusDTO{
		Label:    d.Label,
		Tier:     string(d.Tier),
		Color:    string(d.Color),
		DaysLeft: d.DaysLeft,
	}
}

// ToDerivedStatusMap converts the result of status.DeriveStatus
func ToDerivedStatusMap(m map[string]status.Derived) map[string]domain.DerivedStatusDTO {
	out := make(map[string]domain.DerivedStatusDTO, len(m))
	for k, v := range m {
		out[k] = ToDerivedStatusDTO(v)
	}
	return out
}

// ToAssetDTO converts Asset to AssetDTO. Associations are optional; names
// stay empty when they are not loaded. Status fields are only filled for
// equipment-typed assets.
func ToAssetDTO(a *domain.Asset) domain.AssetDTO {
	dto := domain.AssetDTO{
		ID:                a.ID,
		Name:              a.Name,
		SerialNumber:      a.SerialNumber,
		Description:       a.Description,
		TypeID:            a.TypeID,
		CategoryID:        a.CategoryID,
		WorkshopID:        a.WorkshopID,
		SupplierID:        a.SupplierID,
		UnitID:            a.UnitID,
		Quantity:          a.Quantity,
		MinQuantity:       a.MinQuantity,
		IsLowStock:        a.IsLowStock(),
		PurchaseCost:      a.PurchaseCost,
		CurrentValue:      a.CurrentValue,
		PurchaseDate:      a.PurchaseDate,
		WarehouseLocation: a.WarehouseLocation,
		CreatedAt:         formatTimestamp(a.CreatedAt),
	}
	if a.Type != nil {
		dto.TypeName = a.Type.Name
		dto.TypeCode = a.Type.Code
		dto.TypeColor = string(status.AssetTypeColor(a.Type.Code))
		dto.ShowStatus = a.Type.Code == domain.AssetTypeEquipment
	}
	if a.Category != nil {
		dto.CategoryName = a.Category.Name
	}
	if a.Workshop != nil {
		dto.WorkshopName = a.Workshop.Name
	}
	if a.Supplier != nil {
		dto.SupplierName = a.Supplier.Name
	}
	if dto.ShowStatus {
		dto.StatusID = a.StatusID
		if a.Status != nil {
			dto.StatusName = a.Status.Name
			dto.StatusColor = string(status.StatusColor(a.Status.Code))
		}
	}
	if a.Unit != nil {
		dto.UnitName = a.Unit.Name
	}
	return dto
}

// ToEquipmentDTO converts Equipment to EquipmentDTO with its warranty and
// maintenance statuses derived at now.
func ToEquipmentDTO(e *domain.Equipment, now time.Time) domain.EquipmentDTO {
	dto := domain.EquipmentDTO{
		ID:                   e.ID,
		AssetID:              e.AssetID,
		EquipmentTypeID:      e.EquipmentTypeID,
		WorkshopID:           e.WorkshopID,
		AssignedMasterID:     e.AssignedMasterID,
		StatusID:             e.StatusID,
		Manufacturer:         e.Manufacturer,
		InstallationDate:     e.InstallationDate,
		WarrantyPeriodMonths: e.WarrantyPeriodMonths,
		LastMaintenanceDate:  e.LastMaintenanceDate,
		NextMaintenanceDate:  e.NextMaintenanceDate,
		CurrentWorkHours:     e.CurrentWorkHours,
		MaxWorkHours:         e.MaxWorkHours,
		WorkHoursPercent:     status.WorkHoursPercent(e.CurrentWorkHours, e.MaxWorkHours),
		Notes:                e.Notes,
		Warranty:             ToDerivedStatusDTO(status.Warranty(e.InstallationDate, e.WarrantyPeriodMonths, now)),
		Maintenance:          ToDerivedStatusDTO(status.Maintenance(e.NextMaintenanceDate, now)),
	}
	if e.Asset != nil {
		dto.AssetName = e.Asset.Name
		dto.SerialNumber = e.Asset.SerialNumber
	}
	if e.EquipmentType != nil {
		dto.EquipmentTypeName = e.EquipmentType.Name
	}
	if e.Workshop != nil {
		dto.WorkshopName = e.Workshop.Name
	}
	if e.AssignedMaster != nil {
		dto.AssignedMasterName = e.AssignedMaster.DisplayName()
	}
	if e.Status != nil {
		dto.StatusName = e.Status.Name
		dto.StatusColor = string(status.StatusColor(e.Status.Code))
	}
	return dto
}

func ToWorkshopDTO(w *domain.Workshop) domain.WorkshopDTO {
	dto := domain.WorkshopDTO{
		ID:        w.ID,
		Name:      w.Name,
		Location:  w.Location,
		ManagerID: w.ManagerID,
		CreatedAt: formatTimestamp(w.CreatedAt),
	}
	if w.Manager != nil {
		dto.ManagerName = w.Manager.DisplayName()
	}
	return dto
}

func ToSupplierDTO(s *domain.Supplier) domain.SupplierDTO {
	return domain.SupplierDTO{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		TaxNumber:     s.TaxNumber,
		IsActive:      s.IsActive,
		CreatedAt:     formatTimestamp(s.CreatedAt),
		UpdatedAt:     formatTimestamp(s.UpdatedAt),
	}
}

// ToPurchaseDTO converts Purchase to PurchaseDTO with its delivery status
func ToPurchaseDTO(p *domain.Purchase, now time.Time) domain.PurchaseDTO {
	dto := domain.PurchaseDTO{
		ID:               p.ID,
		PurchaseNumber:   p.PurchaseNumber,
		AssetID:          p.AssetID,
		SupplierID:       p.SupplierID,
		ManagerID:        p.ManagerID,
		Quantity:         p.Quantity,
		UnitPrice:        p.UnitPrice,
		TotalCost:        p.TotalCost,
		OrderDate:        p.OrderDate,
		ExpectedDelivery: p.ExpectedDelivery,
		ActualDelivery:   p.ActualDelivery,
		StatusID:         p.StatusID,
		Delivery:         ToDerivedStatusDTO(status.Delivery(p.ExpectedDelivery, p.ActualDelivery, now)),
		Notes:            p.Notes,
		CreatedAt:        formatTimestamp(p.CreatedAt),
	}
	if p.Asset != nil {
		dto.AssetName = p.Asset.Name
	}
	if p.Supplier != nil {
		dto.SupplierName = p.Supplier.Name
	}
	if p.Manager != nil {
		dto.ManagerName = p.Manager.DisplayName()
	}
	if p.Status != nil {
		dto.StatusName = p.Status.Name
		dto.StatusColor = string(status.PurchaseStatusColor(p.Status.Code))
	}
	return dto
}

func ToMaintenanceRecordDTO(m *domain.MaintenanceRecord, now time.Time) domain.MaintenanceRecordDTO {
	dto := domain.MaintenanceRecordDTO{
		ID:                  m.ID,
		EquipmentID:         m.EquipmentID,
		MasterID:            m.MasterID,
		StatusID:            m.StatusID,
		MaintenanceDate:     m.MaintenanceDate,
		Type:                m.Type,
		Description:         m.Description,
		PartsReplaced:       m.PartsReplaced,
		Cost:                m.Cost,
		DowntimeHours:       m.DowntimeHours,
		NextMaintenanceDate: m.NextMaintenanceDate,
		NextMaintenance:     ToDerivedStatusDTO(status.Maintenance(m.NextMaintenanceDate, now)),
		CreatedAt:           formatTimestamp(m.CreatedAt),
	}
	if m.Equipment != nil && m.Equipment.Asset != nil {
		dto.EquipmentName = m.Equipment.Asset.Name
	}
	if m.Master != nil {
		dto.MasterName = m.Master.DisplayName()
	}
	if m.Status != nil {
		dto.StatusName = m.Status.Name
	}
	return dto
}

func ToMasterDTO(m *domain.Master) domain.MasterDTO {
	dto := domain.MasterDTO{
		ID:              m.ID,
		UserID:          m.UserID,
		SpecialtyID:     m.SpecialtyID,
		QualificationID: m.QualificationID,
		SkillLevel:      m.SkillLevel,
		HireDate:        m.HireDate,
		IsAvailable:     m.IsAvailable,
	}
	if m.User != nil {
		dto.FullName = m.User.FullName
		dto.Username = m.User.Username
	}
	if m.Specialty != nil {
		dto.SpecialtyName = m.Specialty.Name
	}
	if m.Qualification != nil {
		dto.QualificationName = m.Qualification.Name
	}
	return dto
}

// ToMasterOptions builds a select list of masters headed by a "not assigned"
// entry whose id is null.
func ToMasterOptions(masters []domain.Master, noneLabel string) []domain.SelectOptionDTO {
	out := make([]domain.SelectOptionDTO, 0, len(masters)+1)
	out = append(out, domain.SelectOptionDTO{ID: domain.None[int64](), Label: noneLabel})
	for i := range masters {
		label := masters[i].DisplayName()
		if label == "" {
			label = "#" + formatID(masters[i].ID)
		}
		out = append(out, domain.SelectOptionDTO{ID: domain.Some(masters[i].ID), Label: label})
	}
	return out
}

func ToUserDTO(u *domain.User) domain.UserDTO {
	dto := domain.UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		RoleID:    u.RoleID,
		CreatedAt: formatTimestamp(u.CreatedAt),
	}
	if u.Role != nil {
		dto.RoleName = u.Role.Name
	}
	return dto
}

func ToRoleDTO(r *domain.Role) domain.RoleDTO {
	return domain.RoleDTO{ID: r.ID, Name: r.Name, Description: r.Description}
}

func ToWorkActDTO(w *domain.WorkAct) domain.WorkActDTO {
	return domain.WorkActDTO{
		ID:          w.ID,
		AssetID:     w.AssetID,
		MasterID:    w.MasterID,
		Description: w.Description,
		CreatedAt:   formatTimestamp(w.CreatedAt),
	}
}
