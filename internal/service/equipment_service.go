package service

import (
	"context"
	"strings"
	"time"

	"github.com/foxerka/enterprise-assets/internal/aggregate"
	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/mapper"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"github.com/foxerka/enterprise-assets/internal/status"
	"gorm.io/gorm"
)

var equipmentPreloads = []string{"Asset", "EquipmentType", "Workshop", "AssignedMaster.User", "Status"}

// EquipmentService handles business logic for equipment units
type EquipmentService struct {
	crud *crud[domain.Equipment]
	now  func() time.Time
}

// NewEquipmentService creates a new equipment service instance
func NewEquipmentService(deps Deps) *EquipmentService {
	return &EquipmentService{
		crud: newCrud(deps, domain.KindEquipment, func(e *domain.Equipment) int64 { return e.ID }, equipmentPreloads...),
		now:  time.Now,
	}
}

func applyEquipmentRequest(e *domain.Equipment, req *domain.EquipmentRequest) {
	e.AssetID = req.AssetID
	e.EquipmentTypeID = req.EquipmentTypeID
	e.WorkshopID = req.WorkshopID.Ptr()
	e.AssignedMasterID = req.AssignedMasterID.Ptr()
	e.StatusID = req.StatusID.Ptr()
	e.Manufacturer = strings.TrimSpace(req.Manufacturer)
	e.InstallationDate = req.InstallationDate
	e.WarrantyPeriodMonths = req.WarrantyPeriodMonths
	e.LastMaintenanceDate = req.LastMaintenanceDate
	e.NextMaintenanceDate = req.NextMaintenanceDate
	e.CurrentWorkHours = req.CurrentWorkHours
	e.MaxWorkHours = req.MaxWorkHours
	e.Notes = req.Notes
}

// Create registers an equipment unit for an equipment-typed asset
func (s *EquipmentService) Create(ctx context.Context, req *domain.EquipmentRequest) (*domain.EquipmentDTO, error) {
	e := &domain.Equipment{}
	applyEquipmentRequest(e, req)

	created, err := s.crud.create(ctx, e, nil, nil)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToEquipmentDTO(created, s.now())
	return &dto, nil
}

// GetByID retrieves an equipment unit with its derived statuses
func (s *EquipmentService) GetByID(ctx context.Context, id int64) (*domain.EquipmentDTO, error) {
	e, err := s.crud.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToEquipmentDTO(e, s.now())
	return &dto, nil
}

// Get returns the equipment model, used for status derivation
func (s *EquipmentService) Get(ctx context.Context, id int64) (*domain.Equipment, error) {
	return s.crud.get(ctx, id)
}

func (s *EquipmentService) Update(ctx context.Context, id int64, req *domain.EquipmentRequest) (*domain.EquipmentDTO, error) {
	updated, err := s.crud.update(ctx, id, func(_ *gorm.DB, e *domain.Equipment) (interface{}, error) {
		applyEquipmentRequest(e, req)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	dto := mapper.ToEquipmentDTO(updated, s.now())
	return &dto, nil
}

// Delete deletes an equipment unit unless maintenance records reference it
func (s *EquipmentService) Delete(ctx context.Context, id int64) error {
	return s.crud.delete(ctx, id)
}

// List returns a page of equipment
func (s *EquipmentService) List(ctx context.Context, filters repository.EquipmentFilters, sort repository.SortConfig, page, pageSize int) (Page[domain.EquipmentDTO], error) {
	items, total, err := s.crud.list(ctx, filters.Query(sort), page, pageSize)
	if err != nil {
		return Page[domain.EquipmentDTO]{}, err
	}
	now := s.now()
	return mapPage(items, total, page, pageSize, func(e *domain.Equipment) domain.EquipmentDTO {
		return mapper.ToEquipmentDTO(e, now)
	}), nil
}

// Stats aggregates every unit matching the filters
func (s *EquipmentService) Stats(ctx context.Context, filters repository.EquipmentFilters) (domain.StatsSummaryDTO, error) {
	items, err := s.crud.find(ctx, repository.Query{Scopes: filters.Scopes(), Preloads: []string{"Status"}})
	if err != nil {
		return domain.StatsSummaryDTO{}, err
	}
	return aggregate.Aggregate(domain.KindEquipment, items, s.now())
}

// ListAllEquipment loads every unit with the associations reports need
func (s *EquipmentService) ListAllEquipment(ctx context.Context) ([]domain.Equipment, error) {
	return s.crud.find(ctx, repository.Query{Preloads: equipmentPreloads, Order: "id"})
}

// MaintenanceSchedule lists units ordered by maintenance priority: faulty
// first, then overdue, then due soon, ties by ascending id.
func (s *EquipmentService) MaintenanceSchedule(ctx context.Context, filters repository.EquipmentFilters) ([]domain.MaintenanceScheduleItemDTO, error) {
	items, err := s.crud.find(ctx, repository.Query{Scopes: filters.Scopes(), Preloads: equipmentPreloads})
	if err != nil {
		return nil, err
	}

	now := s.now()
	status.SortByMaintenancePriority(items, now)

	out := make([]domain.MaintenanceScheduleItemDTO, 0, len(items))
	for i := range items {
		out = append(out, domain.MaintenanceScheduleItemDTO{
			Priority:  status.MaintenancePriority(&items[i], now),
			Equipment: mapper.ToEquipmentDTO(&items[i], now),
		})
	}
	return out, nil
}
