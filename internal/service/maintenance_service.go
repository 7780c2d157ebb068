package service

import (
	"context"
	"strings"
	"time"

	"github.com/foxerka/enterprise-assets/internal/aggregate"
	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/mapper"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var maintenancePreloads = []string{"Equipment.Asset", "Master.User", "Status"}

// MaintenanceService handles the maintenance history of equipment
type MaintenanceService struct {
	crud   *crud[domain.MaintenanceRecord]
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewMaintenanceService creates a new maintenance service instance
func NewMaintenanceService(deps Deps) *MaintenanceService {
	return &MaintenanceService{
		crud:   newCrud(deps, domain.KindMaintenance, func(m *domain.MaintenanceRecord) int64 { return m.ID }, maintenancePreloads...),
		db:     deps.DB,
		logger: deps.Logger,
		now:    time.Now,
	}
}

func applyMaintenanceRequest(m *domain.MaintenanceRecord, req *domain.MaintenanceRecordRequest) {
	m.EquipmentID = req.EquipmentID
	m.MasterID = req.MasterID.Ptr()
	m.StatusID = req.StatusID.Ptr()
	m.MaintenanceDate = req.MaintenanceDate
	m.Type = strings.TrimSpace(req.Type)
	m.Description = req.Description
	m.PartsReplaced = req.PartsReplaced
	m.Cost = req.Cost
	m.DowntimeHours = req.DowntimeHours
	m.NextMaintenanceDate = req.NextMaintenanceDate
}

// syncEquipment copies the record's dates onto its equipment unit when the
// record is the most recent one
func syncEquipment(tx *gorm.DB, m *domain.MaintenanceRecord) error {
	updates := map[string]interface{}{}
	if m.MaintenanceDate != nil {
		updates["last_maintenance_date"] = *m.MaintenanceDate
	}
	if m.NextMaintenanceDate != nil {
		updates["next_maintenance_date"] = *m.NextMaintenanceDate
	}
	if len(updates) == 0 {
		return nil
	}

	var newer int64
	if m.MaintenanceDate != nil {
		if err := tx.Model(&domain.MaintenanceRecord{}).
			Where("equipment_id = ? AND id <> ? AND maintenance_date > ?", m.EquipmentID, m.ID, *m.MaintenanceDate).
			Count(&newer).Error; err != nil {
			return domain.NewStoreError("check newer maintenance", err)
		}
	}
	if newer > 0 {
		return nil
	}

	err := tx.Model(&domain.Equipment{}).Where("id = ?", m.EquipmentID).Updates(updates).Error
	return domain.NewStoreError("sync equipment maintenance dates", err)
}

// Create records a maintenance event and moves the equipment's last and
// next maintenance dates forward
func (s *MaintenanceService) Create(ctx context.Context, req *domain.MaintenanceRecordRequest) (*domain.MaintenanceRecordDTO, error) {
	m := &domain.MaintenanceRecord{}
	applyMaintenanceRequest(m, req)

	var created *domain.MaintenanceRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = s.crud.createTx(ctx, tx, m, nil, nil)
		if err != nil {
			return err
		}
		return syncEquipment(tx, created)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("maintenance recorded",
		zap.Int64("maintenance_id", created.ID),
		zap.Int64("equipment_id", created.EquipmentID))
	dto := mapper.ToMaintenanceRecordDTO(created, s.now())
	return &dto, nil
}

func (s *MaintenanceService) GetByID(ctx context.Context, id int64) (*domain.MaintenanceRecordDTO, error) {
	m, err := s.crud.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToMaintenanceRecordDTO(m, s.now())
	return &dto, nil
}

// Get returns the record model, used for status derivation
func (s *MaintenanceService) Get(ctx context.Context, id int64) (*domain.MaintenanceRecord, error) {
	return s.crud.get(ctx, id)
}

func (s *MaintenanceService) Update(ctx context.Context, id int64, req *domain.MaintenanceRecordRequest) (*domain.MaintenanceRecordDTO, error) {
	updated, err := s.crud.update(ctx, id, func(_ *gorm.DB, m *domain.MaintenanceRecord) (interface{}, error) {
		applyMaintenanceRequest(m, req)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	dto := mapper.ToMaintenanceRecordDTO(updated, s.now())
	return &dto, nil
}

func (s *MaintenanceService) Delete(ctx context.Context, id int64) error {
	return s.crud.delete(ctx, id)
}

// List returns the maintenance history, newest first unless sorted otherwise
func (s *MaintenanceService) List(ctx context.Context, filters repository.MaintenanceFilters, sort repository.SortConfig, page, pageSize int) (Page[domain.MaintenanceRecordDTO], error) {
	items, total, err := s.crud.list(ctx, filters.Query(sort), page, pageSize)
	if err != nil {
		return Page[domain.MaintenanceRecordDTO]{}, err
	}
	now := s.now()
	return mapPage(items, total, page, pageSize, func(m *domain.MaintenanceRecord) domain.MaintenanceRecordDTO {
		return mapper.ToMaintenanceRecordDTO(m, now)
	}), nil
}

func (s *MaintenanceService) Stats(ctx context.Context, filters repository.MaintenanceFilters) (domain.StatsSummaryDTO, error) {
	items, err := s.crud.find(ctx, repository.Query{Scopes: filters.Scopes()})
	if err != nil {
		return domain.StatsSummaryDTO{}, err
	}
	return aggregate.Aggregate(domain.KindMaintenance, items, s.now())
}
