package service

import (
	"context"
	"time"

	"github.com/foxerka/enterprise-assets/internal/aggregate"
	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/mapper"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"gorm.io/gorm"
)

// NoMasterLabel is the select list entry for "no master assigned"
const NoMasterLabel = "Not assigned"

var masterPreloads = []string{"User", "Specialty", "Qualification"}

// MasterService handles business logic for masters
type MasterService struct {
	crud *crud[domain.Master]
	db   *gorm.DB
	now  func() time.Time
}

// NewMasterService creates a new master service instance
func NewMasterService(deps Deps) *MasterService {
	c := newCrud(deps, domain.KindMaster, func(m *domain.Master) int64 { return m.ID }, masterPreloads...)
	c.duplicate = func() error { return domain.ErrDuplicateAssignment }
	return &MasterService{crud: c, db: deps.DB, now: time.Now}
}

func applyMasterRequest(m *domain.Master, req *domain.MasterRequest) {
	m.UserID = req.UserID
	m.SpecialtyID = req.SpecialtyID
	m.QualificationID = req.QualificationID
	m.SkillLevel = req.SkillLevel
	m.HireDate = req.HireDate
	if req.IsAvailable != nil {
		m.IsAvailable = *req.IsAvailable
	}
}

// Create links a user to a new master. Skill level defaults to medium and
// the master is available unless the request says otherwise.
func (s *MasterService) Create(ctx context.Context, req *domain.MasterRequest) (*domain.MasterDTO, error) {
	m := &domain.Master{IsAvailable: true}
	applyMasterRequest(m, req)

	created, err := s.crud.create(ctx, m, nil, nil)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToMasterDTO(created)
	return &dto, nil
}

func (s *MasterService) GetByID(ctx context.Context, id int64) (*domain.MasterDTO, error) {
	m, err := s.crud.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToMasterDTO(m)
	return &dto, nil
}

// Update re-checks that no other master is linked to the user
func (s *MasterService) Update(ctx context.Context, id int64, req *domain.MasterRequest) (*domain.MasterDTO, error) {
	updated, err := s.crud.update(ctx, id, func(_ *gorm.DB, m *domain.Master) (interface{}, error) {
		applyMasterRequest(m, req)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	dto := mapper.ToMasterDTO(updated)
	return &dto, nil
}

// Delete deletes a master unless work, workshops, equipment, purchases or
// maintenance records reference it
func (s *MasterService) Delete(ctx context.Context, id int64) error {
	return s.crud.delete(ctx, id)
}

func (s *MasterService) List(ctx context.Context, filters repository.MasterFilters, sort repository.SortConfig, page, pageSize int) (Page[domain.MasterDTO], error) {
	items, total, err := s.crud.list(ctx, filters.Query(sort), page, pageSize)
	if err != nil {
		return Page[domain.MasterDTO]{}, err
	}
	return mapPage(items, total, page, pageSize, mapper.ToMasterDTO), nil
}

func (s *MasterService) Stats(ctx context.Context, filters repository.MasterFilters) (domain.StatsSummaryDTO, error) {
	items, err := s.crud.find(ctx, repository.Query{Scopes: filters.Scopes()})
	if err != nil {
		return domain.StatsSummaryDTO{}, err
	}
	return aggregate.Aggregate(domain.KindMaster, items, s.now())
}

// Options returns the master select list with a leading "not assigned" entry
func (s *MasterService) Options(ctx context.Context, availableOnly bool) ([]domain.SelectOptionDTO, error) {
	q := repository.MasterFilters{AvailableOnly: availableOnly}.Query(repository.DefaultSortConfig())
	q.Preloads = []string{"User"}
	items, err := s.crud.find(ctx, q)
	if err != nil {
		return nil, err
	}
	return mapper.ToMasterOptions(items, NoMasterLabel), nil
}

// WorkStats counts the work acts, completion acts and equipment of one master
func (s *MasterService) WorkStats(ctx context.Context, id int64) (*domain.MasterStatsDTO, error) {
	exists, err := s.crud.repo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	db := s.db.WithContext(ctx)
	out := &domain.MasterStatsDTO{MasterID: id}

	if err := db.Model(&domain.WorkAct{}).Where("master_id = ?", id).Count(&out.WorkActs).Error; err != nil {
		return nil, domain.NewStoreError("count work acts", err)
	}
	acts := db.Session(&gorm.Session{NewDB: true}).Model(&domain.WorkAct{}).Select("id").Where("master_id = ?", id)
	if err := db.Model(&domain.CompletionAct{}).Where("work_act_id IN (?)", acts).Count(&out.CompletionActs).Error; err != nil {
		return nil, domain.NewStoreError("count completion acts", err)
	}
	if err := db.Model(&domain.Equipment{}).Where("assigned_master_id = ?", id).Count(&out.EquipmentAssigned).Error; err != nil {
		return nil, domain.NewStoreError("count assigned equipment", err)
	}
	return out, nil
}
