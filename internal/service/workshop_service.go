package service

import (
	"context"
	"strings"
	"time"

	"github.com/foxerka/enterprise-assets/internal/aggregate"
	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/mapper"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"gorm.io/gorm"
)

// WorkshopService handles business logic for workshops
type WorkshopService struct {
	crud *crud[domain.Workshop]
	now  func() time.Time
}

// NewWorkshopService creates a new workshop service instance
func NewWorkshopService(deps Deps) *WorkshopService {
	return &WorkshopService{
		now:  time.Now,
		crud: newCrud(deps, domain.KindWorkshop, func(w *domain.Workshop) int64 { return w.ID }, "Manager.User"),
	}
}

func applyWorkshopRequest(w *domain.Workshop, req *domain.WorkshopRequest) {
	w.Name = strings.TrimSpace(req.Name)
	w.Location = strings.TrimSpace(req.Location)
	w.ManagerID = req.ManagerID.Ptr()
}

func (s *WorkshopService) Create(ctx context.Context, req *domain.WorkshopRequest) (*domain.WorkshopDTO, error) {
	w := &domain.Workshop{}
	applyWorkshopRequest(w, req)

	created, err := s.crud.create(ctx, w, nil, nil)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToWorkshopDTO(created)
	return &dto, nil
}

func (s *WorkshopService) GetByID(ctx context.Context, id int64) (*domain.WorkshopDTO, error) {
	w, err := s.crud.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToWorkshopDTO(w)
	return &dto, nil
}

func (s *WorkshopService) Update(ctx context.Context, id int64, req *domain.WorkshopRequest) (*domain.WorkshopDTO, error) {
	updated, err := s.crud.update(ctx, id, func(_ *gorm.DB, w *domain.Workshop) (interface{}, error) {
		applyWorkshopRequest(w, req)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	dto := mapper.ToWorkshopDTO(updated)
	return &dto, nil
}

// Delete deletes a workshop unless equipment or assets are placed in it
func (s *WorkshopService) Delete(ctx context.Context, id int64) error {
	return s.crud.delete(ctx, id)
}

func (s *WorkshopService) List(ctx context.Context, filters repository.WorkshopFilters, sort repository.SortConfig, page, pageSize int) (Page[domain.WorkshopDTO], error) {
	items, total, err := s.crud.list(ctx, filters.Query(sort), page, pageSize)
	if err != nil {
		return Page[domain.WorkshopDTO]{}, err
	}
	return mapPage(items, total, page, pageSize, mapper.ToWorkshopDTO), nil
}

func (s *WorkshopService) Stats(ctx context.Context, filters repository.WorkshopFilters) (domain.StatsSummaryDTO, error) {
	items, err := s.crud.find(ctx, repository.Query{Scopes: filters.Scopes()})
	if err != nil {
		return domain.StatsSummaryDTO{}, err
	}
	return aggregate.Aggregate(domain.KindWorkshop, items, s.now())
}
