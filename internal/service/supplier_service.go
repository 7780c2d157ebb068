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

// SupplierService handles business logic for suppliers
type SupplierService struct {
	crud *crud[domain.Supplier]
	now  func() time.Time
}

// NewSupplierService creates a new supplier service instance
func NewSupplierService(deps Deps) *SupplierService {
	return &SupplierService{
		now:  time.Now,
		crud: newCrud(deps, domain.KindSupplier, func(s *domain.Supplier) int64 { return s.ID }),
	}
}

// applySupplierRequest copies the request; IsActive is only changed when sent
func applySupplierRequest(s *domain.Supplier, req *domain.SupplierRequest) {
	s.Name = strings.TrimSpace(req.Name)
	s.ContactPerson = strings.TrimSpace(req.ContactPerson)
	s.Email = strings.TrimSpace(req.Email)
	s.Phone = strings.TrimSpace(req.Phone)
	s.Address = strings.TrimSpace(req.Address)
	s.TaxNumber = strings.TrimSpace(req.TaxNumber)
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
}

// Create creates a new supplier, active unless the request says otherwise
func (s *SupplierService) Create(ctx context.Context, req *domain.SupplierRequest) (*domain.SupplierDTO, error) {
	supplier := &domain.Supplier{IsActive: true}
	applySupplierRequest(supplier, req)

	created, err := s.crud.create(ctx, supplier, nil, nil)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToSupplierDTO(created)
	return &dto, nil
}

func (s *SupplierService) GetByID(ctx context.Context, id int64) (*domain.SupplierDTO, error) {
	supplier, err := s.crud.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToSupplierDTO(supplier)
	return &dto, nil
}

func (s *SupplierService) Update(ctx context.Context, id int64, req *domain.SupplierRequest) (*domain.SupplierDTO, error) {
	updated, err := s.crud.update(ctx, id, func(_ *gorm.DB, supplier *domain.Supplier) (interface{}, error) {
		applySupplierRequest(supplier, req)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	dto := mapper.ToSupplierDTO(updated)
	return &dto, nil
}

// Delete deletes a supplier unless purchases or assets reference it
func (s *SupplierService) Delete(ctx context.Context, id int64) error {
	return s.crud.delete(ctx, id)
}

func (s *SupplierService) List(ctx context.Context, filters repository.SupplierFilters, sort repository.SortConfig, page, pageSize int) (Page[domain.SupplierDTO], error) {
	items, total, err := s.crud.list(ctx, filters.Query(sort), page, pageSize)
	if err != nil {
		return Page[domain.SupplierDTO]{}, err
	}
	return mapPage(items, total, page, pageSize, mapper.ToSupplierDTO), nil
}

func (s *SupplierService) Stats(ctx context.Context, filters repository.SupplierFilters) (domain.StatsSummaryDTO, error) {
	items, err := s.crud.find(ctx, repository.Query{Scopes: filters.Scopes()})
	if err != nil {
		return domain.StatsSummaryDTO{}, err
	}
	return aggregate.Aggregate(domain.KindSupplier, items, s.now())
}
