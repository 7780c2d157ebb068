package service

import (
	"context"
	"strings"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/mapper"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"gorm.io/gorm"
)

// RoleService handles business logic for roles
type RoleService struct {
	crud *crud[domain.Role]
}

// NewRoleService creates a new role service instance
func NewRoleService(deps Deps) *RoleService {
	c := newCrud(deps, domain.KindRole, func(r *domain.Role) int64 { return r.ID })
	c.duplicate = func() error {
		return domain.ValidationErrors{{Field: "name", Message: "already exists"}}
	}
	return &RoleService{crud: c}
}

func (s *RoleService) Create(ctx context.Context, req *domain.RoleRequest) (*domain.RoleDTO, error) {
	role := &domain.Role{Name: strings.TrimSpace(req.Name), Description: strings.TrimSpace(req.Description)}
	created, err := s.crud.create(ctx, role, nil, nil)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToRoleDTO(created)
	return &dto, nil
}

func (s *RoleService) GetByID(ctx context.Context, id int64) (*domain.RoleDTO, error) {
	role, err := s.crud.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToRoleDTO(role)
	return &dto, nil
}

func (s *RoleService) Update(ctx context.Context, id int64, req *domain.RoleRequest) (*domain.RoleDTO, error) {
	updated, err := s.crud.update(ctx, id, func(_ *gorm.DB, role *domain.Role) (interface{}, error) {
		role.Name = strings.TrimSpace(req.Name)
		role.Description = strings.TrimSpace(req.Description)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	dto := mapper.ToRoleDTO(updated)
	return &dto, nil
}

// Delete deletes a role unless users still hold it
func (s *RoleService) Delete(ctx context.Context, id int64) error {
	return s.crud.delete(ctx, id)
}

func (s *RoleService) List(ctx context.Context, filters repository.NameFilters, sort repository.SortConfig, page, pageSize int) (Page[domain.RoleDTO], error) {
	items, total, err := s.crud.list(ctx, filters.Query(sort), page, pageSize)
	if err != nil {
		return Page[domain.RoleDTO]{}, err
	}
	return mapPage(items, total, page, pageSize, mapper.ToRoleDTO), nil
}
