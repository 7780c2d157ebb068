package service

import (
	"context"
	"strings"

	"github.com/foxerka/enterprise-assets/internal/auth"
	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/lifecycle"
	"github.com/foxerka/enterprise-assets/internal/mapper"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"gorm.io/gorm"
)

// UserService handles business logic for users
type UserService struct {
	crud *crud[domain.User]
}

// NewUserService creates a new user service instance
func NewUserService(deps Deps) *UserService {
	c := newCrud(deps, domain.KindUser, func(u *domain.User) int64 { return u.ID }, "Role")
	c.duplicate = func() error {
		return domain.ValidationErrors{{Field: "username", Message: "is already taken"}}
	}
	return &UserService{crud: c}
}

func applyUserRequest(u *domain.User, req *domain.UserRequest) {
	u.Username = strings.TrimSpace(req.Username)
	u.FullName = strings.TrimSpace(req.FullName)
	u.Email = strings.TrimSpace(req.Email)
	u.Phone = strings.TrimSpace(req.Phone)
	u.RoleID = req.RoleID.Ptr()
}

// setPassword hashes the password once the draft has been validated
func setPassword(u *domain.User, password string) func(*gorm.DB) error {
	return func(*gorm.DB) error {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
		return nil
	}
}

// Create creates a user; the password must be confirmed
func (s *UserService) Create(ctx context.Context, req *domain.UserRequest) (*domain.UserDTO, error) {
	u := &domain.User{}
	applyUserRequest(u, req)
	draft := &lifecycle.UserDraft{User: u, Password: req.Password, ConfirmPassword: req.ConfirmPassword}

	created, err := s.crud.create(ctx, u, draft, setPassword(u, req.Password))
	if err != nil {
		return nil, err
	}
	dto := mapper.ToUserDTO(created)
	return &dto, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.UserDTO, error) {
	u, err := s.crud.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToUserDTO(u)
	return &dto, nil
}

// Update changes the profile; an empty password keeps the current hash
func (s *UserService) Update(ctx context.Context, id int64, req *domain.UserRequest) (*domain.UserDTO, error) {
	updated, err := s.crud.update(ctx, id, func(_ *gorm.DB, u *domain.User) (interface{}, error) {
		applyUserRequest(u, req)
		if req.Password != "" {
			hash, err := auth.HashPassword(req.Password)
			if err != nil {
				return nil, err
			}
			u.PasswordHash = hash
		}
		return &lifecycle.UserDraft{User: u, Password: req.Password, ConfirmPassword: req.ConfirmPassword}, nil
	})
	if err != nil {
		return nil, err
	}
	dto := mapper.ToUserDTO(updated)
	return &dto, nil
}

// Delete deletes a user unless a master is linked to it
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.crud.delete(ctx, id)
}

func (s *UserService) List(ctx context.Context, filters repository.UserFilters, sort repository.SortConfig, page, pageSize int) (Page[domain.UserDTO], error) {
	items, total, err := s.crud.list(ctx, filters.Query(sort), page, pageSize)
	if err != nil {
		return Page[domain.UserDTO]{}, err
	}
	return mapPage(items, total, page, pageSize, mapper.ToUserDTO), nil
}
