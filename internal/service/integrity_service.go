package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/integrity"
	"github.com/foxerka/enterprise-assets/internal/lifecycle"
	"github.com/foxerka/enterprise-assets/internal/mapper"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"github.com/foxerka/enterprise-assets/internal/status"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IntegrityService exposes the cross-entity engine operations: delete
// previews, draft validation and derived statuses.
type IntegrityService struct {
	db      *gorm.DB
	rules   *lifecycle.Rules
	checker *integrity.Checker
	logger  *zap.Logger
	now     func() time.Time
}

// NewIntegrityService creates a new integrity service instance
func NewIntegrityService(deps Deps) *IntegrityService {
	return &IntegrityService{
		db:      deps.DB,
		rules:   deps.Rules,
		checker: deps.Checker,
		logger:  deps.Logger,
		now:     time.Now,
	}
}

// PreviewDelete reports whether the entity could be deleted and what blocks it
func (s *IntegrityService) PreviewDelete(ctx context.Context, kind domain.EntityKind, id int64) (*domain.DeletePreviewDTO, error) {
	exists, err := s.exists(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	allowed, blockers, err := s.checker.CanDelete(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return &domain.DeletePreviewDTO{Kind: kind, ID: id, Allowed: allowed, Blockers: blockers}, nil
}

func (s *IntegrityService) exists(ctx context.Context, kind domain.EntityKind, id int64) (bool, error) {
	model, err := s.draft(kind)
	if err != nil {
		return false, err
	}
	if ud, ok := model.(*lifecycle.UserDraft); ok {
		model = ud.User
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, domain.NewStoreError("exists", err)
	}
	return count > 0, nil
}

// draft returns an empty draft of the kind
func (s *IntegrityService) draft(kind domain.EntityKind) (interface{}, error) {
	switch kind {
	case domain.KindAsset:
		return &domain.Asset{}, nil
	case domain.KindEquipment:
		return &domain.Equipment{}, nil
	case domain.KindWorkshop:
		return &domain.Workshop{}, nil
	case domain.KindSupplier:
		return &domain.Supplier{IsActive: true}, nil
	case domain.KindPurchase:
		return &domain.Purchase{}, nil
	case domain.KindMaintenance:
		return &domain.MaintenanceRecord{}, nil
	case domain.KindMaster:
		return &domain.Master{IsAvailable: true}, nil
	case domain.KindUser:
		return &lifecycle.UserDraft{User: &domain.User{}}, nil
	case domain.KindRole:
		return &domain.Role{}, nil
	case domain.KindWorkAct:
		return &domain.WorkAct{}, nil
	case domain.KindAssetType:
		return &domain.AssetType{}, nil
	case domain.KindCategory:
		return &domain.Category{}, nil
	case domain.KindAssetStatus:
		return &domain.AssetStatus{}, nil
	case domain.KindUnit:
		return &domain.Unit{}, nil
	case domain.KindPurchaseStatus:
		return &domain.PurchaseStatus{}, nil
	case domain.KindSpecialty:
		return &domain.Specialty{}, nil
	case domain.KindQualification:
		return &domain.Qualification{}, nil
	}
	return nil, fmt.Errorf("%w: %s", integrity.ErrUnknownKind, kind)
}

func decode(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// buildDraft decodes the request body of kind into a draft. id is set on
// the draft so uniqueness checks skip the entity being edited.
func (s *IntegrityService) buildDraft(kind domain.EntityKind, id int64, body []byte) (interface{}, error) {
	d, err := s.draft(kind)
	if err != nil {
		return nil, err
	}

	switch v := d.(type) {
	case *domain.Asset:
		var req domain.AssetRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		applyAssetRequest(v, &req)
		v.ID = id
	case *domain.Equipment:
		var req domain.EquipmentRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		applyEquipmentRequest(v, &req)
		v.ID = id
	case *domain.Workshop:
		var req domain.WorkshopRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		applyWorkshopRequest(v, &req)
		v.ID = id
	case *domain.Supplier:
		var req domain.SupplierRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		applySupplierRequest(v, &req)
		v.ID = id
	case *domain.Purchase:
		var req domain.PurchaseRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		applyPurchaseRequest(v, &req)
		v.ID = id
	case *domain.MaintenanceRecord:
		var req domain.MaintenanceRecordRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		applyMaintenanceRequest(v, &req)
		v.ID = id
	case *domain.Master:
		var req domain.MasterRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		applyMasterRequest(v, &req)
		v.ID = id
	case *lifecycle.UserDraft:
		var req domain.UserRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		applyUserRequest(v.User, &req)
		v.User.ID = id
		v.Password = req.Password
		v.ConfirmPassword = req.ConfirmPassword
	case *domain.Role:
		var req domain.RoleRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		v.ID = id
		v.Name = req.Name
		v.Description = strings.TrimSpace(req.Description)
	case *domain.WorkAct:
		var req domain.WorkActRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		applyWorkActRequest(v, &req)
		v.ID = id
	default:
		var req domain.LookupRequest
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		setLookupName(d, strings.TrimSpace(req.Name))
	}
	return d, nil
}

func setLookupName(d interface{}, name string) {
	switch v := d.(type) {
	case *domain.AssetType:
		v.Name = name
	case *domain.Category:
		v.Name = name
	case *domain.AssetStatus:
		v.Name = name
	case *domain.Unit:
		v.Name = name
	case *domain.PurchaseStatus:
		v.Name = name
	case *domain.Specialty:
		v.Name = name
	case *domain.Qualification:
		v.Name = name
	}
}

// Validate runs the create/update rules on a draft without saving it. A
// duplicate master assignment is reported as a userId error.
func (s *IntegrityService) Validate(ctx context.Context, kind domain.EntityKind, id int64, body []byte) (*domain.ValidationResultDTO, error) {
	d, err := s.buildDraft(kind, id, body)
	if err != nil {
		return nil, err
	}

	err = s.rules.Validate(ctx, kind, d)
	result := &domain.ValidationResultDTO{Valid: err == nil, Errors: []domain.ValidationError{}}
	if err == nil {
		return result, nil
	}

	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		result.Errors = verrs
	case errors.Is(err, domain.ErrDuplicateAssignment):
		result.Errors = []domain.ValidationError{{Field: "userId", Message: err.Error()}}
	default:
		return nil, err
	}
	return result, nil
}

// Status derives the date based statuses of an equipment unit, purchase or
// maintenance record
func (s *IntegrityService) Status(ctx context.Context, kind domain.EntityKind, id int64) (*domain.EntityStatusDTO, error) {
	var (
		entity interface{}
		err    error
	)
	switch kind {
	case domain.KindEquipment:
		entity, err = repository.New[domain.Equipment](s.db).FindByID(ctx, id)
	case domain.KindPurchase:
		entity, err = repository.New[domain.Purchase](s.db).FindByID(ctx, id)
	case domain.KindMaintenance:
		entity, err = repository.New[domain.MaintenanceRecord](s.db).FindByID(ctx, id)
	default:
		return nil, fmt.Errorf("%w: %s has no derived status", ErrUnsupportedKind, kind)
	}
	if err != nil {
		return nil, err
	}

	derived, err := status.DeriveStatus(kind, entity, s.now())
	if err != nil {
		return nil, err
	}
	return &domain.EntityStatusDTO{Kind: kind, ID: id, Statuses: mapper.ToDerivedStatusMap(derived)}, nil
}
