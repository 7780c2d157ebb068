package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foxerka/enterprise-assets/internal/aggregate"
	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/mapper"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"gorm.io/gorm"
)

// lookupTable is the name-only CRUD of one reference table
type lookupTable interface {
	create(ctx context.Context, name string) (domain.LookupDTO, error)
	get(ctx context.Context, id int64) (domain.LookupDTO, error)
	update(ctx context.Context, id int64, name string) (domain.LookupDTO, error)
	delete(ctx context.Context, id int64) error
	list(ctx context.Context, q repository.Query, page, pageSize int) (Page[domain.LookupDTO], error)
	all(ctx context.Context, q repository.Query) ([]domain.LookupDTO, error)
}

type lookupOf[T any] struct {
	crud    *crud[T]
	setName func(*T, string)
	// renamed runs inside the update transaction after the new name is set
	renamed func(tx *gorm.DB, entity *T) error
}

func newLookup[T any](deps Deps, kind domain.EntityKind, id func(*T) int64, setName func(*T, string)) *lookupOf[T] {
	return &lookupOf[T]{crud: newCrud(deps, kind, id), setName: setName}
}

func toLookup[T any](v *T) domain.LookupDTO {
	dto, _ := mapper.ToLookupDTO(v)
	return dto
}

func (l *lookupOf[T]) create(ctx context.Context, name string) (domain.LookupDTO, error) {
	entity := new(T)
	l.setName(entity, strings.TrimSpace(name))
	created, err := l.crud.create(ctx, entity, nil, nil)
	if err != nil {
		return domain.LookupDTO{}, err
	}
	return toLookup(created), nil
}

func (l *lookupOf[T]) get(ctx context.Context, id int64) (domain.LookupDTO, error) {
	entity, err := l.crud.get(ctx, id)
	if err != nil {
		return domain.LookupDTO{}, err
	}
	return toLookup(entity), nil
}

func (l *lookupOf[T]) update(ctx context.Context, id int64, name string) (domain.LookupDTO, error) {
	updated, err := l.crud.update(ctx, id, func(tx *gorm.DB, entity *T) (interface{}, error) {
		l.setName(entity, strings.TrimSpace(name))
		if l.renamed != nil {
			if err := l.renamed(tx, entity); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return domain.LookupDTO{}, err
	}
	return toLookup(updated), nil
}

func (l *lookupOf[T]) delete(ctx context.Context, id int64) error {
	return l.crud.delete(ctx, id)
}

func (l *lookupOf[T]) list(ctx context.Context, q repository.Query, page, pageSize int) (Page[domain.LookupDTO], error) {
	items, total, err := l.crud.list(ctx, q, page, pageSize)
	if err != nil {
		return Page[domain.LookupDTO]{}, err
	}
	return mapPage(items, total, page, pageSize, toLookup[T]), nil
}

func (l *lookupOf[T]) all(ctx context.Context, q repository.Query) ([]domain.LookupDTO, error) {
	items, err := l.crud.find(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.LookupDTO, 0, len(items))
	for i := range items {
		out = append(out, toLookup(&items[i]))
	}
	return out, nil
}

// clearStatusUnlessEquipment drops the status of every asset of the type
// when its new name no longer resolves to equipment
func clearStatusUnlessEquipment(tx *gorm.DB, t *domain.AssetType) error {
	if domain.ResolveAssetTypeCode(t.Name) == domain.AssetTypeEquipment {
		return nil
	}
	err := tx.Model(&domain.Asset{}).
		Where("type_id = ? AND status_id IS NOT NULL", t.ID).
		Update("status_id", nil).Error
	if err != nil {
		return domain.NewStoreError("clear asset statuses", err)
	}
	return nil
}

// LookupService serves the seven name-only reference tables
type LookupService struct {
	tables map[domain.EntityKind]lookupTable
	now    func() time.Time
}

// NewLookupService creates a lookup service over every lookup kind
func NewLookupService(deps Deps) *LookupService {
	assetTypes := newLookup(deps, domain.KindAssetType,
		func(v *domain.AssetType) int64 { return v.ID },
		func(v *domain.AssetType, name string) { v.Name = name })
	assetTypes.renamed = clearStatusUnlessEquipment

	return &LookupService{now: time.Now, tables: map[domain.EntityKind]lookupTable{
		domain.KindAssetType: assetTypes,
		domain.KindCategory: newLookup(deps, domain.KindCategory,
			func(v *domain.Category) int64 { return v.ID },
			func(v *domain.Category, name string) { v.Name = name }),
		domain.KindAssetStatus: newLookup(deps, domain.KindAssetStatus,
			func(v *domain.AssetStatus) int64 { return v.ID },
			func(v *domain.AssetStatus, name string) { v.Name = name }),
		domain.KindUnit: newLookup(deps, domain.KindUnit,
			func(v *domain.Unit) int64 { return v.ID },
			func(v *domain.Unit, name string) { v.Name = name }),
		domain.KindPurchaseStatus: newLookup(deps, domain.KindPurchaseStatus,
			func(v *domain.PurchaseStatus) int64 { return v.ID },
			func(v *domain.PurchaseStatus, name string) { v.Name = name }),
		domain.KindSpecialty: newLookup(deps, domain.KindSpecialty,
			func(v *domain.Specialty) int64 { return v.ID },
			func(v *domain.Specialty, name string) { v.Name = name }),
		domain.KindQualification: newLookup(deps, domain.KindQualification,
			func(v *domain.Qualification) int64 { return v.ID },
			func(v *domain.Qualification, name string) { v.Name = name }),
	}}
}

func (s *LookupService) table(kind domain.EntityKind) (lookupTable, error) {
	t, ok := s.tables[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a lookup", ErrUnsupportedKind, kind)
	}
	return t, nil
}

func (s *LookupService) Create(ctx context.Context, kind domain.EntityKind, req *domain.LookupRequest) (*domain.LookupDTO, error) {
	t, err := s.table(kind)
	if err != nil {
		return nil, err
	}
	dto, err := t.create(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (s *LookupService) GetByID(ctx context.Context, kind domain.EntityKind, id int64) (*domain.LookupDTO, error) {
	t, err := s.table(kind)
	if err != nil {
		return nil, err
	}
	dto, err := t.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// Update renames the entry; coded lookups re-derive their code
func (s *LookupService) Update(ctx context.Context, kind domain.EntityKind, id int64, req *domain.LookupRequest) (*domain.LookupDTO, error) {
	t, err := s.table(kind)
	if err != nil {
		return nil, err
	}
	dto, err := t.update(ctx, id, req.Name)
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// Delete deletes the entry unless any entity still references it
func (s *LookupService) Delete(ctx context.Context, kind domain.EntityKind, id int64) error {
	t, err := s.table(kind)
	if err != nil {
		return err
	}
	return t.delete(ctx, id)
}

func (s *LookupService) List(ctx context.Context, kind domain.EntityKind, filters repository.NameFilters, sort repository.SortConfig, page, pageSize int) (Page[domain.LookupDTO], error) {
	t, err := s.table(kind)
	if err != nil {
		return Page[domain.LookupDTO]{}, err
	}
	return t.list(ctx, filters.Query(sort), page, pageSize)
}

// Stats reports the number of entries matching the filters
func (s *LookupService) Stats(ctx context.Context, kind domain.EntityKind, filters repository.NameFilters) (domain.StatsSummaryDTO, error) {
	t, err := s.table(kind)
	if err != nil {
		return domain.StatsSummaryDTO{}, err
	}
	items, err := t.all(ctx, repository.Query{Scopes: filters.Scopes()})
	if err != nil {
		return domain.StatsSummaryDTO{}, err
	}
	return aggregate.Aggregate(kind, items, s.now())
}
