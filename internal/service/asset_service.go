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

var assetPreloads = []string{"Type", "Category", "Workshop", "Supplier", "Status", "Unit"}

// AssetService handles business logic for assets
type AssetService struct {
	crud *crud[domain.Asset]
	now  func() time.Time
}

// NewAssetService creates a new asset service instance
func NewAssetService(deps Deps) *AssetService {
	return &AssetService{
		crud: newCrud(deps, domain.KindAsset, func(a *domain.Asset) int64 { return a.ID }, assetPreloads...),
		now:  time.Now,
	}
}

func applyAssetRequest(a *domain.Asset, req *domain.AssetRequest) {
	a.Name = strings.TrimSpace(req.Name)
	a.SerialNumber = strings.TrimSpace(req.SerialNumber)
	a.Description = req.Description
	a.TypeID = req.TypeID.Ptr()
	a.CategoryID = req.CategoryID.Ptr()
	a.WorkshopID = req.WorkshopID.Ptr()
	a.SupplierID = req.SupplierID.Ptr()
	a.StatusID = req.StatusID.Ptr()
	a.UnitID = req.UnitID.Ptr()
	a.Quantity = req.Quantity
	a.MinQuantity = req.MinQuantity
	a.PurchaseCost = req.PurchaseCost
	a.CurrentValue = req.CurrentValue
	a.PurchaseDate = req.PurchaseDate
	a.WarehouseLocation = strings.TrimSpace(req.WarehouseLocation)
}

// Create creates a new asset. The status is dropped unless the asset type
// is equipment.
func (s *AssetService) Create(ctx context.Context, req *domain.AssetRequest) (*domain.AssetDTO, error) {
	asset := &domain.Asset{}
	applyAssetRequest(asset, req)

	created, err := s.crud.create(ctx, asset, nil, nil)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToAssetDTO(created)
	return &dto, nil
}

// GetByID retrieves an asset by ID
func (s *AssetService) GetByID(ctx context.Context, id int64) (*domain.AssetDTO, error) {
	asset, err := s.crud.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToAssetDTO(asset)
	return &dto, nil
}

// Get returns the asset model, used for status derivation
func (s *AssetService) Get(ctx context.Context, id int64) (*domain.Asset, error) {
	return s.crud.get(ctx, id)
}

// Update replaces every editable field of an asset
func (s *AssetService) Update(ctx context.Context, id int64, req *domain.AssetRequest) (*domain.AssetDTO, error) {
	updated, err := s.crud.update(ctx, id, func(_ *gorm.DB, a *domain.Asset) (interface{}, error) {
		applyAssetRequest(a, req)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	dto := mapper.ToAssetDTO(updated)
	return &dto, nil
}

// Delete deletes an asset unless work acts, materials, equipment or
// purchases reference it
func (s *AssetService) Delete(ctx context.Context, id int64) error {
	return s.crud.delete(ctx, id)
}

// List returns a page of assets
func (s *AssetService) List(ctx context.Context, filters repository.AssetFilters, sort repository.SortConfig, page, pageSize int) (Page[domain.AssetDTO], error) {
	items, total, err := s.crud.list(ctx, filters.Query(sort), page, pageSize)
	if err != nil {
		return Page[domain.AssetDTO]{}, err
	}
	return mapPage(items, total, page, pageSize, mapper.ToAssetDTO), nil
}

// Stats aggregates every asset matching the filters
func (s *AssetService) Stats(ctx context.Context, filters repository.AssetFilters) (domain.StatsSummaryDTO, error) {
	items, err := s.crud.find(ctx, repository.Query{Scopes: filters.Scopes(), Preloads: []string{"Type"}})
	if err != nil {
		return domain.StatsSummaryDTO{}, err
	}
	return aggregate.Aggregate(domain.KindAsset, items, s.now())
}
