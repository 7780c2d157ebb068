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

var purchasePreloads = []string{"Asset", "Supplier", "Manager.User", "Status"}

// PurchaseService handles business logic for purchases. The total cost is
// always recomputed from quantity and unit price.
type PurchaseService struct {
	crud    *crud[domain.Purchase]
	numbers *NumberSequenceService
	logger  *zap.Logger
	now     func() time.Time
}

// NewPurchaseService creates a new purchase service instance
func NewPurchaseService(deps Deps, numbers *NumberSequenceService) *PurchaseService {
	return &PurchaseService{
		crud:    newCrud(deps, domain.KindPurchase, func(p *domain.Purchase) int64 { return p.ID }, purchasePreloads...),
		numbers: numbers,
		logger:  deps.Logger,
		now:     time.Now,
	}
}

func applyPurchaseRequest(p *domain.Purchase, req *domain.PurchaseRequest) {
	p.AssetID = req.AssetID
	p.SupplierID = req.SupplierID
	p.ManagerID = req.ManagerID.Ptr()
	p.Quantity = req.Quantity
	p.UnitPrice = req.UnitPrice
	p.OrderDate = req.OrderDate
	p.ExpectedDelivery = req.ExpectedDelivery
	p.ActualDelivery = req.ActualDelivery
	p.StatusID = req.StatusID.Ptr()
	p.Notes = strings.TrimSpace(req.Notes)
}

// Create validates the purchase and assigns the next purchase number in the
// same transaction
func (s *PurchaseService) Create(ctx context.Context, req *domain.PurchaseRequest) (*domain.PurchaseDTO, error) {
	p := &domain.Purchase{}
	applyPurchaseRequest(p, req)

	created, err := s.crud.create(ctx, p, nil, func(tx *gorm.DB) error {
		number, err := s.numbers.NextPurchaseNumber(ctx, tx)
		if err != nil {
			return err
		}
		p.PurchaseNumber = number
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase registered",
		zap.Int64("purchase_id", created.ID),
		zap.String("purchase_number", created.PurchaseNumber),
		zap.String("total_cost", created.TotalCost.Decimal.StringFixed(2)))

	dto := mapper.ToPurchaseDTO(created, s.now())
	return &dto, nil
}

func (s *PurchaseService) GetByID(ctx context.Context, id int64) (*domain.PurchaseDTO, error) {
	p, err := s.crud.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToPurchaseDTO(p, s.now())
	return &dto, nil
}

// Get returns the purchase model, used for status derivation
func (s *PurchaseService) Get(ctx context.Context, id int64) (*domain.Purchase, error) {
	return s.crud.get(ctx, id)
}

// Update keeps the purchase number and recomputes the total
func (s *PurchaseService) Update(ctx context.Context, id int64, req *domain.PurchaseRequest) (*domain.PurchaseDTO, error) {
	updated, err := s.crud.update(ctx, id, func(_ *gorm.DB, p *domain.Purchase) (interface{}, error) {
		applyPurchaseRequest(p, req)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	dto := mapper.ToPurchaseDTO(updated, s.now())
	return &dto, nil
}

func (s *PurchaseService) Delete(ctx context.Context, id int64) error {
	return s.crud.delete(ctx, id)
}

func (s *PurchaseService) List(ctx context.Context, filters repository.PurchaseFilters, sort repository.SortConfig, page, pageSize int) (Page[domain.PurchaseDTO], error) {
	items, total, err := s.crud.list(ctx, filters.Query(sort), page, pageSize)
	if err != nil {
		return Page[domain.PurchaseDTO]{}, err
	}
	now := s.now()
	return mapPage(items, total, page, pageSize, func(p *domain.Purchase) domain.PurchaseDTO {
		return mapper.ToPurchaseDTO(p, now)
	}), nil
}

// Stats sums the totals and counts purchases awaiting approval
func (s *PurchaseService) Stats(ctx context.Context, filters repository.PurchaseFilters) (domain.StatsSummaryDTO, error) {
	items, err := s.crud.find(ctx, repository.Query{Scopes: filters.Scopes(), Preloads: []string{"Status"}})
	if err != nil {
		return domain.StatsSummaryDTO{}, err
	}
	return aggregate.Aggregate(domain.KindPurchase, items, s.now())
}
