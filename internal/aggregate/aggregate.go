// Package aggregate computes list statistics over already filtered entities.
package aggregate

import (
	"fmt"
	"time"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/status"
	"github.com/shopspring/decimal"
)

type AssetStats struct {
	Total          int
	EquipmentCount int
	LowStock       int
}

// Assets counts assets, equipment-typed assets and assets below their
// minimum quantity. Types must be preloaded for the equipment count.
func Assets(items []domain.Asset) AssetStats {
	s := AssetStats{Total: len(items)}
	for i := range items {
		a := &items[i]
		if a.Type != nil && a.Type.Code == domain.AssetTypeEquipment {
			s.EquipmentCount++
		}
		if a.IsLowStock() {
			s.LowStock++
		}
	}
	return s
}

type EquipmentStats struct {
	Total          int
	Active         int
	MaintenanceDue int
	Broken         int
}

// Equipment counts units in operation, faulty units and units whose next
// maintenance falls within the coming two weeks.
func Equipment(items []domain.Equipment, now time.Time) EquipmentStats {
	s := EquipmentStats{Total: len(items)}
	for i := range items {
		e := &items[i]
		switch e.StatusCode() {
		case domain.StatusInOperation:
			s.Active++
		case domain.StatusFaulty:
			s.Broken++
		}
		if e.NextMaintenanceDate != nil {
			days := status.DaysUntil(*e.NextMaintenanceDate, now)
			if days >= 0 && days <= status.MaintenanceUpcomingDays {
				s.MaintenanceDue++
			}
		}
	}
	return s
}

type PurchaseStats struct {
	Total       int
	TotalAmount decimal.Decimal
	Pending     int
}

// Purchases sums total cost (missing totals count as zero) and counts
// purchases still in draft or awaiting approval.
func Purchases(items []domain.Purchase) PurchaseStats {
	s := PurchaseStats{Total: len(items), TotalAmount: decimal.Zero}
	for i := range items {
		p := &items[i]
		if p.TotalCost.Valid {
			s.TotalAmount = s.TotalAmount.Add(p.TotalCost.Decimal)
		}
		switch p.StatusCode() {
		case domain.PurchaseDraft, domain.PurchasePendingApproval:
			s.Pending++
		}
	}
	return s
}

type WorkshopStats struct {
	Total       int
	WithManager int
}

func Workshops(items []domain.Workshop) WorkshopStats {
	s := WorkshopStats{Total: len(items)}
	for i := range items {
		if items[i].ManagerID != nil {
			s.WithManager++
		}
	}
	return s
}

type SupplierStats struct {
	Total  int
	Active int
}

func Suppliers(items []domain.Supplier) SupplierStats {
	s := SupplierStats{Total: len(items)}
	for i := range items {
		if items[i].IsActive {
			s.Active++
		}
	}
	return s
}

type MasterStats struct {
	Total     int
	Available int
}

func Masters(items []domain.Master) MasterStats {
	s := MasterStats{Total: len(items)}
	for i := range items {
		if items[i].IsAvailable {
			s.Available++
		}
	}
	return s
}

func intPtr(v int) *int { return &v }

// Aggregate dispatches on kind. entities must be the matching slice type
// ([]domain.Asset for assets and so on); other kinds only report a total.
func Aggregate(kind domain.EntityKind, entities interface{}, now time.Time) (domain.StatsSummaryDTO, error) {
	out := domain.StatsSummaryDTO{Kind: kind}

	switch kind {
	case domain.KindAsset:
		items, ok := entities.([]domain.Asset)
		if !ok {
			return out, mismatch(kind, entities)
		}
		s := Assets(items)
		out.Total = s.Total
		out.EquipmentCount = intPtr(s.EquipmentCount)
		out.LowStock = intPtr(s.LowStock)
	case domain.KindEquipment:
		items, ok := entities.([]domain.Equipment)
		if !ok {
			return out, mismatch(kind, entities)
		}
		s := Equipment(items, now)
		out.Total = s.Total
		out.Active = intPtr(s.Active)
		out.MaintenanceDue = intPtr(s.MaintenanceDue)
		out.Broken = intPtr(s.Broken)
	case domain.KindPurchase:
		items, ok := entities.([]domain.Purchase)
		if !ok {
			return out, mismatch(kind, entities)
		}
		s := Purchases(items)
		out.Total = s.Total
		amount := s.TotalAmount
		out.TotalAmount = &amount
		out.Pending = intPtr(s.Pending)
	case domain.KindWorkshop:
		items, ok := entities.([]domain.Workshop)
		if !ok {
			return out, mismatch(kind, entities)
		}
		s := Workshops(items)
		out.Total = s.Total
		out.WithManager = intPtr(s.WithManager)
	case domain.KindSupplier:
		items, ok := entities.([]domain.Supplier)
		if !ok {
			return out, mismatch(kind, entities)
		}
		s := Suppliers(items)
		out.Total = s.Total
		out.Active = intPtr(s.Active)
	case domain.KindMaster:
		items, ok := entities.([]domain.Master)
		if !ok {
			return out, mismatch(kind, entities)
		}
		s := Masters(items)
		out.Total = s.Total
		out.AvailableMasters = intPtr(s.Available)
	default:
		n, err := sliceLen(entities)
		if err != nil {
			return out, fmt.Errorf("aggregate %s: %w", kind, err)
		}
		out.Total = n
	}
	return out, nil
}

func mismatch(kind domain.EntityKind, entities interface{}) error {
	return fmt.Errorf("aggregate %s: unexpected entities type %T", kind, entities)
}

func sliceLen(entities interface{}) (int, error) {
	switch v := entities.(type) {
	case []domain.MaintenanceRecord:
		return len(v), nil
	case []domain.User:
		return len(v), nil
	case []domain.Role:
		return len(v), nil
	case []domain.WorkAct:
		return len(v), nil
	case []domain.LookupDTO:
		return len(v), nil
	}
	return 0, fmt.Errorf("unexpected entities type %T", entities)
}
