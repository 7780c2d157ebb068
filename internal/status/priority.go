package status

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/foxerka/enterprise-assets/internal/domain"
)

// Maintenance priorities, lower is more urgent
const (
	PriorityFaulty  = 0
	PriorityOverdue = 1
	PriorityDueSoon = 2
	PriorityNormal  = 3
)

// MaintenancePriority ranks equipment for the maintenance schedule.
// A faulty unit always comes first regardless of its dates.
func MaintenancePriority(e *domain.Equipment, now time.Time) int {
	if e == nil {
		return PriorityNormal
	}
	if e.StatusCode() == domain.StatusFaulty {
		return PriorityFaulty
	}
	if e.NextMaintenanceDate == nil {
		return PriorityNormal
	}
	days := DaysUntil(*e.NextMaintenanceDate, now)
	switch {
	case days < 0:
		return PriorityOverdue
	case days <= MaintenanceDueSoonDays:
		return PriorityDueSoon
	default:
		return PriorityNormal
	}
}

// SortByMaintenancePriority orders equipment by priority, then ascending id
func SortByMaintenancePriority(items []domain.Equipment, now time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		pi := MaintenancePriority(&items[i], now)
		pj := MaintenancePriority(&items[j], now)
		if pi != pj {
			return pi < pj
		}
		return items[i].ID < items[j].ID
	})
}

// ErrNoDerivedStatus is returned for kinds that carry no date based status
var ErrNoDerivedStatus = errors.New("entity kind has no derived status")

// DeriveStatus computes every derived status of an entity, keyed by name.
// A nil entity yields the derivations for absent dates.
func DeriveStatus(kind domain.EntityKind, entity interface{}, now time.Time) (map[string]Derived, error) {
	switch kind {
	case domain.KindEquipment:
		e, ok := entity.(*domain.Equipment)
		if !ok {
			return nil, fmt.Errorf("expected *domain.Equipment, got %T", entity)
		}
		if e == nil {
			e = &domain.Equipment{}
		}
		return map[string]Derived{
			"warranty":    Warranty(e.InstallationDate, e.WarrantyPeriodMonths, now),
			"maintenance": Maintenance(e.NextMaintenanceDate, now),
		}, nil
	case domain.KindPurchase:
		p, ok := entity.(*domain.Purchase)
		if !ok {
			return nil, fmt.Errorf("expected *domain.Purchase, got %T", entity)
		}
		if p == nil {
			p = &domain.Purchase{}
		}
		return map[string]Derived{
			"delivery": Delivery(p.ExpectedDelivery, p.ActualDelivery, now),
		}, nil
	case domain.KindMaintenance:
		m, ok := entity.(*domain.MaintenanceRecord)
		if !ok {
			return nil, fmt.Errorf("expected *domain.MaintenanceRecord, got %T", entity)
		}
		if m == nil {
			m = &domain.MaintenanceRecord{}
		}
		return map[string]Derived{
			"nextMaintenance": Maintenance(m.NextMaintenanceDate, now),
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoDerivedStatus, kind)
}
