// Package status derives display statuses from dates. Every function is
// pure and takes the reference time explicitly.
package status

import (
	"fmt"
	"time"
)

// Tier is the urgency class of a derived status
type Tier string

const (
	TierOK           Tier = "ok"
	TierScheduled    Tier = "scheduled"
	TierOnTrack      Tier = "on-track"
	TierWarning      Tier = "warning"
	TierDueSoon      Tier = "due-soon"
	TierOverdue      Tier = "overdue"
	TierExpired      Tier = "expired"
	TierUnknown      Tier = "unknown"
	TierUnscheduled  Tier = "unscheduled"
	TierUndetermined Tier = "undetermined"
)

// Color is a fixed color class used by clients to render a badge
type Color string

const (
	ColorGreen       Color = "green"
	ColorAmber       Color = "amber"
	ColorRed         Color = "red"
	ColorNeutralGray Color = "neutral-gray"
	ColorGray        Color = "gray"
	ColorBlue        Color = "blue"
	ColorPurple      Color = "purple"
	ColorOrange      Color = "orange"
	ColorTeal        Color = "teal"
)

// Thresholds in days
const (
	WarrantyWarningDays     = 30
	MaintenanceDueSoonDays  = 7
	DeliveryDueSoonDays     = 3
	MaintenanceUpcomingDays = 14
)

// Derived is the result of a status derivation
type Derived struct {
	Label    string
	Tier     Tier
	Color    Color
	DaysLeft *int
}

// TierColor maps a tier to its color class
func TierColor(t Tier) Color {
	switch t {
	case TierOK, TierScheduled, TierOnTrack:
		return ColorGreen
	case TierWarning, TierDueSoon:
		return ColorAmber
	case TierOverdue, TierExpired:
		return ColorRed
	default:
		return ColorNeutralGray
	}
}

func derived(label string, tier Tier, days *int) Derived {
	return Derived{Label: label, Tier: tier, Color: TierColor(tier), DaysLeft: days}
}

// DaysUntil returns whole days from now to target, truncated toward zero
func DaysUntil(target, now time.Time) int {
	return int(target.Sub(now) / (24 * time.Hour))
}

// AddMonths adds calendar months, clamping the day to the end of the
// resulting month (Jan 31 + 1 month = Feb 28/29).
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func daysLabel(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// Warranty derives the warranty status from the installation date and the
// warranty period in months.
func Warranty(installed *time.Time, months *int, now time.Time) Derived {
	if installed == nil || months == nil {
		return derived("unknown", TierUnknown, nil)
	}
	end := AddMonths(*installed, *months)
	days := DaysUntil(end, now)
	switch {
	case days < 0:
		return derived("expired "+daysLabel(-days)+" ago", TierExpired, &days)
	case days <= WarrantyWarningDays:
		return derived(daysLabel(days)+" left", TierWarning, &days)
	default:
		return derived(daysLabel(days)+" left", TierOK, &days)
	}
}

// Maintenance derives the due status of the next scheduled maintenance
func Maintenance(next *time.Time, now time.Time) Derived {
	if next == nil {
		return derived("not scheduled", TierUnscheduled, nil)
	}
	days := DaysUntil(*next, now)
	switch {
	case days < 0:
		return derived("overdue by "+daysLabel(-days), TierOverdue, &days)
	case days <= MaintenanceDueSoonDays:
		return derived("due in "+daysLabel(days), TierDueSoon, &days)
	default:
		return derived("in "+daysLabel(days), TierScheduled, &days)
	}
}

// Delivery derives the delivery status of a purchase. An actual delivery
// date always wins over the expected one.
func Delivery(expected, actual *time.Time, now time.Time) Derived {
	if actual != nil {
		return derived("delivered", TierOK, nil)
	}
	if expected == nil {
		return derived("undetermined", TierUndetermined, nil)
	}
	days := DaysUntil(*expected, now)
	switch {
	case days < 0:
		return derived("overdue by "+daysLabel(-days), TierOverdue, &days)
	case days <= DeliveryDueSoonDays:
		return derived("due in "+daysLabel(days), TierDueSoon, &days)
	default:
		return derived("in "+daysLabel(days), TierOnTrack, &days)
	}
}

// WorkHoursPercent returns current/max as a percentage capped at 100.
// Missing values or a zero maximum yield 0.
func WorkHoursPercent(current, max *int) float64 {
	if current == nil || max == nil || *max <= 0 || *current <= 0 {
		return 0
	}
	p := float64(*current) / float64(*max) * 100
	if p > 100 {
		return 100
	}
	return p
}
