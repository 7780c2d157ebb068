package status

import (
	"testing"
	"time"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestWarranty(t *testing.T) {
	installed := date(2024, 1, 1)

	tests := []struct {
		name     string
		months   *int
		now      time.Time
		tier     Tier
		color    Color
		daysLeft *int
	}{
		{"seventeen days left is a warning", intPtr(12), date(2024, 12, 15), TierWarning, ColorAmber, intPtr(17)},
		{"exactly thirty days is a warning", intPtr(12), date(2024, 12, 2), TierWarning, ColorAmber, intPtr(30)},
		{"thirty one days is ok", intPtr(12), date(2024, 12, 1), TierOK, ColorGreen, intPtr(31)},
		{"expiry day is still a warning", intPtr(12), date(2025, 1, 1), TierWarning, ColorAmber, intPtr(0)},
		{"after expiry", intPtr(12), date(2025, 1, 3), TierExpired, ColorRed, intPtr(-2)},
		{"no period", nil, date(2024, 6, 1), TierUnknown, ColorNeutralGray, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Warranty(&installed, tt.months, tt.now)
			assert.Equal(t, tt.tier, d.Tier)
			assert.Equal(t, tt.color, d.Color)
			assert.Equal(t, tt.daysLeft, d.DaysLeft)
		})
	}
}

func TestWarranty_MissingInstallationDate(t *testing.T) {
	d := Warranty(nil, intPtr(24), date(2024, 1, 1))
	assert.Equal(t, TierUnknown, d.Tier)
	assert.Equal(t, ColorNeutralGray, d.Color)
	assert.Nil(t, d.DaysLeft)
}

func TestWarranty_Label(t *testing.T) {
	d := Warranty(timePtr(date(2024, 1, 1)), intPtr(12), date(2024, 12, 15))
	assert.Equal(t, "17 days left", d.Label)
}

func TestMaintenance(t *testing.T) {
	now := date(2024, 5, 10)

	overdue := Maintenance(timePtr(now.AddDate(0, 0, -5)), now)
	assert.Equal(t, TierOverdue, overdue.Tier)
	assert.Equal(t, ColorRed, overdue.Color)
	assert.Equal(t, "overdue by 5 days", overdue.Label)
	require.NotNil(t, overdue.DaysLeft)
	assert.Equal(t, -5, *overdue.DaysLeft)

	today := Maintenance(timePtr(now), now)
	assert.Equal(t, TierDueSoon, today.Tier)

	week := Maintenance(timePtr(now.AddDate(0, 0, 7)), now)
	assert.Equal(t, TierDueSoon, week.Tier)
	assert.Equal(t, ColorAmber, week.Color)

	later := Maintenance(timePtr(now.AddDate(0, 0, 8)), now)
	assert.Equal(t, TierScheduled, later.Tier)
	assert.Equal(t, ColorGreen, later.Color)

	none := Maintenance(nil, now)
	assert.Equal(t, TierUnscheduled, none.Tier)
	assert.Equal(t, ColorNeutralGray, none.Color)
}

func TestMaintenance_PartialDayTruncates(t *testing.T) {
	now := date(2024, 5, 10)
	// 7 days and 20 hours truncates to 7
	d := Maintenance(timePtr(now.Add(7*24*time.Hour+20*time.Hour)), now)
	assert.Equal(t, TierDueSoon, d.Tier)
	assert.Equal(t, 7, *d.DaysLeft)
}

func TestDelivery(t *testing.T) {
	now := date(2024, 3, 1)

	delivered := Delivery(timePtr(now.AddDate(0, 0, -10)), timePtr(now.AddDate(0, 0, -1)), now)
	assert.Equal(t, "delivered", delivered.Label)
	assert.Equal(t, TierOK, delivered.Tier)
	assert.Equal(t, ColorGreen, delivered.Color)

	overdue := Delivery(timePtr(now.AddDate(0, 0, -2)), nil, now)
	assert.Equal(t, TierOverdue, overdue.Tier)

	soon := Delivery(timePtr(now.AddDate(0, 0, 3)), nil, now)
	assert.Equal(t, TierDueSoon, soon.Tier)

	onTrack := Delivery(timePtr(now.AddDate(0, 0, 4)), nil, now)
	assert.Equal(t, TierOnTrack, onTrack.Tier)
	assert.Equal(t, ColorGreen, onTrack.Color)

	unknown := Delivery(nil, nil, now)
	assert.Equal(t, TierUndetermined, unknown.Tier)
	assert.Equal(t, ColorNeutralGray, unknown.Color)
}

func TestAddMonths_ClampsToMonthEnd(t *testing.T) {
	assert.Equal(t, date(2024, 2, 29), AddMonths(date(2024, 1, 31), 1))
	assert.Equal(t, date(2023, 2, 28), AddMonths(date(2023, 1, 31), 1))
	assert.Equal(t, date(2025, 1, 15), AddMonths(date(2024, 1, 15), 12))
	assert.Equal(t, date(2024, 4, 30), AddMonths(date(2024, 3, 31), 1))
}

func TestWorkHoursPercent(t *testing.T) {
	assert.Equal(t, 50.0, WorkHoursPercent(intPtr(500), intPtr(1000)))
	assert.Equal(t, 100.0, WorkHoursPercent(intPtr(1500), intPtr(1000)))
	assert.Equal(t, 0.0, WorkHoursPercent(nil, intPtr(1000)))
	assert.Equal(t, 0.0, WorkHoursPercent(intPtr(10), intPtr(0)))
}

func TestSortByMaintenancePriority(t *testing.T) {
	now := date(2024, 5, 10)
	faulty := &domain.AssetStatus{Code: domain.StatusFaulty}
	working := &domain.AssetStatus{Code: domain.StatusInOperation}

	items := []domain.Equipment{
		{ID: 5, Status: working, NextMaintenanceDate: timePtr(now.AddDate(0, 1, 0))},
		{ID: 4, Status: working, NextMaintenanceDate: timePtr(now.AddDate(0, 0, 3))},
		{ID: 3, Status: working, NextMaintenanceDate: timePtr(now.AddDate(0, 0, -1))},
		{ID: 2, Status: faulty, NextMaintenanceDate: timePtr(now.AddDate(0, 2, 0))},
		{ID: 1, Status: working},
		{ID: 6, Status: working, NextMaintenanceDate: timePtr(now.AddDate(0, 0, -9))},
	}

	SortByMaintenancePriority(items, now)

	ids := make([]int64, len(items))
	for i, e := range items {
		ids[i] = e.ID
	}
	assert.Equal(t, []int64{2, 3, 6, 4, 1, 5}, ids)
}

func TestPalettes(t *testing.T) {
	assert.Equal(t, ColorRed, StatusColor(domain.StatusFaulty))
	assert.Equal(t, ColorGreen, StatusColor(domain.StatusInOperation))
	assert.Equal(t, ColorNeutralGray, StatusColor(""))
	assert.Equal(t, ColorPurple, PurchaseStatusColor(domain.PurchaseOrdered))
	assert.Equal(t, ColorBlue, AssetTypeColor(domain.AssetTypeEquipment))
}

func TestDeriveStatus(t *testing.T) {
	now := date(2024, 12, 15)
	e := &domain.Equipment{
		InstallationDate:     timePtr(date(2024, 1, 1)),
		WarrantyPeriodMonths: intPtr(12),
	}

	got, err := DeriveStatus(domain.KindEquipment, e, now)
	require.NoError(t, err)
	assert.Equal(t, TierWarning, got["warranty"].Tier)
	assert.Equal(t, TierUnscheduled, got["maintenance"].Tier)

	_, err = DeriveStatus(domain.KindSupplier, &domain.Supplier{}, now)
	assert.ErrorIs(t, err, ErrNoDerivedStatus)

	_, err = DeriveStatus(domain.KindPurchase, e, now)
	assert.Error(t, err)
}

func TestDeriveStatus_NilEntity(t *testing.T) {
	now := date(2024, 12, 15)

	got, err := DeriveStatus(domain.KindEquipment, (*domain.Equipment)(nil), now)
	require.NoError(t, err)
	assert.Equal(t, TierUnknown, got["warranty"].Tier)
	assert.Equal(t, TierUnscheduled, got["maintenance"].Tier)

	got, err = DeriveStatus(domain.KindPurchase, (*domain.Purchase)(nil), now)
	require.NoError(t, err)
	assert.Equal(t, TierUndetermined, got["delivery"].Tier)

	got, err = DeriveStatus(domain.KindMaintenance, (*domain.MaintenanceRecord)(nil), now)
	require.NoError(t, err)
	assert.Equal(t, TierUnscheduled, got["nextMaintenance"].Tier)

	assert.Equal(t, PriorityNormal, MaintenancePriority(nil, now))
}

func TestDeriveStatus_IsPure(t *testing.T) {
	now := date(2024, 12, 15)
	cases := []struct {
		kind   domain.EntityKind
		entity interface{}
	}{
		{domain.KindEquipment, &domain.Equipment{
			InstallationDate:     timePtr(date(2024, 1, 1)),
			WarrantyPeriodMonths: intPtr(12),
			NextMaintenanceDate:  timePtr(date(2024, 12, 10)),
		}},
		{domain.KindPurchase, &domain.Purchase{ExpectedDelivery: timePtr(date(2024, 12, 17))}},
		{domain.KindMaintenance, &domain.MaintenanceRecord{NextMaintenanceDate: timePtr(date(2025, 2, 1))}},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			first, err := DeriveStatus(tc.kind, tc.entity, now)
			require.NoError(t, err)
			second, err := DeriveStatus(tc.kind, tc.entity, now)
			require.NoError(t, err)

			assert.Equal(t, first, second)
			for name, d := range first {
				require.NotNil(t, d.DaysLeft, name)
				require.NotNil(t, second[name].DaysLeft, name)
				assert.Equal(t, *d.DaysLeft, *second[name].DaysLeft, name)
			}
		})
	}
}
