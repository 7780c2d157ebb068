package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleEquipment(now time.Time) []domain.Equipment {
	in := func(days int) *time.Time {
		d := now.AddDate(0, 0, days)
		return &d
	}
	faulty := &domain.AssetStatus{Name: "Неисправно", Code: domain.StatusFaulty}
	working := &domain.AssetStatus{Name: "В работе", Code: domain.StatusInOperation}

	return []domain.Equipment{
		{ID: 1, Asset: &domain.Asset{Name: "Lathe"}, Status: working, NextMaintenanceDate: in(30)},
		{ID: 2, Asset: &domain.Asset{Name: "Press"}, Status: working, NextMaintenanceDate: in(-5)},
		{ID: 3, Asset: &domain.Asset{Name: "Mill"}, Status: faulty, NextMaintenanceDate: in(60)},
	}
}

func TestMaintenance_OrdersByPriority(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	var buf bytes.Buffer

	require.NoError(t, Maintenance(&buf, sampleEquipment(now), now))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Maintenance")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Priority", rows[0][0])
	assert.Equal(t, []string{"3", "2", "1"}, []string{rows[1][1], rows[2][1], rows[3][1]})
	assert.Equal(t, "overdue by 5 days", rows[2][9])
}

func TestEquipment_WritesDerivedLabels(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	installed := now.AddDate(0, -11, 0)
	months := 12
	items := sampleEquipment(now)
	items[0].InstallationDate = &installed
	items[0].WarrantyPeriodMonths = &months

	var buf bytes.Buffer
	require.NoError(t, Equipment(&buf, items, now))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Equipment")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Lathe", rows[1][1])
	assert.Equal(t, "2023-07-01", rows[1][7])
	assert.Equal(t, "30 days left", rows[1][8])
}
