package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAssetDTO_StatusVisibility(t *testing.T) {
	a := &domain.Asset{
		ID:          1,
		Name:        "Press",
		Type:        &domain.AssetType{Name: "Оборудование", Code: domain.AssetTypeEquipment},
		Status:      &domain.AssetStatus{Name: "Неисправно", Code: domain.StatusFaulty},
		Quantity:    decimal.NewFromInt(1),
		MinQuantity: decimal.NewNullDecimal(decimal.NewFromInt(2)),
		CreatedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	dto := ToAssetDTO(a)
	assert.True(t, dto.ShowStatus)
	assert.Equal(t, "red", dto.StatusColor)
	assert.Equal(t, "blue", dto.TypeColor)
	assert.True(t, dto.IsLowStock)
	assert.Equal(t, "2024-01-02T03:04:05Z", dto.CreatedAt)

	a.Type = &domain.AssetType{Name: "Материалы", Code: domain.AssetTypeMaterial}
	a.StatusID = &a.Status.ID
	material := ToAssetDTO(a)
	assert.False(t, material.ShowStatus)
	assert.Nil(t, material.StatusID)
	assert.Empty(t, material.StatusName)
	assert.Empty(t, material.StatusColor)
}

func TestToEquipmentDTO_DerivesStatuses(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	next := now.AddDate(0, 0, -5)
	current, max := 2500, 5000

	dto := ToEquipmentDTO(&domain.Equipment{
		ID:                  7,
		NextMaintenanceDate: &next,
		CurrentWorkHours:    &current,
		MaxWorkHours:        &max,
		AssignedMaster:      &domain.Master{User: &domain.User{FullName: "Ivan Petrov"}},
	}, now)

	assert.Equal(t, "overdue", dto.Maintenance.Tier)
	assert.Equal(t, "red", dto.Maintenance.Color)
	assert.Equal(t, "overdue by 5 days", dto.Maintenance.Label)
	assert.Equal(t, "unknown", dto.Warranty.Tier)
	assert.Equal(t, 50.0, dto.WorkHoursPercent)
	assert.Equal(t, "Ivan Petrov", dto.AssignedMasterName)
}

func TestToMasterOptions(t *testing.T) {
	opts := ToMasterOptions([]domain.Master{
		{ID: 3, User: &domain.User{FullName: "Anna"}},
		{ID: 4},
	}, "Not assigned")

	require.Len(t, opts, 3)
	body, err := json.Marshal(opts)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":null,"label":"Not assigned"},{"id":3,"label":"Anna"},{"id":4,"label":"#4"}]`, string(body))
}

func TestToLookupDTO(t *testing.T) {
	dto, ok := ToLookupDTO(&domain.PurchaseStatus{ID: 2, Name: "Доставлено", Code: domain.PurchaseDelivered})
	require.True(t, ok)
	assert.Equal(t, domain.LookupDTO{ID: 2, Name: "Доставлено", Code: "delivered", Color: "green"}, dto)

	_, ok = ToLookupDTO(&domain.Role{})
	assert.False(t, ok)
}
