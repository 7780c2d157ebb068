package status

import "github.com/foxerka/enterprise-assets/internal/domain"

var statusColors = map[domain.StatusCode]Color{
	domain.StatusInOperation:      ColorGreen,
	domain.StatusUnderMaintenance: ColorAmber,
	domain.StatusFaulty:           ColorRed,
	domain.StatusDecommissioned:   ColorGray,
	domain.StatusInRepair:         ColorOrange,
	domain.StatusReserve:          ColorBlue,
}

var purchaseStatusColors = map[domain.PurchaseStatusCode]Color{
	domain.PurchaseDraft:           ColorGray,
	domain.PurchasePendingApproval: ColorAmber,
	domain.PurchaseApproved:        ColorBlue,
	domain.PurchaseOrdered:         ColorPurple,
	domain.PurchaseDelivered:       ColorGreen,
	domain.PurchaseCancelled:       ColorRed,
}

var assetTypeColors = map[domain.AssetTypeCode]Color{
	domain.AssetTypeEquipment:     ColorBlue,
	domain.AssetTypeMaterial:      ColorGreen,
	domain.AssetTypeComponent:     ColorPurple,
	domain.AssetTypeTool:          ColorOrange,
	domain.AssetTypeRawMaterial:   ColorTeal,
	domain.AssetTypeFinishedGoods: ColorAmber,
}

// StatusColor returns the color class of an equipment or asset status
func StatusColor(code domain.StatusCode) Color {
	if c, ok := statusColors[code]; ok {
		return c
	}
	return ColorNeutralGray
}

// PurchaseStatusColor returns the color class of a purchase status
func PurchaseStatusColor(code domain.PurchaseStatusCode) Color {
	if c, ok := purchaseStatusColors[code]; ok {
		return c
	}
	return ColorNeutralGray
}

// AssetTypeColor returns the color class of an asset type
func AssetTypeColor(code domain.AssetTypeCode) Color {
	if c, ok := assetTypeColors[code]; ok {
		return c
	}
	return ColorNeutralGray
}
