package mapper

import (
	"strconv"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/status"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ToLookupDTO converts any lookup model. Coded lookups also carry their
// code and badge color.
func ToLookupDTO(v interface{}) (domain.LookupDTO, bool) {
	switch l := v.(type) {
	case *domain.AssetType:
		return domain.LookupDTO{ID: l.ID, Name: l.Name, Code: string(l.Code), Color: string(status.AssetTypeColor(l.Code))}, true
	case *domain.AssetStatus:
		return domain.LookupDTO{ID: l.ID, Name: l.Name, Code: string(l.Code), Color: string(status.StatusColor(l.Code))}, true
	case *domain.PurchaseStatus:
		return domain.LookupDTO{ID: l.ID, Name: l.Name, Code: string(l.Code), Color: string(status.PurchaseStatusColor(l.Code))}, true
	case *domain.Category:
		return domain.LookupDTO{ID: l.ID, Name: l.Name}, true
	case *domain.Unit:
		return domain.LookupDTO{ID: l.ID, Name: l.Name}, true
	case *domain.Specialty:
		return domain.LookupDTO{ID: l.ID, Name: l.Name}, true
	case *domain.Qualification:
		return domain.LookupDTO{ID: l.ID, Name: l.Name}, true
	}
	return domain.LookupDTO{}, false
}
