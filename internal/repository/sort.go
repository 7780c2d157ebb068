package repository

import "strings"

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// DefaultPageSize is used when the caller does not ask for a page size
const DefaultPageSize = 50

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortConfig holds sorting configuration for list queries
type SortConfig struct {
	Field string    // The field to sort by (API field name)
	Order SortOrder // asc or desc
}

// DefaultSortConfig returns a default sort configuration (id ASC)
func DefaultSortConfig() SortConfig {
	return SortConfig{
		Field: "id",
		Order: SortOrderAsc,
	}
}

// ParseSortOrder parses a string into SortOrder, defaulting to asc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "desc" {
		return SortOrderDesc
	}
	return SortOrderAsc
}

// BuildOrderClause builds the SQL ORDER BY clause from field mapping and sort config.
// fieldMap maps API field names to database column names; unknown fields fall
// back to defaultColumn. The id column is always appended as a tie-breaker so
// equal keys keep a stable order.
func BuildOrderClause(config SortConfig, fieldMap map[string]string, defaultColumn string) string {
	column, ok := fieldMap[config.Field]
	if !ok {
		column = defaultColumn
	}

	order := "ASC"
	if config.Order == SortOrderDesc {
		order = "DESC"
	}

	if column == "id" {
		return "id " + order
	}
	return column + " " + order + ", id ASC"
}

// NormalizePage clamps page and page size to sane bounds
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
