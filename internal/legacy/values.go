package legacy

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Int64 returns an integer column; absent or NULL values report ok=false
func (r Row) Int64(col string) (int64, bool) {
	switch v := r[col].(type) {
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case []byte:
		n, err := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	}
	return 0, false
}

// Int64Ptr returns nil for NULL
func (r Row) Int64Ptr(col string) *int64 {
	if n, ok := r.Int64(col); ok {
		return &n
	}
	return nil
}

// IntPtr returns nil for NULL
func (r Row) IntPtr(col string) *int {
	if n, ok := r.Int64(col); ok {
		v := int(n)
		return &v
	}
	return nil
}

// String returns the trimmed text of a column, empty for NULL
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Bool treats NULL as def
func (r Row) Bool(col string, def bool) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case []byte:
		b, err := strconv.ParseBool(string(v))
		if err != nil {
			return def
		}
		return b
	}
	return def
}

// Time returns nil for NULL
func (r Row) Time(col string) *time.Time {
	if v, ok := r[col].(time.Time); ok {
		t := v.UTC()
		return &t
	}
	return nil
}

// Decimal reads numeric columns, which the driver returns as text
func (r Row) Decimal(col string) decimal.NullDecimal {
	switch v := r[col].(type) {
	case []byte:
		d, err := decimal.NewFromString(strings.TrimSpace(string(v)))
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(d)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(d)
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(v))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(v))
	}
	return decimal.NullDecimal{}
}
