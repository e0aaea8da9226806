package products

import "time"

type Unit string

const (
	UnitUnit    Unit = "unit"
	UnitKg      Unit = "kg"
	UnitG       Unit = "g"
	UnitLiter   Unit = "liter"
	UnitMl      Unit = "ml"
	UnitBill    Unit = "bill"
	UnitSession Unit = "session"
	UnitMinute  Unit = "minute"
	UnitHour    Unit = "hour"
)

var units = map[Unit]struct{}{
	UnitUnit: {}, UnitKg: {}, UnitG: {}, UnitLiter: {}, UnitMl: {},
	UnitBill: {}, UnitSession: {}, UnitMinute: {}, UnitHour: {},
}

// ParseUnit: an empty string means "unit".
func ParseUnit(s string) (Unit, bool) {
	if s == "" {
		return UnitUnit, true
	}
	u := Unit(s)
	_, ok := units[u]
	return u, ok
}

type Product struct {
	ID         int64     `json:"id"`
	Reference  *string   `json:"reference,omitempty"`
	Name       string    `json:"name"`
	CategoryID *int64    `json:"category_id,omitempty"`
	Category   string    `json:"category,omitempty"` // category name, for display
	BrandID    *int64    `json:"brand_id,omitempty"`
	Brand      string    `json:"brand,omitempty"`
	Unit       Unit      `json:"unit"`
	CreatedAt  time.Time `json:"created_at"`
}

type NewProduct struct {
	Reference  *string
	Name       string
	CategoryID *int64
	BrandID    *int64
	Unit       string
}
