package purchases

import (
	"time"

	"github.com/shopspring/decimal"
)

type Purchase struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	ShopID      int64           `json:"shop_id"`
	Date        time.Time       `json:"date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Items       []Item          `json:"items"`
}

// Item is owned by its purchase; ProductID is a plain reference.
type Item struct {
	ID         int64           `json:"id"`
	PurchaseID int64           `json:"purchase_id"`
	ProductID  int64           `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// ItemInput has no subtotal field: subtotals are always computed here.
type ItemInput struct {
	ProductID int64
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

type CreateInput struct {
	UserID int64
	ShopID int64
	Date   *time.Time // nil means today
	Items  []ItemInput
}

type UpdateInput struct {
	UserID int64
	ShopID int64
	Date   *time.Time // nil keeps the stored date
	Items  []ItemInput
}

// Op names used for metrics and logs.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpGet    = "get"
	OpList   = "list"
)
