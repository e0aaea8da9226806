package purchases

import (
	"context"
)

// ReferenceStore confirms foreign-key targets before anything is written.
type ReferenceStore interface {
	UserExists(ctx context.Context, id int64) (bool, error)
	ShopExists(ctx context.Context, id int64) (bool, error)
	ProductExists(ctx context.Context, id int64) (bool, error)
}

// Gateway is the persistence side of the purchase aggregate.
type Gateway interface {
	Begin(ctx context.Context) (Tx, error)

	// GetPurchase returns nil, nil when the purchase does not exist.
	GetPurchase(ctx context.Context, id int64) (*Purchase, error)
	ListPurchases(ctx context.Context) ([]Purchase, error)
}

// Tx groups the writes of one operation. Rollback after Commit is a no-op.
type Tx interface {
	// LockPurchase locks the header row until the tx ends and returns it
	// without items. Returns nil, nil if absent.
	LockPurchase(ctx context.Context, id int64) (*Purchase, error)

	// InsertPurchase assigns p.ID, p.CreatedAt and p.UpdatedAt.
	InsertPurchase(ctx context.Context, p *Purchase) error
	// UpdatePurchase rewrites the header fields and sets p.CreatedAt/p.UpdatedAt.
	UpdatePurchase(ctx context.Context, p *Purchase) error
	// InsertPurchaseItem assigns it.ID.
	InsertPurchaseItem(ctx context.Context, it *Item) error
	DeletePurchaseItems(ctx context.Context, purchaseID int64) (int64, error)
	DeletePurchase(ctx context.Context, id int64) (bool, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Notifier is told about committed purchases. Errors are logged, not returned to callers.
type Notifier interface {
	PurchaseSaved(ctx context.Context, p Purchase, created bool) error
}
