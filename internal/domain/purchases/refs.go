package purchases

import "context"

// ExistsFunc looks a row up by primary key.
type ExistsFunc func(ctx context.Context, id int64) (bool, error)

// References adapts per-table lookups into a ReferenceStore.
type References struct {
	User    ExistsFunc
	Shop    ExistsFunc
	Product ExistsFunc
}

func (r References) UserExists(ctx context.Context, id int64) (bool, error) {
	return r.User(ctx, id)
}

func (r References) ShopExists(ctx context.Context, id int64) (bool, error) {
	return r.Shop(ctx, id)
}

func (r References) ProductExists(ctx context.Context, id int64) (bool, error) {
	return r.Product(ctx, id)
}
