package purchases

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo is the Postgres Gateway.
type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Begin(ctx context.Context) (Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgTx{tx: tx}, nil
}

func (r *Repo) GetPurchase(ctx context.Context, id int64) (*Purchase, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, shop_id, date, total_amount, created_at, updated_at
		FROM purchases WHERE id = $1
	`, id)
	var p Purchase
	if err := scanHeader(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	items, err := r.itemsFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	p.Items = items[id]
	if p.Items == nil {
		p.Items = []Item{}
	}
	return &p, nil
}

func (r *Repo) ListPurchases(ctx context.Context) ([]Purchase, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, shop_id, date, total_amount, created_at, updated_at
		FROM purchases
		ORDER BY date DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Purchase{}
	var ids []int64
	for rows.Next() {
		var p Purchase
		if err := scanHeader(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
		if out[i].Items == nil {
			out[i].Items = []Item{}
		}
	}
	return out, nil
}

func (r *Repo) itemsFor(ctx context.Context, purchaseIDs []int64) (map[int64][]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, purchase_id, product_id, quantity, unit_price, subtotal
		FROM purchase_items
		WHERE purchase_id = ANY($1)
		ORDER BY purchase_id, id
	`, purchaseIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]Item, len(purchaseIDs))
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		out[it.PurchaseID] = append(out[it.PurchaseID], it)
	}
	return out, rows.Err()
}

func scanHeader(row pgx.Row, p *Purchase) error {
	return row.Scan(&p.ID, &p.UserID, &p.ShopID, &p.Date, &p.TotalAmount, &p.CreatedAt, &p.UpdatedAt)
}

type pgTx struct{ tx pgx.Tx }

func (t *pgTx) LockPurchase(ctx context.Context, id int64) (*Purchase, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT id, user_id, shop_id, date, total_amount, created_at, updated_at
		FROM purchases WHERE id = $1
		FOR UPDATE
	`, id)
	var p Purchase
	if err := scanHeader(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (t *pgTx) InsertPurchase(ctx context.Context, p *Purchase) error {
	row := t.tx.QueryRow(ctx, `
		INSERT INTO purchases (user_id, shop_id, date, total_amount)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at, updated_at
	`, p.UserID, p.ShopID, p.Date, p.TotalAmount)
	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (t *pgTx) UpdatePurchase(ctx context.Context, p *Purchase) error {
	row := t.tx.QueryRow(ctx, `
		UPDATE purchases
		SET user_id=$2, shop_id=$3, date=$4, total_amount=$5, updated_at=now()
		WHERE id=$1
		RETURNING created_at, updated_at
	`, p.ID, p.UserID, p.ShopID, p.Date, p.TotalAmount)
	return row.Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (t *pgTx) InsertPurchaseItem(ctx context.Context, it *Item) error {
	row := t.tx.QueryRow(ctx, `
		INSERT INTO purchase_items (purchase_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, it.PurchaseID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal)
	return row.Scan(&it.ID)
}

func (t *pgTx) DeletePurchaseItems(ctx context.Context, purchaseID int64) (int64, error) {
	tag, err := t.tx.Exec(ctx, `DELETE FROM purchase_items WHERE purchase_id=$1`, purchaseID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (t *pgTx) DeletePurchase(ctx context.Context, id int64) (bool, error) {
	tag, err := t.tx.Exec(ctx, `DELETE FROM purchases WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (t *pgTx) Commit(ctx context.Context) error { return t.tx.Commit(ctx) }

// Rollback ignores pgx.ErrTxClosed so it can be deferred after Commit.
func (t *pgTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}
