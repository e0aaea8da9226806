package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/Spok95/smartspend/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

/* Shops */

// CreateShop: shop names are unique, a duplicate is a Conflict.
func (r *Repo) CreateShop(ctx context.Context, name string) (*Shop, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.InvalidArgument("shop name is required")
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO shops (name) VALUES ($1)
		RETURNING id, name, created_at
	`, name)
	var s Shop
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
		return nil, apperr.FromDB(err, "create shop")
	}
	return &s, nil
}

func (r *Repo) GetShopByID(ctx context.Context, id int64) (*Shop, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, created_at
		FROM shops WHERE id=$1
	`, id)
	var s Shop
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repo) ListShops(ctx context.Context) ([]Shop, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, created_at
		FROM shops
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Shop{}
	for rows.Next() {
		var s Shop
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) RenameShop(ctx context.Context, id int64, name string) (*Shop, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.InvalidArgument("shop name is required")
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE shops SET name=$2 WHERE id=$1
		RETURNING id, name, created_at
	`, id, name)
	var s Shop
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("shop %d not found", id)
		}
		return nil, apperr.FromDB(err, "rename shop")
	}
	return &s, nil
}

func (r *Repo) DeleteShop(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM shops WHERE id=$1`, id)
	if err != nil {
		return apperr.FromDB(err, "delete shop")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("shop %d not found", id)
	}
	return nil
}

func (r *Repo) ShopExists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM shops WHERE id=$1)`, id).Scan(&ok)
	return ok, err
}

/* Categories */

// CreateCategory is get-or-create by name.
func (r *Repo) CreateCategory(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.InvalidArgument("category name is required")
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, created_at
	`, name)
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// already exists
		return r.GetCategoryByName(ctx, name)
	}
	if err != nil {
		return nil, apperr.FromDB(err, "create category")
	}
	return &c, nil
}

func (r *Repo) GetCategoryByName(ctx context.Context, name string) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, created_at
		FROM categories WHERE name = $1
	`, name)
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) GetCategoryByID(ctx context.Context, id int64) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, created_at
		FROM categories WHERE id=$1
	`, id)
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, created_at
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
