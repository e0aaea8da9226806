package products

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

const selectProduct = `
	SELECT p.id, p.reference, p.name, p.category_id, COALESCE(c.name,''), p.brand_id, COALESCE(b.name,''), p.unit, p.created_at
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN brands b ON b.id = p.brand_id
`

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(
		&p.ID,
		&p.Reference,
		&p.Name,
		&p.CategoryID,
		&p.Category,
		&p.BrandID,
		&p.Brand,
		&p.Unit,
		&p.CreatedAt,
	)
}

// Create: reference is unique when set, an unknown unit is InvalidArgument.
func (r *Repo) Create(ctx context.Context, in NewProduct) (*Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.InvalidArgument("product name is required")
	}
	unit, ok := ParseUnit(in.Unit)
	if !ok {
		return nil, apperr.InvalidArgument("unknown unit %q", in.Unit)
	}
	ref := in.Reference
	if ref != nil {
		v := strings.TrimSpace(*ref)
		ref = &v
		if v == "" {
			ref = nil
		}
	}

	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (reference, name, category_id, brand_id, unit)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, ref, name, in.CategoryID, in.BrandID, string(unit)).Scan(&id)
	if err != nil {
		return nil, apperr.FromDB(err, "create product")
	}
	return r.GetByID(ctx, id)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Product, error) {
	row := r.pool.QueryRow(ctx, selectProduct+` WHERE p.id = $1`, id)
	var p Product
	if err := scanProduct(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, selectProduct+` ORDER BY p.name, p.id`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// SearchByName matches part of the name, brand or reference, case-insensitively.
func (r *Repo) SearchByName(ctx context.Context, q string) ([]Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return r.List(ctx)
	}
	like := "%" + strings.ToLower(q) + "%"
	rows, err := r.pool.Query(ctx, selectProduct+`
		WHERE LOWER(p.name) LIKE $1 OR LOWER(b.name) LIKE $1 OR LOWER(p.reference) LIKE $1
		ORDER BY p.name, p.id
	`, like)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	out := []Product{}
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete: a product referenced by purchases cannot be removed (Conflict).
func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return apperr.FromDB(err, "delete product")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("product %d not found", id)
	}
	return nil
}

func (r *Repo) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id=$1)`, id).Scan(&ok)
	return ok, err
}
