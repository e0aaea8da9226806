package brands

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

func (r *Repo) GetByID(ctx context.Context, id int64) (*Brand, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, created_at
		FROM brands
		WHERE id = $1
	`, id)
	var b Brand
	if err := row.Scan(&b.ID, &b.Name, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// GetOrCreate returns the brand by name, creating it if missing.
func (r *Repo) GetOrCreate(ctx context.Context, name string) (*Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.InvalidArgument("brand name is required")
	}
	// lookup first
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, created_at
		FROM brands
		WHERE name = $1
	`, name)
	var b Brand
	err := row.Scan(&b.ID, &b.Name, &b.CreatedAt)
	if err == nil {
		return &b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// insert; a concurrent insert of the same name returns the existing row
	row = r.pool.QueryRow(ctx, `
		INSERT INTO brands (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at
	`, name)
	if err := row.Scan(&b.ID, &b.Name, &b.CreatedAt); err != nil {
		return nil, apperr.FromDB(err, "create brand")
	}
	return &b, nil
}

func (r *Repo) List(ctx context.Context) ([]Brand, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, created_at
		FROM brands
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Brand{}
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
