package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("inventory item not found")

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, name string, cat Category, qty float64, unit string, minLevel float64) (*Item, error) {
	if minLevel <= 0 {
		minLevel = DefaultMinLevel
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO inventory_items (name, category, quantity, unit, min_level)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, name, category, quantity, unit, min_level, created_at
	`, name, string(cat), qty, unit, minLevel)

	var it Item
	if err := row.Scan(&it.ID, &it.Name, &it.Category, &it.Quantity, &it.Unit, &it.MinLevel, &it.CreatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, category, quantity, unit, min_level, created_at
		FROM inventory_items WHERE id = $1
	`, id)
	var it Item
	if err := row.Scan(&it.ID, &it.Name, &it.Category, &it.Quantity, &it.Unit, &it.MinLevel, &it.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *Repo) List(ctx context.Context) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, category, quantity, unit, min_level, created_at
		FROM inventory_items
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.Quantity, &it.Unit, &it.MinLevel, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ListLow returns items at or under their minimum level.
func (r *Repo) ListLow(ctx context.Context) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, category, quantity, unit, min_level, created_at
		FROM inventory_items
		WHERE quantity <= min_level
		ORDER BY quantity - min_level
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.Quantity, &it.Unit, &it.MinLevel, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, id int64, name string, cat Category, unit string, minLevel float64) (*Item, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE inventory_items SET name=$2, category=$3, unit=$4, min_level=$5
		WHERE id=$1
		RETURNING id, name, category, quantity, unit, min_level, created_at
	`, id, name, string(cat), unit, minLevel)
	var it Item
	if err := row.Scan(&it.ID, &it.Name, &it.Category, &it.Quantity, &it.Unit, &it.MinLevel, &it.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM inventory_items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetQuantity writes an absolute quantity and records the delta as an
// adjustment movement, in one transaction.
func (r *Repo) SetQuantity(ctx context.Context, id int64, qty float64, note string) (*Item, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var it Item
	var prev float64
	row := tx.QueryRow(ctx, `
		UPDATE inventory_items AS n
		SET quantity = $2
		FROM inventory_items AS o
		WHERE n.id = $1 AND o.id = n.id
		RETURNING n.id, n.name, n.category, n.quantity, n.unit, n.min_level, n.created_at, o.quantity
	`, id, qty)
	if err := row.Scan(&it.ID, &it.Name, &it.Category, &it.Quantity, &it.Unit, &it.MinLevel, &it.CreatedAt, &prev); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	reason := ReasonAdjustment
	if qty > prev {
		reason = ReasonRestock
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO inventory_movements (inventory_item_id, delta, reason, note)
		VALUES ($1,$2,$3,$4)
	`, id, qty-prev, string(reason), note); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *Repo) ListMovements(ctx context.Context, itemID int64) ([]Movement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, inventory_item_id, order_id, delta, reason, note, created_at
		FROM inventory_movements
		WHERE inventory_item_id = $1
		ORDER BY created_at DESC
	`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.OrderID, &m.Delta, &m.Reason, &m.Note, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
