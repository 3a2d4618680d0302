package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("order not found")

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const orderCols = `id, seq_number, client_id, status, payment_status, order_type, origin,
	total_value, amount_paid, created_at, delivery_date, notes, delay_reason`

// Create inserts the order and its line items in one transaction.
func (r *Repo) Create(ctx context.Context, o Order) (*Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO orders
			(client_id, status, payment_status, order_type, origin,
			 total_value, amount_paid, delivery_date, notes, delay_reason)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING `+orderCols,
		o.ClientID, string(o.Status), string(o.PaymentStatus), string(o.OrderType), string(o.Origin),
		o.TotalValue, o.AmountPaid, o.DeliveryDate, o.Notes, o.DelayReason)

	created, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	for _, it := range o.Items {
		row := tx.QueryRow(ctx, `
			INSERT INTO order_items
				(order_id, product_id, product_name, fabric, grade, size, quantity, unit_price)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			RETURNING id
		`, created.ID, it.ProductID, it.ProductName, it.Fabric, it.Grade, it.Size, it.Quantity, it.UnitPrice)
		if err := row.Scan(&it.ID); err != nil {
			return nil, err
		}
		it.OrderID = created.ID
		created.Items = append(created.Items, it)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	if err := row.Scan(
		&o.ID, &o.SeqNumber, &o.ClientID, &o.Status, &o.PaymentStatus, &o.OrderType, &o.Origin,
		&o.TotalValue, &o.AmountPaid, &o.CreatedAt, &o.DeliveryDate, &o.Notes, &o.DelayReason,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *Repo) listItems(ctx context.Context, orderID int64) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, product_name, fabric, grade, size, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Fabric,
			&it.Grade, &it.Size, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) List(ctx context.Context) ([]Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderCols+` FROM orders ORDER BY created_at DESC`)
}

// ListByStatuses loads orders (with items) in any of the given stages.
func (r *Repo) ListByStatuses(ctx context.Context, statuses []Status) ([]Order, error) {
	ss := make([]string, len(statuses))
	for i, s := range statuses {
		ss[i] = string(s)
	}
	return r.queryOrders(ctx, `
		SELECT `+orderCols+`
		FROM orders
		WHERE status = ANY($1)
		ORDER BY created_at
	`, ss)
}

func (r *Repo) queryOrders(ctx context.Context, q string, args ...any) ([]Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		items, err := r.listItems(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

// UpdateFields edits the mutable order fields outside the status flow.
func (r *Repo) UpdateFields(ctx context.Context, o Order) (*Order, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE orders SET
			client_id=$2, payment_status=$3, order_type=$4, total_value=$5,
			amount_paid=$6, delivery_date=$7, notes=$8, delay_reason=$9
		WHERE id=$1
		RETURNING `+orderCols,
		o.ID, o.ClientID, string(o.PaymentStatus), string(o.OrderType), o.TotalValue,
		o.AmountPaid, o.DeliveryDate, o.Notes, o.DelayReason)
	out, err := scanOrder(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return out, err
}

func (r *Repo) SetStatus(ctx context.Context, id int64, s Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, id, string(s))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Deduction is one inventory consequence of finishing an order.
type Deduction struct {
	ItemID int64
	Qty    float64
	Note   string
}

// DeductionResult carries the post-deduction quantity so the caller
// can raise low-stock alerts.
type DeductionResult struct {
	ItemID    int64
	Remaining float64
}

// Finish writes the terminal status and applies every deduction in the
// same transaction: either the order is finished and all stock is
// deducted, or nothing changes. Quantities are floored at zero in a
// single conditional update per item.
func (r *Repo) Finish(ctx context.Context, orderID int64, deds []Deduction) ([]DeductionResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, orderID, string(StatusFinished))
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	results := make([]DeductionResult, 0, len(deds))
	for _, d := range deds {
		var remaining float64
		row := tx.QueryRow(ctx, `
			UPDATE inventory_items
			SET quantity = GREATEST(0, quantity - $2)
			WHERE id = $1
			RETURNING quantity
		`, d.ItemID, d.Qty)
		if err := row.Scan(&remaining); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO inventory_movements (inventory_item_id, order_id, delta, reason, note)
			VALUES ($1,$2,$3,'deduction',$4)
		`, d.ItemID, orderID, -d.Qty, d.Note); err != nil {
			return nil, err
		}
		results = append(results, DeductionResult{ItemID: d.ItemID, Remaining: remaining})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return results, nil
}
