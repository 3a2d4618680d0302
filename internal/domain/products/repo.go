package products

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("product not found")
	ErrDuplicateRecipe = errors.New("recipe entry already exists for this product and item")
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const productCols = `id, sku, name, category, active, image_url, image_back_url,
	base_price, cost_price, description, grades, measurements, published, created_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var grades, measures []byte
	if err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Category, &p.Active, &p.ImageURL, &p.ImageBackURL,
		&p.BasePrice, &p.CostPrice, &p.Description, &grades, &measures, &p.Published, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(grades) > 0 {
		_ = json.Unmarshal(grades, &p.Grades)
	}
	if len(measures) > 0 {
		_ = json.Unmarshal(measures, &p.Measurements)
	}
	return &p, nil
}

func (r *Repo) Create(ctx context.Context, p Product) (*Product, error) {
	grades, _ := json.Marshal(p.Grades)
	measures, _ := json.Marshal(p.Measurements)
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products
			(sku, name, category, active, image_url, image_back_url,
			 base_price, cost_price, description, grades, measurements, published)
		VALUES ($1,$2,$3,TRUE,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING `+productCols,
		p.SKU, p.Name, p.Category, p.ImageURL, p.ImageBackURL,
		p.BasePrice, p.CostPrice, p.Description, grades, measures, p.Published)
	return scanProduct(row)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *Repo) List(ctx context.Context, onlyActive bool) ([]Product, error) {
	q := `SELECT ` + productCols + ` FROM products`
	if onlyActive {
		q += ` WHERE active = TRUE`
	}
	q += ` ORDER BY name`
	return r.queryProducts(ctx, q)
}

// ListPublished returns the storefront catalog.
func (r *Repo) ListPublished(ctx context.Context) ([]Product, error) {
	return r.queryProducts(ctx, `
		SELECT `+productCols+`
		FROM products
		WHERE published = TRUE AND active = TRUE
		ORDER BY name
	`)
}

func (r *Repo) queryProducts(ctx context.Context, q string, args ...any) ([]Product, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, p Product) (*Product, error) {
	grades, _ := json.Marshal(p.Grades)
	measures, _ := json.Marshal(p.Measurements)
	row := r.pool.QueryRow(ctx, `
		UPDATE products SET
			sku=$2, name=$3, category=$4, active=$5, image_url=$6, image_back_url=$7,
			base_price=$8, cost_price=$9, description=$10, grades=$11, measurements=$12, published=$13
		WHERE id=$1
		RETURNING `+productCols,
		p.ID, p.SKU, p.Name, p.Category, p.Active, p.ImageURL, p.ImageBackURL,
		p.BasePrice, p.CostPrice, p.Description, grades, measures, p.Published)
	out, err := scanProduct(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return out, err
}

func (r *Repo) SetPublished(ctx context.Context, id int64, published bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET published=$2 WHERE id=$1`, id, published)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListNames feeds the AI intake parser with the known catalog.
func (r *Repo) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM products WHERE active = TRUE ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

/* Recipe (bill of materials) */

func (r *Repo) AddRecipeEntry(ctx context.Context, productID, itemID int64, qtyPerUnit float64) (*RecipeEntry, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO product_recipes (product_id, inventory_item_id, qty_per_unit)
		VALUES ($1,$2,$3)
		RETURNING id, product_id, inventory_item_id, qty_per_unit
	`, productID, itemID, qtyPerUnit)

	var e RecipeEntry
	if err := row.Scan(&e.ID, &e.ProductID, &e.InventoryItemID, &e.QtyPerUnit); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateRecipe
		}
		return nil, err
	}
	return &e, nil
}

// ListRecipe joins item name/unit for display.
func (r *Repo) ListRecipe(ctx context.Context, productID int64) ([]RecipeEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pr.id, pr.product_id, pr.inventory_item_id, pr.qty_per_unit, i.name, i.unit
		FROM product_recipes pr
		JOIN inventory_items i ON i.id = pr.inventory_item_id
		WHERE pr.product_id = $1
		ORDER BY i.name
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecipeEntry
	for rows.Next() {
		var e RecipeEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.InventoryItemID, &e.QtyPerUnit, &e.ItemName, &e.ItemUnit); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) RemoveRecipeEntry(ctx context.Context, entryID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM product_recipes WHERE id=$1`, entryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
