package clients

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("client not found")

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const clientCols = `id, name, phone, email, document, address, portal_password, created_at`

func (r *Repo) Create(ctx context.Context, c Client) (*Client, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO clients (name, phone, email, document, address, portal_password)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING `+clientCols,
		c.Name, c.Phone, c.Email, c.Document, c.Address, c.PortalPassword)
	return scanClient(row)
}

func scanClient(row pgx.Row) (*Client, error) {
	var c Client
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Document, &c.Address, &c.PortalPassword, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Client, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+clientCols+` FROM clients WHERE id = $1`, id)
	c, err := scanClient(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

// GetByPhone lets storefront checkout reuse an existing client record.
func (r *Repo) GetByPhone(ctx context.Context, phone string) (*Client, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+clientCols+` FROM clients WHERE phone = $1`, phone)
	c, err := scanClient(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *Repo) List(ctx context.Context) ([]Client, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+clientCols+` FROM clients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, c Client) (*Client, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE clients SET name=$2, phone=$3, email=$4, document=$5, address=$6, portal_password=$7
		WHERE id=$1
		RETURNING `+clientCols,
		c.ID, c.Name, c.Phone, c.Email, c.Document, c.Address, c.PortalPassword)
	out, err := scanClient(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return out, err
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
