package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/sitecms/pkg/models"
)

const productColumns = `id, name, description, image, specs, use_cases, category, images, document, created_at`

const insertProduct = `INSERT INTO products (name, description, image, specs, use_cases, category, images, document, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (r *SQLiteRepo) CreateProduct(ctx context.Context, p *models.Product) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("product is nil")
	}

	created := now()
	res, err := r.conn.Exec(ctx, insertProduct,
		p.Name, p.Description, p.Image, p.Specs, p.UseCases, nullString(p.Category), p.Images, nullString(p.Document), created)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	p.ID = id
	p.Created = created

	return id, nil
}

// CreateProducts inserts all products in one transaction; either every row is stored or none.
func (r *SQLiteRepo) CreateProducts(ctx context.Context, products []models.Product) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		for i := range products {
			p := &products[i]
			created := now()
			res, err := tx.ExecContext(ctx, insertProduct,
				p.Name, p.Description, p.Image, p.Specs, p.UseCases, nullString(p.Category), p.Images, nullString(p.Document), created)
			if err != nil {
				return fmt.Errorf("product %q: %w", p.Name, err)
			}
			if p.ID, err = res.LastInsertId(); err != nil {
				return err
			}
			p.Created = created
		}
		return nil
	})
}

func (r *SQLiteRepo) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return p, nil
}

func (r *SQLiteRepo) ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var args []any
	if f.Category != "" {
		query += ` WHERE category = ?`
		args = append(args, f.Category)
	}
	query += ` ORDER BY id`

	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateProduct(ctx context.Context, p *models.Product) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}

	res, err := r.conn.Exec(ctx,
		`UPDATE products SET name = ?, description = ?, image = ?, specs = ?, use_cases = ?, category = ?, images = ?, document = ? WHERE id = ?`,
		p.Name, p.Description, p.Image, p.Specs, p.UseCases, nullString(p.Category), p.Images, nullString(p.Document), p.ID)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (r *SQLiteRepo) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (r *SQLiteRepo) CountProducts(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM products`)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(s rowScanner) (*models.Product, error) {
	var (
		p                          models.Product
		desc, image, cat, document sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Name, &desc, &image, &p.Specs, &p.UseCases, &cat, &p.Images, &document, &p.Created); err != nil {
		return nil, err
	}
	p.Description = desc.String
	p.Image = image.String
	p.Category = cat.String
	p.Document = document.String

	return &p, nil
}
