package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/sitecms/pkg/models"
	"github.com/garnizeh/sitecms/pkg/repository"
)

func (r *SQLiteRepo) CreateCategory(ctx context.Context, c *models.Category) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("category is nil")
	}

	created := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO categories (name, description, created_at) VALUES (?, ?, ?)`, c.Name, nullString(c.Description), created)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("create category %q: %w", c.Name, repository.ErrConflict)
		}
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	c.ID = id
	c.Created = created

	return id, nil
}

// CreateCategories inserts all categories in one transaction.
func (r *SQLiteRepo) CreateCategories(ctx context.Context, categories []models.Category) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		for i := range categories {
			c := &categories[i]
			created := now()
			res, err := tx.ExecContext(ctx, `INSERT INTO categories (name, description, created_at) VALUES (?, ?, ?)`, c.Name, nullString(c.Description), created)
			if err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("create category %q: %w", c.Name, repository.ErrConflict)
				}
				return err
			}
			if c.ID, err = res.LastInsertId(); err != nil {
				return err
			}
			c.Created = created
		}
		return nil
	})
}

func (r *SQLiteRepo) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	return scanCategory(r.conn.QueryRow(ctx, `SELECT id, name, description, created_at FROM categories WHERE id = ?`, id))
}

func (r *SQLiteRepo) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	return scanCategory(r.conn.QueryRow(ctx, `SELECT id, name, description, created_at FROM categories WHERE name = ?`, name))
}

func (r *SQLiteRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, name, description, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Category{}
	for rows.Next() {
		var c models.Category
		var desc sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &desc, &c.Created); err != nil {
			return nil, err
		}
		c.Description = desc.String
		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateCategory(ctx context.Context, c *models.Category) error {
	if c == nil {
		return fmt.Errorf("category is nil")
	}

	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		var oldName string
		if err := tx.QueryRowContext(ctx, `SELECT name FROM categories WHERE id = ?`, c.ID).Scan(&oldName); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return repository.ErrNotFound
			}
			return err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE categories SET name = ?, description = ? WHERE id = ?`, c.Name, nullString(c.Description), c.ID); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("rename category to %q: %w", c.Name, repository.ErrConflict)
			}
			return err
		}

		if oldName == c.Name {
			return nil
		}

		res, err := tx.ExecContext(ctx, `UPDATE products SET category = ? WHERE category = ?`, c.Name, oldName)
		if err != nil {
			return fmt.Errorf("cascade category rename: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			r.logger.Info("category rename cascaded", "from", oldName, "to", c.Name, "products", n)
		}
		return nil
	})
}

func (r *SQLiteRepo) DeleteCategory(ctx context.Context, id int64, reassignTo string) (int64, error) {
	var reassigned int64

	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		var name string
		if err := tx.QueryRowContext(ctx, `SELECT name FROM categories WHERE id = ?`, id).Scan(&name); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return repository.ErrNotFound
			}
			return err
		}

		var inUse int64
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE category = ?`, name).Scan(&inUse); err != nil {
			return err
		}

		if inUse > 0 {
			if reassignTo == "" {
				return &repository.CategoryInUseError{Name: name, ProductCount: inUse}
			}
			if reassignTo == name {
				return fmt.Errorf("reassign %q to itself: %w", name, repository.ErrInvalidReassignment)
			}

			var target int64
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE name = ?`, reassignTo).Scan(&target); err != nil {
				return err
			}
			if target == 0 {
				return fmt.Errorf("category %q does not exist: %w", reassignTo, repository.ErrInvalidReassignment)
			}

			res, err := tx.ExecContext(ctx, `UPDATE products SET category = ? WHERE category = ?`, reassignTo, name)
			if err != nil {
				return fmt.Errorf("reassign products: %w", err)
			}
			if reassigned, err = res.RowsAffected(); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return reassigned, nil
}

func (r *SQLiteRepo) CountProductsInCategory(ctx context.Context, name string) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM products WHERE category = ?`, name)
}

func (r *SQLiteRepo) CountCategories(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM categories`)
}

func scanCategory(row *sql.Row) (*models.Category, error) {
	var c models.Category
	var desc sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &desc, &c.Created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.Description = desc.String

	return &c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
