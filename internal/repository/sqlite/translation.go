package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/garnizeh/sitecms/pkg/models"
)

// UpsertTranslations writes every entry for locale in one transaction.
func (r *SQLiteRepo) UpsertTranslations(ctx context.Context, locale string, entries map[string]string) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ts := now()
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		for _, k := range keys {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO translations (locale, key, value, updated_at) VALUES (?, ?, ?, ?) ON CONFLICT(locale, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
				locale, k, entries[k], ts)
			if err != nil {
				return fmt.Errorf("upsert translation %s/%s: %w", locale, k, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepo) ListTranslations(ctx context.Context, locale string) ([]models.Translation, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT locale, key, value, updated_at FROM translations WHERE locale = ? ORDER BY key`, locale)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Translation{}
	for rows.Next() {
		var t models.Translation
		if err := rows.Scan(&t.Locale, &t.Key, &t.Value, &t.Updated); err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) ListLocales(ctx context.Context) ([]string, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT DISTINCT locale FROM translations ORDER BY locale`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) DeleteTranslation(ctx context.Context, locale, key string) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM translations WHERE locale = ? AND key = ?`, locale, key)
	if err != nil {
		return err
	}

	return expectAffected(res)
}
