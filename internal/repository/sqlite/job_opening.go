package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/sitecms/pkg/models"
)

const jobOpeningColumns = `id, title, department, location, type, description, created_at, active`

const insertJobOpening = `INSERT INTO job_openings (title, department, location, type, description, created_at, active) VALUES (?, ?, ?, ?, ?, ?, ?)`

func (r *SQLiteRepo) CreateJobOpening(ctx context.Context, j *models.JobOpening) (int64, error) {
	if j == nil {
		return 0, fmt.Errorf("job opening is nil")
	}

	created := now()
	res, err := r.conn.Exec(ctx, insertJobOpening,
		j.Title, nullString(j.Department), j.Location, j.Type, j.Description, created, boolToInt(j.Active))
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	j.ID = id
	j.Created = created

	return id, nil
}

// CreateJobOpenings inserts all openings in one transaction.
func (r *SQLiteRepo) CreateJobOpenings(ctx context.Context, jobs []models.JobOpening) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		for i := range jobs {
			j := &jobs[i]
			created := now()
			res, err := tx.ExecContext(ctx, insertJobOpening,
				j.Title, nullString(j.Department), j.Location, j.Type, j.Description, created, boolToInt(j.Active))
			if err != nil {
				return fmt.Errorf("job opening %q: %w", j.Title, err)
			}
			if j.ID, err = res.LastInsertId(); err != nil {
				return err
			}
			j.Created = created
		}
		return nil
	})
}

func (r *SQLiteRepo) GetJobOpening(ctx context.Context, id int64) (*models.JobOpening, error) {
	j, err := scanJobOpening(r.conn.QueryRow(ctx, `SELECT `+jobOpeningColumns+` FROM job_openings WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return j, nil
}

// ListJobOpenings returns openings newest first.
func (r *SQLiteRepo) ListJobOpenings(ctx context.Context, f models.JobOpeningFilter) ([]models.JobOpening, error) {
	query := `SELECT ` + jobOpeningColumns + ` FROM job_openings`
	if f.ActiveOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.conn.QueryRows(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.JobOpening{}
	for rows.Next() {
		j, err := scanJobOpening(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateJobOpening(ctx context.Context, j *models.JobOpening) error {
	if j == nil {
		return fmt.Errorf("job opening is nil")
	}

	res, err := r.conn.Exec(ctx,
		`UPDATE job_openings SET title = ?, department = ?, location = ?, type = ?, description = ?, active = ? WHERE id = ?`,
		j.Title, nullString(j.Department), j.Location, j.Type, j.Description, boolToInt(j.Active), j.ID)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (r *SQLiteRepo) DeleteJobOpening(ctx context.Context, id int64) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM job_openings WHERE id = ?`, id)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (r *SQLiteRepo) CountJobOpenings(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM job_openings`)
}

func scanJobOpening(s rowScanner) (*models.JobOpening, error) {
	var (
		j      models.JobOpening
		dept   sql.NullString
		active int
	)
	if err := s.Scan(&j.ID, &j.Title, &dept, &j.Location, &j.Type, &j.Description, &j.Created, &active); err != nil {
		return nil, err
	}
	j.Department = dept.String
	j.Active = active == 1

	return &j, nil
}
