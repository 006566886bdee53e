package sqlite

import (
	"context"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/domain"
)

type statusesRepo struct {
	q dbtx
}

func (r *statusesRepo) CreateStatus(ctx context.Context, s domain.Status) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO statuses (id, pivot, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Pivot, s.Name, s.CreatedAt, s.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *statusesRepo) GetStatusByID(ctx context.Context, id string) (domain.Status, error) {
	var s domain.Status
	err := r.q.QueryRowContext(ctx, `
		SELECT id, pivot, name, created_at, updated_at FROM statuses WHERE id = ?`, id,
	).Scan(&s.ID, &s.Pivot, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Status{}, mapNotFound(err)
	}
	return s, nil
}

func (r *statusesRepo) ListStatuses(ctx context.Context, limit, offset int) ([]domain.Status, int, error) {
	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM statuses`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.q.QueryContext(ctx, `
		SELECT id, pivot, name, created_at, updated_at FROM statuses
		ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var statuses []domain.Status
	for rows.Next() {
		var s domain.Status
		if err := rows.Scan(&s.ID, &s.Pivot, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		statuses = append(statuses, s)
	}
	return statuses, total, rows.Err()
}

func (r *statusesRepo) UpdateStatusName(ctx context.Context, id, name string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE statuses SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *statusesRepo) DeleteStatus(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM statuses WHERE id = ?`, id)
	return err
}
