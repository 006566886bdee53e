package sqlite

import (
	"context"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/domain"
)

type authAttemptsRepo struct {
	q dbtx
}

func (r *authAttemptsRepo) CreateAuthAttempt(ctx context.Context, a domain.AuthAttempt) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO auth_attempts (id, ip, username, created_at)
		VALUES (?, ?, ?, ?)`,
		a.ID, a.IP, a.Username, a.CreatedAt,
	)
	return mapConflict(err)
}

func (r *authAttemptsRepo) CountByIP(ctx context.Context, ip string, since time.Time) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM auth_attempts WHERE ip = ? AND created_at >= ?`,
		ip, since,
	).Scan(&count)
	return count, err
}

func (r *authAttemptsRepo) CountByIPAndUsername(ctx context.Context, ip, username string, since time.Time) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM auth_attempts WHERE ip = ? AND username = ? AND created_at >= ?`,
		ip, username, since,
	).Scan(&count)
	return count, err
}

func (r *authAttemptsRepo) DeleteBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM auth_attempts WHERE created_at < ?`, cutoff)
	return err
}
