package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/domain"
)

type accountsRepo struct {
	q dbtx
}

const accountColumns = `id, first_name, last_name, user_id, user_name, created_at, updated_at`

func scanAccount(row scanner) (domain.Account, error) {
	var (
		a                domain.Account
		userID, userName sql.NullString
	)
	err := row.Scan(&a.ID, &a.Name.First, &a.Name.Last, &userID, &userName, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Account{}, err
	}
	if userID.Valid {
		a.User = &domain.UserLink{ID: userID.String, Username: mapNullString(userName)}
	}
	return a, nil
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	var userID, userName sql.NullString
	if a.User != nil {
		userID = mapStringNull(a.User.ID)
		userName = mapStringNull(a.User.Username)
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO accounts (id, first_name, last_name, user_id, user_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name.First, a.Name.Last, userID, userName, a.CreatedAt, a.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	if err := r.loadCurrentStatus(ctx, &a); err != nil {
		return domain.Account{}, err
	}
	return a, nil
}

func (r *accountsRepo) GetAccountByUsername(ctx context.Context, username string) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE user_name = ?`, username)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	if err := r.loadCurrentStatus(ctx, &a); err != nil {
		return domain.Account{}, err
	}
	return a, nil
}

func (r *accountsRepo) ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, int, error) {
	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range accounts {
		if err := r.loadCurrentStatus(ctx, &accounts[i]); err != nil {
			return nil, 0, err
		}
	}
	return accounts, total, nil
}

// loadCurrentStatus hydrates the newest status entry. Entry ids are ULIDs so
// lexicographic order is assignment order.
func (r *accountsRepo) loadCurrentStatus(ctx context.Context, a *domain.Account) error {
	entry, err := scanStatusEntry(r.q.QueryRowContext(ctx, `
		SELECT id, status_id, status_name, admin_id, admin_name, created_at
		FROM account_status_history
		WHERE account_id = ? ORDER BY id DESC LIMIT 1`, a.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil // no status assigned yet
	}
	if err != nil {
		return err
	}
	a.Status = &entry
	return nil
}

func scanStatusEntry(row scanner) (domain.StatusEntry, error) {
	var e domain.StatusEntry
	err := row.Scan(&e.ID, &e.StatusID, &e.Name, &e.AdminID, &e.AdminName, &e.CreatedAt)
	if err != nil {
		return domain.StatusEntry{}, err
	}
	return e, nil
}

func (r *accountsRepo) UpdateAccountName(ctx context.Context, accountID string, name domain.Name) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE accounts SET first_name = ?, last_name = ?, updated_at = ? WHERE id = ?`,
		name.First, name.Last, time.Now().UTC(), accountID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) SetAccountUserLink(ctx context.Context, accountID string, link *domain.UserLink) error {
	var userID, userName sql.NullString
	if link != nil {
		userID = mapStringNull(link.ID)
		userName = mapStringNull(link.Username)
	}
	res, err := r.q.ExecContext(ctx, `
		UPDATE accounts SET user_id = ?, user_name = ?, updated_at = ? WHERE id = ?`,
		userID, userName, time.Now().UTC(), accountID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) SyncAccountUserName(ctx context.Context, userID, username string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE accounts SET user_name = ?, updated_at = ? WHERE user_id = ?`,
		username, time.Now().UTC(), userID)
	return err
}

func (r *accountsRepo) AddAccountNote(ctx context.Context, accountID string, note domain.NoteEntry) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO account_notes (id, account_id, data, admin_id, admin_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		note.ID, accountID, note.Data, note.AdminID, note.AdminName, note.CreatedAt,
	)
	return mapConflict(err)
}

func (r *accountsRepo) ListAccountNotes(ctx context.Context, accountID string) ([]domain.NoteEntry, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, data, admin_id, admin_name, created_at
		FROM account_notes WHERE account_id = ? ORDER BY id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.NoteEntry
	for rows.Next() {
		var n domain.NoteEntry
		if err := rows.Scan(&n.ID, &n.Data, &n.AdminID, &n.AdminName, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *accountsRepo) SetAccountStatus(ctx context.Context, accountID string, entry domain.StatusEntry) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO account_status_history (id, account_id, status_id, status_name, admin_id, admin_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, accountID, entry.StatusID, entry.Name, entry.AdminID, entry.AdminName, entry.CreatedAt,
	)
	if err != nil {
		return mapConflict(err)
	}

	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET updated_at = ? WHERE id = ?`, time.Now().UTC(), accountID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) ListAccountStatusHistory(ctx context.Context, accountID string) ([]domain.StatusEntry, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, status_id, status_name, admin_id, admin_name, created_at
		FROM account_status_history WHERE account_id = ? ORDER BY id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.StatusEntry
	for rows.Next() {
		e, err := scanStatusEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, accountID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, accountID)
	return err
}
