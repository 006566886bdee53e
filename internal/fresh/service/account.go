package service

import (
	"context"
	"errors"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/domain"
	"github.com/thedevsir/fresh/internal/fresh/store"
	"github.com/thedevsir/fresh/pkg/idx"
)

// ErrUnknownStatus reports a status assignment naming a status that does
// not exist.
var ErrUnknownStatus = errors.New("unknown_status")

// AccountService manages customer role records, their note log and their
// status history. Notes and status entries are stamped with the admin who
// wrote them.
type AccountService struct {
	Store store.Store
}

// Create registers a standalone account record (not yet linked to a user).
func (s *AccountService) Create(ctx context.Context, name string) (domain.Account, error) {
	now := time.Now().UTC()
	account := domain.Account{
		ID:        idx.New().String(),
		Name:      domain.ParseName(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Accounts().CreateAccount(ctx, account); err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

func (s *AccountService) GetByID(ctx context.Context, accountID string) (domain.Account, error) {
	return s.Store.Accounts().GetAccountByID(ctx, accountID)
}

// GetByUsername resolves the account linked to a username; used for the
// "my account" view.
func (s *AccountService) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	return s.Store.Accounts().GetAccountByUsername(ctx, username)
}

func (s *AccountService) List(ctx context.Context, limit, offset int) ([]domain.Account, int, error) {
	return s.Store.Accounts().ListAccounts(ctx, limit, offset)
}

// UpdateName renames the account and refreshes the name cached on the
// linked user's role slot.
func (s *AccountService) UpdateName(ctx context.Context, accountID, name string) error {
	parsed := domain.ParseName(name)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		account, err := tx.Accounts().GetAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		if err := tx.Accounts().UpdateAccountName(ctx, accountID, parsed); err != nil {
			return err
		}
		if account.User == nil {
			return nil
		}
		link := &domain.RoleLink{Kind: domain.RoleAccount, ID: accountID, Name: parsed.Full()}
		return tx.Users().SetRoleLink(ctx, account.User.ID, domain.RoleAccount, link)
	})
}

// AddNote appends a note to the account's log, stamped with its author.
func (s *AccountService) AddNote(ctx context.Context, accountID, data string, author domain.Admin) error {
	return s.Store.Accounts().AddAccountNote(ctx, accountID, domain.NoteEntry{
		ID:        idx.New().String(),
		Data:      data,
		AdminID:   author.ID,
		AdminName: author.FullName(),
		CreatedAt: time.Now().UTC(),
	})
}

func (s *AccountService) ListNotes(ctx context.Context, accountID string) ([]domain.NoteEntry, error) {
	return s.Store.Accounts().ListAccountNotes(ctx, accountID)
}

// SetStatus assigns a status to the account. The status must exist in the
// catalog; the resulting entry becomes current and joins the history.
func (s *AccountService) SetStatus(ctx context.Context, accountID, statusID string, author domain.Admin) error {
	status, err := s.Store.Statuses().GetStatusByID(ctx, statusID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnknownStatus
		}
		return err
	}

	return s.Store.Accounts().SetAccountStatus(ctx, accountID, domain.StatusEntry{
		ID:        idx.New().String(),
		StatusID:  status.ID,
		Name:      status.Name,
		AdminID:   author.ID,
		AdminName: author.FullName(),
		CreatedAt: time.Now().UTC(),
	})
}

func (s *AccountService) StatusHistory(ctx context.Context, accountID string) ([]domain.StatusEntry, error) {
	return s.Store.Accounts().ListAccountStatusHistory(ctx, accountID)
}

// Delete removes an account record, clearing the user-side role slot if one
// is linked. Notes and history go with it.
func (s *AccountService) Delete(ctx context.Context, accountID string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		account, err := tx.Accounts().GetAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account.User != nil {
			if err := tx.Users().SetRoleLink(ctx, account.User.ID, domain.RoleAccount, nil); err != nil &&
				!errors.Is(err, store.ErrNotFound) {
				return err
			}
			if err := tx.Sessions().DeleteUserSessions(ctx, account.User.ID); err != nil {
				return err
			}
		}
		return tx.Accounts().DeleteAccount(ctx, accountID)
	})
}
