package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccountNotesAndStatus(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	accounts := &AccountService{Store: st}
	statuses := &StatusService{Store: st}

	author := seedAdmin(t, st, "Ren Höek")
	account, err := accounts.Create(ctx, "Stimpson J Cat")
	require.NoError(t, err)

	t.Run("note is stamped with its author", func(t *testing.T) {
		require.NoError(t, accounts.AddNote(ctx, account.ID, "likes gritty kitty litter", author))

		notes, err := accounts.ListNotes(ctx, account.ID)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		require.Equal(t, author.ID, notes[0].AdminID)
		require.Equal(t, "Ren Höek", notes[0].AdminName)
	})

	t.Run("status must exist in the catalog", func(t *testing.T) {
		require.ErrorIs(t, accounts.SetStatus(ctx, account.ID, "account-happy", author),
			ErrUnknownStatus)
	})

	t.Run("status assignment becomes current and history", func(t *testing.T) {
		_, err := statuses.Create(ctx, "account", "Happy")
		require.NoError(t, err)
		_, err = statuses.Create(ctx, "account", "Sad")
		require.NoError(t, err)

		require.NoError(t, accounts.SetStatus(ctx, account.ID, "account-happy", author))
		require.NoError(t, accounts.SetStatus(ctx, account.ID, "account-sad", author))

		got, err := accounts.GetByID(ctx, account.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Status)
		require.Equal(t, "account-sad", got.Status.StatusID)
		require.Equal(t, author.ID, got.Status.AdminID)

		history, err := accounts.StatusHistory(ctx, account.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		require.Equal(t, "account-happy", history[0].StatusID)
	})

	t.Run("history keeps the stamped name after a catalog rename", func(t *testing.T) {
		require.NoError(t, statuses.UpdateName(ctx, "account-sad", "Gloomy"))

		got, err := accounts.GetByID(ctx, account.ID)
		require.NoError(t, err)
		require.Equal(t, "Sad", got.Status.Name)
	})
}

func TestAccountUpdateNameSyncsUserLink(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	accounts := &AccountService{Store: st}
	links := &LinkService{Store: st}

	account, err := accounts.Create(ctx, "Stimpson J Cat")
	require.NoError(t, err)
	user := seedUser(t, st, "stimpy", "happyhappy")
	require.NoError(t, links.LinkAccount(ctx, account.ID, user.ID))

	require.NoError(t, accounts.UpdateName(ctx, account.ID, "Stimpy Cat"))

	gotUser, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "Stimpy Cat", gotUser.Roles.Account.Name)
}

func TestAccountDeleteClearsUserSlot(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	accounts := &AccountService{Store: st}
	links := &LinkService{Store: st}

	account, err := accounts.Create(ctx, "Stimpson J Cat")
	require.NoError(t, err)
	user := seedUser(t, st, "stimpy", "happyhappy")
	require.NoError(t, links.LinkAccount(ctx, account.ID, user.ID))

	require.NoError(t, accounts.Delete(ctx, account.ID))

	gotUser, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Nil(t, gotUser.Roles.Account)
}
