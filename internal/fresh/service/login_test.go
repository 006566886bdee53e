package service

import (
	"context"
	"testing"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/store"
	"github.com/stretchr/testify/require"
)

func newLoginService(t *testing.T, st store.Store) (*LoginService, *captureMailer) {
	t.Helper()

	mailer := &captureMailer{}
	return &LoginService{
		Store:    st,
		Sessions: &SessionService{Store: st},
		Guard:    NewGuardService(st, 0, 0, 0),
		Codec:    testCodec(t),
		Mailer:   mailer,
	}, mailer
}

func TestLoginIssuesVerifiableBundle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, _ := newLoginService(t, st)

	user := seedUser(t, st, "ren", "bighouseblues")

	result, err := svc.Login(ctx, LoginInput{
		Username: "ren", Password: "bighouseblues",
		IP: "127.0.0.1", UserAgent: "go-test",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, user.ID, result.User.ID)

	claims, err := svc.Codec.Verify(result.Token)
	require.NoError(t, err)
	require.Equal(t, result.Session.ID, claims.Session.ID)
	require.Equal(t, result.Session.Key, claims.Session.Key)
	require.Equal(t, "ren", claims.User.Username)

	// The bundle's session pair must resolve against the store.
	_, err = svc.Sessions.FindByCredentials(ctx, claims.Session.ID, claims.Session.Key)
	require.NoError(t, err)
}

func TestLoginAcceptsEmailAsUsername(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, _ := newLoginService(t, st)

	seedUser(t, st, "ren", "bighouseblues")

	_, err := svc.Login(ctx, LoginInput{
		Username: "REN@example.com", Password: "bighouseblues",
		IP: "127.0.0.1", UserAgent: "go-test",
	})
	require.NoError(t, err)
}

func TestLoginFailureIsRecorded(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, _ := newLoginService(t, st)

	seedUser(t, st, "ren", "bighouseblues")

	_, err := svc.Login(ctx, LoginInput{
		Username: "ren", Password: "wrong",
		IP: "10.0.0.1", UserAgent: "go-test",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown usernames are recorded too, so probing burns the budget.
	_, err = svc.Login(ctx, LoginInput{
		Username: "nobody", Password: "whatever",
		IP: "10.0.0.1", UserAgent: "go-test",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	since := time.Now().UTC().Add(-svc.Guard.BlockWindow)
	count, err := st.AuthAttempts().CountByIP(ctx, "10.0.0.1", since)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestLoginBlockedAfterRepeatedFailures(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, _ := newLoginService(t, st)

	seedUser(t, st, "ren", "bighouseblues")

	for i := 0; i < 7; i++ {
		_, err := svc.Login(ctx, LoginInput{
			Username: "ren", Password: "wrong",
			IP: "10.0.0.1", UserAgent: "go-test",
		})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// Even the correct password is refused while blocked.
	_, err := svc.Login(ctx, LoginInput{
		Username: "ren", Password: "bighouseblues",
		IP: "10.0.0.1", UserAgent: "go-test",
	})
	require.ErrorIs(t, err, ErrTooManyAttempts)

	// A different address is unaffected.
	_, err = svc.Login(ctx, LoginInput{
		Username: "ren", Password: "bighouseblues",
		IP: "10.0.0.2", UserAgent: "go-test",
	})
	require.NoError(t, err)
}

func TestLoginRejectsDisabledUser(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, _ := newLoginService(t, st)

	user := seedUser(t, st, "ren", "bighouseblues")
	require.NoError(t, st.Users().SetActive(ctx, user.ID, false))

	_, err := svc.Login(ctx, LoginInput{
		Username: "ren", Password: "bighouseblues",
		IP: "127.0.0.1", UserAgent: "go-test",
	})
	require.ErrorIs(t, err, ErrAccountDisabled)
}

func TestForgotResetRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, mailer := newLoginService(t, st)

	seedUser(t, st, "ren", "bighouseblues")

	// Establish a live session to prove reset revokes it.
	live, err := svc.Login(ctx, LoginInput{
		Username: "ren", Password: "bighouseblues",
		IP: "127.0.0.1", UserAgent: "go-test",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Forgot(ctx, "ren@example.com"))
	mail := mailer.last(t)
	require.Equal(t, "ren@example.com", mail.To)
	key, ok := mail.Data["key"].(string)
	require.True(t, ok)
	require.NotEmpty(t, key)

	t.Run("wrong key is refused", func(t *testing.T) {
		require.ErrorIs(t, svc.Reset(ctx, "ren@example.com", key+"x", "newpassword"),
			ErrInvalidResetKey)
	})

	t.Run("unknown email is refused", func(t *testing.T) {
		require.ErrorIs(t, svc.Reset(ctx, "nobody@example.com", key, "newpassword"),
			ErrInvalidResetKey)
	})

	require.NoError(t, svc.Reset(ctx, "ren@example.com", key, "newpassword"))

	t.Run("grant is single use", func(t *testing.T) {
		require.ErrorIs(t, svc.Reset(ctx, "ren@example.com", key, "again"),
			ErrInvalidResetKey)
	})

	t.Run("old password no longer works", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{
			Username: "ren", Password: "bighouseblues",
			IP: "127.0.0.2", UserAgent: "go-test",
		})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("new password works", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{
			Username: "ren", Password: "newpassword",
			IP: "127.0.0.3", UserAgent: "go-test",
		})
		require.NoError(t, err)
	})

	t.Run("live sessions were revoked", func(t *testing.T) {
		_, err := svc.Sessions.FindByCredentials(ctx, live.Session.ID, live.Session.Key)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLogoutRevokesOwnSessionOnly(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, _ := newLoginService(t, st)

	seedUser(t, st, "ren", "bighouseblues")
	seedUser(t, st, "stimpy", "happyhappy")

	renLogin, err := svc.Login(ctx, LoginInput{Username: "ren", Password: "bighouseblues", IP: "1.1.1.1"})
	require.NoError(t, err)
	stimpyLogin, err := svc.Login(ctx, LoginInput{Username: "stimpy", Password: "happyhappy", IP: "1.1.1.1"})
	require.NoError(t, err)

	// Logout with someone else's session id does nothing.
	require.NoError(t, svc.Logout(ctx, stimpyLogin.Session.ID, renLogin.User.ID))
	_, err = svc.Sessions.FindByCredentials(ctx, stimpyLogin.Session.ID, stimpyLogin.Session.Key)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, renLogin.Session.ID, renLogin.User.ID))
	_, err = svc.Sessions.FindByCredentials(ctx, renLogin.Session.ID, renLogin.Session.Key)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
