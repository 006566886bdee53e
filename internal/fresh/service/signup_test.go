package service

import (
	"context"
	"testing"

	"github.com/thedevsir/fresh/internal/fresh/store"
	"github.com/stretchr/testify/require"
)

func newSignupService(t *testing.T, st store.Store) (*SignupService, *captureMailer) {
	t.Helper()

	mailer := &captureMailer{}
	return &SignupService{
		Store:    st,
		Sessions: &SessionService{Store: st},
		Codec:    testCodec(t),
		Mailer:   mailer,
	}, mailer
}

func TestSignupCreatesLinkedAccount(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, mailer := newSignupService(t, st)

	result, err := svc.Signup(ctx, SignupInput{
		Name:     "Ren Höek",
		Email:    "Ren@Example.com",
		Username: "REN",
		Password: "bighouseblues",
		IP:       "127.0.0.1",
	})
	require.NoError(t, err)

	t.Run("identity is normalized", func(t *testing.T) {
		require.Equal(t, "ren", result.User.Username)
		require.Equal(t, "ren@example.com", result.User.Email)
	})

	t.Run("returned user carries the pending verify grant", func(t *testing.T) {
		require.NotNil(t, result.User.Verify)

		stored, err := st.Users().GetUserByID(ctx, result.User.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.Verify)
		require.Equal(t, stored.Verify.TokenHash, result.User.Verify.TokenHash)
	})

	t.Run("user and account are linked both ways", func(t *testing.T) {
		require.NotNil(t, result.User.Roles.Account)

		account, err := st.Accounts().GetAccountByID(ctx, result.User.Roles.Account.ID)
		require.NoError(t, err)
		require.NotNil(t, account.User)
		require.Equal(t, result.User.ID, account.User.ID)
		require.Equal(t, "Ren Höek", account.FullName())
	})

	t.Run("signup logs the user in", func(t *testing.T) {
		sessions := &SessionService{Store: st}
		_, err := sessions.FindByCredentials(ctx, result.Session.ID, result.Session.Key)
		require.NoError(t, err)
		require.NotEmpty(t, result.Token)
	})

	t.Run("welcome mail carries the verification key", func(t *testing.T) {
		mail := mailer.last(t)
		require.Equal(t, "ren@example.com", mail.To)
		require.Equal(t, "welcome", mail.Template)
		require.NotEmpty(t, mail.Data["key"])
	})
}

func TestSignupRejectsTakenIdentity(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, _ := newSignupService(t, st)

	_, err := svc.Signup(ctx, SignupInput{
		Name: "Ren Höek", Email: "ren@example.com", Username: "ren", Password: "pw-one",
	})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupInput{
		Name: "Impostor", Email: "other@example.com", Username: "ren", Password: "pw-two",
	})
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Signup(ctx, SignupInput{
		Name: "Impostor", Email: "ren@example.com", Username: "ren2", Password: "pw-two",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestVerifyFlow(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, mailer := newSignupService(t, st)

	result, err := svc.Signup(ctx, SignupInput{
		Name: "Ren Höek", Email: "ren@example.com", Username: "ren", Password: "bighouseblues",
	})
	require.NoError(t, err)

	key, _ := mailer.last(t).Data["key"].(string)
	require.NotEmpty(t, key)

	t.Run("wrong key refused", func(t *testing.T) {
		require.ErrorIs(t, svc.Verify(ctx, "ren@example.com", key+"x"), ErrInvalidVerifyKey)
	})

	require.NoError(t, svc.Verify(ctx, "ren@example.com", key))

	t.Run("grant cleared after redemption", func(t *testing.T) {
		user, err := st.Users().GetUserByID(ctx, result.User.ID)
		require.NoError(t, err)
		require.Nil(t, user.Verify)
	})

	t.Run("key is single use", func(t *testing.T) {
		require.ErrorIs(t, svc.Verify(ctx, "ren@example.com", key), ErrInvalidVerifyKey)
	})

	t.Run("resend refused once verified", func(t *testing.T) {
		require.ErrorIs(t, svc.ResendVerification(ctx, "ren@example.com"), ErrInvalidVerifyKey)
	})
}

func TestResendVerificationReplacesGrant(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, mailer := newSignupService(t, st)

	_, err := svc.Signup(ctx, SignupInput{
		Name: "Ren Höek", Email: "ren@example.com", Username: "ren", Password: "bighouseblues",
	})
	require.NoError(t, err)
	firstKey, _ := mailer.last(t).Data["key"].(string)

	require.NoError(t, svc.ResendVerification(ctx, "ren@example.com"))
	secondKey, _ := mailer.last(t).Data["key"].(string)
	require.NotEqual(t, firstKey, secondKey)

	// Old key dies with the old grant.
	require.ErrorIs(t, svc.Verify(ctx, "ren@example.com", firstKey), ErrInvalidVerifyKey)
	require.NoError(t, svc.Verify(ctx, "ren@example.com", secondKey))
}
