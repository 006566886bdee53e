package fresh_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuardBlocksRepeatedFailuresForOneAccount(t *testing.T) {
	srv := newTestServer(t)
	ip := uniqueIP(20)
	c := newClient(srv.URL, ip)
	ctx := context.Background()

	signupUser(t, c, "Target User", "target", "Secret123!")

	// Seven failed attempts against one username from one address.
	for i := 0; i < 7; i++ {
		_, err := c.Login(ctx, "target", "wrong-password")
		requireAPIError(t, err, "invalid_credentials")
	}

	// The eighth attempt is blocked before credentials are even checked,
	// so the right password is refused too.
	_, err := c.Login(ctx, "target", "Secret123!")
	requireAPIError(t, err, "too_many_attempts")

	// A different address is unaffected.
	other := newClient(srv.URL, uniqueIP(21))
	sess, err := other.Login(ctx, "target", "Secret123!")
	require.NoError(t, err)
	require.Equal(t, "target", sess.User.Username)

	// The blocked address can still try other usernames.
	signupUser(t, other, "Other User", "other", "Secret123!")
	sess, err = c.Login(ctx, "other", "Secret123!")
	require.NoError(t, err)
	require.Equal(t, "other", sess.User.Username)
}

func TestGuardBlocksNoisyAddressAcrossAccounts(t *testing.T) {
	srv := newTestServer(t)
	ip := uniqueIP(22)
	c := newClient(srv.URL, ip)
	ctx := context.Background()

	signupUser(t, c, "Victim User", "victim", "Secret123!")

	// Fifty failures spread over distinct usernames trip the per-address
	// limit even though no single account hit its own.
	for i := 0; i < 50; i++ {
		_, err := c.Login(ctx, fmt.Sprintf("ghost%d", i), "wrong-password")
		requireAPIError(t, err, "invalid_credentials")
	}

	_, err := c.Login(ctx, "victim", "Secret123!")
	requireAPIError(t, err, "too_many_attempts")

	fresh := newClient(srv.URL, uniqueIP(23))
	_, err = fresh.Login(ctx, "victim", "Secret123!")
	require.NoError(t, err)
}

func TestGuardSuccessfulLoginLeavesNoTrail(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(srv.URL, uniqueIP(24))
	ctx := context.Background()

	signupUser(t, c, "Frequent User", "frequent", "Secret123!")

	// Six failures stay under the per-account limit of seven.
	for i := 0; i < 6; i++ {
		_, err := c.Login(ctx, "frequent", "wrong-password")
		requireAPIError(t, err, "invalid_credentials")
	}

	// Successes are never recorded, so they cannot push the count over.
	for i := 0; i < 5; i++ {
		_, err := c.Login(ctx, "frequent", "Secret123!")
		require.NoError(t, err)
	}

	// Still one failure of headroom left.
	_, err := c.Login(ctx, "frequent", "wrong-password")
	requireAPIError(t, err, "invalid_credentials")
}
