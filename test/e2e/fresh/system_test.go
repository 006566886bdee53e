package fresh_test

import (
	"context"
	"testing"

	"github.com/thedevsir/fresh/pkg/freshsdk"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(srv.URL, uniqueIP(80))
	ctx := context.Background()

	health, err := c.Livez(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "e2e", health.Version)
	require.NotEmpty(t, health.Uptime)
}

func TestContactForm(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(srv.URL, uniqueIP(81))
	ctx := context.Background()

	require.NoError(t, c.Contact(ctx, freshsdk.ContactRequest{
		Name:    "Visitor",
		Email:   "visitor@example.com",
		Message: "hello there",
	}))

	srv.Mailer.mu.Lock()
	defer srv.Mailer.mu.Unlock()
	require.NotEmpty(t, srv.Mailer.sent)
	last := srv.Mailer.sent[len(srv.Mailer.sent)-1]
	require.Equal(t, contactInbox, last.To)
	require.Equal(t, "contact", last.Template)
	require.Equal(t, "visitor@example.com", last.Data["email"])

	// Garbage submissions are refused before any mail goes out.
	err := c.Contact(ctx, freshsdk.ContactRequest{Name: "X", Email: "not-an-address", Message: "hi"})
	requireAPIError(t, err, "invalid_request")
}
