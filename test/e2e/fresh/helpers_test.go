package fresh_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	httpapi "github.com/thedevsir/fresh/internal/fresh/http"
	"github.com/thedevsir/fresh/internal/fresh/service"
	"github.com/thedevsir/fresh/internal/fresh/store/drivers/sqlite"
	"github.com/thedevsir/fresh/pkg/cryptox"
	"github.com/thedevsir/fresh/pkg/freshsdk"
	"github.com/thedevsir/fresh/pkg/httpx"
	"github.com/thedevsir/fresh/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

/*
 * Common helpers for end-to-end tests. Each test boots the full router over
 * an in-memory database and talks to it through the SDK, so the whole stack
 * from HTTP routing down to SQL runs in-process.
 */

const (
	rootEmail    = "root@example.com"
	rootPassword = "Root123!"
	contactInbox = "contact@example.com"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "fresh-e2e-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	// Tests make many rapid requests; production limits would trip
	// constantly. Guard behavior is still exercised because the guard
	// counts failed credentials, not requests.
	generous := httpx.RateLimitConfig{
		RequestsPerWindow: 10000,
		Window:            time.Minute,
		Burst:             10000,
	}
	httpx.StrictLimit = generous
	httpx.ModerateLimit = generous
	httpx.LenientLimit = generous

	os.Exit(m.Run())
}

// captureMailer records sends so tests can fish mailed keys back out.
type captureMailer struct {
	mu   sync.Mutex
	sent []capturedMail
}

type capturedMail struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

func (m *captureMailer) Send(ctx context.Context, to, subject, template string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, capturedMail{To: to, Subject: subject, Template: template, Data: data})
	return nil
}

// lastKey returns the "key" field of the most recent mail with the given
// template, or fails the test.
func (m *captureMailer) lastKey(t *testing.T, template string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].Template == template {
			key, _ := m.sent[i].Data["key"].(string)
			require.NotEmpty(t, key)
			return key
		}
	}
	t.Fatalf("no %q mail captured", template)
	return ""
}

type testServer struct {
	*httptest.Server
	Mailer *captureMailer
}

// newTestServer wires the full application stack against an in-memory
// database, seeds the root admin, and serves it over httptest.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewCodec("e2e-signing-secret", "fresh-e2e")
	require.NoError(t, err)

	mailer := &captureMailer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sessions := &service.SessionService{Store: st}
	guard := service.NewGuardService(st, 0, 0, 0)

	router := httpapi.NewRouter("e2e", contactInbox, st, logger)
	router.Auth = &service.AuthService{Store: st, Sessions: sessions, Codec: codec}
	router.Roles = &service.RoleService{Store: st}
	router.Login = &service.LoginService{
		Store:    st,
		Sessions: sessions,
		Guard:    guard,
		Codec:    codec,
		Mailer:   mailer,
	}
	router.Signup = &service.SignupService{
		Store:    st,
		Sessions: sessions,
		Codec:    codec,
		Mailer:   mailer,
	}
	router.Sessions = sessions
	router.Users = &service.UserService{Store: st}
	router.Admins = &service.AdminService{Store: st}
	router.Groups = &service.AdminGroupService{Store: st}
	router.Accounts = &service.AccountService{Store: st}
	router.Statuses = &service.StatusService{Store: st}
	router.Links = &service.LinkService{Store: st}
	router.Mailer = mailer
	router.ApplyRoutes()

	bootstrap := &service.BootstrapService{Store: st}
	require.NoError(t, bootstrap.EnsureRoot(ctx, rootEmail, rootPassword))

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return &testServer{Server: ts, Mailer: mailer}
}

// ipTransport stamps every request with a fixed client address so tests can
// act as distinct callers behind the guard and the rate limiter.
type ipTransport struct {
	ip   string
	base http.RoundTripper
}

func (tr ipTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-Forwarded-For", tr.ip)
	return tr.base.RoundTrip(req)
}

// newClient returns an SDK client that appears to connect from the given
// address.
func newClient(baseURL, ip string) *freshsdk.Client {
	c := freshsdk.NewClient(baseURL)
	c.HTTPClient = &http.Client{
		Timeout:   10 * time.Second,
		Transport: ipTransport{ip: ip, base: http.DefaultTransport},
	}
	return c
}

// signupUser registers a fresh user through the API and returns its live
// session. The user is not yet e-mail verified.
func signupUser(t *testing.T, c *freshsdk.Client, name, username, password string) *freshsdk.Session {
	t.Helper()

	sess, err := c.Signup(context.Background(), freshsdk.SignupRequest{
		Name:     name,
		Email:    username + "@example.com",
		Username: username,
		Password: password,
	})
	require.NoError(t, err)
	return sess
}

// rootSession logs in as the seeded root admin.
func rootSession(t *testing.T, c *freshsdk.Client) *freshsdk.Session {
	t.Helper()

	sess, err := c.Login(context.Background(), "root", rootPassword)
	require.NoError(t, err)
	return sess
}

func uniqueIP(n int) string {
	return fmt.Sprintf("10.1.%d.%d", n/250, n%250+1)
}
