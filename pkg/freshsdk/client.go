package freshsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client talks to a Fresh server. It exposes the unauthenticated flows and
// mints authenticated Sessions from login and signup.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Signup registers a new user and returns a logged-in Session.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	var resp AuthResponse
	if err := c.postJSON(ctx, "/v1/signup", req, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	return newSession(c, resp), nil
}

// Login authenticates and returns a Session holding the credential bundle.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var resp AuthResponse
	req := LoginRequest{Username: username, Password: password}
	if err := c.postJSON(ctx, "/v1/login", req, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, resp), nil
}

// Verify redeems a mailed e-mail-verification key.
func (c *Client) Verify(ctx context.Context, email, key string) error {
	var resp MessageResponse
	return c.postJSON(ctx, "/v1/signup/verify", VerifyRequest{Email: email, Key: key}, &resp, http.StatusOK)
}

// ResendVerification asks for a fresh verification mail.
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	var resp MessageResponse
	return c.postJSON(ctx, "/v1/signup/verify/resend", ResendVerifyRequest{Email: email}, &resp, http.StatusOK)
}

// Forgot starts the password-reset flow for the given e-mail address.
func (c *Client) Forgot(ctx context.Context, email string) error {
	var resp MessageResponse
	return c.postJSON(ctx, "/v1/login/forgot", ForgotRequest{Email: email}, &resp, http.StatusOK)
}

// Reset redeems a mailed reset key for a new password.
func (c *Client) Reset(ctx context.Context, email, key, password string) error {
	var resp MessageResponse
	req := ResetRequest{Email: email, Key: key, Password: password}
	return c.postJSON(ctx, "/v1/login/reset", req, &resp, http.StatusOK)
}

// Contact forwards a message through the server's mailer.
func (c *Client) Contact(ctx context.Context, req ContactRequest) error {
	var resp MessageResponse
	return c.postJSON(ctx, "/v1/contact", req, &resp, http.StatusOK)
}

// Livez checks the liveness endpoint.
func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var resp HealthResponse
	err := c.getJSON(ctx, "/livez", &resp, http.StatusOK)
	return resp, err
}

// NewSessionFromToken builds an authenticated Session from a stored
// credential bundle.
func (c *Client) NewSessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}

func newSession(c *Client, resp AuthResponse) *Session {
	return &Session{
		client:    c,
		token:     resp.Token,
		sessionID: resp.Session.ID,
		User:      resp.User,
	}
}
