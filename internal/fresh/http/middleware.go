package http

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/thedevsir/fresh/internal/fresh/domain"
	"github.com/thedevsir/fresh/internal/fresh/service"
	"github.com/thedevsir/fresh/pkg/freshsdk"
	"github.com/thedevsir/fresh/pkg/httpx"
	"github.com/thedevsir/fresh/pkg/slogx"
)

// Permission keys enforced by route middleware. Root group members hold all
// of them implicitly.
const permManageAccounts = "account.manage"

type credentialsCtxKey struct{}

func withCredentials(ctx context.Context, c *service.Credentials) context.Context {
	ctx = context.WithValue(ctx, credentialsCtxKey{}, c)
	ctx = context.WithValue(ctx, httpx.CtxKeyUserID, c.Session.UserID)
	ctx = context.WithValue(ctx, httpx.CtxKeySessionID, c.Session.ID)
	ctx = context.WithValue(ctx, httpx.CtxKeyScopes, c.Claims.Scope)
	return ctx
}

// credentialsFrom returns the validated credentials behind the request, or
// nil outside the authn middleware.
func credentialsFrom(ctx context.Context) *service.Credentials {
	c, _ := ctx.Value(credentialsCtxKey{}).(*service.Credentials)
	return c
}

// AuthnSession admits requests carrying a provable session: a signed bearer
// bundle or a basic `sessionID:key` pair. The user record is not loaded.
func (r *Router) AuthnSession() httpx.Middleware {
	return r.authn(false)
}

// AuthnUserSession is the canonical strategy: the session must check out and
// the user behind it must still exist and be active.
func (r *Router) AuthnUserSession() httpx.Middleware {
	return r.authn(true)
}

func (rt *Router) authn(withUser bool) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v := rt.verdictFor(r, withUser)
			if !v.IsValid {
				writeBearerError(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(withCredentials(r.Context(), v.Credentials)))
		})
	}
}

// verdictFor runs the configured strategy against whatever credential form
// the request presents. Absent or unparseable credentials are simply denied.
func (rt *Router) verdictFor(r *http.Request, withUser bool) service.Verdict {
	ctx := r.Context()

	authz := r.Header.Get("Authorization")
	switch {
	case strings.HasPrefix(authz, "Bearer "):
		raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
		if withUser {
			return rt.Auth.VerifyUserSession(ctx, raw)
		}
		return rt.Auth.VerifySession(ctx, raw)

	case strings.HasPrefix(authz, "Basic "):
		id, key, ok := decodeBasicPair(authz)
		if !ok {
			return service.Deny()
		}
		if withUser {
			return rt.Auth.VerifyUserSessionPair(ctx, id, key)
		}
		return rt.Auth.VerifySessionPair(ctx, id, key)
	}

	return service.Deny()
}

// decodeBasicPair unpacks a basic auth header into a sessionID:key pair.
func decodeBasicPair(authz string) (id, key string, ok bool) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(strings.TrimPrefix(authz, "Basic")))
	if err != nil {
		return "", "", false
	}
	id, key, ok = strings.Cut(string(raw), ":")
	return id, key, ok
}

// RequireRoot admits only callers whose admin belongs to the root group.
// Must run after AuthnUserSession.
func (rt *Router) RequireRoot() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			creds := credentialsFrom(ctx)
			if creds == nil || creds.User == nil {
				writeBearerError(w)
				return
			}

			ok, err := rt.Roles.IsMemberOf(ctx, creds.User, domain.RootGroupID)
			if err != nil {
				slogx.FromContext(ctx).Error("root check failed", "err", err)
				freshsdk.ErrServerError.WriteError(w)
				return
			}
			if !ok {
				freshsdk.ErrInsufficientRole.WriteError(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission admits callers whose admin resolves the given permission
// key to true. Root group members always pass. Must run after
// AuthnUserSession.
func (rt *Router) RequirePermission(key string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			creds := credentialsFrom(ctx)
			if creds == nil || creds.User == nil {
				writeBearerError(w)
				return
			}

			ok, err := rt.Roles.HasPermission(ctx, creds.User, key)
			if err != nil {
				slogx.FromContext(ctx).Error("permission check failed", "key", key, "err", err)
				freshsdk.ErrServerError.WriteError(w)
				return
			}
			if !ok {
				freshsdk.ErrInsufficientRole.WriteError(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	freshsdk.ErrInvalidToken.WriteError(w)
}
