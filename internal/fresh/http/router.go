package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/service"
	"github.com/thedevsir/fresh/internal/fresh/store"
	"github.com/thedevsir/fresh/pkg/httpx"
	"github.com/thedevsir/fresh/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	contactTo    string

	store    store.Store
	Auth     *service.AuthService
	Roles    *service.RoleService
	Login    *service.LoginService
	Signup   *service.SignupService
	Sessions *service.SessionService
	Users    *service.UserService
	Admins   *service.AdminService
	Groups   *service.AdminGroupService
	Accounts *service.AccountService
	Statuses *service.StatusService
	Links    *service.LinkService
	Mailer   service.Mailer
}

func NewRouter(
	buildVersion, contactTo string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		contactTo:    contactTo,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSignup()
	r.registerSessions()
	r.registerUsers()
	r.registerAdmins()
	r.registerGroups()
	r.registerAccounts()
	r.registerStatuses()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	loginHandler := &LoginHandler{Login: r.Login}

	// POST /login - strict rate limit by IP + username to slow brute force
	// without letting one noisy client starve a shared NAT.
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(http.HandlerFunc(loginHandler.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "username"),
		),
	)

	r.Mux.Handle("POST /v1/login/forgot",
		httpx.Chain(http.HandlerFunc(loginHandler.HandleForgot),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/login/reset",
		httpx.Chain(http.HandlerFunc(loginHandler.HandleReset),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// DELETE /logout authenticates inside the handler so a dead session
	// still gets a friendly 200.
	logoutHandler := &LogoutHandler{Router: r, Login: r.Login}
	r.Mux.Handle("DELETE /v1/logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	contactHandler := &ContactHandler{Mailer: r.Mailer, ContactTo: r.contactTo}
	r.Mux.Handle("POST /v1/contact",
		httpx.Chain(http.HandlerFunc(contactHandler.HandleContact),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSignup() {
	signupHandler := &SignupHandler{Signup: r.Signup}

	r.Mux.Handle("POST /v1/signup",
		httpx.Chain(http.HandlerFunc(signupHandler.HandleSignup),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/signup/verify",
		httpx.Chain(http.HandlerFunc(signupHandler.HandleVerify),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/signup/verify/resend",
		httpx.Chain(http.HandlerFunc(signupHandler.HandleResend),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSessions() {
	sessionsHandler := &SessionsHandler{Sessions: r.Sessions}

	r.Mux.Handle("GET /v1/sessions/my",
		httpx.Chain(http.HandlerFunc(sessionsHandler.HandleList),
			r.AuthnSession(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("DELETE /v1/sessions/my/{id}",
		httpx.Chain(http.HandlerFunc(sessionsHandler.HandleRevoke),
			r.AuthnSession(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	usersHandler := &UsersHandler{Users: r.Users}

	r.Mux.Handle("GET /v1/users/my",
		httpx.Chain(http.HandlerFunc(usersHandler.HandleMe),
			r.AuthnUserSession(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("PUT /v1/users/my",
		httpx.Chain(http.HandlerFunc(usersHandler.HandleUpdateMe),
			r.AuthnUserSession(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("PUT /v1/users/my/password",
		httpx.Chain(http.HandlerFunc(usersHandler.HandleUpdatePassword),
			r.AuthnUserSession(),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)

	// Staff-only user management.
	r.Mux.Handle("GET /v1/users",
		httpx.Chain(http.HandlerFunc(usersHandler.HandleList),
			r.AuthnUserSession(),
			httpx.RequireAnyScope("admin"),
			r.RequireRoot(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("PUT /v1/users/{id}/active",
		httpx.Chain(http.HandlerFunc(usersHandler.HandleSetActive),
			r.AuthnUserSession(),
			httpx.RequireAnyScope("admin"),
			r.RequireRoot(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("DELETE /v1/users/{id}",
		httpx.Chain(http.HandlerFunc(usersHandler.HandleDelete),
			r.AuthnUserSession(),
			httpx.RequireAnyScope("admin"),
			r.RequireRoot(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAdmins() {
	adminsHandler := &AdminsHandler{Admins: r.Admins, Links: r.Links, Store: r.store}

	root := func(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(h,
			r.AuthnUserSession(),
			httpx.RequireAnyScope("admin"),
			r.RequireRoot(),
			httpx.RateLimitByUser(limit),
		)
	}

	r.Mux.Handle("POST /v1/admins", root(adminsHandler.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/admins", root(adminsHandler.HandleList, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/admins/{id}", root(adminsHandler.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/admins/{id}", root(adminsHandler.HandleUpdateName, httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/admins/{id}/groups", root(adminsHandler.HandleSetGroups, httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/admins/{id}/permissions", root(adminsHandler.HandleSetPermissions, httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/admins/{id}/user", root(adminsHandler.HandleLinkUser, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/admins/{id}/user", root(adminsHandler.HandleUnlinkUser, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/admins/{id}", root(adminsHandler.HandleDelete, httpx.ModerateLimit))
}

func (r *Router) registerGroups() {
	groupsHandler := &GroupsHandler{Groups: r.Groups}

	root := func(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(h,
			r.AuthnUserSession(),
			httpx.RequireAnyScope("admin"),
			r.RequireRoot(),
			httpx.RateLimitByUser(limit),
		)
	}

	r.Mux.Handle("POST /v1/admin-groups", root(groupsHandler.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/admin-groups", root(groupsHandler.HandleList, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/admin-groups/{id}", root(groupsHandler.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/admin-groups/{id}", root(groupsHandler.HandleUpdateName, httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/admin-groups/{id}/permissions", root(groupsHandler.HandleSetPermissions, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/admin-groups/{id}", root(groupsHandler.HandleDelete, httpx.ModerateLimit))
}

func (r *Router) registerAccounts() {
	accountsHandler := &AccountsHandler{
		Accounts: r.Accounts,
		Links:    r.Links,
		Roles:    r.Roles,
		Store:    r.store,
	}

	// Owner self-service.
	r.Mux.Handle("GET /v1/accounts/my",
		httpx.Chain(http.HandlerFunc(accountsHandler.HandleMy),
			r.AuthnUserSession(),
			httpx.RequireAnyScope("account"),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("PUT /v1/accounts/my",
		httpx.Chain(http.HandlerFunc(accountsHandler.HandleUpdateMy),
			r.AuthnUserSession(),
			httpx.RequireAnyScope("account"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// Staff management, gated on the account.manage permission rather than
	// root so it can be delegated to a support group.
	perm := func(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(h,
			r.AuthnUserSession(),
			httpx.RequireAnyScope("admin"),
			r.RequirePermission(permManageAccounts),
			httpx.RateLimitByUser(limit),
		)
	}

	r.Mux.Handle("POST /v1/accounts", perm(accountsHandler.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/accounts", perm(accountsHandler.HandleList, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/accounts/{id}", perm(accountsHandler.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/accounts/{id}", perm(accountsHandler.HandleUpdateName, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/accounts/{id}/notes", perm(accountsHandler.HandleAddNote, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/accounts/{id}/notes", perm(accountsHandler.HandleListNotes, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/accounts/{id}/status", perm(accountsHandler.HandleSetStatus, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/accounts/{id}/status/history", perm(accountsHandler.HandleHistory, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/accounts/{id}/user", perm(accountsHandler.HandleLinkUser, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/accounts/{id}/user", perm(accountsHandler.HandleUnlinkUser, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/accounts/{id}", perm(accountsHandler.HandleDelete, httpx.ModerateLimit))
}

func (r *Router) registerStatuses() {
	statusesHandler := &StatusesHandler{Statuses: r.Statuses}

	root := func(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(h,
			r.AuthnUserSession(),
			httpx.RequireAnyScope("admin"),
			r.RequireRoot(),
			httpx.RateLimitByUser(limit),
		)
	}

	r.Mux.Handle("POST /v1/statuses", root(statusesHandler.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/statuses", root(statusesHandler.HandleList, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/statuses/{id}", root(statusesHandler.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/statuses/{id}", root(statusesHandler.HandleUpdateName, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/statuses/{id}", root(statusesHandler.HandleDelete, httpx.ModerateLimit))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
