package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/eventmarket/auth/internal/auth/service"
	"github.com/eventmarket/auth/internal/auth/store"
	"github.com/eventmarket/auth/pkg/httpx"
	"github.com/eventmarket/auth/pkg/jwtx"
	"github.com/eventmarket/auth/pkg/slogx"

	_ "github.com/eventmarket/auth/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// RateLimits groups the limiter profiles applied per route class.
type RateLimits struct {
	Credential httpx.RateLimitConfig
	Session    httpx.RateLimitConfig
	Read       httpx.RateLimitConfig
}

// DefaultRateLimits returns the httpx profiles, overridable through
// RATELIMIT_CREDENTIAL_*, RATELIMIT_SESSION_* and RATELIMIT_READ_*.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Credential: httpx.ParseRateLimitFromEnv("CREDENTIAL", httpx.CredentialLimit),
		Session:    httpx.ParseRateLimitFromEnv("SESSION", httpx.SessionLimit),
		Read:       httpx.ParseRateLimitFromEnv("READ", httpx.ReadLimit),
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        jwtx.Codec
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	TokenService      *service.TokenService
	UserService       *service.UserService
	FederationService *service.FederationService
	Google            ProfileFetcher

	Cookies      CookieConfig
	Limits       RateLimits
	Metrics      *Metrics
	AutoRegister bool
}

func NewRouter(
	codec jwtx.Codec,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Limits:       DefaultRateLimits(),
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	if r.Metrics == nil {
		r.Metrics = NewMetrics(nil)
	}

	r.registerAuth()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Marketplace Authentication Service API
//	@version		0.1.0
//	@description	Registration, sign in and session tokens for the marketplace.
//	@description
//	@description				Sessions are a pair of HMAC signed tokens: a short lived access token and a long lived refresh token.
//	@description				Both are delivered as HttpOnly cookies; the access token is also accepted as a bearer header.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Users:        r.UserService,
		Tokens:       r.TokenService,
		Federation:   r.FederationService,
		Google:       r.Google,
		Cookies:      r.Cookies,
		Metrics:      r.Metrics,
		AutoRegister: r.AutoRegister,
	}

	// Credential checks - strict rate limit by IP
	credential := httpx.RateLimitByIP(r.Limits.Credential)
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister), credential),
	)
	r.Mux.Handle("POST /v1/auth/register/google",
		httpx.Chain(http.HandlerFunc(h.HandleRegisterGoogle), credential),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin), credential),
	)

	// POST /token - rate limited by IP + username to slow down guessing
	r.Mux.Handle("POST /v1/auth/token",
		httpx.Chain(http.HandlerFunc(h.HandleToken),
			httpx.RateLimitByIPAndFormField(r.Limits.Credential, "username"),
		),
	)

	session := httpx.RateLimitByIP(r.Limits.Session)
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh), session),
	)
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout), session),
	)
}

func (r *Router) registerUsers() {
	h := &UserHandler{UserService: r.UserService}

	secured := httpx.Chain(h,
		httpx.AuthnMiddleware(r.codec, AccessCookieName),
		httpx.RateLimitByPrincipal(r.Limits.Read),
	)

	r.Mux.Handle("GET /v1/user", secured)
}

func (r *Router) registerSystem() {
	h := &HealthHandler{
		StartTime: r.startTime,
		Version:   r.buildVersion,
		Store:     r.store,
		Codec:     r.codec,
	}

	// Probes - monitoring systems may poll frequently
	probe := httpx.RateLimitByIP(r.Limits.Read)
	r.Mux.Handle("GET /livez", httpx.Chain(http.HandlerFunc(h.Livez), probe))
	r.Mux.Handle("GET /readyz", httpx.Chain(http.HandlerFunc(h.Readyz), probe))

	r.Mux.Handle("GET /metrics", r.Metrics.Handler())
}
