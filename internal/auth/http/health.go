package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/eventmarket/auth/internal/auth/store"
	"github.com/eventmarket/auth/pkg/authsdk"
	"github.com/eventmarket/auth/pkg/httpx"
	"github.com/eventmarket/auth/pkg/jwtx"
)

var errNoCodec = errors.New("no token codec configured")

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	StartTime time.Time
	Version   string
	Store     store.Store
	Codec     jwtx.Codec
}

func (h *HealthHandler) report(status string, checks *authsdk.HealthChecks) authsdk.HealthResponse {
	return authsdk.HealthResponse{
		Status:  status,
		Uptime:  time.Since(h.StartTime).Round(time.Second).String(),
		Version: h.Version,
		Checks:  checks,
	}
}

// Livez godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe. Always 200 while the process serves HTTP.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func (h *HealthHandler) Livez(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.report("ok", nil))
}

// Readyz godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe. Pings the database and round-trips a token through the codec.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := &authsdk.HealthChecks{Database: "ok", Codec: "ok"}
	status, code := "ok", http.StatusOK

	if err := h.Store.Ping(r.Context()); err != nil {
		checks.Database = "error: " + err.Error()
		status, code = "degraded", http.StatusServiceUnavailable
	}
	if err := codecReady(h.Codec); err != nil {
		checks.Codec = "error: " + err.Error()
		status, code = "degraded", http.StatusServiceUnavailable
	}

	httpx.WriteJSON(w, code, h.report(status, checks))
}

// codecReady signs and verifies a throwaway token.
func codecReady(codec jwtx.Codec) error {
	if codec == nil {
		return errNoCodec
	}
	tok, err := codec.Encode(jwtx.NewClaims("readyz", "readyz", time.Now(), time.Minute, nil))
	if err != nil {
		return err
	}
	_, err = codec.Decode(tok)
	return err
}
