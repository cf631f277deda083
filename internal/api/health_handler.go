package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/janus/dbpools"
	"github.com/phrazzld/janus/internal/api/shared"
	"github.com/phrazzld/janus/internal/redact"
)

// DefaultHealthTimeout bounds each pool ping.
const DefaultHealthTimeout = 2 * time.Second

// HealthHandler reports whether both pools behind a provider answer.
type HealthHandler struct {
	pools   dbpools.Provider
	timeout time.Duration
	logger  *slog.Logger
}

// NewHealthHandler creates a HealthHandler. A zero timeout means
// DefaultHealthTimeout.
func NewHealthHandler(pools dbpools.Provider, timeout time.Duration, logger *slog.Logger) *HealthHandler {
	if pools == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("pools cannot be nil for HealthHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultHealthTimeout
	}
	return &HealthHandler{
		pools:   pools,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "health_handler")),
	}
}

// replicaReporter is implemented by providers that know whether reads go to
// a separate replica, such as *dbpools.DBPools.
type replicaReporter interface {
	HasReplica() bool
}

// ReplicaNone is reported when reads are served by the primary.
const ReplicaNone = "none"

// Check handles GET /healthz. When the provider reports no replica, only the
// primary is pinged and the replica is reported as ReplicaNone.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Primary: h.ping(r.Context(), "primary", h.pools.Write().Ping),
		Replica: ReplicaNone,
	}
	if rr, ok := h.pools.(replicaReporter); !ok || rr.HasReplica() {
		resp.Replica = h.ping(r.Context(), "replica", h.pools.Read().Ping)
	}

	status := http.StatusOK
	if resp.Primary != "ok" || (resp.Replica != "ok" && resp.Replica != ReplicaNone) {
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}
	shared.RespondWithJSON(w, r, status, resp)
}

func (h *HealthHandler) ping(ctx context.Context, name string, ping func(context.Context) error) string {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := ping(ctx); err != nil {
		h.logger.Warn("pool health check failed",
			slog.String("pool", name),
			slog.String("error", redact.Error(err)))
		return "unreachable"
	}
	return "ok"
}
