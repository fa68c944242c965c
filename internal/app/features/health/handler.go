// internal/app/features/health/handler.go
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/planaula/planaula/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler answers liveness probes with a small JSON document. It is the
// only unauthenticated JSON endpoint in the app.
type Handler struct {
	Client *mongo.Client
	Log    *zap.Logger

	startedAt time.Time
}

func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{
		Client:    client,
		Log:       logger,
		startedAt: time.Now(),
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// ServeHealth handles GET /health. The endpoint reports 200 whenever the
// process is up; a failing Mongo ping is surfaced in the body and as a 503
// so load balancers can drain the instance.
func (h *Handler) ServeHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	resp := healthResponse{
		Status:   "ok",
		Database: "ok",
		Uptime:   time.Since(h.startedAt).Round(time.Second).String(),
	}

	code := http.StatusOK
	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Warn("health check mongo ping failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Database = "unreachable"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
