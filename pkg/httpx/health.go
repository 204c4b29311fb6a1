package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// HealthChecker is satisfied by every infrastructure dependency with a Ping
// method: database.Database, cache.RedisClient and events.EventBus.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks names the dependencies the health endpoint probes.
type HealthChecks map[string]HealthChecker

type healthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

// HealthHandler probes every dependency concurrently, each within a shared
// 2 s budget. Any failure turns the response into 503 "degraded".
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Dependencies: make(map[string]string, len(checks))}
		var mu sync.Mutex
		var g errgroup.Group
		for name, checker := range checks {
			g.Go(func() error {
				state := "ok"
				if err := checker.Ping(ctx); err != nil {
					state = "unreachable"
				}
				mu.Lock()
				resp.Dependencies[name] = state
				if state != "ok" {
					resp.Status = "degraded"
				}
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}
