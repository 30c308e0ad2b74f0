package httpx

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// HealthChecker is satisfied by any infrastructure dependency that exposes
// a Ping method (Database, MongoClient, RedisClient, EventBus all qualify).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks maps a dependency name (reported as a JSON key in the health
// response) to its checker. Nil checkers are skipped, so optional
// dependencies can be registered unconditionally.
type HealthChecks map[string]HealthChecker

// HealthHandler returns an http.HandlerFunc that probes all registered
// HealthCheckers and reports degraded status if any of them fail.
// Probes share a 2 second deadline; the endpoint answers 503 when degraded.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := map[string]string{"status": "ok"}
		status := http.StatusOK

		for _, name := range names {
			checker := checks[name]
			if checker == nil {
				continue
			}
			if err := checker.Ping(ctx); err != nil {
				resp[name] = "unreachable"
				resp["status"] = "degraded"
				status = http.StatusServiceUnavailable
			} else {
				resp[name] = "ok"
			}
		}

		JSON(w, status, resp)
	}
}
