package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	limiter "github.com/ulule/limiter/v3"
	limiterhttp "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/opsdesk/backoffice/pkg/configuration"
)

// RateLimit applies a global per-client request rate limit backed by the
// in-memory store. Disabled entirely when the configuration says so.
func RateLimit() mux.MiddlewareFunc {
	conf := configuration.Use()
	if !conf.RateLimit.Enabled || conf.RateLimit.GlobalRPS <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	instance := limiter.New(memory.NewStore(), limiter.Rate{
		Period: time.Second,
		Limit:  int64(conf.RateLimit.GlobalRPS),
	})
	wrapped := limiterhttp.NewMiddleware(instance)

	return func(next http.Handler) http.Handler {
		return wrapped.Handler(next)
	}
}
