package composables

import (
	"context"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/opsdesk/backoffice/pkg/configuration"
	"github.com/opsdesk/backoffice/pkg/constants"
)

type PaginationParams struct {
	Limit  int
	Offset int
	Page   int
}

// UsePaginated reads page/limit query parameters, clamping the limit to the
// configured maximum. Page numbering starts at 1.
func UsePaginated(r *http.Request) PaginationParams {
	conf := configuration.Use()

	limit := conf.PageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > conf.MaxPageSize {
		limit = conf.MaxPageSize
	}

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}

	return PaginationParams{
		Limit:  limit,
		Offset: (page - 1) * limit,
		Page:   page,
	}
}

// UseLogger returns the request-scoped logger. Falls back to a plain entry when
// a call site runs outside the logging middleware (tests, background jobs).
func UseLogger(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(constants.LoggerKey)
	if logger == nil {
		return logrus.NewEntry(configuration.Use().Logger())
	}
	return logger.(*logrus.Entry)
}

func WithLoggerEntry(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, entry)
}

// UseRequestID returns the request id injected by the logging middleware, or ""
// when absent.
func UseRequestID(ctx context.Context) string {
	id, _ := ctx.Value(constants.RequestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.RequestIDKey, id)
}

// Subject is the authenticated caller extracted from the bearer token.
type Subject struct {
	ID    string
	Email string
	Roles []string
}

func WithSubject(ctx context.Context, s *Subject) context.Context {
	return context.WithValue(ctx, constants.UserKey, s)
}

func UseSubject(ctx context.Context) (*Subject, bool) {
	s, ok := ctx.Value(constants.UserKey).(*Subject)
	return s, ok
}
