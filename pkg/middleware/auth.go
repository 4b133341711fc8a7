package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/opsdesk/backoffice/pkg/composables"
	"github.com/opsdesk/backoffice/pkg/configuration"
	"github.com/opsdesk/backoffice/pkg/httpapi"
)

const (
	authHeader   = "Authorization"
	bearerScheme = "Bearer "
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by access tokens issued for the back office.
type Claims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearerScheme)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearerScheme):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func parseToken(token, secret string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authorize validates the bearer token and injects the caller subject into the
// context. When no JWT secret is configured, auth is disabled and requests
// pass through anonymously.
func Authorize() mux.MiddlewareFunc {
	conf := configuration.Use()
	secret := conf.Auth.JWTSecret

	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, err := extractBearerToken(r.Header.Get(authHeader))
			if err != nil {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error(), nil)
				return
			}

			claims, err := parseToken(token, secret)
			if err != nil {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token", nil)
				return
			}

			ctx := composables.WithSubject(r.Context(), &composables.Subject{
				ID:    claims.Subject,
				Email: claims.Email,
				Roles: claims.Roles,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
