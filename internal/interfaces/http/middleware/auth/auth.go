package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/manorfm/coffee-shop/internal/domain"
	"github.com/manorfm/coffee-shop/internal/infrastructure/jwt"
	httperrors "github.com/manorfm/coffee-shop/internal/interfaces/http/errors"
	"go.uber.org/zap"
)

// TokenVerifier verifies a raw bearer token and returns its claims
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (domain.Claims, error)
}

// Guard authorizes requests against a required permission
type Guard struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

func NewGuard(verifier TokenVerifier, logger *zap.Logger) *Guard {
	return &Guard{verifier: verifier, logger: logger}
}

// Authorize runs the full pipeline for one request: header, token,
// permissions claim and finally the required permission.
func (g *Guard) Authorize(r *http.Request, permission string) (*domain.AuthorizedContext, error) {
	token, err := bearerToken(r)
	if err != nil {
		return nil, err
	}

	claims, err := g.verifier.Verify(r.Context(), token)
	if err != nil {
		return nil, err
	}

	permissions, err := jwt.ExtractPermissions(claims)
	if err != nil {
		return nil, err
	}

	if !permissions.Has(permission) {
		return nil, domain.ErrPermissionDenied(permission)
	}

	return &domain.AuthorizedContext{Claims: claims, Permissions: permissions}, nil
}

// Require returns a middleware that only calls next when the request
// carries a valid token granting permission.
func (g *Guard) Require(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz, err := g.Authorize(r, permission)
			if err != nil {
				authErr := domain.AsAuthError(err)
				fields := []zap.Field{
					zap.String("code", authErr.Code),
					zap.String("description", authErr.Description),
					zap.String("permission", permission),
					zap.String("path", r.URL.Path),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				}
				if authErr.StatusCode >= http.StatusInternalServerError {
					g.logger.Error("Authorization failed", append(fields, zap.Error(authErr.Err))...)
				} else {
					g.logger.Warn("Authorization failed", fields...)
				}
				httperrors.RespondWithAuthError(w, authErr)
				return
			}

			ctx := domain.WithAuthorization(r.Context(), authz)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the authorized caller stored by Require
func FromContext(ctx context.Context) (*domain.AuthorizedContext, bool) {
	return domain.GetAuthorization(ctx)
}

func bearerToken(r *http.Request) (string, error) {
	values := r.Header.Values("Authorization")
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return "", domain.ErrAuthorizationHeaderMissing()
	}

	parts := strings.Split(values[0], " ")
	if len(parts) != 2 {
		return "", domain.ErrInvalidHeader("Authorization header must be bearer token.", nil)
	}
	if parts[0] != "Bearer" {
		return "", domain.ErrInvalidHeader(`Authorization header must start with "Bearer".`, nil)
	}
	return parts[1], nil
}
