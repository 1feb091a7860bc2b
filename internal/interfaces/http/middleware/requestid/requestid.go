package requestid

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/manorfm/coffee-shop/internal/domain"
)

// Header carries the request id in both directions
const Header = "X-Request-Id"

// Middleware tags every request with a ULID. A ULID sent by the caller is
// kept, anything else is replaced. The id is visible to chi's logger and
// through domain.GetRequestID.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := domain.ParseRequestID(r.Header.Get(Header))
		if err != nil {
			id = domain.NewRequestID()
		}

		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		ctx = domain.WithRequestID(ctx, id)

		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
