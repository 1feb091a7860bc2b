package domain

import "context"

// ContextKey is a type for context keys to avoid magic strings
type ContextKey string

const (
	// ContextKeyRequestID is the key for the request ID in the context
	ContextKeyRequestID ContextKey = "request_id"
	// ContextKeyAuthorization is the key for the AuthorizedContext in the context
	ContextKeyAuthorization ContextKey = "authorization"
)

// WithRequestID adds the request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// GetRequestID retrieves the request ID from the context
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(ContextKeyRequestID).(string)
	return requestID, ok
}

// WithAuthorization adds the authorized caller to the context
func WithAuthorization(ctx context.Context, authz *AuthorizedContext) context.Context {
	return context.WithValue(ctx, ContextKeyAuthorization, authz)
}

// GetAuthorization retrieves the authorized caller from the context
func GetAuthorization(ctx context.Context) (*AuthorizedContext, bool) {
	authz, ok := ctx.Value(ContextKeyAuthorization).(*AuthorizedContext)
	return authz, ok && authz != nil
}
