package jwt

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/manorfm/coffee-shop/internal/domain"
	"github.com/manorfm/coffee-shop/internal/infrastructure/config"
	"go.uber.org/zap"
)

// KeyResolver looks up the identity provider's public keys by key id
type KeyResolver interface {
	Resolve(ctx context.Context, kid string) (*domain.SigningKey, error)
}

// Verifier verifies access tokens issued by the identity provider
type Verifier struct {
	resolver   KeyResolver
	issuer     string
	audience   string
	algorithms []string
	leeway     time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// NewVerifier creates a verifier bound to the configured issuer, audience and algorithms
func NewVerifier(resolver KeyResolver, cfg *config.Config, logger *zap.Logger) *Verifier {
	return &Verifier{
		resolver:   resolver,
		issuer:     cfg.AuthIssuer,
		audience:   cfg.AuthAudience,
		algorithms: cfg.AuthAlgorithms,
		leeway:     cfg.AuthLeeway,
		now:        time.Now,
		logger:     logger,
	}
}

// Verify checks the token structure, signature and standard claims and
// returns the decoded claims. Every failure is a *domain.AuthError.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (domain.Claims, error) {
	if err := checkSegments(rawToken); err != nil {
		v.logger.Debug("Malformed token", zap.Error(err))
		return nil, domain.ErrInvalidHeader("Unable to parse authentication token.", err)
	}

	unverified, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{})
	if unverified == nil || errors.Is(err, jwt.ErrTokenMalformed) {
		v.logger.Debug("Malformed token", zap.Error(err))
		return nil, domain.ErrInvalidHeader("Unable to parse authentication token.", err)
	}

	kid, _ := unverified.Header["kid"].(string)
	if kid == "" {
		v.logger.Warn("Token header without kid")
		return nil, domain.ErrInvalidHeader("Authorization malformed.", nil)
	}

	alg, _ := unverified.Header["alg"].(string)
	if err != nil || !v.allowed(alg) {
		v.logger.Warn("Token signed with a disallowed algorithm",
			zap.String("alg", alg),
			zap.String("kid", kid))
		return nil, domain.ErrInvalidSignatureOrClaims("Unexpected signing algorithm.", err)
	}

	key, err := v.resolver.Resolve(ctx, kid)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			v.logger.Warn("No signing key for token", zap.String("kid", kid))
			return nil, domain.ErrInvalidHeader("Unable to find the appropriate key.", err)
		}
		v.logger.Error("Unable to resolve signing key", zap.String("kid", kid), zap.Error(err))
		return nil, domain.ErrKeySetFetch(err)
	}

	claims := jwt.MapClaims{}
	_, err = v.parser().ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if key.Algorithm != "" && token.Method.Alg() != key.Algorithm {
			return nil, fmt.Errorf("token algorithm %s does not match key algorithm %s", token.Method.Alg(), key.Algorithm)
		}
		return key.PublicKey, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			v.logger.Warn("Token expired", zap.String("kid", kid), zap.Error(err))
			return nil, domain.ErrTokenExpired(err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			v.logger.Warn("Malformed token", zap.String("kid", kid), zap.Error(err))
			return nil, domain.ErrInvalidHeader("Unable to parse authentication token.", err)
		default:
			v.logger.Warn("Token rejected",
				zap.String("kid", kid),
				zap.String("error_type", fmt.Sprintf("%T", err)),
				zap.Error(err))
			return nil, domain.ErrInvalidSignatureOrClaims("Incorrect claims. Please, check the audience and issuer.", err)
		}
	}

	return domain.Claims(claims), nil
}

func (v *Verifier) parser() *jwt.Parser {
	return jwt.NewParser(
		jwt.WithValidMethods(v.algorithms),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
	)
}

func (v *Verifier) allowed(alg string) bool {
	for _, a := range v.algorithms {
		if a == alg {
			return true
		}
	}
	return false
}

// checkSegments requires three dot separated base64url segments
func checkSegments(rawToken string) error {
	if rawToken == "" {
		return errors.New("token is empty")
	}
	parts := strings.Split(rawToken, ".")
	if len(parts) != 3 {
		return fmt.Errorf("token has %d segments, want 3", len(parts))
	}
	for i, part := range parts {
		if i < 2 && part == "" {
			return fmt.Errorf("token segment %d is empty", i)
		}
		if _, err := base64.RawURLEncoding.DecodeString(part); err != nil {
			return fmt.Errorf("token segment %d is not base64url: %w", i, err)
		}
	}
	return nil
}
