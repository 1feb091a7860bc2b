package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/manorfm/coffee-shop/internal/domain"
	"github.com/manorfm/coffee-shop/internal/infrastructure/config"
	"github.com/manorfm/coffee-shop/internal/infrastructure/jwks"
	"github.com/manorfm/coffee-shop/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, rawToken string) (domain.Claims, error) {
	args := m.Called(ctx, rawToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Claims), args.Error(1)
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		authz, ok := FromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"sub":         authz.Claims.Subject(),
			"permissions": authz.Permissions.List(),
		})
	})
}

func TestGuard_Require(t *testing.T) {
	tests := []struct {
		name            string
		headers         []string
		mockSetup       func(*MockVerifier)
		expectedStatus  int
		expectedBody    string
		expectedCalled  bool
		verifierInvoked bool
	}{
		{
			name:           "missing header",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"success":false,"error":401,"message":"authorization_header_missing"}`,
		},
		{
			name:           "empty header value",
			headers:        []string{""},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"success":false,"error":401,"message":"authorization_header_missing"}`,
		},
		{
			name:           "blank header value",
			headers:        []string{"   "},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"success":false,"error":401,"message":"authorization_header_missing"}`,
		},
		{
			name:           "token without scheme",
			headers:        []string{"abc.def.ghi"},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"success":false,"error":401,"message":"invalid_header"}`,
		},
		{
			name:           "lower case scheme",
			headers:        []string{"bearer abc.def.ghi"},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"success":false,"error":401,"message":"invalid_header"}`,
		},
		{
			name:           "basic scheme",
			headers:        []string{"Basic dXNlcjpwYXNz"},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"success":false,"error":401,"message":"invalid_header"}`,
		},
		{
			name:           "too many parts",
			headers:        []string{"Bearer abc.def.ghi extra"},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"success":false,"error":401,"message":"invalid_header"}`,
		},
		{
			name:    "verifier rejects token",
			headers: []string{"Bearer abc.def.ghi"},
			mockSetup: func(m *MockVerifier) {
				m.On("Verify", mock.Anything, "abc.def.ghi").Return(nil, domain.ErrTokenExpired(nil))
			},
			expectedStatus:  http.StatusUnauthorized,
			expectedBody:    `{"success":false,"error":401,"message":"token_expired"}`,
			verifierInvoked: true,
		},
		{
			name:    "key set unavailable",
			headers: []string{"Bearer abc.def.ghi"},
			mockSetup: func(m *MockVerifier) {
				m.On("Verify", mock.Anything, "abc.def.ghi").Return(nil, domain.ErrKeySetFetch(domain.ErrKeySetUnavailable))
			},
			expectedStatus:  http.StatusInternalServerError,
			expectedBody:    `{"success":false,"error":500,"message":"key_set_unavailable"}`,
			verifierInvoked: true,
		},
		{
			name:    "permissions claim missing",
			headers: []string{"Bearer abc.def.ghi"},
			mockSetup: func(m *MockVerifier) {
				m.On("Verify", mock.Anything, "abc.def.ghi").Return(domain.Claims{"sub": "auth0|barista"}, nil)
			},
			expectedStatus:  http.StatusBadRequest,
			expectedBody:    `{"success":false,"error":400,"message":"invalid_claims"}`,
			verifierInvoked: true,
		},
		{
			name:    "permission not granted",
			headers: []string{"Bearer abc.def.ghi"},
			mockSetup: func(m *MockVerifier) {
				m.On("Verify", mock.Anything, "abc.def.ghi").Return(domain.Claims{
					"sub":         "auth0|barista",
					"permissions": []interface{}{"get:drinks-detail"},
				}, nil)
			},
			expectedStatus:  http.StatusForbidden,
			expectedBody:    `{"success":false,"error":403,"message":"unauthorized"}`,
			verifierInvoked: true,
		},
		{
			name:    "permission granted",
			headers: []string{"Bearer abc.def.ghi"},
			mockSetup: func(m *MockVerifier) {
				m.On("Verify", mock.Anything, "abc.def.ghi").Return(domain.Claims{
					"sub":         "auth0|manager",
					"permissions": []interface{}{"get:drinks-detail", "post:drinks"},
				}, nil)
			},
			expectedStatus:  http.StatusOK,
			expectedBody:    `{"sub":"auth0|manager","permissions":["get:drinks-detail","post:drinks"]}`,
			expectedCalled:  true,
			verifierInvoked: true,
		},
		{
			name:    "first header wins",
			headers: []string{"Bearer abc.def.ghi", "Basic dXNlcjpwYXNz"},
			mockSetup: func(m *MockVerifier) {
				m.On("Verify", mock.Anything, "abc.def.ghi").Return(domain.Claims{
					"sub":         "auth0|manager",
					"permissions": []interface{}{"post:drinks"},
				}, nil)
			},
			expectedStatus:  http.StatusOK,
			expectedBody:    `{"sub":"auth0|manager","permissions":["post:drinks"]}`,
			expectedCalled:  true,
			verifierInvoked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := new(MockVerifier)
			if tt.mockSetup != nil {
				tt.mockSetup(verifier)
			}
			guard := NewGuard(verifier, zap.NewNop())

			called := false
			handler := guard.Require(domain.PermissionPostDrinks)(okHandler(&called))

			req := httptest.NewRequest(http.MethodPost, "/drinks", nil)
			for _, h := range tt.headers {
				req.Header.Add("Authorization", h)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.Equal(t, tt.expectedCalled, called)
			if tt.verifierInvoked {
				verifier.AssertExpectations(t)
			} else {
				verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestGuard_Authorize(t *testing.T) {
	verifier := new(MockVerifier)
	claims := domain.Claims{
		"sub":         "auth0|manager",
		"permissions": []interface{}{"delete:drinks", "delete:drinks"},
	}
	verifier.On("Verify", mock.Anything, "token").Return(claims, nil)
	guard := NewGuard(verifier, zap.NewNop())

	req := httptest.NewRequest(http.MethodDelete, "/drinks/1", nil)
	req.Header.Set("Authorization", "Bearer token")

	authz, err := guard.Authorize(req, domain.PermissionDeleteDrinks)
	require.NoError(t, err)
	assert.Equal(t, claims, authz.Claims)
	assert.Equal(t, []string{"delete:drinks"}, authz.Permissions.List())

	_, err = guard.Authorize(req, domain.PermissionPatchDrinks)
	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, domain.CodeUnauthorized, authErr.Code)
	assert.Equal(t, http.StatusForbidden, authErr.StatusCode)
}

func TestFromContext_Empty(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
}

// End to end through the real resolver and verifier against a local key set.

const (
	testIssuer   = "https://cheermoon.auth0.com/"
	testAudience = "coffee"
)

type keySetServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newKeySetServer(t *testing.T, publicKey *rsa.PublicKey, kid string) *keySetServer {
	key, err := jwk.FromRaw(publicKey)
	require.NoError(t, err)
	require.NoError(t, key.Set(jwk.KeyIDKey, kid))
	require.NoError(t, key.Set(jwk.AlgorithmKey, jwa.RS256))

	set := jwk.NewSet()
	require.NoError(t, set.AddKey(key))
	body, err := json.Marshal(set)
	require.NoError(t, err)

	s := &keySetServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	t.Cleanup(s.Close)
	return s
}

func newPipeline(t *testing.T, jwksURL string) (*Guard, *jwks.Resolver) {
	cfg := config.NewConfig()
	cfg.AuthIssuer = testIssuer
	cfg.AuthAudience = testAudience
	cfg.JWKSURL = jwksURL
	cfg.JWKSFetchTimeout = 2 * time.Second

	resolver := jwks.NewResolver(cfg, zap.NewNop())
	verifier := jwt.NewVerifier(resolver, cfg, zap.NewNop())
	return NewGuard(verifier, zap.NewNop()), resolver
}

func signedToken(t *testing.T, privateKey *rsa.PrivateKey, kid string, permissions []string) string {
	token := gojwt.NewWithClaims(gojwt.SigningMethodRS256, gojwt.MapClaims{
		"iss":         testIssuer,
		"sub":         "auth0|manager",
		"aud":         testAudience,
		"exp":         time.Now().Add(time.Hour).Unix(),
		"permissions": permissions,
	})
	token.Header["kid"] = kid
	signed, err := token.SignedString(privateKey)
	require.NoError(t, err)
	return signed
}

func TestGuard_UnknownKeyID(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	server := newKeySetServer(t, &privateKey.PublicKey, "key-1")
	guard, resolver := newPipeline(t, server.URL)
	require.NoError(t, resolver.Warm(context.Background()))
	require.Equal(t, int32(1), server.hits.Load())

	called := false
	router := chi.NewRouter()
	router.With(guard.Require(domain.PermissionPostDrinks)).Post("/drinks", okHandler(&called).ServeHTTP)

	req := httptest.NewRequest(http.MethodPost, "/drinks", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, privateKey, "abc123", []string{"post:drinks"}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"error":401,"message":"invalid_header"}`, w.Body.String())
	assert.Equal(t, int32(2), server.hits.Load())
	assert.False(t, called)
}

func TestGuard_ValidTokenEndToEnd(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	server := newKeySetServer(t, &privateKey.PublicKey, "key-1")
	guard, _ := newPipeline(t, server.URL)

	called := false
	handler := guard.Require(domain.PermissionPostDrinks)(okHandler(&called))
	token := signedToken(t, privateKey, "key-1", []string{"post:drinks"})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/drinks", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"sub":"auth0|manager","permissions":["post:drinks"]}`, w.Body.String())
	}
	assert.True(t, called)
	assert.Equal(t, int32(1), server.hits.Load())
}

func TestGuard_MissingPermissionEndToEnd(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	server := newKeySetServer(t, &privateKey.PublicKey, "key-1")
	guard, _ := newPipeline(t, server.URL)

	called := false
	handler := guard.Require(domain.PermissionDeleteDrinks)(okHandler(&called))

	req := httptest.NewRequest(http.MethodDelete, "/drinks/1", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, privateKey, "key-1", []string{"get:drinks-detail", "patch:drinks"}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"success":false,"error":403,"message":"unauthorized"}`, w.Body.String())
	assert.False(t, called)
}
