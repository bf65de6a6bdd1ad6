package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/praxislegal/lexia/internal/config"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/pkg/errors"
	"github.com/praxislegal/lexia/pkg/types/common"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const identityContextKey contextKey = iota

// Identity is the authenticated principal attached to the request context.
type Identity struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Roles    []string
}

// TokenValidator validates a bearer token and resolves the principal.
type TokenValidator interface {
	ValidateToken(token string) (*Identity, error)
}

// APIKeyValidator resolves an API key to a service principal. Key-based
// callers act on behalf of a tenant, not an individual user.
type APIKeyValidator interface {
	ValidateAPIKey(ctx context.Context, key string) (*Identity, error)
}

// AuthMiddleware authenticates requests with a JWT bearer token or an
// X-API-Key header. Bearer tokens win when both are present.
type AuthMiddleware struct {
	tokens       TokenValidator
	apiKeys      APIKeyValidator
	tenantHeader string
	logger       logging.Logger
}

func NewAuthMiddleware(tokens TokenValidator, apiKeys APIKeyValidator, cfg config.AuthConfig, logger logging.Logger) *AuthMiddleware {
	header := cfg.TenantHeader
	if header == "" {
		header = "X-Tenant-ID"
	}
	return &AuthMiddleware{
		tokens:       tokens,
		apiKeys:      apiKeys,
		tenantHeader: header,
		logger:       logger,
	}
}

// Handler enforces authentication. Requests without valid credentials get
// 401; a tenant header that contradicts the credential gets 403.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.authenticate(r)
		if err != nil {
			m.logger.Debug("authentication rejected",
				logging.String("path", r.URL.Path), logging.Err(err))
			writeAuthError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "authentication required")
			return
		}

		// A tenant header is optional but must agree with the credential.
		if header := r.Header.Get(m.tenantHeader); header != "" && header != identity.TenantID.String() {
			writeAuthError(w, http.StatusForbidden, errors.ErrCodeForbidden, "tenant mismatch")
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) (*Identity, error) {
	if token := bearerToken(r); token != "" {
		return m.tokens.ValidateToken(token)
	}
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" && m.apiKeys != nil {
		return m.apiKeys.ValidateAPIKey(r.Context(), key)
	}
	return nil, errors.Unauthorized("no credentials")
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// IdentityFrom retrieves the authenticated principal from the context.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	return identity, ok
}

// WithIdentity attaches a principal to the context. Exposed for handler
// tests that bypass the middleware.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// writeAuthError writes a minimal JSON error without leaking detail about
// which check failed.
func writeAuthError(w http.ResponseWriter, status int, code errors.ErrorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="lexia"`)
	}
	w.WriteHeader(status)
	resp := common.NewErrorResponse(string(code), message)
	writeBody(w, resp)
}

// jwtValidator verifies HS256 tokens signed with the shared platform secret.
type jwtValidator struct {
	secret []byte
}

// NewJWTValidator builds the platform token validator.
func NewJWTValidator(cfg config.AuthConfig) TokenValidator {
	return &jwtValidator{secret: []byte(cfg.JWTSecret)}
}

type platformClaims struct {
	TenantID string   `json:"tenant_id"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

func (v *jwtValidator) ValidateToken(raw string) (*Identity, error) {
	claims := &platformClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Unauthorized("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.Wrap(err, errors.ErrCodeUnauthorized, "invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Unauthorized("malformed subject claim")
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, errors.Unauthorized("malformed tenant claim")
	}

	return &Identity{UserID: userID, TenantID: tenantID, Roles: claims.Roles}, nil
}
