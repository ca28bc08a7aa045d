package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/portfoliogenius/advisor/internal/apierr"
)

// Identity describes the authenticated caller
type Identity struct {
	UserID        string `json:"uid"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
}

// Claims is the JWT payload the identity provider issues
type Claims struct {
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates bearer tokens against the identity provider's HS256 secret
type Verifier struct {
	secret []byte
	log    zerolog.Logger
}

// NewVerifier creates a token verifier
func NewVerifier(secret string, log zerolog.Logger) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		log:    log.With().Str("component", "auth").Logger(),
	}
}

// VerifyRequest extracts and validates the bearer token from the request.
// Failures are always AuthenticationError (401).
func (v *Verifier) VerifyRequest(r *http.Request) (*Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, apierr.New(apierr.Authentication, "Authorization header is required")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, apierr.New(apierr.Authentication, "Authorization header must start with 'Bearer '")
	}

	token := strings.TrimPrefix(header, "Bearer ")
	identity, err := v.VerifyToken(token)
	if err != nil {
		return nil, apierr.Newf(apierr.Authentication, "Invalid or expired token: %v", err)
	}

	return identity, nil
}

// VerifyToken validates a raw token string and returns the caller identity
func (v *Verifier) VerifyToken(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return &Identity{
		UserID:        claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
	}, nil
}

type contextKey struct{}

// Middleware authenticates every request and stores the identity in the
// request context. Used on all /api routes except the health check.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := v.VerifyRequest(r)
		if err != nil {
			v.log.Debug().Err(err).Str("path", r.URL.Path).Msg("Authentication failed")
			apierr.Write(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), contextKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the authenticated identity, or nil outside the middleware
func FromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(contextKey{}).(*Identity)
	return identity
}
