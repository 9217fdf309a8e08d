package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// Roles accepted by the API. Patients authenticate through the mobile
// endpoints and carry RolePatient.
const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RoleReceptionist = "receptionist"
	RolePatient      = "patient"
)

// Claims is the JWT payload for staff and patient tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Name     string `json:"name,omitempty"`
	ClinicID *int64 `json:"clinicId,omitempty"`
}

// TokenIssuer signs HS256 tokens with a shared secret.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
}

func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), expiry: expiry}
}

// Sign issues a token for the given identity.
func (t *TokenIssuer) Sign(userID int64, email, role, name string, clinicID *int64) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
		},
		UserID:   userID,
		Email:    email,
		Role:     role,
		Name:     name,
		ClinicID: clinicID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse validates a token string and returns its claims.
func (t *TokenIssuer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Middleware authenticates requests with a Bearer token. A missing token is
// 401; a token that fails validation (bad signature, expired) is 403.
func Middleware(issuer *TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "access token required")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "access token required")
			}

			claims, err := issuer.Parse(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "invalid or expired token")
			}

			ctx := context.WithValue(c.Request().Context(), claimsKey, claims)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// ClaimsFromContext returns the authenticated claims, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}

// WithClaims is a test helper that injects claims into a context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}
