package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// RoleOperations is required for operational endpoints such as manual
// assignment retries.
const RoleOperations = "operations"

const principalContextKey = "principal"

// Claims is the token payload: standard registered claims plus the caller's
// roles.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles,omitempty"`
}

var _ ports.TokenVerifier = (*JWTVerifier)(nil)

// JWTVerifier validates HS256 bearer tokens. It fails closed: anything that
// does not parse, verify, and carry a subject is rejected.
type JWTVerifier struct {
	secret []byte
	issuer string
	leeway time.Duration
}

func NewJWTVerifier(secret []byte, issuer string) (*JWTVerifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("signing secret is required")
	}

	return &JWTVerifier{
		secret: append([]byte(nil), secret...),
		issuer: strings.TrimSpace(issuer),
		leeway: 30 * time.Second,
	}, nil
}

func (v *JWTVerifier) Verify(token string) (ports.Principal, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.leeway),
	)

	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return ports.Principal{}, errs.NewValueIsInvalidErrorWithCause("token", err)
	}
	if !parsed.Valid {
		return ports.Principal{}, errs.NewValueIsInvalidError("token")
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return ports.Principal{}, errs.NewValueIsInvalidError("token issuer")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return ports.Principal{}, errs.NewValueIsRequiredError("token subject")
	}

	return ports.Principal{
		Subject: claims.Subject,
		Roles:   claims.Roles,
	}, nil
}

// authMiddleware extracts the bearer token, verifies it, and attaches the
// resulting principal to the request context.
func authMiddleware(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				return c.JSON(http.StatusUnauthorized, errorBody{
					Code:     http.StatusUnauthorized,
					Category: "unauthorized",
					Message:  "missing bearer token",
				})
			}

			principal, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorBody{
					Code:     http.StatusUnauthorized,
					Category: "unauthorized",
					Message:  "invalid token",
				})
			}

			c.Set(principalContextKey, principal)
			return next(c)
		}
	}
}

// requireRole gates a handler on the caller holding the given role.
func requireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !currentPrincipal(c).HasRole(role) {
				return c.JSON(http.StatusForbidden, errorBody{
					Code:     http.StatusForbidden,
					Category: "forbidden",
					Message:  "insufficient role",
				})
			}
			return next(c)
		}
	}
}

func currentPrincipal(c echo.Context) ports.Principal {
	principal, _ := c.Get(principalContextKey).(ports.Principal)
	return principal
}
