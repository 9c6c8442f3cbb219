package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"auctionhouse/internal/errors"
)

const (
	tokenContextKey    = "user"
	identityContextKey = "identity"
)

// Identity is the per-request result of the identity collaborator.
type Identity struct {
	Authenticated   bool
	ID              string
	DisplayNameHint string
	TokenID         string
	ExpiresAt       time.Time
}

func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: errors.ErrUnauthorized.Error(),
		Code:  "UNAUTHORIZED",
	})
}

// RequireIdentity verifies the bearer token, rejects revoked tokens and
// stores the resolved Identity on the context.
func (s *JWTService) RequireIdentity(store TokenStoreInterface) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		SigningKey:    s.secret,
		SigningMethod: "HS256",
		ContextKey:    tokenContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			log.WithField("error", err.Error()).Debug("auth: token rejected")
			return unauthorized()
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(func(c echo.Context) error {
			token, ok := c.Get(tokenContextKey).(*jwt.Token)
			if !ok {
				return unauthorized()
			}
			claims, ok := token.Claims.(*Claims)
			if !ok || claims.Subject == "" {
				return unauthorized()
			}

			revoked, err := store.IsAccessTokenRevoked(c.Request().Context(), claims.ID)
			if err != nil || revoked {
				return unauthorized()
			}

			identity := Identity{
				Authenticated:   true,
				ID:              claims.Subject,
				DisplayNameHint: claims.Name,
				TokenID:         claims.ID,
			}
			if claims.ExpiresAt != nil {
				identity.ExpiresAt = claims.ExpiresAt.Time
			}
			c.Set(identityContextKey, identity)
			return next(c)
		})
	}
}

// IdentityFrom returns the identity resolved by RequireIdentity.
func IdentityFrom(c echo.Context) (Identity, bool) {
	identity, ok := c.Get(identityContextKey).(Identity)
	if !ok || !identity.Authenticated || identity.ID == "" {
		return Identity{}, false
	}
	return identity, true
}

// WithIdentity stores identity on the context. Intended for tests and
// trusted internal callers.
func WithIdentity(c echo.Context, identity Identity) {
	c.Set(identityContextKey, identity)
}
