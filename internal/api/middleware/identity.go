package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/coffeetica/coffeetica/internal/api/metrics"
	"github.com/coffeetica/coffeetica/internal/core/domain"
)

const principalKey = "principal"

// PrincipalResolver turns a raw bearer token into a Principal.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (domain.Principal, error)
}

// Identity attaches a Principal to every request. A missing, malformed,
// tampered or expired token, or one naming a deleted account, leaves the
// request anonymous; rules decide later whether that matters. Only
// unexpected resolver failures abort the request.
func Identity(resolver PrincipalResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := domain.AnonymousPrincipal()

			if token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)); ok {
				p, err := resolver.Resolve(c.Request().Context(), token)
				switch {
				case err == nil:
					principal = p
				case errors.Is(err, domain.ErrInvalidToken):
					reason, _ := domain.TokenFailureOf(err)
					metrics.TokenValidationFailuresTotal.WithLabelValues(string(reason)).Inc()
					log.Debug().Str("reason", string(reason)).Msg("bearer token rejected")
				case errors.Is(err, domain.ErrAccountNotFound):
					metrics.TokenValidationFailuresTotal.WithLabelValues("unknown_account").Inc()
					log.Debug().Msg("bearer token names an unknown account")
				default:
					return err
				}
			}

			SetPrincipal(c, principal)
			return next(c)
		}
	}
}

// SetPrincipal attaches p to the request.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// CurrentPrincipal returns the Principal attached by Identity, or the
// anonymous principal when none is attached.
func CurrentPrincipal(c echo.Context) domain.Principal {
	if p, ok := c.Get(principalKey).(domain.Principal); ok {
		return p
	}
	return domain.AnonymousPrincipal()
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
