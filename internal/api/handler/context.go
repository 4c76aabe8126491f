package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/coffeetica/coffeetica/internal/api/middleware"
	"github.com/coffeetica/coffeetica/internal/core/domain"
)

// currentPrincipal returns the identity attached by the Identity middleware.
// Handlers behind an authenticated rule can rely on it being authenticated;
// the check here guards routes wired without one.
func currentPrincipal(c echo.Context) (domain.Principal, error) {
	p := middleware.CurrentPrincipal(c)
	if !p.IsAuthenticated() {
		return p, domain.ErrUnauthenticated
	}
	return p, nil
}
