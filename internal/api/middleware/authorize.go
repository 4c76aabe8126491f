package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coffeetica/coffeetica/internal/api/metrics"
	"github.com/coffeetica/coffeetica/internal/core/authz"
)

// Authorizer decides a single authorization request.
type Authorizer interface {
	Authorize(ctx context.Context, req authz.Request) (authz.Decision, error)
}

// Authorize guards a route with rule. targetParam names the path parameter
// holding the target id; it is ignored for rules that need no target.
// A DENY is returned as the matching domain error for the error handler.
func Authorize(engine Authorizer, rule authz.Rule, targetParam string) echo.MiddlewareFunc {
	kind := rule.Kind().String()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := authz.Request{
				Principal: CurrentPrincipal(c),
				Rule:      rule,
			}
			if targetParam != "" {
				req.Target = authz.Target{ID: c.Param(targetParam)}
			}

			start := time.Now()
			decision, err := engine.Authorize(c.Request().Context(), req)
			metrics.AuthzDecisionDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
			if err != nil {
				return fmt.Errorf("authorize %s: %w", rule, err)
			}

			metrics.AuthzDecisionsTotal.WithLabelValues(kind, decision.Outcome(), string(decision.Reason)).Inc()
			if !decision.Allowed {
				return decision.Err()
			}
			return next(c)
		}
	}
}
