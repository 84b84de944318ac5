package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/batimatch/batimatch/internal/domain"
	"github.com/batimatch/batimatch/internal/interface/rest/presenter"
	"github.com/batimatch/batimatch/internal/token"
)

var tracer = otel.Tracer("interface/rest/middleware")

type AuthMiddleware struct {
	issuer *token.Issuer
}

func NewAuthMiddleware(issuer *token.Issuer) *AuthMiddleware {
	return &AuthMiddleware{issuer: issuer}
}

// Identify extracts the requester from the Authorization header when present.
// An absent or unverifiable token never aborts the request here; handlers
// behind RequireAuth do the enforcement.
func (m *AuthMiddleware) Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Identify")
		defer span.End()

		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)

		if authHeader != "" {
			split := strings.Split(authHeader, " ")
			if len(split) != 2 {
				span.RecordError(fmt.Errorf("invalid authorization header"))
				goto skipCheckAuthorization
			}

			authType, tokenString := split[0], split[1]
			if authType != "Bearer" {
				span.RecordError(fmt.Errorf("only Bearer is acceptable"))
				goto skipCheckAuthorization
			}

			claims, err := m.issuer.VerifyAccess(tokenString)
			if err != nil {
				span.RecordError(err)
				goto skipCheckAuthorization
			}

			ctx = context.WithValue(ctx, domain.RequesterIdCtxKey, claims.UserID)
			ctx = context.WithValue(ctx, domain.RequesterTypeCtxKey, claims.AccountType)
			span.SetAttributes(attribute.Int64("RequesterId", claims.UserID))
		}

	skipCheckAuthorization:
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// RequireAuth rejects requests whose context carries no verified requester.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := RequesterID(c); !ok {
			return presenter.Unauthorized(c, "authentication required")
		}
		return next(c)
	}
}

// RequireType additionally restricts the route to the given account types.
func (m *AuthMiddleware) RequireType(types ...domain.AccountType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			accountType, ok := RequesterType(c)
			if !ok {
				return presenter.Unauthorized(c, "authentication required")
			}
			for _, t := range types {
				if accountType == t {
					return next(c)
				}
			}
			return presenter.Forbidden(c, "this action is not allowed for your account type")
		}
	}
}

// RequesterID reads the verified requester id set by Identify.
func RequesterID(c echo.Context) (int64, bool) {
	id, ok := c.Request().Context().Value(domain.RequesterIdCtxKey).(int64)
	return id, ok
}

// RequesterType reads the verified account type set by Identify.
func RequesterType(c echo.Context) (domain.AccountType, bool) {
	t, ok := c.Request().Context().Value(domain.RequesterTypeCtxKey).(domain.AccountType)
	return t, ok
}
