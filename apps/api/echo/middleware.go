package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smartgrade/smartgrade/core/identity"
	"github.com/smartgrade/smartgrade/core/session"
)

// sessionMiddleware admits requests whose token belongs to the active identity, when it holds one of roles.
// Tokens issued before a logout or to another identity are rejected. IDs alone are not unique
// (see session.Manager.Register), so the whole identity must match.
func sessionMiddleware(mgr *session.Manager, roles ...identity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}

			ident, err := mgr.Authorize()
			if err != nil {
				return err
			}
			if claims.Identity() != ident {
				return errSessionEnded
			}
			if !ident.HasAnyRole(roles...) {
				return errHttpForbidden
			}

			ctx.Set(contextIdentityKey, ident)
			return next(ctx)
		}
	}
}

// guestMiddleware only admits requests made without an active session.
func guestMiddleware(mgr *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if mgr.Loading() {
				return session.ErrLoading
			}
			if err := mgr.RequireGuest(); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}
