package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/user"
)

// roleMiddleware restricts an endpoint to the given roles.
func roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(ctx)
				}
			}
			return errHTTPForbidden
		}
	}
}

func adminMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(user.RoleAdmin)
}
