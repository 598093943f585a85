package echoapi

import (
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assignment"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/content"
	"github.com/trezcool/shule/core/leave"
	"github.com/trezcool/shule/core/message"
	"github.com/trezcool/shule/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHTTPForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHTTPNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// notFoundErrs are the domain lookup failures reported as 404s.
var notFoundErrs = map[error]struct{}{
	user.ErrNotFound:                 {},
	class.ErrNotFound:                {},
	class.ErrEnrollmentNotFound:      {},
	assignment.ErrNotFound:           {},
	assignment.ErrSubmissionNotFound: {},
	attendance.ErrNotFound:           {},
	leave.ErrNotFound:                {},
	message.ErrNotFound:              {},
	content.ErrResourceNotFound:      {},
	content.ErrPostNotFound:          {},
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(srv *server) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		// guard the map lookup: unhashable error types (eg. validator.ValidationErrors) panic as map keys
		if cause != nil && reflect.TypeOf(cause).Comparable() {
			if _, ok := notFoundErrs[cause]; ok {
				cause = errHTTPNotFound
			}
		}
		switch cause {
		case core.ErrAuthRequired:
			cause = errUnauthorized
		case core.ErrPermissionDenied:
			cause = errHTTPForbidden
		}

		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(srv.deps.Translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.ID = claims.Subject
				usr.DisplayName = claims.DisplayName
				usr.Email = claims.Email
			}
			srv.deps.Logger.Error(msg, errors.Wrap(err, msg), usr)

			// shutting down...
			if core.IsShutdown(err) {
				srv.signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
