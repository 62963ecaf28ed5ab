package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/smartgrade/smartgrade/core"
	"github.com/smartgrade/smartgrade/core/evaluation"
	"github.com/smartgrade/smartgrade/core/identity"
	"github.com/smartgrade/smartgrade/core/session"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errSessionEnded  = echo.NewHTTPError(http.StatusUnauthorized, "session has ended")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
)

// sentinelCodes maps domain errors to their HTTP status.
var sentinelCodes = []struct {
	err  error
	code int
}{
	{session.ErrLoading, http.StatusServiceUnavailable},
	{session.ErrUnauthenticated, http.StatusUnauthorized},
	{session.ErrForbidden, http.StatusForbidden},
	{session.ErrAlreadyAuthenticated, http.StatusConflict},

	{identity.ErrInvalidCredentials, http.StatusBadRequest},

	{evaluation.ErrIncompleteSubmission, http.StatusBadRequest},
	{evaluation.ErrUnknownQuiz, http.StatusNotFound},
	{evaluation.ErrMalformedFeedback, http.StatusBadGateway},

	{context.DeadlineExceeded, http.StatusGatewayTimeout},
}

// sentinelCode compares with == since causes may be of unhashable types (eg. validator.ValidationErrors).
func sentinelCode(cause error) (int, bool) {
	for _, sc := range sentinelCodes {
		if cause == sc.err {
			return sc.code, true
		}
	}
	return 0, false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		if sc, ok := sentinelCode(cause); ok {
			code = sc
			message = cause.Error()
		} else {
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
					fldErrs[vErr.Field()] = vErr.Translate(translator)
				}
				code = http.StatusBadRequest
				message = fldErrs
			case *core.ValidationError:
				if len(origErr.Fields) > 0 {
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

				var args []interface{}
				args = append(args, errors.Wrap(err, msg))
				if ident, iErr := getContextIdentity(ctx); iErr == nil {
					args = append(args, ident)
				}
				logger.Error(msg, args...)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
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
