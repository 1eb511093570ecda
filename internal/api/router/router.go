package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/api"
	"github.com/portal-hq/portalex/internal/api/handlers"
	"github.com/portal-hq/portalex/internal/api/httperrors"
	"github.com/portal-hq/portalex/internal/api/middleware"
	"github.com/portal-hq/portalex/internal/util"
	"github.com/rs/zerolog/log"
)

func Init(s *api.Server) error {
	s.Echo = echo.New()

	s.Echo.Debug = s.Config.Echo.Debug
	s.Echo.HideBanner = true
	s.Echo.Logger.SetOutput(&echoLogger{level: s.Config.Logger.RequestLevel, log: log.With().Str("component", "echo").Logger()})

	s.Echo.HTTPErrorHandler = HTTPErrorHandlerWithConfig(s.Config.Echo.HideInternalServerErrorDetails)

	// ---
	// General middleware
	if s.Config.Echo.EnableRecoverMiddleware {
		s.Echo.Use(echoMiddleware.Recover())
	} else {
		log.Warn().Msg("Disabling recover middleware due to environment config")
	}

	if s.Config.Echo.EnableRequestIDMiddleware {
		s.Echo.Use(echoMiddleware.RequestID())
	} else {
		log.Warn().Msg("Disabling request ID middleware due to environment config")
	}

	if s.Config.Echo.EnableLoggerMiddleware {
		s.Echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
			Level: s.Config.Logger.RequestLevel,
		}))
	} else {
		log.Warn().Msg("Disabling logger middleware due to environment config")
	}

	if s.Config.Echo.EnableMetricsMiddleware {
		s.Echo.Use(s.Metrics.Middleware())
	} else {
		log.Warn().Msg("Disabling metrics middleware due to environment config")
	}

	// ---
	// Initialize our general groups and set middleware to use above them
	s.Router = &api.Router{
		Routes:         nil, // will be populated by handlers.AttachAllRoutes(s)
		Root:           s.Echo.Group(""),
		Management:     s.Echo.Group("/-"),
		APIV1Transfers: s.Echo.Group("/api/v1/transfers"),
		Mobile:         s.Echo.Group("/mobile"),
	}

	// ---
	// Finally attach our handlers
	handlers.AttachAllRoutes(s)

	return nil
}

// HTTPErrorHandlerWithConfig renders every error as an httperrors.HTTPError.
func HTTPErrorHandlerWithConfig(hideInternalDetails bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			httpErr *httperrors.HTTPError
			echoErr *echo.HTTPError
		)

		switch {
		case errors.As(err, &httpErr):
		case errors.As(err, &echoErr):
			httpErr = httperrors.NewFromEcho(echoErr)
			httpErr.Internal = echoErr.Internal
		default:
			httpErr = httperrors.FromTransferError(err)
		}

		code := httpErr.StatusCode()
		logger := util.LogFromContext(c.Request().Context())
		if code >= http.StatusInternalServerError {
			logger.Error().Err(err).Int("status", code).Msg("Request failed")
		} else {
			logger.Debug().Err(err).Int("status", code).Msg("Request rejected")
		}

		if code == http.StatusInternalServerError && hideInternalDetails {
			httpErr = httperrors.NewHTTPError(code, httperrors.TypeGeneric, http.StatusText(code))
			if id := util.RequestIDFromContext(c.Request().Context()); len(id) > 0 {
				httpErr.Detail = "request id " + id
			}
		}

		var sendErr error
		if c.Request().Method == http.MethodHead {
			sendErr = c.NoContent(code)
		} else {
			sendErr = c.JSON(code, httpErr)
		}
		if sendErr != nil {
			logger.Error().Err(sendErr).Msg("Failed to send error response")
		}
	}
}
