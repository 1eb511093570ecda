package util

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// BindBody binds the request body into v, translating bind failures into a 400.
func BindBody(c echo.Context, v interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		LogFromContext(c.Request().Context()).Debug().Err(err).Msg("Failed to bind request body")
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed request body.").SetInternal(err)
	}

	return nil
}
