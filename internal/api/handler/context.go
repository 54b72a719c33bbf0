package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ctxActorID extracts the authenticated user id injected by the Auth
// middleware. A missing id means the middleware did not run.
func ctxActorID(c echo.Context) (int64, error) {
	id, _ := c.Get("user_id").(int64)
	if id <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// pathID parses a positive int64 path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// pageParams reads the optional page and limit query parameters. Zero means
// "use the default" and is resolved by the service.
func pageParams(c echo.Context) (page, limit int, err error) {
	if page, err = optionalInt(c, "page"); err != nil {
		return 0, 0, err
	}
	if limit, err = optionalInt(c, "limit"); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

func optionalInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}
