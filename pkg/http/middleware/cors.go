package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// corsMethods and corsHeaders cover the read-only query API; there is no
// mutating surface to open up.
var (
	corsMethods = strings.Join([]string{http.MethodGet, http.MethodOptions}, ", ")
	corsHeaders = strings.Join([]string{
		echo.HeaderOrigin,
		echo.HeaderContentType,
		echo.HeaderAccept,
	}, ", ")
)

// CORS allows cross-origin reads from the given origins ("*" for any).
func CORS(allowOrigins []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get("Origin")
			if allowed, value := originAllowed(allowOrigins, origin); allowed {
				h := c.Response().Header()
				h.Set("Access-Control-Allow-Origin", value)
				h.Set("Access-Control-Allow-Methods", corsMethods)
				h.Set("Access-Control-Allow-Headers", corsHeaders)
			}
			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}

func originAllowed(allowOrigins []string, origin string) (bool, string) {
	for _, o := range allowOrigins {
		if o == "*" {
			if origin != "" {
				return true, origin
			}
			return true, "*"
		}
		if o == origin && origin != "" {
			return true, origin
		}
	}
	return false, ""
}
