package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	applogger "GraphAxis/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover converts handler panics into 500 responses instead of tearing
// down the server.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					stack := debug.Stack()
					if l != nil {
						l.Error("handler panic",
							applogger.String("path", c.Request().URL.Path),
							applogger.Error(err),
							applogger.String("stack", string(stack)),
						)
					} else {
						log.Printf("PANIC: %v\n%s", err, stack)
					}
					_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
						"status":  http.StatusInternalServerError,
						"message": "Internal Server Error",
					})
				}
			}()
			return next(c)
		}
	}
}
