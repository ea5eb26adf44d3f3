package middleware

import (
	"log"
	"time"

	applogger "GraphAxis/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs one line per request. With a logger it emits
// structured fields; without one it falls back to the standard log package.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			err := next(c)

			latency := time.Since(start)
			status := c.Response().Status
			if l != nil {
				l.Debug("http request",
					applogger.String("method", req.Method),
					applogger.String("uri", req.RequestURI),
					applogger.String("remote", req.RemoteAddr),
					applogger.Int("status", status),
					applogger.Duration("latency", latency),
				)
			} else {
				log.Printf("[%s] %s %s - %d (%s)",
					req.Method, req.RequestURI, req.RemoteAddr, status, latency)
			}
			return err
		}
	}
}
