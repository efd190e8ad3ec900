package httpapi

import (
	"net/http"
	"strings"

	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/auth"
	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/logging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	emailContextKey     = "email"
	requestIDContextKey = "request_id"
)

// BearerAuth validates the Authorization bearer token and stores the
// token's email claim in the request context. Every verification failure
// (missing, malformed, forged, expired) is answered with 401 without
// telling the client which one it was.
func BearerAuth(secretKey []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing bearer token"})
			}

			email, err := auth.GetEmailFromToken(strings.TrimPrefix(header, "Bearer "), secretKey)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid or expired token"})
			}

			c.Set(emailContextKey, email)
			return next(c)
		}
	}
}

// RequestID tags every request with a fresh UUID, echoed back in the
// X-Request-Id header and available to the request logger.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := uuid.NewString()
			c.Set(requestIDContextKey, id)
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(c)
		}
	}
}

// RequestLogger writes one structured line per request after the handler
// has produced its response.
func RequestLogger(logger logging.Logger) echo.MiddlewareFunc {
	log := logger.With("module", "http")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			id, _ := c.Get(requestIDContextKey).(string)
			log.Info(c.Request().Context(), "request",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", c.Response().Status,
				"request_id", id,
			)
			return err
		}
	}
}
