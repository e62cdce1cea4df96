package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/server/auth"
)

// defaultUserID is the acting user when a request carries neither a token
// nor an explicit user_id.
const defaultUserID = "default_user"

// userMiddleware resolves the acting user for a request.
//
// A valid "Authorization: Bearer <jwt>" header wins. Without one the
// user_id query parameter is used, falling back to the default user. An
// invalid token is rejected rather than downgraded.
func (s *Server) userMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header != "" {
			token := strings.TrimPrefix(header, "Bearer ")
			if token == header {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization format"})
			}

			userID, err := auth.GetUserIDFromToken(token, []byte(s.config.SecretKey))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}

			c.Set("user_id", userID)
			return next(c)
		}

		userID := c.QueryParam("user_id")
		if userID == "" {
			userID = defaultUserID
		}

		c.Set("user_id", userID)
		return next(c)
	}
}

// actingUser returns the user id resolved by userMiddleware.
func actingUser(c echo.Context) string {
	if id, ok := c.Get("user_id").(string); ok && id != "" {
		return id
	}
	return defaultUserID
}

// jsonError maps a service error onto an HTTP status and the error body.
func (s *Server) jsonError(c echo.Context, err error) error {
	var status int
	switch {
	case errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrConflict), errors.Is(err, common.ErrState):
		status = http.StatusConflict
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		status = http.StatusUnauthorized
	default:
		s.log.Error(c.Request().Context(), "internal error", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}

// badRequest reports a malformed request body or parameter.
func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}
