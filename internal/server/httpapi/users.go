package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Username string  `json:"username"`
	Email    *string `json:"email"`
	Password string  `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	if req.Username == "" {
		return badRequest(c, "username required")
	}

	user, err := s.users.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return s.jsonError(c, err)
	}

	user.PasswordHash = ""
	return c.JSON(http.StatusCreated, user)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	token, err := s.users.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return s.jsonError(c, err)
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token})
}

func (s *Server) handleGetPreferences(c echo.Context) error {
	prefs, err := s.users.GetPreferences(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, prefs)
}

func (s *Server) handleUpdatePreferences(c echo.Context) error {
	var prefs map[string]any
	if err := c.Bind(&prefs); err != nil {
		return badRequest(c, "invalid request")
	}

	user, err := s.users.UpdatePreferences(c.Request().Context(), c.Param("id"), prefs)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, user.Preferences)
}
