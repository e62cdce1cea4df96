package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/services"
	"github.com/dmitrijs2005/timekeeper/internal/timex"
)

type createProjectRequest struct {
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	ColorCode   *string     `json:"color_code"`
	Deadline    *timex.Date `json:"deadline"`
}

type updateProjectRequest struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	ColorCode   *string               `json:"color_code"`
	Status      *models.ProjectStatus `json:"status"`
	Deadline    *timex.Date           `json:"deadline"`
}

func (s *Server) handleCreateProject(c echo.Context) error {
	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	if req.Name == "" {
		return badRequest(c, "name required")
	}

	p, err := s.projects.Create(c.Request().Context(), actingUser(c), req.Name, req.Description, req.ColorCode, req.Deadline)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) handleListProjects(c echo.Context) error {
	var status *models.ProjectStatus
	if raw := c.QueryParam("status"); raw != "" {
		parsed, err := models.ParseProjectStatus(raw)
		if err != nil {
			return s.jsonError(c, err)
		}
		status = &parsed
	}

	list, err := s.projects.List(c.Request().Context(), actingUser(c), status)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleGetProject(c echo.Context) error {
	p, err := s.projects.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleUpdateProject(c echo.Context) error {
	var req updateProjectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	p, err := s.projects.Update(c.Request().Context(), c.Param("id"), services.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		ColorCode:   req.ColorCode,
		Status:      req.Status,
		Deadline:    req.Deadline,
	})
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleDeleteProject(c echo.Context) error {
	if err := s.projects.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleArchiveProject(c echo.Context) error {
	p, err := s.projects.Archive(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleProjectTimeSummary(c echo.Context) error {
	from, err := optionalDateParam(c, "start_date")
	if err != nil {
		return badRequest(c, "invalid start_date")
	}
	to, err := optionalDateParam(c, "end_date")
	if err != nil {
		return badRequest(c, "invalid end_date")
	}

	summary, err := s.projects.TimeSummary(c.Request().Context(), c.Param("id"), from, to)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
