package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/timekeeper/internal/server/services"
	"github.com/dmitrijs2005/timekeeper/internal/timex"
)

type createEntryRequest struct {
	ProjectID   string  `json:"project_id"`
	Description *string `json:"description"`
	StartTimer  bool    `json:"start_timer"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
}

type updateEntryRequest struct {
	Description *string `json:"description"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
}

type duplicateEntryRequest struct {
	NewDate timex.Date `json:"new_date"`
}

func (s *Server) handleCreateEntry(c echo.Context) error {
	var req createEntryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	if req.ProjectID == "" {
		return badRequest(c, "project_id required")
	}

	ctx := c.Request().Context()
	userID := actingUser(c)

	if req.StartTimer {
		e, err := s.entries.StartTimer(ctx, userID, req.ProjectID, req.Description)
		if err != nil {
			return s.jsonError(c, err)
		}
		return c.JSON(http.StatusCreated, e)
	}

	start, err := parseTimestamp(req.StartTime)
	if err != nil {
		return badRequest(c, "invalid start_time")
	}
	end, err := parseTimestamp(req.EndTime)
	if err != nil {
		return badRequest(c, "invalid end_time")
	}

	e, err := s.entries.CreateManual(ctx, userID, req.ProjectID, start, end, req.Description)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (s *Server) handleListEntries(c echo.Context) error {
	ctx := c.Request().Context()
	userID := actingUser(c)

	from, err := optionalDateParam(c, "start_date")
	if err != nil {
		return badRequest(c, "invalid start_date")
	}
	to, err := optionalDateParam(c, "end_date")
	if err != nil {
		return badRequest(c, "invalid end_date")
	}

	if from != nil && to != nil {
		list, err := s.entries.ListByDateRange(ctx, userID, *from, *to)
		if err != nil {
			return s.jsonError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}

	list, err := s.entries.List(ctx, userID)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleGetEntry(c echo.Context) error {
	e, err := s.entries.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

func (s *Server) handleRunningEntry(c echo.Context) error {
	e, err := s.entries.GetRunning(c.Request().Context(), actingUser(c))
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

func (s *Server) handleUpdateEntry(c echo.Context) error {
	var req updateEntryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	patch := services.TimeEntryPatch{Description: req.Description}

	if req.StartTime != nil {
		t, err := parseTimestamp(*req.StartTime)
		if err != nil {
			return badRequest(c, "invalid start_time")
		}
		patch.StartTime = &t
	}
	if req.EndTime != nil {
		t, err := parseTimestamp(*req.EndTime)
		if err != nil {
			return badRequest(c, "invalid end_time")
		}
		patch.EndTime = &t
	}

	e, err := s.entries.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

func (s *Server) handleDeleteEntry(c echo.Context) error {
	if err := s.entries.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleStopEntry(c echo.Context) error {
	e, err := s.entries.StopTimer(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

func (s *Server) handleDuplicateEntry(c echo.Context) error {
	var req duplicateEntryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if req.NewDate.IsZero() {
		return badRequest(c, "new_date required")
	}

	e, err := s.entries.Duplicate(c.Request().Context(), c.Param("id"), req.NewDate)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}
