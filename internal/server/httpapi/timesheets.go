package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/services"
	"github.com/dmitrijs2005/timekeeper/internal/timex"
)

type createTimesheetRequest struct {
	Name       string            `json:"name"`
	PeriodType models.PeriodType `json:"period_type"`
	StartDate  timex.Date        `json:"start_date"`
	EndDate    timex.Date        `json:"end_date"`
}

type updateTimesheetRequest struct {
	Name       *string            `json:"name"`
	PeriodType *models.PeriodType `json:"period_type"`
	StartDate  *timex.Date        `json:"start_date"`
	EndDate    *timex.Date        `json:"end_date"`
}

type timesheetEntriesRequest struct {
	EntryIDs []string `json:"entry_ids"`
}

func (s *Server) handleCreateTimesheet(c echo.Context) error {
	var req createTimesheetRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	if req.Name == "" {
		return badRequest(c, "name required")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return badRequest(c, "start_date and end_date required")
	}
	if req.PeriodType == "" {
		req.PeriodType = models.PeriodWeekly
	}

	sheet, err := s.sheets.Create(c.Request().Context(), actingUser(c), req.Name, req.PeriodType, req.StartDate, req.EndDate)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, sheet)
}

func (s *Server) handleListTimesheets(c echo.Context) error {
	ctx := c.Request().Context()
	userID := actingUser(c)

	// Period lookup: both bounds given return the covering timesheet.
	from, err := optionalDateParam(c, "start_date")
	if err != nil {
		return badRequest(c, "invalid start_date")
	}
	to, err := optionalDateParam(c, "end_date")
	if err != nil {
		return badRequest(c, "invalid end_date")
	}

	if from != nil && to != nil {
		sheet, err := s.sheets.FindByPeriod(ctx, userID, *from, *to)
		if err != nil {
			return s.jsonError(c, err)
		}
		return c.JSON(http.StatusOK, sheet)
	}

	list, err := s.sheets.List(ctx, userID)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleGetTimesheet(c echo.Context) error {
	sheet, err := s.sheets.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, sheet)
}

func (s *Server) handleUpdateTimesheet(c echo.Context) error {
	var req updateTimesheetRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	sheet, err := s.sheets.Update(c.Request().Context(), c.Param("id"), services.TimesheetPatch{
		Name:       req.Name,
		PeriodType: req.PeriodType,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, sheet)
}

func (s *Server) handleDeleteTimesheet(c echo.Context) error {
	if err := s.sheets.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSubmitTimesheet(c echo.Context) error {
	sheet, err := s.sheets.Submit(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, sheet)
}

func (s *Server) handleApproveTimesheet(c echo.Context) error {
	sheet, err := s.sheets.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, sheet)
}

func (s *Server) handleRevertTimesheet(c echo.Context) error {
	sheet, err := s.sheets.Revert(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, sheet)
}

func (s *Server) handleRecalculateTimesheet(c echo.Context) error {
	sheet, err := s.sheets.Recalculate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, sheet)
}

func (s *Server) handleAddTimesheetEntries(c echo.Context) error {
	var req timesheetEntriesRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if len(req.EntryIDs) == 0 {
		return badRequest(c, "entry_ids required")
	}

	sheet, err := s.sheets.AddEntries(c.Request().Context(), c.Param("id"), req.EntryIDs)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, sheet)
}

func (s *Server) handleRemoveTimesheetEntries(c echo.Context) error {
	var req timesheetEntriesRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if len(req.EntryIDs) == 0 {
		return badRequest(c, "entry_ids required")
	}

	sheet, err := s.sheets.RemoveEntries(c.Request().Context(), c.Param("id"), req.EntryIDs)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, sheet)
}
