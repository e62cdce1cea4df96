package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/timekeeper/internal/server/services"
	"github.com/dmitrijs2005/timekeeper/internal/timex"
)

func (s *Server) handleTimeByProject(c echo.Context) error {
	from, err := requiredDateParam(c, "start_date")
	if err != nil {
		return badRequest(c, "invalid start_date")
	}
	to, err := requiredDateParam(c, "end_date")
	if err != nil {
		return badRequest(c, "invalid end_date")
	}

	report, err := s.reports.TimeByProject(c.Request().Context(), actingUser(c), from, to)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleDailySummary(c echo.Context) error {
	day := timex.Today()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := timex.ParseDate(raw)
		if err != nil {
			return badRequest(c, "invalid date")
		}
		day = parsed
	}

	report, err := s.reports.DailySummary(c.Request().Context(), actingUser(c), day)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleWeeklySummary(c echo.Context) error {
	weekStart := timex.WeekStart(timex.Today())
	if raw := c.QueryParam("week_start"); raw != "" {
		parsed, err := timex.ParseDate(raw)
		if err != nil {
			return badRequest(c, "invalid week_start")
		}
		weekStart = parsed
	}

	report, err := s.reports.WeeklySummary(c.Request().Context(), actingUser(c), weekStart)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleMonthlySummary(c echo.Context) error {
	now := time.Now()
	year, month := now.Year(), now.Month()

	if raw := c.QueryParam("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "invalid year")
		}
		year = y
	}
	if raw := c.QueryParam("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			return badRequest(c, "invalid month")
		}
		month = time.Month(m)
	}

	report, err := s.reports.MonthlySummary(c.Request().Context(), actingUser(c), year, month)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleProductivityTrends(c echo.Context) error {
	from, err := requiredDateParam(c, "start_date")
	if err != nil {
		return badRequest(c, "invalid start_date")
	}
	to, err := requiredDateParam(c, "end_date")
	if err != nil {
		return badRequest(c, "invalid end_date")
	}

	report, err := s.reports.ProductivityTrends(c.Request().Context(), actingUser(c), from, to)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleSearch(c echo.Context) error {
	filter := services.SearchFilter{}

	if raw := c.QueryParam("project_id"); raw != "" {
		filter.ProjectID = &raw
	}

	from, err := optionalDateParam(c, "start_date")
	if err != nil {
		return badRequest(c, "invalid start_date")
	}
	filter.StartDate = from

	to, err := optionalDateParam(c, "end_date")
	if err != nil {
		return badRequest(c, "invalid end_date")
	}
	filter.EndDate = to

	results, err := s.reports.Search(c.Request().Context(), actingUser(c), c.QueryParam("q"), filter)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, results)
}

type backupResponse struct {
	Key string `json:"key,omitempty"`
}

func (s *Server) handleBackup(c echo.Context) error {
	ctx := c.Request().Context()
	userID := actingUser(c)

	if c.QueryParam("upload") == "false" {
		doc, err := s.backups.Export(ctx, userID)
		if err != nil {
			return s.jsonError(c, err)
		}
		return c.JSON(http.StatusOK, doc)
	}

	key, err := s.backups.Run(ctx, userID)
	if err != nil {
		return s.jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, backupResponse{Key: key})
}
