// Package httpapi exposes the time-tracking services over a JSON REST
// surface.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dmitrijs2005/timekeeper/internal/logging"
	"github.com/dmitrijs2005/timekeeper/internal/server/backup"
	sc "github.com/dmitrijs2005/timekeeper/internal/server/config"
	"github.com/dmitrijs2005/timekeeper/internal/server/services"
)

// Server wires the service layer into an echo HTTP server.
type Server struct {
	config *sc.Config
	log    logging.Logger

	users    *services.UserService
	projects *services.ProjectService
	entries  *services.TimeEntryService
	sheets   *services.TimesheetService
	reports  *services.ReportingService
	backups  *backup.Service

	echo *echo.Echo
}

func New(config *sc.Config, log logging.Logger,
	users *services.UserService,
	projects *services.ProjectService,
	entries *services.TimeEntryService,
	sheets *services.TimesheetService,
	reports *services.ReportingService,
	backups *backup.Service,
) *Server {
	s := &Server{
		config:   config,
		log:      log,
		users:    users,
		projects: projects,
		entries:  entries,
		sheets:   sheets,
		reports:  reports,
		backups:  backups,
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			res := c.Response()
			s.log.Info(req.Context(), "http request",
				"method", req.Method,
				"uri", req.RequestURI,
				"status", res.Status,
				"duration", time.Since(start).String())

			return err
		}
	})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	e.GET("/health", s.handleHealth)

	api := e.Group("/api")

	// Public endpoints.
	api.POST("/users", s.handleRegister)
	api.POST("/login", s.handleLogin)

	// Everything else resolves the acting user first.
	protected := api.Group("")
	protected.Use(s.userMiddleware)

	protected.GET("/users/:id/preferences", s.handleGetPreferences)
	protected.PUT("/users/:id/preferences", s.handleUpdatePreferences)

	protected.GET("/projects", s.handleListProjects)
	protected.POST("/projects", s.handleCreateProject)
	protected.GET("/projects/:id", s.handleGetProject)
	protected.PUT("/projects/:id", s.handleUpdateProject)
	protected.DELETE("/projects/:id", s.handleDeleteProject)
	protected.POST("/projects/:id/archive", s.handleArchiveProject)
	protected.GET("/projects/:id/time-summary", s.handleProjectTimeSummary)

	protected.GET("/time-entries", s.handleListEntries)
	protected.POST("/time-entries", s.handleCreateEntry)
	protected.GET("/time-entries/running", s.handleRunningEntry)
	protected.GET("/time-entries/:id", s.handleGetEntry)
	protected.PUT("/time-entries/:id", s.handleUpdateEntry)
	protected.DELETE("/time-entries/:id", s.handleDeleteEntry)
	protected.POST("/time-entries/:id/stop", s.handleStopEntry)
	protected.POST("/time-entries/:id/duplicate", s.handleDuplicateEntry)

	protected.GET("/timesheets", s.handleListTimesheets)
	protected.POST("/timesheets", s.handleCreateTimesheet)
	protected.GET("/timesheets/:id", s.handleGetTimesheet)
	protected.PUT("/timesheets/:id", s.handleUpdateTimesheet)
	protected.DELETE("/timesheets/:id", s.handleDeleteTimesheet)
	protected.POST("/timesheets/:id/submit", s.handleSubmitTimesheet)
	protected.POST("/timesheets/:id/approve", s.handleApproveTimesheet)
	protected.POST("/timesheets/:id/revert", s.handleRevertTimesheet)
	protected.POST("/timesheets/:id/recalculate", s.handleRecalculateTimesheet)
	protected.POST("/timesheets/:id/entries", s.handleAddTimesheetEntries)
	protected.DELETE("/timesheets/:id/entries", s.handleRemoveTimesheetEntries)

	protected.GET("/reports/time-by-project", s.handleTimeByProject)
	protected.GET("/reports/daily-summary", s.handleDailySummary)
	protected.GET("/reports/weekly-summary", s.handleWeeklySummary)
	protected.GET("/reports/monthly-summary", s.handleMonthlySummary)
	protected.GET("/reports/productivity-trends", s.handleProductivityTrends)
	protected.GET("/reports/search", s.handleSearch)

	protected.POST("/backup", s.handleBackup)

	s.echo = e
}

// Router returns the HTTP handler, used in tests.
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start begins serving on the given address and blocks.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
