// Package server initializes and runs the main application server.
// It selects the storage backend, wires the service layer, handles graceful
// shutdown, and starts the HTTP server for the time-tracking API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/logging"
	"github.com/dmitrijs2005/timekeeper/internal/server/backup"
	"github.com/dmitrijs2005/timekeeper/internal/server/config"
	"github.com/dmitrijs2005/timekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/timekeeper/internal/server/services"
	"github.com/dmitrijs2005/timekeeper/internal/server/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  *storage.Repositories
	api    *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	var repos *storage.Repositories
	switch c.StorageBackend {
	case "json":
		repos = storage.NewJSONRepositories(c.DataDir)
	case "postgres":
		var err error
		repos, err = storage.NewPostgresRepositories(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	us := services.NewUserService(repos.Users, []byte(c.SecretKey), c.AccessTokenValidityDuration)
	ps := services.NewProjectService(repos.Projects, repos.TimeEntries)
	es := services.NewTimeEntryService(repos.TimeEntries, repos.Projects, repos.Timesheets)
	ts := services.NewTimesheetService(repos.Timesheets, repos.TimeEntries)
	rs := services.NewReportingService(repos.TimeEntries, repos.Projects)
	bs := backup.NewService(repos, c)

	api := httpapi.New(c, logger, us, ps, es, ts, rs, bs)

	return &App{config: c, logger: logger, repos: repos, api: api}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddr, "backend", app.config.StorageBackend)

	if err := app.api.Start(app.config.EndpointAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	<-ctx.Done()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()

	if err := app.api.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, err.Error())
	}

	if err := app.repos.Close(); err != nil {
		app.logger.Error(shutdownCtx, err.Error())
	}

	wg.Wait()
}
