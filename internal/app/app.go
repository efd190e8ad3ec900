// Package app initializes and runs the account service: configuration,
// logging, storage with migrations, the domain service, and the HTTP
// server with graceful shutdown.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/config"
	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/httpapi"
	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/logging"
	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/objectstore"
	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/storage"
	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/users"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	storage     storage.Manager
	userService *users.Service
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewDefault()

	m, err := storage.NewPostgresManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	presigner := objectstore.NewPresigner(c)
	us := users.NewService(m.Users(), presigner, c)

	return &App{config: c, logger: logger, storage: m, userService: us}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddr, app.logger, app.userService, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
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

	wg.Wait()

	if err := app.storage.Close(); err != nil {
		app.logger.Error(ctx, "error closing storage", "error", err.Error())
	}
}
