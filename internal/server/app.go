// Package server wires the authentication service together: it opens the
// credential store, builds the hasher, token issuer and audit pipeline,
// and runs the gRPC endpoint until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dmitrijs2005/authservice/internal/dbx"
	"github.com/dmitrijs2005/authservice/internal/logging"
	"github.com/dmitrijs2005/authservice/internal/server/archive"
	"github.com/dmitrijs2005/authservice/internal/server/audit"
	"github.com/dmitrijs2005/authservice/internal/server/auth"
	"github.com/dmitrijs2005/authservice/internal/server/config"
	"github.com/dmitrijs2005/authservice/internal/server/password"
	"github.com/dmitrijs2005/authservice/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authservice/internal/server/services"

	gs "github.com/dmitrijs2005/authservice/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	dispatcher *audit.Dispatcher
	grpc       *gs.GRPCServer
}

// NewApp builds every component from cfg. cfg must already be validated.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	return newApp(ctx, cfg, logging.NewJSONLogger(os.Stdout, slog.LevelInfo))
}

func newApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: cfg, logger: logger}

	var (
		manager repomanager.RepositoryManager
		handle  dbx.DBTX
	)

	if cfg.DatabaseDSN == config.MemoryDSN {
		logger.Warn(ctx, "using in-memory credential store, data is lost on exit")
		manager = repomanager.NewInMemoryRepositoryManager()
	} else {
		var (
			db  *sql.DB
			err error
		)
		if path, ok := strings.CutPrefix(cfg.DatabaseDSN, config.SQLiteDSNPrefix); ok {
			db, err = repomanager.OpenSQLite(ctx, path)
			manager = repomanager.NewSQLiteRepositoryManager()
		} else {
			db, err = repomanager.OpenPostgres(ctx, cfg.DatabaseDSN)
			manager = repomanager.NewPostgresRepositoryManager()
		}
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := manager.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db migration error: %w", err)
		}
		app.db = db
		handle = db
	}

	hasher, err := password.NewArgon2Hasher(password.DefaultArgon2Params())
	if err != nil {
		app.closeDB()
		return nil, err
	}

	issuer, err := auth.NewIssuer([]byte(cfg.SecretKey), cfg.Issuer, cfg.Audience, cfg.AccessTokenValidityDuration)
	if err != nil {
		app.closeDB()
		return nil, err
	}

	sinks := []audit.Sink{audit.NewRepositorySink(manager.LoginAttempts(handle))}
	if cfg.S3Bucket != "" {
		archiveSink, err := archive.NewS3Sink(ctx, archive.Options{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		})
		if err != nil {
			app.closeDB()
			return nil, fmt.Errorf("s3 archive init error: %w", err)
		}
		sinks = append(sinks, archiveSink)
		logger.Info(ctx, "login attempts mirrored to S3", "bucket", cfg.S3Bucket)
	}

	app.dispatcher = audit.NewDispatcher(audit.DispatcherConfig{
		BufferSize:   cfg.AuditBufferSize,
		WriteTimeout: cfg.AuditWriteTimeout,
		DropIfFull:   cfg.AuditDropIfFull,
	}, logger, sinks...)

	cs := services.NewCredentialService(handle, manager, hasher, issuer, app.dispatcher, logger)
	app.grpc = gs.NewGRPCServer(cfg.EndpointAddrGRPC, logger, cs)

	return app, nil
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

// Run serves until ctx is cancelled or a termination signal arrives, then
// flushes pending audit records and closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	err := app.grpc.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "grpc server failed", "error", err)
	}

	app.dispatcher.Close()
	stats := app.dispatcher.Stats()
	app.logger.Info(ctx, "audit dispatcher stopped", "written", stats.Written, "failed", stats.Failed, "dropped", stats.Dropped)

	app.closeDB()
	app.logger.Info(ctx, "App stopped")

	return err
}

func (app *App) closeDB() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close failed", "error", err)
	}
}
