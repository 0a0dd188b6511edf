package application

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"schoolManager/config"
	"schoolManager/database"
	"schoolManager/logger"
	"schoolManager/rpc"
	"schoolManager/services"
	"schoolManager/web"
)

type Application struct {
	Server *http.Server
	DB     *sqlx.DB
	logger *logger.Logger
}

func NewApplication() *Application {
	return &Application{}
}

func (app *Application) Configure(cfg *config.Config, log *logger.Logger) error {
	app.logger = log

	db, err := database.OpenDB(&cfg.Database)
	if err != nil {
		if db == nil {
			return err
		}
		// Reads come back empty and writes are refused while degraded.
		log.Warnf("database unavailable, starting degraded: %v", err)
	}
	app.DB = db

	store := database.NewStore(db)
	importer := services.NewCSVImporter(db)
	rpcHandler := rpc.NewHandler(store, log)
	server := web.NewServer(&cfg.Auth, log, store, importer, rpcHandler)

	app.Server = &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: server.Router(),
	}

	return nil
}

func (app *Application) Run(ctx context.Context) {
	go func() {
		app.logger.Infof("HTTP server listening on %s", app.Server.Addr)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Criticalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		app.logger.Errorf("HTTP server shutdown failed: %v", err)
	}
	if err := app.DB.Close(); err != nil {
		app.logger.Errorf("closing database failed: %v", err)
	}
}
