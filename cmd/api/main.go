package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/bldriq/internal/alias"
	aliasStore "github.com/MrJamesThe3rd/bldriq/internal/alias/store"
	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
	"github.com/MrJamesThe3rd/bldriq/internal/config"
	"github.com/MrJamesThe3rd/bldriq/internal/database"
	"github.com/MrJamesThe3rd/bldriq/internal/export"
	bldrHttp "github.com/MrJamesThe3rd/bldriq/internal/http"
	aliasHandler "github.com/MrJamesThe3rd/bldriq/internal/http/alias"
	catalogHandler "github.com/MrJamesThe3rd/bldriq/internal/http/catalog"
	estimateHandler "github.com/MrJamesThe3rd/bldriq/internal/http/estimate"
	projectHandler "github.com/MrJamesThe3rd/bldriq/internal/http/project"
	"github.com/MrJamesThe3rd/bldriq/internal/project"
	projectStore "github.com/MrJamesThe3rd/bldriq/internal/project/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	c, err := catalog.Open(cfg.Catalog.Path, cfg.Catalog.ScopesCSV)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	var (
		projectRepo project.Repository
		aliasRepo   alias.Repository
	)

	if cfg.UsesDatabase() {
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		projectRepo, aliasRepo = projectStore.New(db), aliasStore.New(db)
	} else {
		slog.Warn("using in-memory storage, projects are lost on exit")

		projectRepo, aliasRepo = projectStore.NewMemory(), aliasStore.NewMemory()
	}

	var (
		projectService = project.NewService(projectRepo, c)
		aliasService   = alias.NewService(aliasRepo, c)
		exportService  = export.NewService(projectService)
	)

	if cfg.Auth.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set, every request runs as the guest user", "user", cfg.Auth.GuestUserID)
	}

	router := bldrHttp.New(
		bldrHttp.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			JWTSecret:      cfg.Auth.JWTSecret,
			GuestUserID:    cfg.Auth.GuestUserID,
		},
		catalogHandler.NewHandler(c),
		estimateHandler.NewHandler(c),
		projectHandler.NewHandler(projectService, exportService, c),
		aliasHandler.NewHandler(aliasService),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr, "storage", cfg.Storage.Backend)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
