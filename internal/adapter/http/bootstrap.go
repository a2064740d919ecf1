package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"usuariosapi/internal/adapter/database/postgres"
	pgrepository "usuariosapi/internal/adapter/database/postgres/repository"
	database "usuariosapi/internal/adapter/database/sqlite"
	"usuariosapi/internal/adapter/http/routes"
	"usuariosapi/internal/core/telemetry"

	"usuariosapi/pkg/config"
	"usuariosapi/pkg/tracing"
)

func StartServer(metrics *tracing.AppMetrics, logger *config.LokiLogger) {
	StartServerWithConfig(metrics, logger, config.GetDefaultConfig())
}

func StartServerWithConfig(metrics *tracing.AppMetrics, logger *config.LokiLogger, appConfig *config.AppConfig) {
	var container *Container

	// DATABASE_URL switches the storage backend to postgres; the
	// default is the embedded sqlite file.
	if appConfig.DatabaseURL != "" {
		pool, err := postgres.NewDB(context.Background())
		if err != nil {
			slog.Error("Failed to connect to postgres", "error", err)
			return
		}
		defer pool.Close()

		probe := telemetry.NewOTELProbe(slog.Default())
		repo := pgrepository.NewUsuarioRepository(pool)
		container = NewContainerWithRepository(repo, probe, appConfig, metrics)
	} else {
		db, err := database.NewDB()
		if err != nil {
			slog.Error("Failed to open database", "error", err)
			return
		}
		defer db.Close()

		container = NewContainer(db, logger, appConfig, metrics)
	}

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		UsuarioHandler: container.UsuarioHandler,
	}, metrics, logger, appConfig)

	port := appConfig.Port

	if port == "" {
		port = "8080"
	}

	slog.Info("Server starting",
		"port", port,
		"environment", appConfig.Environment,
		"rate_limit_enabled", appConfig.RateLimitEnabled,
		"https_enforced", appConfig.EnforceHTTPS)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server failed to start", "error", err)
	}
}
