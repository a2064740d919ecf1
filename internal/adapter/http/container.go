package http

import (
	"log/slog"

	database "usuariosapi/internal/adapter/database/sqlite"
	repository "usuariosapi/internal/adapter/database/sqlite/repository"

	"usuariosapi/internal/adapter/cep"
	"usuariosapi/internal/adapter/http/handler"
	"usuariosapi/internal/core/port"
	"usuariosapi/internal/core/service"
	"usuariosapi/internal/core/telemetry"
	"usuariosapi/pkg/config"
	"usuariosapi/pkg/tracing"
)

type Container struct {
	UsuarioRepo port.UsuarioRepository

	UsuarioUseCase port.UsuarioService

	UsuarioHandler *handler.UsuarioHandler
}

func NewContainer(db *database.DB, logger *config.LokiLogger, appConfig *config.AppConfig, metrics *tracing.AppMetrics) *Container {
	probe := telemetry.NewOTELProbe(slog.Default())
	usuarioRepo := repository.NewUsuarioRepository(db, probe)

	return NewContainerWithRepository(usuarioRepo, probe, appConfig, metrics)
}

// NewContainerWithRepository wires the service around an externally
// built repository, which is how the postgres adapter comes in.
func NewContainerWithRepository(usuarioRepo port.UsuarioRepository, probe port.Telemetry, appConfig *config.AppConfig, metrics *tracing.AppMetrics) *Container {
	resolver := cep.NewViaCepClientWithMetrics(appConfig.ViaCepURL, metrics)

	usuarioSvc := service.NewUsuarioService(usuarioRepo, resolver, probe)

	usuarioHandler := handler.NewUsuarioHandlerWithMetrics(usuarioSvc, metrics)

	return &Container{
		UsuarioRepo:    usuarioRepo,
		UsuarioUseCase: usuarioSvc,
		UsuarioHandler: usuarioHandler,
	}
}
