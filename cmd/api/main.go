package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	api "usuariosapi/internal/adapter/http"
	. "usuariosapi/pkg/config"
	. "usuariosapi/pkg/tracing"
)

func main() {
	ctx := context.Background()

	appConfig := LoadConfig()

	logger, err := NewLokiLogger("usuariosapi", appConfig.LokiURL)

	if err != nil {
		log.Fatal("Failed to initialize Loki logger:", err)
	}

	defer logger.Sync()

	telemetry, err := InitTelemetry(TelemetryConfig{
		ServiceName:    "usuariosapi",
		ServiceVersion: "1.0.0",
		MetricsPort:    appConfig.MetricsPort,
		OTLPEndpoint:   appConfig.OTLPEndpoint,
	})

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	defer telemetry.Shutdown(ctx)

	metrics := NewAppMetrics(telemetry.PrometheusRegistry)
	metrics.StartSystemMetrics(ctx)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		api.StartServerWithConfig(metrics, logger, appConfig)
	}()

	<-c
	logger.Logger.Info("Shutting down gracefully...")
}
