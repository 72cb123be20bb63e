package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fivejjs/gemini3-sample-chronos/internal/capture"
	"github.com/fivejjs/gemini3-sample-chronos/internal/genai"
	"github.com/fivejjs/gemini3-sample-chronos/internal/http/handlers"
	httpapi "github.com/fivejjs/gemini3-sample-chronos/internal/http/httpapi"
	"github.com/fivejjs/gemini3-sample-chronos/internal/infra"
	"github.com/fivejjs/gemini3-sample-chronos/internal/infra/credentials"
	"github.com/fivejjs/gemini3-sample-chronos/internal/scene"
	"github.com/fivejjs/gemini3-sample-chronos/internal/workflow"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	scenes := scene.NewCatalog(scene.DefaultPresets())

	client := genai.NewClient(genai.Options{
		BaseURL:     cfg.GeminiBaseURL,
		Logger:      logger,
		Credentials: credentials.NewStore(),
	})

	var device capture.Device
	if cfg.CameraDeviceURL != "" {
		device = capture.NewSnapshotDevice(cfg.CameraDeviceURL, nil)
	}

	sessions := workflow.NewStore(cfg.SessionTTL, client, device, logger)
	defer sessions.Close()

	app := handlers.NewApp(logger, scenes, sessions)
	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
