package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/cmd"
	"storefront/internal/workflows/fulfillment"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func main() {
	configs := getConfigs()

	logger, syncLogger, err := cmd.NewLogger(configs.LogLevel)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer syncLogger()
	slog.SetDefault(logger)

	store, closeStore, err := cmd.NewOrderStore(configs, logger)
	if err != nil {
		log.Fatalf("Error opening order store: %v", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close order store", "error", err)
		}
	}()

	app := cmd.NewCompositionRoot(configs, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if configs.FulfillmentMode == cmd.FulfillmentTemporal {
		stopWorker := startFulfillmentWorker(app, configs, logger)
		defer stopWorker()
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, app, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	config, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("Error reading configuration: %v", err)
	}
	return config
}

func startFulfillmentWorker(app *cmd.CompositionRoot, configs cmd.Config, logger *slog.Logger) func() {
	c, err := fulfillment.Dial(configs.TemporalHost, configs.TemporalNamespace, logger)
	if err != nil {
		log.Fatalf("Error connecting to Temporal: %v", err)
	}

	w := fulfillment.NewWorker(c, configs.TemporalTaskQueue, app.CreateFulfillmentActivities())
	if err := w.Start(); err != nil {
		c.Close()
		log.Fatalf("Error starting fulfillment worker: %v", err)
	}

	app.UseFulfillmentStarter(fulfillment.NewStarter(c, configs.TemporalTaskQueue, configs.TemporalStageDelay))
	logger.Info("fulfillment worker started", "taskQueue", configs.TemporalTaskQueue)

	return func() {
		w.Stop()
		c.Close()
	}
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string, logger *slog.Logger) {
	e, err := app.CreateRouter()
	if err != nil {
		log.Fatalf("Error creating router: %v", err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down http server", "error", err)
		}
	}()

	logger.Info("http server listening", "port", port)
	if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal(err)
	}
}

