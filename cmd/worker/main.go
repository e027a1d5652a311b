package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"github.com/openlmis/fulfillment/internal/app/api"
	"github.com/openlmis/fulfillment/internal/clients/referencedata"
	"github.com/openlmis/fulfillment/internal/domains/orders/adapters/notification"
	"github.com/openlmis/fulfillment/internal/domains/orders/adapters/storage"
	"github.com/openlmis/fulfillment/internal/domains/orders/adapters/transfer"
	"github.com/openlmis/fulfillment/internal/domains/orders/export"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
	platformobservability "github.com/openlmis/fulfillment/internal/platform/observability"
	orderactivities "github.com/openlmis/fulfillment/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/openlmis/fulfillment/internal/platform/temporal/workflows/orders"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()
	const serviceName = "fulfillment-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	service, cleanup, err := buildOrderService(ctx, logger)
	if err != nil {
		logger.Error("failed to build order service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()
	activities := orderactivities.NewActivities(service)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cfg, err := api.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderSubmissionTaskQueue, worker.Options{})
	w.RegisterWorkflow(orderworkflows.OrderSubmissionWorkflow)
	w.RegisterActivityWithOptions(activities.SubmitOrder, activity.RegisterOptions{Name: orderactivities.SubmitOrderActivityName})

	logger.Info("worker listening",
		slog.String("taskQueue", orderworkflows.OrderSubmissionTaskQueue),
		slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildOrderService(ctx context.Context, logger *slog.Logger) (ports.Service, func(), error) {
	cfg, err := api.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	repos, cleanup := api.BuildRepositories(ctx, cfg, logger)

	refdata, err := referencedata.NewClient(cfg.ReferenceDataURL, nil)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("reference-data client: %w", err)
	}
	staging, err := storage.NewFilesystem(cfg.StagingDirectory, export.NewExporter(refdata), repos.Templates)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("order staging: %w", err)
	}
	sender := transfer.NewSender(repos.Props, staging, logger)

	var notifier ports.NotificationDispatcher
	if cfg.NotificationURL != "" {
		notifier, err = notification.NewClient(cfg.NotificationURL, nil)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("notification client: %w", err)
		}
	}

	service, err := api.NewOrderService(cfg, repos, refdata, staging, sender, notifier, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return service, cleanup, nil
}
