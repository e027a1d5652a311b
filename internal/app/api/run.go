package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	"github.com/openlmis/fulfillment/internal/clients/referencedata"
	httpapi "github.com/openlmis/fulfillment/internal/domains/orders/adapters/http"
	ordersmemory "github.com/openlmis/fulfillment/internal/domains/orders/adapters/memory"
	"github.com/openlmis/fulfillment/internal/domains/orders/adapters/notification"
	ordersobs "github.com/openlmis/fulfillment/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/openlmis/fulfillment/internal/domains/orders/adapters/persistence/postgres"
	"github.com/openlmis/fulfillment/internal/domains/orders/adapters/storage"
	"github.com/openlmis/fulfillment/internal/domains/orders/adapters/transfer"
	ordersworkflows "github.com/openlmis/fulfillment/internal/domains/orders/adapters/workflows"
	"github.com/openlmis/fulfillment/internal/domains/orders/application"
	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/export"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
	"github.com/openlmis/fulfillment/internal/platform/migrations"
	platformobservability "github.com/openlmis/fulfillment/internal/platform/observability"
	platformpostgres "github.com/openlmis/fulfillment/internal/platform/postgres"
)

// ServiceName identifies this process in traces and logs.
const ServiceName = "fulfillment-api"

// Repositories groups the persistence ports used by the API process.
type Repositories struct {
	Orders    ports.OrderRepository
	Pods      ports.ProofOfDeliveryRepository
	Props     ports.TransferPropertiesRepository
	Templates ports.OrderFileTemplateRepository
}

// Run boots the fulfillment HTTP API with observability, repositories, and
// workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	instruments, shutdown, err := platformobservability.Init(ctx, ServiceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repos, cleanupRepos := BuildRepositories(ctx, cfg, logger)
	defer cleanupRepos()

	refdata, err := referencedata.NewClient(cfg.ReferenceDataURL, nil)
	if err != nil {
		return fmt.Errorf("reference-data client: %w", err)
	}
	exporter := export.NewExporter(refdata)

	staging, err := storage.NewFilesystem(cfg.StagingDirectory, exporter, repos.Templates)
	if err != nil {
		return fmt.Errorf("order staging: %w", err)
	}
	sender := transfer.NewSender(repos.Props, staging, logger)

	var notifier ports.NotificationDispatcher
	if cfg.NotificationURL != "" {
		notifier, err = notification.NewClient(cfg.NotificationURL, nil)
		if err != nil {
			return fmt.Errorf("notification client: %w", err)
		}
	} else {
		logger.Warn("NOTIFICATION_URL not set, order notifications disabled")
	}

	coreService, err := NewOrderService(cfg, repos, refdata, staging, sender, notifier, logger)
	if err != nil {
		return err
	}
	orderService := ordersobs.New(
		coreService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var orderWorkflows ports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := ConnectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running order submission inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	router := httpapi.NewRouter(httpapi.Handlers{
		Orders:             httpapi.NewOrderAPI(orderService, orderWorkflows, exporter, repos.Templates),
		Templates:          httpapi.NewTemplateAPI(repos.Templates),
		TransferProperties: httpapi.NewTransferPropertiesAPI(repos.Props),
		ProofOfDeliveries:  httpapi.NewProofOfDeliveryAPI(repos.Pods, repos.Orders),
	})
	router.Use(otelgin.Middleware(ServiceName))

	addr := ":" + cfg.Port
	logger.Info("fulfillment API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("fulfillment API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// NewOrderService builds the core order service from configuration.
func NewOrderService(
	cfg Config,
	repos Repositories,
	refdata ports.ReferenceDataClient,
	staging ports.OrderStorage,
	sender ports.OrderSender,
	notifier ports.NotificationDispatcher,
	logger *slog.Logger,
) (ports.Service, error) {
	numberConfig := domain.OrderNumberConfiguration{
		Prefix:             cfg.OrderNumberPrefix,
		IncludePrefix:      cfg.IncludePrefix,
		IncludeProgramCode: cfg.IncludeProgramCode,
		IncludeTypeSuffix:  cfg.IncludeTypeSuffix,
	}
	service, err := application.NewService(
		repos.Orders,
		repos.Pods,
		refdata,
		staging,
		sender,
		notifier,
		numberConfig,
		application.NotificationConfig{
			From:            cfg.NotificationFrom,
			SubjectTemplate: cfg.NotificationSubject,
			BodyTemplate:    cfg.NotificationBody,
		},
		application.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("order service: %w", err)
	}
	return service, nil
}

// BuildRepositories wires the postgres-backed repositories, falling back to
// in-memory stores when no database is reachable.
func BuildRepositories(ctx context.Context, cfg Config, logger *slog.Logger) (Repositories, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return memoryRepositories(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to in-memory repositories", slog.String("error", err.Error()))
		return memoryRepositories(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to in-memory repositories", slog.String("error", err.Error()))
		return memoryRepositories(), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to in-memory repositories", slog.String("error", err.Error()))
		_ = sqlDB.Close()
		return memoryRepositories(), func() {}
	}
	logger.Info("repositories configured with postgres")
	repos := Repositories{
		Orders:    orderspostgres.NewOrderRepository(db),
		Pods:      orderspostgres.NewProofOfDeliveryRepository(db),
		Props:     orderspostgres.NewTransferPropertiesRepository(db),
		Templates: orderspostgres.NewOrderFileTemplateRepository(db),
	}
	return repos, func() { _ = sqlDB.Close() }
}

func memoryRepositories() Repositories {
	return Repositories{
		Orders:    ordersmemory.NewOrderRepository(),
		Pods:      ordersmemory.NewProofOfDeliveryRepository(),
		Props:     ordersmemory.NewTransferPropertiesRepository(),
		Templates: ordersmemory.NewOrderFileTemplateRepository(),
	}
}

// ConnectTemporalClient dials Temporal using the process configuration.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
