package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"

	logger_adapter "github.com/rauljr10980/county-cad-tracker-sub005/internal/adapters/logger"
	postgres_adapter "github.com/rauljr10980/county-cad-tracker-sub005/internal/adapters/postgres"
	rabbitmq_adapter "github.com/rauljr10980/county-cad-tracker-sub005/internal/adapters/rabbitmq"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/adapters/rest"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/adapters/spreadsheet"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/configs"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/constants"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/port"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/usecase"
	fluentlogger "github.com/rauljr10980/county-cad-tracker-sub005/pkg/fluent_logger"
	"github.com/rauljr10980/county-cad-tracker-sub005/pkg/postgres"
	"github.com/rauljr10980/county-cad-tracker-sub005/pkg/rabbitmq/rabbitmq_common"
	"github.com/rauljr10980/county-cad-tracker-sub005/pkg/rabbitmq/rabbitmq_consumer"
	"github.com/rauljr10980/county-cad-tracker-sub005/pkg/rabbitmq/rabbitmq_producer"
)

// App wires the service together and owns the component lifecycle.
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	fileEventsListener  port.EventListenerPort
	reportEventProducer *rabbitmq_producer.Publisher
}

// NewApp is the composition root: every dependency is created and wired here.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. Loggers ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 2. Low-level dependencies ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	snapshotStorageAdapter := postgres_adapter.NewPostgresSnapshotStorageAdapter(dbPool)
	reportStorageAdapter := postgres_adapter.NewPostgresReportStorageAdapter(dbPool)
	foreclosureSignalAdapter := postgres_adapter.NewPostgresForeclosureSignalAdapter(dbPool)
	appLogger.Info("Postgres storage adapters initialized.", nil)

	producerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})
	pkgLoggerBridge := rabbitmq_adapter.NewPkgLoggerBridge(producerLogger)

	connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger)
	connManager, err := rabbitmq_common.GetManager(appConfig.RabbitMQ.URL, connManagerBridge)
	if err != nil {
		appLogger.Error("Failed to create connection manager", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

	producerCfg := rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		ExchangeName:             constants.TrackerExchange,
		ExchangeType:             "direct",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,

		Logger: pkgLoggerBridge,
	}
	eventProducer, err := rabbitmq_producer.NewPublisher(producerCfg, connManager)
	if err != nil {
		appLogger.Error("Failed to create event producer", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	appLogger.Info("RabbitMQ Event Producer initialized.", nil)

	reportPublisher, err := rabbitmq_adapter.NewReportPublisherAdapter(eventProducer, constants.RoutingKeyReportReady)
	if err != nil {
		appLogger.Error("Failed to create report publisher adapter", err, nil)
		dbPool.Close()
		return nil, err
	}
	appLogger.Info("All outgoing adapters initialized.", nil)

	// --- 3. Use cases ---
	ingestSnapshotUseCase := usecase.NewIngestSnapshotUseCase(
		snapshotStorageAdapter,
		reportStorageAdapter,
		foreclosureSignalAdapter,
		reportPublisher,
		appConfig.Ingestion.ReportSampleCap,
	)
	getDiffReportUseCase := usecase.NewGetDiffReportUseCase(reportStorageAdapter)
	getLatestReportUseCase := usecase.NewGetLatestDiffReportUseCase(reportStorageAdapter)
	listSnapshotsUseCase := usecase.NewListSnapshotsUseCase(snapshotStorageAdapter)
	appLogger.Info("All use cases initialized.", nil)

	// --- 4. Incoming adapters ---
	fileConsumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:              rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		QueueName:           constants.QueueDelinquencyFiles,
		DurableQueue:        true,
		ExchangeNameForBind: constants.TrackerExchange,
		RoutingKeyForBind:   constants.RoutingKeyDelinquencyFiles,
		PrefetchCount:       1,
		ConsumerTag:         "delinquency-file-ingester",
		DeclareQueue:        true,

		EnableRetryMechanism: true,

		RetryExchange: constants.QueueDelinquencyFiles + "_retry_ex",
		RetryQueue:    constants.QueueDelinquencyFiles + "_retry_wait_30s",
		RetryTTL:      30000,

		FinalDLXExchange:   constants.FinalDLXExchange,
		FinalDLQ:           constants.FinalDLQ,
		FinalDLQRoutingKey: constants.FinalDLQRoutingKey,

		MaxRetries: 3,
	}
	fileEventsListener, err := rabbitmq_adapter.NewDelinquencyFileConsumerAdapter(
		fileConsumerCfg,
		ingestSnapshotUseCase,
		spreadsheet.OpenSource,
		baseLogger,
		connManager,
	)
	if err != nil {
		appLogger.Error("Failed to create delinquency file listener", err, nil)
		dbPool.Close()
		return nil, err
	}
	appLogger.Info("Delinquency File Events Listener initialized.", nil)

	// REST API server
	ingestionHandlers := rest.NewIngestionHandler(ingestSnapshotUseCase, listSnapshotsUseCase, spreadsheet.OpenSource)
	reportHandlers := rest.NewReportHandler(getDiffReportUseCase, getLatestReportUseCase)

	apiServer := rest.NewServer(appConfig.Rest.PORT, ingestionHandlers, reportHandlers, appConfig.Rest.AllowedOrigins, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	application := &App{
		config:              appConfig,
		dbPool:              dbPool,
		apiServer:           apiServer,
		fileEventsListener:  fileEventsListener,
		reportEventProducer: eventProducer,

		fluentClient: fluentClient,
		logger:       appLogger,
	}

	return application, nil
}

// Run starts every component and manages graceful shutdown.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.fileEventsListener != nil {
			if err := a.fileEventsListener.Close(); err != nil {
				a.logger.Error("Error closing delinquency file listener", err, nil)
			}
		}

		if a.reportEventProducer != nil {
			if err := a.reportEventProducer.Close(); err != nil {
				a.logger.Error("Error closing event producer", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// stdout only, fluent may already be unreachable
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 1)

	startListener := func(name string, listener port.EventListenerPort) {
		defer wg.Done()
		listenerLogger := a.logger.WithFields(port.Fields{"listener_name": name})
		listenerLogger.Info("Starting listener...", nil)

		if err := listener.Start(appCtx); err != nil {
			listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
			errorsCh <- fmt.Errorf("%s error: %w", name, err)
		} else {
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}
	}

	wg.Add(1)
	go startListener("Delinquency File Events Listener", a.fileEventsListener)

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	}

	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
