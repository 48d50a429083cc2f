package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/contextkeys"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/contracts"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/port"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/port/usecases_port"
	"github.com/rauljr10980/county-cad-tracker-sub005/pkg/rabbitmq/rabbitmq_common"
	"github.com/rauljr10980/county-cad-tracker-sub005/pkg/rabbitmq/rabbitmq_consumer"
)

// DelinquencyFileEventDTO is the wire shape of one file-available announcement.
type DelinquencyFileEventDTO struct {
	Path   string `json:"path"`
	Source string `json:"source,omitempty"`
}

// SourceOpener turns a file path into a readable tabular source. Wired to the
// spreadsheet adapter in the composition root.
type SourceOpener func(path string) (port.TabularSourcePort, error)

// DelinquencyFileConsumerAdapter listens for file-available events and runs
// the ingestion use case for each announced export.
type DelinquencyFileConsumerAdapter struct {
	consumer   rabbitmq_consumer.Consumer
	ingestUC   usecases_port.IngestSnapshotUseCase
	openSource SourceOpener
	logger     port.LoggerPort
}

func NewDelinquencyFileConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	ingestUC usecases_port.IngestSnapshotUseCase,
	openSource SourceOpener,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*DelinquencyFileConsumerAdapter, error) {

	adapter := &DelinquencyFileConsumerAdapter{
		ingestUC:   ingestUC,
		openSource: openSource,
		logger:     logger,
	}

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_batch_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	// Exports arrive at most a few times a day, so a small batch with a short
	// timeout keeps latency low without giving up the shared consumer plumbing.
	consumer, err := rabbitmq_consumer.NewBatchConsumer(consumerCfg, adapter.batchMessageHandler, 5, 5*time.Second, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for delinquency files: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

// batchMessageHandler ingests every announced file in the batch. A failure on
// any file fails the whole batch so the retry topology gets a chance to replay it.
func (a *DelinquencyFileConsumerAdapter) batchMessageHandler(deliveries []amqp.Delivery) error {
	if len(deliveries) == 0 {
		return nil
	}

	traceID, _ := deliveries[0].Headers["x-trace-id"].(string)
	if traceID == "" {
		traceID = uuid.New().String()
	}

	batchID := uuid.New().String()

	batchLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"batch_id":     batchID,
		"batch_size":   len(deliveries),
		"adapter_name": "DelinquencyFileConsumerAdapter",
	})

	ctx := context.Background()
	ctx = contextkeys.ContextWithLogger(ctx, batchLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	batchLogger.Info("Received batch of file events to process.", nil)

	for _, d := range deliveries {
		event, err := a.unmarshalFileEvent(d, batchLogger)
		if err != nil {
			return err
		}

		sourceName := event.Source
		if sourceName == "" {
			sourceName = filepath.Base(event.Path)
		}

		src, err := a.openSource(event.Path)
		if err != nil {
			batchLogger.Error("Failed to open announced export file", err, port.Fields{"path": event.Path})
			return fmt.Errorf("failed to open export file %s: %w", event.Path, err)
		}

		snapshotID, err := a.ingestUC.Execute(ctx, src, sourceName)
		if err != nil {
			batchLogger.Error("Ingestion failed for announced export file", err, port.Fields{"path": event.Path})
			return fmt.Errorf("ingestion failed for %s: %w", event.Path, err)
		}

		batchLogger.Info("Ingested announced export file", port.Fields{
			"path":        event.Path,
			"snapshot_id": snapshotID.String(),
		})
	}

	return nil
}

func (a *DelinquencyFileConsumerAdapter) unmarshalFileEvent(d amqp.Delivery, logger port.LoggerPort) (*DelinquencyFileEventDTO, error) {
	eventType, _ := d.Headers["event-type"].(string)
	eventVersion, _ := d.Headers["event-version"].(string)
	if eventType == "" {
		eventType = "DelinquencyFileEvent"
	}
	if eventVersion == "" {
		eventVersion = "1.0.0"
	}

	if err := contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		logger.Error("File event failed schema validation", err, port.Fields{"delivery_tag": d.DeliveryTag})
		return nil, fmt.Errorf("file event failed schema validation: %w", err)
	}

	var event DelinquencyFileEventDTO
	if err := json.Unmarshal(d.Body, &event); err != nil {
		logger.Error("Failed to unmarshal file event", err, port.Fields{"delivery_tag": d.DeliveryTag})
		return nil, fmt.Errorf("failed to unmarshal file event: %w", err)
	}

	return &event, nil
}

// Start implements EventListenerPort.
func (a *DelinquencyFileConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close implements EventListenerPort.
func (a *DelinquencyFileConsumerAdapter) Close() error {
	return a.consumer.Close()
}
