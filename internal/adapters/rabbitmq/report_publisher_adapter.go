package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/contextkeys"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/port"
	"github.com/rauljr10980/county-cad-tracker-sub005/pkg/rabbitmq/rabbitmq_producer"
)

// ReportPublisherAdapter publishes report-ready events to the message bus.
type ReportPublisherAdapter struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

func NewReportPublisherAdapter(producer *rabbitmq_producer.Publisher, routingKey string) (*ReportPublisherAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("routingKey cannot be empty")
	}

	return &ReportPublisherAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

func (a *ReportPublisherAdapter) PublishReportReady(ctx context.Context, event port.ReportReadyEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "ReportPublisherAdapter",
		"routing_key": a.routingKey,
		"report_id":   event.ReportID,
	})

	eventJSON, err := json.Marshal(event)
	if err != nil {
		adapterLogger.Error("Failed to marshal report-ready event to JSON", err, nil)
		return fmt.Errorf("failed to marshal report-ready event to JSON: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         eventJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			"event-type":    "ReportReadyEvent",
			"event-version": "1.0.0",
		},
	}

	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish report-ready event", err, nil)
		return err
	}

	adapterLogger.Info("Successfully published report-ready event", nil)
	return nil
}
