package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-shop-admin/internal/config"
	"github.com/ariefcatur/go-shop-admin/internal/events"
	kafkax "github.com/ariefcatur/go-shop-admin/internal/kafka"
	"github.com/ariefcatur/go-shop-admin/internal/logger"
	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Service:     cfg.ServiceName + "-audit",
		Development: cfg.AppEnv == "dev",
		Encoding:    cfg.LogEncoding,
		Level:       cfg.LogLevel,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, topic := range []string{cfg.KafkaTopicAudit, cfg.KafkaTopicWebhook} {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.AuditGroup, topic, cfg.AuditWorkers, log)
		h := &auditLog{log: log.With(zap.String("topic", topic))}
		g.Go(func() error {
			log.Info("audit consumer started",
				zap.String("group", cfg.AuditGroup),
				zap.String("topic", topic),
				zap.Int("workers", cfg.AuditWorkers))
			return cons.Start(gctx, h.handle)
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("consumer exit", zap.Error(err))
		os.Exit(1)
	}
	log.Info("audit consumers stopped")
}

type auditLog struct {
	log *zap.Logger
}

// handle writes one line per envelope. Undecodable messages are logged and
// committed so they do not block the partition.
func (a *auditLog) handle(_ context.Context, m kafka.Message) error {
	ev, err := kafkax.DecodeEnvelope(m.Value)
	if err != nil {
		a.log.Error("skipping message", zap.Int("partition", m.Partition), zap.Int64("offset", m.Offset), zap.Error(err))
		return nil
	}
	fields := []zap.Field{
		zap.String("event_id", ev.EventID),
		zap.String("event_type", ev.EventType),
		zap.String("shop", ev.Shop),
		zap.String("trace_id", ev.TraceID),
		zap.String("correlation_id", ev.CorrelationID),
		zap.Time("occurred_at", ev.OccurredAt),
	}
	fields = append(fields, payloadFields(ev)...)
	a.log.Info("audit", fields...)
	return nil
}

func payloadFields(ev events.Envelope) []zap.Field {
	switch ev.EventType {
	case events.EventInventoryLevelSet:
		p, err := kafkax.UnwrapPayload[events.InventoryLevelSetPayload](ev.Payload)
		if err != nil {
			return []zap.Field{zap.Error(err)}
		}
		return []zap.Field{
			zap.Int64("inventory_item_id", p.InventoryItemID),
			zap.Int64("location_id", p.LocationID),
			zap.Int("available", p.Available),
		}
	case events.EventInventoryItemUpdated:
		p, err := kafkax.UnwrapPayload[events.InventoryItemUpdatedPayload](ev.Payload)
		if err != nil {
			return []zap.Field{zap.Error(err)}
		}
		return []zap.Field{zap.Int64("inventory_item_id", p.InventoryItemID)}
	case events.EventOrderUpdated:
		p, err := kafkax.UnwrapPayload[events.OrderUpdatedPayload](ev.Payload)
		if err != nil {
			return []zap.Field{zap.Error(err)}
		}
		return []zap.Field{zap.Int64("order_id", p.OrderID)}
	case events.EventWebhookReceived:
		p, err := kafkax.UnwrapPayload[events.WebhookReceivedPayload](ev.Payload)
		if err != nil {
			return []zap.Field{zap.Error(err)}
		}
		return []zap.Field{zap.String("webhook_topic", p.Topic), zap.Int("body_bytes", len(p.Body))}
	}
	return []zap.Field{zap.ByteString("payload", ev.Payload)}
}
