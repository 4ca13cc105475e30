package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ariefcatur/go-shop-admin/internal/events"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditLogHandle(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	a := &auditLog{log: zap.New(core)}

	ev, err := events.New(context.Background(), events.EventOrderUpdated, "shop-admin", "demo.myshopify.com", "42",
		events.OrderUpdatedPayload{OrderID: 42})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := json.Marshal(ev)

	if err := a.handle(context.Background(), kafka.Message{Value: b}); err != nil {
		t.Fatal(err)
	}
	if err := a.handle(context.Background(), kafka.Message{Value: []byte("not json")}); err != nil {
		t.Fatalf("bad message must be committed, got %v", err)
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if entries[0].Message != "audit" || fields["order_id"] != int64(42) || fields["shop"] != "demo.myshopify.com" {
		t.Fatalf("entry = %+v", fields)
	}
	if entries[1].Message != "skipping message" {
		t.Fatalf("second entry = %q", entries[1].Message)
	}
}
