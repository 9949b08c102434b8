package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/ports"
	"github.com/redis/go-redis/v9"
)

// DefaultAuditStream is used when no stream name is configured.
const DefaultAuditStream = "ledger:audit"

const auditStreamMaxLen = 100000

// StreamAuditSink appends audit events to a Redis stream.
type StreamAuditSink struct {
	client *redis.Client
	stream string
}

var _ ports.AuditSink = (*StreamAuditSink)(nil)

func NewStreamAuditSink(client *redis.Client, stream string) *StreamAuditSink {
	if stream == "" {
		stream = DefaultAuditStream
	}
	return &StreamAuditSink{client: client, stream: stream}
}

// Record implements ports.AuditSink.
func (s *StreamAuditSink) Record(ctx context.Context, event domain.AuditEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode audit event: %w", err)
	}
	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: auditStreamMaxLen,
		Approx: true,
		Values: map[string]any{
			"business_id": event.BusinessID,
			"module":      event.Module,
			"action":      event.Action,
			"entity_id":   event.EntityID,
			"payload":     string(payload),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to append to stream %s: %w", s.stream, err)
	}
	return nil
}
