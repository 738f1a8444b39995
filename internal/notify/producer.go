// Package notify publishes large money movements to Kafka, covering
// transfers, deposits, withdrawals and admin adjustments. Delivery is best
// effort; a broker outage never fails the ledger write that triggered it.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"platform-ledger-go/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransferEvent is the message body published for movements at or above the
// configured threshold. Kind distinguishes transfers from deposits,
// withdrawals and admin adjustments.
type TransferEvent struct {
	Platform  string    `json:"platform"`
	SenderId  string    `json:"sender_id"`
	Recipient string    `json:"recipient"`
	Amount    string    `json:"amount"`
	Currency  string    `json:"currency"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

type Producer struct {
	writer    *kafka.Writer
	threshold decimal.Decimal
}

// NewProducer builds a Kafka producer from config, or returns nil when
// notifications are disabled. A nil *Producer is safe to use.
func NewProducer(cfg models.NotifyConfig) (*Producer, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("notify enabled but no brokers configured")
	}

	threshold, err := decimal.NewFromString(cfg.Threshold)
	if err != nil {
		return nil, fmt.Errorf("invalid notify threshold %q: %w", cfg.Threshold, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Compression:  kafka.Snappy,
	}

	zap.L().Info("Kafka notifications enabled",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
		zap.String("threshold", threshold.String()))

	return &Producer{writer: writer, threshold: threshold}, nil
}

// NotifyTransfer publishes the event when the amount meets the threshold.
// Failures are logged and swallowed.
func (p *Producer) NotifyTransfer(ctx context.Context, event TransferEvent) {
	if p == nil {
		return
	}
	amount, err := decimal.NewFromString(event.Amount)
	if err != nil || amount.LessThan(p.threshold) {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		zap.L().Warn("Failed to marshal transfer event", zap.Error(err))
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.SenderId),
		Value: payload,
	})
	if err != nil {
		zap.L().Warn("Failed to publish transfer event",
			zap.String("platform", event.Platform),
			zap.Error(err))
		return
	}

	zap.L().Info("Published large transfer event",
		zap.String("platform", event.Platform),
		zap.String("amount", event.Amount))
}

func (p *Producer) Close() {
	if p == nil {
		return
	}
	if err := p.writer.Close(); err != nil {
		zap.L().Warn("Failed to close Kafka writer", zap.Error(err))
	}
}
