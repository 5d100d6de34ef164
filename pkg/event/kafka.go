package event

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/angotech/angotech/config"
	"github.com/angotech/angotech/pkg/logger"
)

var (
	writerMu sync.Mutex
	writer   *kafka.Writer

	// bridged lists the event names forwarded to Kafka. Everything
	// else stays in-process.
	bridged = map[string]bool{
		"order.placed": true,
	}
)

// ConnectKafka boots the Kafka bridge when KAFKA_BROKERS is set.
// Without brokers the dispatcher stays purely in-process.
func ConnectKafka() {
	brokers := config.KafkaBrokers()
	if brokers == "" {
		return
	}

	writerMu.Lock()
	defer writerMu.Unlock()

	writer = &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        config.KafkaOrderTopic(),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	logger.Info("event: kafka bridge enabled", "brokers", brokers, "topic", config.KafkaOrderTopic())
}

// CloseKafka flushes and closes the bridge. Safe when never connected.
func CloseKafka() {
	writerMu.Lock()
	defer writerMu.Unlock()

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Warn("event: kafka close", "error", err)
		}
		writer = nil
	}
}

func publish(event string, payload interface{}) {
	if !bridged[event] {
		return
	}

	writerMu.Lock()
	w := writer
	writerMu.Unlock()
	if w == nil {
		return
	}

	value, err := json.Marshal(payload)
	if err != nil {
		logger.Error("event: kafka marshal", "event", event, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event)},
		},
	}
	if err := w.WriteMessages(ctx, msg); err != nil {
		// Weak consistency: the order is already committed locally,
		// a failed publish is logged and not retried here.
		logger.Error("event: kafka publish", "event", event, "error", err)
	}
}
