package utils

import (
	"context"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/ihost-app/ihost-backend/config"
)

var kafkaWriter *kafka.Writer

// InitializeKafka sets up the shared writer for the event-activity topic.
func InitializeKafka(cfg *config.Config) {
	kafkaWriter = &kafka.Writer{
		Addr:     kafka.TCP(cfg.KafkaBrokers...),
		Topic:    cfg.KafkaEventTopic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Printf("✅ Kafka writer initialized for topic %s\n", cfg.KafkaEventTopic)
}

// PublishEventActivity writes one activity message. Messages for the same
// key land on the same partition, so per-event ordering holds.
func PublishEventActivity(ctx context.Context, key string, payload []byte) error {
	if kafkaWriter == nil {
		log.Println("⚠️  Kafka not initialized, dropping activity message")
		return nil
	}
	return kafkaWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

// CloseKafka flushes and closes the writer.
func CloseKafka() {
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			log.Printf("⚠️  Kafka writer close: %v\n", err)
		}
	}
}
