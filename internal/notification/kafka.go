package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/ihost-app/ihost-backend/config"
	"github.com/ihost-app/ihost-backend/utils"
)

// Activity types flowing through the event-activity topic.
const (
	ActivityRegistration = "registration"
	ActivityLike         = "like"
)

// ActivityMessage is the payload published whenever someone interacts with
// an event. The consumer turns it into a notification for the host.
type ActivityMessage struct {
	Type      string `json:"type"`
	EventID   uint   `json:"event_id"`
	EventName string `json:"event_name"`
	HostID    uint   `json:"host_id"`
	ActorName string `json:"actor_name"`
	Date      string `json:"date,omitempty"`
}

// Publisher decouples producers (the event service) from the broker.
type Publisher interface {
	PublishActivity(ctx context.Context, msg ActivityMessage) error
}

type kafkaPublisher struct{}

func NewKafkaPublisher() Publisher {
	return &kafkaPublisher{}
}

func (p *kafkaPublisher) PublishActivity(ctx context.Context, msg ActivityMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return utils.PublishEventActivity(ctx, fmt.Sprintf("event-%d", msg.EventID), payload)
}

// =============================
// 🔄 Kafka Consumer
//
// StartKafkaConsumer reads the event-activity topic and fans each message
// out to the event host as an in-app + push notification.
func StartKafkaConsumer(svc Service, cfg *config.Config) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaEventTopic,
		GroupID: "ihost-notification-consumer",
	})

	go func() {
		log.Printf("🔄 Kafka consumer started on topic %s\n", cfg.KafkaEventTopic)
		for {
			m, err := reader.ReadMessage(context.Background())
			if err != nil {
				log.Printf("❌ Kafka read error: %v\n", err)
				continue
			}

			var msg ActivityMessage
			if err := json.Unmarshal(m.Value, &msg); err != nil {
				log.Printf("⚠️  Skipping malformed activity message: %v\n", err)
				continue
			}

			title, body, category := renderActivity(msg)
			if title == "" {
				log.Printf("⚠️  Unknown activity type %q, skipping\n", msg.Type)
				continue
			}

			eventID := msg.EventID
			if err := svc.NotifyUser(context.Background(), msg.HostID, &eventID, title, body, category); err != nil {
				log.Printf("❌ Failed to notify host %d: %v\n", msg.HostID, err)
			}
		}
	}()
}

func renderActivity(msg ActivityMessage) (title, body, category string) {
	switch msg.Type {
	case ActivityRegistration:
		body = fmt.Sprintf("%s registered for %s", msg.ActorName, msg.EventName)
		if msg.Date != "" {
			body = fmt.Sprintf("%s on %s", body, msg.Date)
		}
		return "New registration 🎉", body, CategoryRegistration
	case ActivityLike:
		return "Your event got a like ❤️", fmt.Sprintf("%s liked %s", msg.ActorName, msg.EventName), CategoryLike
	default:
		return "", "", ""
	}
}
