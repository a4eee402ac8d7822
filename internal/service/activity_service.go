package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"mallfinder-be/internal/pkg/logger"
	"mallfinder-be/pkg/events"
	"mallfinder-be/pkg/natsbus"
)

const activityTopic = "user_activity"

// IActivityService is the append-only user-activity log. Publishing is fire
// and forget: a full bus or a dead consumer must never delay a bot response.
type IActivityService interface {
	Publish(opaqueUserID, event string, data map[string]interface{})
	Consume(ctx context.Context) error
}

type activityEnvelope struct {
	Event      string                 `json:"event"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt string                 `json:"occurred_at"`
}

type activityService struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	actLogger  logger.ILogger
	sysLogger  logger.ILogger
	mirror     *natsbus.Publisher
}

// NewActivityService wires the in-process event bus to the isolated activity
// log file. mirror may be nil when NATS is not configured.
func NewActivityService(
	publisher message.Publisher,
	subscriber message.Subscriber,
	actLogger logger.ILogger,
	sysLogger logger.ILogger,
	mirror *natsbus.Publisher,
) IActivityService {
	return &activityService{
		publisher:  publisher,
		subscriber: subscriber,
		actLogger:  actLogger,
		sysLogger:  sysLogger,
		mirror:     mirror,
	}
}

func (s *activityService) Publish(opaqueUserID, event string, data map[string]interface{}) {
	ev := events.NewActivity(opaqueUserID, event, data)
	raw, err := json.Marshal(activityEnvelope{
		Event:      ev.EventType(),
		Payload:    ev.Payload(),
		OccurredAt: ev.Timestamp().Format("2006-01-02T15:04:05.000Z07:00"),
	})
	if err != nil {
		s.sysLogger.Error("activity", "failed to encode activity event", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), raw)
	if err := s.publisher.Publish(activityTopic, msg); err != nil {
		s.sysLogger.Error("activity", "failed to publish activity event", map[string]interface{}{"error": err.Error()})
	}
}

// Consume drains the activity topic until ctx is done. Run in a background
// goroutine from main.
func (s *activityService) Consume(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, activityTopic)
	if err != nil {
		return err
	}

	for msg := range messages {
		var envelope activityEnvelope
		if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
			s.sysLogger.Warn("activity", "dropping malformed activity message", map[string]interface{}{"error": err.Error()})
			msg.Ack()
			continue
		}

		s.actLogger.Info("user_activity", envelope.Event, envelope.Payload)

		if s.mirror != nil {
			ev := events.BaseEvent{Type: envelope.Event, Data: envelope.Payload}
			if err := s.mirror.Publish(ctx, ev); err != nil {
				s.sysLogger.Warn("activity", "NATS mirror publish failed", map[string]interface{}{"error": err.Error()})
			}
		}
		msg.Ack()
	}
	return nil
}
