package kafka_middleware

import (
	"context"
	"time"

	"github.com/thisisgagangupta/dev-kiosk/pkg/kafka"
	"github.com/thisisgagangupta/dev-kiosk/pkg/logger"
)

// LoggingProducerMiddleware logs publish attempts and their outcome.
func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		if err != nil {
			log.Warn("Failed to publish message",
				"topic", msg.Topic,
				"key", msg.Key,
				"event_id", msg.GetEventID(),
				"event_type", msg.GetEventType(),
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err,
			)
			return err
		}

		log.Debug("Published message",
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}
}
