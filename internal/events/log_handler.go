package events

import (
	"context"

	"catalog-api/internal/domain"

	"go.uber.org/zap"
)

// LogHandler logs every event it receives.
func LogHandler(logger *zap.Logger) Handler {
	return func(_ context.Context, e domain.Event) error {
		logger.Info("Domain event dispatched",
			zap.String("type", string(e.EventType())),
			zap.String("aggregate_id", e.AggregateID().String()),
			zap.Time("occurred_at", e.OccurredAt()),
		)
		return nil
	}
}
