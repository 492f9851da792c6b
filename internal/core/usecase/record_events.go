package usecase

import (
	"context"
	"time"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// afterWrite drops the kind's cached listings and announces the change.
// Both steps are best effort: the write already succeeded.
func afterWrite(ctx context.Context, logger port.LoggerPort, cache port.ListingCachePort, events port.RecordEventPublisherPort, eventType string, kind domain.EntityKind, id string) {
	if cache != nil {
		if err := cache.Invalidate(ctx, kind); err != nil {
			logger.Warn("Failed to invalidate listing cache", port.Fields{"error": err.Error()})
		}
	}
	if events == nil {
		return
	}
	event := domain.RecordEvent{Type: eventType, Kind: kind, RecordID: id, OccurredAt: time.Now().UTC()}
	if err := events.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish record event", port.Fields{"error": err.Error(), "event": eventType})
	}
}
