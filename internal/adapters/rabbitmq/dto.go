package rabbitmq

import (
	"time"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

// RecordEventDTO is the body of every record event message.
type RecordEventDTO struct {
	Type       string    `json:"type"`
	Kind       string    `json:"kind"`
	RecordID   string    `json:"record_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func toRecordEventDTO(e domain.RecordEvent) RecordEventDTO {
	return RecordEventDTO{
		Type:       e.Type,
		Kind:       string(e.Kind),
		RecordID:   e.RecordID,
		OccurredAt: e.OccurredAt,
	}
}

func (d RecordEventDTO) toDomain() domain.RecordEvent {
	return domain.RecordEvent{
		Type:       d.Type,
		Kind:       domain.EntityKind(d.Kind),
		RecordID:   d.RecordID,
		OccurredAt: d.OccurredAt,
	}
}

// routingKeyFor builds keys like record.saved.auction.
func routingKeyFor(e domain.RecordEvent) string {
	return e.Type + "." + string(e.Kind)
}
