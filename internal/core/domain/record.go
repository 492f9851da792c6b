package domain

import (
	"strconv"
	"time"
)

// Record is an entity as stored by the persistence API.
type Record struct {
	ID        string
	Kind      EntityKind
	Data      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ListQuery struct {
	Page         int
	Limit        int
	FeaturedOnly bool
}

const (
	defaultPageLimit = 12
	maxPageLimit     = 100
)

func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}
	return q
}

func (q ListQuery) Offset() int64 {
	return int64((q.Page - 1) * q.Limit)
}

// Params is the canonical form used for cache keys.
func (q ListQuery) Params() map[string]string {
	return map[string]string{
		"page":     strconv.Itoa(q.Page),
		"limit":    strconv.Itoa(q.Limit),
		"featured": strconv.FormatBool(q.FeaturedOnly),
	}
}

type RecordPage struct {
	Items []Record
	Total int64
	Page  int
	Limit int
}

const (
	EventRecordSaved   = "record.saved"
	EventRecordDeleted = "record.deleted"
)

// RecordEvent is published after every successful write.
type RecordEvent struct {
	Type       string     `json:"type"`
	Kind       EntityKind `json:"kind"`
	RecordID   string     `json:"record_id"`
	OccurredAt time.Time  `json:"occurred_at"`
}
