package constants

const (
	RecordEventsExchangeType = "topic"
	ListingCacheConsumerTag  = "listing-cache-invalidator"

	// Matches every record.saved.<kind> and record.deleted.<kind> key.
	RecordEventsBindingKey = "record.#"
)

const (
	HeaderTraceID      = "x-trace-id"
	HeaderEventType    = "event-type"
	HeaderEventVersion = "event-version"
	RecordEventVersion = "v1"
)
