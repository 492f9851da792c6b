package usecase

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// InvalidateListingsUseCase drops cached listings when any instance reports a write.
type InvalidateListingsUseCase struct {
	cache port.ListingCachePort
}

func NewInvalidateListingsUseCase(cache port.ListingCachePort) *InvalidateListingsUseCase {
	return &InvalidateListingsUseCase{cache: cache}
}

func (uc *InvalidateListingsUseCase) Execute(ctx context.Context, event domain.RecordEvent) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":  "InvalidateListings",
		"event":     event.Type,
		"kind":      event.Kind,
		"record_id": event.RecordID,
	})

	if !event.Kind.Valid() {
		ucLogger.Warn("Ignoring event for unknown kind", nil)
		return domain.ErrUnknownEntityKind
	}
	if err := uc.cache.Invalidate(ctx, event.Kind); err != nil {
		ucLogger.Error("Failed to invalidate listing cache", err, nil)
		return err
	}

	ucLogger.Debug("Listing cache invalidated", nil)
	return nil
}
