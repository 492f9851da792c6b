package usecase

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// ListRecordsUseCase serves listing pages, through the cache when one is configured.
type ListRecordsUseCase struct {
	repo  port.RecordRepositoryPort
	cache port.ListingCachePort
}

func NewListRecordsUseCase(repo port.RecordRepositoryPort, cache port.ListingCachePort) *ListRecordsUseCase {
	return &ListRecordsUseCase{repo: repo, cache: cache}
}

func (uc *ListRecordsUseCase) Execute(ctx context.Context, kind domain.EntityKind, query domain.ListQuery) (*domain.RecordPage, error) {
	query = query.Normalize()
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ListRecords",
		"kind":     kind,
		"page":     query.Page,
		"limit":    query.Limit,
	})

	if uc.cache != nil {
		page, ok, err := uc.cache.Get(ctx, kind, query)
		if err != nil {
			ucLogger.Warn("Listing cache read failed", port.Fields{"error": err.Error()})
		}
		if ok {
			ucLogger.Debug("Listing served from cache", nil)
			return page, nil
		}
	}

	page, err := uc.repo.List(ctx, kind, query)
	if err != nil {
		ucLogger.Error("Repository failed to list records", err, nil)
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, kind, query, page); err != nil {
			ucLogger.Warn("Listing cache write failed", port.Fields{"error": err.Error()})
		}
	}
	ucLogger.Debug("Listing served from repository", port.Fields{"total": page.Total})
	return page, nil
}
