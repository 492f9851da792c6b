package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

func TestAbandonedSubmitReenablesSubmission(t *testing.T) {
	store := newCtxStore()
	records := newFakeRecordGateway()
	s := newSession(t, store, domain.KindAuction, "Palm Villas")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, res := NewSubmitDraftUseCase(store, abandoningRecordGateway{fakeRecordGateway: records, cancel: cancel}).Execute(ctx, s.ID)
	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, context.Canceled)

	stored, err := store.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.False(t, stored.Submitting)
	assert.NoError(t, stored.CanSubmit())

	_, res = NewSubmitDraftUseCase(store, records).Execute(context.Background(), s.ID)
	require.True(t, res.OK())
	assert.Equal(t, 1, records.creates)
}

func TestAbandonedUploadsReleaseSession(t *testing.T) {
	type upload func(ctx context.Context, gw *fakeGateway, store ctxStore, sessionID string) domain.Result

	cases := []struct {
		name string
		kind domain.EntityKind
		run  upload
	}{
		{
			name: "main image",
			kind: domain.KindOffer,
			run: func(ctx context.Context, gw *fakeGateway, store ctxStore, sessionID string) domain.Result {
				_, res := NewUploadMainImageUseCase(store, gw).Execute(ctx, sessionID, files("a.jpg")[0])
				return res
			},
		},
		{
			name: "gallery",
			kind: domain.KindOffer,
			run: func(ctx context.Context, gw *fakeGateway, store ctxStore, sessionID string) domain.Result {
				uc := NewUploadGalleryImagesUseCase(store, NewImageBatchUploader(gw, BatchSettled, 2))
				_, res := uc.Execute(ctx, sessionID, files("a.jpg"))
				return res
			},
		},
		{
			name: "property images",
			kind: domain.KindAuction,
			run: func(ctx context.Context, gw *fakeGateway, store ctxStore, sessionID string) domain.Result {
				s, propertyID, err := NewAddPropertyUseCase(store).Execute(ctx, sessionID)
				if err != nil || s == nil {
					return domain.Failed(domain.NoticeUploadFailed, "", err)
				}
				uc := NewUploadPropertyImagesUseCase(store, NewImageBatchUploader(gw, BatchSettled, 2))
				_, res := uc.Execute(ctx, sessionID, propertyID, files("a.jpg"))
				return res
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newCtxStore()
			gw := newFakeGateway()
			s := newSession(t, store, tc.kind, "Title")

			gw.hold("a.jpg")
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan domain.Result, 1)
			go func() { done <- tc.run(ctx, gw, store, s.ID) }()
			gw.waitStarted(t, "a.jpg")
			cancel()

			res := <-done
			assert.False(t, res.OK())

			stored, err := store.Get(context.Background(), s.ID)
			require.NoError(t, err)
			assert.Equal(t, 0, stored.PendingUploads)
			assert.False(t, stored.Draft.MainImage.IsPending())
			assert.NoError(t, stored.CanSubmit())
		})
	}
}
