package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

func TestSetDraftFields(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	s := newSession(t, store, domain.KindAuction, "")
	uc := NewSetDraftFieldsUseCase(store)

	s, err := uc.Execute(ctx, s.ID, map[string]any{"title": "Palm Villas", "featured": true, "date": "2024-03-11"})
	require.NoError(t, err)
	assert.Equal(t, "Palm Villas", s.Draft.Title())
	assert.Equal(t, true, s.Draft.Fields["featured"])

	_, err = uc.Execute(ctx, s.ID, map[string]any{"images": "x"})
	assert.ErrorIs(t, err, domain.ErrReservedField)

	_, err = uc.Execute(ctx, s.ID, map[string]any{"tags": []any{"a"}})
	assert.ErrorIs(t, err, domain.ErrInvalidFieldValue)

	_, err = uc.Execute(ctx, "missing", map[string]any{"title": "x"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestNavigateStepClampsAndKeepsDraft(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	s := newSession(t, store, domain.KindOffer, "Corner plot")
	uc := NewNavigateStepUseCase(store)

	s, err := uc.Execute(ctx, s.ID, domain.StepBack)
	require.NoError(t, err)
	assert.Equal(t, 0, s.StepIndex)

	for i := 0; i < 5; i++ {
		s, err = uc.Execute(ctx, s.ID, domain.StepForward)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, s.StepIndex)
	assert.Equal(t, domain.StepReview, s.Sequencer().Current())
	assert.Equal(t, "Corner plot", s.Draft.Title())

	_, err = uc.Execute(ctx, s.ID, "sideways")
	assert.ErrorIs(t, err, domain.ErrInvalidFieldValue)
}

func TestUploadMainImage(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	gw := newFakeGateway()
	uc := NewUploadMainImageUseCase(store, gw)
	s := newSession(t, store, domain.KindAuction, "Palm Villas")

	s, res := uc.Execute(ctx, s.ID, files("cover.jpg")[0])
	require.True(t, res.OK())
	assert.Equal(t, domain.NoticeUploaded, res.NoticeKey)
	assert.Equal(t, "https://cdn.test/Palm Villas/cover.jpg", s.Draft.MainImage.Image.URL)
	assert.False(t, s.Draft.MainImage.IsPending())

	gw.fail["broken.jpg"] = errHostDown
	s, res = uc.Execute(ctx, s.ID, files("broken.jpg")[0])
	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, errHostDown)
	assert.Equal(t, "https://cdn.test/Palm Villas/cover.jpg", s.Draft.MainImage.Image.URL)
	assert.False(t, s.Draft.MainImage.IsPending())
	assert.Equal(t, 0, s.PendingUploads)
}

func TestUploadMainImageShowsPreviewWhileInFlight(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	gw := newFakeGateway()
	uc := NewUploadMainImageUseCase(store, gw)
	s := newSession(t, store, domain.KindOffer, "Offer")

	release := gw.hold("cover.jpg")
	done := make(chan domain.Result, 1)
	go func() {
		_, res := uc.Execute(ctx, s.ID, files("cover.jpg")[0])
		done <- res
	}()
	gw.waitStarted(t, "cover.jpg")

	pending, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, pending.Draft.MainImage.IsPending())
	assert.Empty(t, pending.Draft.MainImage.Image.URL)
	assert.ErrorIs(t, pending.CanSubmit(), domain.ErrUploadsPending)

	release()
	require.True(t, (<-done).OK())
}

func TestGalleryBatchesLandInDispatchOrder(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	gw := newFakeGateway()
	uc := NewUploadGalleryImagesUseCase(store, NewImageBatchUploader(gw, BatchAllOrNothing, 4))
	s := newSession(t, store, domain.KindAuction, "Palm Villas")

	release := gw.hold("first.jpg")
	done := make(chan domain.Result, 1)
	go func() {
		_, res := uc.Execute(ctx, s.ID, files("first.jpg", "first-b.jpg"))
		done <- res
	}()
	gw.waitStarted(t, "first.jpg")

	_, res := uc.Execute(ctx, s.ID, files("second.jpg"))
	require.True(t, res.OK())

	release()
	require.True(t, (<-done).OK())

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://cdn.test/Palm Villas/gallery/first.jpg",
		"https://cdn.test/Palm Villas/gallery/first-b.jpg",
		"https://cdn.test/Palm Villas/gallery/second.jpg",
	}, got.Draft.GalleryURLs())
	assert.Equal(t, 0, got.PendingUploads)
}

func TestGalleryBatchFailureAppendsNothing(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	gw := newFakeGateway()
	gw.fail["bad.jpg"] = errHostDown
	uc := NewUploadGalleryImagesUseCase(store, NewImageBatchUploader(gw, BatchAllOrNothing, 4))
	s := newSession(t, store, domain.KindOffer, "Offer")

	s, res := uc.Execute(ctx, s.ID, files("ok.jpg", "bad.jpg"))
	assert.False(t, res.OK())
	assert.Empty(t, s.Draft.Gallery)

	_, res = uc.Execute(ctx, s.ID, nil)
	assert.ErrorIs(t, res.Err, domain.ErrNoFiles)
}

func TestRemoveGalleryImageUseCase(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	uc := NewUploadGalleryImagesUseCase(store, NewImageBatchUploader(newFakeGateway(), BatchAllOrNothing, 4))
	s := newSession(t, store, domain.KindOffer, "O")
	s, res := uc.Execute(ctx, s.ID, files("a.jpg", "b.jpg", "c.jpg"))
	require.True(t, res.OK())

	s, err := NewRemoveGalleryImageUseCase(store).Execute(ctx, s.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.test/O/gallery/a.jpg", "https://cdn.test/O/gallery/c.jpg"}, s.Draft.GalleryURLs())
}

func TestSubmitCreatesAndRedirects(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	records := newFakeRecordGateway()
	s := newSession(t, store, domain.KindAuction, "Palm Villas")

	session, res := NewSubmitDraftUseCase(store, records).Execute(ctx, s.ID)
	require.True(t, res.OK())
	assert.Nil(t, session)
	assert.Equal(t, "auction.saved", res.NoticeKey)
	assert.Equal(t, "/admin/auctions", res.Redirect)
	assert.Equal(t, 1, records.creates)

	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSubmitFailureLeavesDraftUntouched(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	records := newFakeRecordGateway()
	records.createErr = errors.New("persistence api responded 400: title is required")
	s := newSession(t, store, domain.KindAuction, "Palm Villas")
	s, _, err := NewAddPropertyUseCase(store).Execute(ctx, s.ID)
	require.NoError(t, err)
	before := s.Draft

	uc := NewSubmitDraftUseCase(store, records)
	session, res := uc.Execute(ctx, s.ID)

	assert.False(t, res.OK())
	assert.Equal(t, "auction.saveFailed", res.NoticeKey)
	assert.Empty(t, res.Redirect)
	require.NotNil(t, session)
	assert.False(t, session.Submitting)
	assert.NoError(t, session.CanSubmit())
	assert.Equal(t, before, session.Draft)

	// submit is enabled again
	records.createErr = nil
	_, res = uc.Execute(ctx, s.ID)
	assert.True(t, res.OK())
	assert.Equal(t, 2, records.creates)
}

func TestSubmitEditPatchesRecord(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	records := newFakeRecordGateway()
	records.records["rec-1"] = domain.NewDraft().SetField("name", "Sara")

	s, res := NewStartEditSessionUseCase(store, records).Execute(ctx, domain.KindTeamMember, "rec-1")
	require.True(t, res.OK())
	_, err := NewSetDraftFieldsUseCase(store).Execute(ctx, s.ID, map[string]any{"position": "CEO"})
	require.NoError(t, err)

	_, res = NewSubmitDraftUseCase(store, records).Execute(ctx, s.ID)
	require.True(t, res.OK())
	assert.Equal(t, "/admin/team", res.Redirect)
	assert.Equal(t, 1, records.updates)
	assert.Equal(t, 0, records.creates)
	assert.Equal(t, "CEO", records.records["rec-1"].StringField("position"))
}

func TestSubmitWaitsForUploads(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	records := newFakeRecordGateway()
	s := newSession(t, store, domain.KindOffer, "Offer")
	_, err := store.Update(ctx, s.ID, func(s *domain.Session) error {
		s.BeginUpload()
		return nil
	})
	require.NoError(t, err)

	session, res := NewSubmitDraftUseCase(store, records).Execute(ctx, s.ID)
	assert.False(t, res.OK())
	assert.Equal(t, domain.NoticeNotReady, res.NoticeKey)
	assert.ErrorIs(t, res.Err, domain.ErrUploadsPending)
	require.NotNil(t, session)
	assert.Equal(t, 0, records.creates)
}

func TestSubmitUnknownSession(t *testing.T) {
	_, res := NewSubmitDraftUseCase(newCountingStore(), newFakeRecordGateway()).Execute(context.Background(), "nope")
	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, domain.ErrSessionNotFound)
}

func TestHydrationFailureRedirectsToListing(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	records := newFakeRecordGateway()

	session, res := NewStartEditSessionUseCase(store, records).Execute(ctx, domain.KindAuction, "missing")

	assert.Nil(t, session)
	assert.False(t, res.OK())
	assert.Equal(t, "auction.loadFailed", res.NoticeKey)
	assert.Equal(t, "/admin/auctions", res.Redirect)
	assert.ErrorIs(t, res.Err, domain.ErrRecordNotFound)
	assert.Equal(t, 0, store.createdCount())
}

func TestHydrationBuildsEditSession(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	records := newFakeRecordGateway()
	d, _ := domain.NewDraft().SetField("title", "Palm Villas").AddProperty()
	records.records["rec-7"] = d

	session, res := NewStartEditSessionUseCase(store, records).Execute(ctx, domain.KindAuction, "rec-7")
	require.True(t, res.OK())
	require.NotNil(t, session)
	assert.Equal(t, domain.ModeEdit, session.Mode)
	assert.Equal(t, "rec-7", session.RecordID)
	assert.Equal(t, 0, session.StepIndex)
	assert.Len(t, session.Draft.Properties, 1)
}

func TestCancelSession(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	s := newSession(t, store, domain.KindRecord, "")

	require.NoError(t, NewCancelSessionUseCase(store).Execute(ctx, s.ID))
	_, err := NewGetSessionUseCase(store).Execute(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStartCreateSessionRejectsUnknownKind(t *testing.T) {
	_, err := NewStartCreateSessionUseCase(newCountingStore()).Execute(context.Background(), domain.EntityKind("testimonial"))
	assert.ErrorIs(t, err, domain.ErrUnknownEntityKind)
}

var _ port.SessionStorePort = (*countingStore)(nil)

func TestEarlierMainImageKeepsLaterPreview(t *testing.T) {
	cases := []struct {
		name      string
		failFirst bool
		wantURL   string
	}{
		{name: "earlier upload fails", failFirst: true, wantURL: ""},
		{name: "earlier upload resolves", wantURL: "https://cdn.test/Offer/a.jpg"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store := newCountingStore()
			gw := newFakeGateway()
			uc := NewUploadMainImageUseCase(store, gw)
			s := newSession(t, store, domain.KindOffer, "Offer")
			if tc.failFirst {
				gw.fail["a.jpg"] = errHostDown
			}

			releaseA := gw.hold("a.jpg")
			releaseB := gw.hold("b.jpg")
			doneA := make(chan domain.Result, 1)
			doneB := make(chan domain.Result, 1)
			go func() {
				_, res := uc.Execute(ctx, s.ID, files("a.jpg")[0])
				doneA <- res
			}()
			gw.waitStarted(t, "a.jpg")
			go func() {
				_, res := uc.Execute(ctx, s.ID, files("b.jpg")[0])
				doneB <- res
			}()
			gw.waitStarted(t, "b.jpg")

			releaseA()
			assert.Equal(t, !tc.failFirst, (<-doneA).OK())

			mid, err := store.Get(ctx, s.ID)
			require.NoError(t, err)
			assert.Equal(t, "b.jpg", mid.Draft.MainImage.Preview)
			assert.Equal(t, tc.wantURL, mid.Draft.MainImage.Image.URL)
			assert.ErrorIs(t, mid.CanSubmit(), domain.ErrUploadsPending)

			releaseB()
			require.True(t, (<-doneB).OK())

			final, err := store.Get(ctx, s.ID)
			require.NoError(t, err)
			assert.False(t, final.Draft.MainImage.IsPending())
			assert.Equal(t, "https://cdn.test/Offer/b.jpg", final.Draft.MainImage.Image.URL)
			assert.NoError(t, final.CanSubmit())
		})
	}
}
