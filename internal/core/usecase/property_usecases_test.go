package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

func propertyImageURLs(t *testing.T, s *domain.Session, id string) []string {
	t.Helper()
	p, ok := s.Draft.Property(id)
	require.True(t, ok)
	urls := make([]string, len(p.Images))
	for i, img := range p.Images {
		urls[i] = img.URL
	}
	return urls
}

func TestPropertyEditorScenario(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	s := newSession(t, store, domain.KindAuction, "Palm Villas")

	add := NewAddPropertyUseCase(store)
	_, firstID, err := add.Execute(ctx, s.ID)
	require.NoError(t, err)
	s, secondID, err := add.Execute(ctx, s.ID)
	require.NoError(t, err)

	require.Len(t, s.Draft.Properties, 2)
	assert.Equal(t, domain.PropertyLand, s.Draft.Properties[0].Type())
	assert.Equal(t, domain.PropertyLand, s.Draft.Properties[1].Type())

	s, err = NewUpdatePropertyUseCase(store).Execute(ctx, s.ID, firstID, "type", "villa")
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyVilla, s.Draft.Properties[0].Type())
	assert.Equal(t, domain.PropertyLand, s.Draft.Properties[1].Type())

	s, err = NewRemovePropertyUseCase(store).Execute(ctx, s.ID, firstID)
	require.NoError(t, err)
	require.Len(t, s.Draft.Properties, 1)
	assert.Equal(t, secondID, s.Draft.Properties[0].ID)
	assert.Equal(t, domain.PropertyLand, s.Draft.Properties[0].Type())
}

func TestUpdatePropertyRejectsRoomsOnLand(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	s := newSession(t, store, domain.KindAuction, "Plots")
	s, id, err := NewAddPropertyUseCase(store).Execute(ctx, s.ID)
	require.NoError(t, err)

	_, err = NewUpdatePropertyUseCase(store).Execute(ctx, s.ID, id, "bedrooms", 3)
	assert.ErrorIs(t, err, domain.ErrFieldNotApplicable)
}

func TestAddPropertyOnlyForAuctions(t *testing.T) {
	store := newCountingStore()
	s := newSession(t, store, domain.KindOffer, "Offer")
	_, _, err := NewAddPropertyUseCase(store).Execute(context.Background(), s.ID)
	assert.ErrorIs(t, err, domain.ErrPropertiesNotAllowed)
}

func TestUploadPropertyImagesBatchOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		policy    BatchPolicy
		failing   []string
		wantURLs  []string
		wantOK    bool
	}{
		{
			name:   "all succeed, duplicates skipped",
			policy: BatchAllOrNothing,
			wantURLs: []string{
				"https://cdn.test/Palm Villas/property-0/existing.jpg",
				"https://cdn.test/Palm Villas/property-0/a.jpg",
				"https://cdn.test/Palm Villas/property-0/b.jpg",
			},
			wantOK: true,
		},
		{
			name:     "one failure appends nothing",
			policy:   BatchAllOrNothing,
			failing:  []string{"b.jpg"},
			wantURLs: []string{"https://cdn.test/Palm Villas/property-0/existing.jpg"},
		},
		{
			name:    "settled keeps successes",
			policy:  BatchSettled,
			failing: []string{"b.jpg"},
			wantURLs: []string{
				"https://cdn.test/Palm Villas/property-0/existing.jpg",
				"https://cdn.test/Palm Villas/property-0/a.jpg",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newCountingStore()
			gw := newFakeGateway()
			uc := NewUploadPropertyImagesUseCase(store, NewImageBatchUploader(gw, tt.policy, 4))

			s := newSession(t, store, domain.KindAuction, "Palm Villas")
			s, id, err := NewAddPropertyUseCase(store).Execute(ctx, s.ID)
			require.NoError(t, err)
			s, res := uc.Execute(ctx, s.ID, id, files("existing.jpg"))
			require.True(t, res.OK())

			for _, name := range tt.failing {
				gw.fail[name] = errHostDown
			}
			// "existing.jpg" again and "a.jpg" twice are exact duplicates
			s, res = uc.Execute(ctx, s.ID, id, files("existing.jpg", "a.jpg", "a.jpg", "b.jpg"))
			require.NotNil(t, s)

			assert.Equal(t, tt.wantOK, res.OK())
			if !tt.wantOK {
				assert.Equal(t, domain.NoticeUploadFailed, res.NoticeKey)
				assert.ErrorIs(t, res.Err, domain.ErrUploadFailed)
			}
			assert.Equal(t, tt.wantURLs, propertyImageURLs(t, s, id))
			assert.Equal(t, 0, s.PendingUploads)
		})
	}
}

func TestUploadPropertyImagesUsesCurrentIndexFolder(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	gw := newFakeGateway()
	uc := NewUploadPropertyImagesUseCase(store, NewImageBatchUploader(gw, BatchAllOrNothing, 4))

	s := newSession(t, store, domain.KindAuction, "Palm Villas")
	add := NewAddPropertyUseCase(store)
	_, firstID, _ := add.Execute(ctx, s.ID)
	_, secondID, _ := add.Execute(ctx, s.ID)

	_, res := uc.Execute(ctx, s.ID, secondID, files("x.jpg"))
	require.True(t, res.OK())

	_, err := NewRemovePropertyUseCase(store).Execute(ctx, s.ID, firstID)
	require.NoError(t, err)
	_, res = uc.Execute(ctx, s.ID, secondID, files("y.jpg"))
	require.True(t, res.OK())

	assert.Equal(t, []string{"Palm Villas/property-1", "Palm Villas/property-0"}, gw.usedFolders())
}

func TestUploadForRemovedPropertyIsDiscarded(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	gw := newFakeGateway()
	uc := NewUploadPropertyImagesUseCase(store, NewImageBatchUploader(gw, BatchAllOrNothing, 4))

	s := newSession(t, store, domain.KindAuction, "Palm Villas")
	add := NewAddPropertyUseCase(store)
	_, doomedID, _ := add.Execute(ctx, s.ID)
	_, keptID, _ := add.Execute(ctx, s.ID)

	release := gw.hold("slow.jpg")
	type outcome struct {
		session *domain.Session
		result  domain.Result
	}
	done := make(chan outcome, 1)
	go func() {
		sess, res := uc.Execute(ctx, s.ID, doomedID, files("slow.jpg"))
		done <- outcome{sess, res}
	}()

	gw.waitStarted(t, "slow.jpg")
	_, err := NewRemovePropertyUseCase(store).Execute(ctx, s.ID, doomedID)
	require.NoError(t, err)
	release()

	out := <-done
	assert.False(t, out.result.OK())
	assert.True(t, errors.Is(out.result.Err, domain.ErrPropertyNotFound))
	require.Len(t, out.session.Draft.Properties, 1)
	assert.Equal(t, keptID, out.session.Draft.Properties[0].ID)
	assert.Empty(t, out.session.Draft.Properties[0].Images)
	assert.Equal(t, 0, out.session.PendingUploads)
}

func TestRemovePropertyImage(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	uc := NewUploadPropertyImagesUseCase(store, NewImageBatchUploader(newFakeGateway(), BatchAllOrNothing, 4))

	s := newSession(t, store, domain.KindAuction, "T")
	_, id, _ := NewAddPropertyUseCase(store).Execute(ctx, s.ID)
	_, res := uc.Execute(ctx, s.ID, id, files("a.jpg", "b.jpg"))
	require.True(t, res.OK())

	s, err := NewRemovePropertyImageUseCase(store).Execute(ctx, s.ID, id, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.test/T/property-0/b.jpg"}, propertyImageURLs(t, s, id))

	_, err = NewRemovePropertyImageUseCase(store).Execute(ctx, s.ID, id, 4)
	assert.ErrorIs(t, err, domain.ErrImageNotFound)
}
