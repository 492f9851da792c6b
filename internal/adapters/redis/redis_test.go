package redis_adapter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

func auctionSession(t *testing.T) *domain.Session {
	t.Helper()
	s := domain.NewCreateSession(domain.KindAuction)
	d := s.Draft.SetField("title", "Palm Villas").SetField("featured", true)
	d = d.SetMainImage(domain.Image{ID: "m1", URL: "https://cdn/main.jpg", PublicID: "main", Batch: 1})
	d, _ = d.MergeGalleryImages(2, []domain.Image{{URL: "https://cdn/g1.jpg", PublicID: "g1"}})

	d, landID := d.AddProperty()
	d, villaID := d.AddProperty()
	var err error
	d, err = d.UpdatePropertyByID(villaID, "type", "villa")
	require.NoError(t, err)
	d, err = d.UpdatePropertyByID(villaID, "bedrooms", 4)
	require.NoError(t, err)
	d, err = d.UpdatePropertyByID(villaID, "latitude", 21.5)
	require.NoError(t, err)
	d, _, err = d.MergePropertyImages(landID, 3, []domain.Image{{URL: "https://cdn/p.jpg"}})
	require.NoError(t, err)

	s.Draft = d
	s.StepIndex = 2
	s.NextBatch = 3
	s.PendingUploads = 1
	s.CreatedAt = time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	s.UpdatedAt = s.CreatedAt
	return s
}

func TestSessionSnapshotKeepsPropertyVariants(t *testing.T) {
	original := auctionSession(t)

	raw, err := encodeSession(original)
	require.NoError(t, err)
	restored, err := decodeSession(raw)
	require.NoError(t, err)

	assert.Equal(t, original.ID, restored.ID)
	assert.Equal(t, domain.KindAuction, restored.Kind)
	assert.Equal(t, 2, restored.StepIndex)
	assert.Equal(t, uint64(3), restored.NextBatch)
	assert.Equal(t, 1, restored.PendingUploads)
	assert.Equal(t, "Palm Villas", restored.Draft.Title())
	assert.Equal(t, original.Draft.MainImage, restored.Draft.MainImage)
	assert.Equal(t, original.Draft.Gallery, restored.Draft.Gallery)

	require.Len(t, restored.Draft.Properties, 2)
	land, villa := restored.Draft.Properties[0], restored.Draft.Properties[1]

	assert.Equal(t, domain.LandDetails{}, land.Details)
	assert.Equal(t, original.Draft.Properties[0].Images, land.Images)

	bedrooms, _, ok := villa.Rooms()
	require.True(t, ok)
	assert.Equal(t, 4, bedrooms)
	require.NotNil(t, villa.Latitude)
	assert.Equal(t, 21.5, *villa.Latitude)
	assert.Nil(t, villa.Longitude)
	assert.Equal(t, original.Draft.Properties[1].ID, villa.ID)
}

func TestDecodeSessionRejectsCorruptData(t *testing.T) {
	_, err := decodeSession([]byte("{"))
	assert.Error(t, err)

	_, err = decodeSession([]byte(`{"id":"x","kind":"castle"}`))
	assert.ErrorIs(t, err, domain.ErrUnknownEntityKind)

	_, err = decodeSession([]byte(`{"id":"x","kind":"auction","draft":{"properties":[{"id":"p","type":"tower"}]}}`))
	assert.ErrorIs(t, err, domain.ErrUnknownPropertyType)
}

func TestGenerateQueryCacheKey(t *testing.T) {
	a := GenerateQueryCacheKey("listing:auction", map[string]string{"page": "1", "limit": "12"})
	b := GenerateQueryCacheKey("listing:auction", map[string]string{"limit": "12", "page": "1"})
	c := GenerateQueryCacheKey("listing:auction", map[string]string{"page": "2", "limit": "12"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "listing:auction:"))
	assert.Len(t, strings.TrimPrefix(a, "listing:auction:"), 32)
}

func TestCachedPageRoundTrip(t *testing.T) {
	created := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	page := &domain.RecordPage{
		Items: []domain.Record{{ID: "r1", Kind: domain.KindOffer, Data: map[string]any{"title": "Sea view"}, CreatedAt: created, UpdatedAt: created}},
		Total: 7,
		Page:  2,
		Limit: 1,
	}

	raw, err := encodePage(page)
	require.NoError(t, err)
	got, err := decodePage(domain.KindOffer, raw)
	require.NoError(t, err)
	assert.Equal(t, page, got)
}
