package contracts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

func auctionDraft(t *testing.T) domain.Draft {
	t.Helper()
	d := domain.NewDraft().
		SetField("title", "Al-Nakheel auction").
		SetField("date", "2024-03-11").
		SetField("featured", true).
		SetMainImage(domain.NewImage("https://res.cloudinary.com/demo/main.jpg", "main")).
		AppendGalleryImages(domain.NewImage("https://res.cloudinary.com/demo/g1.jpg", "g1"))

	d, landID := d.AddProperty()
	d, villaID := d.AddProperty()
	var err error
	d, err = d.UpdatePropertyByID(landID, "city", "Riyadh")
	require.NoError(t, err)
	d, err = d.UpdatePropertyByID(villaID, "type", "villa")
	require.NoError(t, err)
	d, err = d.UpdatePropertyByID(villaID, "bedrooms", 5)
	require.NoError(t, err)
	d, err = d.UpdatePropertyByID(villaID, "latitude", 24.7)
	require.NoError(t, err)
	d, _, err = d.MergePropertyImages(villaID, 1, []domain.Image{{URL: "https://res.cloudinary.com/demo/p.jpg", PublicID: "p"}})
	require.NoError(t, err)
	return d
}

// toWire mimics what the persistence API stores and returns.
func toWire(t *testing.T, payload map[string]any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestDraftToPayload(t *testing.T) {
	payload := DraftToPayload(domain.KindAuction, auctionDraft(t))

	assert.Equal(t, "Al-Nakheel auction", payload["title"])
	assert.Equal(t, "https://res.cloudinary.com/demo/main.jpg", payload[KeyMainImage])
	assert.Equal(t, []string{"https://res.cloudinary.com/demo/g1.jpg"}, payload[KeyImages])

	props := payload[KeyProperties].([]map[string]any)
	require.Len(t, props, 2)
	assert.Equal(t, "land", props[0]["type"])
	assert.NotContains(t, props[0], "bedrooms")
	assert.NotContains(t, props[0], "bathrooms")
	assert.Equal(t, "villa", props[1]["type"])
	assert.Equal(t, 5, props[1]["bedrooms"])
	assert.Equal(t, 24.7, props[1]["latitude"])
	assert.NotContains(t, props[1], "longitude")
}

func TestDraftToPayloadWithoutProperties(t *testing.T) {
	d := domain.NewDraft().SetField("name", "Sara")
	payload := DraftToPayload(domain.KindTeamMember, d)

	assert.NotContains(t, payload, KeyProperties)
	assert.NotContains(t, payload, KeyMainImage)
	assert.Equal(t, []string{}, payload[KeyImages])
}

func TestPayloadRoundTrip(t *testing.T) {
	original := auctionDraft(t)
	wire := toWire(t, DraftToPayload(domain.KindAuction, original))
	wire[KeyID] = "65f0c0ffee"
	wire[KeyCreatedAt] = "2024-03-11T10:00:00Z"

	hydrated, err := DraftFromPayload(domain.KindAuction, wire)
	require.NoError(t, err)

	assert.Equal(t, original.Title(), hydrated.Title())
	assert.Equal(t, true, hydrated.Fields["featured"])
	assert.NotContains(t, hydrated.Fields, KeyID)
	assert.NotContains(t, hydrated.Fields, KeyCreatedAt)
	assert.Equal(t, original.MainImage.Image.URL, hydrated.MainImage.Image.URL)
	assert.Equal(t, original.GalleryURLs(), hydrated.GalleryURLs())

	require.Len(t, hydrated.Properties, 2)
	assert.Equal(t, domain.PropertyLand, hydrated.Properties[0].Type())
	assert.Equal(t, "Riyadh", hydrated.Properties[0].City)
	bed, _, ok := hydrated.Properties[1].Rooms()
	require.True(t, ok)
	assert.Equal(t, 5, bed)
	require.Len(t, hydrated.Properties[1].Images, 1)
	assert.Equal(t, "p", hydrated.Properties[1].Images[0].PublicID)
	assert.Equal(t, uint64(0), hydrated.Properties[1].Images[0].Batch)

	// local ids are fresh on every hydration
	assert.NotEqual(t, original.Properties[0].ID, hydrated.Properties[0].ID)
}

func TestDraftFromPayloadDropsRoomsOnLand(t *testing.T) {
	wire := map[string]any{
		"title": "x",
		"properties": []any{
			map[string]any{"type": "land", "bedrooms": 3.0},
		},
	}
	d, err := DraftFromPayload(domain.KindAuction, wire)
	require.NoError(t, err)
	_, _, ok := d.Properties[0].Rooms()
	assert.False(t, ok)
}

func TestDraftFromPayloadRejectsMalformedLists(t *testing.T) {
	_, err := DraftFromPayload(domain.KindAuction, map[string]any{"images": "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)

	_, err = DraftFromPayload(domain.KindAuction, map[string]any{"properties": []any{"nope"}})
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)

	_, err = DraftFromPayload(domain.KindAuction, map[string]any{"properties": []any{map[string]any{"type": "castle"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)
}

func TestRecordValidator(t *testing.T) {
	v, err := NewRecordValidator()
	require.NoError(t, err)

	valid := DraftToPayload(domain.KindAuction, auctionDraft(t))
	assert.NoError(t, v.Validate(domain.KindAuction, valid))

	missingTitle := map[string]any{"description": "no title"}
	assert.ErrorIs(t, v.Validate(domain.KindAuction, missingTitle), domain.ErrInvalidRecord)

	landWithRooms := map[string]any{
		"title":      "x",
		"properties": []map[string]any{{"type": "land", "bedrooms": 2}},
	}
	assert.ErrorIs(t, v.Validate(domain.KindAuction, landWithRooms), domain.ErrInvalidRecord)

	assert.NoError(t, v.Validate(domain.KindTeamMember, map[string]any{"name": "Sara", "images": []string{}}))
	assert.ErrorIs(t, v.Validate(domain.KindTeamMember, map[string]any{"title": "no name"}), domain.ErrInvalidRecord)
}

func TestSchemaKey(t *testing.T) {
	assert.Equal(t, "TeamMemberRecord/1.0.0", schemaKey(domain.KindTeamMember))
	assert.Equal(t, "AuctionRecord/1.0.0", schemaKey(domain.KindAuction))
}
