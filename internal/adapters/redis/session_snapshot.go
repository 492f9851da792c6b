package redis_adapter

import (
	"fmt"
	"time"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

// sessionSnapshot is the JSON form of a session. Property details are
// flattened and rebuilt from the type on load.
type sessionSnapshot struct {
	ID             string        `json:"id"`
	Kind           string        `json:"kind"`
	Mode           string        `json:"mode"`
	RecordID       string        `json:"record_id,omitempty"`
	Draft          draftSnapshot `json:"draft"`
	StepIndex      int           `json:"step_index"`
	NextBatch      uint64        `json:"next_batch"`
	PendingUploads int           `json:"pending_uploads"`
	Submitting     bool          `json:"submitting"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type draftSnapshot struct {
	Fields      map[string]any     `json:"fields"`
	MainImage   imageSnapshot      `json:"main_image"`
	MainPreview string             `json:"main_preview,omitempty"`
	Gallery     []imageSnapshot    `json:"gallery"`
	Properties  []propertySnapshot `json:"properties"`
}

type imageSnapshot struct {
	ID       string `json:"id,omitempty"`
	URL      string `json:"url,omitempty"`
	PublicID string `json:"public_id,omitempty"`
	Batch    uint64 `json:"batch,omitempty"`
}

type propertySnapshot struct {
	ID                string          `json:"id"`
	Type              string          `json:"type"`
	Bedrooms          int             `json:"bedrooms,omitempty"`
	Bathrooms         int             `json:"bathrooms,omitempty"`
	Title             string          `json:"title,omitempty"`
	City              string          `json:"city,omitempty"`
	District          string          `json:"district,omitempty"`
	Address           string          `json:"address,omitempty"`
	Area              string          `json:"area,omitempty"`
	Price             string          `json:"price,omitempty"`
	Description       string          `json:"description,omitempty"`
	Latitude          *float64        `json:"latitude,omitempty"`
	Longitude         *float64        `json:"longitude,omitempty"`
	Images            []imageSnapshot `json:"images"`
	FeaturedAmenities []string        `json:"featured_amenities"`
	NearbyPlaces      []string        `json:"nearby_places"`
}

func toImageSnapshots(images []domain.Image) []imageSnapshot {
	out := make([]imageSnapshot, len(images))
	for i, img := range images {
		out[i] = imageSnapshot(img)
	}
	return out
}

func fromImageSnapshots(images []imageSnapshot) []domain.Image {
	out := make([]domain.Image, len(images))
	for i, img := range images {
		out[i] = domain.Image(img)
	}
	return out
}

func snapshotOf(s *domain.Session) sessionSnapshot {
	d := s.Draft
	props := make([]propertySnapshot, len(d.Properties))
	for i, p := range d.Properties {
		ps := propertySnapshot{
			ID:                p.ID,
			Type:              string(p.Type()),
			Title:             p.Title,
			City:              p.City,
			District:          p.District,
			Address:           p.Address,
			Area:              p.Area,
			Price:             p.Price,
			Description:       p.Description,
			Latitude:          p.Latitude,
			Longitude:         p.Longitude,
			Images:            toImageSnapshots(p.Images),
			FeaturedAmenities: p.FeaturedAmenities,
			NearbyPlaces:      p.NearbyPlaces,
		}
		if bedrooms, bathrooms, ok := p.Rooms(); ok {
			ps.Bedrooms = bedrooms
			ps.Bathrooms = bathrooms
		}
		props[i] = ps
	}

	return sessionSnapshot{
		ID:       s.ID,
		Kind:     string(s.Kind),
		Mode:     string(s.Mode),
		RecordID: s.RecordID,
		Draft: draftSnapshot{
			Fields:      d.Fields,
			MainImage:   imageSnapshot(d.MainImage.Image),
			MainPreview: d.MainImage.Preview,
			Gallery:     toImageSnapshots(d.Gallery),
			Properties:  props,
		},
		StepIndex:      s.StepIndex,
		NextBatch:      s.NextBatch,
		PendingUploads: s.PendingUploads,
		Submitting:     s.Submitting,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func (snap sessionSnapshot) session() (*domain.Session, error) {
	kind, err := domain.ParseEntityKind(snap.Kind)
	if err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", snap.ID, err)
	}

	props := make([]domain.PropertyDraft, len(snap.Draft.Properties))
	for i, ps := range snap.Draft.Properties {
		t, err := domain.ParsePropertyType(ps.Type)
		if err != nil {
			return nil, fmt.Errorf("corrupt session %s: %w", snap.ID, err)
		}
		var details domain.PropertyDetails = domain.LandDetails{}
		if t != domain.PropertyLand {
			details = domain.BuiltDetails{Kind: t, Bedrooms: ps.Bedrooms, Bathrooms: ps.Bathrooms}
		}
		props[i] = domain.PropertyDraft{
			ID:                ps.ID,
			Details:           details,
			Title:             ps.Title,
			City:              ps.City,
			District:          ps.District,
			Address:           ps.Address,
			Area:              ps.Area,
			Price:             ps.Price,
			Description:       ps.Description,
			Latitude:          ps.Latitude,
			Longitude:         ps.Longitude,
			Images:            fromImageSnapshots(ps.Images),
			FeaturedAmenities: nonNil(ps.FeaturedAmenities),
			NearbyPlaces:      nonNil(ps.NearbyPlaces),
		}
	}

	fields := snap.Draft.Fields
	if fields == nil {
		fields = map[string]any{}
	}

	return &domain.Session{
		ID:       snap.ID,
		Kind:     kind,
		Mode:     domain.SessionMode(snap.Mode),
		RecordID: snap.RecordID,
		Draft: domain.Draft{
			Fields: fields,
			MainImage: domain.MainImage{
				Image:   domain.Image(snap.Draft.MainImage),
				Preview: snap.Draft.MainPreview,
			},
			Gallery:    fromImageSnapshots(snap.Draft.Gallery),
			Properties: props,
		},
		StepIndex:      snap.StepIndex,
		NextBatch:      snap.NextBatch,
		PendingUploads: snap.PendingUploads,
		Submitting:     snap.Submitting,
		CreatedAt:      snap.CreatedAt,
		UpdatedAt:      snap.UpdatedAt,
	}, nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
