package contracts

import (
	"errors"
	"fmt"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

// Wire keys shared by the persistence API and the wizard.
const (
	KeyID         = "_id"
	KeyCreatedAt  = "createdAt"
	KeyUpdatedAt  = "updatedAt"
	KeyMainImage  = "mainImage"
	KeyImages     = "images"
	KeyProperties = "properties"
	KeyHijriDate  = "hijriDate"
)

// DraftToPayload serializes a draft into the body sent to the persistence API.
func DraftToPayload(kind domain.EntityKind, d domain.Draft) map[string]any {
	payload := make(map[string]any, len(d.Fields)+3)
	for name, value := range d.Fields {
		if domain.IsReservedField(name) {
			continue
		}
		payload[name] = value
	}

	if url := d.MainImage.Image.URL; url != "" {
		payload[KeyMainImage] = url
	}
	payload[KeyImages] = d.GalleryURLs()

	if kind.HasProperties() {
		props := make([]map[string]any, 0, len(d.Properties))
		for _, p := range d.Properties {
			props = append(props, PropertyToPayload(p))
		}
		payload[KeyProperties] = props
	}
	return payload
}

// PropertyToPayload omits bedrooms and bathrooms for land.
func PropertyToPayload(p domain.PropertyDraft) map[string]any {
	images := make([]map[string]any, 0, len(p.Images))
	for _, img := range p.Images {
		entry := map[string]any{"url": img.URL}
		if img.PublicID != "" {
			entry["public_id"] = img.PublicID
		}
		images = append(images, entry)
	}

	out := map[string]any{
		"type":              string(p.Type()),
		"title":             p.Title,
		"city":              p.City,
		"district":          p.District,
		"address":           p.Address,
		"area":              p.Area,
		"price":             p.Price,
		"description":       p.Description,
		"images":            images,
		"featuredAmenities": nonNil(p.FeaturedAmenities),
		"nearbyPlaces":      nonNil(p.NearbyPlaces),
	}
	if bedrooms, bathrooms, ok := p.Rooms(); ok {
		out["bedrooms"] = bedrooms
		out["bathrooms"] = bathrooms
	}
	if p.Latitude != nil {
		out["latitude"] = *p.Latitude
	}
	if p.Longitude != nil {
		out["longitude"] = *p.Longitude
	}
	return out
}

// DraftFromPayload hydrates a draft from a stored record. Every image and
// property gets a fresh local ID. Keys the draft cannot hold are ignored.
func DraftFromPayload(kind domain.EntityKind, payload map[string]any) (domain.Draft, error) {
	d := domain.NewDraft()

	for name, value := range payload {
		if domain.IsReservedField(name) || !domain.IsScalarValue(value) {
			continue
		}
		d = d.SetField(name, value)
	}

	if main, ok := imageFromValue(payload[KeyMainImage]); ok {
		d = d.SetMainImage(main)
	}

	if raw, ok := payload[KeyImages]; ok && raw != nil {
		list, ok := raw.([]any)
		if !ok {
			return domain.Draft{}, fmt.Errorf("%w: images must be a list", domain.ErrInvalidRecord)
		}
		gallery := make([]domain.Image, 0, len(list))
		for _, item := range list {
			if img, ok := imageFromValue(item); ok {
				gallery = append(gallery, img)
			}
		}
		d = d.AppendGalleryImages(gallery...)
	}

	if !kind.HasProperties() {
		return d, nil
	}
	raw, ok := payload[KeyProperties]
	if !ok || raw == nil {
		return d, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return domain.Draft{}, fmt.Errorf("%w: properties must be a list", domain.ErrInvalidRecord)
	}
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return domain.Draft{}, fmt.Errorf("%w: properties[%d] is not an object", domain.ErrInvalidRecord, i)
		}
		p, err := PropertyFromPayload(obj)
		if err != nil {
			return domain.Draft{}, fmt.Errorf("properties[%d]: %w", i, err)
		}
		d.Properties = append(d.Properties, p)
	}
	return d, nil
}

var propertyScalarFields = []string{
	"title", "city", "district", "address", "area", "price", "description",
	"bedrooms", "bathrooms", "latitude", "longitude", "featuredAmenities", "nearbyPlaces",
}

// PropertyFromPayload reads one stored property. Room counts stored on a land
// entry are dropped.
func PropertyFromPayload(obj map[string]any) (domain.PropertyDraft, error) {
	p := domain.NewPropertyDraft()

	if t, ok := obj["type"]; ok && t != nil {
		next, err := p.Set("type", t)
		if err != nil {
			return p, fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err)
		}
		p = next
	}

	for _, field := range propertyScalarFields {
		value, ok := obj[field]
		if !ok {
			continue
		}
		next, err := p.Set(field, value)
		if errors.Is(err, domain.ErrFieldNotApplicable) {
			continue
		}
		if err != nil {
			return p, fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err)
		}
		p = next
	}

	if list, ok := obj["images"].([]any); ok {
		for _, item := range list {
			if img, ok := imageFromValue(item); ok {
				p.Images = append(p.Images, img)
			}
		}
	}
	return p, nil
}

// imageFromValue accepts a bare URL or an {url, public_id} object.
func imageFromValue(v any) (domain.Image, bool) {
	switch val := v.(type) {
	case string:
		if val == "" {
			return domain.Image{}, false
		}
		return domain.NewImage(val, ""), true
	case map[string]any:
		url, _ := val["url"].(string)
		if url == "" {
			url, _ = val["secure_url"].(string)
		}
		if url == "" {
			return domain.Image{}, false
		}
		publicID, _ := val["public_id"].(string)
		return domain.NewImage(url, publicID), true
	}
	return domain.Image{}, false
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
