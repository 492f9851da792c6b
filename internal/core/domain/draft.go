package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// MainImage is either empty, a local preview whose upload is still in flight,
// or a committed remote image. Image is only written once its upload resolved.
type MainImage struct {
	Image   Image
	Preview string
}

func (m MainImage) IsEmpty() bool   { return m.Image.URL == "" && m.Preview == "" }
func (m MainImage) IsPending() bool { return m.Preview != "" }

// Draft is the in-progress representation of one entity. Every operation
// returns a new Draft and leaves the receiver untouched; slices and maps that
// an operation changes are copied first, untouched ones are shared.
type Draft struct {
	Fields     map[string]any
	MainImage  MainImage
	Gallery    []Image
	Properties []PropertyDraft
}

// NewDraft returns an empty draft for the create flow.
func NewDraft() Draft {
	return Draft{
		Fields:     map[string]any{},
		Gallery:    []Image{},
		Properties: []PropertyDraft{},
	}
}

func (d Draft) Field(name string) (any, bool) {
	v, ok := d.Fields[name]
	return v, ok
}

// StringField returns the field formatted as text, or "" when it is absent.
func (d Draft) StringField(name string) string {
	v, ok := d.Fields[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Title is the human name of the entity, used to derive upload folders.
// Team members carry a name instead of a title.
func (d Draft) Title() string {
	if t := strings.TrimSpace(d.StringField("title")); t != "" {
		return t
	}
	return strings.TrimSpace(d.StringField("name"))
}

// SetField replaces one scalar field. No cross-field validation happens here.
func (d Draft) SetField(name string, value any) Draft {
	fields := make(map[string]any, len(d.Fields)+1)
	maps.Copy(fields, d.Fields)
	fields[name] = value
	d.Fields = fields
	return d
}

// SetMainImage commits the main image and drops any pending preview.
func (d Draft) SetMainImage(img Image) Draft {
	if img.ID == "" {
		img.ID = newLocalID()
	}
	d.MainImage = MainImage{Image: img}
	return d
}

// SetMainImagePreview records a local preview while the committed image, if
// any, stays in place until the upload resolves.
func (d Draft) SetMainImagePreview(ref string) Draft {
	d.MainImage = MainImage{Image: d.MainImage.Image, Preview: ref}
	return d
}

func (d Draft) ClearMainImagePreview() Draft {
	d.MainImage = MainImage{Image: d.MainImage.Image}
	return d
}

// AppendGalleryImages appends images in the given order.
func (d Draft) AppendGalleryImages(images ...Image) Draft {
	gallery := make([]Image, 0, len(d.Gallery)+len(images))
	gallery = append(gallery, d.Gallery...)
	for _, img := range images {
		if img.ID == "" {
			img.ID = newLocalID()
		}
		gallery = append(gallery, img)
	}
	d.Gallery = gallery
	return d
}

// MergeGalleryImages adds the images of one upload batch, skipping URLs already
// in the gallery and keeping batches in dispatch order. It returns the number
// of images actually added.
func (d Draft) MergeGalleryImages(batch uint64, images []Image) (Draft, int) {
	merged, added := mergeImages(d.Gallery, batch, images)
	d.Gallery = merged
	return d, added
}

// RemoveGalleryImage deletes the image at index; the rest keep their relative
// order. An out-of-range index leaves the draft unchanged.
func (d Draft) RemoveGalleryImage(index int) Draft {
	d.Gallery, _ = removeImageAt(d.Gallery, index)
	return d
}

func (d Draft) RemoveGalleryImageByID(id string) (Draft, error) {
	for i, img := range d.Gallery {
		if img.ID == id {
			return d.RemoveGalleryImage(i), nil
		}
	}
	return d, ErrImageNotFound
}

func (d Draft) GalleryURLs() []string {
	return imageURLs(d.Gallery)
}

// HasPendingUploads reports a main image preview that was never resolved.
func (d Draft) HasPendingUploads() bool {
	return d.MainImage.IsPending()
}

// AddProperty appends a new land property with empty lists and returns its ID.
func (d Draft) AddProperty() (Draft, string) {
	p := NewPropertyDraft()
	props := make([]PropertyDraft, 0, len(d.Properties)+1)
	props = append(props, d.Properties...)
	props = append(props, p)
	d.Properties = props
	return d, p.ID
}

// PropertyIndex returns the current position of the property or -1.
func (d Draft) PropertyIndex(id string) int {
	for i, p := range d.Properties {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (d Draft) Property(id string) (PropertyDraft, bool) {
	if i := d.PropertyIndex(id); i >= 0 {
		return d.Properties[i], true
	}
	return PropertyDraft{}, false
}

// RemoveProperty deletes the property at index; later entries shift down by one.
// An out-of-range index leaves the draft unchanged.
func (d Draft) RemoveProperty(index int) Draft {
	if index < 0 || index >= len(d.Properties) {
		return d
	}
	props := make([]PropertyDraft, 0, len(d.Properties)-1)
	props = append(props, d.Properties[:index]...)
	props = append(props, d.Properties[index+1:]...)
	d.Properties = props
	return d
}

func (d Draft) RemovePropertyByID(id string) (Draft, error) {
	i := d.PropertyIndex(id)
	if i < 0 {
		return d, ErrPropertyNotFound
	}
	return d.RemoveProperty(i), nil
}

// UpdateProperty sets one field of the property at index.
func (d Draft) UpdateProperty(index int, field string, value any) (Draft, error) {
	if index < 0 || index >= len(d.Properties) {
		return d, ErrPropertyNotFound
	}
	updated, err := d.Properties[index].Set(field, value)
	if err != nil {
		return d, err
	}
	return d.replaceProperty(index, updated), nil
}

func (d Draft) UpdatePropertyByID(id string, field string, value any) (Draft, error) {
	i := d.PropertyIndex(id)
	if i < 0 {
		return d, ErrPropertyNotFound
	}
	return d.UpdateProperty(i, field, value)
}

// MergePropertyImages folds one upload batch into the property's images.
func (d Draft) MergePropertyImages(id string, batch uint64, images []Image) (Draft, int, error) {
	i := d.PropertyIndex(id)
	if i < 0 {
		return d, 0, ErrPropertyNotFound
	}
	p := d.Properties[i]
	merged, added := mergeImages(p.Images, batch, images)
	p.Images = merged
	return d.replaceProperty(i, p), added, nil
}

func (d Draft) RemovePropertyImage(id string, index int) (Draft, error) {
	i := d.PropertyIndex(id)
	if i < 0 {
		return d, ErrPropertyNotFound
	}
	p := d.Properties[i]
	images, ok := removeImageAt(p.Images, index)
	if !ok {
		return d, ErrImageNotFound
	}
	p.Images = images
	return d.replaceProperty(i, p), nil
}

func (d Draft) replaceProperty(index int, p PropertyDraft) Draft {
	props := make([]PropertyDraft, len(d.Properties))
	copy(props, d.Properties)
	props[index] = p
	d.Properties = props
	return d
}

// reservedFields are wire keys that the draft manages itself or that the
// persistence API assigns.
var reservedFields = map[string]struct{}{
	"_id":        {},
	"id":         {},
	"createdAt":  {},
	"updatedAt":  {},
	"hijriDate":  {},
	"mainImage":  {},
	"images":     {},
	"properties": {},
}

func IsReservedField(name string) bool {
	_, ok := reservedFields[name]
	return ok
}

// IsScalarValue reports whether v may be stored in Draft.Fields.
func IsScalarValue(v any) bool {
	switch v.(type) {
	case nil, string, bool, float64, int, int64, json.Number:
		return true
	}
	return false
}
