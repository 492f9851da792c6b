package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type PropertyType string

const (
	PropertyLand      PropertyType = "land"
	PropertyApartment PropertyType = "apartment"
	PropertyVilla     PropertyType = "villa"
	PropertyBuilding  PropertyType = "building"
)

func ParsePropertyType(s string) (PropertyType, error) {
	switch t := PropertyType(strings.ToLower(strings.TrimSpace(s))); t {
	case PropertyLand, PropertyApartment, PropertyVilla, PropertyBuilding:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPropertyType, s)
	}
}

// PropertyDetails holds the attributes that depend on the property type.
// Land has no room counts at all; the other types share BuiltDetails.
type PropertyDetails interface {
	Type() PropertyType
	isPropertyDetails()
}

type LandDetails struct{}

func (LandDetails) Type() PropertyType { return PropertyLand }
func (LandDetails) isPropertyDetails() {}

type BuiltDetails struct {
	Kind      PropertyType
	Bedrooms  int
	Bathrooms int
}

func (b BuiltDetails) Type() PropertyType { return b.Kind }
func (BuiltDetails) isPropertyDetails()   {}

// DetailsFor builds empty details for the type.
func DetailsFor(t PropertyType) PropertyDetails {
	if t == PropertyLand {
		return LandDetails{}
	}
	return BuiltDetails{Kind: t}
}

// PropertyDraft is one physical property inside an auction draft.
type PropertyDraft struct {
	ID      string
	Details PropertyDetails

	Title       string
	City        string
	District    string
	Address     string
	Area        string
	Price       string
	Description string
	Latitude    *float64
	Longitude   *float64

	Images            []Image
	FeaturedAmenities []string
	NearbyPlaces      []string
}

// NewPropertyDraft returns a land property with a fresh local ID.
func NewPropertyDraft() PropertyDraft {
	return PropertyDraft{
		ID:                newLocalID(),
		Details:           LandDetails{},
		Images:            []Image{},
		FeaturedAmenities: []string{},
		NearbyPlaces:      []string{},
	}
}

func (p PropertyDraft) Type() PropertyType {
	if p.Details == nil {
		return PropertyLand
	}
	return p.Details.Type()
}

// Rooms returns the room counts; ok is false for land.
func (p PropertyDraft) Rooms() (bedrooms, bathrooms int, ok bool) {
	b, ok := p.Details.(BuiltDetails)
	if !ok {
		return 0, 0, false
	}
	return b.Bedrooms, b.Bathrooms, true
}

// HasLocation reports whether both coordinates are set.
func (p PropertyDraft) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// WithType switches the variant. Room counts survive a switch between built
// types and are dropped when switching to land.
func (p PropertyDraft) WithType(t PropertyType) PropertyDraft {
	if b, ok := p.Details.(BuiltDetails); ok && t != PropertyLand {
		b.Kind = t
		p.Details = b
		return p
	}
	p.Details = DetailsFor(t)
	return p
}

// Set assigns one field from a loosely typed value (form or JSON input).
func (p PropertyDraft) Set(field string, value any) (PropertyDraft, error) {
	switch field {
	case "type":
		s, err := asString(value)
		if err != nil {
			return p, invalidValue(field, err)
		}
		t, err := ParsePropertyType(s)
		if err != nil {
			return p, err
		}
		return p.WithType(t), nil

	case "bedrooms", "bathrooms":
		b, ok := p.Details.(BuiltDetails)
		if !ok {
			return p, fmt.Errorf("%w: %s on %s", ErrFieldNotApplicable, field, p.Type())
		}
		n, err := asCount(value)
		if err != nil {
			return p, invalidValue(field, err)
		}
		if field == "bedrooms" {
			b.Bedrooms = n
		} else {
			b.Bathrooms = n
		}
		p.Details = b
		return p, nil

	case "latitude", "longitude":
		f, err := asOptionalFloat(value)
		if err != nil {
			return p, invalidValue(field, err)
		}
		if field == "latitude" {
			if f != nil && math.Abs(*f) > 90 {
				return p, invalidValue(field, fmt.Errorf("out of range"))
			}
			p.Latitude = f
		} else {
			if f != nil && math.Abs(*f) > 180 {
				return p, invalidValue(field, fmt.Errorf("out of range"))
			}
			p.Longitude = f
		}
		return p, nil

	case "featuredAmenities", "nearbyPlaces":
		list, err := asLines(value)
		if err != nil {
			return p, invalidValue(field, err)
		}
		if field == "featuredAmenities" {
			p.FeaturedAmenities = list
		} else {
			p.NearbyPlaces = list
		}
		return p, nil
	}

	target := p.textField(field)
	if target == nil {
		return p, fmt.Errorf("%w: %q", ErrUnknownPropertyField, field)
	}
	s, err := asString(value)
	if err != nil {
		return p, invalidValue(field, err)
	}
	*target = s
	return p, nil
}

func (p *PropertyDraft) textField(field string) *string {
	switch field {
	case "title":
		return &p.Title
	case "city":
		return &p.City
	case "district":
		return &p.District
	case "address":
		return &p.Address
	case "area":
		return &p.Area
	case "price":
		return &p.Price
	case "description":
		return &p.Description
	}
	return nil
}

// SplitLines turns newline-delimited text into trimmed, non-empty entries.
func SplitLines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// JoinLines is the inverse of SplitLines, used to render the text areas.
func JoinLines(items []string) string {
	return strings.Join(items, "\n")
}

func invalidValue(field string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalidFieldValue, field, err)
}

func asString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("unsupported type %T", value)
	}
}

func asCount(value any) (int, error) {
	var n float64
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int:
		n = float64(v)
	case float64:
		n = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, err
		}
		n = f
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, err
		}
		n = float64(i)
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
	if n < 0 || n != math.Trunc(n) {
		return 0, fmt.Errorf("must be a non-negative whole number")
	}
	return int(n), nil
}

func asOptionalFloat(value any) (*float64, error) {
	var f float64
	switch v := value.(type) {
	case nil:
		return nil, nil
	case float64:
		f = v
	case int:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil, err
		}
		f = parsed
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		f = parsed
	default:
		return nil, fmt.Errorf("unsupported type %T", value)
	}
	return &f, nil
}

func asLines(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return []string{}, nil
	case string:
		return SplitLines(v), nil
	case []string:
		return SplitLines(strings.Join(v, "\n")), nil
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("list items must be strings, got %T", item)
			}
			parts = append(parts, s)
		}
		return SplitLines(strings.Join(parts, "\n")), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", value)
	}
}
