package rest

import (
	"errors"
	"sort"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/usecase"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateSessionRequest struct {
	Kind string `json:"kind" validate:"required"`
}

type UpdatePropertyRequest struct {
	Field string      `json:"field" validate:"required"`
	Value interface{} `json:"value"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type ImageResponse struct {
	ID       string `json:"id,omitempty"`
	URL      string `json:"url"`
	PublicID string `json:"public_id,omitempty"`
}

type MainImageResponse struct {
	URL      string `json:"url,omitempty"`
	PublicID string `json:"public_id,omitempty"`
	Preview  string `json:"preview,omitempty"`
	Pending  bool   `json:"pending"`
}

type PropertyResponse struct {
	ID                string          `json:"id"`
	Type              string          `json:"type"`
	Title             string          `json:"title"`
	City              string          `json:"city"`
	District          string          `json:"district"`
	Address           string          `json:"address"`
	Area              string          `json:"area"`
	Price             string          `json:"price"`
	Description       string          `json:"description"`
	Bedrooms          *int            `json:"bedrooms,omitempty"`
	Bathrooms         *int            `json:"bathrooms,omitempty"`
	Latitude          *float64        `json:"latitude,omitempty"`
	Longitude         *float64        `json:"longitude,omitempty"`
	Images            []ImageResponse `json:"images"`
	FeaturedAmenities []string        `json:"featuredAmenities"`
	NearbyPlaces      []string        `json:"nearbyPlaces"`
}

type StepResponse struct {
	Index    int      `json:"index"`
	Current  string   `json:"current"`
	Steps    []string `json:"steps"`
	Sections []string `json:"sections"`
	IsFirst  bool     `json:"is_first"`
	IsReview bool     `json:"is_review"`
}

type SessionResponse struct {
	ID             string                 `json:"id"`
	Kind           string                 `json:"kind"`
	Mode           string                 `json:"mode"`
	RecordID       string                 `json:"record_id,omitempty"`
	Step           StepResponse           `json:"step"`
	Fields         map[string]interface{} `json:"fields"`
	MainImage      *MainImageResponse     `json:"main_image,omitempty"`
	Gallery        []ImageResponse        `json:"gallery"`
	Properties     []PropertyResponse     `json:"properties,omitempty"`
	PendingUploads int                    `json:"pending_uploads"`
	Submitting     bool                   `json:"submitting"`
	CanSubmit      bool                   `json:"can_submit"`
}

type FileFailureResponse struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Error    string `json:"error"`
}

// ResultResponse is the body of every endpoint that produces a notification
// and possibly a navigation for the client.
type ResultResponse struct {
	OK       bool                  `json:"ok"`
	Notice   string                `json:"notice,omitempty"`
	Message  string                `json:"message,omitempty"`
	Redirect string                `json:"redirect,omitempty"`
	Error    string                `json:"error,omitempty"`
	Failures []FileFailureResponse `json:"failures,omitempty"`
	Session  *SessionResponse      `json:"session,omitempty"`
}

type UploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type RecordListResponse struct {
	Data    []map[string]interface{} `json:"data"`
	Total   int64                    `json:"total"`
	Page    int                      `json:"page"`
	PerPage int                      `json:"per_page"`
}

type HijriResponse struct {
	Gregorian string `json:"gregorian"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	MonthName string `json:"month_name"`
	Formatted string `json:"formatted"`
}

func toImageResponses(images []domain.Image) []ImageResponse {
	out := make([]ImageResponse, len(images))
	for i, img := range images {
		out[i] = ImageResponse{ID: img.ID, URL: img.URL, PublicID: img.PublicID}
	}
	return out
}

func toPropertyResponse(p domain.PropertyDraft) PropertyResponse {
	resp := PropertyResponse{
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
		Images:            toImageResponses(p.Images),
		FeaturedAmenities: nonNilStrings(p.FeaturedAmenities),
		NearbyPlaces:      nonNilStrings(p.NearbyPlaces),
	}
	if bedrooms, bathrooms, ok := p.Rooms(); ok {
		resp.Bedrooms = &bedrooms
		resp.Bathrooms = &bathrooms
	}
	return resp
}

func toSessionResponse(s *domain.Session) *SessionResponse {
	if s == nil {
		return nil
	}
	seq := s.Sequencer()

	steps := make([]string, 0, len(seq.Steps()))
	for _, step := range seq.Steps() {
		steps = append(steps, string(step))
	}
	sections := make([]string, 0, 4)
	for _, section := range seq.Current().Sections() {
		sections = append(sections, string(section))
	}

	fields := make(map[string]interface{}, len(s.Draft.Fields))
	for k, v := range s.Draft.Fields {
		fields[k] = v
	}

	resp := &SessionResponse{
		ID:       s.ID,
		Kind:     string(s.Kind),
		Mode:     string(s.Mode),
		RecordID: s.RecordID,
		Step: StepResponse{
			Index:    seq.Index(),
			Current:  string(seq.Current()),
			Steps:    steps,
			Sections: sections,
			IsFirst:  seq.IsFirst(),
			IsReview: seq.IsReview(),
		},
		Fields:         fields,
		Gallery:        toImageResponses(s.Draft.Gallery),
		PendingUploads: s.PendingUploads,
		Submitting:     s.Submitting,
		CanSubmit:      s.CanSubmit() == nil,
	}

	if main := s.Draft.MainImage; !main.IsEmpty() {
		resp.MainImage = &MainImageResponse{
			URL:      main.Image.URL,
			PublicID: main.Image.PublicID,
			Preview:  main.Preview,
			Pending:  main.IsPending(),
		}
	}
	if s.Kind.HasProperties() {
		resp.Properties = make([]PropertyResponse, len(s.Draft.Properties))
		for i, p := range s.Draft.Properties {
			resp.Properties[i] = toPropertyResponse(p)
		}
	}
	return resp
}

func toFailureResponses(err error) []FileFailureResponse {
	var batchErr *usecase.UploadBatchError
	if !errors.As(err, &batchErr) {
		return nil
	}
	failures := make([]FileFailureResponse, len(batchErr.Failures))
	for i, f := range batchErr.Failures {
		failures[i] = FileFailureResponse{Position: f.Position, Name: f.Name, Error: f.Err.Error()}
	}
	sort.Slice(failures, func(i, j int) bool { return failures[i].Position < failures[j].Position })
	return failures
}

func nonNilStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
