package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port/usecases_port"
)

// Translator turns notice keys into messages in the request's language.
type Translator interface {
	LanguageOf(r *http.Request) string
	Translate(lang, key string) string
}

// SessionUseCases groups everything the wizard endpoints drive.
type SessionUseCases struct {
	StartCreate         usecases_port.StartCreateSessionUseCasePort
	StartEdit           usecases_port.StartEditSessionUseCasePort
	Get                 usecases_port.GetSessionUseCasePort
	Cancel              usecases_port.CancelSessionUseCasePort
	SetFields           usecases_port.SetDraftFieldsUseCasePort
	Navigate            usecases_port.NavigateStepUseCasePort
	UploadMainImage     usecases_port.UploadMainImageUseCasePort
	UploadGallery       usecases_port.UploadGalleryImagesUseCasePort
	RemoveGalleryImage  usecases_port.RemoveGalleryImageUseCasePort
	AddProperty         usecases_port.AddPropertyUseCasePort
	RemoveProperty      usecases_port.RemovePropertyUseCasePort
	UpdateProperty      usecases_port.UpdatePropertyUseCasePort
	UploadPropertyImage usecases_port.UploadPropertyImagesUseCasePort
	RemovePropertyImage usecases_port.RemovePropertyImageUseCasePort
	Submit              usecases_port.SubmitDraftUseCasePort
}

type SessionHandlers struct {
	uc         SessionUseCases
	translator Translator
}

func NewSessionHandlers(uc SessionUseCases, translator Translator) *SessionHandlers {
	return &SessionHandlers{uc: uc, translator: translator}
}

// respondResult writes the Result body. Failures keep the status of the
// underlying error so clients can branch without parsing the body.
func (h *SessionHandlers) respondResult(w http.ResponseWriter, r *http.Request, session *domain.Session, res domain.Result) {
	lang := h.translator.LanguageOf(r)
	body := ResultResponse{
		OK:       res.OK(),
		Notice:   res.NoticeKey,
		Redirect: res.Redirect,
		Session:  toSessionResponse(session),
	}
	if res.NoticeKey != "" {
		body.Message = h.translator.Translate(lang, res.NoticeKey)
	}

	status := http.StatusOK
	if !res.OK() {
		status = statusFor(res.Err)
		if res.Err != nil && status != http.StatusInternalServerError {
			body.Error = res.Err.Error()
		}
		body.Failures = toFailureResponses(res.Err)
	}
	RespondWithJSON(w, status, body)
}

// Create handles POST /api/v1/sessions
func (h *SessionHandlers) Create(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateSession"})

	var req CreateSessionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid create session request", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	kind, err := domain.ParseEntityKind(req.Kind)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.uc.StartCreate.Execute(r.Context(), kind)
	if err != nil {
		logger.Error("Start create session use case failed", err, nil)
		writeDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, toSessionResponse(session))
}

// Edit handles POST /api/v1/sessions/edit/{kind}/{recordID}
func (h *SessionHandlers) Edit(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "EditSession"})

	kind, err := domain.ParseEntityKind(chi.URLParam(r, "kind"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	recordID := chi.URLParam(r, "recordID")

	session, res := h.uc.StartEdit.Execute(r.Context(), kind, recordID)
	if !res.OK() {
		logger.Warn("Hydration failed", port.Fields{"record_id": recordID, "kind": kind})
		h.respondResult(w, r, nil, res)
		return
	}
	RespondWithJSON(w, http.StatusCreated, toSessionResponse(session))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.uc.Get.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toSessionResponse(session))
}

// Cancel handles DELETE /api/v1/sessions/{id}
func (h *SessionHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.Cancel.Execute(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetFields handles PATCH /api/v1/sessions/{id}/fields
func (h *SessionHandlers) SetFields(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SetFields"})

	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		logger.Warn("Failed to decode fields", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.uc.SetFields.Execute(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *SessionHandlers) navigate(direction domain.StepDirection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := h.uc.Navigate.Execute(r.Context(), chi.URLParam(r, "id"), direction)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		RespondWithJSON(w, http.StatusOK, toSessionResponse(session))
	}
}

// Next handles POST /api/v1/sessions/{id}/steps/next
func (h *SessionHandlers) Next(w http.ResponseWriter, r *http.Request) {
	h.navigate(domain.StepForward)(w, r)
}

// Prev handles POST /api/v1/sessions/{id}/steps/prev
func (h *SessionHandlers) Prev(w http.ResponseWriter, r *http.Request) {
	h.navigate(domain.StepBack)(w, r)
}

// UploadMainImage handles POST /api/v1/sessions/{id}/main-image
func (h *SessionHandlers) UploadMainImage(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UploadMainImage"})

	files, err := readFiles(w, r, "file")
	if err != nil {
		logger.Warn("Failed to read upload", port.Fields{"error": err.Error()})
		writeDomainError(w, err)
		return
	}
	if len(files) == 0 {
		writeDomainError(w, domain.ErrNoFiles)
		return
	}

	session, res := h.uc.UploadMainImage.Execute(r.Context(), chi.URLParam(r, "id"), files[0])
	h.respondResult(w, r, session, res)
}

// UploadGallery handles POST /api/v1/sessions/{id}/gallery
func (h *SessionHandlers) UploadGallery(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UploadGallery"})

	files, err := readFiles(w, r, "files", "file")
	if err != nil {
		logger.Warn("Failed to read upload", port.Fields{"error": err.Error()})
		writeDomainError(w, err)
		return
	}

	session, res := h.uc.UploadGallery.Execute(r.Context(), chi.URLParam(r, "id"), files)
	h.respondResult(w, r, session, res)
}

// RemoveGalleryImage handles DELETE /api/v1/sessions/{id}/gallery/{index}
func (h *SessionHandlers) RemoveGalleryImage(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(chi.URLParam(r, "index"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	session, err := h.uc.RemoveGalleryImage.Execute(r.Context(), chi.URLParam(r, "id"), index)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toSessionResponse(session))
}

// AddProperty handles POST /api/v1/sessions/{id}/properties
func (h *SessionHandlers) AddProperty(w http.ResponseWriter, r *http.Request) {
	session, propertyID, err := h.uc.AddProperty.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("X-Property-ID", propertyID)
	RespondWithJSON(w, http.StatusCreated, toSessionResponse(session))
}

// UpdateProperty handles PATCH /api/v1/sessions/{id}/properties/{propertyID}
func (h *SessionHandlers) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	var req UpdatePropertyRequest
	if err := decodeAndValidate(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	session, err := h.uc.UpdateProperty.Execute(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "propertyID"), req.Field, req.Value)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toSessionResponse(session))
}

// RemoveProperty handles DELETE /api/v1/sessions/{id}/properties/{propertyID}
func (h *SessionHandlers) RemoveProperty(w http.ResponseWriter, r *http.Request) {
	session, err := h.uc.RemoveProperty.Execute(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "propertyID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toSessionResponse(session))
}

// UploadPropertyImages handles POST /api/v1/sessions/{id}/properties/{propertyID}/images
func (h *SessionHandlers) UploadPropertyImages(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UploadPropertyImages"})

	files, err := readFiles(w, r, "files", "file")
	if err != nil {
		logger.Warn("Failed to read upload", port.Fields{"error": err.Error()})
		writeDomainError(w, err)
		return
	}

	session, res := h.uc.UploadPropertyImage.Execute(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "propertyID"), files)
	h.respondResult(w, r, session, res)
}

// RemovePropertyImage handles DELETE /api/v1/sessions/{id}/properties/{propertyID}/images/{index}
func (h *SessionHandlers) RemovePropertyImage(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(chi.URLParam(r, "index"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	session, err := h.uc.RemovePropertyImage.Execute(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "propertyID"), index)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toSessionResponse(session))
}

// Submit handles POST /api/v1/sessions/{id}/submit
func (h *SessionHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Submit"})

	session, res := h.uc.Submit.Execute(r.Context(), chi.URLParam(r, "id"))
	if !res.OK() {
		logger.Warn("Submission failed", port.Fields{"notice": res.NoticeKey})
	}
	h.respondResult(w, r, session, res)
}
