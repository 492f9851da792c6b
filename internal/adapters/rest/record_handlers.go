package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contracts"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port/usecases_port"
)

// RecordHandlers serve the persistence API of every entity kind.
type RecordHandlers struct {
	createUC   usecases_port.CreateRecordUseCasePort
	updateUC   usecases_port.UpdateRecordUseCasePort
	deleteUC   usecases_port.DeleteRecordUseCasePort
	getUC      usecases_port.GetRecordUseCasePort
	listUC     usecases_port.ListRecordsUseCasePort
	translator Translator
}

func NewRecordHandlers(
	createUC usecases_port.CreateRecordUseCasePort,
	updateUC usecases_port.UpdateRecordUseCasePort,
	deleteUC usecases_port.DeleteRecordUseCasePort,
	getUC usecases_port.GetRecordUseCasePort,
	listUC usecases_port.ListRecordsUseCasePort,
	translator Translator,
) *RecordHandlers {
	return &RecordHandlers{
		createUC:   createUC,
		updateUC:   updateUC,
		deleteUC:   deleteUC,
		getUC:      getUC,
		listUC:     listUC,
		translator: translator,
	}
}

func kindFromPath(w http.ResponseWriter, r *http.Request) (domain.EntityKind, bool) {
	kind, err := domain.ParseEntityKind(chi.URLParam(r, "kind"))
	if err != nil {
		WriteJSONError(w, http.StatusNotFound, err.Error())
		return "", false
	}
	return kind, true
}

// List handles GET /api/v1/{kind}
func (h *RecordHandlers) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromPath(w, r)
	if !ok {
		return
	}
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListRecords", "kind": kind})

	q := r.URL.Query()
	query := domain.ListQuery{FeaturedOnly: q.Get("featured") == "true"}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "page must be an integer")
			return
		}
		query.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		query.Limit = limit
	}

	page, err := h.listUC.Execute(r.Context(), kind, query)
	if err != nil {
		logger.Error("List records use case failed", err, nil)
		writeDomainError(w, err)
		return
	}

	lang := h.translator.LanguageOf(r)
	response := RecordListResponse{
		Data:    make([]map[string]interface{}, len(page.Items)),
		Total:   page.Total,
		Page:    page.Page,
		PerPage: page.Limit,
	}
	for i, rec := range page.Items {
		response.Data[i] = toRecordResponse(rec, lang)
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// Get handles GET /api/v1/{kind}/{id}
func (h *RecordHandlers) Get(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromPath(w, r)
	if !ok {
		return
	}
	rec, err := h.getUC.Execute(r.Context(), kind, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toRecordResponse(*rec, h.translator.LanguageOf(r)))
}

// Create handles POST /api/v1/{kind}
func (h *RecordHandlers) Create(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromPath(w, r)
	if !ok {
		return
	}
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateRecord", "kind": kind})

	var data map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		logger.Warn("Failed to decode record body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.createUC.Execute(r.Context(), kind, data)
	if err != nil {
		logger.Warn("Create record use case failed", port.Fields{"error": err.Error()})
		writeDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, toRecordResponse(*rec, h.translator.LanguageOf(r)))
}

// Update handles PATCH /api/v1/{kind}/{id}
func (h *RecordHandlers) Update(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromPath(w, r)
	if !ok {
		return
	}
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateRecord", "kind": kind})

	var data map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		logger.Warn("Failed to decode record body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.updateUC.Execute(r.Context(), kind, chi.URLParam(r, "id"), data)
	if err != nil {
		logger.Warn("Update record use case failed", port.Fields{"error": err.Error()})
		writeDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toRecordResponse(*rec, h.translator.LanguageOf(r)))
}

// Delete handles DELETE /api/v1/{kind}/{id}
func (h *RecordHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromPath(w, r)
	if !ok {
		return
	}
	if err := h.deleteUC.Execute(r.Context(), kind, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// toRecordResponse flattens a record into its wire form. A Gregorian "date"
// field gains its Hijri rendering.
func toRecordResponse(rec domain.Record, lang string) map[string]interface{} {
	out := make(map[string]interface{}, len(rec.Data)+4)
	for k, v := range rec.Data {
		out[k] = v
	}
	out[contracts.KeyID] = rec.ID
	if !rec.CreatedAt.IsZero() {
		out[contracts.KeyCreatedAt] = rec.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !rec.UpdatedAt.IsZero() {
		out[contracts.KeyUpdatedAt] = rec.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if date, ok := rec.Data["date"].(string); ok && date != "" {
		if hijri, err := domain.ParseGregorianToHijri(date); err == nil {
			out[contracts.KeyHijriDate] = hijri.Format(lang)
		}
	}
	return out
}
