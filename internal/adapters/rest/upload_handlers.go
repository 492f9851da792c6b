package rest

import (
	"net/http"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port/usecases_port"
)

type UploadHandlers struct {
	uploadUC usecases_port.UploadMediaUseCasePort
}

func NewUploadHandlers(uploadUC usecases_port.UploadMediaUseCasePort) *UploadHandlers {
	return &UploadHandlers{uploadUC: uploadUC}
}

// Upload handles POST /api/v1/upload?folder=...
func (h *UploadHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Upload"})

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

	img, err := h.uploadUC.Execute(r.Context(), r.URL.Query().Get("folder"), files[0])
	if err != nil {
		logger.Error("Upload media use case failed", err, nil)
		writeDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, UploadResponse{SecureURL: img.URL, PublicID: img.PublicID})
}
