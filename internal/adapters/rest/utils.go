package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

const (
	maxUploadMemory  = 32 << 20
	maxFileSize      = 10 << 20
	maxFilesPerBatch = 20
)

// maxUploadBody caps a whole multipart request.
var maxUploadBody int64 = maxFilesPerBatch*maxFileSize + 1<<20

var errBodyTooLarge = errors.New("request body too large")

var validate = validator.New(validator.WithRequiredStructEnabled())

// WriteJSONError writes {"error": message} with the given status.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("field %s failed on %s", verrs[0].Field(), verrs[0].Tag())
		}
		return err
	}
	return nil
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrPropertyNotFound),
		errors.Is(err, domain.ErrImageNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownEntityKind),
		errors.Is(err, domain.ErrUnknownPropertyType),
		errors.Is(err, domain.ErrUnknownPropertyField),
		errors.Is(err, domain.ErrFieldNotApplicable),
		errors.Is(err, domain.ErrInvalidFieldValue),
		errors.Is(err, domain.ErrReservedField),
		errors.Is(err, domain.ErrPropertiesNotAllowed),
		errors.Is(err, domain.ErrNoFiles),
		errors.Is(err, domain.ErrInvalidMediaFile):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidRecord):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrUploadsPending),
		errors.Is(err, domain.ErrSubmissionInProgress),
		errors.Is(err, domain.ErrSessionConflict),
		errors.Is(err, domain.ErrEmailInUse):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUploadFailed),
		errors.Is(err, domain.ErrPersistenceAPI):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError hides the details of unexpected errors.
func writeDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		WriteJSONError(w, status, "Internal server error")
		return
	}
	WriteJSONError(w, status, err.Error())
}

func pathIndex(value string) (int, error) {
	i, err := strconv.Atoi(value)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%w: index must be a non-negative integer", domain.ErrInvalidFieldValue)
	}
	return i, nil
}

// readFiles collects every uploaded file under the given form fields, in
// the order the client sent them. At most maxFilesPerBatch files are accepted.
func readFiles(w http.ResponseWriter, r *http.Request, fields ...string) ([]port.MediaFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidMediaFile, err)
	}

	var headers []*multipart.FileHeader
	for _, field := range fields {
		headers = append(headers, r.MultipartForm.File[field]...)
	}
	if len(headers) > maxFilesPerBatch {
		return nil, fmt.Errorf("%w: %d files sent, at most %d per batch", domain.ErrInvalidMediaFile, len(headers), maxFilesPerBatch)
	}

	files := make([]port.MediaFile, 0, len(headers))
	for _, header := range headers {
		file, err := readFile(header)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func readFile(header *multipart.FileHeader) (port.MediaFile, error) {
	if header.Size > maxFileSize {
		return port.MediaFile{}, fmt.Errorf("%w: %s is larger than %d bytes", domain.ErrInvalidMediaFile, header.Filename, maxFileSize)
	}
	f, err := header.Open()
	if err != nil {
		return port.MediaFile{}, fmt.Errorf("%w: %v", domain.ErrInvalidMediaFile, err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxFileSize+1))
	if err != nil {
		return port.MediaFile{}, fmt.Errorf("%w: %v", domain.ErrInvalidMediaFile, err)
	}
	return port.MediaFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}
