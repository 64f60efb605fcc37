// backend/src/handlers/upload_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/username/vendalytics/backend/src/config"
	"github.com/username/vendalytics/backend/src/logger"
	"github.com/username/vendalytics/backend/src/parsers"
	"github.com/username/vendalytics/backend/src/processors"
	"github.com/username/vendalytics/backend/src/security/validation"
	"github.com/username/vendalytics/backend/src/services"
	"github.com/username/vendalytics/backend/src/utils"
)

// Error response categories. Bad input is "erro", structurally valid input
// that fails the data rules is "erro_processamento", anything else is
// "erro_interno".
const (
	statusError           = "erro"
	statusProcessingError = "erro_processamento"
	statusInternalError   = "erro_interno"
)

type UploadHandler struct {
	importService services.ImportService
}

func NewUploadHandler(service services.ImportService) *UploadHandler {
	return &UploadHandler{
		importService: service,
	}
}

// sourceFromFilename maps the upload's extension onto a parser source name.
func sourceFromFilename(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return "csv", nil
	case ".json":
		return "json", nil
	default:
		return "", fmt.Errorf("unsupported file extension in %q (want .csv or .json)", filename)
	}
}

func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		log.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, statusError, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		log.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, statusError, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		log.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, statusError, fmt.Sprintf("File too large, max %d MB (header check)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	source, err := sourceFromFilename(fileHeader.Filename)
	if err != nil {
		log.Warn("Unsupported upload file extension", "filename", fileHeader.Filename)
		utils.SendJSONError(w, statusError, err.Error(), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		log.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, statusError, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		log.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, statusError, err.Error(), http.StatusBadRequest)
		return
	}
	log.Info("File content validated", "filename", fileHeader.Filename, "clientType", clientContentType, "detectedType", detectedContentType)

	result, err := h.importService.ProcessUpload(file, source)
	if err != nil {
		switch {
		case errors.Is(err, parsers.ErrInvalidFile):
			log.Warn("Upload rejected: unreadable file", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, statusError, err.Error(), http.StatusBadRequest)
		case errors.Is(err, processors.ErrInvalidData), errors.Is(err, processors.ErrInconsistentRecord):
			log.Warn("Upload rejected: invalid data", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, statusProcessingError, err.Error(), http.StatusUnprocessableEntity)
		default:
			log.Error("Internal error processing upload", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, statusInternalError, "An internal error occurred while processing the file. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Error("Error encoding JSON response for upload result", "error", err)
	}
}
