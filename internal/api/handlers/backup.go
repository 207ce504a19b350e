package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/simfolio/paper-portfolio-backend/internal/api/response"
	"github.com/simfolio/paper-portfolio-backend/internal/apperrors"
	"github.com/simfolio/paper-portfolio-backend/internal/service"
)

// maxImportSize caps import payloads at 10 MB.
const maxImportSize = 10 << 20

// BackupHandler handles HTTP requests for portfolio export and import.
type BackupHandler struct {
	backupService *service.BackupService
}

// NewBackupHandler creates a new BackupHandler with the provided service dependency.
func NewBackupHandler(backupService *service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// Export handles GET requests to download a full portfolio backup as a file.
//
// Endpoint: GET /api/backup/export
// Response: 200 OK with the backup document and a download disposition
// Error: 500 Internal Server Error if the export fails
func (h *BackupHandler) Export(w http.ResponseWriter, _ *http.Request) {
	data, err := h.backupService.Export()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToExportData.Error(), err.Error())
		return
	}

	filename := fmt.Sprintf("portfolio-backup-%s.json", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Import handles POST requests to restore a previously exported backup. The
// body is the raw backup document; all current portfolio state is replaced.
//
// Endpoint: POST /api/backup/import
// Response: 204 No Content on success
// Error: 400 Bad Request if the document is malformed
// Error: 500 Internal Server Error if the restore fails
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.backupService.Import(raw); err != nil {
		if errors.Is(err, apperrors.ErrMalformedImport) {
			respondDomainError(w, err)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToImportData.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
