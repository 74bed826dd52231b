package api

import (
	"errors"
	"io"
	"net/http"

	"fittracker/server/internal/service"

	"github.com/gin-gonic/gin"
)

// Imports are whole planner states; anything bigger than this is not a
// plausible backup document.
const maxImportSize = 64 << 20

// BackupHandler holds the backup service dependency.
type BackupHandler struct {
	backupService service.BackupService
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(backupService service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// Export downloads the coach's complete planner state as a JSON document.
func (h *BackupHandler) Export(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	data, err := h.backupService.Export(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to export backup")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="fittracker-backup.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

// Import replaces the coach's planner state with an uploaded backup
// document. An invalid document is rejected without changing anything.
func (h *BackupHandler) Import(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Failed to read backup document")
		return
	}

	if err := h.backupService.Import(c.Request.Context(), coachID, data); err != nil {
		if errors.Is(err, service.ErrInvalidBackup) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to import backup")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Backup imported"})
}

// CloudExport uploads the current state to the coach's cloud blob.
func (h *BackupHandler) CloudExport(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	if err := h.backupService.CloudExport(c.Request.Context(), coachID); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to export backup to cloud")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cloud backup written"})
}

// CloudRestore merges the cloud blob into the local state and returns the
// merged document.
func (h *BackupHandler) CloudRestore(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	doc, err := h.backupService.CloudRestore(c.Request.Context(), coachID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoCloudBackup):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidBackup):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to restore cloud backup")
		}
		return
	}
	c.JSON(http.StatusOK, doc)
}
