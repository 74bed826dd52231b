package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fittracker/server/internal/domain"
	"fittracker/server/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GlossaryHandler holds the glossary service dependency.
type GlossaryHandler struct {
	glossaryService service.GlossaryService
}

// NewGlossaryHandler creates a new GlossaryHandler.
func NewGlossaryHandler(glossaryService service.GlossaryService) *GlossaryHandler {
	return &GlossaryHandler{glossaryService: glossaryService}
}

type GlossaryEntryRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Images      []string `json:"images"` // base64 data URLs
}

type GlossaryEntryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Images      []string  `json:"images,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func MapGlossaryEntryToResponse(entry *domain.GlossaryEntry) GlossaryEntryResponse {
	return GlossaryEntryResponse{
		ID:          entry.ID.Hex(),
		Name:        entry.Name,
		Description: entry.Description,
		Images:      entry.Images,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
}

func (h *GlossaryHandler) CreateEntry(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	var req GlossaryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entry := &domain.GlossaryEntry{Name: req.Name, Description: req.Description, Images: req.Images}
	created, err := h.glossaryService.Create(c.Request.Context(), coachID, entry)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create glossary entry")
		return
	}
	c.JSON(http.StatusCreated, MapGlossaryEntryToResponse(created))
}

func (h *GlossaryHandler) GetEntries(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	entries, err := h.glossaryService.List(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch glossary")
		return
	}

	resp := make([]GlossaryEntryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, MapGlossaryEntryToResponse(&entries[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GlossaryHandler) GetEntryByID(c *gin.Context) {
	coachID, entryID, ok := h.idsFromRequest(c)
	if !ok {
		return
	}

	entry, err := h.glossaryService.GetByID(c.Request.Context(), coachID, entryID)
	if err != nil {
		h.mapServiceError(c, err, "Failed to fetch glossary entry")
		return
	}
	c.JSON(http.StatusOK, MapGlossaryEntryToResponse(entry))
}

func (h *GlossaryHandler) UpdateEntry(c *gin.Context) {
	coachID, entryID, ok := h.idsFromRequest(c)
	if !ok {
		return
	}

	var req GlossaryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entry := &domain.GlossaryEntry{ID: entryID, Name: req.Name, Description: req.Description, Images: req.Images}
	updated, err := h.glossaryService.Update(c.Request.Context(), coachID, entry)
	if err != nil {
		h.mapServiceError(c, err, "Failed to update glossary entry")
		return
	}
	c.JSON(http.StatusOK, MapGlossaryEntryToResponse(updated))
}

// DeleteEntry removes a library entry. Snapshots already pinned onto workout
// exercises stay intact.
func (h *GlossaryHandler) DeleteEntry(c *gin.Context) {
	coachID, entryID, ok := h.idsFromRequest(c)
	if !ok {
		return
	}

	if err := h.glossaryService.Delete(c.Request.Context(), coachID, entryID); err != nil {
		h.mapServiceError(c, err, "Failed to delete glossary entry")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GlossaryHandler) idsFromRequest(c *gin.Context) (coachID, entryID primitive.ObjectID, ok bool) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}
	entryID, err = primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid glossary entry ID format")
		return
	}
	return coachID, entryID, true
}

func (h *GlossaryHandler) mapServiceError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, service.ErrGlossaryEntryNotFound) {
		abortWithError(c, http.StatusNotFound, err.Error())
		return
	}
	abortWithError(c, http.StatusInternalServerError, fallback)
}
