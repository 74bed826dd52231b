package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fittracker/server/internal/domain"
	"fittracker/server/internal/program"
	"fittracker/server/internal/render"
	"fittracker/server/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- Request/Response Structs ---

// WorkoutRequest carries the full embedded week tree. Node IDs may be empty
// for nodes created client-side; the service fills them in.
type WorkoutRequest struct {
	ClientName  string        `json:"clientName" binding:"required"`
	Description string        `json:"description"`
	Comment     string        `json:"comment"`
	Weeks       []domain.Week `json:"weeks"`
}

type WorkoutResponse struct {
	ID          string        `json:"id"`
	ClientName  string        `json:"clientName"`
	Description string        `json:"description,omitempty"`
	Comment     string        `json:"comment,omitempty"`
	Weeks       []domain.Week `json:"weeks"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// ReorderRequest mirrors one drag-and-drop move. A missing destination means
// the drag was cancelled.
type ReorderRequest struct {
	Level       string            `json:"level" binding:"required,oneof=week day exercise"`
	Source      program.Position  `json:"source" binding:"required"`
	Destination *program.Position `json:"destination"`
}

func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	weeks := w.Weeks
	if weeks == nil {
		weeks = []domain.Week{}
	}
	return WorkoutResponse{
		ID:          w.ID.Hex(),
		ClientName:  w.ClientName,
		Description: w.Description,
		Comment:     w.Comment,
		Weeks:       weeks,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// --- Handler Methods ---

func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workout := &domain.Workout{
		ClientName:  req.ClientName,
		Description: req.Description,
		Comment:     req.Comment,
		Weeks:       req.Weeks,
	}
	created, err := h.workoutService.Create(c.Request.Context(), coachID, workout)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create workout")
		return
	}

	c.JSON(http.StatusCreated, MapWorkoutToResponse(created))
}

func (h *WorkoutHandler) GetWorkouts(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	workouts, err := h.workoutService.List(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch workouts")
		return
	}

	resp := make([]WorkoutResponse, 0, len(workouts))
	for i := range workouts {
		resp = append(resp, MapWorkoutToResponse(&workouts[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WorkoutHandler) GetWorkoutByID(c *gin.Context) {
	coachID, workoutID, ok := h.idsFromRequest(c)
	if !ok {
		return
	}

	workout, err := h.workoutService.GetByID(c.Request.Context(), coachID, workoutID)
	if err != nil {
		h.mapServiceError(c, err, "Failed to fetch workout")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	coachID, workoutID, ok := h.idsFromRequest(c)
	if !ok {
		return
	}

	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workout := &domain.Workout{
		ID:          workoutID,
		ClientName:  req.ClientName,
		Description: req.Description,
		Comment:     req.Comment,
		Weeks:       req.Weeks,
	}
	updated, err := h.workoutService.Update(c.Request.Context(), coachID, workout)
	if err != nil {
		h.mapServiceError(c, err, "Failed to update workout")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(updated))
}

func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	coachID, workoutID, ok := h.idsFromRequest(c)
	if !ok {
		return
	}

	if err := h.workoutService.Delete(c.Request.Context(), coachID, workoutID); err != nil {
		h.mapServiceError(c, err, "Failed to delete workout")
		return
	}
	c.Status(http.StatusNoContent)
}

// ReorderWorkout applies one drag-and-drop move. The response always carries
// the authoritative tree, also for moves that changed nothing, so the client
// can re-sync after stale drags.
func (h *WorkoutHandler) ReorderWorkout(c *gin.Context) {
	coachID, workoutID, ok := h.idsFromRequest(c)
	if !ok {
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	mv := program.Move{
		Level:       program.Level(req.Level),
		Source:      req.Source,
		Destination: req.Destination,
	}
	workout, err := h.workoutService.Reorder(c.Request.Context(), coachID, workoutID, mv)
	if err != nil {
		h.mapServiceError(c, err, "Failed to reorder workout")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// ExportWorkoutPDF streams the printable program. An optional profileId
// query parameter selects a branding profile other than the default.
func (h *WorkoutHandler) ExportWorkoutPDF(c *gin.Context) {
	coachID, workoutID, ok := h.idsFromRequest(c)
	if !ok {
		return
	}

	profileID := primitive.NilObjectID
	if raw := c.Query("profileId"); raw != "" {
		var err error
		profileID, err = primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid profileId format")
			return
		}
	}

	pdf, err := h.workoutService.RenderPDF(c.Request.Context(), coachID, workoutID, profileID)
	if err != nil {
		switch {
		case errors.Is(err, render.ErrRenderFailed):
			abortWithError(c, http.StatusInternalServerError, err.Error())
		default:
			h.mapServiceError(c, err, "Failed to render workout PDF")
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="program.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// --- Helpers ---

func (h *WorkoutHandler) idsFromRequest(c *gin.Context) (coachID, workoutID primitive.ObjectID, ok bool) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}
	workoutID, err = primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}
	return coachID, workoutID, true
}

func (h *WorkoutHandler) mapServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
