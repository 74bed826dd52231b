package api

import (
	"errors"
	"fmt"
	"net/http"

	"fittracker/server/internal/domain"
	"fittracker/server/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileHandler holds the branding profile service dependency.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

type ProfileRequest struct {
	Name          string `json:"name"`
	LogoImage     string `json:"logoImage"`
	TextColor     string `json:"textColor"`
	LineColor     string `json:"lineColor"`
	Email         string `json:"email" binding:"omitempty,email"`
	Phone         string `json:"phone"`
	Website       string `json:"website"`
	ShowWatermark bool   `json:"showWatermark"`
}

type LogoUploadURLRequest struct {
	ContentType string `json:"contentType"`
}

// CreateProfile adds a branding profile. The first profile a coach creates
// becomes the default.
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile := &domain.CoachProfile{
		Name:          req.Name,
		LogoImage:     req.LogoImage,
		TextColor:     req.TextColor,
		LineColor:     req.LineColor,
		Email:         req.Email,
		Phone:         req.Phone,
		Website:       req.Website,
		ShowWatermark: req.ShowWatermark,
	}
	created, err := h.profileService.Create(c.Request.Context(), coachID, profile)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create coach profile")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetProfile returns the coach's default branding profile, creating an
// initial one on first access.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	profile, err := h.profileService.GetDefault(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch coach profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetProfileByID(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}
	profileID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid profile ID format")
		return
	}

	profile, err := h.profileService.GetByID(c.Request.Context(), coachID, profileID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch coach profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile writes branding settings. Without an :id path segment it
// targets the default profile.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	profileID := primitive.NilObjectID
	if raw := c.Param("id"); raw != "" {
		profileID, err = primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid profile ID format")
			return
		}
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile := &domain.CoachProfile{
		ID:            profileID,
		Name:          req.Name,
		LogoImage:     req.LogoImage,
		TextColor:     req.TextColor,
		LineColor:     req.LineColor,
		Email:         req.Email,
		Phone:         req.Phone,
		Website:       req.Website,
		ShowWatermark: req.ShowWatermark,
	}
	updated, err := h.profileService.Update(c.Request.Context(), coachID, profile)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to update coach profile")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// LogoUploadURL issues a presigned PUT URL so the browser uploads the logo
// image straight to object storage.
func (h *ProfileHandler) LogoUploadURL(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	var req LogoUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	uploadURL, objectKey, err := h.profileService.LogoUploadURL(c.Request.Context(), coachID, req.ContentType)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create upload URL")
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploadUrl": uploadURL, "objectKey": objectKey})
}
