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

// ClientHandler holds the roster service dependency.
type ClientHandler struct {
	clientService service.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

type ClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func MapClientToResponse(client *domain.Client) ClientResponse {
	return ClientResponse{
		ID:        client.ID.Hex(),
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Notes:     client.Notes,
		CreatedAt: client.CreatedAt,
	}
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client := &domain.Client{Name: req.Name, Email: req.Email, Phone: req.Phone, Notes: req.Notes}
	created, err := h.clientService.Create(c.Request.Context(), coachID, client)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create client")
		return
	}
	c.JSON(http.StatusCreated, MapClientToResponse(created))
}

func (h *ClientHandler) GetClients(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	clients, err := h.clientService.List(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch clients")
		return
	}

	resp := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		resp = append(resp, MapClientToResponse(&clients[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientHandler) GetClientByID(c *gin.Context) {
	coachID, clientID, ok := h.idsFromRequest(c)
	if !ok {
		return
	}

	client, err := h.clientService.GetByID(c.Request.Context(), coachID, clientID)
	if err != nil {
		h.mapServiceError(c, err, "Failed to fetch client")
		return
	}
	c.JSON(http.StatusOK, MapClientToResponse(client))
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	coachID, clientID, ok := h.idsFromRequest(c)
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client := &domain.Client{ID: clientID, Name: req.Name, Email: req.Email, Phone: req.Phone, Notes: req.Notes}
	updated, err := h.clientService.Update(c.Request.Context(), coachID, client)
	if err != nil {
		h.mapServiceError(c, err, "Failed to update client")
		return
	}
	c.JSON(http.StatusOK, MapClientToResponse(updated))
}

// DeleteClient removes a roster entry. Workouts keep their clientName label;
// nothing cascades.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	coachID, clientID, ok := h.idsFromRequest(c)
	if !ok {
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), coachID, clientID); err != nil {
		h.mapServiceError(c, err, "Failed to delete client")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ClientHandler) idsFromRequest(c *gin.Context) (coachID, clientID primitive.ObjectID, ok bool) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}
	clientID, err = primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}
	return coachID, clientID, true
}

func (h *ClientHandler) mapServiceError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, service.ErrClientNotFound) {
		abortWithError(c, http.StatusNotFound, err.Error())
		return
	}
	abortWithError(c, http.StatusInternalServerError, fallback)
}
