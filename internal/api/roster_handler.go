package api

import (
	"alcyxob/coachplan/internal/service"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RosterHandler manages the coach/client link.
type RosterHandler struct {
	rosterService service.RosterService
}

// NewRosterHandler creates a new RosterHandler.
func NewRosterHandler(rosterService service.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rosterService}
}

type AddClientRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// AddClient godoc
// @Summary Link an existing client account to the requesting coach
// @Tags Roster
// @Security BearerAuth
// @Param client body AddClientRequest true "Client email"
// @Success 200 {object} UserResponse
// @Router /clients [post]
func (h *RosterHandler) AddClient(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client, err := h.rosterService.AddClientByEmail(c.Request.Context(), actor.ID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotRole):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrClientAlreadyCoached):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Could not add client")
		}
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(client))
}

// GetClients godoc
// @Summary List clients managed by the requesting coach
// @Tags Roster
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Router /clients [get]
func (h *RosterHandler) GetClients(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}

	clients, err := h.rosterService.GetManagedClients(c.Request.Context(), actor.ID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not fetch clients")
		return
	}

	resp := make([]UserResponse, 0, len(clients))
	for i := range clients {
		resp = append(resp, MapUserToResponse(&clients[i]))
	}
	c.JSON(http.StatusOK, resp)
}
