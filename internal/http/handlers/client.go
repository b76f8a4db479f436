package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/http/response"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/apierr"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/logger"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/requests"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/services"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/validation"
)

const malformedBodyMessage = "Unknown or invalid JSON properties in request body"

type ClientHandler struct {
	log           *logger.Logger
	clientService services.ClientService
}

func NewClientHandler(baseLog *logger.Logger, clientService services.ClientService) *ClientHandler {
	return &ClientHandler{
		log:           baseLog.With("handler", "ClientHandler"),
		clientService: clientService,
	}
}

// POST /api/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req requests.ClientCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, malformedBodyMessage)
		return
	}
	if errs := validation.ClientCreate(&req); len(errs) > 0 {
		response.RespondError(c, apierr.Validation(errs))
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), nil, &req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/clients/%d", client.ID))
	c.Status(http.StatusCreated)
}

// POST /api/clients/batch
func (h *ClientHandler) CreateBatch(c *gin.Context) {
	var items []requests.ClientCreate
	if err := c.ShouldBindJSON(&items); err != nil {
		response.RespondBadRequest(c, malformedBodyMessage)
		return
	}

	if _, err := h.clientService.CreateBatch(c.Request.Context(), nil, items); err != nil {
		response.RespondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// GET /api/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "clientId")
	if !ok {
		return
	}

	client, err := h.clientService.Get(c.Request.Context(), nil, id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, clientView(client))
}

// PUT /api/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "clientId")
	if !ok {
		return
	}

	var req requests.ClientUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, malformedBodyMessage)
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), nil, id, &req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, clientView(client))
}

// DELETE /api/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "clientId")
	if !ok {
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), nil, id); err != nil {
		response.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses a positive integer path parameter, responding 400 itself
// when the value is not one.
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.RespondBadRequest(c, fmt.Sprintf("%s must be a positive integer", name))
		return 0, false
	}
	return uint(id), true
}
