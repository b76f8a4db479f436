package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/http/response"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/apierr"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/logger"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/requests"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/services"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/validation"
)

type ContractHandler struct {
	log             *logger.Logger
	contractService services.ContractService
}

func NewContractHandler(baseLog *logger.Logger, contractService services.ContractService) *ContractHandler {
	return &ContractHandler{
		log:             baseLog.With("handler", "ContractHandler"),
		contractService: contractService,
	}
}

// POST /api/clients/:clientId/contracts
func (h *ContractHandler) Create(c *gin.Context) {
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}

	var req requests.ContractCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, malformedBodyMessage)
		return
	}
	if errs := validation.ContractCreate(&req); len(errs) > 0 {
		response.RespondError(c, apierr.Validation(errs))
		return
	}

	contract, err := h.contractService.Create(c.Request.Context(), nil, clientID, &req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/contracts/%d", contract.ID))
	c.Status(http.StatusCreated)
}

// POST /api/clients/:clientId/contracts/batch
func (h *ContractHandler) CreateBatch(c *gin.Context) {
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}

	var items []requests.ContractCreate
	if err := c.ShouldBindJSON(&items); err != nil {
		response.RespondBadRequest(c, malformedBodyMessage)
		return
	}

	contracts, err := h.contractService.CreateBatch(c.Request.Context(), nil, clientID, items)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	ids := make([]uint, 0, len(contracts))
	for _, contract := range contracts {
		ids = append(ids, contract.ID)
	}
	c.JSON(http.StatusCreated, gin.H{"ids": ids})
}

// PATCH /api/contracts/:id/cost
func (h *ContractHandler) UpdateCost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req requests.ContractCostUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, malformedBodyMessage)
		return
	}

	contract, err := h.contractService.UpdateCost(c.Request.Context(), nil, id, &req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, contractView(contract))
}

// GET /api/clients/:clientId/contracts?active=&updatedSince=&page=&size=&sort=
func (h *ContractHandler) ListForClient(c *gin.Context) {
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}

	q, err := parseListQuery(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	page, err := h.contractService.ListForClient(c.Request.Context(), nil, clientID, *q)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, contractPageView(page))
}

// GET /api/clients/:clientId/contracts/sum
func (h *ContractHandler) SumActive(c *gin.Context) {
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}

	sum, err := h.contractService.SumActive(c.Request.Context(), nil, clientID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"clientId": clientID, "sum": sum})
}

// DELETE /api/contracts/:id
func (h *ContractHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.contractService.Delete(c.Request.Context(), nil, id); err != nil {
		response.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// updatedSince accepts RFC3339 or a bare local date-time.
var updatedSinceLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

func parseListQuery(c *gin.Context) (*services.ContractListQuery, error) {
	q := services.ContractListQuery{Sort: c.Query("sort")}

	// Listing defaults to active contracts only.
	activeRaw := c.DefaultQuery("active", "true")
	active, err := strconv.ParseBool(activeRaw)
	if err != nil {
		return nil, apierr.Validation([]apierr.FieldError{{
			Parameter:     "active",
			Message:       "active must be a boolean",
			RejectedValue: activeRaw,
		}})
	}
	q.ActiveOnly = active

	if raw := strings.TrimSpace(c.Query("updatedSince")); raw != "" {
		parsed, err := parseTimestamp(raw)
		if err != nil {
			return nil, apierr.Validation([]apierr.FieldError{{
				Parameter:     "updatedSince",
				Message:       "updatedSince must be an ISO date-time",
				RejectedValue: raw,
			}})
		}
		q.UpdatedSince = &parsed
	}

	q.Page, err = queryInt(c, "page", 0)
	if err != nil {
		return nil, err
	}
	q.Size, err = queryInt(c, "size", 0)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range updatedSinceLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apierr.Validation([]apierr.FieldError{{
			Parameter:     name,
			Message:       "must be a non-negative integer",
			RejectedValue: raw,
		}})
	}
	return v, nil
}
