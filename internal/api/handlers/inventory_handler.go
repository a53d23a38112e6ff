package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/ingest"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/service"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/units"
)

type InventoryHandler struct {
	service *service.InventoryService
}

func NewInventoryHandler(service *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

type intakeRequest struct {
	Items     []itemRequest `json:"items"`
	Donor     string        `json:"donor"`
	Notes     string        `json:"notes"`
	Timestamp *time.Time    `json:"timestamp"`
}

type bulkIntakeRequest struct {
	Text  string `json:"text" binding:"required"`
	Donor string `json:"donor"`
	Notes string `json:"notes"`
}

type bulkIntakeResponse struct {
	*service.RecordResult
	Skipped []ingest.SkippedRow `json:"skipped"`
}

type distributionRequest struct {
	Items         []itemRequest    `json:"items"`
	Recipient     string           `json:"recipient"`
	Notes         string           `json:"notes"`
	ClientsServed int              `json:"clients_served"`
	AgeGroups     domain.AgeGroups `json:"age_groups"`
	Timestamp     *time.Time       `json:"timestamp"`
}

type snapshotResponse struct {
	Snapshot       domain.InventorySnapshot `json:"snapshot"`
	TotalWeight    float64                  `json:"total_weight"`
	TotalFormatted string                   `json:"total_formatted"`
	Version        int64                    `json:"version"`
}

func (h *InventoryHandler) GetInventory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	snapshot, version, err := h.service.Snapshot(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	total := snapshot.Total()
	c.JSON(http.StatusOK, snapshotResponse{
		Snapshot:       snapshot,
		TotalWeight:    total,
		TotalFormatted: units.FormatWithUnit(total, domain.UnitPound),
		Version:        version,
	})
}

func (h *InventoryHandler) RecordIntake(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req intakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	tx := domain.Transaction{
		Items: toItems(req.Items),
		Donor: strings.TrimSpace(req.Donor),
		Notes: req.Notes,
	}
	if req.Timestamp != nil {
		tx.Timestamp = *req.Timestamp
	}

	res, err := h.service.RecordIntake(c.Request.Context(), userID, tx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// RecordBulkIntake records one intake from pasted spreadsheet rows.
func (h *InventoryHandler) RecordBulkIntake(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req bulkIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	parsed, err := ingest.ParseBulk(strings.NewReader(req.Text))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if len(parsed.Items) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "no importable rows",
			"skipped": parsed.Skipped,
		})
		return
	}

	res, err := h.service.RecordIntake(c.Request.Context(), userID, domain.Transaction{
		Items: parsed.Items,
		Donor: strings.TrimSpace(req.Donor),
		Notes: req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	skipped := parsed.Skipped
	if skipped == nil {
		skipped = []ingest.SkippedRow{}
	}
	c.JSON(http.StatusCreated, bulkIntakeResponse{RecordResult: res, Skipped: skipped})
}

func (h *InventoryHandler) RecordDistribution(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req distributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	tx := domain.Transaction{
		Items:         toItems(req.Items),
		Recipient:     strings.TrimSpace(req.Recipient),
		Notes:         req.Notes,
		ClientsServed: req.ClientsServed,
		AgeGroups:     req.AgeGroups,
	}
	if req.Timestamp != nil {
		tx.Timestamp = *req.Timestamp
	}

	res, err := h.service.RecordDistribution(c.Request.Context(), userID, tx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *InventoryHandler) GetHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	var kind domain.TransactionKind
	switch strings.ToUpper(strings.TrimSpace(c.Query("kind"))) {
	case "":
	case string(domain.KindIntake):
		kind = domain.KindIntake
	case string(domain.KindDistribution):
		kind = domain.KindDistribution
	default:
		errorResponse(c, http.StatusBadRequest, "kind must be INTAKE or DISTRIBUTION")
		return
	}

	txs, err := h.service.History(c.Request.Context(), userID, kind, days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func (h *InventoryHandler) GetActivity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	entries, err := h.service.Activity(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": entries})
}
