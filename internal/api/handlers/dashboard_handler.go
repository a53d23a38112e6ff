package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/service"
)

type DashboardHandler struct {
	service *service.DashboardService
	now     func() time.Time
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service, now: time.Now}
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	view, err := h.service.Dashboard(c.Request.Context(), userID, h.now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type itemAlertsRequest struct {
	Items []struct {
		ID             string     `json:"id"`
		Name           string     `json:"name"`
		Category       string     `json:"category"`
		Quantity       quantity   `json:"quantity"`
		Unit           string     `json:"unit"`
		ExpirationDate *time.Time `json:"expiration_date"`
	} `json:"items"`
}

// EvaluateItems returns item-level alerts for the posted detailed inventory.
func (h *DashboardHandler) EvaluateItems(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req itemAlertsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	items := make([]domain.TrackedItem, 0, len(req.Items))
	for _, r := range req.Items {
		item := domain.TrackedItem{
			ID:             r.ID,
			Name:           r.Name,
			Quantity:       float64(r.Quantity),
			ExpirationDate: r.ExpirationDate,
		}
		item.Category, _ = domain.ParseCategory(r.Category)
		item.Unit, _ = domain.ParseUnit(r.Unit)
		items = append(items, item)
	}

	alerts, err := h.service.EvaluateItems(c.Request.Context(), userID, items, h.now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
