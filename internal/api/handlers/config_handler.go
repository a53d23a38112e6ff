package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/category"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/service"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/units"
)

type ConfigHandler struct {
	service *service.ConfigService
}

func NewConfigHandler(service *service.ConfigService) *ConfigHandler {
	return &ConfigHandler{service: service}
}

func (h *ConfigHandler) GetUnits(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	cfg, err := h.service.UnitConfig(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"units": cfg})
}

func (h *ConfigHandler) UpdateUnits(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req struct {
		Units domain.UnitConfig `json:"units"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cfg, err := h.service.UpdateUnitConfig(c.Request.Context(), userID, req.Units)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"units": cfg})
}

// SetUnitWeight updates one weight of one unit. Without a category the
// unit's base weight changes.
func (h *ConfigHandler) SetUnitWeight(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	unit, ok := domain.ParseUnit(c.Param("unit"))
	if !ok {
		errorResponse(c, http.StatusBadRequest, "unknown unit "+c.Param("unit"))
		return
	}

	var req struct {
		Category string  `json:"category"`
		Weight   float64 `json:"weight"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var cat domain.Category
	if strings.TrimSpace(req.Category) != "" {
		parsed, ok := domain.ParseCategory(req.Category)
		if !ok {
			errorResponse(c, http.StatusBadRequest, "unknown category "+req.Category)
			return
		}
		cat = parsed
	}

	cfg, err := h.service.SetUnitWeight(c.Request.Context(), userID, unit, cat, req.Weight)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"units": cfg})
}

type convertResponse struct {
	Quantity  float64         `json:"quantity"`
	Unit      domain.UnitType `json:"unit"`
	Category  domain.Category `json:"category"`
	Pounds    float64         `json:"pounds"`
	To        domain.UnitType `json:"to"`
	Result    float64         `json:"result"`
	Formatted string          `json:"formatted"`
}

// Convert converts ?quantity= of ?unit= into ?to= (pounds by default) with
// the user's weight tables. ?category= takes a category or a raw food label.
func (h *ConfigHandler) Convert(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	from, ok := domain.ParseUnit(c.Query("unit"))
	if !ok {
		errorResponse(c, http.StatusBadRequest, "unknown unit "+c.Query("unit"))
		return
	}
	to := domain.UnitPound
	if raw := c.Query("to"); raw != "" {
		if to, ok = domain.ParseUnit(raw); !ok {
			errorResponse(c, http.StatusBadRequest, "unknown unit "+raw)
			return
		}
	}

	cat, ok := domain.ParseCategory(c.Query("category"))
	if !ok && c.Query("category") != "" {
		cat = category.Resolve(c.Query("category"))
	}

	conv, err := h.service.Converter(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	q := units.ParseQuantity(c.Query("quantity"))
	result := conv.Convert(q, from, to, cat)

	c.JSON(http.StatusOK, convertResponse{
		Quantity:  q,
		Unit:      from,
		Category:  cat,
		Pounds:    conv.ToCanonicalWeight(q, from, cat),
		To:        to,
		Result:    result,
		Formatted: units.FormatWithUnit(result, to),
	})
}

func (h *ConfigHandler) GetSettings(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	settings, err := h.service.Settings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *ConfigHandler) UpdateSettings(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req domain.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// ResolveCategory maps a raw food label to its category. Unknown labels
// resolve to MISC.
func (h *ConfigHandler) ResolveCategory(c *gin.Context) {
	label := c.Query("label")
	resolved := category.Resolve(label)
	goal := category.GoalFor(resolved)

	c.JSON(http.StatusOK, gin.H{
		"label":         label,
		"category":      resolved,
		"display_name":  resolved.Label(),
		"known":         category.Known(label),
		"goal_pct":      goal.Percentage,
		"pallet_target": goal.PalletTarget,
	})
}
