package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/api/middleware"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/units"
)

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}

// respondError maps domain errors onto status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidTransaction):
		errorResponse(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrInvalidConfig):
		errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		errorResponse(c, http.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		errorResponse(c, http.StatusInternalServerError, "internal server error")
	}
}

func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		errorResponse(c, http.StatusUnauthorized, "missing user identity")
	}
	return userID, ok
}

// quantity accepts a JSON number or a form string. Anything that is not a
// non-negative number reads as 0.
type quantity float64

func (q *quantity) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*q = quantity(math.Max(0, n))
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*q = quantity(units.ParseQuantity(s))
		return nil
	}

	*q = 0
	return nil
}

type itemRequest struct {
	FoodType       string     `json:"food_type"`
	Category       string     `json:"category"`
	Quantity       quantity   `json:"quantity"`
	Unit           string     `json:"unit"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

func (r itemRequest) toDomain() domain.TransactionItem {
	item := domain.TransactionItem{
		FoodType:       r.FoodType,
		Quantity:       float64(r.Quantity),
		ExpirationDate: r.ExpirationDate,
	}
	if c, ok := domain.ParseCategory(r.Category); ok {
		item.Category = c
	}
	if u, ok := domain.ParseEntryUnit(r.Unit); ok {
		item.Unit = u
	} else {
		item.Unit = domain.UnitType(r.Unit)
	}
	return item
}

func toItems(reqs []itemRequest) []domain.TransactionItem {
	items := make([]domain.TransactionItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, r.toDomain())
	}
	return items
}
