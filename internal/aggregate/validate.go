package aggregate

import (
	"fmt"
	"math"
	"strings"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
)

// ValidateTransaction runs the cross-field checks a transaction must pass
// before it reaches the aggregator.
func ValidateTransaction(tx domain.Transaction) error {
	if tx.Kind != domain.KindIntake && tx.Kind != domain.KindDistribution {
		return fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidTransaction, tx.Kind)
	}
	if len(tx.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", domain.ErrInvalidTransaction)
	}

	for i, item := range tx.Items {
		if !item.Unit.Valid() {
			return fmt.Errorf("%w: item %d has unknown unit %q", domain.ErrInvalidTransaction, i+1, item.Unit)
		}
		if strings.TrimSpace(item.FoodType) == "" && !item.Category.Valid() {
			return fmt.Errorf("%w: item %d needs a food type or category", domain.ErrInvalidTransaction, i+1)
		}
		if math.IsNaN(item.Quantity) || math.IsInf(item.Quantity, 0) || item.Quantity < 0 {
			return fmt.Errorf("%w: item %d has invalid quantity %v", domain.ErrInvalidTransaction, i+1, item.Quantity)
		}
	}

	if tx.Kind != domain.KindDistribution {
		return nil
	}

	ages := tx.AgeGroups
	if tx.ClientsServed < 0 || ages.Child < 0 || ages.Adult < 0 || ages.Elder < 0 {
		return fmt.Errorf("%w: client counts must be non-negative", domain.ErrInvalidTransaction)
	}
	if ages.Sum() != tx.ClientsServed {
		return fmt.Errorf("%w: age groups sum to %d but %d clients were served",
			domain.ErrInvalidTransaction, ages.Sum(), tx.ClientsServed)
	}

	return nil
}
