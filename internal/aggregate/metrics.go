package aggregate

import (
	"time"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
)

const week = 7 * 24 * time.Hour

// ComputeOutgoingMetrics summarizes distribution velocity as of now. Today is
// the calendar day of now in its location and the week is the seven days
// ending with that day, so anything counted today is also counted this week.
// The average covers every supplied distribution.
func ComputeOutgoingMetrics(distributions []domain.Transaction, now time.Time) domain.OutgoingMetrics {
	var (
		m     domain.OutgoingMetrics
		sum   float64
		count int
	)

	y, mo, d := now.Date()
	dayEnd := time.Date(y, mo, d+1, 0, 0, 0, 0, now.Location())
	weekStart := dayEnd.Add(-week)

	for _, tx := range distributions {
		if tx.Kind != domain.KindDistribution {
			continue
		}
		count++
		sum += tx.TotalWeight

		ts := tx.Timestamp.In(now.Location())
		if ty, tm, td := ts.Date(); ty == y && tm == mo && td == d {
			m.DistributedToday += tx.TotalWeight
			m.ClientsServedToday += tx.ClientsServed
		}
		if !ts.Before(weekStart) && ts.Before(dayEnd) {
			m.DistributedThisWeek += tx.TotalWeight
		}
	}

	if count > 0 {
		m.AvgDistributionSize = sum / float64(count)
	}

	return m
}
