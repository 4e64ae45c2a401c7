package reports

import (
	"context"
	"time"

	"fleetbook/pkg/logger"
	"fleetbook/pkg/model"
)

// BookingSource is the slice of the booking repository the aggregator reads.
type BookingSource interface {
	FindCreatedBetween(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
}

// Summary is one day of booking activity. Revenue counts only bookings whose
// invoice was settled.
type Summary struct {
	Date          time.Time
	TotalBookings int
	ByStatus      map[model.BookingStatus]int
	PaidRevenue   float64
}

// Aggregator builds daily summaries from committed bookings. It only reads;
// no core invariant depends on it.
type Aggregator struct {
	repo BookingSource
	log  *logger.Logger
}

func NewAggregator(repo BookingSource, log *logger.Logger) *Aggregator {
	return &Aggregator{
		repo: repo,
		log:  log,
	}
}

// DailySummary aggregates all bookings created on the given local day.
// Reporting fails soft: a store error yields an empty summary, and a
// malformed booking is counted, logged and skipped for the revenue total.
func (a *Aggregator) DailySummary(ctx context.Context, day time.Time) *Summary {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	summary := &Summary{
		Date:     dayStart,
		ByStatus: make(map[model.BookingStatus]int),
	}

	bookings, err := a.repo.FindCreatedBetween(ctx, dayStart, dayEnd)
	if err != nil {
		a.log.Error("Failed to load bookings for daily report", "date", dayStart, "error", err)
		return summary
	}
	for _, b := range bookings {
		summary.TotalBookings++
		summary.ByStatus[b.Status]++

		if b.PaymentInfo.PaymentStatus != model.PaymentPaid {
			continue
		}
		if b.PaymentInfo.TotalPrice < 0 {
			a.log.Warn("Skipping booking with negative total price in revenue sum",
				"id", b.ID,
				"total_price", b.PaymentInfo.TotalPrice,
			)
			continue
		}
		summary.PaidRevenue += b.PaymentInfo.TotalPrice
	}

	return summary
}
