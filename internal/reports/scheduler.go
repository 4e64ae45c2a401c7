package reports

import (
	"context"
	"fmt"
	"time"

	"fleetbook/internal/notify"
	"fleetbook/pkg/config"
	"fleetbook/pkg/logger"
)

const dateLayout = "2006-01-02"

// Scheduler sends the daily summary to the admin channel once per local day,
// at or after the configured send time. Every failure is logged and retried
// on the next tick; a broken report never takes the process down.
type Scheduler struct {
	aggregator *Aggregator
	settings   SettingsRepository
	publisher  notify.Publisher
	location   *time.Location
	sendTime   string
	interval   time.Duration
	log        *logger.Logger
}

func NewScheduler(aggregator *Aggregator, settings SettingsRepository, publisher notify.Publisher, cfg *config.Config) (*Scheduler, error) {
	location, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid report timezone %q: %w", cfg.ReportTimezone, err)
	}
	return &Scheduler{
		aggregator: aggregator,
		settings:   settings,
		publisher:  publisher,
		location:   location,
		sendTime:   cfg.ReportSendTime,
		interval:   time.Minute,
		log:        cfg.Log,
	}, nil
}

// Run blocks until the context is cancelled, checking once per tick whether
// today's report is due.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("Report scheduler started", "send_time", s.sendTime, "timezone", s.location.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("Report scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	now := time.Now().In(s.location)
	if now.Format("15:04") < s.sendTime {
		return
	}

	today := now.Format(dateLayout)
	lastSent, err := s.settings.LastReportDate(ctx)
	if err != nil {
		s.log.Error("Failed to check last report date", "error", err)
		return
	}
	if lastSent == today {
		return
	}

	s.sendReport(ctx, now)
	if err := s.settings.MarkReportSent(ctx, today); err != nil {
		s.log.Error("Failed to record report date", "date", today, "error", err)
	}
}

func (s *Scheduler) sendReport(ctx context.Context, now time.Time) {
	summary := s.aggregator.DailySummary(ctx, now)

	s.publisher.Notify(ctx, notify.Event{
		Kind:      notify.KindDailyReport,
		Recipient: notify.RecipientAdminChannel,
		Text:      notify.DailyReportText(summary.Date, summary.TotalBookings, summary.PaidRevenue),
	})

	s.log.Info("Daily report sent",
		"date", summary.Date.Format(dateLayout),
		"total_bookings", summary.TotalBookings,
		"paid_revenue", summary.PaidRevenue,
	)
}
