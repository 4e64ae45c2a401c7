package reports

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fleetbook/internal/notify"
	"fleetbook/pkg/logger"
	"fleetbook/pkg/model"
)

type mockSettings struct {
	lastDate string
	marked   []string
	loadErr  error
}

func (m *mockSettings) LastReportDate(context.Context) (string, error) {
	return m.lastDate, m.loadErr
}

func (m *mockSettings) MarkReportSent(_ context.Context, date string) error {
	m.marked = append(m.marked, date)
	m.lastDate = date
	return nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *capturePublisher) Notify(_ context.Context, event notify.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) Events() []notify.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notify.Event, len(p.events))
	copy(out, p.events)
	return out
}

// Send time 00:00 makes every tick due, so the once-per-day gate is the only
// thing under test.
func newTestScheduler(settings SettingsRepository, publisher notify.Publisher, repo *mockBookingRepo) *Scheduler {
	return &Scheduler{
		aggregator: newTestAggregator(repo),
		settings:   settings,
		publisher:  publisher,
		location:   time.UTC,
		sendTime:   "00:00",
		interval:   time.Minute,
		log:        logger.Discard(),
	}
}

func TestTick_SendsOncePerDay(t *testing.T) {
	settings := &mockSettings{}
	publisher := &capturePublisher{}
	repo := &mockBookingRepo{
		findCreatedBetweenFunc: func(_ context.Context, _, _ time.Time) ([]*model.Booking, error) {
			return []*model.Booking{paid(1000)}, nil
		},
	}
	s := newTestScheduler(settings, publisher, repo)

	s.tick(context.Background())
	s.tick(context.Background())
	s.tick(context.Background())

	events := publisher.Events()
	if len(events) != 1 {
		t.Fatalf("expected exactly one report, got %d", len(events))
	}
	if events[0].Kind != notify.KindDailyReport || events[0].Recipient != notify.RecipientAdminChannel {
		t.Errorf("unexpected report event: %+v", events[0])
	}
	if len(settings.marked) != 1 {
		t.Errorf("expected one marked date, got %v", settings.marked)
	}
}

func TestTick_StoreFailureStillSendsEmptyReport(t *testing.T) {
	settings := &mockSettings{}
	publisher := &capturePublisher{}
	repo := &mockBookingRepo{
		findCreatedBetweenFunc: func(_ context.Context, _, _ time.Time) ([]*model.Booking, error) {
			return nil, errors.New("connection reset")
		},
	}
	s := newTestScheduler(settings, publisher, repo)

	s.tick(context.Background())

	events := publisher.Events()
	if len(events) != 1 {
		t.Fatalf("expected an empty report despite the store failure, got %d events", len(events))
	}
	if len(settings.marked) != 1 {
		t.Errorf("expected the empty report to count as sent, got %v", settings.marked)
	}
}

func TestTick_SettingsFailureRetriesNextTick(t *testing.T) {
	settings := &mockSettings{loadErr: errors.New("connection reset")}
	publisher := &capturePublisher{}
	s := newTestScheduler(settings, publisher, &mockBookingRepo{})

	s.tick(context.Background())
	if len(publisher.Events()) != 0 {
		t.Fatal("no report may go out when the sent-date check fails")
	}

	settings.loadErr = nil
	s.tick(context.Background())
	if len(publisher.Events()) != 1 {
		t.Fatalf("expected the report on the next tick, got %d", len(publisher.Events()))
	}
}

func TestTick_NotDueBeforeSendTime(t *testing.T) {
	settings := &mockSettings{}
	publisher := &capturePublisher{}
	s := newTestScheduler(settings, publisher, &mockBookingRepo{})
	s.sendTime = "23:59"

	s.tick(context.Background())
	if len(publisher.Events()) != 0 {
		t.Error("report must wait for the configured send time")
	}
}
