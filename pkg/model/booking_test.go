package model

import (
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2024, 1, 1, hour, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		s1   time.Time
		e1   time.Time
		s2   time.Time
		e2   time.Time
		want bool
	}{
		{"identical", at(10), at(12), at(10), at(12), true},
		{"contained", at(10), at(14), at(11), at(12), true},
		{"partial front", at(9), at(11), at(10), at(12), true},
		{"partial back", at(11), at(13), at(10), at(12), true},
		{"disjoint before", at(7), at(9), at(10), at(12), false},
		{"disjoint after", at(13), at(15), at(10), at(12), false},
		{"touching end to start", at(12), at(14), at(10), at(12), false},
		{"touching start to end", at(8), at(10), at(10), at(12), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Errorf("Overlaps(%s) = %v, want %v", tt.name, got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.s2, tt.e2, tt.s1, tt.e1); got != tt.want {
				t.Errorf("Overlaps reversed (%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestBooking_Interval(t *testing.T) {
	b := &Booking{
		PickupInfo: PickupInfo{
			DateTime: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		TripDetails: TripDetails{RentalHours: 2.5},
	}

	start, end := b.Interval()
	if !start.Equal(b.PickupInfo.DateTime) {
		t.Errorf("expected start %s, got %s", b.PickupInfo.DateTime, start)
	}
	want := time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)
	if !end.Equal(want) {
		t.Errorf("expected end %s, got %s", want, end)
	}
}
