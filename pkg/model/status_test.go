package model

import "testing"

func TestBookingStatus_Valid(t *testing.T) {
	for _, s := range []BookingStatus{
		StatusPending, StatusConfirmed, StatusAssigned, StatusStandby,
		StatusPickup, StatusCompleted, StatusNoShow, StatusCancelled,
	} {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if BookingStatus("parked").Valid() {
		t.Error("expected unknown status to be invalid")
	}
}

func TestBookingStatus_ActiveAndTerminal(t *testing.T) {
	active := map[BookingStatus]bool{
		StatusPending: true, StatusConfirmed: true, StatusAssigned: true,
		StatusStandby: true, StatusPickup: true,
	}
	terminal := map[BookingStatus]bool{
		StatusCompleted: true, StatusNoShow: true, StatusCancelled: true,
	}

	for _, s := range []BookingStatus{
		StatusPending, StatusConfirmed, StatusAssigned, StatusStandby,
		StatusPickup, StatusCompleted, StatusNoShow, StatusCancelled,
	} {
		if s.Active() != active[s] {
			t.Errorf("%s: Active() = %v, want %v", s, s.Active(), active[s])
		}
		if s.Terminal() != terminal[s] {
			t.Errorf("%s: Terminal() = %v, want %v", s, s.Terminal(), terminal[s])
		}
	}

	if len(ActiveStatuses) != 5 {
		t.Errorf("expected 5 active statuses, got %d", len(ActiveStatuses))
	}
}

func TestActor_Valid(t *testing.T) {
	for _, a := range []Actor{ActorCustomer, ActorAdmin, ActorDriver} {
		if !a.Valid() {
			t.Errorf("expected %s to be valid", a)
		}
	}
	if Actor("bot").Valid() {
		t.Error("expected unknown actor to be invalid")
	}
}
