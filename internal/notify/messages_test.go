package notify

import (
	"strings"
	"testing"

	"fleetbook/pkg/model"
)

func TestStatusChangedCustomerText(t *testing.T) {
	b := &model.Booking{}

	for _, status := range []model.BookingStatus{
		model.StatusStandby, model.StatusPickup, model.StatusCompleted, model.StatusNoShow,
	} {
		if StatusChangedCustomerText(b, status) == "" {
			t.Errorf("expected a message for %s", status)
		}
	}

	for _, status := range []model.BookingStatus{
		model.StatusPending, model.StatusConfirmed, model.StatusAssigned, model.StatusCancelled,
	} {
		if text := StatusChangedCustomerText(b, status); text != "" {
			t.Errorf("expected no message for %s, got %q", status, text)
		}
	}
}

func TestShortCode(t *testing.T) {
	if got := shortCode("64f0aabbccddeeff00112233"); got != "64F0AA" {
		t.Errorf("expected 64F0AA, got %s", got)
	}
	if got := shortCode("ab1"); got != "AB1" {
		t.Errorf("expected AB1, got %s", got)
	}
}

func TestCancelledByAdminCustomerText_CarriesReason(t *testing.T) {
	text := CancelledByAdminCustomerText("64f0aabbccddeeff00112233", "vehicle breakdown")
	if !strings.Contains(text, "vehicle breakdown") {
		t.Errorf("expected reason in message, got %q", text)
	}
	if !strings.Contains(text, "64F0AA") {
		t.Errorf("expected short booking code in message, got %q", text)
	}
}
