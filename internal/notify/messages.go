package notify

import (
	"fmt"
	"strings"
	"time"

	"fleetbook/pkg/model"
)

// shortCode is the human-facing booking reference used in messages.
func shortCode(bookingID string) string {
	if len(bookingID) <= 6 {
		return strings.ToUpper(bookingID)
	}
	return strings.ToUpper(bookingID[:6])
}

func BookingCreatedCustomerText(b *model.Booking) string {
	return fmt.Sprintf(
		"Your booking for %s %s is confirmed. An admin will review it and assign a driver shortly.",
		b.VehicleInfo.Brand, b.VehicleInfo.Model,
	)
}

func BookingCreatedAdminText(b *model.Booking) string {
	pickupName := b.PickupInfo.Name
	if pickupName == "" {
		pickupName = b.PickupInfo.Address
	}
	return fmt.Sprintf(
		"New booking!\n\nCustomer: %s\nVehicle: %s %s\nPickup: %s\nTime: %s\nPrice: %.2f",
		b.CustomerInfo.Name,
		b.VehicleInfo.Brand, b.VehicleInfo.Model,
		pickupName,
		b.PickupInfo.DateTime.Format(time.RFC1123),
		b.PaymentInfo.TotalPrice,
	)
}

// StatusChangedCustomerText returns the customer-facing message for a driver
// progress update, or "" when the status has no customer notification.
func StatusChangedCustomerText(b *model.Booking, newStatus model.BookingStatus) string {
	switch newStatus {
	case model.StatusStandby:
		return "Your driver has arrived at the pickup point. Please get ready."
	case model.StatusPickup:
		return "You are on board. Have a safe trip!"
	case model.StatusCompleted:
		return "You have arrived at your destination. Thank you for riding with us!"
	case model.StatusNoShow:
		return "The driver could not find you at the pickup point at the scheduled time. Please contact an admin if you have questions."
	}
	return ""
}

func ReviewRequestText(bookingID string) string {
	return fmt.Sprintf(
		"Please take a moment to review your trip so we can keep improving: /review/%s",
		bookingID,
	)
}

func CancelledByAdminCustomerText(bookingID, reason string) string {
	return fmt.Sprintf(
		"We are sorry, your booking %s was cancelled: %q\n\nPlease contact an admin for details.",
		shortCode(bookingID), reason,
	)
}

func CancelledByAdminDriverText(bookingID, reason string) string {
	return fmt.Sprintf(
		"Job #%s was cancelled by an admin.\nReason: %q\n\nYour status is back to available.",
		shortCode(bookingID), reason,
	)
}

func CancelledByCustomerAdminText(customerName, bookingID string) string {
	return fmt.Sprintf(
		"Booking cancelled by customer\n\nCustomer: %s\nBooking: %s",
		customerName, shortCode(bookingID),
	)
}

func InvoiceText(b *model.Booking) string {
	return fmt.Sprintf(
		"Dear %s,\n\nHere is the invoice for your trip.\nAmount due: %.2f\n\nPay here: /pay/%s",
		b.CustomerInfo.Name, b.PaymentInfo.TotalPrice, b.ID,
	)
}

func DailyReportText(date time.Time, bookingCount int, paidRevenue float64) string {
	return fmt.Sprintf(
		"Daily summary for %s\n\n- New bookings: %d\n- Paid revenue: %.2f",
		date.Format("2006-01-02"), bookingCount, paidRevenue,
	)
}
