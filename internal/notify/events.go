package notify

// Recipient selects the delivery channel for an outbound notification.
type Recipient string

const (
	RecipientUser         Recipient = "user"
	RecipientAdminChannel Recipient = "admin-channel"
)

// Event kinds carried on the notifications topic.
const (
	KindBookingCreated   = "booking.created"
	KindStatusChanged    = "booking.status_changed"
	KindBookingCancelled = "booking.cancelled"
	KindInvoiceSent      = "booking.invoice"
	KindPaymentConfirmed = "booking.payment_confirmed"
	KindReviewRequested  = "booking.review_requested"
	KindDailyReport      = "report.daily"
)

// Event is one outbound message. It is enqueued after a successful commit
// and delivered at-least-once by the notifier worker; delivery failure never
// affects the state change that produced it.
type Event struct {
	BookingID string    `json:"booking_id,omitempty"`
	Kind      string    `json:"kind"`
	Recipient Recipient `json:"recipient"`
	Identity  string    `json:"identity,omitempty"`
	Text      string    `json:"text"`
}
