package model

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusAssigned  BookingStatus = "assigned"
	StatusStandby   BookingStatus = "stb"
	StatusPickup    BookingStatus = "pickup"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "noshow"
	StatusCancelled BookingStatus = "cancelled"
)

// ActiveStatuses are the states in which a booking occupies its vehicle.
// Only these participate in overlap admission checks.
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusAssigned,
	StatusStandby,
	StatusPickup,
}

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusAssigned, StatusStandby,
		StatusPickup, StatusCompleted, StatusNoShow, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is defined from s.
func (s BookingStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusNoShow, StatusCancelled:
		return true
	}
	return false
}

func (s BookingStatus) Active() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// PaymentStatus advances unpaid -> invoiced -> paid and never regresses.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentInvoiced PaymentStatus = "invoiced"
	PaymentPaid     PaymentStatus = "paid"
)

// Actor identifies who is requesting a lifecycle change.
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorAdmin    Actor = "admin"
	ActorDriver   Actor = "driver"
)

func (a Actor) Valid() bool {
	switch a {
	case ActorCustomer, ActorAdmin, ActorDriver:
		return true
	}
	return false
}

// DriverStatus tracks whether a driver is free to take a job.
type DriverStatus string

const (
	DriverAvailable DriverStatus = "available"
	DriverBusy      DriverStatus = "busy"
)
