package model

import (
	"time"
)

// GeoPoint is a latitude/longitude pair. Stored structured, never as a
// free-form string.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" bson:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" bson:"longitude" validate:"min=-180,max=180"`
}

type PickupInfo struct {
	Name     string    `json:"name" bson:"name"`
	Address  string    `json:"address" bson:"address" validate:"required"`
	DateTime time.Time `json:"date_time" bson:"date_time" validate:"required"`
	LatLng   GeoPoint  `json:"latlng" bson:"latlng"`
}

type DropoffInfo struct {
	Address string   `json:"address" bson:"address" validate:"required"`
	LatLng  GeoPoint `json:"latlng" bson:"latlng"`
}

type CustomerInfo struct {
	Name  string `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Phone string `json:"phone" bson:"phone" validate:"required,phone"`
	Email string `json:"email" bson:"email" validate:"required,email"`
}

// UserInfo is the messaging-platform profile captured at booking time. It
// only feeds the customer record; the booking itself never reads it back.
type UserInfo struct {
	DisplayName string `json:"display_name,omitempty" bson:"display_name,omitempty" validate:"max=100"`
	PictureURL  string `json:"picture_url,omitempty" bson:"picture_url,omitempty" validate:"omitempty,url"`
}

type TripDetails struct {
	Passengers  int     `json:"passengers" bson:"passengers" validate:"required,min=1,max=50"`
	Bags        int     `json:"bags" bson:"bags" validate:"min=0"`
	RentalHours float64 `json:"rental_hours" bson:"rental_hours" validate:"required,gt=0"`
	Note        string  `json:"note,omitempty" bson:"note,omitempty" validate:"max=500"`
}

type PaymentInfo struct {
	PricePerHour  float64       `json:"price_per_hour" bson:"price_per_hour" validate:"required,gt=0"`
	OvertimeRate  float64       `json:"overtime_rate" bson:"overtime_rate" validate:"min=0"`
	TotalPrice    float64       `json:"total_price" bson:"total_price"`
	PaymentStatus PaymentStatus `json:"payment_status" bson:"payment_status"`
	PaidAt        *time.Time    `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
}

// VehicleInfo is a display snapshot taken at creation; the vehicle record
// itself may change later.
type VehicleInfo struct {
	Brand string `json:"brand" bson:"brand"`
	Model string `json:"model" bson:"model"`
}

type StatusChange struct {
	Status    BookingStatus `json:"status" bson:"status"`
	Note      string        `json:"note" bson:"note"`
	Timestamp time.Time     `json:"timestamp" bson:"timestamp"`
}

type CancellationInfo struct {
	CancelledBy Actor     `json:"cancelled_by" bson:"cancelled_by"`
	Reason      string    `json:"reason" bson:"reason"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
}

type ReviewInfo struct {
	Submitted   bool       `json:"submitted" bson:"submitted"`
	Rating      int        `json:"rating,omitempty" bson:"rating,omitempty"`
	Comment     string     `json:"comment,omitempty" bson:"comment,omitempty"`
	RequestedAt *time.Time `json:"requested_at,omitempty" bson:"requested_at,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty" bson:"submitted_at,omitempty"`
}

// Booking is the reservation record. It is created once in pending, mutated
// in place by authorized actors and never hard-deleted; statusHistory only
// grows.
type Booking struct {
	ID            string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	VehicleID     string            `json:"vehicle_id" bson:"vehicle_id" validate:"required"`
	VehicleInfo   VehicleInfo       `json:"vehicle_info" bson:"vehicle_info"`
	DriverID      string            `json:"driver_id,omitempty" bson:"driver_id,omitempty"`
	CustomerID    string            `json:"customer_id" bson:"customer_id" validate:"required"`
	UserInfo      UserInfo          `json:"user_info,omitempty" bson:"user_info,omitempty"`
	Status        BookingStatus     `json:"status" bson:"status"`
	PickupInfo    PickupInfo        `json:"pickup_info" bson:"pickup_info"`
	DropoffInfo   DropoffInfo       `json:"dropoff_info" bson:"dropoff_info"`
	CustomerInfo  CustomerInfo      `json:"customer_info" bson:"customer_info"`
	TripDetails   TripDetails       `json:"trip_details" bson:"trip_details"`
	PaymentInfo   PaymentInfo       `json:"payment_info" bson:"payment_info"`
	StatusHistory []StatusChange    `json:"status_history" bson:"status_history"`
	Cancellation  *CancellationInfo `json:"cancellation_info,omitempty" bson:"cancellation_info,omitempty"`
	ReviewInfo    ReviewInfo        `json:"review_info" bson:"review_info"`
	CreatedAt     time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" bson:"updated_at"`
}

// Interval returns the half-open occupation window [start, end).
func (b *Booking) Interval() (start, end time.Time) {
	start = b.PickupInfo.DateTime
	end = start.Add(time.Duration(b.TripDetails.RentalHours * float64(time.Hour)))
	return start, end
}

// Overlaps reports strict overlap of two half-open intervals. Touching
// endpoints do not overlap.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}
