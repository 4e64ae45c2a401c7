package model

import "time"

// Customer is keyed by the messaging identity and merge-upserted on every
// booking creation: fields present in the update win, absent fields are left
// untouched. Customers hold no ownership over bookings; the booking carries
// the back-reference.
type Customer struct {
	ID           string    `json:"id" bson:"_id"`
	DisplayName  string    `json:"display_name,omitempty" bson:"display_name,omitempty"`
	Name         string    `json:"name,omitempty" bson:"name,omitempty"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Email        string    `json:"email,omitempty" bson:"email,omitempty"`
	PictureURL   string    `json:"picture_url,omitempty" bson:"picture_url,omitempty"`
	LastActivity time.Time `json:"last_activity" bson:"last_activity"`
}
