package model

import "time"

type Driver struct {
	ID          string       `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string       `json:"name" bson:"name"`
	Phone       string       `json:"phone,omitempty" bson:"phone,omitempty"`
	MessengerID string       `json:"messenger_id,omitempty" bson:"messenger_id,omitempty"`
	Status      DriverStatus `json:"status" bson:"status"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at"`
}
