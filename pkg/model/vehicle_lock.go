package model

import "time"

// VehicleLock is an advisory lock that serializes booking admission for one
// vehicle. Acquisition is a unique _id insert; a duplicate key means another
// request is mid-admission on the same vehicle.
type VehicleLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
