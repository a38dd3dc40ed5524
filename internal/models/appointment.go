package models

import "time"

// Appointment is a calendar entry without a financial amount
type Appointment struct {
	ID          int64     `json:"id"`
	ProfileID   int64     `json:"profile_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	ClientID    *int64    `json:"client_id,omitempty"`
	Date        time.Time `json:"date"`
}
