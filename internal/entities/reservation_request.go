package entities

import "time"

type CreateReservationRequest struct {
	SlotID    string    `json:"slot_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type ProlongReservationRequest struct {
	Minutes int `json:"minutes"`
}

type ReservationResponse struct {
	ID          string     `json:"id"`
	SlotID      string     `json:"slot_id"`
	DriverID    string     `json:"driver_id"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
