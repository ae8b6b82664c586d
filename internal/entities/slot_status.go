package entities

import "time"

const (
	SlotStateFreeNow = "free-now"
	SlotStateBusy    = "busy"
)

// SlotStatus is the point-in-time occupancy projection for one slot.
// FreeUntil is nil when the slot is indefinitely free.
type SlotStatus struct {
	State     string     `json:"state"`
	FreeUntil *time.Time `json:"free_until,omitempty"`
	FreeFrom  *time.Time `json:"free_from,omitempty"`
}

type SlotWithStatus struct {
	ID     string     `json:"id"`
	Label  string     `json:"label"`
	Status SlotStatus `json:"status"`
}

type HouseSlotsResponse struct {
	House HouseResponse    `json:"parking_house"`
	Slots []SlotWithStatus `json:"slots"`
}
