package service

import (
	"parkhaus/internal/db"
	"parkhaus/internal/entities"
	"time"
)

// resolveSlotStatus turns the slot's earliest still-relevant reservation
// into the occupancy projection. next is the earliest non-cancelled
// reservation with end > now, or nil when there is none.
func resolveSlotStatus(next *db.Reservation, now time.Time) entities.SlotStatus {
	if next == nil {
		// Indefinitely free.
		return entities.SlotStatus{State: entities.SlotStateFreeNow}
	}
	if !next.StartTime.After(now) {
		freeFrom := next.EndTime
		return entities.SlotStatus{State: entities.SlotStateBusy, FreeFrom: &freeFrom}
	}
	freeUntil := next.StartTime
	return entities.SlotStatus{State: entities.SlotStateFreeNow, FreeUntil: &freeUntil}
}
