package entities

import "time"

const (
	PhaseActive    = "active"
	PhaseGrace     = "grace"
	PhaseExpired   = "expired"
	PhaseCancelled = "cancelled"
)

// LifecycleView is the derived state of a reservation at a given instant.
type LifecycleView struct {
	Phase       string    `json:"phase"`
	GraceEndsAt time.Time `json:"grace_ends_at"`
	EndingSoon  bool      `json:"ending_soon"`
}

type ReservationPhaseResponse struct {
	Reservation ReservationResponse `json:"reservation"`
	Lifecycle   LifecycleView       `json:"lifecycle"`
}
