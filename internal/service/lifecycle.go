package service

import (
	"parkhaus/internal/db"
	"parkhaus/internal/entities"
	"time"
)

// ResolvePhase computes the lifecycle view of a reservation at the given
// instant. Cancellation wins over everything; otherwise the phase follows
// the clock through active, grace and expired. The result is derived on
// every read, never stored.
func ResolvePhase(res *db.Reservation, now time.Time, graceMinutes, endingSoonMinutes int) entities.LifecycleView {
	graceEndsAt := res.EndTime.Add(time.Duration(graceMinutes) * time.Minute)

	view := entities.LifecycleView{GraceEndsAt: graceEndsAt}
	switch {
	case !res.IsActive():
		view.Phase = entities.PhaseCancelled
	case now.Before(res.EndTime):
		view.Phase = entities.PhaseActive
	case now.Before(graceEndsAt):
		view.Phase = entities.PhaseGrace
	default:
		view.Phase = entities.PhaseExpired
	}

	if view.Phase == entities.PhaseActive {
		view.EndingSoon = res.EndTime.Sub(now) <= time.Duration(endingSoonMinutes)*time.Minute
	}
	return view
}
