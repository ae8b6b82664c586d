package service

import (
	"fmt"
	"log"
	"parkhaus/internal/repository"
	"time"
)

type JobService struct {
	Repo          *repository.JobRepository
	GraceMinutes  int
	RetentionDays int
	now           func() time.Time
}

func NewJobService(repo *repository.JobRepository, graceMinutes, retentionDays int) *JobService {
	return &JobService{Repo: repo, GraceMinutes: graceMinutes, RetentionDays: retentionDays, now: time.Now}
}

// SweepExpired looks for reservations whose grace window has passed and
// logs them. Phase is derived on read, so nothing is written; the sweep
// exists for operational visibility.
func (s *JobService) SweepExpired() error {
	ids, err := s.Repo.GetReservationIDsPastGrace(s.now().UTC(), s.GraceMinutes)
	if err != nil {
		return fmt.Errorf("cron job: failed to get reservations past grace: %w", err)
	}
	if len(ids) == 0 {
		log.Println("Cron Job: No reservations newly past their grace window.")
		return nil
	}
	log.Printf("Cron Job: %d reservations past their grace window. IDs: %v", len(ids), ids)
	return nil
}

// PurgeCancelled deletes cancelled reservations older than the retention
// period.
func (s *JobService) PurgeCancelled() error {
	cutoff := s.now().UTC().AddDate(0, 0, -s.RetentionDays)
	deleted, err := s.Repo.DeleteCancelledBefore(cutoff)
	if err != nil {
		return fmt.Errorf("cron job: failed to purge cancelled reservations: %w", err)
	}
	if deleted > 0 {
		log.Printf("Cron Job: Purged %d cancelled reservations older than %s", deleted, cutoff.Format(time.RFC3339))
	}
	return nil
}
