package repository

import (
	"database/sql"
	"fmt"
	"time"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetReservationIDsPastGrace returns IDs of non-cancelled reservations whose
// grace window has ended at the given instant.
func (r *JobRepository) GetReservationIDsPastGrace(now time.Time, graceMinutes int) ([]string, error) {
	query := `
		SELECT id FROM reservations
		WHERE cancelled_at IS NULL
		  AND end_time + make_interval(mins => $2) < $1`
	rows, err := r.DB.Query(query, now, graceMinutes)
	if err != nil {
		return nil, fmt.Errorf("error querying reservations past grace: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning reservation ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

// DeleteCancelledBefore purges cancelled reservations whose cancellation is
// older than the cutoff. Returns the number of rows removed.
func (r *JobRepository) DeleteCancelledBefore(cutoff time.Time) (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM reservations WHERE cancelled_at IS NOT NULL AND cancelled_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("error purging cancelled reservations: %w", err)
	}
	return rowsAffected(result), nil
}

func rowsAffected(result sql.Result) int64 {
	n, err := result.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
