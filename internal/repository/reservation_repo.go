package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"parkhaus/internal/db"
	"time"

	"github.com/lib/pq"
)

// ErrSlotWindowTaken marks a hit on the reservations_no_overlap exclusion
// constraint.
var ErrSlotWindowTaken = errors.New("slot already reserved for an overlapping window")

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(database *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: database}
}

const reservationColumns = `id, slot_id, driver_id, start_time, end_time, cancelled_at, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*db.Reservation, error) {
	var res db.Reservation
	var cancelled sql.NullTime
	err := row.Scan(&res.ID, &res.SlotID, &res.DriverID, &res.StartTime, &res.EndTime, &cancelled, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if cancelled.Valid {
		t := cancelled.Time
		res.CancelledAt = &t
	}
	return &res, nil
}

func (r *ReservationRepository) Create(res *db.Reservation) error {
	query := `
		INSERT INTO reservations (id, slot_id, driver_id, start_time, end_time, cancelled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULL, $6, $7)`
	_, err := r.DB.Exec(query, res.ID, res.SlotID, res.DriverID, res.StartTime, res.EndTime, res.CreatedAt, res.UpdatedAt)
	if err != nil {
		if isExclusionViolation(err) {
			return ErrSlotWindowTaken
		}
		return fmt.Errorf("error inserting reservation: %w", err)
	}
	return nil
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "exclusion_violation"
}

func (r *ReservationRepository) GetByID(id string) (*db.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying reservation: %w", err)
	}
	return res, nil
}

func (r *ReservationRepository) ListActiveOverlapping(slotID string, start, end time.Time, excludeID string) ([]db.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE slot_id = $1
		  AND cancelled_at IS NULL
		  AND start_time < $3
		  AND end_time > $2
		  AND ($4 = '' OR id <> $4)
		ORDER BY start_time`
	rows, err := r.DB.Query(query, slotID, start, end, excludeID)
	if err != nil {
		return nil, fmt.Errorf("error querying overlapping reservations: %w", err)
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *ReservationRepository) NextActiveForSlot(slotID string, now time.Time) (*db.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE slot_id = $1 AND cancelled_at IS NULL AND end_time > $2
		ORDER BY start_time
		LIMIT 1`
	res, err := scanReservation(r.DB.QueryRow(query, slotID, now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying next reservation for slot: %w", err)
	}
	return res, nil
}

func (r *ReservationRepository) SetCancelledAt(id string, cancelledAt *time.Time) error {
	query := `UPDATE reservations SET cancelled_at = $2, updated_at = NOW() WHERE id = $1`
	var arg sql.NullTime
	if cancelledAt != nil {
		arg = sql.NullTime{Time: *cancelledAt, Valid: true}
	}
	_, err := r.DB.Exec(query, id, arg)
	if err != nil {
		if isExclusionViolation(err) {
			return ErrSlotWindowTaken
		}
		return fmt.Errorf("error updating cancelled_at: %w", err)
	}
	return nil
}

func (r *ReservationRepository) UpdateEndTime(id string, end time.Time) error {
	query := `UPDATE reservations SET end_time = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.DB.Exec(query, id, end)
	if err != nil {
		if isExclusionViolation(err) {
			return ErrSlotWindowTaken
		}
		return fmt.Errorf("error updating end_time: %w", err)
	}
	return nil
}

func (r *ReservationRepository) ListActiveByDriver(driverID string, now time.Time) ([]db.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE driver_id = $1 AND cancelled_at IS NULL AND end_time > $2
		ORDER BY start_time`
	rows, err := r.DB.Query(query, driverID, now)
	if err != nil {
		return nil, fmt.Errorf("error querying driver reservations: %w", err)
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *ReservationRepository) ListByAdminHouses(adminID string) ([]db.Reservation, error) {
	query := `
		SELECT r.id, r.slot_id, r.driver_id, r.start_time, r.end_time, r.cancelled_at, r.created_at, r.updated_at
		FROM reservations r
		JOIN parking_slots s ON s.id = r.slot_id
		JOIN parking_houses h ON h.id = s.house_id
		WHERE h.admin_id = $1
		ORDER BY r.start_time DESC`
	rows, err := r.DB.Query(query, adminID)
	if err != nil {
		return nil, fmt.Errorf("error querying admin reservations: %w", err)
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *ReservationRepository) ListByHouseOverlapping(houseID string, start, end time.Time) ([]db.Reservation, error) {
	query := `
		SELECT r.id, r.slot_id, r.driver_id, r.start_time, r.end_time, r.cancelled_at, r.created_at, r.updated_at
		FROM reservations r
		JOIN parking_slots s ON s.id = r.slot_id
		WHERE s.house_id = $1
		  AND r.start_time <= $3
		  AND r.end_time >= $2
		ORDER BY r.start_time`
	rows, err := r.DB.Query(query, houseID, start, end)
	if err != nil {
		return nil, fmt.Errorf("error querying house reservations: %w", err)
	}
	defer rows.Close()
	return collectReservations(rows)
}

// CountOccupiedSlots counts slots of the house with a non-cancelled
// reservation covering the given instant. The no-overlap invariant keeps
// one active reservation per slot at any instant, so counting rows counts
// slots.
func (r *ReservationRepository) CountOccupiedSlots(houseID string, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reservations r
		JOIN parking_slots s ON s.id = r.slot_id
		WHERE s.house_id = $1
		  AND r.cancelled_at IS NULL
		  AND r.start_time <= $2
		  AND r.end_time > $2`
	var count int
	if err := r.DB.QueryRow(query, houseID, now).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting occupied slots: %w", err)
	}
	return count, nil
}

func collectReservations(rows *sql.Rows) ([]db.Reservation, error) {
	var reservations []db.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning reservation row: %w", err)
		}
		reservations = append(reservations, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating reservation rows: %w", err)
	}
	return reservations, nil
}
