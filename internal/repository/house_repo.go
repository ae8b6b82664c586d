package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"parkhaus/internal/db"

	"github.com/lib/pq"
)

// ErrDuplicateAddress marks a unique-constraint hit on parking_houses.address.
var ErrDuplicateAddress = errors.New("parking house address already in use")

type HouseRepository struct {
	DB *sql.DB
}

func NewHouseRepository(database *sql.DB) *HouseRepository {
	return &HouseRepository{DB: database}
}

func (r *HouseRepository) CreateHouse(h *db.ParkingHouse) error {
	query := `
		INSERT INTO parking_houses (id, admin_id, address, price_per_hour, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.Exec(query, h.ID, h.AdminID, h.Address, h.PricePerHour, h.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateAddress
		}
		return fmt.Errorf("error inserting parking house: %w", err)
	}
	return nil
}

func (r *HouseRepository) GetHouse(id string) (*db.ParkingHouse, error) {
	var h db.ParkingHouse
	query := `SELECT id, admin_id, address, price_per_hour, created_at FROM parking_houses WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&h.ID, &h.AdminID, &h.Address, &h.PricePerHour, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying parking house: %w", err)
	}
	return &h, nil
}

func (r *HouseRepository) ListHouses() ([]db.ParkingHouse, error) {
	query := `SELECT id, admin_id, address, price_per_hour, created_at FROM parking_houses ORDER BY created_at DESC`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying parking houses: %w", err)
	}
	defer rows.Close()

	var houses []db.ParkingHouse
	for rows.Next() {
		var h db.ParkingHouse
		if err := rows.Scan(&h.ID, &h.AdminID, &h.Address, &h.PricePerHour, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning parking house: %w", err)
		}
		houses = append(houses, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating parking houses: %w", err)
	}
	return houses, nil
}

func (r *HouseRepository) UpdateHouse(h *db.ParkingHouse) error {
	query := `UPDATE parking_houses SET address = $2, price_per_hour = $3 WHERE id = $1`
	_, err := r.DB.Exec(query, h.ID, h.Address, h.PricePerHour)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateAddress
		}
		return fmt.Errorf("error updating parking house: %w", err)
	}
	return nil
}

// DeleteHouse removes the house; slots and their reservations go with it
// through ON DELETE CASCADE.
func (r *HouseRepository) DeleteHouse(id string) error {
	_, err := r.DB.Exec(`DELETE FROM parking_houses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting parking house: %w", err)
	}
	return nil
}

func (r *HouseRepository) CountSlots(houseID string) (int, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM parking_slots WHERE house_id = $1`, houseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting slots: %w", err)
	}
	return count, nil
}

func (r *HouseRepository) CreateSlots(slots []db.ParkingSlot) error {
	if len(slots) == 0 {
		return nil
	}
	ids := make([]string, len(slots))
	houseIDs := make([]string, len(slots))
	for i, s := range slots {
		ids[i] = s.ID
		houseIDs[i] = s.HouseID
	}
	query := `
		INSERT INTO parking_slots (id, house_id, created_at)
		SELECT unnest($1::text[]), unnest($2::text[]), NOW()`
	_, err := r.DB.Exec(query, pq.Array(ids), pq.Array(houseIDs))
	if err != nil {
		return fmt.Errorf("error inserting slots: %w", err)
	}
	return nil
}

func (r *HouseRepository) DeleteNewestSlots(houseID string, n int) error {
	if n <= 0 {
		return nil
	}
	query := `
		DELETE FROM parking_slots
		WHERE id IN (
			SELECT id FROM parking_slots
			WHERE house_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		)`
	_, err := r.DB.Exec(query, houseID, n)
	if err != nil {
		return fmt.Errorf("error deleting slots: %w", err)
	}
	return nil
}

func (r *HouseRepository) ListSlots(houseID string) ([]db.ParkingSlot, error) {
	query := `SELECT id, house_id, created_at FROM parking_slots WHERE house_id = $1 ORDER BY created_at, id`
	rows, err := r.DB.Query(query, houseID)
	if err != nil {
		return nil, fmt.Errorf("error querying slots: %w", err)
	}
	defer rows.Close()

	var slots []db.ParkingSlot
	for rows.Next() {
		var s db.ParkingSlot
		if err := rows.Scan(&s.ID, &s.HouseID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning slot: %w", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating slots: %w", err)
	}
	return slots, nil
}

func (r *HouseRepository) GetSlot(id string) (*db.ParkingSlot, error) {
	var s db.ParkingSlot
	err := r.DB.QueryRow(`SELECT id, house_id, created_at FROM parking_slots WHERE id = $1`, id).
		Scan(&s.ID, &s.HouseID, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying slot: %w", err)
	}
	return &s, nil
}

func (r *HouseRepository) GetHouseForSlot(slotID string) (*db.ParkingHouse, error) {
	var h db.ParkingHouse
	query := `
		SELECT h.id, h.admin_id, h.address, h.price_per_hour, h.created_at
		FROM parking_houses h
		JOIN parking_slots s ON s.house_id = h.id
		WHERE s.id = $1`
	err := r.DB.QueryRow(query, slotID).Scan(&h.ID, &h.AdminID, &h.Address, &h.PricePerHour, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying house for slot: %w", err)
	}
	return &h, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation"
}
