package db

import "time"

type Admin struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Driver struct {
	ID           string
	Email        string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
}

type ParkingHouse struct {
	ID           string
	AdminID      string
	Address      string
	PricePerHour int
	CreatedAt    time.Time
}

type ParkingSlot struct {
	ID        string
	HouseID   string
	CreatedAt time.Time
}

type Reservation struct {
	ID          string
	SlotID      string
	DriverID    string
	StartTime   time.Time
	EndTime     time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive reports whether the reservation still counts against its slot.
// Cancellation is a soft delete, so the cancelled_at null check lives here
// and nowhere else on the Go side.
func (r *Reservation) IsActive() bool {
	return r.CancelledAt == nil
}
