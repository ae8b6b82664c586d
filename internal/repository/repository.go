package repository

import (
	"parkhaus/internal/db"
	"time"
)

// ReservationStore is the persistence surface the scheduler and the
// read-side resolvers need. Lookups return (nil, nil) when no row matches.
type ReservationStore interface {
	Create(res *db.Reservation) error
	GetByID(id string) (*db.Reservation, error)
	// ListActiveOverlapping returns non-cancelled reservations on the slot
	// whose [start, end) window intersects the given one. excludeID may be
	// empty; when set, that reservation is left out (restore, prolong).
	ListActiveOverlapping(slotID string, start, end time.Time, excludeID string) ([]db.Reservation, error)
	// NextActiveForSlot returns the earliest non-cancelled reservation on
	// the slot that has not ended at the given instant.
	NextActiveForSlot(slotID string, now time.Time) (*db.Reservation, error)
	SetCancelledAt(id string, cancelledAt *time.Time) error
	UpdateEndTime(id string, end time.Time) error
	ListActiveByDriver(driverID string, now time.Time) ([]db.Reservation, error)
	ListByAdminHouses(adminID string) ([]db.Reservation, error)
	// ListByHouseOverlapping returns every reservation (cancelled included)
	// on the house's slots touching the closed range [start, end].
	ListByHouseOverlapping(houseID string, start, end time.Time) ([]db.Reservation, error)
	CountOccupiedSlots(houseID string, now time.Time) (int, error)
}

// HouseStore covers parking houses and their slots. Slots are owned by
// their house; deleting a house cascades in the schema.
type HouseStore interface {
	CreateHouse(h *db.ParkingHouse) error
	GetHouse(id string) (*db.ParkingHouse, error)
	ListHouses() ([]db.ParkingHouse, error)
	UpdateHouse(h *db.ParkingHouse) error
	DeleteHouse(id string) error
	CountSlots(houseID string) (int, error)
	CreateSlots(slots []db.ParkingSlot) error
	// DeleteNewestSlots removes the n most recently created slots so the
	// creation-order labels of the remaining ones stay stable.
	DeleteNewestSlots(houseID string, n int) error
	ListSlots(houseID string) ([]db.ParkingSlot, error)
	GetSlot(id string) (*db.ParkingSlot, error)
	// GetHouseForSlot resolves the slot's owning house, for ownership checks.
	GetHouseForSlot(slotID string) (*db.ParkingHouse, error)
}

// AccountStore holds driver and admin identities.
type AccountStore interface {
	CreateAdmin(a *db.Admin) error
	CreateDriver(d *db.Driver) error
	GetAdminByEmail(email string) (*db.Admin, error)
	GetDriverByEmail(email string) (*db.Driver, error)
	GetAdmin(id string) (*db.Admin, error)
	GetDriver(id string) (*db.Driver, error)
}
