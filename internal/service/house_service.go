package service

import (
	"parkhaus/internal/auth"
	"parkhaus/internal/db"
	"parkhaus/internal/entities"
	"parkhaus/internal/errors"
	"parkhaus/internal/repository"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type HouseService struct {
	Houses       repository.HouseStore
	Reservations repository.ReservationStore
	now          func() time.Time
}

func NewHouseService(houses repository.HouseStore, reservations repository.ReservationStore) *HouseService {
	return &HouseService{Houses: houses, Reservations: reservations, now: time.Now}
}

func (s *HouseService) SetClock(now func() time.Time) {
	s.now = now
}

// CreateHouse registers a parking house for the admin and creates its
// slots in bulk.
func (s *HouseService) CreateHouse(actor auth.Actor, req entities.HouseRequest) (*entities.HouseResponse, error) {
	if err := validateHouseRequest(req); err != nil {
		return nil, err
	}

	house := &db.ParkingHouse{
		ID:           uuid.NewString(),
		AdminID:      actor.ID,
		Address:      strings.TrimSpace(req.Address),
		PricePerHour: req.PricePerHour,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.Houses.CreateHouse(house); err != nil {
		if err == repository.ErrDuplicateAddress {
			return nil, errors.Conflict("parking house with this address already exists")
		}
		return nil, errors.Internal(err.Error())
	}

	if err := s.Houses.CreateSlots(newSlots(house.ID, req.Capacity)); err != nil {
		return nil, errors.Internal(err.Error())
	}

	return &entities.HouseResponse{
		ID:           house.ID,
		Address:      house.Address,
		Capacity:     req.Capacity,
		PricePerHour: house.PricePerHour,
	}, nil
}

func (s *HouseService) GetHouse(houseID string) (*entities.HouseResponse, error) {
	house, err := s.requireHouse(houseID)
	if err != nil {
		return nil, err
	}
	capacity, err := s.Houses.CountSlots(houseID)
	if err != nil {
		return nil, errors.Internal(err.Error())
	}
	return &entities.HouseResponse{
		ID:           house.ID,
		Address:      house.Address,
		Capacity:     capacity,
		PricePerHour: house.PricePerHour,
	}, nil
}

func (s *HouseService) ListHouses() ([]entities.HouseResponse, error) {
	houses, err := s.Houses.ListHouses()
	if err != nil {
		return nil, errors.Internal(err.Error())
	}
	out := make([]entities.HouseResponse, 0, len(houses))
	for _, h := range houses {
		capacity, err := s.Houses.CountSlots(h.ID)
		if err != nil {
			return nil, errors.Internal(err.Error())
		}
		out = append(out, entities.HouseResponse{
			ID:           h.ID,
			Address:      h.Address,
			Capacity:     capacity,
			PricePerHour: h.PricePerHour,
		})
	}
	return out, nil
}

// UpdateHouse changes address and price and grows or shrinks the slot set
// to match the requested capacity. Shrinking removes the newest slots so
// surviving labels keep their positions.
func (s *HouseService) UpdateHouse(actor auth.Actor, houseID string, req entities.HouseRequest) (*entities.HouseResponse, error) {
	if err := validateHouseRequest(req); err != nil {
		return nil, err
	}

	house, err := s.requireOwnedHouse(actor, houseID)
	if err != nil {
		return nil, err
	}

	house.Address = strings.TrimSpace(req.Address)
	house.PricePerHour = req.PricePerHour
	if err := s.Houses.UpdateHouse(house); err != nil {
		if err == repository.ErrDuplicateAddress {
			return nil, errors.Conflict("parking house with this address already exists")
		}
		return nil, errors.Internal(err.Error())
	}

	current, err := s.Houses.CountSlots(houseID)
	if err != nil {
		return nil, errors.Internal(err.Error())
	}
	switch {
	case req.Capacity > current:
		if err := s.Houses.CreateSlots(newSlots(houseID, req.Capacity-current)); err != nil {
			return nil, errors.Internal(err.Error())
		}
	case req.Capacity < current:
		if err := s.Houses.DeleteNewestSlots(houseID, current-req.Capacity); err != nil {
			return nil, errors.Internal(err.Error())
		}
	}

	return &entities.HouseResponse{
		ID:           house.ID,
		Address:      house.Address,
		Capacity:     req.Capacity,
		PricePerHour: house.PricePerHour,
	}, nil
}

// DeleteHouse removes the house with its slots and their reservations.
func (s *HouseService) DeleteHouse(actor auth.Actor, houseID string) error {
	if _, err := s.requireOwnedHouse(actor, houseID); err != nil {
		return err
	}
	if err := s.Houses.DeleteHouse(houseID); err != nil {
		return errors.Internal(err.Error())
	}
	return nil
}

// ListSlotsWithStatus returns the house's slots in creation order with
// 1-based labels and their occupancy status at the given instant.
func (s *HouseService) ListSlotsWithStatus(houseID string, now time.Time) (*entities.HouseSlotsResponse, error) {
	house, err := s.requireHouse(houseID)
	if err != nil {
		return nil, err
	}

	slots, err := s.Houses.ListSlots(houseID)
	if err != nil {
		return nil, errors.Internal(err.Error())
	}

	out := &entities.HouseSlotsResponse{
		House: entities.HouseResponse{
			ID:           house.ID,
			Address:      house.Address,
			Capacity:     len(slots),
			PricePerHour: house.PricePerHour,
		},
		Slots: make([]entities.SlotWithStatus, 0, len(slots)),
	}
	for i, slot := range slots {
		next, err := s.Reservations.NextActiveForSlot(slot.ID, now)
		if err != nil {
			return nil, errors.Internal(err.Error())
		}
		out.Slots = append(out.Slots, entities.SlotWithStatus{
			ID:     slot.ID,
			Label:  strconv.Itoa(i + 1),
			Status: resolveSlotStatus(next, now),
		})
	}
	return out, nil
}

// Availability reports total and currently free slot counts per house.
func (s *HouseService) Availability() ([]entities.HouseAvailability, error) {
	houses, err := s.Houses.ListHouses()
	if err != nil {
		return nil, errors.Internal(err.Error())
	}

	now := s.now().UTC()
	out := make([]entities.HouseAvailability, 0, len(houses))
	for _, h := range houses {
		total, err := s.Houses.CountSlots(h.ID)
		if err != nil {
			return nil, errors.Internal(err.Error())
		}
		occupied, err := s.Reservations.CountOccupiedSlots(h.ID, now)
		if err != nil {
			return nil, errors.Internal(err.Error())
		}
		out = append(out, entities.HouseAvailability{
			ID:         h.ID,
			TotalSlots: total,
			FreeSlots:  total - occupied,
		})
	}
	return out, nil
}

func (s *HouseService) requireHouse(houseID string) (*db.ParkingHouse, error) {
	house, err := s.Houses.GetHouse(houseID)
	if err != nil {
		return nil, errors.Internal(err.Error())
	}
	if house == nil {
		return nil, errors.NotFound("parking house not found")
	}
	return house, nil
}

func (s *HouseService) requireOwnedHouse(actor auth.Actor, houseID string) (*db.ParkingHouse, error) {
	house, err := s.requireHouse(houseID)
	if err != nil {
		return nil, err
	}
	if house.AdminID != actor.ID {
		return nil, errors.Forbidden("you can only manage your own parking houses")
	}
	return house, nil
}

func validateHouseRequest(req entities.HouseRequest) error {
	if strings.TrimSpace(req.Address) == "" {
		return errors.Validation("missing or invalid address")
	}
	if req.Capacity <= 0 {
		return errors.Validation("capacity must be a positive integer")
	}
	if req.PricePerHour < 0 {
		return errors.Validation("price per hour must be a non-negative integer")
	}
	return nil
}

func newSlots(houseID string, n int) []db.ParkingSlot {
	slots := make([]db.ParkingSlot, n)
	for i := range slots {
		slots[i] = db.ParkingSlot{ID: uuid.NewString(), HouseID: houseID}
	}
	return slots
}
