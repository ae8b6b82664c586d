package service

import (
	"log"
	"parkhaus/internal/auth"
	"parkhaus/internal/db"
	"parkhaus/internal/entities"
	"parkhaus/internal/errors"
	"parkhaus/internal/repository"
	"sync"
	"time"

	"github.com/google/uuid"
)

// slotLockTable hands out one mutex per slot ID. The check-then-write
// sequences (create, restore, prolong) run under the slot's mutex so two
// concurrent requests cannot both pass the overlap check and both write.
type slotLockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSlotLockTable() *slotLockTable {
	return &slotLockTable{locks: make(map[string]*sync.Mutex)}
}

func (t *slotLockTable) forSlot(slotID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[slotID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[slotID] = l
	}
	return l
}

type ReservationService struct {
	Repo      repository.ReservationStore
	Houses    repository.HouseStore
	Accounts  repository.AccountStore
	sender    *SenderService
	slotLocks *slotLockTable
	now       func() time.Time

	GraceMinutes      int
	EndingSoonMinutes int
}

func NewReservationService(repo repository.ReservationStore, houses repository.HouseStore, accounts repository.AccountStore, sender *SenderService, graceMinutes, endingSoonMinutes int) *ReservationService {
	return &ReservationService{
		Repo:              repo,
		Houses:            houses,
		Accounts:          accounts,
		sender:            sender,
		slotLocks:         newSlotLockTable(),
		now:               time.Now,
		GraceMinutes:      graceMinutes,
		EndingSoonMinutes: endingSoonMinutes,
	}
}

// SetClock replaces the service clock. Tests use this; production keeps
// time.Now.
func (s *ReservationService) SetClock(now func() time.Time) {
	s.now = now
}

// Create books the slot for [start, end) on behalf of the driver. The
// overlap check and the insert run under the slot's mutex.
func (s *ReservationService) Create(slotID string, start, end time.Time, driverID string) (*db.Reservation, error) {
	if !end.After(start) {
		return nil, errors.Validation("start time must be before end time")
	}

	slot, err := s.Houses.GetSlot(slotID)
	if err != nil {
		return nil, errors.Internal(err.Error())
	}
	if slot == nil {
		return nil, errors.NotFound("parking slot not found")
	}

	lock := s.slotLocks.forSlot(slotID)
	lock.Lock()
	defer lock.Unlock()

	conflicts, err := s.Repo.ListActiveOverlapping(slotID, start, end, "")
	if err != nil {
		return nil, errors.Internal(err.Error())
	}
	if len(conflicts) > 0 {
		return nil, errors.Conflict("slot already reserved for requested window")
	}

	nowTime := s.now().UTC()
	res := &db.Reservation{
		ID:        uuid.NewString(),
		SlotID:    slotID,
		DriverID:  driverID,
		StartTime: start,
		EndTime:   end,
		CreatedAt: nowTime,
		UpdatedAt: nowTime,
	}
	if err := s.Repo.Create(res); err != nil {
		if err == repository.ErrSlotWindowTaken {
			return nil, errors.Conflict("slot already reserved for requested window")
		}
		return nil, errors.Internal(err.Error())
	}

	s.notify(res, "confirmed")
	return res, nil
}

// ToResponse converts a stored reservation into its API shape.
func ToResponse(res *db.Reservation) entities.ReservationResponse {
	return toReservationResponse(res)
}

// Cancel soft-deletes the reservation. Only the owning driver or the admin
// of the slot's house may cancel. Re-cancelling an already cancelled
// reservation just moves the timestamp; no state machine is violated.
func (s *ReservationService) Cancel(reservationID string, actor auth.Actor) error {
	res, err := s.Repo.GetByID(reservationID)
	if err != nil {
		return errors.Internal(err.Error())
	}
	if res == nil {
		return errors.NotFound("reservation not found")
	}

	if err := s.checkOwnership(res, actor); err != nil {
		return err
	}

	cancelledAt := s.now().UTC()
	if err := s.Repo.SetCancelledAt(res.ID, &cancelledAt); err != nil {
		return errors.Internal(err.Error())
	}

	res.CancelledAt = &cancelledAt
	s.notify(res, "cancelled")
	return nil
}

// Restore clears the cancellation of a reservation. Admin-only, and the
// overlap check runs again: other reservations may have taken the window
// since the cancel.
func (s *ReservationService) Restore(reservationID string, actor auth.Actor) error {
	if !actor.IsAdmin() {
		return errors.Forbidden("only admins can restore reservations")
	}

	res, err := s.Repo.GetByID(reservationID)
	if err != nil {
		return errors.Internal(err.Error())
	}
	if res == nil {
		return errors.NotFound("reservation not found")
	}

	house, err := s.houseForSlot(res.SlotID)
	if err != nil {
		return err
	}
	if house.AdminID != actor.ID {
		return errors.Forbidden("you can only restore reservations in your own parking houses")
	}

	if res.IsActive() {
		return errors.InvalidState("reservation is not cancelled and cannot be restored")
	}

	lock := s.slotLocks.forSlot(res.SlotID)
	lock.Lock()
	defer lock.Unlock()

	conflicts, err := s.Repo.ListActiveOverlapping(res.SlotID, res.StartTime, res.EndTime, res.ID)
	if err != nil {
		return errors.Internal(err.Error())
	}
	if len(conflicts) > 0 {
		return errors.Conflict("slot already reserved for requested window")
	}

	if err := s.Repo.SetCancelledAt(res.ID, nil); err != nil {
		if err == repository.ErrSlotWindowTaken {
			return errors.Conflict("slot already reserved for requested window")
		}
		return errors.Internal(err.Error())
	}

	res.CancelledAt = nil
	s.notify(res, "restored")
	return nil
}

// Prolong extends the reservation's end by the given minutes. The extension
// is overlap-checked like a create; silently double-booking the slot by
// stretching into the next reservation is not allowed.
func (s *ReservationService) Prolong(reservationID string, minutes int, actor auth.Actor) (*db.Reservation, error) {
	if minutes <= 0 {
		return nil, errors.Validation("minutes must be a positive integer")
	}

	res, err := s.Repo.GetByID(reservationID)
	if err != nil {
		return nil, errors.Internal(err.Error())
	}
	if res == nil {
		return nil, errors.NotFound("reservation not found")
	}

	if err := s.checkOwnership(res, actor); err != nil {
		return nil, err
	}
	if !res.IsActive() {
		return nil, errors.InvalidState("cancelled reservations cannot be prolonged")
	}

	newEnd := res.EndTime.Add(time.Duration(minutes) * time.Minute)

	lock := s.slotLocks.forSlot(res.SlotID)
	lock.Lock()
	defer lock.Unlock()

	conflicts, err := s.Repo.ListActiveOverlapping(res.SlotID, res.StartTime, newEnd, res.ID)
	if err != nil {
		return nil, errors.Internal(err.Error())
	}
	if len(conflicts) > 0 {
		return nil, errors.Conflict("slot already reserved for requested window")
	}

	if err := s.Repo.UpdateEndTime(res.ID, newEnd); err != nil {
		if err == repository.ErrSlotWindowTaken {
			return nil, errors.Conflict("slot already reserved for requested window")
		}
		return nil, errors.Internal(err.Error())
	}

	res.EndTime = newEnd
	res.UpdatedAt = s.now().UTC()
	return res, nil
}

// GetSlotStatus projects the slot's occupancy at the given instant.
func (s *ReservationService) GetSlotStatus(slotID string, now time.Time) (*entities.SlotStatus, error) {
	slot, err := s.Houses.GetSlot(slotID)
	if err != nil {
		return nil, errors.Internal(err.Error())
	}
	if slot == nil {
		return nil, errors.NotFound("parking slot not found")
	}

	next, err := s.Repo.NextActiveForSlot(slotID, now)
	if err != nil {
		return nil, errors.Internal(err.Error())
	}
	status := resolveSlotStatus(next, now)
	return &status, nil
}

// GetPhase resolves the reservation's lifecycle view at the given instant.
// Only the owning driver or the admin of the house may read it.
func (s *ReservationService) GetPhase(reservationID string, actor auth.Actor, now time.Time) (*entities.ReservationPhaseResponse, error) {
	res, err := s.Repo.GetByID(reservationID)
	if err != nil {
		return nil, errors.Internal(err.Error())
	}
	if res == nil {
		return nil, errors.NotFound("reservation not found")
	}
	if err := s.checkOwnership(res, actor); err != nil {
		return nil, err
	}
	return &entities.ReservationPhaseResponse{
		Reservation: toReservationResponse(res),
		Lifecycle:   ResolvePhase(res, now, s.GraceMinutes, s.EndingSoonMinutes),
	}, nil
}

// ListMyActive returns the driver's non-cancelled, not yet ended
// reservations ordered by start.
func (s *ReservationService) ListMyActive(driverID string) ([]entities.ReservationResponse, error) {
	reservations, err := s.Repo.ListActiveByDriver(driverID, s.now().UTC())
	if err != nil {
		return nil, errors.Internal(err.Error())
	}
	out := make([]entities.ReservationResponse, 0, len(reservations))
	for i := range reservations {
		out = append(out, toReservationResponse(&reservations[i]))
	}
	return out, nil
}

// ListForAdmin returns every reservation in the admin's houses together
// with its current lifecycle view.
func (s *ReservationService) ListForAdmin(adminID string) ([]entities.ReservationPhaseResponse, error) {
	reservations, err := s.Repo.ListByAdminHouses(adminID)
	if err != nil {
		return nil, errors.Internal(err.Error())
	}
	now := s.now().UTC()
	out := make([]entities.ReservationPhaseResponse, 0, len(reservations))
	for i := range reservations {
		out = append(out, entities.ReservationPhaseResponse{
			Reservation: toReservationResponse(&reservations[i]),
			Lifecycle:   ResolvePhase(&reservations[i], now, s.GraceMinutes, s.EndingSoonMinutes),
		})
	}
	return out, nil
}

func (s *ReservationService) checkOwnership(res *db.Reservation, actor auth.Actor) error {
	if actor.IsDriver() {
		if res.DriverID != actor.ID {
			return errors.Forbidden("you can only access your own reservations")
		}
		return nil
	}
	if actor.IsAdmin() {
		house, err := s.houseForSlot(res.SlotID)
		if err != nil {
			return err
		}
		if house.AdminID != actor.ID {
			return errors.Forbidden("you can only access reservations in your own parking houses")
		}
		return nil
	}
	return errors.Forbidden("unknown actor role")
}

func (s *ReservationService) houseForSlot(slotID string) (*db.ParkingHouse, error) {
	house, err := s.Houses.GetHouseForSlot(slotID)
	if err != nil {
		return nil, errors.Internal(err.Error())
	}
	if house == nil {
		return nil, errors.NotFound("parking house not found for slot")
	}
	return house, nil
}

func (s *ReservationService) notify(res *db.Reservation, status string) {
	if s.sender == nil || s.Accounts == nil {
		return
	}
	driver, err := s.Accounts.GetDriver(res.DriverID)
	if err != nil || driver == nil {
		log.Printf("Could not load driver %s for notification: %v", res.DriverID, err)
		return
	}
	s.sender.SendReservationEmail(driver.Email, toReservationResponse(res), status)
	if driver.Phone != "" {
		s.sender.SendReservationSMS(driver.Phone, toReservationResponse(res), status)
	}
}

func toReservationResponse(res *db.Reservation) entities.ReservationResponse {
	return entities.ReservationResponse{
		ID:          res.ID,
		SlotID:      res.SlotID,
		DriverID:    res.DriverID,
		StartTime:   res.StartTime,
		EndTime:     res.EndTime,
		CancelledAt: res.CancelledAt,
		CreatedAt:   res.CreatedAt,
		UpdatedAt:   res.UpdatedAt,
	}
}
