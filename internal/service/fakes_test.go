package service

import (
	"fmt"
	"parkhaus/internal/db"
	"parkhaus/internal/repository"
	"sort"
	"sync"
	"time"
)

// memStore is an in-memory stand-in for the Postgres repositories. Every
// method takes the store mutex on its own, like independent DB round
// trips, so the scheduler's per-slot serialization is actually exercised.
type memStore struct {
	mu           sync.Mutex
	seq          int
	reservations map[string]*db.Reservation
	houses       map[string]*db.ParkingHouse
	slots        map[string]*db.ParkingSlot
	admins       map[string]*db.Admin
	drivers      map[string]*db.Driver
}

var _ repository.ReservationStore = (*memStore)(nil)
var _ repository.HouseStore = (*memStore)(nil)
var _ repository.AccountStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		reservations: make(map[string]*db.Reservation),
		houses:       make(map[string]*db.ParkingHouse),
		slots:        make(map[string]*db.ParkingSlot),
		admins:       make(map[string]*db.Admin),
		drivers:      make(map[string]*db.Driver),
	}
}

func (m *memStore) nextSeq() int {
	m.seq++
	return m.seq
}

// test fixture helpers

func (m *memStore) addAdmin(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := fmt.Sprintf("admin-%d", m.nextSeq())
	m.admins[id] = &db.Admin{ID: id, Email: email}
	return id
}

func (m *memStore) addDriver(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := fmt.Sprintf("driver-%d", m.nextSeq())
	m.drivers[id] = &db.Driver{ID: id, Email: email}
	return id
}

func (m *memStore) addHouse(adminID, address string, price int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := fmt.Sprintf("house-%d", m.nextSeq())
	m.houses[id] = &db.ParkingHouse{ID: id, AdminID: adminID, Address: address, PricePerHour: price}
	return id
}

func (m *memStore) addSlot(houseID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	seq := m.nextSeq()
	id := fmt.Sprintf("slot-%d", seq)
	m.slots[id] = &db.ParkingSlot{
		ID:        id,
		HouseID:   houseID,
		CreatedAt: time.Unix(int64(seq), 0).UTC(),
	}
	return id
}

func (m *memStore) addReservation(slotID, driverID string, start, end time.Time, cancelledAt *time.Time) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := fmt.Sprintf("res-%d", m.nextSeq())
	m.reservations[id] = &db.Reservation{
		ID:          id,
		SlotID:      slotID,
		DriverID:    driverID,
		StartTime:   start,
		EndTime:     end,
		CancelledAt: cancelledAt,
	}
	return id
}

// ReservationStore

func (m *memStore) Create(res *db.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *res
	m.reservations[res.ID] = &cp
	return nil
}

func (m *memStore) GetByID(id string) (*db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.reservations[id]
	if !ok {
		return nil, nil
	}
	cp := *res
	return &cp, nil
}

func (m *memStore) ListActiveOverlapping(slotID string, start, end time.Time, excludeID string) ([]db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Reservation
	for _, res := range m.reservations {
		if res.SlotID != slotID || !res.IsActive() || res.ID == excludeID {
			continue
		}
		if Overlaps(res.StartTime, res.EndTime, start, end) {
			out = append(out, *res)
		}
	}
	sortByStart(out)
	return out, nil
}

func (m *memStore) NextActiveForSlot(slotID string, now time.Time) (*db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var next *db.Reservation
	for _, res := range m.reservations {
		if res.SlotID != slotID || !res.IsActive() || !res.EndTime.After(now) {
			continue
		}
		if next == nil || res.StartTime.Before(next.StartTime) {
			next = res
		}
	}
	if next == nil {
		return nil, nil
	}
	cp := *next
	return &cp, nil
}

func (m *memStore) SetCancelledAt(id string, cancelledAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if res, ok := m.reservations[id]; ok {
		res.CancelledAt = cancelledAt
	}
	return nil
}

func (m *memStore) UpdateEndTime(id string, end time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if res, ok := m.reservations[id]; ok {
		res.EndTime = end
	}
	return nil
}

func (m *memStore) ListActiveByDriver(driverID string, now time.Time) ([]db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Reservation
	for _, res := range m.reservations {
		if res.DriverID == driverID && res.IsActive() && res.EndTime.After(now) {
			out = append(out, *res)
		}
	}
	sortByStart(out)
	return out, nil
}

func (m *memStore) ListByAdminHouses(adminID string) ([]db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Reservation
	for _, res := range m.reservations {
		slot, ok := m.slots[res.SlotID]
		if !ok {
			continue
		}
		house, ok := m.houses[slot.HouseID]
		if !ok || house.AdminID != adminID {
			continue
		}
		out = append(out, *res)
	}
	sortByStart(out)
	return out, nil
}

func (m *memStore) ListByHouseOverlapping(houseID string, start, end time.Time) ([]db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Reservation
	for _, res := range m.reservations {
		slot, ok := m.slots[res.SlotID]
		if !ok || slot.HouseID != houseID {
			continue
		}
		if InRange(res.StartTime, res.EndTime, start, end) {
			out = append(out, *res)
		}
	}
	sortByStart(out)
	return out, nil
}

func (m *memStore) CountOccupiedSlots(houseID string, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, res := range m.reservations {
		slot, ok := m.slots[res.SlotID]
		if !ok || slot.HouseID != houseID || !res.IsActive() {
			continue
		}
		if !res.StartTime.After(now) && res.EndTime.After(now) {
			count++
		}
	}
	return count, nil
}

// HouseStore

func (m *memStore) CreateHouse(h *db.ParkingHouse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.houses {
		if existing.Address == h.Address {
			return repository.ErrDuplicateAddress
		}
	}
	cp := *h
	m.houses[h.ID] = &cp
	return nil
}

func (m *memStore) GetHouse(id string) (*db.ParkingHouse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.houses[id]
	if !ok {
		return nil, nil
	}
	cp := *h
	return &cp, nil
}

func (m *memStore) ListHouses() ([]db.ParkingHouse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.ParkingHouse
	for _, h := range m.houses {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateHouse(h *db.ParkingHouse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.houses {
		if existing.ID != h.ID && existing.Address == h.Address {
			return repository.ErrDuplicateAddress
		}
	}
	cp := *h
	m.houses[h.ID] = &cp
	return nil
}

func (m *memStore) DeleteHouse(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.houses, id)
	for slotID, slot := range m.slots {
		if slot.HouseID != id {
			continue
		}
		delete(m.slots, slotID)
		for resID, res := range m.reservations {
			if res.SlotID == slotID {
				delete(m.reservations, resID)
			}
		}
	}
	return nil
}

func (m *memStore) CountSlots(houseID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, slot := range m.slots {
		if slot.HouseID == houseID {
			count++
		}
	}
	return count, nil
}

func (m *memStore) CreateSlots(slots []db.ParkingSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range slots {
		cp := s
		cp.CreatedAt = time.Unix(int64(m.nextSeq()), 0).UTC()
		m.slots[s.ID] = &cp
	}
	return nil
}

func (m *memStore) DeleteNewestSlots(houseID string, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slots := m.slotsOfLocked(houseID)
	for i := 0; i < n && len(slots) > 0; i++ {
		newest := slots[len(slots)-1-i]
		delete(m.slots, newest.ID)
		for resID, res := range m.reservations {
			if res.SlotID == newest.ID {
				delete(m.reservations, resID)
			}
		}
	}
	return nil
}

func (m *memStore) ListSlots(houseID string) ([]db.ParkingSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slotsOfLocked(houseID), nil
}

func (m *memStore) slotsOfLocked(houseID string) []db.ParkingSlot {
	var out []db.ParkingSlot
	for _, slot := range m.slots {
		if slot.HouseID == houseID {
			out = append(out, *slot)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *memStore) GetSlot(id string) (*db.ParkingSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[id]
	if !ok {
		return nil, nil
	}
	cp := *slot
	return &cp, nil
}

func (m *memStore) GetHouseForSlot(slotID string) (*db.ParkingHouse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[slotID]
	if !ok {
		return nil, nil
	}
	house, ok := m.houses[slot.HouseID]
	if !ok {
		return nil, nil
	}
	cp := *house
	return &cp, nil
}

// AccountStore

func (m *memStore) CreateAdmin(a *db.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.admins {
		if existing.Email == a.Email {
			return repository.ErrDuplicateEmail
		}
	}
	cp := *a
	m.admins[a.ID] = &cp
	return nil
}

func (m *memStore) CreateDriver(d *db.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.drivers {
		if existing.Email == d.Email {
			return repository.ErrDuplicateEmail
		}
	}
	cp := *d
	m.drivers[d.ID] = &cp
	return nil
}

func (m *memStore) GetAdminByEmail(email string) (*db.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetDriverByEmail(email string) (*db.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.drivers {
		if d.Email == email {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetAdmin(id string) (*db.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) GetDriver(id string) (*db.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drivers[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func sortByStart(reservations []db.Reservation) {
	sort.Slice(reservations, func(i, j int) bool {
		return reservations[i].StartTime.Before(reservations[j].StartTime)
	})
}
