package service

import (
	"parkhaus/internal/auth"
	"parkhaus/internal/entities"
	"parkhaus/internal/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHouseFixture(t *testing.T) (*memStore, *HouseService, auth.Actor) {
	t.Helper()
	store := newMemStore()
	adminID := store.addAdmin("admin@parkhaus.test")
	svc := NewHouseService(store, store)
	return store, svc, auth.Actor{ID: adminID, Role: auth.RoleAdmin}
}

func TestCreateHouseCreatesSlotsInBulk(t *testing.T) {
	store, svc, admin := newHouseFixture(t)

	house, err := svc.CreateHouse(admin, entities.HouseRequest{
		Address:      "  Gartenweg 12  ",
		Capacity:     5,
		PricePerHour: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "Gartenweg 12", house.Address)
	assert.Equal(t, 5, house.Capacity)

	count, err := store.CountSlots(house.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestCreateHouseValidation(t *testing.T) {
	_, svc, admin := newHouseFixture(t)

	_, err := svc.CreateHouse(admin, entities.HouseRequest{Address: "  ", Capacity: 2, PricePerHour: 1})
	assert.True(t, errors.IsKind(err, errors.KindValidation))
	_, err = svc.CreateHouse(admin, entities.HouseRequest{Address: "A", Capacity: 0, PricePerHour: 1})
	assert.True(t, errors.IsKind(err, errors.KindValidation))
	_, err = svc.CreateHouse(admin, entities.HouseRequest{Address: "A", Capacity: 2, PricePerHour: -1})
	assert.True(t, errors.IsKind(err, errors.KindValidation))
}

func TestCreateHouseDuplicateAddress(t *testing.T) {
	_, svc, admin := newHouseFixture(t)

	_, err := svc.CreateHouse(admin, entities.HouseRequest{Address: "Gartenweg 12", Capacity: 2, PricePerHour: 1})
	require.NoError(t, err)
	_, err = svc.CreateHouse(admin, entities.HouseRequest{Address: "Gartenweg 12", Capacity: 3, PricePerHour: 2})
	assert.True(t, errors.IsKind(err, errors.KindConflict))
}

func TestUpdateHouseGrowsAndShrinksCapacity(t *testing.T) {
	store, svc, admin := newHouseFixture(t)

	house, err := svc.CreateHouse(admin, entities.HouseRequest{Address: "Gartenweg 12", Capacity: 3, PricePerHour: 2})
	require.NoError(t, err)

	updated, err := svc.UpdateHouse(admin, house.ID, entities.HouseRequest{Address: "Gartenweg 12", Capacity: 6, PricePerHour: 4})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Capacity)
	assert.Equal(t, 4, updated.PricePerHour)

	count, err := store.CountSlots(house.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	// Shrinking drops the newest slots; the original three survive.
	before, err := store.ListSlots(house.ID)
	require.NoError(t, err)

	_, err = svc.UpdateHouse(admin, house.ID, entities.HouseRequest{Address: "Gartenweg 12", Capacity: 2, PricePerHour: 4})
	require.NoError(t, err)

	after, err := store.ListSlots(house.ID)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, before[0].ID, after[0].ID)
	assert.Equal(t, before[1].ID, after[1].ID)
}

func TestUpdateHouseOwnership(t *testing.T) {
	store, svc, admin := newHouseFixture(t)

	house, err := svc.CreateHouse(admin, entities.HouseRequest{Address: "Gartenweg 12", Capacity: 2, PricePerHour: 2})
	require.NoError(t, err)

	other := auth.Actor{ID: store.addAdmin("other@parkhaus.test"), Role: auth.RoleAdmin}
	_, err = svc.UpdateHouse(other, house.ID, entities.HouseRequest{Address: "Neu 1", Capacity: 2, PricePerHour: 2})
	assert.True(t, errors.IsKind(err, errors.KindForbidden))

	err = svc.DeleteHouse(other, house.ID)
	assert.True(t, errors.IsKind(err, errors.KindForbidden))
}

func TestDeleteHouseCascades(t *testing.T) {
	store, svc, admin := newHouseFixture(t)

	house, err := svc.CreateHouse(admin, entities.HouseRequest{Address: "Gartenweg 12", Capacity: 2, PricePerHour: 2})
	require.NoError(t, err)
	slots, err := store.ListSlots(house.ID)
	require.NoError(t, err)
	driverID := store.addDriver("driver@parkhaus.test")
	resID := store.addReservation(slots[0].ID, driverID, time.Now(), time.Now().Add(time.Hour), nil)

	require.NoError(t, svc.DeleteHouse(admin, house.ID))

	count, err := store.CountSlots(house.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	res, err := store.GetByID(resID)
	require.NoError(t, err)
	assert.Nil(t, res, "reservations must be deleted with their slot")

	err = svc.DeleteHouse(admin, house.ID)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestListSlotsWithStatusLabels(t *testing.T) {
	store, svc, admin := newHouseFixture(t)

	house, err := svc.CreateHouse(admin, entities.HouseRequest{Address: "Gartenweg 12", Capacity: 3, PricePerHour: 2})
	require.NoError(t, err)
	slots, err := store.ListSlots(house.ID)
	require.NoError(t, err)

	now := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)
	driverID := store.addDriver("driver@parkhaus.test")
	store.addReservation(slots[1].ID, driverID, now.Add(-time.Hour), now.Add(time.Hour), nil)

	resp, err := svc.ListSlotsWithStatus(house.ID, now)
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)

	// Labels follow creation order, 1-based.
	assert.Equal(t, "1", resp.Slots[0].Label)
	assert.Equal(t, "2", resp.Slots[1].Label)
	assert.Equal(t, "3", resp.Slots[2].Label)

	assert.Equal(t, entities.SlotStateFreeNow, resp.Slots[0].Status.State)
	assert.Equal(t, entities.SlotStateBusy, resp.Slots[1].Status.State)
	assert.Equal(t, entities.SlotStateFreeNow, resp.Slots[2].Status.State)
}

func TestAvailabilityCountsFreeSlots(t *testing.T) {
	store, svc, admin := newHouseFixture(t)

	house, err := svc.CreateHouse(admin, entities.HouseRequest{Address: "Gartenweg 12", Capacity: 2, PricePerHour: 2})
	require.NoError(t, err)
	slots, err := store.ListSlots(house.ID)
	require.NoError(t, err)

	now := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })
	driverID := store.addDriver("driver@parkhaus.test")
	store.addReservation(slots[0].ID, driverID, now.Add(-time.Hour), now.Add(time.Hour), nil)
	// A future reservation does not occupy the slot now.
	store.addReservation(slots[1].ID, driverID, now.Add(2*time.Hour), now.Add(3*time.Hour), nil)

	availability, err := svc.Availability()
	require.NoError(t, err)
	require.Len(t, availability, 1)
	assert.Equal(t, 2, availability[0].TotalSlots)
	assert.Equal(t, 1, availability[0].FreeSlots)
}
