package service

import (
	"fmt"
	"parkhaus/internal/auth"
	"parkhaus/internal/entities"
	"parkhaus/internal/errors"
	"parkhaus/internal/repository"
	"time"
)

// PaymentService produces mock payment quotes. No payment provider is
// involved; the amount is the house's hourly price times the booked hours,
// partial hours rounded up.
type PaymentService struct {
	Reservations repository.ReservationStore
	Houses       repository.HouseStore
	now          func() time.Time
}

func NewPaymentService(reservations repository.ReservationStore, houses repository.HouseStore) *PaymentService {
	return &PaymentService{Reservations: reservations, Houses: houses, now: time.Now}
}

func (s *PaymentService) QuoteReservation(reservationID string, actor auth.Actor) (*entities.PaymentQuote, error) {
	res, err := s.Reservations.GetByID(reservationID)
	if err != nil {
		return nil, errors.Internal(err.Error())
	}
	if res == nil {
		return nil, errors.NotFound("reservation not found")
	}
	if actor.IsDriver() && res.DriverID != actor.ID {
		return nil, errors.Forbidden("you can only quote your own reservations")
	}

	house, err := s.Houses.GetHouseForSlot(res.SlotID)
	if err != nil {
		return nil, errors.Internal(err.Error())
	}
	if house == nil {
		return nil, errors.NotFound("parking house not found for slot")
	}
	if actor.IsAdmin() && house.AdminID != actor.ID {
		return nil, errors.Forbidden("you can only quote reservations in your own parking houses")
	}

	hours := billableHours(res.StartTime, res.EndTime)
	return &entities.PaymentQuote{
		ReservationID: res.ID,
		Hours:         hours,
		PricePerHour:  house.PricePerHour,
		Amount:        hours * house.PricePerHour,
		ReceiptCode:   fmt.Sprintf("%08X", s.now().UnixNano()%100000000),
	}, nil
}

func billableHours(start, end time.Time) int {
	d := end.Sub(start)
	hours := int(d / time.Hour)
	if d%time.Hour > 0 {
		hours++
	}
	if hours == 0 {
		hours = 1
	}
	return hours
}
