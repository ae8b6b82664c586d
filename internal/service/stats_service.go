package service

import (
	"math"
	"parkhaus/internal/auth"
	"parkhaus/internal/db"
	"parkhaus/internal/entities"
	"parkhaus/internal/errors"
	"parkhaus/internal/repository"
	"time"
)

type StatsService struct {
	Reservations repository.ReservationStore
	Houses       repository.HouseStore
	now          func() time.Time
}

func NewStatsService(reservations repository.ReservationStore, houses repository.HouseStore) *StatsService {
	return &StatsService{Reservations: reservations, Houses: houses, now: time.Now}
}

func (s *StatsService) SetClock(now func() time.Time) {
	s.now = now
}

// HouseStatistics buckets the house's reservations over [rangeStart,
// rangeEnd] into consecutive windows of bucketSizeDays days. A long
// reservation counts in every bucket it spans. Only the house's own
// admin may read the report.
func (s *StatsService) HouseStatistics(houseID string, actor auth.Actor, rangeStart, rangeEnd time.Time, bucketSizeDays int) (*entities.StatsReport, error) {
	if !rangeEnd.After(rangeStart) {
		return nil, errors.Validation("range start must be before range end")
	}
	if bucketSizeDays <= 0 {
		return nil, errors.Validation("bucket size must be a positive number of days")
	}

	if _, err := s.requireOwnedHouse(houseID, actor); err != nil {
		return nil, err
	}

	reservations, err := s.Reservations.ListByHouseOverlapping(houseID, rangeStart, rangeEnd)
	if err != nil {
		return nil, errors.Internal(err.Error())
	}

	report := &entities.StatsReport{
		HouseID:    houseID,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
		Buckets:    buildBuckets(reservations, rangeStart, rangeEnd, bucketSizeDays),
	}
	for i := range reservations {
		report.TotalReservations++
		if !reservations[i].IsActive() {
			report.TotalCancelled++
		}
	}
	return report, nil
}

// buildBuckets tiles [rangeStart, rangeEnd] with bucketSizeDays windows,
// truncating the last one to rangeEnd, and counts overlapping reservations
// (and the cancelled ones among them) per window.
func buildBuckets(reservations []db.Reservation, rangeStart, rangeEnd time.Time, bucketSizeDays int) []entities.StatsBucket {
	bucketSize := time.Duration(bucketSizeDays) * 24 * time.Hour

	var buckets []entities.StatsBucket
	for start := rangeStart; start.Before(rangeEnd); start = start.Add(bucketSize) {
		end := start.Add(bucketSize)
		if end.After(rangeEnd) {
			end = rangeEnd
		}

		bucket := entities.StatsBucket{BucketStart: start, BucketEnd: end}
		for i := range reservations {
			res := &reservations[i]
			if !InRange(res.StartTime, res.EndTime, start, end) {
				continue
			}
			bucket.Reservations++
			if !res.IsActive() {
				bucket.Cancelled++
			}
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// DailyUsage reports, for each of the trailing days, how many of the
// house's slots were occupied at any point of that calendar day, as a
// percentage of total slots.
func (s *StatsService) DailyUsage(houseID string, actor auth.Actor, days int) (*entities.UsageReport, error) {
	if days <= 0 || days > 365 {
		return nil, errors.Validation("days must be between 1 and 365")
	}

	house, err := s.requireOwnedHouse(houseID, actor)
	if err != nil {
		return nil, err
	}

	slots, err := s.Houses.ListSlots(houseID)
	if err != nil {
		return nil, errors.Internal(err.Error())
	}

	endDate := s.now().UTC()
	startDate := endDate.AddDate(0, 0, -days)
	reservations, err := s.Reservations.ListByHouseOverlapping(houseID, startDate, endDate)
	if err != nil {
		return nil, errors.Internal(err.Error())
	}

	report := &entities.UsageReport{
		HouseID:    house.ID,
		Address:    house.Address,
		DailyUsage: dailyUsage(slots, reservations, startDate, days),
	}
	return report, nil
}

func (s *StatsService) requireOwnedHouse(houseID string, actor auth.Actor) (*db.ParkingHouse, error) {
	house, err := s.Houses.GetHouse(houseID)
	if err != nil {
		return nil, errors.Internal(err.Error())
	}
	if house == nil {
		return nil, errors.NotFound("parking house not found")
	}
	if house.AdminID != actor.ID {
		return nil, errors.Forbidden("you do not manage this parking house")
	}
	return house, nil
}

func dailyUsage(slots []db.ParkingSlot, reservations []db.Reservation, startDate time.Time, days int) []entities.DailyUsage {
	totalSlots := len(slots)

	bySlot := make(map[string][]db.Reservation, totalSlots)
	for i := range reservations {
		if !reservations[i].IsActive() {
			continue
		}
		bySlot[reservations[i].SlotID] = append(bySlot[reservations[i].SlotID], reservations[i])
	}

	usage := make([]entities.DailyUsage, 0, days)
	for i := 0; i < days; i++ {
		day := startDate.AddDate(0, 0, i)
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

		occupied := 0
		for _, slot := range slots {
			for _, res := range bySlot[slot.ID] {
				if InRange(res.StartTime, res.EndTime, dayStart, dayEnd) {
					occupied++
					break
				}
			}
		}

		percentage := 0.0
		if totalSlots > 0 {
			percentage = math.Round(float64(occupied)/float64(totalSlots)*100*100) / 100
		}
		usage = append(usage, entities.DailyUsage{
			Date:            dayStart.Format("2006-01-02"),
			UsagePercentage: percentage,
			TotalSlots:      totalSlots,
			OccupiedSlots:   occupied,
		})
	}
	return usage
}
