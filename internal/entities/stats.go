package entities

import "time"

// StatsBucket is one reporting window within a statistics range.
type StatsBucket struct {
	BucketStart  time.Time `json:"bucket_start"`
	BucketEnd    time.Time `json:"bucket_end"`
	Reservations int       `json:"reservations"`
	Cancelled    int       `json:"cancelled"`
}

type StatsReport struct {
	HouseID           string        `json:"house_id"`
	RangeStart        time.Time     `json:"range_start"`
	RangeEnd          time.Time     `json:"range_end"`
	TotalReservations int           `json:"total_reservations"`
	TotalCancelled    int           `json:"total_cancelled"`
	Buckets           []StatsBucket `json:"buckets"`
}

// DailyUsage is the per-calendar-day utilization of a house.
type DailyUsage struct {
	Date            string  `json:"date"` // YYYY-MM-DD
	UsagePercentage float64 `json:"usage_percentage"`
	TotalSlots      int     `json:"total_slots"`
	OccupiedSlots   int     `json:"occupied_slots"`
}

type UsageReport struct {
	HouseID    string       `json:"house_id"`
	Address    string       `json:"address"`
	DailyUsage []DailyUsage `json:"daily_usage"`
}
