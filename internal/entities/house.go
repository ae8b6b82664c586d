package entities

type HouseRequest struct {
	Address      string `json:"address"`
	Capacity     int    `json:"capacity"`
	PricePerHour int    `json:"price_per_hour"`
}

type HouseResponse struct {
	ID           string `json:"id"`
	Address      string `json:"address"`
	Capacity     int    `json:"capacity"`
	PricePerHour int    `json:"price_per_hour"`
}

// HouseAvailability is the lightweight per-house summary the list views poll.
type HouseAvailability struct {
	ID         string `json:"id"`
	TotalSlots int    `json:"total_slots"`
	FreeSlots  int    `json:"free_slots"`
}
