package entities

// PaymentQuote is a mock payment artifact: the amount a reservation would
// cost at its house's hourly rate. No money moves anywhere.
type PaymentQuote struct {
	ReservationID string `json:"reservation_id"`
	Hours         int    `json:"hours"`
	PricePerHour  int    `json:"price_per_hour"`
	Amount        int    `json:"amount"`
	ReceiptCode   string `json:"receipt_code"`
}
