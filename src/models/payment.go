package models

import "velorent/src/types"

// Payment is one attempt against a Booking's down payment. A Booking may
// accumulate several rows (retries); the most recent by creation time is
// authoritative.
type Payment struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	BookingID uint    `json:"booking_id"`
	Amount    float64 `json:"amount"`

	Status types.PaymentStatus `gorm:"default:pending" json:"status"`

	CheckoutURL     string  `json:"checkout_url,omitempty"`
	PaymentIntentID *string `json:"payment_intent_id,omitempty"`
	SourceID        *string `json:"source_id,omitempty"`

	Booking *Booking `gorm:"foreignKey:booking_id" json:"booking,omitempty"`

	types.Timestamps
}
