package models

import (
	"time"

	"velorent/src/types"
)

// Request is a change proposal against exactly one Booking. It is terminal
// once approved or rejected; at most one pending Request may exist per
// Booking at any time.
type Request struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	UserID      uint              `json:"user_id,omitempty"`
	CompanyID   uint              `json:"company_id,omitempty"`
	BookingID   uint              `json:"booking_id,omitempty"`
	RequestType types.RequestType `json:"request_type,omitempty"`

	Status types.RequestStatus `gorm:"default:pending" json:"status,omitempty"`
	Reason string              `json:"reason,omitempty"`

	// CompanyRemarks replaces the legacy practice of packing an
	// "[Admin Remarks]:" marker into the reason text.
	CompanyRemarks *string `json:"company_remarks,omitempty"`

	NewStartDate *time.Time `gorm:"type:date" json:"new_start_date,omitempty"`
	NewEndDate   *time.Time `gorm:"type:date" json:"new_end_date,omitempty"`
	NewRentTime  *string    `json:"new_rent_time,omitempty"`

	ComputedFee     float64 `json:"computed_fee"`
	CompanyResponse *string `json:"company_response,omitempty"`

	Booking *Booking `gorm:"foreignKey:booking_id" json:"booking,omitempty"`
	Company *Company `gorm:"foreignKey:company_id" json:"company,omitempty"`

	types.Timestamps
}
