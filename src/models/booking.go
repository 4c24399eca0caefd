package models

import (
	"time"

	"velorent/src/types"
)

type Booking struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	UserID       uint   `json:"user_id,omitempty"`
	UserName     string `json:"user_name,omitempty"`
	MobileNumber string `json:"mobile_number,omitempty"`
	VehicleID    *uint  `json:"vehicle_id,omitempty"`
	VehicleName  string `json:"vehicle_name,omitempty"`
	CompanyID    *uint  `json:"company_id,omitempty"`
	CompanyName  string `json:"company_name,omitempty"`
	ServiceType  string `json:"service_type,omitempty"`

	StartDate   time.Time `gorm:"type:date" json:"start_date"`
	EndDate     time.Time `gorm:"type:date" json:"end_date"`
	RentTime    string    `json:"rent_time,omitempty"`
	Destination string    `json:"destination,omitempty"`
	Occasion    *string   `json:"occasion,omitempty"`
	Message     *string   `json:"message,omitempty"`
	BookingDate time.Time `json:"booking_date,omitempty"`

	Status        types.BookingStatus        `gorm:"default:Pending" json:"status,omitempty"`
	PaymentStatus types.BookingPaymentStatus `gorm:"default:unpaid" json:"payment_status,omitempty"`

	PaymentMethod   *string    `json:"payment_method,omitempty"`
	TransactionID   *string    `json:"transaction_id,omitempty"`
	TransactionDate *time.Time `json:"transaction_date,omitempty"`
	ReferenceNumber *string    `json:"reference_number,omitempty"`

	User    *User    `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Company *Company `gorm:"foreignKey:company_id" json:"company,omitempty"`

	types.Timestamps
}
