package types

import (
	"time"
)

type Timestamps struct {
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "Pending"
	BOOKING_ACTIVE    BookingStatus = "Active"
	BOOKING_CANCELLED BookingStatus = "Cancelled"
	BOOKING_COMPLETED BookingStatus = "Completed"
)

// BookingPaymentStatus tracks the down payment independently of the
// booking lifecycle status.
type BookingPaymentStatus string

const (
	BOOKING_UNPAID     BookingPaymentStatus = "unpaid"
	BOOKING_PAID       BookingPaymentStatus = "paid"
	BOOKING_PAY_FAILED BookingPaymentStatus = "failed"
)

type PaymentStatus string

const (
	PAYMENT_PENDING PaymentStatus = "pending"
	PAYMENT_PAID    PaymentStatus = "paid"
	PAYMENT_FAILED  PaymentStatus = "failed"
)

type RequestType string

const (
	REQUEST_RESCHEDULE   RequestType = "reschedule"
	REQUEST_CANCELLATION RequestType = "cancellation"
)

type RequestStatus string

const (
	REQUEST_PENDING  RequestStatus = "pending"
	REQUEST_APPROVED RequestStatus = "approved"
	REQUEST_REJECTED RequestStatus = "rejected"
)

type NotificationType string

const (
	NOTIFICATION_REQUEST_UPDATE NotificationType = "request_update"
	NOTIFICATION_BOOKING_UPDATE NotificationType = "booking_update"
	NOTIFICATION_GENERAL        NotificationType = "general"
)

type NotificationStatus string

const (
	NOTIFICATION_UNREAD NotificationStatus = "unread"
	NOTIFICATION_READ   NotificationStatus = "read"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CreateRequestRequestBody struct {
	BookingID    uint    `json:"booking_id" binding:"required"`
	RequestType  string  `json:"request_type" binding:"required"`
	Reason       string  `json:"reason" binding:"required"`
	NewStartDate *string `json:"new_start_date,omitempty" binding:"omitempty,rentaldate"`
	NewEndDate   *string `json:"new_end_date,omitempty" binding:"omitempty,rentaldate"`
	NewRentTime  *string `json:"new_rent_time,omitempty"`
}

type ComputeFeeRequestBody struct {
	BookingID    uint    `json:"booking_id" binding:"required"`
	RequestType  string  `json:"request_type" binding:"required"`
	NewStartDate *string `json:"new_start_date,omitempty" binding:"omitempty,rentaldate"`
}

type DecideRequestRequestBody struct {
	Status          string  `json:"status" binding:"required,oneof=approved rejected"`
	CompanyResponse *string `json:"company_response,omitempty"`
	CompanyRemarks  *string `json:"company_remarks,omitempty"`
}

type DeleteRequestsRequestBody struct {
	RequestIDs []uint `json:"requestIds" binding:"required,min=1"`
}

type CreatePaymentRequestBody struct {
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	BookingID uint    `json:"booking_id" binding:"required"`
}

type DeleteBookingsRequestBody struct {
	BookingIDs []uint `json:"bookingIds" binding:"required,min=1"`
}
