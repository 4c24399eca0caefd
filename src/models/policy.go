package models

import "time"

// Policy holds per-company reschedule/cancellation rules. Read-only from
// this service's perspective; a missing row means the documented defaults
// apply (see config).
type Policy struct {
	ID        uint `gorm:"primarykey" json:"-"`
	CompanyID uint `gorm:"uniqueIndex" json:"company_id"`

	AllowReschedule   bool `json:"allow_reschedule"`
	AllowCancellation bool `json:"allow_cancellation"`
	AllowRefund       bool `json:"allow_refund"`

	RescheduleFreeDays        int     `json:"reschedule_free_days"`
	RescheduleFeePercentage   float64 `json:"reschedule_fee_percentage"`
	CancellationFeePercentage float64 `json:"cancellation_fee_percentage"`
	DepositRefundable         bool    `json:"deposit_refundable"`

	RescheduleTerms   string `json:"reschedule_terms,omitempty"`
	CancellationTerms string `json:"cancellation_terms,omitempty"`
	RefundTerms       string `json:"refund_terms,omitempty"`

	LastUpdated time.Time `gorm:"autoUpdateTime" json:"last_updated,omitempty"`
}

func (Policy) TableName() string {
	return "company_policies"
}
