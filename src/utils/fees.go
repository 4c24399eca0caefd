package utils

import (
	"fmt"
	"math"
	"time"

	"velorent/src/models"
	"velorent/src/types"
)

// FeeDetails describes the outcome of a fee computation. Fee is a percentage
// figure of the booking amount, not a currency amount.
type FeeDetails struct {
	Fee        float64 `json:"fee"`
	Percentage float64 `json:"percentage"`
	Reason     string  `json:"reason"`
}

// ComputeFee determines the fee owed for a reschedule or cancellation request
// against a booking starting at bookingStart, evaluated at now. Partial days
// until the booking round up, so a request 49 hours ahead counts as 3 days.
func ComputeFee(requestType types.RequestType, policy models.Policy, bookingStart, now time.Time) FeeDetails {
	if requestType == types.REQUEST_CANCELLATION {
		return FeeDetails{
			Fee:        policy.CancellationFeePercentage,
			Percentage: policy.CancellationFeePercentage,
			Reason:     fmt.Sprintf("Cancellation fee of %g%% applies", policy.CancellationFeePercentage),
		}
	}

	daysUntil := int(math.Ceil(bookingStart.Sub(now).Hours() / 24))
	if daysUntil >= policy.RescheduleFreeDays {
		return FeeDetails{
			Fee:        0,
			Percentage: 0,
			Reason:     fmt.Sprintf("Reschedule is free if requested at least %d days before booking", policy.RescheduleFreeDays),
		}
	}
	return FeeDetails{
		Fee:        policy.RescheduleFeePercentage,
		Percentage: policy.RescheduleFeePercentage,
		Reason:     fmt.Sprintf("Reschedule fee of %g%% applies when requested within %d days of booking", policy.RescheduleFeePercentage, policy.RescheduleFreeDays),
	}
}
