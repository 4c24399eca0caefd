package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"velorent/src/models"
	"velorent/src/types"
)

func TestComputeFee(t *testing.T) {
	policy := models.Policy{
		RescheduleFreeDays:        3,
		RescheduleFeePercentage:   10,
		CancellationFeePercentage: 20,
	}
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("reschedule is free outside the fee window", func(t *testing.T) {
		details := ComputeFee(types.REQUEST_RESCHEDULE, policy, now.AddDate(0, 0, 5), now)
		assert.Equal(t, 0.0, details.Fee)
		assert.Contains(t, details.Reason, "free")
	})

	t.Run("reschedule inside the window charges the policy fee", func(t *testing.T) {
		details := ComputeFee(types.REQUEST_RESCHEDULE, policy, now.AddDate(0, 0, 1), now)
		assert.Equal(t, 10.0, details.Fee)
		assert.Equal(t, 10.0, details.Percentage)
	})

	t.Run("partial days round up", func(t *testing.T) {
		// 49 hours ahead counts as 3 days, exactly at the free threshold.
		details := ComputeFee(types.REQUEST_RESCHEDULE, policy, now.Add(49*time.Hour), now)
		assert.Equal(t, 0.0, details.Fee)

		// 48 hours ahead is 2 days, inside the window.
		details = ComputeFee(types.REQUEST_RESCHEDULE, policy, now.Add(48*time.Hour), now)
		assert.Equal(t, 10.0, details.Fee)
	})

	t.Run("cancellation always charges regardless of lead time", func(t *testing.T) {
		details := ComputeFee(types.REQUEST_CANCELLATION, policy, now.AddDate(0, 1, 0), now)
		assert.Equal(t, 20.0, details.Fee)
		assert.Contains(t, details.Reason, "Cancellation")
	})

	t.Run("same inputs always produce the same outcome", func(t *testing.T) {
		first := ComputeFee(types.REQUEST_RESCHEDULE, policy, now.AddDate(0, 0, 2), now)
		second := ComputeFee(types.REQUEST_RESCHEDULE, policy, now.AddDate(0, 0, 2), now)
		assert.Equal(t, first, second)
	})

	t.Run("booking already started charges the fee", func(t *testing.T) {
		details := ComputeFee(types.REQUEST_RESCHEDULE, policy, now.AddDate(0, 0, -1), now)
		assert.Equal(t, 10.0, details.Fee)
	})
}
