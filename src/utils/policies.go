package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"velorent/src/config"
	"velorent/src/lib"
	"velorent/src/models"
)

const policyCacheTTL = 5 * time.Minute

func policyCacheKey(companyID uint) string {
	return fmt.Sprintf("policy:%d", companyID)
}

// DefaultPolicy is the effective policy for companies that never saved one.
func DefaultPolicy(companyID uint) models.Policy {
	return models.Policy{
		CompanyID:                 companyID,
		AllowReschedule:           true,
		AllowCancellation:         true,
		RescheduleFreeDays:        config.DEFAULT_RESCHEDULE_FREE_DAYS,
		RescheduleFeePercentage:   config.DEFAULT_RESCHEDULE_FEE_PERCENTAGE,
		CancellationFeePercentage: config.DEFAULT_CANCELLATION_FEE_PERCENTAGE,
		DepositRefundable:         true,
		RescheduleTerms:           "Reschedule requests made at least 3 days before the booking date are free of charge. Later requests incur a fee.",
		CancellationTerms:         "Cancellations are subject to a cancellation fee based on the total booking amount.",
	}
}

// ResolvePolicy returns the effective policy for a company. A stored policy
// with zeroed fee fields falls back to the defaults field by field, so a
// half-filled row never produces free cancellations by accident. Redis is a
// read-through cache only; any cache failure falls through to the database.
func ResolvePolicy(ctx context.Context, db *gorm.DB, companyID uint) (models.Policy, error) {
	// Bookings without a company resolve straight to the defaults.
	if companyID == 0 {
		return DefaultPolicy(0), nil
	}
	rdb := lib.GetRedisClient()
	key := policyCacheKey(companyID)
	if rdb != nil {
		if raw, err := rdb.Get(ctx, key).Result(); err == nil {
			var cached models.Policy
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	var stored models.Policy
	err := db.WithContext(ctx).Where(&models.Policy{CompanyID: companyID}).First(&stored).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Policy{}, err
		}
		stored = DefaultPolicy(companyID)
	} else {
		applyPolicyDefaults(&stored)
	}

	if rdb != nil {
		if raw, err := json.Marshal(stored); err == nil {
			if err := rdb.Set(ctx, key, raw, policyCacheTTL).Err(); err != nil {
				log.Printf("policy cache set failed for company %d: %s\n", companyID, err.Error())
			}
		}
	}
	return stored, nil
}

func applyPolicyDefaults(p *models.Policy) {
	if p.RescheduleFreeDays <= 0 {
		p.RescheduleFreeDays = config.DEFAULT_RESCHEDULE_FREE_DAYS
	}
	if p.RescheduleFeePercentage <= 0 {
		p.RescheduleFeePercentage = config.DEFAULT_RESCHEDULE_FEE_PERCENTAGE
	}
	if p.CancellationFeePercentage <= 0 {
		p.CancellationFeePercentage = config.DEFAULT_CANCELLATION_FEE_PERCENTAGE
	}
}

// InvalidatePolicyCache drops the cached policy after a company edits it.
func InvalidatePolicyCache(ctx context.Context, companyID uint) {
	rdb := lib.GetRedisClient()
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, policyCacheKey(companyID)).Err(); err != nil {
		log.Printf("policy cache invalidate failed for company %d: %s\n", companyID, err.Error())
	}
}
