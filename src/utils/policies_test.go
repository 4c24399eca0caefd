package utils

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"velorent/src/lib"
	"velorent/src/models"
)

func TestResolvePolicyDefaults(t *testing.T) {
	d := newTestDB(t)
	lib.NewRedisClient(nil)

	policy, err := ResolvePolicy(context.Background(), d, 41)
	assert.Nil(t, err)
	assert.Equal(t, uint(41), policy.CompanyID)
	assert.Equal(t, 3, policy.RescheduleFreeDays)
	assert.Equal(t, 10.0, policy.RescheduleFeePercentage)
	assert.Equal(t, 20.0, policy.CancellationFeePercentage)
	assert.True(t, policy.AllowReschedule)
	assert.True(t, policy.AllowCancellation)
}

func TestResolvePolicyFieldFallback(t *testing.T) {
	d := newTestDB(t)
	lib.NewRedisClient(nil)

	// A half-filled row: fee fields left at zero must fall back to the
	// defaults, the explicit fields must survive.
	stored := models.Policy{
		CompanyID:               7,
		AllowReschedule:         true,
		RescheduleFreeDays:      5,
		RescheduleFeePercentage: 15,
	}
	assert.Nil(t, d.Create(&stored).Error)

	policy, err := ResolvePolicy(context.Background(), d, 7)
	assert.Nil(t, err)
	assert.Equal(t, 5, policy.RescheduleFreeDays)
	assert.Equal(t, 15.0, policy.RescheduleFeePercentage)
	assert.Equal(t, 20.0, policy.CancellationFeePercentage)
	assert.False(t, policy.AllowCancellation)
}

func TestResolvePolicyCache(t *testing.T) {
	d := newTestDB(t)

	cached := models.Policy{CompanyID: 9, RescheduleFreeDays: 7, RescheduleFeePercentage: 25, CancellationFeePercentage: 30}
	raw, _ := json.Marshal(cached)

	rdb, mock := redismock.NewClientMock()
	lib.NewRedisClient(rdb)
	defer lib.NewRedisClient(nil)
	mock.ExpectGet("policy:9").SetVal(string(raw))

	// The database holds a different row; a cache hit must win.
	stored := models.Policy{CompanyID: 9, RescheduleFreeDays: 1, RescheduleFeePercentage: 1, CancellationFeePercentage: 1}
	assert.Nil(t, d.Create(&stored).Error)

	policy, err := ResolvePolicy(context.Background(), d, 9)
	assert.Nil(t, err)
	assert.Equal(t, 7, policy.RescheduleFreeDays)
	assert.Equal(t, 25.0, policy.RescheduleFeePercentage)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestResolvePolicyCacheMissFillsCache(t *testing.T) {
	d := newTestDB(t)

	stored := models.Policy{CompanyID: 12, RescheduleFreeDays: 4, RescheduleFeePercentage: 12, CancellationFeePercentage: 18}
	assert.Nil(t, d.Create(&stored).Error)

	rdb, mock := redismock.NewClientMock()
	lib.NewRedisClient(rdb)
	defer lib.NewRedisClient(nil)

	var resolved models.Policy
	assert.Nil(t, d.Where(&models.Policy{CompanyID: 12}).First(&resolved).Error)
	raw, _ := json.Marshal(resolved)
	mock.ExpectGet("policy:12").RedisNil()
	mock.ExpectSet("policy:12", raw, 5*time.Minute).SetVal("OK")

	policy, err := ResolvePolicy(context.Background(), d, 12)
	assert.Nil(t, err)
	assert.Equal(t, 4, policy.RescheduleFreeDays)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestInvalidatePolicyCache(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	lib.NewRedisClient(rdb)
	defer lib.NewRedisClient(nil)
	mock.ExpectDel("policy:3").SetVal(1)

	InvalidatePolicyCache(context.Background(), 3)
	assert.Nil(t, mock.ExpectationsWereMet())
}
