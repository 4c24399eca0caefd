package utils

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"velorent/src/config"
	"velorent/src/models"
	"velorent/src/types"
)

// SyncBooking re-derives one booking's dates and status from its approved
// requests inside a transaction. It is safe to call repeatedly; a booking
// already in sync is left untouched.
func SyncBooking(db *gorm.DB, bookingID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		return syncBooking(tx, bookingID)
	})
}

// SyncUserBookings reconciles every booking the user owns. A failure on one
// booking is logged and does not stop the rest.
func SyncUserBookings(db *gorm.DB, userID uint) error {
	var ids []uint
	err := db.Model(&models.Booking{}).
		Where(&models.Booking{UserID: userID}).
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := SyncBooking(db, id); err != nil {
			log.Printf("sync failed for booking %d: %s\n", id, err.Error())
		}
	}
	return nil
}

// syncBooking applies the latest approved reschedule (highest request id
// wins) and any approved cancellation to the booking row. Dates compare at
// calendar-day precision so time-of-day noise in stored values never causes
// a rewrite.
func syncBooking(tx *gorm.DB, bookingID uint) error {
	var booking models.Booking
	err := tx.First(&booking, bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	var reschedule models.Request
	err = tx.Where(&models.Request{
		BookingID:   bookingID,
		RequestType: types.REQUEST_RESCHEDULE,
		Status:      types.REQUEST_APPROVED,
	}).Order("id DESC").First(&reschedule).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil && reschedule.NewStartDate != nil {
		updates := map[string]any{}
		if booking.StartDate.Format(config.DATE_PARSE_FORMAT) != reschedule.NewStartDate.Format(config.DATE_PARSE_FORMAT) {
			updates["start_date"] = *reschedule.NewStartDate
		}
		if reschedule.NewEndDate != nil &&
			booking.EndDate.Format(config.DATE_PARSE_FORMAT) != reschedule.NewEndDate.Format(config.DATE_PARSE_FORMAT) {
			updates["end_date"] = *reschedule.NewEndDate
		}
		if reschedule.NewRentTime != nil && booking.RentTime != *reschedule.NewRentTime {
			updates["rent_time"] = *reschedule.NewRentTime
		}
		if len(updates) > 0 {
			err = tx.Model(&models.Booking{}).Where("id = ?", bookingID).Updates(updates).Error
			if err != nil {
				return err
			}
		}
	}

	var cancellations int64
	err = tx.Model(&models.Request{}).
		Where(&models.Request{
			BookingID:   bookingID,
			RequestType: types.REQUEST_CANCELLATION,
			Status:      types.REQUEST_APPROVED,
		}).Count(&cancellations).Error
	if err != nil {
		return err
	}
	if cancellations > 0 && booking.Status != types.BOOKING_CANCELLED {
		err = tx.Model(&models.Booking{}).
			Where("id = ?", bookingID).
			Update("status", types.BOOKING_CANCELLED).Error
		if err != nil {
			return err
		}
	}
	return nil
}
