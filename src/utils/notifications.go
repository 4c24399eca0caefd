package utils

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"velorent/src/models"
	"velorent/src/types"
)

// CreateNotification inserts a notification without any dedup guarantee.
// Lifecycle events that may fire more than once go through
// CreateNotificationOnce instead.
func CreateNotification(tx *gorm.DB, n *models.Notification) error {
	return tx.Create(n).Error
}

// CreateNotificationOnce inserts a notification keyed by (user, booking,
// type, event key). A repeat insert for the same event is silently dropped,
// both by the pre-check and by the unique index when two writers race.
func CreateNotificationOnce(tx *gorm.DB, n *models.Notification) error {
	var count int64
	err := tx.Model(&models.Notification{}).
		Where(&models.Notification{
			UserID:           n.UserID,
			Type:             n.Type,
			RelatedBookingID: n.RelatedBookingID,
			EventKey:         n.EventKey,
		}).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(n).Error
}

// MarkNotificationRead flips a single notification owned by userID to read.
func MarkNotificationRead(tx *gorm.DB, userID uint, notificationID string) error {
	result := tx.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("status", types.NOTIFICATION_READ)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
