package models

import (
	"velorent/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is an append-only message to a user. Only the read state
// mutates after creation. EventKey participates in a composite unique index
// so that event-driven emitters (payment reconciliation) stay idempotent
// without matching on message text.
type Notification struct {
	ID      uuid.UUID              `gorm:"primarykey;type:uuid" json:"id"`
	UserID  uint                   `gorm:"uniqueIndex:idx_notifications_event" json:"user_id"`
	Message string                 `json:"message"`
	Type    types.NotificationType `gorm:"uniqueIndex:idx_notifications_event" json:"type"`

	RelatedRequestID *uint `json:"related_request_id,omitempty"`
	RelatedBookingID *uint `gorm:"uniqueIndex:idx_notifications_event" json:"related_booking_id,omitempty"`

	EventKey *string `gorm:"uniqueIndex:idx_notifications_event" json:"-"`

	Status types.NotificationStatus `gorm:"default:unread" json:"status"`

	types.Timestamps
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
