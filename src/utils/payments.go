package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"velorent/src/config"
	"velorent/src/lib"
	"velorent/src/models"
	"velorent/src/types"
)

// CreatePayment opens a gateway checkout for a booking's down payment and
// records the pending attempt. The gateway call comes first; no row is
// written when the gateway refuses.
func CreatePayment(ctx context.Context, db *gorm.DB, userID uint, body *types.CreatePaymentRequestBody) (*models.Payment, error) {
	var booking models.Booking
	err := db.Where(&models.Booking{ID: body.BookingID, UserID: userID}).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrNotFound, body.BookingID)
		}
		return nil, err
	}
	if booking.Status != types.BOOKING_PENDING {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidState, booking.Status)
	}
	if booking.PaymentStatus == types.BOOKING_PAID {
		return nil, fmt.Errorf("%w: booking %d is already paid", ErrInvalidState, booking.ID)
	}

	session, err := lib.GetPayMongoClient().CreateCheckout(ctx, body.Amount, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, err.Error())
	}

	payment := models.Payment{
		BookingID:       booking.ID,
		Amount:          body.Amount,
		Status:          types.PAYMENT_PENDING,
		CheckoutURL:     session.URL,
		PaymentIntentID: session.PaymentIntentID,
		SourceID:        &session.ID,
	}
	if err := db.Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPaymentStatus returns the latest payment attempt for a booking,
// reconciling against the gateway first when the local row is still pending.
// A gateway failure is logged and the local state returned as-is.
func GetPaymentStatus(ctx context.Context, db *gorm.DB, userID, bookingID uint) (*models.Payment, error) {
	var booking models.Booking
	err := db.Where(&models.Booking{ID: bookingID, UserID: userID}).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
		}
		return nil, err
	}

	var payment models.Payment
	err = db.Where(&models.Payment{BookingID: bookingID}).
		Order("created_at DESC").
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no payment for booking %d", ErrNotFound, bookingID)
		}
		return nil, err
	}

	if payment.Status == types.PAYMENT_PENDING && payment.PaymentIntentID != nil {
		intent, err := lib.GetPayMongoClient().GetPaymentIntent(ctx, *payment.PaymentIntentID)
		if err != nil {
			log.Printf("payment status pull failed for intent %s: %s\n", *payment.PaymentIntentID, err.Error())
			return &payment, nil
		}
		switch intent.Status {
		case lib.IntentStatusSucceeded, lib.IntentStatusPaid:
			if err := settlePayment(ctx, db, payment.ID, intent); err != nil {
				return nil, err
			}
		case lib.IntentStatusPaymentFailed, lib.IntentStatusCanceled:
			if err := failPayment(db, payment.ID); err != nil {
				return nil, err
			}
		}
		if err := db.First(&payment, payment.ID).Error; err != nil {
			return nil, err
		}
	}
	return &payment, nil
}

// ListUserPayments returns the user's payment attempts, newest first.
func ListUserPayments(db *gorm.DB, userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := db.Preload("Booking").
		Joins("JOIN bookings ON bookings.id = payments.booking_id").
		Where("bookings.user_id = ?", userID).
		Order("payments.created_at DESC").
		Find(&payments).Error
	return payments, err
}

// ReconcilePaidEvent settles the payment matching a gateway paid event.
// Either paymentIntentID or sourceID can identify the row. Events for
// unknown payments are logged and dropped.
func ReconcilePaidEvent(ctx context.Context, db *gorm.DB, paymentIntentID, sourceID, sourceType string) error {
	payment, err := findPaymentByGatewayIDs(db, paymentIntentID, sourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("paid event for unknown payment (intent=%q source=%q)\n", paymentIntentID, sourceID)
			return nil
		}
		return err
	}

	intent := &lib.PaymentIntent{Status: lib.IntentStatusPaid, SourceType: sourceType}
	if intent.SourceType == "" && payment.PaymentIntentID != nil {
		if fetched, err := lib.GetPayMongoClient().GetPaymentIntent(ctx, *payment.PaymentIntentID); err == nil {
			intent = fetched
			intent.Status = lib.IntentStatusPaid
		} else {
			log.Printf("intent fetch for paid event failed: %s\n", err.Error())
		}
	}
	return settlePayment(ctx, db, payment.ID, intent)
}

// MarkPaymentFailed flips a pending payment to failed after a gateway failed
// event. Settled payments are never demoted.
func MarkPaymentFailed(db *gorm.DB, paymentIntentID, sourceID string) error {
	payment, err := findPaymentByGatewayIDs(db, paymentIntentID, sourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("failed event for unknown payment (intent=%q source=%q)\n", paymentIntentID, sourceID)
			return nil
		}
		return err
	}
	return failPayment(db, payment.ID)
}

func findPaymentByGatewayIDs(db *gorm.DB, paymentIntentID, sourceID string) (*models.Payment, error) {
	var payment models.Payment
	query := db.Order("created_at DESC")
	switch {
	case paymentIntentID != "":
		query = query.Where("payment_intent_id = ?", paymentIntentID)
	case sourceID != "":
		query = query.Where("source_id = ?", sourceID)
	default:
		return nil, gorm.ErrRecordNotFound
	}
	if err := query.First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// settlePayment promotes exactly one pending payment to paid and applies the
// booking-side effects. The conditional update closes the race between the
// webhook and the status pull: whichever path loses the RowsAffected check
// exits without side effects, so the confirmation notification fires once.
func settlePayment(ctx context.Context, db *gorm.DB, paymentID uint, intent *lib.PaymentIntent) error {
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", paymentID, types.PAYMENT_PENDING).
			Update("status", types.PAYMENT_PAID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		var payment models.Payment
		if err := tx.First(&payment, paymentID).Error; err != nil {
			return err
		}
		var booking models.Booking
		if err := tx.First(&booking, payment.BookingID).Error; err != nil {
			return err
		}
		if booking.Status != types.BOOKING_PENDING {
			log.Printf("payment %d settled for booking %d in state %s; booking left untouched\n", payment.ID, booking.ID, booking.Status)
			return nil
		}

		method := resolvePaymentMethod(ctx, intent, payment.SourceID)
		now := time.Now()
		txnID := fmt.Sprintf("TXN-%08d-%s", booking.ID, now.Format(config.TXN_DATE_FORMAT))
		reference := payment.PaymentIntentID
		if reference == nil {
			reference = payment.SourceID
		}
		err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(map[string]any{
			"payment_status":   types.BOOKING_PAID,
			"payment_method":   method,
			"transaction_id":   txnID,
			"transaction_date": now,
			"reference_number": reference,
		}).Error
		if err != nil {
			return err
		}

		eventKey := "payment_confirmed"
		return CreateNotificationOnce(tx, &models.Notification{
			UserID:           booking.UserID,
			Type:             types.NOTIFICATION_BOOKING_UPDATE,
			Message:          fmt.Sprintf("Your booking for %s (Booking #%d) has been confirmed and is waiting for approval. You will be notified once it's approved.", booking.VehicleName, booking.ID),
			RelatedBookingID: &booking.ID,
			EventKey:         &eventKey,
		})
	})
}

// failPayment flips a pending payment to failed. The booking row is left
// alone; the user simply retries with a fresh checkout.
func failPayment(db *gorm.DB, paymentID uint) error {
	return db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, types.PAYMENT_PENDING).
		Update("status", types.PAYMENT_FAILED).Error
}

// resolvePaymentMethod picks the display label for how the user paid:
// the source type on the intent's latest payment, else the first allowed
// method, else a source lookup by id.
func resolvePaymentMethod(ctx context.Context, intent *lib.PaymentIntent, sourceID *string) string {
	if intent != nil {
		if intent.SourceType != "" {
			return paymentMethodLabel(intent.SourceType)
		}
		if len(intent.AllowedMethods) > 0 {
			return paymentMethodLabel(intent.AllowedMethods[0])
		}
	}
	if sourceID != nil && *sourceID != "" {
		if sourceType, err := lib.GetPayMongoClient().GetSource(ctx, *sourceID); err == nil && sourceType != "" {
			return paymentMethodLabel(sourceType)
		}
	}
	return "Online Payment"
}

func paymentMethodLabel(sourceType string) string {
	switch sourceType {
	case "gcash":
		return "GCash"
	case "grab_pay":
		return "GrabPay"
	case "paymaya":
		return "PayMaya"
	}
	label := strings.ReplaceAll(sourceType, "_", " ")
	if label == "" {
		return "Online Payment"
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
