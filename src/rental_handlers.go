package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"velorent/src/db"
	"velorent/src/models"
	"velorent/src/types"
	"velorent/src/utils"
)

func rentalHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/my-bookings", func(ctx *gin.Context) {
			userID := ctx.GetUint("id")
			db := db.GetDb()
			// Opportunistic reconcile; listings must still work when it fails.
			if err := utils.SyncUserBookings(db, userID); err != nil {
				log.Printf("booking sync on listing failed for user %d: %s\n", userID, err.Error())
			}
			var bookings []models.Booking
			err := db.
				Where(&models.Booking{UserID: userID}).
				Order("created_at DESC").
				Find(&bookings).Error
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/my-rentals/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := ctx.GetUint("id")
			db := db.GetDb()
			if err := utils.SyncBooking(db, params.ID); err != nil {
				log.Printf("booking sync failed for booking %d: %s\n", params.ID, err.Error())
			}
			var booking models.Booking
			err := db.
				Where(&models.Booking{ID: params.ID, UserID: userID}).
				First(&booking).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					abortWithError(ctx, fmt.Errorf("%w: booking %d", utils.ErrNotFound, params.ID))
					return
				}
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		DELETE("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := ctx.GetUint("id")
			db := db.GetDb()
			var booking models.Booking
			err := db.Where(&models.Booking{ID: params.ID, UserID: userID}).First(&booking).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					abortWithError(ctx, fmt.Errorf("%w: booking %d", utils.ErrNotFound, params.ID))
					return
				}
				abortWithError(ctx, err)
				return
			}
			if booking.Status != types.BOOKING_CANCELLED {
				abortWithError(ctx, fmt.Errorf("%w: only cancelled bookings can be deleted", utils.ErrInvalidState))
				return
			}
			if err := db.Delete(&models.Booking{}, booking.ID).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Booking deleted"})
		}).
		PUT("/:id/mark-notification-read", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := ctx.GetUint("id")
			db := db.GetDb()
			var booking models.Booking
			err := db.Where(&models.Booking{ID: params.ID, UserID: userID}).First(&booking).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					abortWithError(ctx, fmt.Errorf("%w: booking %d", utils.ErrNotFound, params.ID))
					return
				}
				abortWithError(ctx, err)
				return
			}
			result := db.Model(&models.Notification{}).
				Where("user_id = ? AND related_booking_id = ? AND status = ?", userID, booking.ID, types.NOTIFICATION_UNREAD).
				Update("status", types.NOTIFICATION_READ)
			if result.Error != nil {
				abortWithError(ctx, result.Error)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Notifications marked as read", "count": result.RowsAffected})
		}).
		POST("/bookings/delete-multiple", func(ctx *gin.Context) {
			var body types.DeleteBookingsRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := ctx.GetUint("id")
			db := db.GetDb()
			var bookings []models.Booking
			err := db.Where("user_id = ? AND id IN ?", userID, body.BookingIDs).Find(&bookings).Error
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			var offending []uint
			found := make(map[uint]bool, len(bookings))
			for _, booking := range bookings {
				found[booking.ID] = true
				if booking.Status != types.BOOKING_CANCELLED {
					offending = append(offending, booking.ID)
				}
			}
			for _, id := range body.BookingIDs {
				if !found[id] {
					abortWithError(ctx, fmt.Errorf("%w: booking %d", utils.ErrNotFound, id))
					return
				}
			}
			if len(offending) > 0 {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":       "only cancelled bookings can be deleted",
					"pending_ids": offending,
				})
				return
			}
			err = db.Where("user_id = ? AND id IN ?", userID, body.BookingIDs).Delete(&models.Booking{}).Error
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Bookings deleted", "count": len(body.BookingIDs)})
		})
	return g
}
