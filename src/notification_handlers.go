package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"velorent/src/db"
	"velorent/src/models"
	"velorent/src/types"
	"velorent/src/utils"
)

func notificationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/my-notifications", func(ctx *gin.Context) {
			userID := ctx.GetUint("id")
			db := db.GetDb()
			var notifications []models.Notification
			err := db.
				Where(&models.Notification{UserID: userID}).
				Order("created_at DESC").
				Limit(50).
				Find(&notifications).Error
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": notifications, "count": len(notifications)})
		}).
		GET("/unread-count", func(ctx *gin.Context) {
			userID := ctx.GetUint("id")
			db := db.GetDb()
			var count int64
			err := db.Model(&models.Notification{}).
				Where(&models.Notification{UserID: userID, Status: types.NOTIFICATION_UNREAD}).
				Count(&count).Error
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"count": count})
		}).
		PUT("/:id/read", func(ctx *gin.Context) {
			notificationID := ctx.Params.ByName("id")
			userID := ctx.GetUint("id")
			db := db.GetDb()
			if err := utils.MarkNotificationRead(db, userID, notificationID); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
		}).
		PUT("/mark-all-read", func(ctx *gin.Context) {
			userID := ctx.GetUint("id")
			db := db.GetDb()
			result := db.Model(&models.Notification{}).
				Where(&models.Notification{UserID: userID, Status: types.NOTIFICATION_UNREAD}).
				Update("status", types.NOTIFICATION_READ)
			if result.Error != nil {
				abortWithError(ctx, result.Error)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "count": result.RowsAffected})
		})
	return g
}
