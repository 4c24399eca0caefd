package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"velorent/src/db"
	"velorent/src/types"
	"velorent/src/utils"
)

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/create-payment", func(ctx *gin.Context) {
			var body types.CreatePaymentRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := ctx.GetUint("id")
			db := db.GetDb()
			payment, err := utils.CreatePayment(ctx, db, userID, &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{
				"data":         payment,
				"checkout_url": payment.CheckoutURL,
			})
		}).
		GET("/status/:booking_id", func(ctx *gin.Context) {
			var params struct {
				BookingID uint `uri:"booking_id" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := ctx.GetUint("id")
			db := db.GetDb()
			payment, err := utils.GetPaymentStatus(ctx, db, userID, params.BookingID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payment})
		}).
		GET("/my-payments", func(ctx *gin.Context) {
			userID := ctx.GetUint("id")
			db := db.GetDb()
			payments, err := utils.ListUserPayments(db, userID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payments, "count": len(payments)})
		})
	return g
}
