package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"velorent/src/db"
	"velorent/src/types"
	"velorent/src/utils"
)

func abortWithError(ctx *gin.Context, err error) {
	var pendingErr *utils.PendingDeleteError
	if errors.As(err, &pendingErr) {
		ctx.JSON(utils.HTTPStatus(err), gin.H{"error": err.Error(), "pending_ids": pendingErr.PendingIDs})
		return
	}
	ctx.JSON(utils.HTTPStatus(err), gin.H{"error": err.Error()})
}

func requestHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/my-requests", func(ctx *gin.Context) {
			userID := ctx.GetUint("id")
			db := db.GetDb()
			requests, err := utils.ListUserRequests(db, userID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": requests, "count": len(requests)})
		}).
		GET("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := ctx.GetUint("id")
			db := db.GetDb()
			request, err := utils.GetUserRequest(db, userID, params.ID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": request})
		}).
		POST("/", func(ctx *gin.Context) {
			var body types.CreateRequestRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := ctx.GetUint("id")
			db := db.GetDb()
			request, err := utils.CreateRequest(db, userID, &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": request})
		}).
		POST("/compute-fee", func(ctx *gin.Context) {
			var body types.ComputeFeeRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := ctx.GetUint("id")
			db := db.GetDb()
			details, policy, err := utils.PreviewFee(db, userID, &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"computed_fee":   details.Fee,
				"fee_details":    details,
				"policy_applied": policy,
			})
		}).
		PUT("/:id/approve", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.DecideRequestRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			request, err := utils.DecideRequest(db, params.ID, &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": request})
		}).
		DELETE("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := ctx.GetUint("id")
			db := db.GetDb()
			if err := utils.DeleteRequest(db, userID, params.ID); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Request deleted"})
		}).
		POST("/delete-multiple", func(ctx *gin.Context) {
			var body types.DeleteRequestsRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := ctx.GetUint("id")
			db := db.GetDb()
			deleted, err := utils.DeleteRequests(db, userID, body.RequestIDs)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Requests deleted", "count": deleted})
		})
	return g
}
