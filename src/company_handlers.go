package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"velorent/src/db"
	"velorent/src/types"
	"velorent/src/utils"
)

func companyHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/:id/policies", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			policy, err := utils.ResolvePolicy(ctx, db, params.ID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": policy})
		})
	return g
}
