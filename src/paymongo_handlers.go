package main

import (
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"velorent/src/db"
	"velorent/src/lib"
	"velorent/src/utils"
)

const webhookDedupTTL = 24 * time.Hour

// paymongoWebhookHandlers receives gateway event callbacks. The endpoint is
// unauthenticated; it trusts only identifiers from the payload and always
// re-derives state through the reconciler. Unknown or malformed events are
// acknowledged with 200 so the gateway stops retrying them.
func paymongoWebhookHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/paymongo", func(ctx *gin.Context) {
			raw, err := io.ReadAll(ctx.Request.Body)
			if err != nil || !gjson.ValidBytes(raw) {
				ctx.JSON(http.StatusOK, gin.H{"status": "ignored", "message": "Invalid payload"})
				return
			}
			event := gjson.ParseBytes(raw)
			eventID := event.Get("data.id").String()
			eventType := event.Get("data.attributes.type").String()

			// Redis-side replay suppression. When redis is down events pass
			// through; reconciliation itself is idempotent.
			if rdb := lib.GetRedisClient(); rdb != nil && eventID != "" {
				ok, err := rdb.SetNX(ctx, "webhook:paymongo:"+eventID, 1, webhookDedupTTL).Result()
				if err == nil && !ok {
					ctx.JSON(http.StatusOK, gin.H{"status": "success", "message": "Webhook processed"})
					return
				}
			}

			data := event.Get("data.attributes.data")
			paymentIntentID := data.Get("attributes.payment_intent_id").String()
			if paymentIntentID == "" {
				paymentIntentID = data.Get("attributes.payment_intent.id").String()
			}
			sourceID := data.Get("id").String()
			sourceType := data.Get("attributes.source.type").String()
			if sourceType == "" {
				sourceType = data.Get("attributes.payments.0.attributes.source.type").String()
			}

			dbconn := db.GetDb()
			switch eventType {
			case "payment.paid", "checkout_session.completed":
				err = utils.ReconcilePaidEvent(ctx, dbconn, paymentIntentID, sourceID, sourceType)
			case "payment.failed":
				err = utils.MarkPaymentFailed(dbconn, paymentIntentID, sourceID)
			default:
				log.Printf("unhandled paymongo event type %q (event %s)\n", eventType, eventID)
			}
			if err != nil {
				log.Printf("webhook processing failed for event %s: %s\n", eventID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Webhook processing failed"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"status": "success", "message": "Webhook processed"})
		})
	return g
}
