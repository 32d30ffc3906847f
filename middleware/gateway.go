package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// GatewayWebhookAuth verifies the payment gateway callback signature: an
// HMAC-SHA256 of the raw body under GATEWAY_WEBHOOK_SECRET, sent in the
// X-Gateway-Signature header. Skipped in sandbox/dev mode.
func GatewayWebhookAuth() gin.HandlerFunc {
	secret := os.Getenv("GATEWAY_WEBHOOK_SECRET")
	mode := strings.ToLower(os.Getenv("GATEWAY_MODE"))

	return func(c *gin.Context) {
		if mode == "sandbox" || mode == "dev" {
			c.Next()
			return
		}
		if secret == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gateway webhook secret not configured"})
			c.Abort()
			return
		}

		provided := c.GetHeader("X-Gateway-Signature")
		if provided == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "missing gateway signature"})
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			c.Abort()
			return
		}
		// Hand the body back to the handler.
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		calculated := hex.EncodeToString(mac.Sum(nil))

		if !hmac.Equal([]byte(strings.ToLower(provided)), []byte(calculated)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid gateway signature"})
			c.Abort()
			return
		}

		c.Next()
	}
}
