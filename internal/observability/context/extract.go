package context

import (
	"strings"

	"github.com/gin-gonic/gin"
)

func RequestIDFromGin(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if ctx := c.Request.Context(); ctx != nil {
		if value := RequestIDFromContext(ctx); value != "" {
			return value
		}
	}
	if value := strings.TrimSpace(c.GetString("request_id")); value != "" {
		return value
	}
	return ""
}

func CustomerFromGin(c *gin.Context) (string, string) {
	if c == nil {
		return "", ""
	}
	if customerID, customerEmail := CustomerFromContext(c.Request.Context()); customerID != "" || customerEmail != "" {
		return customerID, customerEmail
	}
	return strings.TrimSpace(c.GetString("customer_id")), strings.TrimSpace(c.GetString("customer_email"))
}
