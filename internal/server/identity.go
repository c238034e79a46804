package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/returnly/internal/observability/context"
)

const (
	headerCustomerEmail = "X-Customer-Email"
	headerCustomerID    = "X-Customer-Id"
)

// CustomerRequired resolves the calling customer from the identity headers set
// by the storefront gateway. The email is mandatory; the account id travels
// along when present.
func (s *Server) CustomerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.GetHeader(headerCustomerEmail))
		if email == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		customerID := strings.TrimSpace(c.GetHeader(headerCustomerID))

		ctx := obscontext.WithCustomer(c.Request.Context(), customerID, email)
		c.Request = c.Request.WithContext(ctx)
		c.Set("customer_id", customerID)
		c.Set("customer_email", email)
		c.Next()
	}
}
