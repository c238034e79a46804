package context

import "context"

type contextKey string

const (
	requestIDKey     contextKey = "observability_request_id"
	customerIDKey    contextKey = "observability_customer_id"
	customerEmailKey contextKey = "observability_customer_email"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

func WithCustomer(ctx context.Context, customerID, customerEmail string) context.Context {
	if ctx == nil {
		return ctx
	}
	if customerID != "" {
		ctx = context.WithValue(ctx, customerIDKey, customerID)
	}
	if customerEmail != "" {
		ctx = context.WithValue(ctx, customerEmailKey, customerEmail)
	}
	return ctx
}

func CustomerFromContext(ctx context.Context) (string, string) {
	if ctx == nil {
		return "", ""
	}
	customerID, _ := ctx.Value(customerIDKey).(string)
	customerEmail, _ := ctx.Value(customerEmailKey).(string)
	return customerID, customerEmail
}
