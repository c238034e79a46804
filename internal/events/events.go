package events

// Return lifecycle event types recorded in the outbox.
const (
	EventReturnRequestCreated = "return_request_created"
	EventReturnStatusChanged  = "return_status_changed"
)

// ReturnRequestCreatedPayload captures the minimal data a downstream consumer
// needs to notify the customer about a new request.
type ReturnRequestCreatedPayload struct {
	RequestID  string `json:"request_id"`
	OrderID    string `json:"order_id"`
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Status     string `json:"status"`
	TotalPrice int64  `json:"total_price"`
	ItemCount  int    `json:"item_count"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p ReturnRequestCreatedPayload) ToMap() map[string]any {
	return map[string]any{
		"request_id":  p.RequestID,
		"order_id":    p.OrderID,
		"user_id":     p.UserID,
		"email":       p.Email,
		"status":      p.Status,
		"total_price": p.TotalPrice,
		"item_count":  p.ItemCount,
	}
}

// ReturnStatusChangedPayload describes a status transition on an existing request.
type ReturnStatusChangedPayload struct {
	RequestID  string `json:"request_id"`
	OrderID    string `json:"order_id"`
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p ReturnStatusChangedPayload) ToMap() map[string]any {
	return map[string]any{
		"request_id":  p.RequestID,
		"order_id":    p.OrderID,
		"user_id":     p.UserID,
		"email":       p.Email,
		"from_status": p.FromStatus,
		"to_status":   p.ToStatus,
	}
}
