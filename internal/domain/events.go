package domain

// EventType names a real-time event pushed to connected clients.
type EventType string

const (
	EventNewOrder       EventType = "new-order"
	EventOrderStatus    EventType = "order-status-update"
	EventThresholdAlert EventType = "tool-threshold-alert"
)

// Event is a typed payload scoped to a role group. Delivery is best-effort
// and at-most-once per currently connected subscriber; there is no replay.
type Event struct {
	Type    EventType `json:"type"`
	Scope   Role      `json:"-"`
	Payload any       `json:"payload"`
}

type NewOrderPayload struct {
	OrderID    int32  `json:"order_id"`
	Tool       string `json:"tool"`
	Quantity   int32  `json:"quantity"`
	Supervisor string `json:"supervisor"`
	Company    string `json:"company"`
}

type OrderStatusPayload struct {
	OrderID int32       `json:"order_id"`
	Status  OrderStatus `json:"status"`
	Tool    string      `json:"tool"`
}

type ThresholdAlertPayload struct {
	Tool           string  `json:"tool"`
	RemainingLife  float64 `json:"remaining_life"`
	ThresholdLimit float64 `json:"threshold_limit"`
	ShopName       string  `json:"shop_name"`
}
