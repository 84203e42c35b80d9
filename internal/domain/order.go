package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusFulfilled OrderStatus = "fulfilled"
)

// CanTransitionTo encodes the order pipeline: pending may move to approved
// or rejected, approved may move to fulfilled, rejected and fulfilled are
// terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusApproved || next == OrderStatusRejected
	case OrderStatusApproved:
		return next == OrderStatusFulfilled
	}
	return false
}

// Order is a procurement request from a supervisor to the shopkeeper that
// owns the referenced tool.
type Order struct {
	ID           int32       `json:"id"`
	SupervisorID int32       `json:"supervisor_id"`
	Supervisor   *User       `json:"supervisor,omitempty"`
	ShopkeeperID int32       `json:"shopkeeper_id"`
	Shopkeeper   *User       `json:"shopkeeper,omitempty"`
	ToolID       int32       `json:"tool_id"`
	Tool         *Tool       `json:"tool,omitempty"`
	Quantity     int32       `json:"quantity"`
	Notes        string      `json:"notes"`
	Status       OrderStatus `json:"status"`
	ApprovedAt   *time.Time  `json:"approved_at,omitempty"`
	FulfilledAt  *time.Time  `json:"fulfilled_at,omitempty"`
	CreatedOn    time.Time   `json:"created_on"`
}
