package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is a single dish line inside an order.
type LineItem struct {
	Name      string          `json:"name"`
	Quantity  int32           `json:"qty"`
	UnitPrice decimal.Decimal `json:"price"`
}

// Order is a customer order as seen by the merchant back office.
// Status is one of the enum.OrderStatus* values; the transition out of
// pending is one-way and terminal.
type Order struct {
	ID         string          `json:"id"`
	Customer   string          `json:"customer"`
	Phone      string          `json:"phone"`
	Address    string          `json:"address"`
	TargetTime string          `json:"time"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	Items      []LineItem      `json:"items"`
	Note       string          `json:"note,omitempty"`
}

// Clone returns a deep copy so stores can hand out orders without
// exposing their backing slices to mutation.
func (o Order) Clone() Order {
	c := o
	if o.Items != nil {
		c.Items = make([]LineItem, len(o.Items))
		copy(c.Items, o.Items)
	}
	return c
}

// MenuItem is a dish on the merchant's menu. Lifecycle lives entirely on
// the server side; clients issue create/update/delete and cache nothing.
type MenuItem struct {
	ID       uuid.UUID       `json:"menu_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int32           `json:"stock"`
	Category string          `json:"category"`
	IsActive bool            `json:"is_active"`
	Image    string          `json:"image,omitempty"`
}

// User is a merchant back-office account.
type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	DisplayName    string
	HashedPassword string
}
