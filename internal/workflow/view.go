package workflow

import (
	"fmt"

	"github.com/quickbite/merchant/internal/model"
	"github.com/shopspring/decimal"
)

// View models are pure projections for whatever renders the board; they
// carry strings only so the rendering layer stays toolkit-agnostic.

// OrderRow is one line of the pending list.
type OrderRow struct {
	ID         string
	Customer   string
	Amount     string
	TargetTime string
}

// ListView is the pending list plus the refresh indicator text.
type ListView struct {
	Rows         []OrderRow
	Empty        bool
	RefreshedAgo string
}

// NewListView projects a snapshot into a ListView.
func NewListView(s Snapshot) ListView {
	v := ListView{
		Empty:        len(s.Orders) == 0,
		RefreshedAgo: fmt.Sprintf("%ds ago", int(s.Elapsed.Seconds())),
	}
	for _, o := range s.Orders {
		v.Rows = append(v.Rows, OrderRow{
			ID:         o.ID,
			Customer:   o.Customer,
			Amount:     o.Amount.String(),
			TargetTime: o.TargetTime,
		})
	}
	return v
}

// DetailLine is one dish line of the detail view, with its line total.
type DetailLine struct {
	Name     string
	Quantity int32
	Total    string
}

// DetailView is the full projection of a single order.
type DetailView struct {
	ID         string
	Customer   string
	Phone      string
	Address    string
	TargetTime string
	Amount     string
	Note       string
	Lines      []DetailLine
}

// NewDetailView projects an order into a DetailView.
func NewDetailView(o model.Order) DetailView {
	v := DetailView{
		ID:         o.ID,
		Customer:   o.Customer,
		Phone:      o.Phone,
		Address:    o.Address,
		TargetTime: o.TargetTime,
		Amount:     o.Amount.String(),
		Note:       o.Note,
	}
	if v.Note == "" {
		v.Note = "(none)"
	}
	for _, item := range o.Items {
		total := item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity))
		v.Lines = append(v.Lines, DetailLine{
			Name:     item.Name,
			Quantity: item.Quantity,
			Total:    total.String(),
		})
	}
	return v
}
