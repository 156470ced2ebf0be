package store

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickbite/merchant/internal/enum"
	"github.com/quickbite/merchant/internal/model"
)

// SeedOrders returns the demo dataset the simulator server starts with:
// two pending orders a merchant can accept or reject.
func SeedOrders() []model.Order {
	return []model.Order{
		{
			ID:         "20231027001",
			Customer:   "Wang Xiaoming",
			Phone:      "0912-345-678",
			Address:    "No. 1, Sec. 1, Xinyi Rd, Xinyi District, Taipei",
			TargetTime: "12:30 PM",
			Amount:     decimal.NewFromInt(180),
			Status:     enum.OrderStatusPending,
			Items: []model.LineItem{
				{Name: "Fried Chicken Leg Bento", Quantity: 1, UnitPrice: decimal.NewFromInt(120)},
				{Name: "Bubble Milk Tea (half sugar, less ice)", Quantity: 1, UnitPrice: decimal.NewFromInt(60)},
			},
			Note: "No chili on the bento, reusable cup for the tea please.",
		},
		{
			ID:         "20231027002",
			Customer:   "Lin Dahua",
			Phone:      "0987-654-321",
			Address:    "No. 10, Sec. 2, Xianmin Blvd, Banqiao District, New Taipei",
			TargetTime: "01:00 PM",
			Amount:     decimal.NewFromInt(520),
			Status:     enum.OrderStatusPending,
			Items: []model.LineItem{
				{Name: "Spaghetti Bolognese", Quantity: 2, UnitPrice: decimal.NewFromInt(150)},
				{Name: "Caesar Salad", Quantity: 1, UnitPrice: decimal.NewFromInt(90)},
				{Name: "Soup of the Day", Quantity: 2, UnitPrice: decimal.NewFromInt(65)},
			},
			Note: "Please pack the dressing separately, thanks.",
		},
	}
}

// SeedMenu returns a small starting menu matching the demo orders.
func SeedMenu() []model.MenuItem {
	items := []model.MenuItem{
		{Name: "Fried Chicken Leg Bento", Price: decimal.NewFromInt(120), Stock: 30, Category: "Bento"},
		{Name: "Bubble Milk Tea", Price: decimal.NewFromInt(60), Stock: 50, Category: "Drinks"},
		{Name: "Spaghetti Bolognese", Price: decimal.NewFromInt(150), Stock: 20, Category: "Pasta"},
		{Name: "Caesar Salad", Price: decimal.NewFromInt(90), Stock: 15, Category: "Salad"},
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].IsActive = true
	}
	return items
}
