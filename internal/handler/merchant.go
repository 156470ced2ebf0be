package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/quickbite/merchant/internal/enum"
	"github.com/quickbite/merchant/internal/model"
	"github.com/quickbite/merchant/internal/store"
	"github.com/shopspring/decimal"
)

// OrderStore defines the store methods needed by the merchant order
// endpoints. Satisfied by *store.OrderStore.
type OrderStore interface {
	Pending(ctx context.Context) ([]model.Order, error)
	Decide(ctx context.Context, id, status, reason string) error
}

// MenuStore defines the store methods needed by the menu endpoints.
// Satisfied by *store.MenuStore.
type MenuStore interface {
	List(ctx context.Context) ([]model.MenuItem, error)
	Create(ctx context.Context, item model.MenuItem) (model.MenuItem, error)
	Update(ctx context.Context, item model.MenuItem) (model.MenuItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderFeed receives the pending list whenever a decision changes it.
// Satisfied by *ws.Hub.
type OrderFeed interface {
	PublishPending(orders []model.Order)
}

// MerchantHandler handles the merchant back-office endpoints.
type MerchantHandler struct {
	orders OrderStore
	menu   MenuStore
	feed   OrderFeed
}

// NewMerchantHandler creates a new MerchantHandler. feed may be nil when no
// push channel is wired (tests, CLI-only runs).
func NewMerchantHandler(orders OrderStore, menu MenuStore, feed OrderFeed) *MerchantHandler {
	return &MerchantHandler{orders: orders, menu: menu, feed: feed}
}

// RegisterRoutes registers merchant endpoints on the given Chi router.
// Expected to be mounted under /api/merchant.
func (h *MerchantHandler) RegisterRoutes(r chi.Router) {
	r.Get("/orders/pending", h.PendingOrders)
	r.Post("/orders/accept", h.AcceptOrder)
	r.Post("/orders/reject", h.RejectOrder)
	r.Get("/menu", h.ListMenu)
	r.Post("/menu/create", h.CreateMenuItem)
	r.Post("/menu/update", h.UpdateMenuItem)
	r.Post("/menu/delete", h.DeleteMenuItem)
}

// --- Request / Response types ---

type acceptOrderRequest struct {
	OrderID string `json:"order_id"`
}

type rejectOrderRequest struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

type createMenuItemRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int32           `json:"stock"`
	Category string          `json:"category"`
	Image    string          `json:"image"`
}

type updateMenuItemRequest struct {
	MenuID   uuid.UUID       `json:"menu_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int32           `json:"stock"`
	IsActive bool            `json:"is_active"`
}

type deleteMenuItemRequest struct {
	MenuID uuid.UUID `json:"menu_id"`
}

type pendingOrdersResponse struct {
	Orders []model.Order `json:"orders"`
}

type menuResponse struct {
	Menu []model.MenuItem `json:"menu"`
}

// --- Order handlers ---

// PendingOrders returns every order still awaiting a decision.
func (h *MerchantHandler) PendingOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.Pending(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, pendingOrdersResponse{Orders: orders})
}

// AcceptOrder moves a pending order to accepted.
func (h *MerchantHandler) AcceptOrder(w http.ResponseWriter, r *http.Request) {
	var req acceptOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OrderID == "" {
		writeError(w, http.StatusBadRequest, "order_id is required")
		return
	}

	if err := h.decide(r.Context(), w, req.OrderID, enum.OrderStatusAccepted, ""); err != nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "order accepted",
		"status":  enum.OrderStatusAccepted,
	})
}

// RejectOrder moves a pending order to rejected. The reason is recorded
// server-side; the order record itself never carries it.
func (h *MerchantHandler) RejectOrder(w http.ResponseWriter, r *http.Request) {
	var req rejectOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OrderID == "" {
		writeError(w, http.StatusBadRequest, "order_id is required")
		return
	}

	if err := h.decide(r.Context(), w, req.OrderID, enum.OrderStatusRejected, req.Reason); err != nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "order rejected"})
}

// decide applies the transition and republishes the pending list on success.
// On failure it writes the error response and returns a non-nil error so
// callers know to stop.
func (h *MerchantHandler) decide(ctx context.Context, w http.ResponseWriter, id, status, reason string) error {
	err := h.orders.Decide(ctx, id, status, reason)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order not found")
		return err
	case errors.Is(err, store.ErrAlreadyDecided):
		writeError(w, http.StatusConflict, "order already decided")
		return err
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
		return err
	}

	if h.feed != nil {
		orders, err := h.orders.Pending(ctx)
		if err != nil {
			log.Printf("ERROR: refresh pending after decision: %v", err)
			return nil
		}
		h.feed.PublishPending(orders)
	}
	return nil
}

// --- Menu handlers ---

// ListMenu returns the full menu.
func (h *MerchantHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if items == nil {
		items = []model.MenuItem{}
	}
	writeJSON(w, http.StatusOK, menuResponse{Menu: items})
}

// CreateMenuItem adds a dish to the menu.
func (h *MerchantHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req createMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Price.IsNegative() {
		writeError(w, http.StatusBadRequest, "price must not be negative")
		return
	}
	if req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "stock must not be negative")
		return
	}

	if _, err := h.menu.Create(r.Context(), model.MenuItem{
		Name:     req.Name,
		Price:    req.Price,
		Stock:    req.Stock,
		Category: req.Category,
		Image:    req.Image,
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "menu item created"})
}

// UpdateMenuItem overwrites a dish's mutable fields.
func (h *MerchantHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req updateMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MenuID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "menu_id is required")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Price.IsNegative() || req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "price and stock must not be negative")
		return
	}

	if _, err := h.menu.Update(r.Context(), model.MenuItem{
		ID:       req.MenuID,
		Name:     req.Name,
		Price:    req.Price,
		Stock:    req.Stock,
		IsActive: req.IsActive,
	}); err != nil {
		if errors.Is(err, store.ErrMenuItemNotFound) {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "menu item updated"})
}

// DeleteMenuItem removes a dish from the menu.
func (h *MerchantHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	var req deleteMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MenuID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "menu_id is required")
		return
	}

	if err := h.menu.Delete(r.Context(), req.MenuID); err != nil {
		if errors.Is(err, store.ErrMenuItemNotFound) {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "menu item deleted"})
}
