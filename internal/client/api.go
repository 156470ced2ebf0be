package client

import (
	"context"

	"github.com/google/uuid"
	"github.com/quickbite/merchant/internal/model"
	"github.com/shopspring/decimal"
)

// --- Auth ---

type CaptchaResponse struct {
	CaptchaToken string `json:"captcha_token"`
	Image        string `json:"image"`
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Email           string `json:"email"`
}

type RegisterResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	CaptchaAnswer string `json:"captcha_answer"`
	CaptchaToken  string `json:"captcha_token"`
}

type LoginResponse struct {
	Message   string `json:"message"`
	Token     string `json:"token"`
	User      string `json:"user"`
	ExpiresIn int    `json:"expires_in"`
}

type ProfileResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}

type ChangeUsernameResponse struct {
	Message     string `json:"message"`
	NewUsername string `json:"new_username"`
	Token       string `json:"token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Captcha fetches a fresh captcha challenge.
func (c *Client) Captcha(ctx context.Context) (*CaptchaResponse, error) {
	var resp CaptchaResponse
	if err := c.get(ctx, "/api/captcha", &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a merchant account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.post(ctx, "/api/register", req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates and stores the returned token in the session.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, "/api/login", req, &resp, false); err != nil {
		return nil, err
	}
	if err := c.session.SetToken(resp.Token); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout drops the stored token. Purely client-side; the server keeps no
// session state to tear down.
func (c *Client) Logout() error {
	return c.session.RemoveToken()
}

// Profile fetches the authenticated account's details.
func (c *Client) Profile(ctx context.Context) (*ProfileResponse, error) {
	var resp ProfileResponse
	if err := c.get(ctx, "/api/profile", &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChangeUsername renames the account. The server rotates the token on
// rename, so the session is updated with the fresh one.
func (c *Client) ChangeUsername(ctx context.Context, newUsername string) (*ChangeUsernameResponse, error) {
	var resp ChangeUsernameResponse
	body := map[string]string{"new_username": newUsername}
	if err := c.post(ctx, "/api/user/username", body, &resp, true); err != nil {
		return nil, err
	}
	if err := c.session.SetToken(resp.Token); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChangePassword replaces the account password.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) error {
	body := map[string]string{
		"old_password":     oldPassword,
		"new_password":     newPassword,
		"confirm_password": confirmPassword,
	}
	return c.post(ctx, "/api/user/password", body, nil, true)
}

// --- Orders ---

type AcceptOrderResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// PendingOrders fetches the orders awaiting a decision.
func (c *Client) PendingOrders(ctx context.Context) ([]model.Order, error) {
	var resp struct {
		Orders []model.Order `json:"orders"`
	}
	if err := c.get(ctx, "/api/merchant/orders/pending", &resp, true); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// AcceptOrder accepts a pending order.
func (c *Client) AcceptOrder(ctx context.Context, orderID string) (*AcceptOrderResponse, error) {
	var resp AcceptOrderResponse
	body := map[string]string{"order_id": orderID}
	if err := c.post(ctx, "/api/merchant/orders/accept", body, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RejectOrder rejects a pending order. The reason travels to the server,
// which records it outside the order record.
func (c *Client) RejectOrder(ctx context.Context, orderID, reason string) error {
	body := map[string]string{"order_id": orderID, "reason": reason}
	return c.post(ctx, "/api/merchant/orders/reject", body, nil, true)
}

// --- Menu ---

type CreateMenuItemRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int32           `json:"stock"`
	Category string          `json:"category"`
	Image    string          `json:"image,omitempty"`
}

type UpdateMenuItemRequest struct {
	MenuID   uuid.UUID       `json:"menu_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int32           `json:"stock"`
	IsActive bool            `json:"is_active"`
}

// Menu fetches the full menu.
func (c *Client) Menu(ctx context.Context) ([]model.MenuItem, error) {
	var resp struct {
		Menu []model.MenuItem `json:"menu"`
	}
	if err := c.get(ctx, "/api/merchant/menu", &resp, true); err != nil {
		return nil, err
	}
	return resp.Menu, nil
}

// CreateMenuItem adds a dish to the menu.
func (c *Client) CreateMenuItem(ctx context.Context, req CreateMenuItemRequest) error {
	return c.post(ctx, "/api/merchant/menu/create", req, nil, true)
}

// UpdateMenuItem overwrites a dish's mutable fields.
func (c *Client) UpdateMenuItem(ctx context.Context, req UpdateMenuItemRequest) error {
	return c.post(ctx, "/api/merchant/menu/update", req, nil, true)
}

// DeleteMenuItem removes a dish from the menu.
func (c *Client) DeleteMenuItem(ctx context.Context, menuID uuid.UUID) error {
	body := map[string]uuid.UUID{"menu_id": menuID}
	return c.post(ctx, "/api/merchant/menu/delete", body, nil, true)
}
