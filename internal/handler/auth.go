package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/quickbite/merchant/internal/auth"
	"github.com/quickbite/merchant/internal/middleware"
	"github.com/quickbite/merchant/internal/model"
	"github.com/quickbite/merchant/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// UserStore defines the store methods needed by auth handlers.
// Satisfied by *store.UserStore; narrow interface for testability.
type UserStore interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) (model.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hashed string) error
}

// CaptchaStore defines the captcha methods needed by auth handlers.
// Satisfied by *store.CaptchaStore.
type CaptchaStore interface {
	Issue(ctx context.Context, answer string) string
	Redeem(ctx context.Context, token, answer string) bool
}

// AuthHandler handles registration, login, and account endpoints.
type AuthHandler struct {
	users     UserStore
	captchas  CaptchaStore
	jwtSecret string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users UserStore, captchas CaptchaStore, jwtSecret string) *AuthHandler {
	return &AuthHandler{users: users, captchas: captchas, jwtSecret: jwtSecret}
}

// RegisterPublicRoutes registers the unauthenticated endpoints.
func (h *AuthHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/captcha", h.Captcha)
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
}

// RegisterProtectedRoutes registers the endpoints that require a bearer token.
func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/profile", h.Profile)
	r.Post("/user/username", h.ChangeUsername)
	r.Post("/user/password", h.ChangePassword)
}

// --- Request / Response types ---

type registerRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Email           string `json:"email"`
}

type loginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	CaptchaAnswer string `json:"captcha_answer"`
	CaptchaToken  string `json:"captcha_token"`
}

type changeUsernameRequest struct {
	NewUsername string `json:"new_username"`
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type captchaResponse struct {
	CaptchaToken string `json:"captcha_token"`
	Image        string `json:"image"`
}

type loginResponse struct {
	Message   string `json:"message"`
	Token     string `json:"token"`
	User      string `json:"user"`
	ExpiresIn int    `json:"expires_in"`
}

type profileResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}

type changeUsernameResponse struct {
	Message     string `json:"message"`
	NewUsername string `json:"new_username"`
	Token       string `json:"token"`
	ExpiresIn   int    `json:"expires_in"`
}

// --- Handlers ---

// Captcha issues a single-use challenge. The image is a base64 SVG data URI;
// the expected answer is kept server-side keyed by captcha_token.
func (h *AuthHandler) Captcha(w http.ResponseWriter, r *http.Request) {
	code := fmt.Sprintf("%04d", rand.Intn(10000))
	token := h.captchas.Issue(r.Context(), code)

	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="120" height="40"><text x="12" y="28" font-size="24" letter-spacing="6">%s</text></svg>`,
		code,
	)
	image := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))

	writeJSON(w, http.StatusOK, captchaResponse{CaptchaToken: token, Image: image})
}

// Register creates a merchant account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "username, password and email are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	if req.Password != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "passwords do not match")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user, err := h.users.Create(r.Context(), model.User{
		Username:       req.Username,
		Email:          req.Email,
		DisplayName:    req.Username,
		HashedPassword: string(hashed),
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "username already taken")
		case errors.Is(err, store.ErrEmailTaken):
			writeError(w, http.StatusConflict, "email already registered")
		default:
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message":  "registration successful",
		"username": user.Username,
	})
}

// Login verifies the captcha and credentials and issues a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	if !h.captchas.Redeem(r.Context(), req.CaptchaToken, req.CaptchaAnswer) {
		writeError(w, http.StatusUnauthorized, "invalid captcha")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret, user.ID, user.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message:   "login successful",
		Token:     token,
		User:      user.Username,
		ExpiresIn: int(auth.TokenTTL.Seconds()),
	})
}

// Profile returns the authenticated user's account details.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	})
}

// ChangeUsername renames the account and issues a fresh token carrying the
// new username.
func (h *AuthHandler) ChangeUsername(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req changeUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.NewUsername = strings.TrimSpace(req.NewUsername)
	if req.NewUsername == "" {
		writeError(w, http.StatusBadRequest, "new_username is required")
		return
	}

	user, err := h.users.UpdateUsername(r.Context(), claims.UserID, req.NewUsername)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "username already taken")
		case errors.Is(err, store.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret, user.ID, user.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, changeUsernameResponse{
		Message:     "username updated",
		NewUsername: user.Username,
		Token:       token,
		ExpiresIn:   int(auth.TokenTTL.Seconds()),
	})
}

// ChangePassword replaces the account password after checking the old one.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NewPassword == "" || len(req.NewPassword) < 8 {
		writeError(w, http.StatusBadRequest, "new password must be at least 8 characters")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "passwords do not match")
		return
	}

	user, err := h.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.OldPassword)); err != nil {
		writeError(w, http.StatusUnauthorized, "old password is incorrect")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := h.users.UpdatePassword(r.Context(), user.ID, string(hashed)); err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// writeError emits the API's uniform error body: a single message field
// clients surface verbatim.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
