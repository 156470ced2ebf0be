package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/quickbite/merchant/internal/handler"
	"github.com/quickbite/merchant/internal/middleware"
	"github.com/quickbite/merchant/internal/store"
)

const testSecret = "test-secret"

// --- Helpers ---

func newAuthRouter(t *testing.T) (chi.Router, *store.UserStore, *store.CaptchaStore) {
	t.Helper()
	users := store.NewUserStore()
	captchas := store.NewCaptchaStore()
	h := handler.NewAuthHandler(users, captchas, testSecret)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		h.RegisterPublicRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(testSecret))
			h.RegisterProtectedRoutes(r)
		})
	})
	return r, users, captchas
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func register(t *testing.T, router http.Handler, username, password string) {
	t.Helper()
	rr := doJSON(t, router, "POST", "/api/register", "", map[string]string{
		"username":         username,
		"password":         password,
		"confirm_password": password,
		"email":            username + "@example.tw",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: status %d: %s", rr.Code, rr.Body.String())
	}
}

func login(t *testing.T, router http.Handler, captchas *store.CaptchaStore, username, password string) string {
	t.Helper()
	token := captchas.Issue(context.Background(), "1234")
	rr := doJSON(t, router, "POST", "/api/login", "", map[string]string{
		"username":       username,
		"password":       password,
		"captcha_answer": "1234",
		"captcha_token":  token,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login: status %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	jwt, _ := resp["token"].(string)
	if jwt == "" {
		t.Fatal("login response missing token")
	}
	return jwt
}

// --- Tests ---

func TestCaptchaEndpoint(t *testing.T) {
	router, _, _ := newAuthRouter(t)

	rr := doJSON(t, router, "GET", "/api/captcha", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d", rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp["captcha_token"] == "" || resp["image"] == "" {
		t.Errorf("captcha response: %v", resp)
	}
}

func TestRegisterValidation(t *testing.T) {
	router, _, _ := newAuthRouter(t)

	cases := []struct {
		name string
		body map[string]string
		want int
	}{
		{"missing fields", map[string]string{"username": "x"}, http.StatusBadRequest},
		{"short password", map[string]string{
			"username": "x", "password": "short", "confirm_password": "short", "email": "x@y.tw",
		}, http.StatusBadRequest},
		{"password mismatch", map[string]string{
			"username": "x", "password": "long-enough-1", "confirm_password": "long-enough-2", "email": "x@y.tw",
		}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doJSON(t, router, "POST", "/api/register", "", tc.body)
			if rr.Code != tc.want {
				t.Errorf("status: got %d, want %d (%s)", rr.Code, tc.want, rr.Body.String())
			}
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	router, _, _ := newAuthRouter(t)
	register(t, router, "bento-bar", "super-secret-pw")

	rr := doJSON(t, router, "POST", "/api/register", "", map[string]string{
		"username": "bento-bar", "password": "super-secret-pw",
		"confirm_password": "super-secret-pw", "email": "second@example.tw",
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", rr.Code)
	}
	if msg := decodeResponse(t, rr)["message"]; msg != "username already taken" {
		t.Errorf("message: %v", msg)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	router, _, captchas := newAuthRouter(t)
	register(t, router, "bento-bar", "super-secret-pw")

	token := captchas.Issue(context.Background(), "1234")
	rr := doJSON(t, router, "POST", "/api/login", "", map[string]string{
		"username": "bento-bar", "password": "wrong",
		"captcha_answer": "1234", "captcha_token": token,
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rr.Code)
	}
	if msg := decodeResponse(t, rr)["message"]; msg != "invalid credentials" {
		t.Errorf("message: %v", msg)
	}
}

func TestLoginCaptchaIsSingleUse(t *testing.T) {
	router, _, captchas := newAuthRouter(t)
	register(t, router, "bento-bar", "super-secret-pw")

	token := captchas.Issue(context.Background(), "1234")
	body := map[string]string{
		"username": "bento-bar", "password": "super-secret-pw",
		"captcha_answer": "1234", "captcha_token": token,
	}
	if rr := doJSON(t, router, "POST", "/api/login", "", body); rr.Code != http.StatusOK {
		t.Fatalf("first login: status %d", rr.Code)
	}
	// Replaying the same captcha token must fail.
	if rr := doJSON(t, router, "POST", "/api/login", "", body); rr.Code != http.StatusUnauthorized {
		t.Fatalf("replayed captcha: status %d, want 401", rr.Code)
	}
}

func TestProfileRequiresToken(t *testing.T) {
	router, _, _ := newAuthRouter(t)

	if rr := doJSON(t, router, "GET", "/api/profile", "", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status %d, want 401", rr.Code)
	}
	if rr := doJSON(t, router, "GET", "/api/profile", "garbage", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status %d, want 401", rr.Code)
	}
}

func TestProfileReturnsAccount(t *testing.T) {
	router, _, captchas := newAuthRouter(t)
	register(t, router, "bento-bar", "super-secret-pw")
	jwt := login(t, router, captchas, "bento-bar", "super-secret-pw")

	rr := doJSON(t, router, "GET", "/api/profile", jwt, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["username"] != "bento-bar" || resp["email"] != "bento-bar@example.tw" {
		t.Errorf("profile: %v", resp)
	}
}

func TestChangePasswordChecksOldPassword(t *testing.T) {
	router, _, captchas := newAuthRouter(t)
	register(t, router, "bento-bar", "super-secret-pw")
	jwt := login(t, router, captchas, "bento-bar", "super-secret-pw")

	rr := doJSON(t, router, "POST", "/api/user/password", jwt, map[string]string{
		"old_password": "nope", "new_password": "brand-new-pw-1", "confirm_password": "brand-new-pw-1",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("wrong old password: status %d, want 401", rr.Code)
	}

	rr = doJSON(t, router, "POST", "/api/user/password", jwt, map[string]string{
		"old_password": "super-secret-pw", "new_password": "brand-new-pw-1", "confirm_password": "brand-new-pw-1",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("change password: status %d: %s", rr.Code, rr.Body.String())
	}
	login(t, router, captchas, "bento-bar", "brand-new-pw-1")
}

func TestChangeUsernameIssuesNewToken(t *testing.T) {
	router, _, captchas := newAuthRouter(t)
	register(t, router, "bento-bar", "super-secret-pw")
	jwt := login(t, router, captchas, "bento-bar", "super-secret-pw")

	rr := doJSON(t, router, "POST", "/api/user/username", jwt, map[string]string{
		"new_username": "bento-palace",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["new_username"] != "bento-palace" {
		t.Errorf("new_username: %v", resp["new_username"])
	}
	fresh, _ := resp["token"].(string)
	if fresh == "" || fresh == jwt {
		t.Error("expected a rotated token")
	}

	rr = doJSON(t, router, "GET", "/api/profile", fresh, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("profile with rotated token: %d", rr.Code)
	}
	if decodeResponse(t, rr)["username"] != "bento-palace" {
		t.Error("profile does not reflect rename")
	}
}
