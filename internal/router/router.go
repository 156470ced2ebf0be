package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/quickbite/merchant/internal/config"
	"github.com/quickbite/merchant/internal/handler"
	mw "github.com/quickbite/merchant/internal/middleware"
	"github.com/quickbite/merchant/internal/store"
	"github.com/quickbite/merchant/internal/ws"
)

// Stores bundles the in-memory repositories the simulator serves from.
type Stores struct {
	Users    *store.UserStore
	Captchas *store.CaptchaStore
	Orders   *store.OrderStore
	Menu     *store.MenuStore
}

// New creates a Chi router with all merchant API routes wired up.
// hub may be nil to run without the push feed.
func New(cfg *config.Config, stores Stores, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	authHandler := handler.NewAuthHandler(stores.Users, stores.Captchas, cfg.JWTSecret)

	var feed handler.OrderFeed
	if hub != nil {
		feed = hub

		// WebSocket route (handles auth internally via query param)
		r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWS(hub, cfg.JWTSecret, w, r)
		})
	}
	merchantHandler := handler.NewMerchantHandler(stores.Orders, stores.Menu, feed)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		authHandler.RegisterPublicRoutes(r)

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(cfg.JWTSecret))
			authHandler.RegisterProtectedRoutes(r)
			r.Route("/merchant", merchantHandler.RegisterRoutes)
		})
	})

	return r
}
