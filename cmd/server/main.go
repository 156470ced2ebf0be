package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/quickbite/merchant/internal/config"
	"github.com/quickbite/merchant/internal/router"
	"github.com/quickbite/merchant/internal/store"
	"github.com/quickbite/merchant/internal/ws"
)

// The simulator server: the merchant API backed by in-memory stores seeded
// with the demo dataset. Point merchantctl (or any client) at it.
func main() {
	cfg := config.Load()

	stores := router.Stores{
		Users:    store.NewUserStore(),
		Captchas: store.NewCaptchaStore(),
		Orders:   store.NewOrderStore(store.SeedOrders()...),
		Menu:     store.NewMenuStore(store.SeedMenu()...),
	}

	hub := ws.NewHub()
	go hub.Run()

	r := router.New(cfg, stores, hub)

	log.Printf("Starting merchant API simulator on :%s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal(err)
	}
}
