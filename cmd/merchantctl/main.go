package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/quickbite/merchant/internal/client"
	"github.com/quickbite/merchant/internal/config"
	"github.com/quickbite/merchant/internal/session"
	"github.com/quickbite/merchant/internal/workflow"
	"github.com/shopspring/decimal"
)

const usage = `merchantctl <command> [flags]

Commands:
  login     -username -password   authenticate and store the token
  logout                          drop the stored token
  profile                         show the logged-in account
  orders                          list pending orders once
  watch                           follow pending orders until interrupted
  accept    -id                   accept a pending order
  reject    -id -reason           reject a pending order
  menu      list|create|update|delete
`

func main() {
	log.SetFlags(0)
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("merchantctl: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errors.New("missing command")
	}

	cfg := config.Load()

	store, err := session.NewFileStore()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	sess, err := session.New(store)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	api := client.New(cfg.BaseURL, sess)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "login":
		return cmdLogin(ctx, api, args[1:])
	case "logout":
		return api.Logout()
	case "profile":
		return cmdProfile(ctx, api)
	case "orders":
		return cmdOrders(ctx, api)
	case "watch":
		return cmdWatch(ctx, api, cfg)
	case "accept":
		return cmdAccept(ctx, api, args[1:])
	case "reject":
		return cmdReject(ctx, api, args[1:])
	case "menu":
		return cmdMenu(ctx, api, args[1:])
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func cmdLogin(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "merchant username")
	password := fs.String("password", "", "merchant password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return errors.New("login: -username and -password are required")
	}

	challenge, err := api.Captcha(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Open the captcha image in a browser:")
	fmt.Println(challenge.Image)
	fmt.Print("Captcha answer: ")

	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read captcha answer: %w", err)
	}

	resp, err := api.Login(ctx, client.LoginRequest{
		Username:      *username,
		Password:      *password,
		CaptchaAnswer: strings.TrimSpace(answer),
		CaptchaToken:  challenge.CaptchaToken,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s (token valid for %ds)\n", resp.Message, resp.ExpiresIn)
	return nil
}

func cmdProfile(ctx context.Context, api *client.Client) error {
	p, err := api.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("username:     %s\n", p.Username)
	fmt.Printf("display name: %s\n", p.DisplayName)
	fmt.Printf("email:        %s\n", p.Email)
	return nil
}

func cmdOrders(ctx context.Context, api *client.Client) error {
	orders, err := api.PendingOrders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Println("no pending orders")
		return nil
	}
	for _, o := range orders {
		fmt.Printf("%s  %-12s %8s  due %s\n", o.ID, o.Customer, o.Amount.String(), o.TargetTime)
	}
	return nil
}

// cmdWatch follows the pending list until the context is cancelled. The full
// list is reprinted on refresh snapshots; elapsed ticks only update the
// status line.
func cmdWatch(ctx context.Context, api *client.Client, cfg *config.Config) error {
	board := workflow.NewBoard(client.NewSource(api))
	refresher := workflow.NewRefresher(board, cfg.RefreshInterval)

	snapshots := refresher.Subscribe()
	if err := refresher.Start(ctx); err != nil {
		return err
	}
	defer refresher.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case snap := <-snapshots:
			view := workflow.NewListView(snap)
			if snap.Elapsed > 0 {
				fmt.Printf("\rrefreshed %s ", view.RefreshedAgo)
				continue
			}
			fmt.Printf("\r-- pending orders --\n")
			if view.Empty {
				fmt.Println("(none)")
				continue
			}
			for _, row := range view.Rows {
				fmt.Printf("%s  %-12s %8s  due %s\n", row.ID, row.Customer, row.Amount, row.TargetTime)
			}
		}
	}
}

func cmdAccept(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("accept", flag.ExitOnError)
	id := fs.String("id", "", "order id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("accept: -id is required")
	}
	resp, err := api.AcceptOrder(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Println(resp.Message)
	return nil
}

func cmdReject(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("reject", flag.ExitOnError)
	id := fs.String("id", "", "order id")
	reason := fs.String("reason", "", "rejection reason sent to the customer")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("reject: -id is required")
	}
	if err := api.RejectOrder(ctx, *id, *reason); err != nil {
		return err
	}
	fmt.Println("order rejected")
	return nil
}

func cmdMenu(ctx context.Context, api *client.Client, args []string) error {
	if len(args) == 0 {
		return errors.New("menu: expected list, create, update or delete")
	}
	switch args[0] {
	case "list":
		items, err := api.Menu(ctx)
		if err != nil {
			return err
		}
		for _, item := range items {
			state := "active"
			if !item.IsActive {
				state = "inactive"
			}
			fmt.Printf("%s  %-24s %8s  stock %3d  %s\n", item.ID, item.Name, item.Price.String(), item.Stock, state)
		}
		return nil

	case "create":
		fs := flag.NewFlagSet("menu create", flag.ExitOnError)
		name := fs.String("name", "", "dish name")
		price := fs.String("price", "0", "unit price")
		stock := fs.Int("stock", 0, "initial stock")
		category := fs.String("category", "", "menu category")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		p, err := decimal.NewFromString(*price)
		if err != nil {
			return fmt.Errorf("menu create: bad price: %w", err)
		}
		if err := api.CreateMenuItem(ctx, client.CreateMenuItemRequest{
			Name:     *name,
			Price:    p,
			Stock:    int32(*stock),
			Category: *category,
		}); err != nil {
			return err
		}
		fmt.Println("menu item created")
		return nil

	case "update":
		fs := flag.NewFlagSet("menu update", flag.ExitOnError)
		id := fs.String("id", "", "menu item id")
		name := fs.String("name", "", "dish name")
		price := fs.String("price", "0", "unit price")
		stock := fs.Int("stock", 0, "stock")
		active := fs.Bool("active", true, "whether the dish is orderable")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		menuID, err := uuid.Parse(*id)
		if err != nil {
			return fmt.Errorf("menu update: bad id: %w", err)
		}
		p, err := decimal.NewFromString(*price)
		if err != nil {
			return fmt.Errorf("menu update: bad price: %w", err)
		}
		if err := api.UpdateMenuItem(ctx, client.UpdateMenuItemRequest{
			MenuID:   menuID,
			Name:     *name,
			Price:    p,
			Stock:    int32(*stock),
			IsActive: *active,
		}); err != nil {
			return err
		}
		fmt.Println("menu item updated")
		return nil

	case "delete":
		fs := flag.NewFlagSet("menu delete", flag.ExitOnError)
		id := fs.String("id", "", "menu item id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		menuID, err := uuid.Parse(*id)
		if err != nil {
			return fmt.Errorf("menu delete: bad id: %w", err)
		}
		if err := api.DeleteMenuItem(ctx, menuID); err != nil {
			return err
		}
		fmt.Println("menu item deleted")
		return nil

	default:
		return fmt.Errorf("menu: unknown subcommand %q", args[0])
	}
}
