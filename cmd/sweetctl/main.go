package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/sweetshop/inventory-system/pkg/client"
	"github.com/sweetshop/inventory-system/pkg/session"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func main() {
	store, err := session.DefaultFileStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("error:"), err)
		os.Exit(1)
	}
	sess := session.New(store)

	var apiURL string

	newClient := func() *client.Client {
		return client.New(apiURL, sess, nil)
	}
	newController := func() *client.Controller {
		return client.NewController(newClient(), client.Hooks{
			OnUnauthorized: func() {
				fmt.Fprintln(os.Stderr, warnStyle.Render("session expired, please log in again"))
			},
		})
	}

	app := &cli.Command{
		Name:      "sweetctl",
		Usage:     "Sweet Shop storefront and admin dashboard",
		UsageText: "sweetctl [global options] command [command options]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "api",
				Usage:       "base URL of the sweetshop API",
				Sources:     cli.EnvVars("SWEETSHOP_API"),
				Value:       "http://localhost:8080",
				Destination: &apiURL,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "register",
				Usage:     "create an account",
				ArgsUsage: "<email> <password>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 2 {
						return cli.Exit("usage: sweetctl register <email> <password>", 2)
					}
					if err := newClient().Register(ctx, cmd.Args().Get(0), cmd.Args().Get(1), ""); err != nil {
						return err
					}
					fmt.Println(okStyle.Render("account created, you can now log in"))
					return nil
				},
			},
			{
				Name:      "login",
				Usage:     "log in and store the session token",
				ArgsUsage: "<email> <password>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 2 {
						return cli.Exit("usage: sweetctl login <email> <password>", 2)
					}
					if err := newClient().Login(ctx, cmd.Args().Get(0), cmd.Args().Get(1)); err != nil {
						return err
					}
					fmt.Println(okStyle.Render("logged in"))
					if sess.IsAdmin() {
						fmt.Println(dimStyle.Render("admin commands available: create, update, delete, restock"))
					}
					return nil
				},
			},
			{
				Name:  "logout",
				Usage: "revoke the session token and forget it locally",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := newClient().Logout(ctx); err != nil && !errors.Is(err, client.ErrUnauthorized) {
						// Local state is already cleared; only report unexpected failures.
						return err
					}
					fmt.Println(okStyle.Render("logged out"))
					return nil
				},
			},
			{
				Name:  "whoami",
				Usage: "show the current session",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					claims, ok := sess.CurrentUser()
					if !ok {
						fmt.Println(dimStyle.Render("not logged in"))
						return nil
					}
					fmt.Printf("%s (%s)\n", claims.Subject, claims.Role)
					if sess.Expired() {
						fmt.Println(warnStyle.Render("token expired, log in again"))
					}
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "show the full catalog",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ctrl := newController()
					if err := ctrl.List(ctx); err != nil {
						return err
					}
					renderCatalog(ctrl.Snapshot())
					return nil
				},
			},
			{
				Name:  "search",
				Usage: "search the catalog server-side",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "partial name match"},
					&cli.StringFlag{Name: "category", Usage: "exact category match"},
					&cli.FloatFlag{Name: "min-price", Usage: "minimum price"},
					&cli.FloatFlag{Name: "max-price", Usage: "maximum price"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					q := client.Query{
						Name:     cmd.String("name"),
						Category: cmd.String("category"),
					}
					if cmd.IsSet("min-price") {
						v := cmd.Float("min-price")
						q.MinPrice = &v
					}
					if cmd.IsSet("max-price") {
						v := cmd.Float("max-price")
						q.MaxPrice = &v
					}
					ctrl := newController()
					if err := ctrl.Search(ctx, q); err != nil {
						return err
					}
					renderCatalog(ctrl.Snapshot())
					return nil
				},
			},
			{
				Name:      "create",
				Usage:     "add a catalog item (admin)",
				ArgsUsage: "<name> <category> <price> <quantity>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					input, err := sweetInputFromArgs(cmd)
					if err != nil {
						return err
					}
					if err := newController().Create(ctx, input); err != nil {
						return err
					}
					fmt.Println(okStyle.Render("sweet created"))
					return nil
				},
			},
			{
				Name:      "update",
				Usage:     "replace a catalog item (admin)",
				ArgsUsage: "<id> <name> <category> <price> <quantity>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 5 {
						return cli.Exit("usage: sweetctl update <id> <name> <category> <price> <quantity>", 2)
					}
					id := cmd.Args().Get(0)
					input, err := sweetInputFrom(cmd.Args().Get(1), cmd.Args().Get(2), cmd.Args().Get(3), cmd.Args().Get(4))
					if err != nil {
						return err
					}
					if err := newController().Update(ctx, id, input); err != nil {
						return err
					}
					fmt.Println(okStyle.Render("sweet updated"))
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "remove a catalog item (admin)",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return cli.Exit("usage: sweetctl delete <id>", 2)
					}
					if err := newController().Delete(ctx, cmd.Args().First()); err != nil {
						return err
					}
					fmt.Println(okStyle.Render("sweet deleted"))
					return nil
				},
			},
			{
				Name:      "restock",
				Usage:     "increase an item's stock (admin)",
				ArgsUsage: "<id> <quantity>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 2 {
						return cli.Exit("usage: sweetctl restock <id> <quantity>", 2)
					}
					qty, err := parseInt(cmd.Args().Get(1), "quantity")
					if err != nil {
						return err
					}
					ctrl := newController()
					if err := ctrl.Restock(ctx, cmd.Args().First(), qty); err != nil {
						return err
					}
					renderCatalog(ctrl.Snapshot())
					return nil
				},
			},
			{
				Name:      "history",
				Usage:     "show an item's recent stock movements (admin)",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "max entries", Value: 20},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return cli.Exit("usage: sweetctl history <id>", 2)
					}
					events, err := newClient().SweetHistory(ctx, cmd.Args().First(), cmd.Int("limit"))
					if err != nil {
						return err
					}
					if len(events) == 0 {
						fmt.Println(dimStyle.Render("no recorded movements"))
						return nil
					}
					for _, ev := range events {
						line := fmt.Sprintf("%s  %-8s %+4d  (%d left)", ev.At.Local().Format("2006-01-02 15:04:05"), ev.Kind, ev.Delta, ev.Remaining)
						fmt.Println(line)
					}
					return nil
				},
			},
			{
				Name:      "purchase",
				Usage:     "buy one unit",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return cli.Exit("usage: sweetctl purchase <id>", 2)
					}
					ctrl := newController()
					// Prime the snapshot so the out-of-stock guard can act
					// before any purchase request goes out.
					if err := ctrl.List(ctx); err != nil {
						return err
					}
					if err := ctrl.Purchase(ctx, cmd.Args().First()); err != nil {
						return err
					}
					fmt.Println(okStyle.Render("enjoy your sweet!"))
					renderCatalog(ctrl.Snapshot())
					return nil
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("error:"), err)
		os.Exit(1)
	}
}

func sweetInputFromArgs(cmd *cli.Command) (client.SweetInput, error) {
	if cmd.Args().Len() != 4 {
		return client.SweetInput{}, cli.Exit("usage: sweetctl create <name> <category> <price> <quantity>", 2)
	}
	return sweetInputFrom(cmd.Args().Get(0), cmd.Args().Get(1), cmd.Args().Get(2), cmd.Args().Get(3))
}

func sweetInputFrom(name, category, priceArg, quantityArg string) (client.SweetInput, error) {
	price, err := parseFloat(priceArg, "price")
	if err != nil {
		return client.SweetInput{}, err
	}
	quantity, err := parseInt(quantityArg, "quantity")
	if err != nil {
		return client.SweetInput{}, err
	}
	return client.SweetInput{Name: name, Category: category, Price: price, Quantity: quantity}, nil
}

func parseFloat(raw, field string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, cli.Exit(field+" must be a number", 2)
	}
	return v, nil
}

func parseInt(raw, field string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, cli.Exit(field+" must be an integer", 2)
	}
	return v, nil
}

func renderCatalog(sweets []client.Sweet) {
	if len(sweets) == 0 {
		fmt.Println(dimStyle.Render("no matches"))
		return
	}

	fmt.Println(titleStyle.Render("🍬 Sweet Shop catalog"))
	for _, s := range sweets {
		line := fmt.Sprintf("%-24s %-14s %8.2f  x%d", s.Name, s.Category, s.Price, s.Quantity)
		if s.Quantity == 0 {
			line += "  " + warnStyle.Render("out of stock")
		}
		fmt.Println(line)
		fmt.Println(dimStyle.Render("  id: " + s.ID))
	}
}
