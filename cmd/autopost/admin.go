package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/elsanchez/autopost/internal/adminapi"
	"github.com/elsanchez/autopost/internal/config"
	"github.com/elsanchez/autopost/internal/logger"
	"github.com/elsanchez/autopost/internal/session"
)

// newAdminClient builds an admin API client from the environment. Without
// AUTOPOST_API_TOKEN the token comes from the browser session.
func newAdminClient() (*adminapi.Client, *config.Config) {
	cfg, err := config.Load()
	if err != nil {
		fail("%v", err)
	}

	// Los logs del cliente solo interesan con AUTOPOST_LOG_LEVEL=debug
	level := logger.ParseLevel(cfg.LogLevel)
	var w io.Writer = io.Discard
	if level == slog.LevelDebug {
		w = os.Stderr
	}
	log := logger.Setup(w, level)

	opts := adminapi.ClientOptions{
		Token:     cfg.APIToken,
		RateLimit: cfg.APIRate,
	}
	if cfg.APIToken == "" {
		opts.TokenSource = session.NewSource(cfg.SessionCookieFile, cfg.SessionBrowser, cfg.SessionCookie, cfg.SessionDomainOrHost())
	}

	return adminapi.NewClient(cfg.APIURL, &http.Client{Timeout: cfg.APITimeout}, log, opts), cfg
}

func handleAdmin(args []string) {
	if len(args) == 0 {
		fmt.Println("Error: Resource is required")
		fmt.Println("Usage: autopost admin users|posts|subscriptions|plans [--page n] [--limit n]")
		os.Exit(1)
	}

	resource := args[0]

	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 10, "Items per page (max 100)")
	_ = fs.Parse(args[1:])

	api, cfg := newAdminClient()
	opts := adminapi.ListOptions{Page: *page, Limit: *limit}

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.APITimeout)
	defer cancel()

	var err error
	switch resource {
	case "users":
		err = printUsers(ctx, api, opts)
	case "posts":
		err = printPosts(ctx, api, opts)
	case "subscriptions", "subs":
		err = printSubscriptions(ctx, api, opts)
	case "plans":
		err = printPlans(ctx, api)
	default:
		fail("unknown admin resource: %s", resource)
	}

	if err != nil {
		switch {
		case errors.Is(err, adminapi.ErrUnauthorized):
			fail("not authorized; log in to %s or set AUTOPOST_API_TOKEN", cfg.APIURL)
		case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrSessionExpired):
			fail("%v; log in to %s or set AUTOPOST_API_TOKEN", err, cfg.APIURL)
		default:
			fail("%v", err)
		}
	}
}

func printPageFooter(page, totalPages, total int) {
	fmt.Printf("Page %d of %d (%d total)\n", page, totalPages, total)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

func printUsers(ctx context.Context, api *adminapi.Client, opts adminapi.ListOptions) error {
	page, err := api.ListUsers(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Printf("%-8s %-28s %-20s %-8s %-7s %6s  %s\n", "ID", "EMAIL", "NAME", "ROLE", "ACTIVE", "POSTS", "LAST LOGIN")
	for _, u := range page.Items {
		fmt.Printf("%-8s %-28s %-20s %-8s %-7t %6d  %s\n",
			u.ID, u.Email, u.FullName, u.Role, u.IsActive, u.PostsCount, formatTime(u.LastLogin))
	}
	fmt.Println()
	printPageFooter(page.Page, page.TotalPages, page.Total)
	return nil
}

func printPosts(ctx context.Context, api *adminapi.Client, opts adminapi.ListOptions) error {
	page, err := api.ListPosts(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Printf("%-8s %-8s %-10s %-24s %-19s  %s\n", "ID", "USER", "STATUS", "PLATFORMS", "SCHEDULED", "CONTENT")
	for _, p := range page.Items {
		content := p.Content
		if len([]rune(content)) > 40 {
			content = string([]rune(content)[:39]) + "…"
		}
		fmt.Printf("%-8s %-8s %-10s %-24s %-19s  %s\n",
			p.ID, p.UserID, p.Status, strings.Join(p.Platforms, ","), formatTime(p.ScheduledAt), content)
	}
	fmt.Println()
	printPageFooter(page.Page, page.TotalPages, page.Total)
	return nil
}

func printSubscriptions(ctx context.Context, api *adminapi.Client, opts adminapi.ListOptions) error {
	page, err := api.ListSubscriptions(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Printf("%-8s %-8s %-12s %-10s %12s  %-19s %s\n", "ID", "USER", "PLAN", "STATUS", "AMOUNT", "PERIOD END", "CANCELS")
	for _, s := range page.Items {
		fmt.Printf("%-8s %-8s %-12s %-10s %8.2f %s  %-19s %t\n",
			s.ID, s.UserID, s.PlanName, s.Status, s.Amount, s.Currency, formatTime(s.CurrentPeriodEnd), s.CancelAtPeriodEnd)
	}
	fmt.Println()
	printPageFooter(page.Page, page.TotalPages, page.Total)
	return nil
}

func printPlans(ctx context.Context, api *adminapi.Client) error {
	plans, err := api.ListPlans(ctx)
	if err != nil {
		return err
	}

	for _, p := range plans {
		popular := ""
		if p.Popular {
			popular = " ⭐"
		}
		fmt.Printf("%s (id %s)%s\n", p.Name, p.ID, popular)
		fmt.Printf("  Price:    %.2f/month, %.2f/year\n", p.PriceMonthly, p.PriceYearly)
		fmt.Printf("  Accounts: %s\n", limitString(p.MaxAccounts))
		fmt.Printf("  Posts:    %s\n", limitString(p.MaxPosts))
		if len(p.Features) > 0 {
			fmt.Printf("  Features: %s\n", strings.Join(p.Features, ", "))
		}
		fmt.Println()
	}
	return nil
}

func limitString(n int) string {
	if n <= 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d", n)
}
