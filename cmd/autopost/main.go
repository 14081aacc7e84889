package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/elsanchez/autopost/internal/backendsync"
	"github.com/elsanchez/autopost/internal/domain"
	"github.com/elsanchez/autopost/internal/tui/accounts"
	"github.com/elsanchez/autopost/pkg/client"
)

const (
	version = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// AUTOPOST_SOCKET tiene prioridad sobre el path por defecto
	c := client.NewDefaultClient()
	if socket := os.Getenv("AUTOPOST_SOCKET"); socket != "" {
		c = client.NewClient(socket)
	}

	switch os.Args[1] {
	case "platforms":
		handlePlatforms(c)
	case "accounts", "list":
		handleAccounts(c, os.Args[2:])
	case "add":
		handleAdd(c, os.Args[2:])
	case "update":
		handleUpdate(c, os.Args[2:])
	case "remove":
		handleRemove(c, os.Args[2:])
	case "disconnect":
		handleDisconnect(c, os.Args[2:])
	case "connect":
		handleConnect(c, os.Args[2:])
	case "sync":
		handleSync(c, os.Args[2:])
	case "stats":
		handleStats(c)
	case "admin":
		handleAdmin(os.Args[2:])
	case "tui":
		handleTUI(c)
	case "version":
		fmt.Printf("autopost v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`AutoPost account manager (autopost) v` + version + `

Usage: autopost <command> [args]

Commands:
  platforms                          List supported platforms
  accounts [--platform p] [--connected]
                                     List accounts
  add <platform> <name> <token>      Add an account
  add --url <profile-url> <name> <token>
                                     Add an account, detecting the platform
  update <id> [options]              Update an account
  remove <id>                        Remove an account
  disconnect <platform>              Remove every account of a platform
  connect <platform> <token>         Add an account named after the platform
  sync [--file records.json]         Replace accounts with the backend's
  stats                              Show registry statistics
  admin <resource> [--page n --limit n]
                                     Query the admin API (users, posts, subscriptions, plans)
  tui                                Interactive account manager
  version                            Show version
  help                               Show this help

Update Options:
  --name <name>          New account name
  --token <token>        New access token
  --connected=<bool>     Mark connected or disconnected
  --followers <n>        Follower count

Examples:
  autopost add youtube "My Channel" ya29.token
  autopost add --url https://instagram.com/acme Acme IGQ.token
  autopost accounts --connected
  autopost update 3f2a... --connected=false
  autopost sync
  autopost sync --file snapshot.json
  autopost admin users --page 2 --limit 20`)
}

func fail(format string, args ...interface{}) {
	fmt.Printf("Error: "+format+"\n", args...)
	os.Exit(1)
}

func handlePlatforms(c *client.Client) {
	platforms, err := c.Platforms()
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("Platforms (%d):\n\n", len(platforms))
	for _, p := range platforms {
		fmt.Printf("  %-10s %-10s %s\n", p.ID, p.Name, p.Color)
	}
}

func handleAccounts(c *client.Client, args []string) {
	fs := flag.NewFlagSet("accounts", flag.ExitOnError)
	platform := fs.String("platform", "", "Only accounts of this platform")
	connected := fs.Bool("connected", false, "Only connected accounts")
	_ = fs.Parse(args)

	list, err := c.Accounts(client.AccountFilter{
		PlatformID:    *platform,
		ConnectedOnly: *connected,
	})
	if err != nil {
		fail("%v", err)
	}

	if len(list) == 0 {
		fmt.Println("No accounts found")
		return
	}

	fmt.Printf("Accounts (%d):\n\n", len(list))
	for _, acc := range list {
		printAccount(acc)
	}
}

func printAccount(acc domain.PlatformAccount) {
	status := "disconnected"
	if acc.Connected {
		status = "connected"
	}

	fmt.Printf("ID: %s\n", acc.ID)
	fmt.Printf("  Platform: %s\n", acc.PlatformName)
	fmt.Printf("  Name:     %s\n", acc.AccountName)
	fmt.Printf("  Status:   %s\n", status)

	if acc.ProfileInfo != nil && acc.ProfileInfo.Username != "" {
		fmt.Printf("  Username: @%s\n", acc.ProfileInfo.Username)
	}
	if acc.Followers != nil {
		fmt.Printf("  Followers: %d\n", *acc.Followers)
	}
	fmt.Printf("  Created:  %s\n", acc.CreatedAt.Local().Format(time.DateTime))
	if acc.LastPost != nil {
		fmt.Printf("  Last post: %s\n", acc.LastPost.Local().Format(time.DateTime))
	}

	fmt.Println()
}

func handleAdd(c *client.Client, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	profileURL := fs.String("url", "", "Profile URL (platform is detected)")
	_ = fs.Parse(args)
	rest := fs.Args()

	payload := &client.AddAccountPayload{ProfileURL: *profileURL}

	switch {
	case *profileURL != "" && len(rest) == 2:
		payload.AccountName = rest[0]
		payload.AccessToken = rest[1]
	case *profileURL == "" && len(rest) == 3:
		payload.PlatformID = strings.ToLower(rest[0])
		payload.AccountName = rest[1]
		payload.AccessToken = rest[2]
	default:
		fmt.Println("Usage: autopost add <platform> <name> <token>")
		fmt.Println("       autopost add --url <profile-url> <name> <token>")
		os.Exit(1)
	}

	acc, err := c.AddAccount(payload)
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("✓ Added %s account %q\n", acc.PlatformName, acc.AccountName)
	fmt.Printf("  ID: %s\n", acc.ID)
}

func handleUpdate(c *client.Client, args []string) {
	if len(args) == 0 {
		fmt.Println("Error: Account ID is required")
		fmt.Println("Usage: autopost update <id> [--name n] [--token t] [--connected=bool] [--followers n]")
		os.Exit(1)
	}

	id := args[0]

	fs := flag.NewFlagSet("update", flag.ExitOnError)
	name := fs.String("name", "", "New account name")
	token := fs.String("token", "", "New access token")
	connected := fs.String("connected", "", "true or false")
	followers := fs.Int64("followers", -1, "Follower count")
	_ = fs.Parse(args[1:])

	var patch domain.AccountPatch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			patch.AccountName = name
		case "token":
			patch.AccessToken = token
		case "followers":
			if *followers < 0 {
				fail("--followers must not be negative")
			}
			patch.Followers = followers
		case "connected":
			v, err := strconv.ParseBool(*connected)
			if err != nil {
				fail("invalid --connected value: %s", *connected)
			}
			patch.Connected = &v
		}
	})

	if patch == (domain.AccountPatch{}) {
		fail("nothing to update")
	}

	acc, err := c.UpdateAccount(id, patch)
	if err != nil {
		fail("%v", err)
	}

	fmt.Println("✓ Account updated")
	fmt.Println()
	printAccount(*acc)
}

func handleRemove(c *client.Client, args []string) {
	if len(args) == 0 {
		fmt.Println("Error: Account ID is required")
		fmt.Println("Usage: autopost remove <id>")
		os.Exit(1)
	}

	removed, err := c.RemoveAccount(args[0])
	if err != nil {
		fail("%v", err)
	}

	if !removed {
		fmt.Printf("No account with ID %s\n", args[0])
		return
	}
	fmt.Printf("✓ Removed account %s\n", args[0])
}

func handleDisconnect(c *client.Client, args []string) {
	if len(args) == 0 {
		fmt.Println("Error: Platform is required")
		fmt.Println("Usage: autopost disconnect <platform>")
		os.Exit(1)
	}

	n, err := c.DisconnectPlatform(strings.ToLower(args[0]))
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("✓ Removed %d %s account(s)\n", n, args[0])
}

func handleConnect(c *client.Client, args []string) {
	if len(args) < 2 {
		fmt.Println("Error: Platform and token are required")
		fmt.Println("Usage: autopost connect <platform> <token>")
		os.Exit(1)
	}

	acc, err := c.ConnectPlatform(strings.ToLower(args[0]), args[1])
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("✓ Connected %s\n", acc.PlatformName)
	fmt.Printf("  ID: %s\n", acc.ID)
}

func handleSync(c *client.Client, args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	file := fs.String("file", "", "JSON file with backend account records")
	_ = fs.Parse(args)

	var records []backendsync.BackendAccount
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			fail("read records: %v", err)
		}
		if err := json.Unmarshal(data, &records); err != nil {
			fail("parse records: %v", err)
		}
		if records == nil {
			records = []backendsync.BackendAccount{}
		}
	}

	run, err := c.Sync(records)
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("✓ Synced %d account(s), %d connected (source: %s)\n",
		run.AccountCount, run.ConnectedCount, run.Source)
}

func handleStats(c *client.Client) {
	stats, err := c.Stats()
	if err != nil {
		fail("%v", err)
	}

	fmt.Println("Registry Statistics:")
	fmt.Println()
	fmt.Printf("  Accounts:     %d\n", stats.Accounts)
	fmt.Printf("  Connected:    %d\n", stats.Connected)

	if len(stats.ByPlatform) > 0 {
		fmt.Println()
		platforms := make([]string, 0, len(stats.ByPlatform))
		for platform := range stats.ByPlatform {
			platforms = append(platforms, platform)
		}
		sort.Strings(platforms)
		for _, platform := range platforms {
			fmt.Printf("  %-12s  %d\n", platform+":", stats.ByPlatform[platform])
		}
	}

	fmt.Println()
	if stats.LastSync != nil {
		result := "ok"
		if stats.LastSync.Failed() {
			result = "failed: " + stats.LastSync.ErrorMessage
		}
		fmt.Printf("  Last sync:    %s (%s, %s)\n",
			stats.LastSync.CreatedAt.Local().Format(time.DateTime), stats.LastSync.Source, result)
	} else {
		fmt.Println("  Last sync:    never")
	}
	fmt.Printf("  Failed syncs: %d\n", stats.FailedSyncs)
	if stats.SyncInterval != "" {
		fmt.Printf("  Sync every:   %s\n", stats.SyncInterval)
	}
	fmt.Printf("  Uptime:       %s\n", time.Duration(stats.UptimeSeconds)*time.Second)
}

func handleTUI(c *client.Client) {
	if err := c.Ping(); err != nil {
		fail("%v", err)
	}

	p := tea.NewProgram(accounts.NewModel(c), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fail("%v", err)
	}
}
