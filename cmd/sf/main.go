package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/elsanchez/steam-fetch/internal/tui/status"
	"github.com/elsanchez/steam-fetch/pkg/client"
)

const (
	version = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Crear cliente (honra SF_DAEMON_URL)
	c := client.NewDefaultClient()

	switch os.Args[1] {
	case "install":
		handleInstall(c)
	case "start":
		handleStart(c, os.Args[2:])
	case "cancel":
		handleCancel(c)
	case "status":
		handleStatus(c, os.Args[2:])
	case "watch":
		handleWatch(c)
	case "version":
		fmt.Printf("sf v%s\n", version)
	case "help":
		printUsage()
	default:
		// Si el primer argumento es un app id o una URL de la tienda,
		// asumir que es "start"
		if isAppArg(os.Args[1]) {
			handleStart(c, os.Args[1:])
		} else {
			fmt.Printf("Unknown command: %s\n", os.Args[1])
			printUsage()
			os.Exit(1)
		}
	}
}

func printUsage() {
	fmt.Println(`steam-fetch CLI (sf) v` + version + `

Usage: sf <command> [args]

Commands:
  install              Install SteamCMD on the daemon host
  start <id|url>       Start downloading a Steam app
  cancel               Cancel the download in progress
  status [--tail n]    Show the current session report
  watch                Live status view (TUI)
  version              Show version
  help                 Show this help

Start Options:
  --anonymous          Log in as the anonymous user (default when no user given)
  --user <name>        Steam account name
  --pass <password>    Steam account password

Examples:
  sf install
  sf start 740
  sf start https://store.steampowered.com/app/440/Team_Fortress_2/
  sf start 740 --user alice --pass secret
  sf 740                                   (shorthand for 'start')
  sf status --tail 30
  sf watch
  sf cancel

Environment:
  SF_DAEMON_URL        Daemon base URL (default: ` + client.DefaultBaseURL + `)`)
}

// isAppArg reconoce los argumentos que el shorthand acepta como app
func isAppArg(arg string) bool {
	if strings.HasPrefix(arg, "http") {
		return true
	}
	for _, r := range arg {
		if r < '0' || r > '9' {
			return false
		}
	}
	return arg != ""
}

func handleInstall(c *client.Client) {
	ctx := context.Background()

	// Evitar una instalación innecesaria si el daemon ya tiene la herramienta
	if h, err := c.Health(ctx); err == nil && h.Installed {
		fmt.Println("✓ SteamCMD already installed")
		return
	}

	fmt.Println("Installing SteamCMD (this downloads the official archive)...")
	msg, err := c.Install(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ %s\n", msg)
}

func handleStart(c *client.Client, args []string) {
	if len(args) == 0 {
		fmt.Println("Error: app id or store URL is required")
		printUsage()
		os.Exit(1)
	}

	// Parse flags
	startFlags := flag.NewFlagSet("start", flag.ExitOnError)
	anonymous := startFlags.Bool("anonymous", false, "Log in as the anonymous user")
	user := startFlags.String("user", "", "Steam account name")
	pass := startFlags.String("pass", "", "Steam account password")

	// La app es el primer argumento
	app := args[0]

	if len(args) > 1 {
		startFlags.Parse(args[1:])
	}

	req := client.StartRequest{
		App:       app,
		Username:  *user,
		Password:  *pass,
		Anonymous: *anonymous || *user == "",
	}

	report, err := c.Start(context.Background(), req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Download started for app %s\n", report.App)
	fmt.Printf("  Session: %s\n", report.SessionID)
	fmt.Printf("  Login:   %s\n", loginName(req))
	fmt.Printf("  Status:  %s\n", report.Status)
	fmt.Println("\nFollow it with 'sf watch' or 'sf status'")
}

func loginName(req client.StartRequest) string {
	if req.Username != "" {
		return req.Username
	}
	return "anonymous"
}

func handleCancel(c *client.Client) {
	report, err := c.Cancel(context.Background())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Download cancelled (app %s)\n", report.App)
}

func handleStatus(c *client.Client, args []string) {
	statusFlags := flag.NewFlagSet("status", flag.ExitOnError)
	tail := statusFlags.Int("tail", 15, "Log lines to include")
	statusFlags.Parse(args)

	report, err := c.Status(context.Background(), *tail)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	printReport(report)
}

// printReport imprime el reporte en el formato clave-valor del panel
func printReport(r *client.Report) {
	app := r.App
	if app == "" {
		app = "-"
	}

	fmt.Printf("Status: %s\n", r.Status)
	fmt.Printf("  App:       %s\n", app)
	if r.SessionID != "" {
		fmt.Printf("  Session:   %s\n", r.SessionID)
	}
	fmt.Printf("  Progress:  %s%% (%s MB / %s MB)\n",
		humanize.Ftoa(r.Percent), humanize.Ftoa(r.DoneMB), humanize.Ftoa(r.TotalMB))
	fmt.Printf("  Speed:     %s MB/s\n", humanize.Ftoa(r.SpeedMBps))
	fmt.Printf("  Elapsed:   %s\n", r.Elapsed)
	if r.Remaining != "" {
		fmt.Printf("  Remaining: %s\n", r.Remaining)
	}
	if r.Error != "" {
		fmt.Printf("  Error:     %s\n", r.Error)
	}

	if len(r.Log) > 0 {
		fmt.Println("\nRecent log:")
		for _, line := range r.Log {
			fmt.Printf("  %s\n", line)
		}
	}

	if len(r.Links) > 0 {
		fmt.Println("\nLinks:")
		for _, l := range r.Links {
			fmt.Printf("  %s: %s\n", l.Name, l.URL)
		}
	}
}

func handleWatch(c *client.Client) {
	p := tea.NewProgram(status.NewModel(c))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
