package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"github.com/elsanchez/steam-fetch/internal/applog"
	"github.com/elsanchez/steam-fetch/internal/config"
	"github.com/elsanchez/steam-fetch/internal/daemon"
	"github.com/elsanchez/steam-fetch/internal/panel"
	"github.com/elsanchez/steam-fetch/internal/publisher"
	"github.com/elsanchez/steam-fetch/internal/steamcmd"
)

const (
	version = "0.1.0"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("steam-fetchd v%s starting...", version)

	// Cargar configuración y preparar directorios
	cfg := config.Load()
	if err := cfg.EnsureDirs(); err != nil {
		log.Fatalf("Failed to create directories: %v", err)
	}

	log.Printf("Root directory: %s", cfg.RootDir)
	log.Printf("Games directory: %s", cfg.GamesDir)
	log.Printf("Public directory: %s", cfg.PublicDir)

	// Abrir el log de la aplicación (archivo + stderr)
	logger, logFile, err := applog.Open(cfg.RootDir, "daemon")
	if err != nil {
		log.Fatalf("Failed to open application log: %v", err)
	}
	defer logFile.Close()
	log.Println("✓ Application log ready")

	// Un solo limiter para todas las invocaciones de SteamCMD
	limiter := rate.NewLimiter(rate.Limit(cfg.LimiterRate), cfg.LimiterBurst)
	tool := steamcmd.New(cfg.SteamCMDDir, cfg.SteamCMDURL, cfg.LoginTimeout, limiter, logger.WithComponent("steamcmd"))
	if tool.Installed() {
		log.Println("✓ SteamCMD already installed")
	} else {
		log.Println("SteamCMD not installed yet (POST /api/install)")
	}

	pub := publisher.New(cfg.PublicDir, cfg.PublicBaseURL, logger.WithComponent("publisher"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Las descargas cuelgan de ctx, no de la petición HTTP que las inicia:
	// sobreviven a la petición y mueren con el daemon
	svc := panel.NewService(ctx, cfg, tool, pub, logger.WithComponent("panel"))
	log.Println("✓ Panel service initialized")

	server := daemon.NewServer(svc, cfg.PublicDir, cfg.HTTPAddr, logger.WithComponent("http"))

	log.Printf("✓ Server listening on %s", cfg.HTTPAddr)
	log.Printf("Public base URL: %s", cfg.PublicBaseURL)
	log.Println("steam-fetchd is ready")

	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	// Esperar a que el monitor de la sesión activa termine
	log.Println("Shutting down gracefully...")
	svc.Shutdown()
}
