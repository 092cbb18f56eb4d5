package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/deanlockgaard/ArchiveIQ/internal/console"
)

func main() {
	_ = godotenv.Load()

	var serverURL, email, password string
	flag.StringVar(&serverURL, "server", envOr("ARCHIVEIQ_SERVER", "http://localhost:8080"), "ArchiveIQ server URL")
	flag.StringVar(&email, "email", os.Getenv("ARCHIVEIQ_EMAIL"), "Login email")
	flag.StringVar(&password, "password", os.Getenv("ARCHIVEIQ_PASSWORD"), "Login password")
	flag.Parse()

	if email == "" || password == "" {
		fmt.Println("Usage: archiveiq-console [--server=URL] --email=... --password=...")
		fmt.Println("Credentials may also be set via ARCHIVEIQ_EMAIL and ARCHIVEIQ_PASSWORD.")
		os.Exit(1)
	}

	client := console.NewClient(serverURL, 30*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := client.Login(ctx, email, password); err != nil {
		log.Fatalf("login failed: %v", err)
	}

	m := console.New(client, serverURL)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
