// PrintQuote — 3D Print Shop Quoting Client
//
// A cross-platform desktop client for the shop's quoting service:
// customers get an instant price for an uploaded model, staff quote
// from known figures and keep a local history of saved quotes.
//
// Build:
//   go build -o printquote ./cmd/printquote
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o printquote.exe ./cmd/printquote
//   GOOS=darwin  GOARCH=amd64 go build -o printquote-darwin ./cmd/printquote
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64
//
// Configuration comes from the environment (a .env file is honored):
//   PRINTQUOTE_API_URL  base URL of the quoting service (default http://localhost:8000)
//   PRINTQUOTE_DEBUG    set to 1 to enable debug logging

package main

import (
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/joho/godotenv"

	"github.com/ba4b0d/printquote/internal/api"
	"github.com/ba4b0d/printquote/internal/project"
	"github.com/ba4b0d/printquote/internal/session"
	"github.com/ba4b0d/printquote/internal/ui"
)

const defaultAPIURL = "http://localhost:8000"

func main() {
	// A missing .env is fine; the environment may be set by the shell.
	_ = godotenv.Load()

	level := slog.LevelInfo
	if os.Getenv("PRINTQUOTE_DEBUG") == "1" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		logger.Warn("could not load app config, using defaults", "err", err)
		cfg = project.DefaultAppConfig()
	}

	baseURL := os.Getenv("PRINTQUOTE_API_URL")
	if baseURL == "" {
		baseURL = cfg.APIBaseURL
	}
	if baseURL == "" {
		baseURL = defaultAPIURL
	}

	store := session.NewFileStore(project.DefaultSessionPath())
	client := api.New(baseURL, store, logger)

	application := app.NewWithID("com.ba4b0d.printquote")
	window := application.NewWindow("PrintQuote — 3D Print Shop Quoting")
	application.Settings().SetTheme(ui.NewPrintQuoteTheme())

	appUI := ui.NewApp(application, window, client, store, cfg, logger)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1200, 760))
	window.CenterOnScreen()
	window.Show()

	application.Run()
}
