package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jask/widgetdemo/internal/config"
	"github.com/jask/widgetdemo/internal/database"
	"github.com/jask/widgetdemo/internal/database/repository"
	"github.com/jask/widgetdemo/internal/demo"
	"github.com/jask/widgetdemo/internal/media"
	"github.com/jask/widgetdemo/internal/session"
	"github.com/jask/widgetdemo/internal/tui"
	"github.com/jask/widgetdemo/internal/ui"
)

const defaultDumpWidth = 100

func main() {
	configPath := flag.String("config", "", "config file (default $WIDGETDEMO_CONFIG or ~/.config/widgetdemo/config.toml)")
	dump := flag.Bool("dump", false, "run the page once and print it without a terminal UI")
	width := flag.Int("width", 0, "render width for -dump (default: terminal width)")
	printConfig := flag.Bool("print-config", false, "print the effective configuration as TOML")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *printConfig {
		if err := config.Encode(os.Stdout, cfg); err != nil {
			log.Fatalf("print config: %v", err)
		}
		return
	}

	store, downloads, closeStore, err := openSession(ctx, cfg)
	if err != nil {
		log.Fatalf("session: %v", err)
	}
	defer closeStore()

	loader := media.NewLoader(cfg.Media.Fetch, cfg.Media.Timeout)
	camera := media.NewDevice(cfg.Camera.Device, cfg.Camera.Timeout)
	page := demo.Page(demo.FromConfig(cfg))

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	if *dump || !tty {
		w := *width
		if w <= 0 {
			w = terminalWidth(tty)
		}
		if err := dumpPage(ctx, os.Stdout, page, store, camera, w, cfg.UI.Markdown); err != nil {
			log.Fatalf("dump: %v", err)
		}
		return
	}

	if cfg.Log.File != "" {
		f, err := tea.LogToFile(cfg.Log.File, "widgetdemo")
		if err != nil {
			log.Fatalf("log file: %v", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	app := tui.New(ctx, tui.Options{
		Config:    cfg,
		Script:    page,
		Session:   store,
		Camera:    camera,
		Loader:    loader,
		Downloads: downloads,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// openSession builds the configured session store. Downloads are only
// recorded with the sqlite backend.
func openSession(ctx context.Context, cfg config.Config) (session.Store, *repository.DownloadRepo, func(), error) {
	if cfg.Session.Backend == "memory" {
		return session.NewMemory(), nil, func() {}, nil
	}
	db, err := database.Open(cfg.Session.DSN)
	if err != nil {
		return nil, nil, nil, err
	}
	closeDB := func() { closeQuietly(db) }
	if err := database.RunMigrations(db); err != nil {
		closeDB()
		return nil, nil, nil, fmt.Errorf("migrate: %w", err)
	}
	store, err := session.NewSQL(ctx, db)
	if err != nil {
		closeDB()
		return nil, nil, nil, err
	}
	return store, repository.NewDownloadRepo(db), closeDB, nil
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		log.Printf("close db: %v", err)
	}
}

func terminalWidth(tty bool) int {
	if !tty {
		return defaultDumpWidth
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultDumpWidth
	}
	return w
}

func dumpPage(ctx context.Context, w io.Writer, page ui.Script, store session.Store, camera media.Camera, width int, mdStyle string) error {
	tree, err := ui.Execute(page, ui.Env{
		Context: ctx,
		State:   ui.NewState(),
		Session: store,
		Camera:  camera,
	})
	if err != nil {
		// the exception element is part of the tree; print it too
		log.Printf("page run: %v", err)
	}
	_, werr := io.WriteString(w, tui.Render(tree, width, mdStyle))
	return werr
}
