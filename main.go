package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cf1-platform/cf1-tui/app"
	"github.com/cf1-platform/cf1-tui/client"
	"github.com/cf1-platform/cf1-tui/config"
	"github.com/cf1-platform/cf1-tui/style"
)

var version = "dev"

func main() {
	profileFlag := flag.String("profile", "", "Named profile for state isolation (~/.cf1/profiles/<name>)")
	noColor := flag.Bool("no-color", false, "Disable ANSI colors")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.BoolVar(showVersion, "V", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("cf1-tui %s\n", version)
		os.Exit(0)
	}

	if *noColor {
		// Caller can set NO_COLOR=1 in the shell to disable colors.
		os.Setenv("NO_COLOR", "1")
	}

	home, _ := os.UserHomeDir()
	if *profileFlag != "" {
		app.ProfileDir = filepath.Join(home, ".cf1", "profiles", *profileFlag)
	} else {
		app.ProfileDir = filepath.Join(home, ".cf1")
	}
	os.MkdirAll(app.ProfileDir, 0o755)

	cfg := config.Load(app.ProfileDir)

	baseURL := os.Getenv("CF1_URL")
	if baseURL == "" {
		baseURL = cfg.BackendURL
	}
	if baseURL == "" {
		baseURL = "http://localhost:8090"
	}

	token := os.Getenv("CF1_TOKEN")
	if token == "" {
		if data, err := os.ReadFile(filepath.Join(app.ProfileDir, "token")); err == nil {
			token = strings.TrimSpace(string(data))
		}
	}

	// Auto-detect terminal background before any rendering. A persisted
	// theme choice (applied in app.New) wins over the detected default.
	if lipgloss.HasDarkBackground(os.Stdin, os.Stdout) {
		style.SetTheme("dark")
	} else {
		style.SetTheme("light")
	}

	if os.Getenv("CF1_TUI_DEBUG") != "" {
		f, err := tea.LogToFile(filepath.Join(app.ProfileDir, "tui.log"), "cf1")
		if err == nil {
			defer f.Close()
		}
	}

	c := client.New(baseURL)
	if token != "" {
		c.SetToken(token)
	}

	// In bubbletea v2, alt-screen and mouse mode are configured on the View
	// struct returned by the model's View() method. Pass no options here.
	p := tea.NewProgram(app.New(c))

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "cf1-tui: %v\n", err)
		os.Exit(1)
	}
}
