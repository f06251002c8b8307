package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nzaccagnino/jotaku-notes/internal/cli"
	"github.com/nzaccagnino/jotaku-notes/internal/config"
	"github.com/nzaccagnino/jotaku-notes/internal/i18n"
	"golang.org/x/term"
)

func main() {
	configPath := config.DefaultConfigPath()
	interactive := term.IsTerminal(int(os.Stdin.Fd())) && len(os.Args) == 1

	// Check if config exists, if not run first-time setup
	if !config.ConfigExists(configPath) && interactive {
		printLogo()
		if err := firstTimeSetup(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Setup error: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Language != "" {
		i18n.SetLanguage(i18n.Language(cfg.Language))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := &cli.Env{Config: cfg}
	err = cli.NewCmdRoot(env).ExecuteContext(ctx)
	if cerr := env.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		os.Exit(1)
	}
}

func printLogo() {
	fmt.Println()
	fmt.Println("       ██╗ ██████╗ ████████╗ █████╗ ██╗  ██╗██╗   ██╗")
	fmt.Println("       ██║██╔═══██╗╚══██╔══╝██╔══██╗██║ ██╔╝██║   ██║")
	fmt.Println("       ██║██║   ██║   ██║   ███████║█████╔╝ ██║   ██║")
	fmt.Println("  ██   ██║██║   ██║   ██║   ██╔══██║██╔═██╗ ██║   ██║")
	fmt.Println("  ╚█████╔╝╚██████╔╝   ██║   ██║  ██║██║  ██╗╚██████╔╝")
	fmt.Println("   ╚════╝  ╚═════╝    ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝")
	fmt.Println()
}

func firstTimeSetup(configPath string) error {
	fmt.Println("  Welcome to Jotaku! / Benvenuto in Jotaku!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("  Select language / Seleziona lingua:")
	fmt.Println("  [1] English")
	fmt.Println("  [2] Italiano")
	fmt.Print("  > ")

	choice, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	cfg := config.Default()
	if strings.TrimSpace(choice) == "2" {
		cfg.Language = "it"
	}
	i18n.SetLanguage(i18n.Language(cfg.Language))

	fmt.Println()
	if cfg.Language == "it" {
		fmt.Println("  Server delle note (vuoto per usare il database locale):")
	} else {
		fmt.Println("  Notes server URL (empty for the local database):")
	}
	fmt.Print("  > ")

	url, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	cfg.Server.URL = strings.TrimSpace(url)

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	if cfg.Language == "it" {
		fmt.Println("  Configurazione creata!")
		fmt.Println("  Modifica config.yml per personalizzare.")
	} else {
		fmt.Println("  Configuration created!")
		fmt.Println("  Edit config.yml to customize.")
	}
	fmt.Println()

	return nil
}
