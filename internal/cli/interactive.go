package cli

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nzaccagnino/jotaku-notes/internal/ui"
	"github.com/nzaccagnino/jotaku-notes/internal/viewstate"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// runInteractive opens the UI on a terminal. Piped output gets the home
// list instead.
func runInteractive(cmd *cobra.Command, env *Env) error {
	out, ok := cmd.OutOrStdout().(*os.File)
	if !ok || !term.IsTerminal(int(out.Fd())) {
		return printHome(cmd, env)
	}

	svc, err := env.service()
	if err != nil {
		return err
	}

	key, err := env.Config.SortKey()
	if err != nil {
		return err
	}

	// The UI owns the terminal, so engine logs go to a file.
	logFile, err := tea.LogToFile(env.Config.LogFile, "jotaku")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	opts := viewstate.Options{
		Sort:           key,
		UndoWindow:     env.Config.UndoWindow,
		MessageTimeout: env.Config.MessageTimeout,
		Logger:         log.Default(),
	}

	m := ui.NewModel(cmd.Context(), svc.Backend(), opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	final, err := p.Run()
	if fm, ok := final.(ui.Model); ok {
		fm.Close()
	}
	if err != nil {
		return fmt.Errorf("failed to run UI: %w", err)
	}
	return nil
}
