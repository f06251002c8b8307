package cli

import (
	"fmt"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/nzaccagnino/jotaku-notes/internal/config"
	"github.com/nzaccagnino/jotaku-notes/internal/i18n"
	"github.com/spf13/cobra"
)

// Env carries the configuration and the collection every command works on.
// The service is opened once flags are parsed.
type Env struct {
	Config *config.Config
	Open   func(cfg *config.Config) (Service, error)

	svc Service
}

func (e *Env) service() (Service, error) {
	if e.svc != nil {
		return e.svc, nil
	}
	open := e.Open
	if open == nil {
		open = Open
	}
	svc, err := open(e.Config)
	if err != nil {
		return nil, err
	}
	e.svc = svc
	return svc, nil
}

func (e *Env) Close() error {
	if e.svc == nil {
		return nil
	}
	return e.svc.Close()
}

func NewCmdRoot(env *Env) *cobra.Command {
	var (
		dbPath    string
		serverURL string
		language  string
	)

	cmd := &cobra.Command{
		Use:   "jotaku",
		Short: "Notes in the terminal, kept in SQLite or on a server.",
		Long: heredoc.Doc(`
			Jotaku keeps notes in notebooks, with pinning, favorites and a trash.

			Without a subcommand it opens the interactive UI when attached to a
			terminal and prints the home list otherwise.
		`),
		Example: heredoc.Doc(`
			jotaku
			jotaku add "Groceries" -c "milk, eggs"
			jotaku list --scope trash
			jotaku --server http://localhost:8080 list
		`),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dbPath != "" {
				env.Config.DBPath = dbPath
			}
			if serverURL != "" {
				env.Config.Server.URL = serverURL
			}
			if language != "" {
				env.Config.Language = language
			}
			if env.Config.Language != "" {
				i18n.SetLanguage(i18n.Language(env.Config.Language))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, env)
		},
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default from config.yml)")
	cmd.PersistentFlags().StringVar(&serverURL, "server", "", "use the server at this URL instead of the local database")
	cmd.PersistentFlags().StringVar(&language, "lang", "", "interface language (en, it)")

	cmd.AddCommand(NewCmdList(env))
	cmd.AddCommand(NewCmdShow(env))
	cmd.AddCommand(NewCmdAdd(env))
	cmd.AddCommand(NewCmdEdit(env))
	cmd.AddCommand(NewCmdCopy(env))
	cmd.AddCommand(NewCmdFlag(env, "pin", "Pin a note to the top of its list", func(s Service) flagSetter { return s.SetPinned }, true))
	cmd.AddCommand(NewCmdFlag(env, "unpin", "Unpin a note", func(s Service) flagSetter { return s.SetPinned }, false))
	cmd.AddCommand(NewCmdFlag(env, "favorite", "Add a note to the favorites", func(s Service) flagSetter { return s.SetFavorite }, true))
	cmd.AddCommand(NewCmdFlag(env, "unfavorite", "Remove a note from the favorites", func(s Service) flagSetter { return s.SetFavorite }, false))
	cmd.AddCommand(NewCmdTrash(env))
	cmd.AddCommand(NewCmdRestore(env))
	cmd.AddCommand(NewCmdPurge(env))
	cmd.AddCommand(NewCmdNotebooks(env))

	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := parseID(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
