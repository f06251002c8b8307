package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"github.com/spf13/cobra"
)

func NewCmdNotebooks(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notebooks",
		Aliases: []string{"nb"},
		Short:   "List and manage notebooks",
		Long: heredoc.Doc(`
			Without a subcommand, lists the notebooks. Deleting a notebook moves
			its notes to the default notebook, which itself cannot be deleted.
		`),
		Example: heredoc.Doc(`
			jotaku notebooks
			jotaku nb add Work
			jotaku nb rename 2 "Side projects"
			jotaku nb rm 2
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := env.service()
			if err != nil {
				return err
			}
			nbs, err := svc.Notebooks(cmd.Context())
			if err != nil {
				return err
			}
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME")
			for _, nb := range nbs {
				fmt.Fprintf(writer, "%d\t%s\n", nb.ID, nb.Description)
			}
			return writer.Flush()
		},
	}

	cmd.AddCommand(newCmdNotebookAdd(env))
	cmd.AddCommand(newCmdNotebookRename(env))
	cmd.AddCommand(newCmdNotebookRemove(env))

	return cmd
}

func newCmdNotebookAdd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a notebook",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := env.service()
			if err != nil {
				return err
			}
			nb, err := svc.SaveNotebook(cmd.Context(), db.Notebook{Description: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created notebook %d\n", nb.ID)
			return nil
		},
	}
}

func newCmdNotebookRename(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a notebook",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid notebook id %q", args[0])
			}
			svc, err := env.service()
			if err != nil {
				return err
			}
			if _, err := svc.SaveNotebook(cmd.Context(), db.Notebook{ID: id, Description: strings.Join(args[1:], " ")}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed notebook %d\n", id)
			return nil
		},
	}
}

func newCmdNotebookRemove(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a notebook, keeping its notes",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid notebook id %q", args[0])
			}
			svc, err := env.service()
			if err != nil {
				return err
			}
			moved, err := svc.DeleteNotebook(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted notebook %d, %d notes moved\n", id, moved)
			return nil
		},
	}
}
