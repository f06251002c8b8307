package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"github.com/nzaccagnino/jotaku-notes/internal/usecase"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02 15:04"

func printNotes(out io.Writer, notes []db.Note) {
	writer := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tFLAGS\tTITLE\tMODIFIED")
	for _, n := range notes {
		flags := ""
		if n.IsPinned {
			flags += "P"
		}
		if n.IsFavorite {
			flags += "F"
		}
		if flags == "" {
			flags = "-"
		}
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\n", n.ID, flags, n.Title, n.ModificationDate.Local().Format(dateLayout))
	}
	_ = writer.Flush()
}

func NewCmdList(env *Env) *cobra.Command {
	var (
		scope    string
		notebook int64
		sortName string
		prefix   string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the notes of a scope",
		Long: heredoc.Doc(`
			Lists notes with pinned ones first. The scope is one of all,
			favorites, trash or notebook; the notebook scope needs --notebook.
		`),
		Example: heredoc.Doc(`
			jotaku list
			jotaku ls --scope favorites --sort alphabetical
			jotaku ls --scope notebook --notebook 2 -q gro
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := db.ParseScope(scope, notebook)
			if err != nil {
				return err
			}
			if sortName == "" {
				sortName = env.Config.DefaultSort
			}
			key, err := db.ParseSortKey(sortName)
			if err != nil {
				return err
			}
			return listNotes(cmd, env, s, key, prefix)
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "all", "all, favorites, trash or notebook")
	cmd.Flags().Int64Var(&notebook, "notebook", 0, "notebook id for the notebook scope")
	cmd.Flags().StringVarP(&sortName, "sort", "s", "", "created_desc, created_asc, modified_desc, modified_asc or alphabetical")
	cmd.Flags().StringVarP(&prefix, "query", "q", "", "only titles starting with this text")

	return cmd
}

func listNotes(cmd *cobra.Command, env *Env, scope db.Scope, key db.SortKey, prefix string) error {
	svc, err := env.service()
	if err != nil {
		return err
	}
	notes, err := svc.List(cmd.Context(), scope, key, prefix)
	if err != nil {
		return err
	}
	pinned, others := partition(notes)
	printNotes(cmd.OutOrStdout(), append(pinned, others...))
	return nil
}

func partition(notes []db.Note) (pinned, others []db.Note) {
	for _, n := range notes {
		if n.IsPinned {
			pinned = append(pinned, n)
		} else {
			others = append(others, n)
		}
	}
	return pinned, others
}

func NewCmdShow(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := env.service()
			if err != nil {
				return err
			}
			n, err := svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n\n", n.Title)
			if n.Content != "" {
				fmt.Fprintln(out, n.Content)
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "notebook: %d\n", n.NotebookID)
			fmt.Fprintf(out, "color:    %s\n", db.Palette[colorIndex(n.Color)].Name)
			fmt.Fprintf(out, "created:  %s\n", n.CreationDate.Local().Format(dateLayout))
			fmt.Fprintf(out, "modified: %s\n", n.ModificationDate.Local().Format(dateLayout))
			if n.IsDeleted {
				fmt.Fprintln(out, "in trash")
			}
			return nil
		},
	}
	return cmd
}

func colorIndex(c int) int {
	if !db.ValidColor(c) {
		return 0
	}
	return c
}

func NewCmdAdd(env *Env) *cobra.Command {
	var in usecase.NoteInput

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a note",
		Long: heredoc.Doc(`
			Creates a note. A note needs a title or some content; one with
			neither is not saved.
		`),
		Example: heredoc.Doc(`
			jotaku add "Groceries" -c "milk, eggs" --pin
			jotaku add "" -c "untitled thought"
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				in.Title = args[0]
			}
			svc, err := env.service()
			if err != nil {
				return err
			}
			n, err := svc.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created note %d\n", n.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Content, "content", "c", "", "note body")
	cmd.Flags().Int64Var(&in.NotebookID, "notebook", 0, "notebook id (default notebook when unset or missing)")
	cmd.Flags().IntVar(&in.Color, "color", 0, "palette index")
	cmd.Flags().BoolVar(&in.IsPinned, "pin", false, "pin the note")
	cmd.Flags().BoolVar(&in.IsFavorite, "favorite", false, "mark the note as a favorite")

	return cmd
}

func NewCmdEdit(env *Env) *cobra.Command {
	var (
		title    string
		content  string
		color    int
		notebook int64
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title, content, color or notebook of a note",
		Example: heredoc.Doc(`
			jotaku edit 3 --title "Shopping"
			jotaku edit 3 --color 2 --notebook 4
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := env.service()
			if err != nil {
				return err
			}
			n, err := svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			in := usecase.InputOf(n)
			flags := cmd.Flags()
			if flags.Changed("title") {
				in.Title = title
			}
			if flags.Changed("content") {
				in.Content = content
			}
			if flags.Changed("color") {
				in.Color = color
			}
			if flags.Changed("notebook") {
				in.NotebookID = notebook
			}
			if in == usecase.InputOf(n) {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to change")
				return nil
			}

			if err := svc.Edit(cmd.Context(), id, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated note %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "new body")
	cmd.Flags().IntVar(&color, "color", 0, "palette index")
	cmd.Flags().Int64Var(&notebook, "notebook", 0, "notebook id")

	return cmd
}

func NewCmdCopy(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy <id>",
		Short: "Duplicate a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := env.service()
			if err != nil {
				return err
			}
			n, err := svc.Copy(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Copied note %d to %d\n", id, n.ID)
			return nil
		},
	}
	return cmd
}

type flagSetter func(ctx context.Context, id int64, on bool) error

// NewCmdFlag builds the pin, unpin, favorite and unfavorite commands.
func NewCmdFlag(env *Env, use, short string, setter func(Service) flagSetter, on bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			svc, err := env.service()
			if err != nil {
				return err
			}
			set := setter(svc)
			for _, id := range ids {
				if err := set(cmd.Context(), id, on); err != nil {
					return fmt.Errorf("note %d: %w", id, err)
				}
			}
			return nil
		},
	}
	return cmd
}

func NewCmdTrash(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "trash <id>...",
		Aliases: []string{"rm"},
		Short:   "Move notes to the trash",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			svc, err := env.service()
			if err != nil {
				return err
			}
			for _, id := range ids {
				if err := svc.MoveToTrash(cmd.Context(), id); err != nil {
					return fmt.Errorf("note %d: %w", id, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %d to the trash\n", len(ids))
			return nil
		},
	}
	return cmd
}

func NewCmdRestore(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <id>...",
		Short: "Bring notes back from the trash",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			svc, err := env.service()
			if err != nil {
				return err
			}
			n, err := svc.Restore(cmd.Context(), ids)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d\n", n)
			return nil
		},
	}
	return cmd
}

func NewCmdPurge(env *Env) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "purge [<id>...]",
		Short: "Delete trashed notes for good",
		Long: heredoc.Doc(`
			Deletes the given notes permanently, or the whole trash with --all.
			Only notes already in the trash are affected.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return fmt.Errorf("give note ids or --all")
			}
			svc, err := env.service()
			if err != nil {
				return err
			}

			var n int
			if all {
				n, err = svc.PurgeAll(cmd.Context())
			} else {
				var ids []int64
				if ids, err = parseIDs(args); err != nil {
					return err
				}
				n, err = svc.PurgeSelected(cmd.Context(), ids)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged %d\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "empty the trash")

	return cmd
}

// printHome prints the home list, for output that is not a terminal.
func printHome(cmd *cobra.Command, env *Env) error {
	key, err := env.Config.SortKey()
	if err != nil {
		return err
	}
	return listNotes(cmd, env, db.AllScope(), key, "")
}
