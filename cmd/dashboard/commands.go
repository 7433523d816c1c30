package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/samvad-hq/samvad-dashboard/internal/app"
	"github.com/samvad-hq/samvad-dashboard/internal/domain"
	"github.com/spf13/cobra"
)

var errUsage = errors.New("usage error")

func usageErr(err error) error {
	return fmt.Errorf("%w: %w", errUsage, err)
}

// dashboardAPI is the subset of *app.Dashboard the commands drive.
type dashboardAPI interface {
	FetchAll(ctx context.Context) (app.Snapshot, error)

	ListNotes(ctx context.Context) ([]domain.Note, error)
	CreateNote(ctx context.Context, in domain.NoteInput) (domain.Note, error)
	UpdateNote(ctx context.Context, id string, in domain.NoteInput) (domain.Note, error)
	DeleteNote(ctx context.Context, id string) error

	ListReports(ctx context.Context) ([]domain.Report, error)
	CreateReport(ctx context.Context, in domain.ReportInput) (domain.Report, error)
	UpdateReport(ctx context.Context, id string, in domain.ReportInput) (domain.Report, error)
	DeleteReport(ctx context.Context, id string) error

	ListTasks(ctx context.Context) ([]domain.Task, error)
	CreateTask(ctx context.Context, in domain.TaskInput) (domain.Task, error)
	UpdateTask(ctx context.Context, id string, in domain.TaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// opener builds the dashboard for a command. cleanup may be nil.
type opener func(ctx context.Context) (d dashboardAPI, cleanup func(), err error)

type cli struct {
	out    io.Writer
	open   opener
	output string
}

func newRootCmd(out io.Writer, open opener) *cobra.Command {
	c := &cli{out: out, open: open}

	root := &cobra.Command{
		Use:   "dashboard",
		Short: "Read and edit notes, reports and tasks across the backend services",
		Long: `dashboard talks to the notes, reports and tasks services configured through
API_NOTES_URL, API_REPORTS_URL and API_TASKS_URL (API_BASE is the fallback).

Exit codes:
  0 success
  1 invalid input or configuration
  2 authentication or permission failure
  3 backend or network failure`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			switch c.output {
			case formatJSON, formatYAML:
				return nil
			default:
				return usageErr(fmt.Errorf("unsupported output format %q", c.output))
			}
		},
	}
	root.PersistentFlags().StringVarP(&c.output, "output", "o", formatJSON, "output format: json or yaml")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageErr(err) })

	root.AddCommand(
		c.fetchCmd(),
		c.notesCmd(),
		c.reportsCmd(),
		c.tasksCmd(),
	)
	return root
}

// with opens the dashboard, runs fn and releases it.
func (c *cli) with(cmd *cobra.Command, fn func(ctx context.Context, d dashboardAPI) (any, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	d, cleanup, err := c.open(ctx)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	v, err := fn(ctx, d)
	if v != nil {
		if werr := render(c.out, c.output, v); werr != nil {
			return errors.Join(err, werr)
		}
	}
	return err
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageErr(err)
		}
		return nil
	}
}

func (c *cli) fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Load notes, reports and tasks together",
		Long: `Load all three collections concurrently. A failing service leaves its list
empty and reports its error; the others are still printed.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.with(cmd, func(ctx context.Context, d dashboardAPI) (any, error) {
				snap, err := d.FetchAll(ctx)
				if snap.FetchedAt.IsZero() {
					return nil, err
				}
				return snap, err
			})
		},
	}
}

func (c *cli) notesCmd() *cobra.Command {
	var in domain.NoteInput
	cmd := &cobra.Command{Use: "notes", Short: "Manage notes"}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.with(cmd, func(ctx context.Context, d dashboardAPI) (any, error) {
				return nilOnErr(d.CreateNote(ctx, in))
			})
		},
	}
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a note",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.with(cmd, func(ctx context.Context, d dashboardAPI) (any, error) {
				return nilOnErr(d.UpdateNote(ctx, args[0], in))
			})
		},
	}
	for _, sub := range []*cobra.Command{create, update} {
		sub.Flags().StringVar(&in.Title, "title", "", "note title")
		sub.Flags().StringVar(&in.Content, "content", "", "note content")
	}

	cmd.AddCommand(
		c.listCmd("List notes, newest first", func(ctx context.Context, d dashboardAPI) (any, error) {
			return nilOnErr(d.ListNotes(ctx))
		}),
		create,
		update,
		c.deleteCmd("note", func(ctx context.Context, d dashboardAPI, id string) error {
			return d.DeleteNote(ctx, id)
		}),
	)
	return cmd
}

func (c *cli) reportsCmd() *cobra.Command {
	var in domain.ReportInput
	cmd := &cobra.Command{Use: "reports", Short: "Manage reports"}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a report",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.with(cmd, func(ctx context.Context, d dashboardAPI) (any, error) {
				return nilOnErr(d.CreateReport(ctx, in))
			})
		},
	}
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a report",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.with(cmd, func(ctx context.Context, d dashboardAPI) (any, error) {
				return nilOnErr(d.UpdateReport(ctx, args[0], in))
			})
		},
	}
	for _, sub := range []*cobra.Command{create, update} {
		sub.Flags().StringVar(&in.Title, "title", "", "report title (10 to 500 characters)")
		sub.Flags().StringVar(&in.Content, "content", "", "report body (up to 500 characters)")
	}

	cmd.AddCommand(
		c.listCmd("List reports", func(ctx context.Context, d dashboardAPI) (any, error) {
			return nilOnErr(d.ListReports(ctx))
		}),
		create,
		update,
		c.deleteCmd("report", func(ctx context.Context, d dashboardAPI, id string) error {
			return d.DeleteReport(ctx, id)
		}),
	)
	return cmd
}

func (c *cli) tasksCmd() *cobra.Command {
	var (
		in   domain.TaskInput
		done bool
	)
	cmd := &cobra.Command{Use: "tasks", Short: "Manage tasks"}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.with(cmd, func(ctx context.Context, d dashboardAPI) (any, error) {
				return nilOnErr(d.CreateTask(ctx, in))
			})
		},
	}
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a task",
		Long: `Replace a task. Without --done the task keeps its current completion
state, read from the tasks service before the update is sent.`,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("done") {
				in.Done = &done
			}
			return c.with(cmd, func(ctx context.Context, d dashboardAPI) (any, error) {
				if in.Done == nil {
					cur, err := currentDone(ctx, d, args[0])
					if err != nil {
						return nil, err
					}
					in.Done = cur
				}
				return nilOnErr(d.UpdateTask(ctx, args[0], in))
			})
		},
	}
	for _, sub := range []*cobra.Command{create, update} {
		sub.Flags().StringVar(&in.Title, "title", "", "task title")
		sub.Flags().StringVar(&in.Description, "description", "", "task description (required)")
	}
	update.Flags().BoolVar(&done, "done", false, "mark the task as completed")

	cmd.AddCommand(
		c.listCmd("List tasks by title", func(ctx context.Context, d dashboardAPI) (any, error) {
			return nilOnErr(d.ListTasks(ctx))
		}),
		create,
		update,
		c.deleteCmd("task", func(ctx context.Context, d dashboardAPI, id string) error {
			return d.DeleteTask(ctx, id)
		}),
	)
	return cmd
}

func (c *cli) listCmd(short string, fn func(ctx context.Context, d dashboardAPI) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: short,
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.with(cmd, fn)
		},
	}
}

func (c *cli) deleteCmd(noun string, fn func(ctx context.Context, d dashboardAPI, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + noun,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.with(cmd, func(ctx context.Context, d dashboardAPI) (any, error) {
				if err := fn(ctx, d, args[0]); err != nil {
					return nil, err
				}
				return map[string]string{"deleted": args[0]}, nil
			})
		},
	}
}

// currentDone looks up the completion state of task id. It returns nil when
// the task is not listed, leaving the field out of the update.
func currentDone(ctx context.Context, d dashboardAPI, id string) (*bool, error) {
	tasks, err := d.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ID == id {
			done := t.Done
			return &done, nil
		}
	}
	return nil, nil
}

// nilOnErr drops the value when err is set so nothing is printed for a failure.
func nilOnErr[T any](v T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}
