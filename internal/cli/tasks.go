package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"taskboard/internal/models"
	"taskboard/internal/store"
	"taskboard/internal/taskfile"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	dueStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	nothingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
)

// errNotFound is returned by the mutation commands so the process exits non-zero.
var errNotFound = errors.New("no matching task")

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring and one-off tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.TaskStore) error {
				listing, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				printListing(cmd.OutOrStdout(), listing)
				return nil
			})
		},
	}
}

func printListing(w io.Writer, l *models.Listing) {
	if len(l.Recurring) == 0 && len(l.OneOff) == 0 {
		fmt.Fprintln(w, faintStyle.Render("No tasks"))
		return
	}

	if len(l.Recurring) > 0 {
		fmt.Fprintln(w, headerStyle.Render("Recurring"))

		width := 0
		for _, t := range l.Recurring {
			width = max(width, len(t.Description))
		}
		for _, t := range l.Recurring {
			name := fmt.Sprintf("%-*s", width, t.Description)
			freq := fmt.Sprintf("%-5s", t.Frequency)
			if t.Due {
				fmt.Fprintf(w, "  %s  %s  %s\n", dueStyle.Render(name), freq, dueStyle.Render(recurringStatus(t)))
			} else {
				fmt.Fprintf(w, "  %s  %s  %s\n", name, freq, okStyle.Render(recurringStatus(t)))
			}
		}
	}

	if len(l.OneOff) > 0 {
		if len(l.Recurring) > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, headerStyle.Render("One-off"))
		for _, t := range l.OneOff {
			fmt.Fprintf(w, "  • %s\n", t.Description)
		}
	}
}

func recurringStatus(t models.Task) string {
	switch {
	case t.LastCompleted == nil:
		return "never done"
	case t.MinutesLate != nil:
		return models.OverdueLabel(*t.MinutesLate)
	case t.NextDue != nil:
		return "next " + t.NextDue.Format(taskfile.TimeLayout)
	default:
		return ""
	}
}

func addCmd(a *app) *cobra.Command {
	var freq string

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Add a one-off task, or a recurring one with --freq",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.TaskStore) error {
				if freq == "" {
					if err := s.Add(cmd.Context(), args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Added %q\n", strings.TrimSpace(args[0]))
					return nil
				}

				f, err := models.ParseFrequency(freq)
				if err != nil {
					return err
				}
				if err := s.AddRecurring(cmd.Context(), args[0], f); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s)\n", strings.TrimSpace(args[0]), f)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&freq, "freq", "f", "", "repeat interval: "+frequencyList())
	return cmd
}

func frequencyList() string {
	names := make([]string, 0, len(models.Frequencies()))
	for _, f := range models.Frequencies() {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}

func editCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <old description> <new description>",
		Short: "Rename a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.TaskStore) error {
				found, err := s.Edit(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("%w: %q", errNotFound, args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %q to %q\n", args[0], strings.TrimSpace(args[1]))
				return nil
			})
		},
	}
}

func removeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <description>",
		Aliases: []string{"rm"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.TaskStore) error {
				found, err := s.Remove(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("%w: %q", errNotFound, args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", args[0])
				return nil
			})
		},
	}
}

func completeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "complete <description>",
		Aliases: []string{"done"},
		Short:   "Complete a task; one-off tasks are removed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.TaskStore) error {
				found, err := s.Complete(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("%w: %q", errNotFound, args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Completed %q\n", args[0])
				return nil
			})
		},
	}
}

func dueCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "due",
		Short: "Print what needs doing now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.TaskStore) error {
				tasks, err := s.Due(cmd.Context())
				if err != nil {
					return err
				}
				printDue(cmd.OutOrStdout(), tasks, limit)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "maximum tasks to print (0 for all)")
	return cmd
}

func printDue(w io.Writer, tasks []models.Task, limit int) {
	if len(tasks) == 0 {
		fmt.Fprintf(w, "%s nothing due\n", nothingStyle.Render("Tasks:"))
		return
	}

	fmt.Fprintln(w, dueStyle.Render("Tasks due:"))
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	for _, t := range tasks {
		fmt.Fprintf(w, "  • %s\n", t.Description)
	}
}
