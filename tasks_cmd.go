package main

import (
	"fmt"
	"io"
	"log"
	"strings"
	"text/tabwriter"

	"github.com/harrisonrobin/schedalize/pkg/dates"
	"github.com/harrisonrobin/schedalize/pkg/model"
	"github.com/harrisonrobin/schedalize/pkg/overdue"
	"github.com/spf13/cobra"
)

func printTasks(w io.Writer, list []model.CalendarTask, today dates.Date) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDAY\tSTATUS\tPLATFORM\tTITLE\tID")
	for _, t := range list {
		status := "todo"
		switch {
		case t.IsCompleted:
			status = "done"
		case overdue.IsOverdue(t, today):
			status = "overdue"
		case t.DaysPushed() > 0:
			status = fmt.Sprintf("pushed +%d", t.DaysPushed())
		}
		platform := "-"
		if t.Platform != nil && *t.Platform != "" {
			platform = *t.Platform
		}
		day := "-"
		if t.DayNumber != nil {
			day = fmt.Sprintf("%d", *t.DayNumber)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ScheduledDate, day, status, platform, t.Title, t.ID)
	}
	tw.Flush()
}

func parseDateFlag(name, value string) (dates.Date, error) {
	if value == "" {
		return dates.Date{}, nil
	}
	d, err := dates.ParseDate(value)
	if err != nil {
		return dates.Date{}, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	return d, nil
}

func todayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's tasks and anything left behind",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := a.engine("")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			today := eng.Today()

			todays, err := eng.ListTodayTasks(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Today (%s)\n", today)
			printTasks(out, todays, today)

			past := model.DateRange{End: today.AddDays(-1)}
			earlier, err := eng.ListTasks(ctx, &past, false)
			if err != nil {
				return err
			}
			if late := overdue.Overdue(earlier, today); len(late) > 0 {
				fmt.Fprintf(out, "\n%d overdue task(s):\n", len(late))
				printTasks(out, late, today)
				fmt.Fprintln(out, "\nRun `schedalize push` to move every incomplete task forward by one day.")
			}

			trackOverdue(out, append(earlier, todays...), today)
			return nil
		},
	}
}

// trackOverdue reports tasks that slipped past their day since the last run.
func trackOverdue(out io.Writer, seen []model.CalendarTask, today dates.Date) {
	path, err := overdue.DefaultPath()
	if err != nil {
		log.Printf("[overdue] %v", err)
		return
	}
	table, err := overdue.NewTable(path)
	if err != nil {
		log.Printf("[overdue] could not open table: %v", err)
		return
	}
	for _, entry := range table.Sweep(today) {
		fmt.Fprintf(out, "Slipped since last check: %s (was %s)\n", entry.Title, entry.Scheduled)
	}
	table.Track(seen, today)
	if err := table.Save(); err != nil {
		log.Printf("[overdue] could not save table: %v", err)
	}
}

func tasksCmd(a *app) *cobra.Command {
	var from string
	var days int
	var all bool

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks in a date window",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine("")
			if err != nil {
				return err
			}
			start, err := parseDateFlag("from", from)
			if err != nil {
				return err
			}

			var window *model.DateRange
			if !start.IsZero() || days > 0 {
				if start.IsZero() {
					start = eng.Today()
				}
				if days <= 0 {
					days = a.cfg.WindowDays
				}
				w := model.NewDateRange(start, days)
				window = &w
			}

			list, err := eng.ListTasks(cmd.Context(), window, all)
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), list, eng.Today())
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day of the window (YYYY-MM-DD, default today)")
	cmd.Flags().IntVarP(&days, "days", "d", 0, "Window length in days (default from config)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include completed tasks")
	return cmd
}

func importCmd(a *app) *cobra.Command {
	var start, file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create one task per template on consecutive days",
		Long: `Import the template set as calendar tasks. Template i lands on start+i
with day number i+1. Importing twice creates the tasks twice.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine(file)
			if err != nil {
				return err
			}
			day, err := parseDateFlag("start", start)
			if err != nil {
				return err
			}
			n, err := eng.ImportTemplates(cmd.Context(), day)
			if err != nil {
				return err
			}
			if day.IsZero() {
				day = eng.Today()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d task(s) starting %s\n", n, day)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First day (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML template file (default from config, else the starter set)")
	return cmd
}

func pushCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Move every incomplete task forward by one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine("")
			if err != nil {
				return err
			}
			summary, err := eng.PushForward(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, summary.Message)
			for _, t := range summary.Tasks {
				fmt.Fprintf(out, "  %s  %s (originally %s)\n", t.ScheduledDate, t.Title, t.OriginalDate)
			}
			return nil
		},
	}
}

func generateCmd(a *app) *cobra.Command {
	var mood, prompt, length string
	var emojis, save bool

	cmd := &cobra.Command{
		Use:   "generate <task-id>",
		Short: "Generate content for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine("")
			if err != nil {
				return err
			}

			var opts model.GenerateOptions
			if mood != "" {
				opts.Mood = &mood
			}
			if prompt != "" {
				opts.PromptID = &prompt
			}
			if length != "" {
				opts.Length = &length
			}
			if cmd.Flags().Changed("emojis") {
				opts.IncludeEmojis = &emojis
			}

			content, err := eng.GenerateContent(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, content)

			if save {
				task, err := eng.CompleteTask(cmd.Context(), args[0], &content)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\nCompleted %q\n", task.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mood, "mood", "", "Mood to write in")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Prompt id")
	cmd.Flags().StringVar(&length, "length", "", "Length hint (short, medium, long)")
	cmd.Flags().BoolVar(&emojis, "emojis", true, "Include emojis")
	cmd.Flags().BoolVar(&save, "complete", false, "Complete the task with the generated content")
	return cmd
}

func completeCmd(a *app) *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine("")
			if err != nil {
				return err
			}
			var generated *string
			if cmd.Flags().Changed("content") {
				text := strings.TrimSpace(content)
				generated = &text
			}
			task, err := eng.CompleteTask(cmd.Context(), args[0], generated)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %q\n", task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&content, "content", "c", "", "Content that was published")
	return cmd
}
