package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/harrisonrobin/schedalize/pkg/history"
	"github.com/spf13/cobra"
)

func historyCmd(a *app) *cobra.Command {
	var types []string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show replies, completed tasks and scheduled posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			agg := history.New(client)
			if len(types) > 0 {
				var selected []history.ItemType
				for _, name := range types {
					t, err := history.ParseType(name)
					if err != nil {
						return err
					}
					selected = append(selected, t)
				}
				agg.Select(selected...)
			}
			agg.LoadAll(cmd.Context())

			out := cmd.OutOrStdout()
			counts := agg.Counts()
			var chips []string
			for _, t := range history.AllTypes {
				mark := " "
				if agg.IsSelected(t) {
					mark = "x"
				}
				chips = append(chips, fmt.Sprintf("[%s] %s (%d)", mark, t.Label(), counts[t]))
			}
			fmt.Fprintln(out, strings.Join(chips, "  "))

			items := agg.FilteredItems()
			if len(items) == 0 {
				fmt.Fprintln(out, "No history yet.")
				return nil
			}
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tTYPE\tPLATFORM\tSUMMARY")
			for _, item := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					item.CreatedAt.Local().Format("2006-01-02 15:04"),
					item.Type(),
					orDash(item.Platform),
					summarize(item))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringSliceVarP(&types, "type", "t", nil, "Only show these types (reply, task, scheduled)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum items to show")
	return cmd
}

func summarize(item history.Item) string {
	var text string
	switch d := item.Details.(type) {
	case history.ReplyDetails:
		text = fmt.Sprintf("%s -> %s", d.OriginalMessage, item.Content)
	case history.TaskDetails:
		text = d.Title
		if d.DayNumber != nil {
			text = fmt.Sprintf("Day %d: %s", *d.DayNumber, d.Title)
		}
		if item.Content != "" {
			text += " - " + item.Content
		}
	case history.ScheduledDetails:
		when := "unscheduled"
		if d.ScheduledFor != nil {
			when = d.ScheduledFor.Local().Format(time.DateTime)
		}
		text = fmt.Sprintf("[%s %s] %s", d.Status, when, item.Content)
	}
	return truncate(strings.ReplaceAll(text, "\n", " "), 80)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
