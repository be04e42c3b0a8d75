package main

import (
	"fmt"
	"log"

	"github.com/harrisonrobin/schedalize/pkg/colors"
	"github.com/harrisonrobin/schedalize/pkg/google"
	"github.com/harrisonrobin/schedalize/pkg/index"
	"github.com/harrisonrobin/schedalize/pkg/model"
	"github.com/spf13/cobra"
)

func mirrorCmd(a *app) *cobra.Command {
	var calendarName string
	var days, back int
	var prune bool

	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Copy calendar tasks into a Google Calendar as all-day events",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// Priority: flag > config > default
			selected := a.cfg.Calendar
			if calendarName != "" {
				selected = calendarName
			}
			if days <= 0 {
				days = a.cfg.WindowDays
			}

			eng, err := a.engine("")
			if err != nil {
				return err
			}
			today := eng.Today()
			window := model.DateRange{Start: today.AddDays(-back), End: today.AddDays(days)}
			list, err := eng.ListTasks(ctx, &window, true)
			if err != nil {
				return err
			}

			idxPath, err := index.DefaultPath()
			if err != nil {
				return err
			}
			evtIndex, err := index.NewEventIndex(idxPath)
			if err != nil {
				log.Printf("Warning: failed to initialize event index: %v", err)
				evtIndex = nil
			}
			var palette *colors.Palette
			if palettePath, err := colors.DefaultPath(); err == nil {
				if palette, err = colors.NewPalette(palettePath); err != nil {
					log.Printf("Warning: could not load color palette: %v", err)
					palette = nil
				}
			}

			gClient, err := google.NewClient(ctx, selected, evtIndex, palette)
			if err != nil {
				return fmt.Errorf("error creating Google Calendar client: %w", err)
			}

			stats, err := gClient.Sync(ctx, list, today, prune)
			if evtIndex != nil {
				if err := evtIndex.Save(); err != nil {
					log.Printf("Warning: failed to save event index: %v", err)
				}
			}
			if palette != nil {
				if err := palette.Save(); err != nil {
					log.Printf("Warning: failed to save color palette: %v", err)
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Mirrored %d task(s) to %q: %s\n", len(list), selected, stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&calendarName, "calendar", "", "Google Calendar name (overrides config)")
	cmd.Flags().IntVarP(&days, "days", "d", 0, "Days ahead to mirror (default from config)")
	cmd.Flags().IntVar(&back, "back", 7, "Days back to mirror, so overdue tasks get marked")
	cmd.Flags().BoolVar(&prune, "prune", false, "Delete events whose task left the window")
	return cmd
}
