package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fenneh/discord-f1-reminder/internal/notifications"
	"github.com/fenneh/discord-f1-reminder/internal/race"
	"github.com/fenneh/discord-f1-reminder/internal/reminder"
)

// --------------------------------------------------------------------------
// sessions command
// --------------------------------------------------------------------------

func sessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List every session in the schedule and whether a reminder would be scheduled",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				weekends, err := a.service.Weekends(ctx)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "SESSION\tRACE\tSTART (UTC)\tREMINDER AT\tDECISION")
				for _, e := range reminder.Plan(weekends, time.Now(), a.cfg.LeadTime) {
					start, fire := "-", "-"
					if e.Start != nil {
						start = e.Start.At.Format("2006-01-02 15:04")
						fire = e.FireAt.Format("2006-01-02 15:04")
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.RaceName, start, fire, e.Decision)
				}
				return tw.Flush()
			})
		},
	}
}

// --------------------------------------------------------------------------
// grid command
// --------------------------------------------------------------------------

func gridCmd() *cobra.Command {
	var season, round, circuit string
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print the starting grid for a round",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				w := race.Weekend{Season: season, Round: round, Circuit: race.Circuit{CircuitID: circuit}}
				block, ok := notifications.RenderGrid(a.composer.Grid(ctx, w))
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "No starting grid available for %s round %s\n", season, round)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), block)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&season, "season", "", "Season year")
	cmd.Flags().StringVar(&round, "round", "", "Round number")
	cmd.Flags().StringVar(&circuit, "circuit", "", "Ergast circuitId, enables the OpenF1 fallback")
	cmd.MarkFlagRequired("season")
	cmd.MarkFlagRequired("round")
	return cmd
}
