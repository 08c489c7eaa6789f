package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"wastewise-backend/internal/models"
	"wastewise-backend/internal/services"
)

var binsCmd = &cobra.Command{
	Use:   "bins",
	Short: "List bins with fill level and collection eligibility",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()
		return printBins(cmd.OutOrStdout(), newClient().Bins(ctx))
	},
}

var driversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "List drivers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tLAT\tLON")
		for _, d := range newClient().Drivers(ctx) {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\t%.4f\n", d.ID, d.Name, d.Status, d.Lat, d.Lon)
		}
		return tw.Flush()
	},
}

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "List trips, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tBIN\tDRIVER\tSTATION\tSTATUS\tCREATED")
		for _, t := range newClient().Trips(ctx) {
			created := time.UnixMilli(t.CreatedAt).Format("15:04:05")
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.BinID, t.Driver.Name, t.Station.Name, t.Status, created)
		}
		return tw.Flush()
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank <binId>",
	Short: "Rank available drivers and compatible stations for a bin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()
		res, err := newClient().Candidates(ctx, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s: %d%% %s (eligible: %t)\n\n", res.Bin.ID, res.Bin.Location, res.Bin.Fill, res.Bin.Type, res.Eligible)

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DRIVER\tNAME\tKM")
		for _, d := range res.Drivers {
			fmt.Fprintf(tw, "%s\t%s\t%.2f\n", d.ID, d.Name, d.DistanceKm)
		}
		fmt.Fprintln(tw, "\t\t")
		fmt.Fprintln(tw, "STATION\tNAME\tKM")
		for _, s := range res.Stations {
			fmt.Fprintf(tw, "%s\t%s\t%.2f\n", s.ID, s.Name, s.DistanceKm)
		}
		return tw.Flush()
	},
}

var dispatchCmd = &cobra.Command{
	Use:   "dispatch <binId> <driverId> <stationId>",
	Short: "Assign a driver to collect a bin",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()
		trip, err := newClient().Dispatch(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s via %s (%s)\n", trip.ID, trip.Driver.Name, trip.Location, trip.Station.Name, trip.Status)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <tripId> <status>",
	Short: "Set a trip's status (" + strings.Join(models.TripStatuses, ", ") + ")",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateTrip(cmd, args[0], args[1])
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <tripId>",
	Short: "Mark a trip completed and free its driver",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateTrip(cmd, args[0], models.TripCompleted)
	},
}

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll bins and print them until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchBins(ctx, cmd.OutOrStdout(), watchInterval)
	},
}

func init() {
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 5*time.Second, "poll interval")
	rootCmd.AddCommand(binsCmd, driversCmd, tripsCmd, rankCmd, dispatchCmd, statusCmd, completeCmd, watchCmd)
}

func updateTrip(cmd *cobra.Command, tripID, status string) error {
	ctx, cancel := commandContext()
	defer cancel()
	trip, err := newClient().UpdateTripStatus(ctx, tripID, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", trip.ID, trip.Status)
	return nil
}

func printBins(w io.Writer, bins []models.Bin) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLOCATION\tTYPE\tFILL\tSTATUS\tCOLLECT\tUPDATED")
	for _, b := range bins {
		collect := ""
		if services.IsEligible(b) {
			collect = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d%%\t%s\t%s\t%s\n", b.ID, b.Location, b.Type, b.Fill, services.FillStatus(b.Fill), collect, b.Updated)
	}
	return tw.Flush()
}

func watchBins(ctx context.Context, w io.Writer, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	c := newClient()
	for {
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		bins := c.Bins(reqCtx)
		cancel()
		fmt.Fprintf(w, "-- %s --\n", time.Now().Format("15:04:05"))
		if err := printBins(w, bins); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
