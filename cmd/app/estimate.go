package main

import (
	"fmt"

	"github.com/Domenick1991/flightclaim/internal/service/compensation"
	"github.com/spf13/cobra"
)

var (
	estimateFrom       string
	estimateTo         string
	estimatePassengers int
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Print the compensation estimate for a route",
	RunE: func(cmd *cobra.Command, args []string) error {
		if estimatePassengers < 1 || estimatePassengers > 9 {
			return fmt.Errorf("passengers must be between 1 and 9, got %d", estimatePassengers)
		}

		result := compensation.Estimate(estimateFrom, estimateTo, estimatePassengers)
		fees := compensation.SplitFees(result.Total)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "distance:      %d km\n", result.DistanceKm)
		fmt.Fprintf(out, "per passenger: EUR %d\n", result.PerPassenger)
		fmt.Fprintf(out, "total:         EUR %d\n", result.Total)
		fmt.Fprintf(out, "commission:    EUR %s\n", formatCents(fees.CommissionCents))
		fmt.Fprintf(out, "net:           EUR %s\n", formatCents(fees.NetCents))
		return nil
	},
}

func init() {
	estimateCmd.Flags().StringVar(&estimateFrom, "from", "", "Departure city")
	estimateCmd.Flags().StringVar(&estimateTo, "to", "", "Arrival city")
	estimateCmd.Flags().IntVar(&estimatePassengers, "passengers", 1, "Number of passengers (1-9)")
	_ = estimateCmd.MarkFlagRequired("from")
	_ = estimateCmd.MarkFlagRequired("to")
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
