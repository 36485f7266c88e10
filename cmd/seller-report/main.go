package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "seller-report",
		Short:         "Print seller order attribution and revenue reports as JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.storeID, "store", "", "seller store id")
	rootCmd.PersistentFlags().BoolVar(&opts.pretty, "pretty", true, "indent JSON output")
	_ = rootCmd.MarkPersistentFlagRequired("store")

	rootCmd.AddCommand(
		newOrdersCmd(opts),
		newOrderCmd(opts),
		newRevenueCmd(opts),
	)
	return rootCmd
}
