package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pay-cli",
	Short: "Operational command line for the payment service",
	Long: `pay-cli is the operator-side tool for the payment service.
It reads on-chain balances and inspects the ledger without going
through the HTTP API.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
