package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"paygram/pkg/chain"
	"paygram/pkg/config"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Read token and native balance for an address",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config.Init()

		client, err := chain.NewClient(
			config.Global.Chain.RpcUrl,
			config.Global.Chain.TokenAddress,
			config.Global.Chain.TokenDecimals,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "chain client failed: %v\n", err)
			os.Exit(1)
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		bal, err := client.GetBalance(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "balance read failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%s: %s %s\n", args[0], bal.Token.String(), config.Global.Chain.TokenSymbol)
		fmt.Printf("native: %s\n", bal.Native.String())
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
