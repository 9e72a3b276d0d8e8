package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"paygram/internal/service/ledger"
	"paygram/pkg/config"
	"paygram/pkg/database"
)

var sweepOlderThanMinutes int

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Fail transactions stuck in pending",
	Long: `Marks pending transactions older than the cutoff as failed.
The server runs the same sweep on a schedule; this command exists for
manual runs after an incident.`,
	Run: func(cmd *cobra.Command, args []string) {
		config.Init()

		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			config.Global.DB.Host,
			config.Global.DB.User,
			config.Global.DB.Password,
			config.Global.DB.Name,
			config.Global.DB.Port,
		)

		db, err := database.ConnectPostgres(dsn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
			os.Exit(1)
		}

		swept, err := ledger.NewService(db).FailStale(context.Background(),
			time.Duration(sweepOlderThanMinutes)*time.Minute)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sweep failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("swept %d stale pending transactions\n", swept)
	},
}

func init() {
	sweepCmd.Flags().IntVar(&sweepOlderThanMinutes, "older-than", 30, "cutoff in minutes")
	rootCmd.AddCommand(sweepCmd)
}
