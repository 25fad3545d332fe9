package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mr1hm/go-air-alerts/internal/logging"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "air-alert",
	Short: "Air pollution SMS alerts",
	Long: `air-alert reads hourly pollution and subscriber extracts, works out the
current pollution tier and texts subscribers whose alert threshold is met.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load(envFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Fatalf("Fatal: %v", err)
	}
}
