package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mr1hm/go-air-alerts/internal/phone"
)

var hashCmd = &cobra.Command{
	Use:   "hash <phone>...",
	Short: "Print the audit hash of one or more phone numbers",
	Long: `Hash prints the identifier that audit records store in place of a phone
number, so a subscriber's entries can be looked up.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p, phone.Hash(p))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
}
