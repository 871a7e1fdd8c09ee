package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "issuehubctl",
	Short: "IssueHub server and administration CLI",
	Long:  `issuehubctl runs the IssueHub server and manages its database and configuration.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
