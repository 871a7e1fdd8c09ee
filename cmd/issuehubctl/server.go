package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/issuehub/issuehub/pkg/config"
	"github.com/issuehub/issuehub/pkg/db"
	"github.com/issuehub/issuehub/pkg/server"
	"github.com/issuehub/issuehub/pkg/server/endpoints"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the IssueHub application server",
	Long: `Run the IssueHub application server.

Requires the DATABASE_URL and ISSUEHUB_TOKEN_SECRET environment variables.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		if host, _ := cmd.Flags().GetString("bind-address"); host != "" {
			cfg.BindAddress = host
		}
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}
		if db.URL() == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to connect to DB: %v\n", err)
			os.Exit(1)
		}

		s, err := server.NewServer(cfg, database)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to start server: %v\n", err)
			os.Exit(1)
		}

		endpoints.RegisterAll(s)

		log.Printf("Running server at http://%s:%s...\n", cfg.BindAddress, cfg.Port)
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", "", "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", "", "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
