package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/issuehub/issuehub/pkg/auth"
	"github.com/issuehub/issuehub/pkg/db"
	"github.com/issuehub/issuehub/pkg/model"
	gormstore "github.com/issuehub/issuehub/pkg/server/store/gorm"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create <name> <email>",
	Short: "Create a user account",
	Long: `Create a user account directly in the database.

Useful for bootstrapping the first account before the API is reachable. The
password is read from the ISSUEHUB_USER_PASSWORD environment variable; if it
is unset, a random password is generated and printed to STDOUT.

Example:
  issuehubctl user create "Ada Lovelace" ada@example.com`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		password, err := createUser(args[0], args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create user: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Created user '%s'\n", args[1])
		if password != "" {
			fmt.Printf("Generated password: %s\n", password)
		}
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
}

func createUser(name, email string) (generated string, err error) {
	password := os.Getenv("ISSUEHUB_USER_PASSWORD")
	if password == "" {
		raw := make([]byte, 18)
		if _, err := rand.Read(raw); err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		password = base64.URLEncoding.EncodeToString(raw)
		generated = password
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return "", err
	}

	users := gormstore.NewUsersStore(database)
	if _, err := users.GetUserByEmail(email); err == nil {
		return "", fmt.Errorf("user '%s' already exists", email)
	}

	user := &model.User{Name: name, Email: email, PasswordHash: hash}
	if err := users.CreateUser(user); err != nil {
		return "", fmt.Errorf("failed to store user: %w", err)
	}
	return generated, nil
}
