package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/timster/go-api/internal/config"
	"github.com/timster/go-api/internal/database"
	"github.com/timster/go-api/internal/resource"
	"github.com/timster/go-api/internal/user"
)

var createadminCmd = &cobra.Command{
	Use:   "createadmin",
	Short: "Create an admin user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreateAdmin(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(createadminCmd)
}

// runCreateAdmin is the out-of-band administrative creation path: the only
// way to mint an identity with the admin flag set outside the admin API.
func runCreateAdmin(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repo := user.NewRepository(db)
	reader := bufio.NewReader(os.Stdin)

	var username string
	for {
		username = prompt(reader, "Username")
		_, err := repo.UsernameOwner(ctx, username)
		if errors.Is(err, resource.ErrNotFound) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		fmt.Println("Username already exists. Try again.")
	}

	email := prompt(reader, "E-mail")

	var password string
	for {
		password = prompt(reader, "Password")
		confirm := prompt(reader, "Password (confirm)")
		if password == confirm {
			break
		}
		fmt.Println("Passwords did not match. Try again.")
	}

	u := user.New()
	u.Username = username
	u.Email = email
	u.IsAdmin = true
	u.SetPassword(password)

	if err := repo.Save(ctx, u); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	fmt.Println("User created successfully.")
	return nil
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
