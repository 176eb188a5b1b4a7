// salonctl runs maintenance tasks against the salon database: schema
// migration, demo data and admin accounts.
package main

import (
	"fmt"
	"os"

	"dogsalon/internal/config"
	"dogsalon/internal/database"
	"dogsalon/internal/pkg/logger"
	"dogsalon/internal/repository"
	"dogsalon/internal/seed"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var dsn string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "salonctl",
	Short:        "Maintenance commands for the dog salon backend",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log, err := logger.New("dev", "info")
		if err != nil {
			return err
		}
		zap.ReplaceGlobals(log)
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := openDB()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo services, contact details and client accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		password, _ := cmd.Flags().GetString("client-password")
		res, err := seed.Demo(cmd.Context(), db, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "services: %d, clients: %d, contact: %t\n", res.Services, res.Users, res.Contact)
		return nil
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an active admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		var in seed.AdminInput
		in.Username, _ = cmd.Flags().GetString("username")
		in.Email, _ = cmd.Flags().GetString("email")
		in.Password, _ = cmd.Flags().GetString("password")
		in.Phone, _ = cmd.Flags().GetString("phone")

		u, err := seed.CreateAdmin(cmd.Context(), db, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %s created with id %d\n", u.Username, u.ID)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "database DSN (defaults to database.url from config)")

	seedCmd.Flags().String("client-password", "client123", "password of the demo client accounts")

	createAdminCmd.Flags().String("username", "", "admin username")
	createAdminCmd.Flags().String("email", "", "admin e-mail")
	createAdminCmd.Flags().String("password", "", "admin password (min 8 characters)")
	createAdminCmd.Flags().String("phone", "", "optional phone number")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(migrateCmd, seedCmd, createAdminCmd)
}

// openDB connects and migrates, so every command works on a fresh database.
func openDB() (*gorm.DB, error) {
	target := dsn
	if target == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		target = cfg.Database.URL
	}
	db, err := database.Connect(target)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
