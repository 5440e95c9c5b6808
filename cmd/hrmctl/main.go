package main

import (
	"fmt"
	"os"

	"go-hrm/internal/app"
	"go-hrm/internal/auth"
	"go-hrm/internal/config"
	"go-hrm/internal/database"
	"go-hrm/internal/employee"
	"go-hrm/internal/logger"
	"go-hrm/internal/shared/connection"
	"go-hrm/internal/shared/counter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hrmctl",
		Short:         "Administrative tasks for the HRM service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newCreateAdminCmd())
	return root
}

func connect() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, nil, err
	}
	zap.ReplaceGlobals(log)

	db, err := connection.ConnectGORMWithRetry(cfg.Postgres)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, log, db, err := connect()
			if err != nil {
				return err
			}
			defer log.Sync()

			n, err := database.Migrate(cmd.Context(), db, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			return nil
		},
	}
}

func newCreateAdminCmd() *cobra.Command {
	var req auth.BootstrapAdminRequest

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the first Admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				req.Password = os.Getenv("ADMIN_PASSWORD")
			}

			cfg, log, db, err := connect()
			if err != nil {
				return err
			}
			defer log.Sync()

			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			seeder := app.NewAdminSeeder(
				sqlDB,
				employee.NewRepository(db),
				auth.NewRepository(db),
				counter.NewRepository(db),
				cfg.Auth.BcryptCost,
				log,
			)
			code, err := seeder.CreateAdmin(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created with employee code %s\n", req.Email, code)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "login email")
	cmd.Flags().StringVar(&req.Password, "password", "", "login password (defaults to $ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&req.EmployeeCode, "employee-code", "", "employee code (allocated when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
