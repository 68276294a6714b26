package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zhanma666/evil-cook-project/config"
	"github.com/zhanma666/evil-cook-project/internal/database"
	"github.com/zhanma666/evil-cook-project/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		rollback bool
		dir      string
	)

	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply or roll back database migrations",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}
			logger := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

			db, err := database.Open(cfg, logger)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if rollback {
				name, err := database.RollbackLastMigration(db, dir, logger)
				if err != nil {
					return err
				}
				if name == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "No migrations to roll back")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rolled back migration: %s\n", name)
				return nil
			}

			if err := database.RunMigrations(db, dir, logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All migrations applied successfully.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&rollback, "rollback", false, "roll back the last applied migration")
	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory (defaults to MIGRATIONS_DIR)")
	return cmd
}
