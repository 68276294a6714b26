package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zhanma666/evil-cook-project/config"
	"github.com/zhanma666/evil-cook-project/internal/database"
	"github.com/zhanma666/evil-cook-project/internal/logging"
	"github.com/zhanma666/evil-cook-project/internal/seed"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts seed.Options

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Load the sample users and recipes",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.IsProduction() && opts.Reset {
				return fmt.Errorf("--reset is not allowed in production")
			}
			logger := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

			db, err := database.Open(cfg, logger)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.RunMigrations(db, cfg.MigrationsDir, logger); err != nil {
				return err
			}

			data, err := seed.Load()
			if err != nil {
				return err
			}
			res, err := seed.Run(context.Background(), db, data, opts, logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %d users and %d recipes\n", res.Users, res.Recipes)
			if res.Users > 0 {
				password := opts.Password
				if password == "" {
					password = seed.DefaultPassword
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sample users log in with password %q\n", password)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Reset, "reset", false, "delete existing users, recipes and reactions first")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password for the sample users")
	return cmd
}
