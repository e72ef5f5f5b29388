package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"contactus-backend/database"
	"contactus-backend/logs"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Database.Driver == "memory" {
				return errors.New("nothing to migrate for the memory driver")
			}
			db, err := database.Connect(cfg.Database)
			if err != nil {
				return err
			}
			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			logs.New(cfg).Info("migrations applied")
			return nil
		},
	}
}
