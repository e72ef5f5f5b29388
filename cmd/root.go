package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"contactus-backend/config"
)

var rootCmd = &cobra.Command{
	Use:   "contactus",
	Short: "Contact form backend.",
	Long: `contactus accepts contact-form submissions over HTTP, validates them,
stores them, and lets staff browse what came in.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", ".", "directory holding config.yaml")
	rootCmd.AddCommand(newServeCommand(), newMigrateCommand(), newAdminCommand())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	dir, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.ReadConfig(dir)
}
