package cli

import (
	"github.com/spf13/cobra"
)

// Значения подставляются при сборке через -ldflags
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

const defaultConfigPath = "config.toml"

// NewRoot собирает корневую команду со всеми подкомандами
func NewRoot() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "reservations",
		Short:         "Restaurant reservation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to TOML config")

	cmd.AddCommand(newServeCmd(&configPath))
	cmd.AddCommand(newMigrateCmd(&configPath))
	cmd.AddCommand(newCompleteEndedCmd(&configPath))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute запускает CLI
func Execute() error {
	return NewRoot().Execute()
}
