package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/migrations"
)

const migrateTimeout = time.Minute

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
			defer cancel()

			a, err := newApp(ctx, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := migrations.Migrate(ctx, a.db); err != nil {
				a.log.Error("Migration failed: %v", err)
				return err
			}

			a.log.Info("Schema applied")
			return nil
		},
	}
}
