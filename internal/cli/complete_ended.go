package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

const completeEndedTimeout = 5 * time.Minute

// CompletionRunner завершает прошедшие подтверждённые брони
type CompletionRunner interface {
	CompleteEnded(ctx context.Context) (*models.CompleteEndedResponse, error)
}

func newCompleteEndedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "complete-ended",
		Short: "Mark confirmed reservations that already ended as completed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), completeEndedTimeout)
			defer cancel()

			a, err := newApp(ctx, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			completed, err := runCompletion(ctx, a.reservationService(), a.log)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "completed %d reservations\n", completed)
			return nil
		},
	}
}
