package get_available_slots

import (
	"context"

	uc "github.com/m04kA/SMC-ReservationService/internal/usecase/list_available_slots"
)

type UseCase interface {
	Execute(ctx context.Context, req *uc.Request) (*uc.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
