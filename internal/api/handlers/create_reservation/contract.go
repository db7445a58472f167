package create_reservation

import (
	"context"

	uc "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
)

type UseCase interface {
	Execute(ctx context.Context, req *uc.Request) (*uc.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
