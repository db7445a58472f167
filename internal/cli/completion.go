package cli

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// completionJobTimeout ограничение одного прохода планировщика
const completionJobTimeout = 2 * time.Minute

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// runCompletion выполняет один проход завершения прошедших броней.
// При частичной ошибке возвращает число уже завершённых броней вместе с ошибкой.
func runCompletion(ctx context.Context, runner CompletionRunner, log Logger) (int, error) {
	resp, err := runner.CompleteEnded(ctx)

	completed := 0
	if resp != nil {
		completed = resp.Completed
	}

	if err != nil {
		log.Error("Completion: stopped after %d reservations: %v", completed, err)
		return completed, err
	}

	if completed > 0 {
		log.Info("Completion: %d reservations marked as completed", completed)
	}
	return completed, nil
}

// startCompletionScheduler запускает периодическое завершение по cron-расписанию.
// Пропускает запуск, если предыдущий проход ещё не закончился.
func startCompletionScheduler(schedule string, loc *time.Location, runner CompletionRunner, log Logger) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), completionJobTimeout)
		defer cancel()

		_, _ = runCompletion(ctx, runner, log)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
