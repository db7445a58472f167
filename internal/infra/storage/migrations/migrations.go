package migrations

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
)

//go:embed schema.sql
var schemaSQL string

// Schema возвращает SQL схемы базы данных
func Schema() string {
	return schemaSQL
}

// Migrate создаёт недостающие таблицы, ограничения и индексы. Повторный запуск безопасен.
func Migrate(ctx context.Context, db dbmetrics.DBExecutor) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
