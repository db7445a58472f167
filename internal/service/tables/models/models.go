package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// CreateTableRequest запрос на добавление стола
type CreateTableRequest struct {
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
}

// TableResponse ответ с данными стола
type TableResponse struct {
	ID        int64     `json:"id"`
	Capacity  int       `json:"capacity"`
	Location  string    `json:"location,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableListResponse ответ со списком столов
type TableListResponse struct {
	Tables []TableResponse `json:"tables"`
}

// FromDomainTable конвертирует domain модель в DTO
func FromDomainTable(t *domain.Table) *TableResponse {
	if t == nil {
		return nil
	}
	return &TableResponse{
		ID:        t.ID,
		Capacity:  t.Capacity,
		Location:  t.Location,
		Active:    t.Active,
		CreatedAt: t.CreatedAt,
	}
}

// FromDomainTableList конвертирует список domain моделей в DTO
func FromDomainTableList(tables []*domain.Table) *TableListResponse {
	resp := &TableListResponse{
		Tables: make([]TableResponse, 0, len(tables)),
	}
	for _, t := range tables {
		resp.Tables = append(resp.Tables, *FromDomainTable(t))
	}
	return resp
}
