package serving

import (
	"time"

	"github.com/google/uuid"

	alertsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/alerts"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
)

// ServingRecordDTO is the external representation of one serving log entry.
type ServingRecordDTO struct {
	ID       uuid.UUID `json:"id"`
	MealID   uuid.UUID `json:"meal_id"`
	ServedAt time.Time `json:"served_at"`
	Portions int       `json:"portions"`
	UserID   uuid.UUID `json:"user_id"`
}

// ServeResponse reports the outcome of a serve attempt. Success is false
// when the kitchen could not cover the requested portions; the message then
// carries the operator-facing explanation.
type ServeResponse struct {
	Success          bool                `json:"success"`
	Message          string              `json:"message"`
	PossiblePortions int64               `json:"possible_portions"`
	Record           *ServingRecordDTO   `json:"record,omitempty"`
	Alerts           []alertsvc.AlertDTO `json:"alerts,omitempty"`
}

// ListResult wraps a page of serving records and the cursor for the next page.
type ListResult struct {
	Items  []ServingRecordDTO `json:"items"`
	Cursor string             `json:"cursor,omitempty"`
}

func NewServingRecordDTO(m models.ServingRecord) ServingRecordDTO {
	return ServingRecordDTO{
		ID:       m.ID,
		MealID:   m.MealID,
		ServedAt: m.ServedAt,
		Portions: m.Portions,
		UserID:   m.UserID,
	}
}

func NewServingRecordDTOs(items []models.ServingRecord) []ServingRecordDTO {
	dtos := make([]ServingRecordDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, NewServingRecordDTO(item))
	}
	return dtos
}

func NewServeResponse(result ServeResult) ServeResponse {
	resp := ServeResponse{
		Success:          result.Success,
		Message:          result.Message,
		PossiblePortions: result.PossiblePortions,
		Alerts:           alertsvc.NewAlertDTOs(result.Alerts),
	}
	if result.Record != nil {
		record := NewServingRecordDTO(*result.Record)
		resp.Record = &record
	}
	return resp
}
