package alerts

import (
	"time"

	"github.com/google/uuid"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
)

// AlertDTO is the external representation of one alert row.
type AlertDTO struct {
	ID        uuid.UUID  `json:"id"`
	Kind      string     `json:"kind"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ListResult wraps a page of alerts and the cursor for the next page.
type ListResult struct {
	Items  []AlertDTO `json:"items"`
	Cursor string     `json:"cursor,omitempty"`
}

func NewAlertDTO(m models.Alert) AlertDTO {
	return AlertDTO{
		ID:        m.ID,
		Kind:      m.Kind.String(),
		Message:   m.Message,
		Read:      m.ReadAt != nil,
		ReadAt:    m.ReadAt,
		CreatedAt: m.CreatedAt,
	}
}

func NewAlertDTOs(items []models.Alert) []AlertDTO {
	dtos := make([]AlertDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, NewAlertDTO(item))
	}
	return dtos
}
