package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/enums"
)

// Alert stores low-stock and misuse signals. Rows are never deleted in
// normal operation; the only mutation is flipping ReadAt.
type Alert struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Kind      enums.AlertKind `gorm:"column:kind;not null"`
	Message   string          `gorm:"column:message;not null"`
	ReadAt    *time.Time      `gorm:"column:read_at"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
