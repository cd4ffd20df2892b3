package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/enums"
)

// User is a kitchen staff identity. The original system logs in by picking a
// user, so there is no credential material here, only the role tag.
type User struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	Role      enums.UserRole `gorm:"column:role;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
