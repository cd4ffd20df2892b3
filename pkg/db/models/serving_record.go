package models

import (
	"time"

	"github.com/google/uuid"
)

// ServingRecord is one append-only entry in the serving log. Rows are created
// only by a committed serving transaction and never updated.
type ServingRecord struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	MealID   uuid.UUID `gorm:"column:meal_id;type:uuid;not null;index"`
	ServedAt time.Time `gorm:"column:served_at;not null"`
	Portions int       `gorm:"column:portions;not null"`
	UserID   uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
}
