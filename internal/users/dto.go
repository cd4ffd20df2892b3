package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
)

// UserDTO is the external representation of a kitchen user.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserDTO(m models.User) UserDTO {
	return UserDTO{
		ID:        m.ID,
		Name:      m.Name,
		Role:      m.Role.String(),
		CreatedAt: m.CreatedAt,
	}
}

func NewUserDTOs(items []models.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, NewUserDTO(item))
	}
	return dtos
}
