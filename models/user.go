package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the slice of the account profile the checkout core reads when
// resolving customer contact details. Account management itself lives
// elsewhere.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
