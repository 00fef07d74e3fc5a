package model

import (
	"time"

	"github.com/google/uuid"
)

// Card belongs to exactly one list. BoardID is denormalized from the list
// so board-wide queries (batch moves, board rendering) avoid a join; the
// repositories keep ListID and BoardID consistent at write time.
type Card struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ListID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"not null"`
	Description string
	Position    int `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Board    Board     `gorm:"foreignKey:BoardID"`
	List     List      `gorm:"foreignKey:ListID"`
	Comments []Comment `gorm:"foreignKey:CardID"`
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	CardID    uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	Text      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User User `gorm:"foreignKey:UserID"`
}
