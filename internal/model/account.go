package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	DisplayName  string    `gorm:"size:64;uniqueIndex;not null" json:"display_name"`
	SolvedCount  int       `gorm:"not null;default:0" json:"solved_count"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// NameReservation pins a display name to exactly one account. The name is the
// primary key, so inserting it doubles as a uniqueness check: the row is only
// ever written inside the same transaction that writes the Account, and
// deleted inside the same transaction that removes it.
type NameReservation struct {
	Name      string    `gorm:"size:64;primaryKey" json:"name"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null" json:"owner_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (NameReservation) TableName() string {
	return "usernames"
}
