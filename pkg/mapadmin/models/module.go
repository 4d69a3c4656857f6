package models

import (
	"time"
)

// Module is a client application feature that can be enabled per user or group
type Module struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Title     string    `json:"title"`
	Active    bool      `gorm:"default:true" json:"active"`
}

// GetID returns the primary key
func (m Module) GetID() uint { return m.ID }
