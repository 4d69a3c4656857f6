package models

import (
	"time"
)

// Group represents an organisational unit of users, identified by its number
type Group struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Number     string    `gorm:"uniqueIndex;not null" json:"number"`
	Name       string    `json:"name"`
	Street     string    `json:"street,omitempty"`
	Zip        string    `json:"zip,omitempty"`
	City       string    `json:"city,omitempty"`
	Country    string    `json:"country,omitempty"`
	Language   string    `gorm:"type:varchar(8)" json:"language,omitempty"`
	Mail       string    `json:"mail,omitempty"`
	AppUser    string    `json:"app_user,omitempty"`
	ModuleList string    `json:"module_list"`

	// Relationships
	Users   []User   `gorm:"many2many:group_users;constraint:OnDelete:CASCADE" json:"-"`
	Modules []Module `gorm:"many2many:group_modules;constraint:OnDelete:CASCADE" json:"-"`
}

// GetID returns the primary key
func (g Group) GetID() uint { return g.ID }

// SubadminName returns the name of the user leading a group created by a superadmin
func SubadminName(groupNumber string) string {
	return "subadmin_" + groupNumber
}
