package models

import (
	"time"
)

// User represents an account of the map platform
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `gorm:"uniqueIndex;not null" json:"name"`
	Email        string    `gorm:"index" json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Street       string    `json:"street,omitempty"`
	Zip          string    `json:"zip,omitempty"`
	City         string    `json:"city,omitempty"`
	Country      string    `json:"country,omitempty"`
	Language     string    `gorm:"type:varchar(8)" json:"language,omitempty"`
	AppUser      string    `json:"app_user,omitempty"` // Name of the account that created this record
	Active       bool      `gorm:"not null" json:"active"`
	ModuleList   string    `json:"module_list"` // Comma-separated module IDs as sent by clients

	MapConfigID      *uint `json:"map_config_id"`
	WmsProxyConfigID *uint `json:"wms_proxy_config_id"`
	WfsProxyConfigID *uint `json:"wfs_proxy_config_id"`

	// Relationships
	MapConfig      *MapConfig      `gorm:"foreignKey:MapConfigID" json:"-"`
	WmsProxyConfig *WmsProxyConfig `gorm:"foreignKey:WmsProxyConfigID" json:"-"`
	WfsProxyConfig *WfsProxyConfig `gorm:"foreignKey:WfsProxyConfigID" json:"-"`
	Roles          []Role          `gorm:"many2many:user_roles;constraint:OnDelete:CASCADE" json:"-"`
	Groups         []Group         `gorm:"many2many:group_users;constraint:OnDelete:CASCADE" json:"-"`
	Modules        []Module        `gorm:"many2many:user_modules;constraint:OnDelete:CASCADE" json:"-"`
	MapLayers      []MapLayer      `gorm:"many2many:user_map_layers;constraint:OnDelete:CASCADE" json:"-"`
}

// GetID returns the primary key
func (u User) GetID() uint { return u.ID }

// HasRole reports whether the user holds the named role
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// GroupIDs returns the IDs of all groups the user belongs to
func (u *User) GroupIDs() []uint {
	ids := make([]uint, len(u.Groups))
	for i, g := range u.Groups {
		ids[i] = g.ID
	}
	return ids
}
