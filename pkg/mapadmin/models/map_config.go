package models

import (
	"time"
)

// MapConfig holds the initial map view handed to a user's client
type MapConfig struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Name       string    `gorm:"not null" json:"name"`
	Projection string    `gorm:"default:'EPSG:3857'" json:"projection"`
	Units      string    `gorm:"default:'m'" json:"units"`
	CenterX    float64   `json:"center_x"`
	CenterY    float64   `json:"center_y"`
	Zoom       int       `json:"zoom"`
	MaxExtent  string    `json:"max_extent"` // "minx,miny,maxx,maxy"
}

// GetID returns the primary key
func (m MapConfig) GetID() uint { return m.ID }

// MapLayer is a layer that can be shown on a user's map
type MapLayer struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"not null" json:"name"`
	Type      string    `gorm:"default:'WMS'" json:"type"`
	URL       string    `json:"url"`
	Layers    string    `json:"layers"`
}

// GetID returns the primary key
func (l MapLayer) GetID() uint { return l.ID }
