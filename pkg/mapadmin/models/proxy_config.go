package models

import (
	"time"
)

// WmsProxyConfig restricts what a user may request through the WMS proxy
type WmsProxyConfig struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Name          string    `gorm:"not null" json:"name"`
	BaseURL       string    `json:"base_url"`
	AllowedLayers string    `json:"allowed_layers"`
}

// GetID returns the primary key
func (c WmsProxyConfig) GetID() uint { return c.ID }

// WfsProxyConfig restricts what a user may request through the WFS proxy
type WfsProxyConfig struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	Name                string    `gorm:"not null" json:"name"`
	BaseURL             string    `json:"base_url"`
	AllowedFeatureTypes string    `json:"allowed_feature_types"`
}

// GetID returns the primary key
func (c WfsProxyConfig) GetID() uint { return c.ID }
