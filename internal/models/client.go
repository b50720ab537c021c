package models

import "time"

// Client entity
type Client struct {
	ID               uint   `gorm:"primaryKey"`
	Nom              string `gorm:"not null;index"` // Raison sociale
	SIRET            string `gorm:"index"`          // France
	Email            string
	Telephone        string
	Adresse          string
	Ville            string `gorm:"index"`
	CodePostal       string
	Pays             string `gorm:"default:France"`
	ContactPrincipal string
	Notes            string
	CommercialID     uint `gorm:"index"` // FK vers User
	Commercial       User `gorm:"foreignKey:CommercialID"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OwnerID identifie le commercial rattaché (voir internal/policy).
func (c Client) OwnerID() uint { return c.CommercialID }
