package models

import "time"

// Roles
const (
	RoleAdmin      = "admin"
	RoleCommercial = "commercial"
)

// User : compte applicatif (commercial ou admin)
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Nom          string
	Prenom       string
	Role         string `gorm:"not null;default:commercial"`
	Actif        bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName retourne "Prenom Nom" pour l'affichage et l'historique.
func (u User) FullName() string {
	switch {
	case u.Prenom == "":
		return u.Nom
	case u.Nom == "":
		return u.Prenom
	default:
		return u.Prenom + " " + u.Nom
	}
}

// IsAdmin reports whether the user bypasses ownership checks.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
