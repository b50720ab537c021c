package models

import "time"

// Types d'articles du catalogue
const (
	ArticleTypeIPE        = "IPE"
	ArticleTypeElec       = "ELEC"
	ArticleTypeMateriel   = "MATERIEL"
	ArticleTypeMainOeuvre = "MAIN_OEUVRE"
)

// Article : élément du catalogue. Les lignes de devis copient un
// instantané de ses valeurs au moment de la sélection.
type Article struct {
	ID          uint   `gorm:"primaryKey"`
	Nom         string `gorm:"not null;index"`
	Description string
	Type        string  `gorm:"not null;index;default:MATERIEL"`
	PrixAchat   float64 `gorm:"not null;default:0"`
	PrixVente   float64 `gorm:"not null;default:0"`
	TVA         float64 `gorm:"not null;default:20"` // taux en pourcentage
	Unite       string  `gorm:"default:unité"`
	Actif       bool    `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
