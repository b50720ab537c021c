package models

import "time"

// Statuts de paiement
const (
	FactureStatutEnAttente = "en_attente"
	FactureStatutPayee     = "payee"
	FactureStatutEnRetard  = "en_retard"
)

// Facture entity
type Facture struct {
	ID            uint   `gorm:"primaryKey"`
	Numero        string `gorm:"uniqueIndex;not null"`
	ClientID      uint   `gorm:"not null;index"`
	Client        Client `gorm:"foreignKey:ClientID"`
	DevisID       uint   `gorm:"index"` // nullable
	MontantHT     float64
	MontantTTC    float64
	Statut        string `gorm:"not null;index;default:en_attente"`
	DateEmission  time.Time
	DateEcheance  time.Time
	DatePaiement  *time.Time
	ModePaiement  string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
