package models

import (
	"time"

	"gorm.io/datatypes"
)

// Statuts de commande (cycle d'installation)
const (
	CommandeStatutAProgrammer   = "a_programmer"
	CommandeStatutProgrammee    = "programmee"
	CommandeStatutEnCoursInstal = "en_cours_installation"
	CommandeStatutInstalle      = "installe"
	CommandeStatutMiseEnService = "mise_en_service"
	CommandeStatutTermine       = "termine"
	CommandeStatutSuspendu      = "suspendu"
	CommandeStatutReporte       = "reporte"
)

// Commande : suivi opérationnel d'un devis accepté.
type Commande struct {
	ID       uint   `gorm:"primaryKey"`
	Numero   string `gorm:"uniqueIndex;not null"`
	ClientID uint   `gorm:"not null;index"`
	Client   Client `gorm:"foreignKey:ClientID"`
	DevisID  uint   `gorm:"index"` // nullable : commande directe possible
	Statut   string `gorm:"not null;index;default:a_programmer"`

	DateCommande           time.Time
	DateInstallationPrevue *time.Time
	DateInstallationReelle *time.Time

	EquipeAssignee       string
	TechnicienPrincipal  string
	TempsEstime          float64 // heures
	TempsReel            float64
	AdresseInstallation  string
	ContactSite          string
	TelephoneContact     string
	InstructionsSpeciale string
	NotesInstallation    string

	TotalHT  float64
	TotalTTC float64

	Photos    datatypes.JSON
	Documents datatypes.JSON

	CreatedAt time.Time
	UpdatedAt time.Time
}
