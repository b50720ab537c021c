package models

import (
	"time"

	"gorm.io/datatypes"
)

// Types d'actions historisées sur un devis
const (
	HistoryActionCreation         = "creation"
	HistoryActionModification     = "modification"
	HistoryActionCommentaire      = "commentaire"
	HistoryActionAjoutLigne       = "ajout_ligne"
	HistoryActionSuppressionLigne = "suppression_ligne"
	HistoryActionChangementStatut = "changement_statut"
)

// DevisHistory : journal append-only des actions sur un devis.
// Les entrées ne sont jamais modifiées ni supprimées.
type DevisHistory struct {
	ID          uint   `gorm:"primaryKey"`
	DevisID     uint   `gorm:"not null;index"`
	UserID      uint   `gorm:"index"`
	UserName    string // instantané, le compte peut changer ensuite
	ActionType  string `gorm:"not null;index"`
	Description string
	Details     datatypes.JSON
	Commentaire string
	CreatedAt   time.Time
}

func (DevisHistory) TableName() string { return "devis_history" }

// DevisComment : commentaire libre rattaché à un devis.
type DevisComment struct {
	ID          uint `gorm:"primaryKey"`
	DevisID     uint `gorm:"not null;index"`
	UserID      uint `gorm:"index"`
	UserName    string
	Commentaire string `gorm:"not null"`
	CreatedAt   time.Time
}
