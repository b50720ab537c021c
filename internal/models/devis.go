package models

import (
	"time"

	"gorm.io/datatypes"
)

// Statuts de devis
const (
	DevisStatutBrouillon = "brouillon"
	DevisStatutEnvoye    = "envoye"
	DevisStatutAccepte   = "accepte"
	DevisStatutRefuse    = "refuse"
	DevisStatutExpire    = "expire"
)

// Types de devis
const (
	DevisTypeStandard   = "standard"
	DevisTypeCEE        = "CEE"
	DevisTypeIPE        = "IPE"
	DevisTypeElec       = "ELEC"
	DevisTypeMateriel   = "MATERIEL"
	DevisTypeMainOeuvre = "MAIN_OEUVRE"
)

// Modes d'intégration de la prime CEE dans le devis
const (
	CEEModeDeduction = "deduction"
	CEEModeInfo      = "info"
	CEEModeNone      = "none"
)

// Devis : document commercial. Les lignes, groupées par zone, sont
// sérialisées dans LignesData ; les totaux persistés sont recalculés
// côté serveur à chaque écriture.
type Devis struct {
	ID                   uint   `gorm:"primaryKey"`
	Numero               string `gorm:"uniqueIndex;not null"`
	DateDevis            time.Time
	DateCreation         time.Time
	Objet                string
	DescriptionOperation string
	Remarques            string
	ClientID             uint   `gorm:"not null;index"`
	Client               Client `gorm:"foreignKey:ClientID"`
	CommercialID         uint   `gorm:"index"`
	Commercial           User   `gorm:"foreignKey:CommercialID"`
	Type                 string `gorm:"not null;default:standard"`
	Statut               string `gorm:"not null;index;default:brouillon"`

	TotalHT     float64
	TotalTVA    float64
	TotalTTC    float64
	TVATaux     float64 `gorm:"not null;default:20"`
	MargeTotale float64

	// Opération CEE (IND-UT-134)
	CEEKWhCumac     float64 `gorm:"column:cee_kwh_cumac"`
	CEEPrixUnitaire float64 // tarif €/kWh cumac
	CEEMontantTotal float64 // prime en euros
	ResteAPayerHT   float64 // TTC - prime quand le mode est "deduction"

	// Conditions commerciales
	ModalitesPaiement string
	Garantie          string
	Penalites         string
	ClauseJuridique   string
	Delais            string

	LignesData     datatypes.JSON // zones et lignes
	CEECalculation datatypes.JSON // instantané des paramètres du calcul
	CEEIntegration datatypes.JSON // {"mode": ..., "afficher_bloc": ...}

	ConvertedToCommandeID uint
	ConvertedToFactureID  uint

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName force le nom invariable, "devis" ne se pluralise pas.
func (Devis) TableName() string { return "devis" }

// OwnerID identifie le commercial rattaché (voir internal/policy).
func (d Devis) OwnerID() uint { return d.CommercialID }
