package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/oxagroupe/oxa-crm/internal/models"
)

// ConvertDevisToCommande crée la commande issue d'un devis accepté et
// relie les deux documents. Idempotent : un devis déjà converti
// retourne la commande existante.
func ConvertDevisToCommande(db *gorm.DB, devis *models.Devis) (*models.Commande, error) {
	if devis.Statut != models.DevisStatutAccepte {
		return nil, fmt.Errorf("seul un devis accepté peut être converti (statut: %s)", devis.Statut)
	}
	if devis.ConvertedToCommandeID != 0 {
		var existing models.Commande
		if err := db.First(&existing, devis.ConvertedToCommandeID).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}

	cmd := models.Commande{
		Numero:       NextNumero(PrefixCommande),
		ClientID:     devis.ClientID,
		DevisID:      devis.ID,
		Statut:       models.CommandeStatutAProgrammer,
		DateCommande: time.Now(),
		TotalHT:      devis.TotalHT,
		TotalTTC:     devis.TotalTTC,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cmd).Error; err != nil {
			return err
		}
		devis.ConvertedToCommandeID = cmd.ID
		return tx.Model(devis).Update("converted_to_commande_id", cmd.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &cmd, nil
}

// ConvertDevisToFacture crée la facture issue d'un devis accepté.
// Même contrat d'idempotence que la conversion en commande.
func ConvertDevisToFacture(db *gorm.DB, devis *models.Devis) (*models.Facture, error) {
	if devis.Statut != models.DevisStatutAccepte {
		return nil, fmt.Errorf("seul un devis accepté peut être converti (statut: %s)", devis.Statut)
	}
	if devis.ConvertedToFactureID != 0 {
		var existing models.Facture
		if err := db.First(&existing, devis.ConvertedToFactureID).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}

	now := time.Now()
	fac := models.Facture{
		Numero:       NextNumero(PrefixFacture),
		ClientID:     devis.ClientID,
		DevisID:      devis.ID,
		MontantHT:    devis.TotalHT,
		MontantTTC:   devis.TotalTTC,
		Statut:       models.FactureStatutEnAttente,
		DateEmission: now,
		DateEcheance: now.AddDate(0, 0, 30),
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&fac).Error; err != nil {
			return err
		}
		devis.ConvertedToFactureID = fac.ID
		return tx.Model(devis).Update("converted_to_facture_id", fac.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &fac, nil
}
