package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/oxagroupe/oxa-crm/internal/models"
)

// HistoryLogger écrit le journal append-only d'un devis. Une erreur
// d'écriture d'historique ne doit jamais faire échouer l'opération
// principale, l'appelant peut donc ignorer le retour après log.
type HistoryLogger struct {
	DB *gorm.DB
}

// Log ajoute une entrée. details est sérialisé en JSON s'il est non nil.
func (h HistoryLogger) Log(devisID uint, user models.User, action, description string, details any) error {
	entry := models.DevisHistory{
		DevisID:     devisID,
		UserID:      user.ID,
		UserName:    user.FullName(),
		ActionType:  action,
		Description: description,
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		entry.Details = raw
	}
	return h.DB.Create(&entry).Error
}

// Comment enregistre un commentaire et son entrée d'historique.
func (h HistoryLogger) Comment(devisID uint, user models.User, commentaire string) error {
	c := models.DevisComment{
		DevisID:     devisID,
		UserID:      user.ID,
		UserName:    user.FullName(),
		Commentaire: commentaire,
	}
	if err := h.DB.Create(&c).Error; err != nil {
		return err
	}
	entry := models.DevisHistory{
		DevisID:     devisID,
		UserID:      user.ID,
		UserName:    user.FullName(),
		ActionType:  models.HistoryActionCommentaire,
		Description: "Commentaire ajouté",
		Commentaire: commentaire,
	}
	return h.DB.Create(&entry).Error
}

// Timeline retourne l'historique d'un devis, du plus récent au plus ancien.
func (h HistoryLogger) Timeline(devisID uint) ([]models.DevisHistory, error) {
	var entries []models.DevisHistory
	err := h.DB.Where("devis_id = ?", devisID).Order("created_at DESC, id DESC").Find(&entries).Error
	return entries, err
}
