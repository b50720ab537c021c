package handlers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/oxagroupe/oxa-crm/httpx"
	"github.com/oxagroupe/oxa-crm/internal/models"
)

type DashboardHandler struct{ DB *gorm.DB }

func NewDashboardHandler(db *gorm.DB) *DashboardHandler { return &DashboardHandler{DB: db} }

// Show: GET / – indicateurs commerciaux du mois et de l'année.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	debutMois := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	debutAnnee := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	var nbClients, nbDevis, nbCommandes, nbFactures int64
	h.DB.Model(&models.Client{}).Count(&nbClients)
	h.DB.Model(&models.Devis{}).Count(&nbDevis)
	h.DB.Model(&models.Commande{}).Count(&nbCommandes)
	h.DB.Model(&models.Facture{}).Count(&nbFactures)

	var caMois, caAnnee float64
	h.DB.Model(&models.Devis{}).
		Where("statut = ? AND updated_at >= ?", models.DevisStatutAccepte, debutMois).
		Select("COALESCE(SUM(total_ht), 0)").Scan(&caMois)
	h.DB.Model(&models.Devis{}).
		Where("statut = ? AND updated_at >= ?", models.DevisStatutAccepte, debutAnnee).
		Select("COALESCE(SUM(total_ht), 0)").Scan(&caAnnee)

	var enAttente int64
	h.DB.Model(&models.Devis{}).Where("statut = ?", models.DevisStatutEnvoye).Count(&enAttente)

	var primeCEE float64
	h.DB.Model(&models.Devis{}).
		Where("type = ? AND statut = ?", models.DevisTypeCEE, models.DevisStatutAccepte).
		Select("COALESCE(SUM(cee_montant_total), 0)").Scan(&primeCEE)

	data := map[string]any{
		"clients":          nbClients,
		"devis":            nbDevis,
		"commandes":        nbCommandes,
		"factures":         nbFactures,
		"devis_en_attente": enAttente,
		"ca_mois_ht":       caMois,
		"ca_annee_ht":      caAnnee,
		"prime_cee_signee": primeCEE,
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, data)
		return
	}
	renderTemplate(w, r, "dashboard", map[string]any{"KPIs": data})
}
