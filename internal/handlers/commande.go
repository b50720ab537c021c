package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/oxagroupe/oxa-crm/httpx"
	"github.com/oxagroupe/oxa-crm/internal/models"
	"github.com/oxagroupe/oxa-crm/internal/services"
	"github.com/oxagroupe/oxa-crm/validation"
)

type CommandeHandler struct {
	DB      *gorm.DB
	History services.HistoryLogger
}

func NewCommandeHandler(db *gorm.DB) *CommandeHandler {
	return &CommandeHandler{DB: db, History: services.HistoryLogger{DB: db}}
}

// List: GET /commandes – filtres statut et client_id, avec compteurs
// par statut pour le tableau de bord installation.
func (h *CommandeHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	dbq := h.DB.Model(&models.Commande{})
	if statut := strings.TrimSpace(r.URL.Query().Get("statut")); statut != "" {
		dbq = dbq.Where("statut = ?", statut)
	}
	if cid := r.URL.Query().Get("client_id"); cid != "" {
		dbq = dbq.Where("client_id = ?", cid)
	}

	var total int64
	dbq.Count(&total)
	var commandes []models.Commande
	if err := dbq.Preload("Client").Order("id desc").Limit(limit).Offset(offset).Find(&commandes).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_commandes", nil)
		return
	}

	type statutCount struct {
		Statut string
		N      int64
	}
	var counts []statutCount
	h.DB.Model(&models.Commande{}).Select("statut, count(*) as n").Group("statut").Scan(&counts)
	kpis := map[string]int64{}
	for _, c := range counts {
		kpis[c.Statut] = c.N
	}

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": commandes, "total": total, "par_statut": kpis, "limit": limit, "offset": offset})
		return
	}
	renderTemplate(w, r, "commandes", map[string]any{"Commandes": commandes, "Total": total, "ParStatut": kpis})
}

type commandeCreateReq struct {
	ClientID               uint    `json:"client_id"`
	DevisID                uint    `json:"devis_id"`
	TotalHT                float64 `json:"total_ht"`
	TotalTTC               float64 `json:"total_ttc"`
	DateInstallationPrevue string  `json:"date_installation_prevue"`
	EquipeAssignee         string  `json:"equipe_assignee"`
	TechnicienPrincipal    string  `json:"technicien_principal"`
	AdresseInstallation    string  `json:"adresse_installation"`
	ContactSite            string  `json:"contact_site"`
	TelephoneContact       string  `json:"telephone_contact"`
	InstructionsSpeciale   string  `json:"instructions_speciales"`
}

// Create: POST /commandes – commande directe, hors conversion de devis.
// Une date d'installation fournie la crée déjà programmée.
func (h *CommandeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req commandeCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	v.RequiredID("client_id", req.ClientID)
	v.NonNegativeFloat("total_ht", req.TotalHT)
	v.NonNegativeFloat("total_ttc", req.TotalTTC)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var client models.Client
	if err := h.DB.First(&client, req.ClientID).Error; err != nil {
		v.Add("client_id", "unknown_client")
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	cmd := models.Commande{
		Numero:               services.NextNumero(services.PrefixCommande),
		ClientID:             req.ClientID,
		DevisID:              req.DevisID,
		Statut:               models.CommandeStatutAProgrammer,
		DateCommande:         time.Now(),
		TotalHT:              req.TotalHT,
		TotalTTC:             req.TotalTTC,
		EquipeAssignee:       req.EquipeAssignee,
		TechnicienPrincipal:  req.TechnicienPrincipal,
		AdresseInstallation:  req.AdresseInstallation,
		ContactSite:          req.ContactSite,
		TelephoneContact:     req.TelephoneContact,
		InstructionsSpeciale: req.InstructionsSpeciale,
	}
	if req.DateInstallationPrevue != "" {
		if d, err := time.Parse("2006-01-02", req.DateInstallationPrevue); err == nil {
			cmd.DateInstallationPrevue = &d
			cmd.Statut = models.CommandeStatutProgrammee
		}
	}
	if err := h.DB.Create(&cmd).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_commande", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, cmd)
}

// Get: GET /commandes/show?id=N
func (h *CommandeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var cmd models.Commande
	if err := h.DB.Preload("Client").First(&cmd, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "commande_not_found", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, cmd)
		return
	}
	renderTemplate(w, r, "commande_detail", map[string]any{"Commande": cmd})
}

type commandeReq struct {
	DateInstallationPrevue string   `json:"date_installation_prevue"`
	DateInstallationReelle string   `json:"date_installation_reelle"`
	EquipeAssignee         string   `json:"equipe_assignee"`
	TechnicienPrincipal    string   `json:"technicien_principal"`
	TempsEstime            float64  `json:"temps_estime"`
	TempsReel              float64  `json:"temps_reel"`
	AdresseInstallation    string   `json:"adresse_installation"`
	ContactSite            string   `json:"contact_site"`
	TelephoneContact       string   `json:"telephone_contact"`
	InstructionsSpeciale   string   `json:"instructions_speciales"`
	NotesInstallation      string   `json:"notes_installation"`
	Photos                 []string `json:"photos"`
	Documents              []string `json:"documents"`
}

// Update: POST /commandes/update?id=N – planification et suivi terrain.
func (h *CommandeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var cmd models.Commande
	if err := h.DB.First(&cmd, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "commande_not_found", nil)
		return
	}
	var req commandeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	if req.DateInstallationPrevue != "" {
		if d, err := time.Parse("2006-01-02", req.DateInstallationPrevue); err == nil {
			cmd.DateInstallationPrevue = &d
		}
	}
	if req.DateInstallationReelle != "" {
		if d, err := time.Parse("2006-01-02", req.DateInstallationReelle); err == nil {
			cmd.DateInstallationReelle = &d
		}
	}
	cmd.EquipeAssignee = req.EquipeAssignee
	cmd.TechnicienPrincipal = req.TechnicienPrincipal
	if req.TempsEstime > 0 {
		cmd.TempsEstime = req.TempsEstime
	}
	if req.TempsReel > 0 {
		cmd.TempsReel = req.TempsReel
	}
	cmd.AdresseInstallation = req.AdresseInstallation
	cmd.ContactSite = req.ContactSite
	cmd.TelephoneContact = req.TelephoneContact
	cmd.InstructionsSpeciale = req.InstructionsSpeciale
	cmd.NotesInstallation = req.NotesInstallation
	if req.Photos != nil {
		raw, err := json.Marshal(req.Photos)
		if err == nil {
			cmd.Photos = raw
		}
	}
	if req.Documents != nil {
		raw, err := json.Marshal(req.Documents)
		if err == nil {
			cmd.Documents = raw
		}
	}

	if err := h.DB.Save(&cmd).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_commande", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, cmd)
}

// Delete: POST /commandes/delete?id=N
func (h *CommandeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var cmd models.Commande
	if err := h.DB.First(&cmd, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "commande_not_found", nil)
		return
	}
	if err := h.DB.Delete(&cmd).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_commande", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
		return
	}
	http.Redirect(w, r, "/commandes", statusSeeOther)
}

// Statut: POST /commandes/statut?id=N – transition du cycle d'installation.
func (h *CommandeHandler) Statut(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var cmd models.Commande
	if err := h.DB.First(&cmd, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "commande_not_found", nil)
		return
	}
	var req struct {
		Statut string `json:"statut"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if err := services.TransitionCommande(cmd.Statut, req.Statut); err != nil {
		httpx.JSONError(w, http.StatusConflict, "invalid_transition", map[string]string{
			"from": cmd.Statut,
			"to":   req.Statut,
		})
		return
	}
	cmd.Statut = req.Statut
	if err := h.DB.Save(&cmd).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_commande", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, cmd)
}
