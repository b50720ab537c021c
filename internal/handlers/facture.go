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

type FactureHandler struct{ DB *gorm.DB }

func NewFactureHandler(db *gorm.DB) *FactureHandler { return &FactureHandler{DB: db} }

var factureStatuts = map[string]bool{
	models.FactureStatutEnAttente: true,
	models.FactureStatutPayee:     true,
	models.FactureStatutEnRetard:  true,
}

// List: GET /factures – filtres statut et client_id.
func (h *FactureHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	dbq := h.DB.Model(&models.Facture{})
	if statut := strings.TrimSpace(r.URL.Query().Get("statut")); statut != "" {
		dbq = dbq.Where("statut = ?", statut)
	}
	if cid := r.URL.Query().Get("client_id"); cid != "" {
		dbq = dbq.Where("client_id = ?", cid)
	}

	var total int64
	dbq.Count(&total)
	var factures []models.Facture
	if err := dbq.Preload("Client").Order("id desc").Limit(limit).Offset(offset).Find(&factures).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_factures", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": factures, "total": total, "limit": limit, "offset": offset})
		return
	}
	renderTemplate(w, r, "factures", map[string]any{"Factures": factures, "Total": total})
}

type factureReq struct {
	ClientID     uint    `json:"client_id"`
	DevisID      uint    `json:"devis_id"`
	MontantHT    float64 `json:"montant_ht"`
	MontantTTC   float64 `json:"montant_ttc"`
	DateEcheance string  `json:"date_echeance"`
	ModePaiement string  `json:"mode_paiement"`
	Notes        string  `json:"notes"`
}

// Create: POST /factures – facture directe, hors conversion de devis.
func (h *FactureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req factureReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	v.RequiredID("client_id", req.ClientID)
	v.NonNegativeFloat("montant_ht", req.MontantHT)
	v.NonNegativeFloat("montant_ttc", req.MontantTTC)
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

	now := time.Now()
	fac := models.Facture{
		Numero:       services.NextNumero(services.PrefixFacture),
		ClientID:     req.ClientID,
		DevisID:      req.DevisID,
		MontantHT:    req.MontantHT,
		MontantTTC:   req.MontantTTC,
		Statut:       models.FactureStatutEnAttente,
		DateEmission: now,
		DateEcheance: now.AddDate(0, 0, 30),
		ModePaiement: req.ModePaiement,
		Notes:        req.Notes,
	}
	if req.DateEcheance != "" {
		if d, err := time.Parse("2006-01-02", req.DateEcheance); err == nil {
			fac.DateEcheance = d
		}
	}
	if err := h.DB.Create(&fac).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_facture", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, fac)
}

// Update: POST /factures/update?id=N – montants, échéance et notes.
func (h *FactureHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var fac models.Facture
	if err := h.DB.First(&fac, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "facture_not_found", nil)
		return
	}
	var req factureReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	v.NonNegativeFloat("montant_ht", req.MontantHT)
	v.NonNegativeFloat("montant_ttc", req.MontantTTC)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if req.MontantHT > 0 {
		fac.MontantHT = req.MontantHT
	}
	if req.MontantTTC > 0 {
		fac.MontantTTC = req.MontantTTC
	}
	if req.DateEcheance != "" {
		if d, err := time.Parse("2006-01-02", req.DateEcheance); err == nil {
			fac.DateEcheance = d
		}
	}
	if req.ModePaiement != "" {
		fac.ModePaiement = req.ModePaiement
	}
	if req.Notes != "" {
		fac.Notes = req.Notes
	}
	if err := h.DB.Save(&fac).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_facture", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, fac)
}

// Delete: POST /factures/delete?id=N
func (h *FactureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var fac models.Facture
	if err := h.DB.First(&fac, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "facture_not_found", nil)
		return
	}
	if err := h.DB.Delete(&fac).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_facture", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
		return
	}
	http.Redirect(w, r, "/factures", statusSeeOther)
}

// Statut: POST /factures/statut?id=N – suivi de paiement. Passer à
// "payee" horodate le paiement.
func (h *FactureHandler) Statut(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var fac models.Facture
	if err := h.DB.First(&fac, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "facture_not_found", nil)
		return
	}
	var req struct {
		Statut       string `json:"statut"`
		ModePaiement string `json:"mode_paiement"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if !factureStatuts[req.Statut] {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_statut", nil)
		return
	}
	fac.Statut = req.Statut
	if req.ModePaiement != "" {
		fac.ModePaiement = req.ModePaiement
	}
	if req.Statut == models.FactureStatutPayee && fac.DatePaiement == nil {
		now := time.Now()
		fac.DatePaiement = &now
	}
	if err := h.DB.Save(&fac).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_facture", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, fac)
}
