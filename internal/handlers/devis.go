package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/oxagroupe/oxa-crm/httpx"
	"github.com/oxagroupe/oxa-crm/internal/models"
	"github.com/oxagroupe/oxa-crm/internal/policy"
	"github.com/oxagroupe/oxa-crm/internal/services"
	"github.com/oxagroupe/oxa-crm/validation"
)

type DevisHandler struct {
	DB      *gorm.DB
	History services.HistoryLogger
}

func NewDevisHandler(db *gorm.DB) *DevisHandler {
	return &DevisHandler{DB: db, History: services.HistoryLogger{DB: db}}
}

// devisReq est le corps de création/modification. Les zones portent le
// document complet : l'état client remplace l'état serveur, qui fait
// seul foi pour les montants.
type devisReq struct {
	ClientID             uint            `json:"client_id"`
	Objet                string          `json:"objet"`
	DescriptionOperation string          `json:"description_operation"`
	Remarques            string          `json:"remarques"`
	Type                 string          `json:"type"`
	DateDevis            string          `json:"date_devis"`
	ModalitesPaiement    string          `json:"modalites_paiement"`
	Garantie             string          `json:"garantie"`
	Penalites            string          `json:"penalites"`
	ClauseJuridique      string          `json:"clause_juridique"`
	Delais               string          `json:"delais"`
	Zones                []services.Zone `json:"zones"`
	CEE                  *devisCEEReq    `json:"cee"`
	BasedOnUpdatedAt     string          `json:"based_on_updated_at"`
}

type devisCEEReq struct {
	ProfilFonctionnement string  `json:"profil_fonctionnement"`
	DureeEngagement      int     `json:"duree_engagement"`
	PuissanceKW          float64 `json:"puissance_kw"`
	// Pointeur : un tarif absent est prérempli avec la valeur par
	// défaut, un tarif explicitement nul reste nul.
	TarifKWhCumac *float64 `json:"tarif_kwh_cumac"`
	Mode          string   `json:"mode"`
	AfficherBloc  bool     `json:"afficher_bloc"`
}

var devisTypes = map[string]bool{
	models.DevisTypeStandard:   true,
	models.DevisTypeCEE:        true,
	models.DevisTypeIPE:        true,
	models.DevisTypeElec:       true,
	models.DevisTypeMateriel:   true,
	models.DevisTypeMainOeuvre: true,
}

func (req devisReq) validate() validation.Violations {
	v := validation.Violations{}
	v.RequiredID("client_id", req.ClientID)
	if req.Type != "" && !devisTypes[req.Type] {
		v.Add("type", "invalid_type")
	}
	if len(req.Zones) == 0 {
		v.Add("zones", "required")
	}
	nbLignes := 0
	for _, z := range req.Zones {
		for _, l := range z.Lignes {
			nbLignes++
			v.Required("designation", l.Designation)
			v.PositiveFloat("quantite", l.Quantite)
			v.NonNegativeFloat("prix_unitaire", l.PrixUnitaire)
			v.NonNegativeFloat("prix_achat", l.PrixAchat)
			v.Percentage("tva", l.TVA)
		}
	}
	if len(req.Zones) > 0 && nbLignes == 0 {
		v.Add("lignes", "required")
	}
	if req.CEE != nil {
		v.NonNegativeFloat("puissance_kw", req.CEE.PuissanceKW)
		if req.CEE.TarifKWhCumac != nil {
			v.NonNegativeFloat("tarif_kwh_cumac", *req.CEE.TarifKWhCumac)
		}
	}
	return v
}

// applyCEEReq calcule et reporte la prime ; une erreur de barème
// devient une violation sur le champ fautif.
func applyCEEReq(devis *models.Devis, req *devisCEEReq) validation.Violations {
	if req == nil {
		return nil
	}
	tarif := services.TarifCEEDefaut
	if req.TarifKWhCumac != nil {
		tarif = *req.TarifKWhCumac
	}
	res, err := services.ComputeCEE(services.CEEParams{
		ProfilFonctionnement: req.ProfilFonctionnement,
		DureeEngagement:      req.DureeEngagement,
		PuissanceKW:          req.PuissanceKW,
		TarifKWhCumac:        tarif,
	})
	if err != nil {
		var confErr *services.ConfigurationError
		v := validation.Violations{}
		if errors.As(err, &confErr) {
			switch confErr.Param {
			case "profil_fonctionnement":
				v.Add("profil_fonctionnement", "unknown_profile")
			case "duree_engagement":
				v.Add("duree_engagement", "unknown_duration")
			default:
				v.Add(confErr.Param, "invalid")
			}
			return v
		}
		v.Add("cee", "invalid")
		return v
	}
	mode := req.Mode
	if mode == "" {
		mode = models.CEEModeInfo
	}
	if err := services.ApplyCEE(devis, res, services.CEEIntegration{Mode: mode, AfficherBloc: req.AfficherBloc}); err != nil {
		v := validation.Violations{}
		v.Add("cee", "invalid")
		return v
	}
	return nil
}

// List: GET /devis – filtres statut, client_id, type, q (numéro/objet).
func (h *DevisHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	dbq := h.DB.Model(&models.Devis{})
	if statut := strings.TrimSpace(r.URL.Query().Get("statut")); statut != "" {
		dbq = dbq.Where("statut = ?", statut)
	}
	if typ := strings.TrimSpace(r.URL.Query().Get("type")); typ != "" {
		dbq = dbq.Where("type = ?", typ)
	}
	if cid := r.URL.Query().Get("client_id"); cid != "" {
		dbq = dbq.Where("client_id = ?", cid)
	}
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where("lower(numero) LIKE ? OR lower(objet) LIKE ?", like, like)
	}

	var total int64
	dbq.Count(&total)
	var devisList []models.Devis
	if err := dbq.Preload("Client").Order("id desc").Limit(limit).Offset(offset).Find(&devisList).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_devis", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": devisList, "total": total, "limit": limit, "offset": offset})
		return
	}
	renderTemplate(w, r, "devis", map[string]any{"Devis": devisList, "Total": total})
}

// Get: GET /devis/show?id=N
func (h *DevisHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var devis models.Devis
	if err := h.DB.Preload("Client").Preload("Commercial").First(&devis, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "devis_not_found", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, devis)
		return
	}
	renderTemplate(w, r, "devis_detail", map[string]any{"Devis": devis})
}

// Create: POST /devis – la validation est évaluée à la soumission,
// jamais pendant la saisie. Aucune ligne n'est écrite si elle échoue.
func (h *DevisHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.DB, r)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req devisReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var client models.Client
	if err := h.DB.First(&client, req.ClientID).Error; err != nil {
		v := validation.Violations{}
		v.Add("client_id", "unknown_client")
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	now := time.Now()
	devis := models.Devis{
		Numero:               services.NextNumero(services.PrefixDevis),
		DateDevis:            now,
		DateCreation:         now,
		Objet:                services.DefautObjet,
		DescriptionOperation: req.DescriptionOperation,
		Remarques:            req.Remarques,
		ClientID:             client.ID,
		CommercialID:         user.ID,
		Type:                 models.DevisTypeStandard,
		Statut:               models.DevisStatutBrouillon,
		TVATaux:              services.TVATauxDefaut,
		ModalitesPaiement:    services.DefautModalitesPaiement,
		Garantie:             services.DefautGarantie,
		Penalites:            services.DefautPenalites,
		ClauseJuridique:      services.DefautClauseJuridique,
		Delais:               services.DefautDelais,
	}
	if req.Objet != "" {
		devis.Objet = req.Objet
	}
	if req.Type != "" {
		devis.Type = req.Type
	}
	if req.DateDevis != "" {
		if d, err := time.Parse("2006-01-02", req.DateDevis); err == nil {
			devis.DateDevis = d
		}
	}
	applyConditions(&devis, req)

	if v := applyCEEReq(&devis, req.CEE); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	doc := &services.Document{Zones: req.Zones}
	if err := services.ReconcileTotals(&devis, doc); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_lignes", nil)
		return
	}
	if err := h.DB.Create(&devis).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_devis", nil)
		return
	}
	_ = h.History.Log(devis.ID, user, models.HistoryActionCreation, "Devis créé", nil)
	httpx.JSON(w, http.StatusCreated, devis)
}

func applyConditions(devis *models.Devis, req devisReq) {
	if req.ModalitesPaiement != "" {
		devis.ModalitesPaiement = req.ModalitesPaiement
	}
	if req.Garantie != "" {
		devis.Garantie = req.Garantie
	}
	if req.Penalites != "" {
		devis.Penalites = req.Penalites
	}
	if req.ClauseJuridique != "" {
		devis.ClauseJuridique = req.ClauseJuridique
	}
	if req.Delais != "" {
		devis.Delais = req.Delais
	}
}

// Update: POST /devis/update?id=N – dernier écrivain gagnant. Si le
// client fournit based_on_updated_at et que la base a bougé depuis,
// l'écriture passe quand même mais la réponse porte l'avertissement
// conflict_overwrite.
func (h *DevisHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.DB, r)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var devis models.Devis
	if err := h.DB.First(&devis, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "devis_not_found", nil)
		return
	}
	if !policy.CanAccess(user, devis) {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}

	var req devisReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	warning := ""
	if req.BasedOnUpdatedAt != "" {
		if base, err := time.Parse(time.RFC3339, req.BasedOnUpdatedAt); err == nil {
			if devis.UpdatedAt.Truncate(time.Second).After(base.Truncate(time.Second)) {
				warning = "conflict_overwrite"
			}
		}
	}

	prevDoc, err := services.ParseDocument(devis.LignesData)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "corrupt_lignes", nil)
		return
	}
	prevCount := prevDoc.CountLignes()

	if req.ClientID != 0 {
		devis.ClientID = req.ClientID
	}
	if req.Objet != "" {
		devis.Objet = req.Objet
	}
	if req.Type != "" {
		devis.Type = req.Type
	}
	devis.DescriptionOperation = req.DescriptionOperation
	devis.Remarques = req.Remarques
	if req.DateDevis != "" {
		if d, err := time.Parse("2006-01-02", req.DateDevis); err == nil {
			devis.DateDevis = d
		}
	}
	applyConditions(&devis, req)

	if req.CEE != nil {
		if v := applyCEEReq(&devis, req.CEE); !v.Empty() {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
	}
	doc := &services.Document{Zones: req.Zones}
	if err := services.ReconcileTotals(&devis, doc); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_lignes", nil)
		return
	}
	if err := h.DB.Save(&devis).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_devis", nil)
		return
	}

	newCount := doc.CountLignes()
	switch {
	case newCount > prevCount:
		_ = h.History.Log(devis.ID, user, models.HistoryActionAjoutLigne, "Lignes ajoutées", map[string]int{"avant": prevCount, "apres": newCount})
	case newCount < prevCount:
		_ = h.History.Log(devis.ID, user, models.HistoryActionSuppressionLigne, "Lignes supprimées", map[string]int{"avant": prevCount, "apres": newCount})
	default:
		_ = h.History.Log(devis.ID, user, models.HistoryActionModification, "Devis modifié", nil)
	}

	resp := map[string]any{"devis": devis}
	if warning != "" {
		resp["warning"] = warning
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// Delete: POST /devis/delete?id=N
func (h *DevisHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.DB, r)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var devis models.Devis
	if err := h.DB.First(&devis, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "devis_not_found", nil)
		return
	}
	if !policy.CanAccess(user, devis) {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	if err := h.DB.Delete(&devis).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_devis", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
		return
	}
	http.Redirect(w, r, "/devis", statusSeeOther)
}
