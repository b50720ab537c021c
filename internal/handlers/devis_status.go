package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/oxagroupe/oxa-crm/httpx"
	"github.com/oxagroupe/oxa-crm/internal/models"
	"github.com/oxagroupe/oxa-crm/internal/policy"
	"github.com/oxagroupe/oxa-crm/internal/services"
)

// Statut: POST /devis/statut?id=N – change le statut. Entrer dans
// "accepte" retourne conversion_required: l'interface propose alors la
// conversion ; décliner n'envoie simplement pas l'appel /devis/convert
// et rien d'autre n'est persisté.
func (h *DevisHandler) Statut(w http.ResponseWriter, r *http.Request) {
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

	var req struct {
		Statut string `json:"statut"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	effect, err := services.TransitionDevis(devis.Statut, req.Statut)
	if err != nil {
		httpx.JSONError(w, http.StatusConflict, "invalid_transition", map[string]string{
			"from": devis.Statut,
			"to":   req.Statut,
		})
		return
	}
	ancien := devis.Statut
	devis.Statut = req.Statut
	if err := h.DB.Save(&devis).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_devis", nil)
		return
	}
	_ = h.History.Log(devis.ID, user, models.HistoryActionChangementStatut,
		"Statut changé", map[string]string{"ancien": ancien, "nouveau": devis.Statut})

	resp := map[string]any{"devis": devis}
	if effect == services.EffectConversionPrompt {
		resp["conversion_required"] = true
		resp["conversion_options"] = []string{"commande", "facture"}
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// Convert: POST /devis/convert?id=N – body {"cible": "commande"|"facture"}.
func (h *DevisHandler) Convert(w http.ResponseWriter, r *http.Request) {
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

	var req struct {
		Cible string `json:"cible"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	switch req.Cible {
	case "commande":
		cmd, err := services.ConvertDevisToCommande(h.DB, &devis)
		if err != nil {
			httpx.JSONError(w, http.StatusConflict, "conversion_failed", map[string]string{"raison": err.Error()})
			return
		}
		_ = h.History.Log(devis.ID, user, models.HistoryActionModification,
			"Converti en commande", map[string]any{"commande_id": cmd.ID, "numero": cmd.Numero})
		httpx.JSON(w, http.StatusCreated, map[string]any{"commande": cmd})
	case "facture":
		fac, err := services.ConvertDevisToFacture(h.DB, &devis)
		if err != nil {
			httpx.JSONError(w, http.StatusConflict, "conversion_failed", map[string]string{"raison": err.Error()})
			return
		}
		_ = h.History.Log(devis.ID, user, models.HistoryActionModification,
			"Converti en facture", map[string]any{"facture_id": fac.ID, "numero": fac.Numero})
		httpx.JSON(w, http.StatusCreated, map[string]any{"facture": fac})
	default:
		httpx.JSONError(w, http.StatusBadRequest, "invalid_target", nil)
	}
}
