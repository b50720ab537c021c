package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/oxagroupe/oxa-crm/httpx"
	"github.com/oxagroupe/oxa-crm/internal/models"
)

// Historique: GET /devis/history?id=N – journal du plus récent au plus ancien.
func (h *DevisHandler) Historique(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var devis models.Devis
	if err := h.DB.First(&devis, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "devis_not_found", nil)
		return
	}
	entries, err := h.History.Timeline(id)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_history", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": entries, "total": len(entries)})
}

// Commenter: POST /devis/comment?id=N – body {"commentaire": "..."}.
func (h *DevisHandler) Commenter(w http.ResponseWriter, r *http.Request) {
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
	var req struct {
		Commentaire string `json:"commentaire"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	req.Commentaire = strings.TrimSpace(req.Commentaire)
	if req.Commentaire == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"commentaire": "required"})
		return
	}
	if err := h.History.Comment(id, user, req.Commentaire); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_comment", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"devis_id": id, "commentaire": req.Commentaire})
}

// Commentaires: GET /devis/comments?id=N
func (h *DevisHandler) Commentaires(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var comments []models.DevisComment
	if err := h.DB.Where("devis_id = ?", id).Order("created_at DESC, id DESC").Find(&comments).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_comments", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": comments, "total": len(comments)})
}
