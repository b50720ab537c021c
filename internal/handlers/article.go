package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/oxagroupe/oxa-crm/httpx"
	"github.com/oxagroupe/oxa-crm/internal/models"
	"github.com/oxagroupe/oxa-crm/validation"
)

type ArticleHandler struct{ DB *gorm.DB }

func NewArticleHandler(db *gorm.DB) *ArticleHandler { return &ArticleHandler{DB: db} }

type articleReq struct {
	Nom         string  `json:"nom"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	PrixAchat   float64 `json:"prix_achat"`
	PrixVente   float64 `json:"prix_vente"`
	TVA         float64 `json:"tva"`
	Unite       string  `json:"unite"`
	Actif       *bool   `json:"actif"`
}

var articleTypes = map[string]bool{
	models.ArticleTypeIPE:        true,
	models.ArticleTypeElec:       true,
	models.ArticleTypeMateriel:   true,
	models.ArticleTypeMainOeuvre: true,
}

func decodeArticleReq(r *http.Request) (articleReq, error) {
	var req articleReq
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return req, json.NewDecoder(r.Body).Decode(&req)
	}
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Nom = strings.TrimSpace(r.FormValue("nom"))
	req.Description = strings.TrimSpace(r.FormValue("description"))
	req.Type = strings.TrimSpace(r.FormValue("type"))
	req.PrixAchat, _ = strconv.ParseFloat(r.FormValue("prix_achat"), 64)
	req.PrixVente, _ = strconv.ParseFloat(r.FormValue("prix_vente"), 64)
	req.TVA, _ = strconv.ParseFloat(r.FormValue("tva"), 64)
	req.Unite = strings.TrimSpace(r.FormValue("unite"))
	if v := r.FormValue("actif"); v != "" {
		b := v == "1" || v == "true" || v == "on"
		req.Actif = &b
	}
	return req, nil
}

func (req articleReq) validate() validation.Violations {
	v := validation.Violations{}
	v.Required("nom", req.Nom)
	if req.Type != "" && !articleTypes[req.Type] {
		v.Add("type", "invalid_type")
	}
	v.NonNegativeFloat("prix_achat", req.PrixAchat)
	v.NonNegativeFloat("prix_vente", req.PrixVente)
	v.Percentage("tva", req.TVA)
	return v
}

// List: GET /articles – par défaut seuls les articles actifs.
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	dbq := h.DB.Model(&models.Article{})
	if r.URL.Query().Get("tous") != "1" {
		dbq = dbq.Where("actif = ?", true)
	}
	if typ := strings.TrimSpace(r.URL.Query().Get("type")); typ != "" {
		dbq = dbq.Where("type = ?", typ)
	}
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		dbq = dbq.Where("lower(nom) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	dbq.Count(&total)
	var articles []models.Article
	if err := dbq.Order("nom asc").Limit(limit).Offset(offset).Find(&articles).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_articles", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": articles, "total": total, "limit": limit, "offset": offset})
		return
	}
	renderTemplate(w, r, "articles", map[string]any{"Articles": articles, "Total": total})
}

// Create: POST /articles
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeArticleReq(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_payload", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	art := models.Article{
		Nom:         req.Nom,
		Description: req.Description,
		Type:        req.Type,
		PrixAchat:   req.PrixAchat,
		PrixVente:   req.PrixVente,
		TVA:         req.TVA,
		Unite:       req.Unite,
		Actif:       true,
	}
	if art.Type == "" {
		art.Type = models.ArticleTypeMateriel
	}
	if art.TVA == 0 {
		art.TVA = 20
	}
	if req.Actif != nil {
		art.Actif = *req.Actif
	}
	if err := h.DB.Create(&art).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_article", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, art)
		return
	}
	http.Redirect(w, r, "/articles", statusSeeOther)
}

// Update: POST /articles/update?id=N
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var art models.Article
	if err := h.DB.First(&art, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "article_not_found", nil)
		return
	}
	req, err := decodeArticleReq(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_payload", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	art.Nom = req.Nom
	art.Description = req.Description
	if req.Type != "" {
		art.Type = req.Type
	}
	art.PrixAchat = req.PrixAchat
	art.PrixVente = req.PrixVente
	if req.TVA != 0 {
		art.TVA = req.TVA
	}
	if req.Unite != "" {
		art.Unite = req.Unite
	}
	if req.Actif != nil {
		art.Actif = *req.Actif
	}
	if err := h.DB.Save(&art).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_article", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, art)
		return
	}
	http.Redirect(w, r, "/articles", statusSeeOther)
}

// Delete: POST /articles/delete?id=N – désactive plutôt que supprimer,
// les lignes existantes gardent leur instantané.
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var art models.Article
	if err := h.DB.First(&art, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "article_not_found", nil)
		return
	}
	art.Actif = false
	if err := h.DB.Save(&art).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_article", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"deactivated": id})
		return
	}
	http.Redirect(w, r, "/articles", statusSeeOther)
}
