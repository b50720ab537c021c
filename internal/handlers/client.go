package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/oxagroupe/oxa-crm/httpx"
	"github.com/oxagroupe/oxa-crm/internal/models"
	"github.com/oxagroupe/oxa-crm/internal/policy"
	"github.com/oxagroupe/oxa-crm/validation"
)

type ClientHandler struct{ DB *gorm.DB }

func NewClientHandler(db *gorm.DB) *ClientHandler { return &ClientHandler{DB: db} }

type clientReq struct {
	Nom              string `json:"nom"`
	SIRET            string `json:"siret"`
	Email            string `json:"email"`
	Telephone        string `json:"telephone"`
	Adresse          string `json:"adresse"`
	Ville            string `json:"ville"`
	CodePostal       string `json:"code_postal"`
	Pays             string `json:"pays"`
	ContactPrincipal string `json:"contact_principal"`
	Notes            string `json:"notes"`
}

func decodeClientReq(r *http.Request) (clientReq, error) {
	var req clientReq
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return req, json.NewDecoder(r.Body).Decode(&req)
	}
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Nom = strings.TrimSpace(r.FormValue("nom"))
	req.SIRET = strings.TrimSpace(r.FormValue("siret"))
	req.Email = strings.TrimSpace(r.FormValue("email"))
	req.Telephone = strings.TrimSpace(r.FormValue("telephone"))
	req.Adresse = strings.TrimSpace(r.FormValue("adresse"))
	req.Ville = strings.TrimSpace(r.FormValue("ville"))
	req.CodePostal = strings.TrimSpace(r.FormValue("code_postal"))
	req.Pays = strings.TrimSpace(r.FormValue("pays"))
	req.ContactPrincipal = strings.TrimSpace(r.FormValue("contact_principal"))
	req.Notes = strings.TrimSpace(r.FormValue("notes"))
	return req, nil
}

func (req clientReq) validate() validation.Violations {
	v := validation.Violations{}
	v.Required("nom", req.Nom)
	return v
}

func (req clientReq) apply(c *models.Client) {
	c.Nom = req.Nom
	c.SIRET = req.SIRET
	c.Email = req.Email
	c.Telephone = req.Telephone
	c.Adresse = req.Adresse
	c.Ville = req.Ville
	c.CodePostal = req.CodePostal
	if req.Pays != "" {
		c.Pays = req.Pays
	}
	c.ContactPrincipal = req.ContactPrincipal
	c.Notes = req.Notes
}

// List: GET /clients – HTML or JSON, filtrable par q (nom) et ville.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	dbq := h.DB.Model(&models.Client{})
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where("lower(nom) LIKE ? OR lower(contact_principal) LIKE ?", like, like)
	}
	if ville := strings.TrimSpace(r.URL.Query().Get("ville")); ville != "" {
		dbq = dbq.Where("lower(ville) = ?", strings.ToLower(ville))
	}

	var total int64
	dbq.Count(&total)
	var clients []models.Client
	if err := dbq.Order("nom asc").Limit(limit).Offset(offset).Find(&clients).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_clients", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": clients, "total": total, "limit": limit, "offset": offset})
		return
	}
	renderTemplate(w, r, "clients", map[string]any{"Clients": clients, "Total": total})
}

// Get: GET /clients/show?id=N
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var client models.Client
	if err := h.DB.Preload("Commercial").First(&client, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "client_not_found", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, client)
		return
	}
	renderTemplate(w, r, "client_detail", map[string]any{"Client": client})
}

// Create: POST /clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.DB, r)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	req, err := decodeClientReq(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_payload", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	client := models.Client{CommercialID: user.ID, Pays: "France"}
	req.apply(&client)
	if err := h.DB.Create(&client).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_client", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, client)
		return
	}
	http.Redirect(w, r, "/clients", statusSeeOther)
}

// Update: POST /clients/update?id=N
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.DB, r)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var client models.Client
	if err := h.DB.First(&client, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "client_not_found", nil)
		return
	}
	if !policy.CanAccess(user, client) {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	req, err := decodeClientReq(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_payload", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	req.apply(&client)
	if err := h.DB.Save(&client).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_client", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, client)
		return
	}
	http.Redirect(w, r, "/clients", statusSeeOther)
}

// Delete: POST /clients/delete?id=N – suppression directe, la
// confirmation est côté interface.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.DB, r)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var client models.Client
	if err := h.DB.First(&client, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "client_not_found", nil)
		return
	}
	if !policy.CanAccess(user, client) {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	if err := h.DB.Delete(&client).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_client", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
		return
	}
	http.Redirect(w, r, "/clients", statusSeeOther)
}
