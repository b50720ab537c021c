package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/oxagroupe/oxa-crm/httpx"
	"github.com/oxagroupe/oxa-crm/internal/export"
	"github.com/oxagroupe/oxa-crm/internal/models"
	"github.com/oxagroupe/oxa-crm/internal/pdf"
)

type ExportHandler struct{ DB *gorm.DB }

func NewExportHandler(db *gorm.DB) *ExportHandler { return &ExportHandler{DB: db} }

func setDownloadHeaders(w http.ResponseWriter, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}

// Clients: GET /clients/export?format=csv|xlsx
func (h *ExportHandler) Clients(w http.ResponseWriter, r *http.Request) {
	var clients []models.Client
	if err := h.DB.Order("nom asc").Find(&clients).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_clients", nil)
		return
	}
	switch r.URL.Query().Get("format") {
	case "xlsx":
		f, err := export.ClientsXLSX(clients)
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
			return
		}
		setDownloadHeaders(w, "clients.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_ = f.Write(w)
	default:
		setDownloadHeaders(w, "clients.csv", "text/csv; charset=utf-8")
		_ = export.ClientsCSV(w, clients)
	}
}

// Devis: GET /devis/export?format=csv|xlsx
func (h *ExportHandler) Devis(w http.ResponseWriter, r *http.Request) {
	var devisList []models.Devis
	dbq := h.DB.Preload("Client").Order("id desc")
	if statut := r.URL.Query().Get("statut"); statut != "" {
		dbq = dbq.Where("statut = ?", statut)
	}
	if err := dbq.Find(&devisList).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_devis", nil)
		return
	}
	switch r.URL.Query().Get("format") {
	case "xlsx":
		f, err := export.DevisXLSX(devisList)
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
			return
		}
		setDownloadHeaders(w, "devis.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_ = f.Write(w)
	default:
		setDownloadHeaders(w, "devis.csv", "text/csv; charset=utf-8")
		_ = export.DevisCSV(w, devisList)
	}
}

// DevisPDF: GET /devis/pdf?id=N
func (h *ExportHandler) DevisPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var devis models.Devis
	if err := h.DB.Preload("Client").First(&devis, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "devis_not_found", nil)
		return
	}
	out, err := pdf.GenerateDevisPDF(&devis, &devis.Client)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_failed", nil)
		return
	}
	setDownloadHeaders(w, devis.Numero+".pdf", "application/pdf")
	_, _ = w.Write(out)
}
