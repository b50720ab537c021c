package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oxagroupe/oxa-crm/httpx"
	"github.com/oxagroupe/oxa-crm/internal/services"
)

// CEEHandler expose le simulateur de prime, sans persistance.
type CEEHandler struct{}

func NewCEEHandler() *CEEHandler { return &CEEHandler{} }

// Simulate: POST /cee/simulate – calcule kWh cumac et prime pour des
// paramètres donnés. GET /cee/simulate liste les barèmes.
func (h *CEEHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"profils":      services.CEEProfils(),
			"durees":       services.CEEDurees(),
			"tarif_defaut": services.TarifCEEDefaut,
		})
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "GET,POST")
		return
	}
	var params services.CEEParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if params.PuissanceKW < 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"puissance_kw": "must_be_positive"})
		return
	}
	res, err := services.ComputeCEE(params)
	if err != nil {
		var confErr *services.ConfigurationError
		if errors.As(err, &confErr) {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_bareme", map[string]string{confErr.Param: confErr.Valeur})
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
