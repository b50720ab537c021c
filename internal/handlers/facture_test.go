package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oxagroupe/oxa-crm/internal/models"
)

func TestCreateFactureDirecte(t *testing.T) {
	db := openTestDB(t, "fac_create")
	user := seedUser(t, db, models.RoleCommercial)
	client := seedClient(t, db, user.ID)
	h := NewFactureHandler(db)

	w := httptest.NewRecorder()
	h.Create(w, jsonRequest(t, http.MethodPost, "/factures", user.ID, map[string]any{
		"client_id":   client.ID,
		"montant_ht":  1000,
		"montant_ttc": 1200,
	}))
	if w.Code != http.StatusCreated {
		t.Fatalf("code = %d: %s", w.Code, w.Body.String())
	}
	var fac models.Facture
	decodeBody(t, w, &fac)
	if fac.Numero == "" || fac.Statut != models.FactureStatutEnAttente {
		t.Errorf("facture: %+v", fac)
	}
	if !fac.DateEcheance.After(fac.DateEmission) {
		t.Error("échéance non décalée")
	}
}

func TestFactureStatutPayeeHorodate(t *testing.T) {
	db := openTestDB(t, "fac_payee")
	user := seedUser(t, db, models.RoleCommercial)
	client := seedClient(t, db, user.ID)
	fac := models.Facture{Numero: "FAC-2024-000001", ClientID: client.ID, Statut: models.FactureStatutEnAttente, MontantTTC: 1200}
	if err := db.Create(&fac).Error; err != nil {
		t.Fatal(err)
	}
	h := NewFactureHandler(db)

	w := httptest.NewRecorder()
	h.Statut(w, jsonRequest(t, http.MethodPost, "/factures/statut?id=1", user.ID, map[string]string{
		"statut":        "payee",
		"mode_paiement": "virement",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d: %s", w.Code, w.Body.String())
	}
	var stored models.Facture
	db.First(&stored, fac.ID)
	if stored.Statut != models.FactureStatutPayee || stored.DatePaiement == nil {
		t.Errorf("paiement non horodaté: %+v", stored)
	}

	// Statut hors liste refusé.
	w2 := httptest.NewRecorder()
	h.Statut(w2, jsonRequest(t, http.MethodPost, "/factures/statut?id=1", user.ID, map[string]string{"statut": "annulee"}))
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, attendu 400", w2.Code)
	}
}
