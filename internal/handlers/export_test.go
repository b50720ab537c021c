package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oxagroupe/oxa-crm/internal/models"
)

func TestExportClientsCSV(t *testing.T) {
	db := openTestDB(t, "export_clients_csv")
	user := seedUser(t, db, models.RoleCommercial)
	seedClient(t, db, user.ID)
	h := NewExportHandler(db)

	r := jsonRequest(t, http.MethodGet, "/clients/export?format=csv", user.ID, nil)
	w := httptest.NewRecorder()
	h.Clients(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("statut %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("Content-Type inattendu: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "clients.csv") {
		t.Fatalf("Content-Disposition inattendu: %s", cd)
	}
	if !strings.Contains(w.Body.String(), "Industrie Verte SA") {
		t.Fatalf("client absent de l'export:\n%s", w.Body.String())
	}
}

func TestExportClientsXLSX(t *testing.T) {
	db := openTestDB(t, "export_clients_xlsx")
	user := seedUser(t, db, models.RoleCommercial)
	seedClient(t, db, user.ID)
	h := NewExportHandler(db)

	r := jsonRequest(t, http.MethodGet, "/clients/export?format=xlsx", user.ID, nil)
	w := httptest.NewRecorder()
	h.Clients(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("statut %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("Content-Type inattendu: %s", ct)
	}
	// Un xlsx est une archive zip, signature PK.
	if body := w.Body.Bytes(); len(body) < 2 || body[0] != 'P' || body[1] != 'K' {
		t.Fatal("le corps n'est pas une archive xlsx")
	}
}
