package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oxagroupe/oxa-crm/internal/models"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:router_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Client{}, &models.Article{},
		&models.Devis{}, &models.Commande{}, &models.Facture{},
		&models.DevisHistory{}, &models.DevisComment{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db, zap.NewNop())
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestRouter(t)

	for _, path := range []string{"/health", "/healthz"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s: code = %d", path, w.Code)
		}
	}
}

func TestProtectedRoutesWithoutSession(t *testing.T) {
	h := newTestRouter(t)

	// Client API : 401 JSON.
	r := httptest.NewRequest(http.MethodGet, "/devis", nil)
	r.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("JSON sans session: code = %d, attendu 401", w.Code)
	}

	// Navigateur : redirection vers /login.
	r2 := httptest.NewRequest(http.MethodGet, "/devis", nil)
	r2.Header.Set("Accept", "text/html")
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, r2)
	if w2.Code != http.StatusSeeOther {
		t.Errorf("HTML sans session: code = %d, attendu 303", w2.Code)
	}
	if loc := w2.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q", loc)
	}
}

func TestUnknownPathRedirectsToLogin(t *testing.T) {
	// L'authentification passe avant le 404 : un chemin inconnu sans
	// session renvoie vers /login comme le reste.
	h := newTestRouter(t)
	r := httptest.NewRequest(http.MethodGet, "/inexistant", nil)
	r.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusSeeOther {
		t.Errorf("code = %d, attendu 303", w.Code)
	}
}
