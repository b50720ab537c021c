package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oxagroupe/oxa-crm/auth"
	"github.com/oxagroupe/oxa-crm/internal/models"
)

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
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
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()
	user := models.User{Email: "test@oxagroupe.fr", PasswordHash: "x", Nom: "Test", Prenom: "Jean", Role: role, Actif: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	return user
}

func seedClient(t *testing.T, db *gorm.DB, commercialID uint) models.Client {
	t.Helper()
	client := models.Client{Nom: "Industrie Verte SA", Ville: "Lyon", Pays: "France", CommercialID: commercialID}
	if err := db.Create(&client).Error; err != nil {
		t.Fatal(err)
	}
	return client
}

// jsonRequest builds an authenticated JSON request for user uid.
func jsonRequest(t *testing.T, method, target string, uid uint, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", "application/json")
	if uid != 0 {
		r = r.WithContext(auth.WithUserID(r.Context(), uid))
	}
	return r
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("décodage réponse: %v\n%s", err, w.Body.String())
	}
}
