package services

import (
	"testing"

	"github.com/oxagroupe/oxa-crm/internal/models"
)

func TestDocumentZoneProduction(t *testing.T) {
	doc := &Document{}
	doc.AddZone("z1", "Zone production")
	if err := doc.AddLigne("z1", Ligne{
		ID:           "l1",
		Designation:  "Récupérateur de chaleur",
		Quantite:     1,
		PrixUnitaire: 12000,
		PrixAchat:    8000,
		TVA:          20,
	}); err != nil {
		t.Fatalf("AddLigne: %v", err)
	}

	if got := doc.TotalHT(); got != 12000 {
		t.Errorf("total HT = %v, attendu 12000", got)
	}
	if got := doc.MargeTotale(); got != 4000 {
		t.Errorf("marge = %v, attendu 4000", got)
	}
	z := doc.Zones[0]
	if z.SousTotal != 12000 || z.SousMarge != 4000 {
		t.Errorf("zone: sous-total=%v sous-marge=%v", z.SousTotal, z.SousMarge)
	}
}

func TestNewLigneInitialisation(t *testing.T) {
	doc := &Document{}
	doc.AddZone("z1", "Atelier")
	l := NewLigne("l1")
	if l.Quantite != 1 || l.PrixUnitaire != 0 || l.PrixAchat != 0 {
		t.Fatalf("ligne vierge inattendue: %+v", l)
	}
	if err := doc.AddLigne("z1", l); err != nil {
		t.Fatal(err)
	}
	if doc.TotalHT() != 0 {
		t.Fatalf("total HT = %v, attendu 0", doc.TotalHT())
	}
}

func TestUpdateLigneRecalculeImmediatement(t *testing.T) {
	doc := &Document{}
	doc.AddZone("z1", "Atelier")
	if err := doc.AddLigne("z1", Ligne{ID: "l1", Designation: "Capteur", Quantite: 2, PrixUnitaire: 100, PrixAchat: 60}); err != nil {
		t.Fatal(err)
	}

	if err := doc.UpdateLigne("z1", Ligne{ID: "l1", Designation: "Capteur", Quantite: 3, PrixUnitaire: 150, PrixAchat: 60}); err != nil {
		t.Fatalf("UpdateLigne: %v", err)
	}
	l := doc.Zones[0].Lignes[0]
	if l.Total != 450 {
		t.Errorf("total = %v, attendu quantité × prix unitaire = 450", l.Total)
	}
	if l.Marge != 270 {
		t.Errorf("marge = %v, attendu total − quantité × prix d'achat = 270", l.Marge)
	}
}

func TestRemoveZoneSupprimeSesLignes(t *testing.T) {
	doc := &Document{}
	doc.AddZone("z1", "A")
	doc.AddZone("z2", "B")
	_ = doc.AddLigne("z1", Ligne{ID: "l1", Quantite: 1, PrixUnitaire: 500})
	_ = doc.AddLigne("z2", Ligne{ID: "l2", Quantite: 1, PrixUnitaire: 300})

	if !doc.RemoveZone("z1") {
		t.Fatal("RemoveZone a échoué")
	}
	if doc.CountLignes() != 1 {
		t.Errorf("lignes restantes = %d, attendu 1", doc.CountLignes())
	}
	if got := doc.TotalHT(); got != 300 {
		t.Errorf("total HT = %v, attendu 300", got)
	}
}

func TestLigneFromArticleInstantane(t *testing.T) {
	art := models.Article{ID: 7, Nom: "Compteur IPE", Description: "Compteur triphasé", Unite: "unité", PrixVente: 850, PrixAchat: 500, TVA: 20}
	l := LigneFromArticle("l1", art, 4)

	if l.Designation != "Compteur IPE" || l.PrixUnitaire != 850 || l.PrixAchat != 500 || l.TVA != 20 {
		t.Errorf("instantané incorrect: %+v", l)
	}
	if l.Quantite != 4 {
		t.Errorf("quantité = %v, attendu 4", l.Quantite)
	}

	doc := &Document{}
	doc.AddZone("z1", "Zone")
	_ = doc.AddLigne("z1", l)

	// Un changement de prix au catalogue ne touche pas la ligne déjà posée.
	art.PrixVente = 999
	if doc.Zones[0].Lignes[0].PrixUnitaire != 850 {
		t.Errorf("la ligne suit le catalogue au lieu de l'instantané")
	}
}

func TestParseDocumentVide(t *testing.T) {
	doc, err := ParseDocument(nil)
	if err != nil {
		t.Fatalf("ParseDocument(nil): %v", err)
	}
	if doc.CountLignes() != 0 || doc.TotalHT() != 0 {
		t.Errorf("document vide attendu: %+v", doc)
	}
}

func TestParseDocumentRoundTrip(t *testing.T) {
	doc := &Document{}
	doc.AddZone("z1", "Zone production")
	_ = doc.AddLigne("z1", Ligne{ID: "l1", Quantite: 2, PrixUnitaire: 1250.50, PrixAchat: 800, TVA: 20})

	raw, err := doc.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	back, err := ParseDocument(raw)
	if err != nil {
		t.Fatal(err)
	}
	if back.TotalHT() != doc.TotalHT() || back.MargeTotale() != doc.MargeTotale() {
		t.Errorf("totaux différents après round-trip")
	}
}
