package services

import (
	"encoding/json"
	"testing"

	"github.com/oxagroupe/oxa-crm/internal/models"
)

func devisUneLigne(t *testing.T) (*models.Devis, *Document) {
	t.Helper()
	doc := &Document{}
	doc.AddZone("z1", "Zone production")
	if err := doc.AddLigne("z1", Ligne{ID: "l1", Quantite: 1, PrixUnitaire: 12000, PrixAchat: 8000, TVA: 20}); err != nil {
		t.Fatal(err)
	}
	return &models.Devis{TVATaux: 20}, doc
}

func TestReconcileTotals(t *testing.T) {
	devis, doc := devisUneLigne(t)
	if err := ReconcileTotals(devis, doc); err != nil {
		t.Fatalf("ReconcileTotals: %v", err)
	}

	if devis.TotalHT != 12000 {
		t.Errorf("HT = %v, attendu 12000", devis.TotalHT)
	}
	if devis.TotalTVA != 2400 {
		t.Errorf("TVA = %v, attendu 2400", devis.TotalTVA)
	}
	if devis.TotalTTC != 14400 {
		t.Errorf("TTC = %v, attendu 14400", devis.TotalTTC)
	}
	if devis.MargeTotale != 4000 {
		t.Errorf("marge = %v, attendu 4000", devis.MargeTotale)
	}
	if devis.TotalTTC != devis.TotalHT+devis.TotalTVA {
		t.Errorf("TTC ≠ HT + TVA")
	}
}

func TestReconcileTotalsIdempotent(t *testing.T) {
	devis, doc := devisUneLigne(t)
	if err := ReconcileTotals(devis, doc); err != nil {
		t.Fatal(err)
	}
	first := *devis
	firstLignes := string(devis.LignesData)

	if err := ReconcileTotals(devis, doc); err != nil {
		t.Fatal(err)
	}
	if devis.TotalHT != first.TotalHT || devis.TotalTVA != first.TotalTVA ||
		devis.TotalTTC != first.TotalTTC || devis.MargeTotale != first.MargeTotale {
		t.Errorf("dérive après second recalcul: %+v vs %+v", devis, first)
	}
	if string(devis.LignesData) != firstLignes {
		t.Errorf("lignes_data a dérivé après second recalcul")
	}
}

func TestReconcileTotalsModeDeduction(t *testing.T) {
	devis, doc := devisUneLigne(t)
	res, err := ComputeCEE(CEEParams{ProfilFonctionnement: "continu_24_7", DureeEngagement: 5, PuissanceKW: 400, TarifKWhCumac: 0.002})
	if err != nil {
		t.Fatal(err)
	}
	if err := ApplyCEE(devis, res, CEEIntegration{Mode: models.CEEModeDeduction, AfficherBloc: true}); err != nil {
		t.Fatal(err)
	}
	if err := ReconcileTotals(devis, doc); err != nil {
		t.Fatal(err)
	}

	want := round2(devis.TotalTTC - res.PrimeEstimee)
	if devis.ResteAPayerHT != want {
		t.Errorf("reste à payer = %v, attendu %v", devis.ResteAPayerHT, want)
	}
}

func TestReconcileTotalsModeInfo(t *testing.T) {
	devis, doc := devisUneLigne(t)
	res, err := ComputeCEE(CEEParams{ProfilFonctionnement: "1x8h", DureeEngagement: 1, PuissanceKW: 100, TarifKWhCumac: 0.002})
	if err != nil {
		t.Fatal(err)
	}
	if err := ApplyCEE(devis, res, CEEIntegration{Mode: models.CEEModeInfo, AfficherBloc: true}); err != nil {
		t.Fatal(err)
	}
	if err := ReconcileTotals(devis, doc); err != nil {
		t.Fatal(err)
	}
	// Prime informative : rien n'est déduit, le net à payer est le TTC.
	if devis.ResteAPayerHT != devis.TotalTTC {
		t.Errorf("reste à payer = %v, attendu TTC %v", devis.ResteAPayerHT, devis.TotalTTC)
	}
	if devis.TotalTTC != 14400 {
		t.Errorf("TTC = %v, attendu 14400", devis.TotalTTC)
	}
}

func TestBasculeModeNeTouchePasLesTotaux(t *testing.T) {
	devis, doc := devisUneLigne(t)
	res, err := ComputeCEE(CEEParams{ProfilFonctionnement: "2x8h", DureeEngagement: 3, PuissanceKW: 250, TarifKWhCumac: 0.002})
	if err != nil {
		t.Fatal(err)
	}

	if err := ApplyCEE(devis, res, CEEIntegration{Mode: models.CEEModeDeduction}); err != nil {
		t.Fatal(err)
	}
	if err := ReconcileTotals(devis, doc); err != nil {
		t.Fatal(err)
	}
	ht, tva, ttc := devis.TotalHT, devis.TotalTVA, devis.TotalTTC
	if devis.ResteAPayerHT != round2(ttc-res.PrimeEstimee) {
		t.Fatalf("reste à payer = %v en mode deduction", devis.ResteAPayerHT)
	}

	if err := ApplyCEE(devis, res, CEEIntegration{Mode: models.CEEModeInfo}); err != nil {
		t.Fatal(err)
	}
	if err := ReconcileTotals(devis, doc); err != nil {
		t.Fatal(err)
	}
	if devis.TotalHT != ht || devis.TotalTVA != tva || devis.TotalTTC != ttc {
		t.Errorf("le changement de mode a modifié les totaux")
	}
	if devis.ResteAPayerHT != ttc {
		t.Errorf("reste à payer = %v en mode info, attendu TTC %v", devis.ResteAPayerHT, ttc)
	}
}

func TestApplyCEEPersisteInstantane(t *testing.T) {
	devis := &models.Devis{TVATaux: 20}
	res, err := ComputeCEE(CEEParams{ProfilFonctionnement: "1x8h", DureeEngagement: 1, PuissanceKW: 100, TarifKWhCumac: 0.002})
	if err != nil {
		t.Fatal(err)
	}
	if err := ApplyCEE(devis, res, CEEIntegration{Mode: models.CEEModeInfo, AfficherBloc: true}); err != nil {
		t.Fatal(err)
	}

	var snap CEEResult
	if err := json.Unmarshal(devis.CEECalculation, &snap); err != nil {
		t.Fatalf("cee_calculation: %v", err)
	}
	if snap.KWhCumac != 2940 || snap.OperateurNom != "OXA Groupe" {
		t.Errorf("instantané incorrect: %+v", snap)
	}

	integ := ParseCEEIntegration(devis.CEEIntegration)
	if integ.Mode != models.CEEModeInfo || !integ.AfficherBloc {
		t.Errorf("intégration incorrecte: %+v", integ)
	}
}

func TestClearCEE(t *testing.T) {
	devis, doc := devisUneLigne(t)
	res, _ := ComputeCEE(CEEParams{ProfilFonctionnement: "1x8h", DureeEngagement: 1, PuissanceKW: 100, TarifKWhCumac: 0.002})
	_ = ApplyCEE(devis, res, CEEIntegration{Mode: models.CEEModeDeduction})
	_ = ReconcileTotals(devis, doc)

	ClearCEE(devis)
	if err := ReconcileTotals(devis, doc); err != nil {
		t.Fatal(err)
	}
	if devis.CEEMontantTotal != 0 || devis.CEECalculation != nil {
		t.Errorf("trace CEE restante: %+v", devis)
	}
	if devis.ResteAPayerHT != devis.TotalTTC {
		t.Errorf("reste à payer = %v, attendu TTC %v", devis.ResteAPayerHT, devis.TotalTTC)
	}
	if devis.TotalTTC != 14400 {
		t.Errorf("totaux modifiés par ClearCEE: TTC = %v", devis.TotalTTC)
	}
}
