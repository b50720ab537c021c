package services

import (
	"errors"
	"testing"
)

func TestComputeCEENominal(t *testing.T) {
	res, err := ComputeCEE(CEEParams{
		ProfilFonctionnement: "1x8h",
		DureeEngagement:      1,
		PuissanceKW:          100,
		TarifKWhCumac:        0.002,
	})
	if err != nil {
		t.Fatalf("ComputeCEE: %v", err)
	}
	if res.KWhCumac != 2940 {
		t.Errorf("kWh cumac = %v, attendu 2940", res.KWhCumac)
	}
	if res.PrimeEstimee != 5.88 {
		t.Errorf("prime = %v, attendu 5.88", res.PrimeEstimee)
	}
	if res.OperateurNom != "OXA Groupe" {
		t.Errorf("operateur = %q", res.OperateurNom)
	}
}

func TestComputeCEEProfils(t *testing.T) {
	cases := []struct {
		profil string
		duree  int
		kwh    float64
	}{
		{"1x8h", 1, 2940},
		{"2x8h", 1, 5880},
		{"3x8h_weekend_off", 1, 7350},
		{"3x8h_24_7", 1, 8820},
		{"continu_24_7", 1, 10290},
		{"1x8h", 5, 10584},
		{"continu_24_7", 5, 37044},
	}
	for _, c := range cases {
		res, err := ComputeCEE(CEEParams{ProfilFonctionnement: c.profil, DureeEngagement: c.duree, PuissanceKW: 100})
		if err != nil {
			t.Fatalf("%s/%d: %v", c.profil, c.duree, err)
		}
		if res.KWhCumac != c.kwh {
			t.Errorf("%s/%d: kWh = %v, attendu %v", c.profil, c.duree, res.KWhCumac, c.kwh)
		}
	}
}

func TestComputeCEEPuissanceNulle(t *testing.T) {
	res, err := ComputeCEE(CEEParams{ProfilFonctionnement: "2x8h", DureeEngagement: 3, PuissanceKW: 0})
	if err != nil {
		t.Fatalf("puissance nulle doit être valide: %v", err)
	}
	if res.KWhCumac != 0 || res.PrimeEstimee != 0 {
		t.Errorf("résultat non nul: kWh=%v prime=%v", res.KWhCumac, res.PrimeEstimee)
	}
}

func TestComputeCEETarifNul(t *testing.T) {
	res, err := ComputeCEE(CEEParams{ProfilFonctionnement: "1x8h", DureeEngagement: 1, PuissanceKW: 100, TarifKWhCumac: 0})
	if err != nil {
		t.Fatal(err)
	}
	if res.KWhCumac != 2940 {
		t.Errorf("kWh = %v, attendu 2940", res.KWhCumac)
	}
	// Un tarif à zéro est une entrée valide : la prime vaut zéro, le
	// tarif n'est jamais remplacé en douce par la valeur par défaut.
	if res.TarifKWhCumac != 0 || res.PrimeEstimee != 0 {
		t.Errorf("tarif=%v prime=%v, attendu 0 et 0", res.TarifKWhCumac, res.PrimeEstimee)
	}
}

func TestComputeCEEParametresInconnus(t *testing.T) {
	var confErr *ConfigurationError

	_, err := ComputeCEE(CEEParams{ProfilFonctionnement: "4x8h", DureeEngagement: 1, PuissanceKW: 50})
	if !errors.As(err, &confErr) || confErr.Param != "profil_fonctionnement" {
		t.Errorf("profil inconnu: err = %v", err)
	}

	_, err = ComputeCEE(CEEParams{ProfilFonctionnement: "1x8h", DureeEngagement: 7, PuissanceKW: 50})
	if !errors.As(err, &confErr) || confErr.Param != "duree_engagement" {
		t.Errorf("durée inconnue: err = %v", err)
	}
}
