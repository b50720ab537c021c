package services

import (
	"fmt"
	"math"
)

// Fiche IND-UT-134 : récupérateur de chaleur sur groupe de production
// de froid. Le gisement est proportionnel à la puissance électrique du
// compresseur, au rythme de fonctionnement du site et à la durée
// d'engagement.
const ceeBaseKWhCumac = 29.4

// Coefficients d'activité par profil de fonctionnement.
var ceeProfilCoefficients = map[string]float64{
	"1x8h":             1.0,
	"2x8h":             2.0,
	"3x8h_weekend_off": 2.5,
	"3x8h_24_7":        3.0,
	"continu_24_7":     3.5,
}

// Facteurs multiplicatifs par durée d'engagement en années.
var ceeDureeFacteurs = map[int]float64{
	1: 1.0,
	2: 1.8,
	3: 2.5,
	4: 3.1,
	5: 3.6,
}

// TarifCEEDefaut : valorisation proposée par défaut dans les
// formulaires, en euros par kWh cumac. Le calcul lui-même utilise
// toujours le tarif fourni, zéro compris.
const TarifCEEDefaut = 0.002

// ConfigurationError signale un paramètre CEE hors barème. Distinct des
// erreurs de validation de saisie : le barème est fixé par la fiche.
type ConfigurationError struct {
	Param  string
	Valeur string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("paramètre CEE invalide: %s=%s", e.Param, e.Valeur)
}

// CEEParams regroupe les entrées du calcul de prime.
type CEEParams struct {
	ProfilFonctionnement string  `json:"profil_fonctionnement"`
	DureeEngagement      int     `json:"duree_engagement"`
	PuissanceKW          float64 `json:"puissance_kw"`
	TarifKWhCumac        float64 `json:"tarif_kwh_cumac"`
}

// CEEResult est l'instantané persisté dans le devis.
type CEEResult struct {
	ProfilFonctionnement string  `json:"profil_fonctionnement"`
	Coefficient          float64 `json:"coefficient"`
	DureeEngagement      int     `json:"duree_engagement"`
	FacteurDuree         float64 `json:"facteur_duree"`
	PuissanceKW          float64 `json:"puissance_kw"`
	TarifKWhCumac        float64 `json:"tarif_kwh_cumac"`
	KWhCumac             float64 `json:"kwh_cumac"`
	PrimeEstimee         float64 `json:"prime_estimee"`
	OperateurNom         string  `json:"operateur_nom"`
}

// ComputeCEE calcule le volume de kWh cumac et la prime estimée selon
// la fiche IND-UT-134. Une puissance nulle donne un résultat nul, ce
// qui est valide ; un profil ou une durée hors barème est une erreur.
func ComputeCEE(p CEEParams) (CEEResult, error) {
	coeff, ok := ceeProfilCoefficients[p.ProfilFonctionnement]
	if !ok {
		return CEEResult{}, &ConfigurationError{Param: "profil_fonctionnement", Valeur: p.ProfilFonctionnement}
	}
	facteur, ok := ceeDureeFacteurs[p.DureeEngagement]
	if !ok {
		return CEEResult{}, &ConfigurationError{Param: "duree_engagement", Valeur: fmt.Sprintf("%d", p.DureeEngagement)}
	}
	kwh := math.Round(ceeBaseKWhCumac * coeff * p.PuissanceKW * facteur)
	return CEEResult{
		ProfilFonctionnement: p.ProfilFonctionnement,
		Coefficient:          coeff,
		DureeEngagement:      p.DureeEngagement,
		FacteurDuree:         facteur,
		PuissanceKW:          p.PuissanceKW,
		TarifKWhCumac:        p.TarifKWhCumac,
		KWhCumac:             kwh,
		PrimeEstimee:         round2(kwh * p.TarifKWhCumac),
		OperateurNom:         OperateurCEE,
	}, nil
}

// CEEProfils liste les profils admis, pour les formulaires.
func CEEProfils() []string {
	return []string{"1x8h", "2x8h", "3x8h_weekend_off", "3x8h_24_7", "continu_24_7"}
}

// CEEDurees liste les durées d'engagement admises, en années.
func CEEDurees() []int { return []int{1, 2, 3, 4, 5} }
