package services

import (
	"encoding/json"
	"math"

	"github.com/oxagroupe/oxa-crm/internal/models"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CEEIntegration décrit comment la prime apparaît sur le devis.
type CEEIntegration struct {
	Mode         string `json:"mode"` // deduction, info, none
	AfficherBloc bool   `json:"afficher_bloc"`
}

// ParseCEEIntegration désérialise le champ CEEIntegration d'un devis.
// Par défaut la prime n'apparaît pas.
func ParseCEEIntegration(raw []byte) CEEIntegration {
	integ := CEEIntegration{Mode: models.CEEModeNone}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &integ)
	}
	if integ.Mode == "" {
		integ.Mode = models.CEEModeNone
	}
	return integ
}

// ReconcileTotals recalcule tous les montants persistés du devis depuis
// le document de lignes, puis applique la prime CEE selon le mode
// d'intégration. Après appel :
//
//	TotalTVA = round2(TotalHT × TVATaux/100)
//	TotalTTC = TotalHT + TotalTVA
//	ResteAPayerHT = TotalTTC − prime déduite (0 hors mode deduction)
//
// Les TVA par ligne restent visibles dans LignesData mais le montant
// global est assis sur le taux unique du devis.
func ReconcileTotals(devis *models.Devis, doc *Document) error {
	doc.Recompute()
	if devis.TVATaux == 0 {
		devis.TVATaux = TVATauxDefaut
	}

	devis.TotalHT = doc.TotalHT()
	devis.TotalTVA = round2(devis.TotalHT * devis.TVATaux / 100)
	devis.TotalTTC = round2(devis.TotalHT + devis.TotalTVA)
	devis.MargeTotale = doc.MargeTotale()

	integ := ParseCEEIntegration(devis.CEEIntegration)
	switch integ.Mode {
	case models.CEEModeDeduction:
		devis.ResteAPayerHT = round2(devis.TotalTTC - devis.CEEMontantTotal)
	default:
		// La prime reste informative : rien n'est déduit du TTC.
		devis.ResteAPayerHT = devis.TotalTTC
	}

	raw, err := doc.Marshal()
	if err != nil {
		return err
	}
	devis.LignesData = raw
	return nil
}

// ApplyCEE reporte un résultat de calcul sur le devis et persiste
// l'instantané des paramètres.
func ApplyCEE(devis *models.Devis, res CEEResult, integ CEEIntegration) error {
	devis.CEEKWhCumac = res.KWhCumac
	devis.CEEPrixUnitaire = res.TarifKWhCumac
	devis.CEEMontantTotal = res.PrimeEstimee

	calc, err := json.Marshal(res)
	if err != nil {
		return err
	}
	devis.CEECalculation = calc

	rawInteg, err := json.Marshal(integ)
	if err != nil {
		return err
	}
	devis.CEEIntegration = rawInteg
	return nil
}

// ClearCEE retire toute trace de l'opération CEE du devis.
func ClearCEE(devis *models.Devis) {
	devis.CEEKWhCumac = 0
	devis.CEEPrixUnitaire = 0
	devis.CEEMontantTotal = 0
	devis.ResteAPayerHT = devis.TotalTTC
	devis.CEECalculation = nil
	devis.CEEIntegration = nil
}
