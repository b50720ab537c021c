package services

import (
	"fmt"

	"github.com/oxagroupe/oxa-crm/internal/models"
)

// Effets déclenchés par un changement de statut.
const (
	EffectNone             = ""
	EffectConversionPrompt = "conversion_prompt"
)

// Table des transitions de devis. Le cycle est permissif : un devis
// refusé peut être renvoyé, un devis expiré repassé en brouillon.
var devisTransitions = map[string][]string{
	models.DevisStatutBrouillon: {models.DevisStatutEnvoye, models.DevisStatutAccepte, models.DevisStatutRefuse, models.DevisStatutExpire},
	models.DevisStatutEnvoye:    {models.DevisStatutBrouillon, models.DevisStatutAccepte, models.DevisStatutRefuse, models.DevisStatutExpire},
	models.DevisStatutAccepte:   {models.DevisStatutBrouillon, models.DevisStatutEnvoye, models.DevisStatutRefuse, models.DevisStatutExpire},
	models.DevisStatutRefuse:    {models.DevisStatutBrouillon, models.DevisStatutEnvoye, models.DevisStatutAccepte, models.DevisStatutExpire},
	models.DevisStatutExpire:    {models.DevisStatutBrouillon, models.DevisStatutEnvoye, models.DevisStatutAccepte, models.DevisStatutRefuse},
}

// Le statut d'une commande est avancé librement par le terrain : seul
// un statut hors liste est refusé, aucun ordre n'est imposé.
var commandeStatuts = []string{
	models.CommandeStatutAProgrammer,
	models.CommandeStatutProgrammee,
	models.CommandeStatutEnCoursInstal,
	models.CommandeStatutInstalle,
	models.CommandeStatutMiseEnService,
	models.CommandeStatutTermine,
	models.CommandeStatutSuspendu,
	models.CommandeStatutReporte,
}

var commandeTransitions = permissive(commandeStatuts)

func permissive(statuts []string) map[string][]string {
	table := make(map[string][]string, len(statuts))
	for _, from := range statuts {
		targets := make([]string, 0, len(statuts)-1)
		for _, to := range statuts {
			if to != from {
				targets = append(targets, to)
			}
		}
		table[from] = targets
	}
	return table
}

func allowed(table map[string][]string, from, to string) (bool, error) {
	targets, ok := table[from]
	if !ok {
		return false, fmt.Errorf("statut inconnu: %s", from)
	}
	if _, known := table[to]; !known {
		return false, fmt.Errorf("statut inconnu: %s", to)
	}
	for _, t := range targets {
		if t == to {
			return true, nil
		}
	}
	return false, nil
}

// TransitionDevis valide le passage from→to et retourne l'effet à
// déclencher côté appelant. Entrer dans "accepte" demande à
// l'utilisateur s'il veut convertir le devis ; refuser la conversion
// ne persiste rien d'autre que le statut.
func TransitionDevis(from, to string) (effect string, err error) {
	if from == to {
		return EffectNone, nil
	}
	ok, err := allowed(devisTransitions, from, to)
	if err != nil {
		return EffectNone, err
	}
	if !ok {
		return EffectNone, fmt.Errorf("transition interdite: %s → %s", from, to)
	}
	if to == models.DevisStatutAccepte {
		return EffectConversionPrompt, nil
	}
	return EffectNone, nil
}

// TransitionCommande valide le passage from→to du cycle d'installation.
func TransitionCommande(from, to string) error {
	if from == to {
		return nil
	}
	ok, err := allowed(commandeTransitions, from, to)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("transition interdite: %s → %s", from, to)
	}
	return nil
}
