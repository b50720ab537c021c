package services

import (
	"testing"

	"github.com/oxagroupe/oxa-crm/internal/models"
)

func TestTransitionDevisAcceptationDeclencheConversion(t *testing.T) {
	effect, err := TransitionDevis(models.DevisStatutEnvoye, models.DevisStatutAccepte)
	if err != nil {
		t.Fatalf("TransitionDevis: %v", err)
	}
	if effect != EffectConversionPrompt {
		t.Errorf("effet = %q, attendu %q", effect, EffectConversionPrompt)
	}
}

func TestTransitionDevisSansEffet(t *testing.T) {
	cases := []struct{ from, to string }{
		{models.DevisStatutBrouillon, models.DevisStatutEnvoye},
		{models.DevisStatutEnvoye, models.DevisStatutRefuse},
		{models.DevisStatutEnvoye, models.DevisStatutExpire},
		{models.DevisStatutRefuse, models.DevisStatutEnvoye},
		{models.DevisStatutExpire, models.DevisStatutBrouillon},
	}
	for _, c := range cases {
		effect, err := TransitionDevis(c.from, c.to)
		if err != nil {
			t.Errorf("%s → %s: %v", c.from, c.to, err)
		}
		if effect != EffectNone {
			t.Errorf("%s → %s: effet inattendu %q", c.from, c.to, effect)
		}
	}
}

func TestTransitionDevisMemeStatut(t *testing.T) {
	effect, err := TransitionDevis(models.DevisStatutAccepte, models.DevisStatutAccepte)
	if err != nil || effect != EffectNone {
		t.Errorf("transition identité: effet=%q err=%v", effect, err)
	}
}

func TestTransitionDevisStatutInconnu(t *testing.T) {
	if _, err := TransitionDevis("archive", models.DevisStatutEnvoye); err == nil {
		t.Error("statut source inconnu accepté")
	}
	if _, err := TransitionDevis(models.DevisStatutEnvoye, "signe"); err == nil {
		t.Error("statut cible inconnu accepté")
	}
}

func TestTransitionCommandePermissive(t *testing.T) {
	// Tout saut entre statuts connus est permis, y compris sauter des
	// étapes du cycle ou rouvrir une commande terminée.
	for _, from := range commandeStatuts {
		for _, to := range commandeStatuts {
			if err := TransitionCommande(from, to); err != nil {
				t.Errorf("%s → %s: %v", from, to, err)
			}
		}
	}
}

func TestTransitionCommandeStatutInconnu(t *testing.T) {
	if err := TransitionCommande("livree", models.CommandeStatutTermine); err == nil {
		t.Error("statut source inconnu accepté")
	}
	if err := TransitionCommande(models.CommandeStatutProgrammee, "livree"); err == nil {
		t.Error("statut cible inconnu accepté")
	}
}
