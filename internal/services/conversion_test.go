package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oxagroupe/oxa-crm/internal/models"
)

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Client{}, &models.Devis{}, &models.Commande{}, &models.Facture{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func devisAccepte(t *testing.T, db *gorm.DB) *models.Devis {
	t.Helper()
	client := models.Client{Nom: "Industrie Verte SA", Ville: "Lyon"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatal(err)
	}
	devis := models.Devis{
		Numero:   NextNumero(PrefixDevis),
		ClientID: client.ID,
		Statut:   models.DevisStatutAccepte,
		TotalHT:  12000,
		TotalTVA: 2400,
		TotalTTC: 14400,
		TVATaux:  20,
	}
	if err := db.Create(&devis).Error; err != nil {
		t.Fatal(err)
	}
	return &devis
}

func TestConvertDevisToCommande(t *testing.T) {
	db := openTestDB(t, "conv_cmd")
	devis := devisAccepte(t, db)

	cmd, err := ConvertDevisToCommande(db, devis)
	if err != nil {
		t.Fatalf("conversion: %v", err)
	}
	if cmd.ClientID != devis.ClientID || cmd.DevisID != devis.ID {
		t.Errorf("liens incorrects: %+v", cmd)
	}
	if cmd.Statut != models.CommandeStatutAProgrammer {
		t.Errorf("statut initial = %q", cmd.Statut)
	}
	if cmd.TotalHT != 12000 || cmd.TotalTTC != 14400 {
		t.Errorf("montants non repris: HT=%v TTC=%v", cmd.TotalHT, cmd.TotalTTC)
	}

	var stored models.Devis
	if err := db.First(&stored, devis.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.ConvertedToCommandeID != cmd.ID {
		t.Errorf("devis non relié à la commande")
	}
}

func TestConvertDevisToCommandeIdempotent(t *testing.T) {
	db := openTestDB(t, "conv_cmd_idem")
	devis := devisAccepte(t, db)

	first, err := ConvertDevisToCommande(db, devis)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ConvertDevisToCommande(db, devis)
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Errorf("seconde conversion a créé une autre commande: %d vs %d", first.ID, second.ID)
	}

	var count int64
	db.Model(&models.Commande{}).Count(&count)
	if count != 1 {
		t.Errorf("commandes en base = %d, attendu 1", count)
	}
}

func TestConvertDevisToFacture(t *testing.T) {
	db := openTestDB(t, "conv_fac")
	devis := devisAccepte(t, db)

	fac, err := ConvertDevisToFacture(db, devis)
	if err != nil {
		t.Fatalf("conversion: %v", err)
	}
	if fac.MontantHT != 12000 || fac.MontantTTC != 14400 {
		t.Errorf("montants non repris: %+v", fac)
	}
	if fac.Statut != models.FactureStatutEnAttente {
		t.Errorf("statut initial = %q", fac.Statut)
	}
	if !fac.DateEcheance.After(fac.DateEmission) {
		t.Errorf("échéance antérieure à l'émission")
	}
}

func TestConvertDevisNonAccepteRefuse(t *testing.T) {
	db := openTestDB(t, "conv_refus")
	devis := devisAccepte(t, db)
	devis.Statut = models.DevisStatutEnvoye
	if err := db.Save(devis).Error; err != nil {
		t.Fatal(err)
	}

	if _, err := ConvertDevisToCommande(db, devis); err == nil {
		t.Error("conversion d'un devis non accepté autorisée")
	}
	if _, err := ConvertDevisToFacture(db, devis); err == nil {
		t.Error("facturation d'un devis non accepté autorisée")
	}

	var count int64
	db.Model(&models.Commande{}).Count(&count)
	if count != 0 {
		t.Errorf("commande créée malgré le refus")
	}
}
