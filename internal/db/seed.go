package db

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/oxagroupe/oxa-crm/internal/models"
	"github.com/oxagroupe/oxa-crm/internal/services"
)

// SeedDemo charge le jeu de données de démonstration : un compte, un
// client industriel, un article catalogue et un devis CEE complet.
// Idempotent, relancer ne duplique rien.
func SeedDemo(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := models.User{
		Email:        "demo@oxagroupe.fr",
		PasswordHash: string(hash),
		Nom:          "Dupont",
		Prenom:       "Marie",
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	client := models.Client{
		Nom:              "Industrie Verte SA",
		SIRET:            "83219847600014",
		Email:            "contact@industrie-verte.fr",
		Telephone:        "04 72 00 11 22",
		Adresse:          "14 rue des Frigoristes",
		Ville:            "Lyon",
		CodePostal:       "69007",
		Pays:             "France",
		ContactPrincipal: "Paul Martin",
		CommercialID:     user.ID,
	}
	if err := db.Create(&client).Error; err != nil {
		return err
	}

	article := models.Article{
		Nom:         "Récupérateur de chaleur",
		Description: "Récupérateur de chaleur sur groupe de production de froid",
		Type:        models.ArticleTypeMateriel,
		PrixAchat:   8000,
		PrixVente:   12000,
		TVA:         20,
		Unite:       "unité",
	}
	if err := db.Create(&article).Error; err != nil {
		return err
	}

	doc := &services.Document{}
	doc.AddZone("z1", "Zone production")
	if err := doc.AddLigne("z1", services.LigneFromArticle("l1", article, 1)); err != nil {
		return err
	}

	res, err := services.ComputeCEE(services.CEEParams{
		ProfilFonctionnement: "3x8h_24_7",
		DureeEngagement:      3,
		PuissanceKW:          250,
		TarifKWhCumac:        services.TarifCEEDefaut,
	})
	if err != nil {
		return err
	}

	devis := models.Devis{
		Numero:               "OXA-2024-IND-001",
		DateDevis:            time.Now(),
		DateCreation:         time.Now(),
		Objet:                services.DefautObjet,
		DescriptionOperation: "Récupération de chaleur fatale sur le groupe froid de l'atelier",
		ClientID:             client.ID,
		CommercialID:         user.ID,
		Type:                 models.DevisTypeCEE,
		Statut:               models.DevisStatutEnvoye,
		TVATaux:              20,
		ModalitesPaiement:    services.DefautModalitesPaiement,
		Garantie:             services.DefautGarantie,
		Penalites:            services.DefautPenalites,
		ClauseJuridique:      services.DefautClauseJuridique,
		Delais:               services.DefautDelais,
	}
	if err := services.ApplyCEE(&devis, res, services.CEEIntegration{Mode: models.CEEModeDeduction, AfficherBloc: true}); err != nil {
		return err
	}
	if err := services.ReconcileTotals(&devis, doc); err != nil {
		return err
	}
	if err := db.Create(&devis).Error; err != nil {
		return err
	}

	logger := services.HistoryLogger{DB: db}
	return logger.Log(devis.ID, user, models.HistoryActionCreation, "Devis créé", nil)
}
