package services

// Valeurs proposées par défaut à la création d'un devis. Toutes
// restent modifiables ligne à ligne dans le formulaire.
const (
	OperateurCEE = "OXA Groupe"

	DefautObjet             = "Mise en place d'un système de mesurage IPE"
	DefautModalitesPaiement = "30% à la commande, 70% à la livraison"
	DefautGarantie          = "2 ans pièces et main d'œuvre"
	DefautPenalites         = "Pénalités de retard : 0,1% par jour de retard"
	DefautClauseJuridique   = "Tout litige relève de la compétence du Tribunal de Commerce de Paris"
	DefautDelais            = "4 à 6 semaines après validation du devis"

	TVATauxDefaut = 20.0
)
