package i18n

import "strings"

// French is the product's primary language; English is kept for the few
// non-French users of the back office.
const defaultLang = "fr"

var translations = map[string]map[string]string{
	"fr": {
		"required":               "Requis",
		"must_be_positive":       "Doit être supérieur à 0",
		"must_not_be_negative":   "Ne peut pas être négatif",
		"out_of_range":           "Valeur hors limites",
		"validation_failed":      "Certains champs contiennent des erreurs",
		"unknown_profile":        "Profil de fonctionnement inconnu",
		"unknown_duration":       "Durée de contrat inconnue",
		"remote_error":           "Erreur de communication avec la base de données",
		"devis_created":          "Devis créé avec succès",
		"devis_updated":          "Devis mis à jour avec succès",
		"devis_deleted":          "Devis supprimé",
		"status_changed":         "Statut changé avec succès",
		"conversion_declined":    "Décider plus tard",
		"commande_created":       "Commande créée avec succès",
		"facture_created":        "Facture créée avec succès",
		"client_created":         "Client créé avec succès",
		"client_deleted":         "Client supprimé",
		"unauthorized":           "Authentification requise",
		"conflict_overwrite":     "Le devis a été modifié par un autre utilisateur ; vos changements ont écrasé les siens",
		"nav_clients":            "Clients",
		"nav_articles":           "Articles",
		"nav_devis":              "Devis",
		"nav_commandes":          "Commandes",
		"nav_factures":           "Factures",
		"logout":                 "Déconnexion",
		"login_title":            "Connexion",
		"login_submit":           "Se connecter",
		"signup_title":           "Créer un compte",
		"signup_submit":          "Créer le compte",
		"signup_link":            "Pas encore de compte ?",
		"password":               "Mot de passe",
		"prenom":                 "Prénom",
		"nom":                    "Nom",
		"dashboard_title":        "Tableau de bord",
		"devis_en_attente":       "Devis en attente",
		"ca_mois":                "CA du mois (HT)",
		"ca_annee":               "CA de l'année (HT)",
		"prime_cee_signee":       "Primes CEE signées",
		"search":                 "Rechercher",
		"filter":                 "Filtrer",
		"ville":                  "Ville",
		"contact":                "Contact",
		"telephone":              "Téléphone",
		"adresse":                "Adresse",
		"commercial":             "Commercial",
		"voir_devis_client":      "Voir les devis de ce client",
		"confirm_delete":         "Supprimer définitivement ?",
		"delete":                 "Supprimer",
		"type":                   "Type",
		"prix_achat":             "Prix d'achat",
		"prix_vente":             "Prix de vente",
		"unite":                  "Unité",
		"numero":                 "Numéro",
		"date":                   "Date",
		"client":                 "Client",
		"statut":                 "Statut",
		"tous_statuts":           "Tous les statuts",
		"statut_brouillon":       "Brouillon",
		"statut_envoye":          "Envoyé",
		"statut_accepte":         "Accepté",
		"statut_refuse":          "Refusé",
		"statut_expire":          "Expiré",
		"prime_cee":              "Prime CEE estimée",
		"reste_a_payer":          "Net à payer après prime",
		"telecharger_pdf":        "Télécharger le PDF",
		"conditions":             "Conditions",
		"installation_prevue":    "Installation prévue",
		"installation_reelle":    "Installation réelle",
		"equipe":                 "Équipe",
		"technicien":             "Technicien",
		"emission":               "Émission",
		"echeance":               "Échéance",
	},
	"en": {
		"required":               "Required",
		"must_be_positive":       "Must be greater than 0",
		"must_not_be_negative":   "Must not be negative",
		"out_of_range":           "Value out of range",
		"validation_failed":      "Some fields contain errors",
		"unknown_profile":        "Unknown operating profile",
		"unknown_duration":       "Unknown contract duration",
		"remote_error":           "Database communication error",
		"devis_created":          "Quote created",
		"devis_updated":          "Quote updated",
		"devis_deleted":          "Quote deleted",
		"status_changed":         "Status changed",
		"conversion_declined":    "Decide later",
		"commande_created":       "Order created",
		"facture_created":        "Invoice created",
		"client_created":         "Client created",
		"client_deleted":         "Client deleted",
		"unauthorized":           "Authentication required",
		"conflict_overwrite":     "The quote was modified by another user; your changes overwrote theirs",
		"nav_clients":            "Clients",
		"nav_articles":           "Items",
		"nav_devis":              "Quotes",
		"nav_commandes":          "Orders",
		"nav_factures":           "Invoices",
		"logout":                 "Log out",
		"login_title":            "Sign in",
		"login_submit":           "Sign in",
		"signup_title":           "Create an account",
		"signup_submit":          "Create account",
		"signup_link":            "No account yet?",
		"password":               "Password",
		"prenom":                 "First name",
		"nom":                    "Last name",
		"dashboard_title":        "Dashboard",
		"devis_en_attente":       "Pending quotes",
		"ca_mois":                "Monthly revenue (excl. VAT)",
		"ca_annee":               "Yearly revenue (excl. VAT)",
		"prime_cee_signee":       "Signed CEE subsidies",
		"search":                 "Search",
		"filter":                 "Filter",
		"ville":                  "City",
		"contact":                "Contact",
		"telephone":              "Phone",
		"adresse":                "Address",
		"commercial":             "Sales rep",
		"voir_devis_client":      "View this client's quotes",
		"confirm_delete":         "Delete permanently?",
		"delete":                 "Delete",
		"type":                   "Type",
		"prix_achat":             "Purchase price",
		"prix_vente":             "Selling price",
		"unite":                  "Unit",
		"numero":                 "Number",
		"date":                   "Date",
		"client":                 "Client",
		"statut":                 "Status",
		"tous_statuts":           "All statuses",
		"statut_brouillon":       "Draft",
		"statut_envoye":          "Sent",
		"statut_accepte":         "Accepted",
		"statut_refuse":          "Rejected",
		"statut_expire":          "Expired",
		"prime_cee":              "Estimated CEE subsidy",
		"reste_a_payer":          "Net payable after subsidy",
		"telecharger_pdf":        "Download PDF",
		"conditions":             "Terms",
		"installation_prevue":    "Planned installation",
		"installation_reelle":    "Actual installation",
		"equipe":                 "Team",
		"technicien":             "Technician",
		"emission":               "Issued",
		"echeance":               "Due",
	},
}

// DetectLanguage picks a supported language from an Accept-Language header,
// defaulting to French.
func DetectLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		code := strings.ToLower(strings.TrimSpace(part))
		if i := strings.IndexAny(code, "-;"); i >= 0 {
			code = code[:i]
		}
		if _, ok := translations[code]; ok {
			return code
		}
	}
	return defaultLang
}

// T translates a message code for lang. Unknown languages fall back to
// French; unknown codes fall back to the code itself so missing entries
// stay visible instead of blank.
func T(lang, code string) string {
	m, ok := translations[lang]
	if !ok {
		m = translations[defaultLang]
	}
	if s, ok := m[code]; ok {
		return s
	}
	if lang != defaultLang {
		if s, ok := translations[defaultLang][code]; ok {
			return s
		}
	}
	return code
}
