package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/oxagroupe/oxa-crm/internal/models"
)

// Les montants sont écrits avec la virgule décimale pour un import
// direct dans un tableur configuré en français.
func montantFR(v float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}

// ClientsCSV écrit la liste des clients, séparateur point-virgule.
func ClientsCSV(w io.Writer, clients []models.Client) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write([]string{"Nom", "SIRET", "Contact", "Email", "Téléphone", "Adresse", "Code postal", "Ville", "Pays"}); err != nil {
		return err
	}
	for _, c := range clients {
		if err := cw.Write([]string{c.Nom, c.SIRET, c.ContactPrincipal, c.Email, c.Telephone, c.Adresse, c.CodePostal, c.Ville, c.Pays}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DevisCSV écrit la liste des devis, séparateur point-virgule.
func DevisCSV(w io.Writer, devisList []models.Devis) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write([]string{"Numéro", "Date", "Client", "Type", "Statut", "Total HT", "TVA", "Total TTC", "Marge", "Prime CEE"}); err != nil {
		return err
	}
	for _, d := range devisList {
		rec := []string{
			d.Numero,
			d.DateDevis.Format("02/01/2006"),
			d.Client.Nom,
			d.Type,
			d.Statut,
			montantFR(d.TotalHT),
			montantFR(d.TotalTVA),
			montantFR(d.TotalTTC),
			montantFR(d.MargeTotale),
			montantFR(d.CEEMontantTotal),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
