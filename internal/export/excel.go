// Package export produit les fichiers CSV et XLSX des listes.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/oxagroupe/oxa-crm/internal/models"
)

// ClientsXLSX construit le classeur des clients.
func ClientsXLSX(clients []models.Client) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Clients"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Nom", "SIRET", "Contact", "Email", "Téléphone", "Adresse", "Code postal", "Ville", "Pays"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(sheet, "A1", last, style)
	}

	for i, c := range clients {
		values := []any{c.Nom, c.SIRET, c.ContactPrincipal, c.Email, c.Telephone, c.Adresse, c.CodePostal, c.Ville, c.Pays}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// DevisXLSX construit le classeur des devis avec leurs montants.
func DevisXLSX(devisList []models.Devis) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Devis"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Numéro", "Date", "Client", "Type", "Statut", "Total HT", "TVA", "Total TTC", "Marge", "Prime CEE"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(sheet, "A1", last, style)
	}

	for i, d := range devisList {
		values := []any{
			d.Numero,
			d.DateDevis.Format("02/01/2006"),
			d.Client.Nom,
			d.Type,
			d.Statut,
			d.TotalHT,
			d.TotalTVA,
			d.TotalTTC,
			d.MargeTotale,
			d.CEEMontantTotal,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	if len(devisList) > 0 {
		if numStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}); err == nil {
			_ = f.SetCellStyle(sheet, "F2", fmt.Sprintf("J%d", len(devisList)+1), numStyle)
		}
	}
	return f, nil
}
