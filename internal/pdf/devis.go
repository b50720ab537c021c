// Package pdf génère les documents PDF du devis avec maroto/v2.
package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/oxagroupe/oxa-crm/internal/models"
	"github.com/oxagroupe/oxa-crm/internal/services"
	"github.com/oxagroupe/oxa-crm/view"
)

var grisLabel = props.Color{Red: 100, Green: 100, Blue: 100}

// GenerateDevisPDF produit le PDF du devis. Le bloc CEE n'apparaît que
// si l'intégration le demande.
func GenerateDevisPDF(devis *models.Devis, client *models.Client) ([]byte, error) {
	doc, err := services.ParseDocument(devis.LignesData)
	if err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} / {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &grisLabel,
		}).
		Build()

	m := maroto.New(cfg)

	addEntete(m, devis)
	addClient(m, client)
	addLignes(m, doc)
	addTotaux(m, devis)
	integ := services.ParseCEEIntegration(devis.CEEIntegration)
	if integ.AfficherBloc && devis.CEEMontantTotal > 0 {
		addBlocCEE(m, devis, integ)
	}
	addConditions(m, devis)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("génération PDF devis %s: %w", devis.Numero, err)
	}
	return out.GetBytes(), nil
}

func addEntete(m core.Maroto, devis *models.Devis) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New(services.OperateurCEE, props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Left}),
			),
			col.New(6).Add(
				text.New("DEVIS", props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Right}),
			),
		),
		row.New(8).Add(
			col.New(6).Add(
				text.New(devis.Objet, props.Text{Size: 8, Align: align.Left, Color: &grisLabel}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("N° %s du %s", devis.Numero, view.FormatDate(devis.DateDevis)),
					props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
			),
		),
		row.New(3),
	)
}

func addClient(m core.Maroto, client *models.Client) {
	if client == nil {
		return
	}
	adresse := fmt.Sprintf("%s, %s %s", client.Adresse, client.CodePostal, client.Ville)
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New("CLIENT", props.Text{Size: 7, Style: fontstyle.Bold, Color: &grisLabel}),
			),
		),
		row.New(6).Add(
			col.New(12).Add(
				text.New(client.Nom, props.Text{Size: 10, Style: fontstyle.Bold}),
			),
		),
		row.New(5).Add(
			col.New(12).Add(
				text.New(adresse, props.Text{Size: 8}),
			),
		),
		row.New(5).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("SIRET %s - Contact : %s", client.SIRET, client.ContactPrincipal), props.Text{Size: 8, Color: &grisLabel}),
			),
		),
		row.New(4),
	)
}

func addLignes(m core.Maroto, doc *services.Document) {
	header := props.Text{Size: 8, Style: fontstyle.Bold}
	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New("Désignation", header)),
			col.New(2).Add(text.New("Quantité", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right})),
			col.New(2).Add(text.New("PU HT", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right})),
			col.New(2).Add(text.New("Total HT", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right})),
		),
	)
	for _, z := range doc.Zones {
		if z.MasquerPDF {
			continue
		}
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(text.New(z.Nom, props.Text{Size: 9, Style: fontstyle.Bold})),
			),
		)
		for _, l := range z.Lignes {
			m.AddRows(
				row.New(5).Add(
					col.New(6).Add(text.New(l.Designation, props.Text{Size: 8})),
					col.New(2).Add(text.New(fmt.Sprintf("%g %s", l.Quantite, l.Unite), props.Text{Size: 8, Align: align.Right})),
					col.New(2).Add(text.New(view.FormatEuro(l.PrixUnitaire), props.Text{Size: 8, Align: align.Right})),
					col.New(2).Add(text.New(view.FormatEuro(l.Total), props.Text{Size: 8, Align: align.Right})),
				),
			)
		}
		m.AddRows(
			row.New(5).Add(
				col.New(10).Add(text.New("Sous-total "+z.Nom, props.Text{Size: 8, Align: align.Right, Color: &grisLabel})),
				col.New(2).Add(text.New(view.FormatEuro(z.SousTotal), props.Text{Size: 8, Align: align.Right})),
			),
		)
	}
	m.AddRows(row.New(3))
}

func addTotaux(m core.Maroto, devis *models.Devis) {
	ligne := func(label, montant string, gras bool) core.Row {
		style := props.Text{Size: 9, Align: align.Right}
		if gras {
			style.Style = fontstyle.Bold
		}
		return row.New(5).Add(
			col.New(10).Add(text.New(label, style)),
			col.New(2).Add(text.New(montant, style)),
		)
	}
	m.AddRows(
		ligne("Total HT", view.FormatEuro(devis.TotalHT), false),
		ligne(fmt.Sprintf("TVA %.0f%%", devis.TVATaux), view.FormatEuro(devis.TotalTVA), false),
		ligne("Total TTC", view.FormatEuro(devis.TotalTTC), true),
	)
}

func addBlocCEE(m core.Maroto, devis *models.Devis, integ services.CEEIntegration) {
	m.AddRows(
		row.New(4),
		row.New(6).Add(
			col.New(12).Add(
				text.New("CERTIFICATS D'ÉCONOMIES D'ÉNERGIE", props.Text{Size: 8, Style: fontstyle.Bold, Color: &grisLabel}),
			),
		),
		row.New(5).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Volume : %.0f kWh cumac - Prime estimée par %s : %s",
					devis.CEEKWhCumac, services.OperateurCEE, view.FormatEuro(devis.CEEMontantTotal)), props.Text{Size: 8}),
			),
		),
	)
	if integ.Mode == models.CEEModeDeduction {
		m.AddRows(
			row.New(6).Add(
				col.New(10).Add(text.New("Net à payer après déduction de la prime", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right})),
				col.New(2).Add(text.New(view.FormatEuro(devis.ResteAPayerHT), props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right})),
			),
		)
	}
}

func addConditions(m core.Maroto, devis *models.Devis) {
	bloc := func(label, contenu string) {
		if contenu == "" {
			return
		}
		m.AddRows(
			row.New(5).Add(
				col.New(12).Add(text.New(label, props.Text{Size: 7, Style: fontstyle.Bold, Color: &grisLabel})),
			),
			row.New(5).Add(
				col.New(12).Add(text.New(contenu, props.Text{Size: 8})),
			),
		)
	}
	m.AddRows(row.New(4))
	bloc("MODALITÉS DE PAIEMENT", devis.ModalitesPaiement)
	bloc("DÉLAIS", devis.Delais)
	bloc("GARANTIE", devis.Garantie)
	bloc("PÉNALITÉS", devis.Penalites)
	bloc("CLAUSE JURIDIQUE", devis.ClauseJuridique)
}
