package services

import (
	"encoding/json"
	"fmt"

	"github.com/oxagroupe/oxa-crm/internal/models"
)

// Ligne : ligne de devis. Les champs copiés du catalogue sont des
// instantanés, un changement d'article ultérieur ne les modifie pas.
type Ligne struct {
	ID           string  `json:"id"`
	ArticleID    uint    `json:"article_id,omitempty"`
	Designation  string  `json:"designation"`
	Description  string  `json:"description,omitempty"`
	Quantite     float64 `json:"quantite"`
	Unite        string  `json:"unite,omitempty"`
	PrixUnitaire float64 `json:"prix_unitaire"`
	PrixAchat    float64 `json:"prix_achat"`
	TVA          float64 `json:"tva"`
	Total        float64 `json:"total"`
	TotalTTC     float64 `json:"total_ttc"`
	Marge        float64 `json:"marge"`
}

// Zone : groupe de lignes (atelier, bâtiment, tranche de travaux).
type Zone struct {
	ID         string  `json:"id"`
	Nom        string  `json:"nom"`
	MasquerPDF bool    `json:"masquer_pdf"`
	Lignes     []Ligne `json:"lignes"`
	SousTotal  float64 `json:"sous_total"`
	SousMarge  float64 `json:"sous_marge"`
}

// Document : agrégat zones + lignes d'un devis. Toute mutation passe
// par les méthodes ci-dessous, qui recalculent immédiatement les
// montants dérivés.
type Document struct {
	Zones []Zone `json:"zones"`
}

// ParseDocument désérialise LignesData. Un contenu vide donne un
// document vide utilisable.
func ParseDocument(raw []byte) (*Document, error) {
	doc := &Document{}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("lignes_data invalide: %w", err)
	}
	doc.Recompute()
	return doc, nil
}

// Marshal sérialise le document, montants dérivés inclus.
func (d *Document) Marshal() ([]byte, error) {
	d.Recompute()
	return json.Marshal(d)
}

func (d *Document) zone(zoneID string) *Zone {
	for i := range d.Zones {
		if d.Zones[i].ID == zoneID {
			return &d.Zones[i]
		}
	}
	return nil
}

// AddZone ajoute une zone vide et retourne son identifiant.
func (d *Document) AddZone(id, nom string) *Zone {
	d.Zones = append(d.Zones, Zone{ID: id, Nom: nom, Lignes: []Ligne{}})
	return &d.Zones[len(d.Zones)-1]
}

// RemoveZone supprime la zone et toutes ses lignes.
func (d *Document) RemoveZone(zoneID string) bool {
	for i := range d.Zones {
		if d.Zones[i].ID == zoneID {
			d.Zones = append(d.Zones[:i], d.Zones[i+1:]...)
			d.Recompute()
			return true
		}
	}
	return false
}

// NewLigne retourne une ligne vierge prête à l'édition (quantité 1,
// prix à zéro).
func NewLigne(id string) Ligne {
	return Ligne{ID: id, Quantite: 1}
}

// AddLigne ajoute une ligne à la zone donnée.
func (d *Document) AddLigne(zoneID string, l Ligne) error {
	z := d.zone(zoneID)
	if z == nil {
		return fmt.Errorf("zone inconnue: %s", zoneID)
	}
	z.Lignes = append(z.Lignes, l)
	d.Recompute()
	return nil
}

// UpdateLigne remplace la ligne identifiée par l.ID dans sa zone.
func (d *Document) UpdateLigne(zoneID string, l Ligne) error {
	z := d.zone(zoneID)
	if z == nil {
		return fmt.Errorf("zone inconnue: %s", zoneID)
	}
	for i := range z.Lignes {
		if z.Lignes[i].ID == l.ID {
			z.Lignes[i] = l
			d.Recompute()
			return nil
		}
	}
	return fmt.Errorf("ligne inconnue: %s", l.ID)
}

// RemoveLigne supprime la ligne de sa zone.
func (d *Document) RemoveLigne(zoneID, ligneID string) bool {
	z := d.zone(zoneID)
	if z == nil {
		return false
	}
	for i := range z.Lignes {
		if z.Lignes[i].ID == ligneID {
			z.Lignes = append(z.Lignes[:i], z.Lignes[i+1:]...)
			d.Recompute()
			return true
		}
	}
	return false
}

// LigneFromArticle construit une ligne en copiant l'instantané de
// l'article du catalogue.
func LigneFromArticle(id string, a models.Article, quantite float64) Ligne {
	return Ligne{
		ID:           id,
		ArticleID:    a.ID,
		Designation:  a.Nom,
		Description:  a.Description,
		Quantite:     quantite,
		Unite:        a.Unite,
		PrixUnitaire: a.PrixVente,
		PrixAchat:    a.PrixAchat,
		TVA:          a.TVA,
	}
}

// Recompute recalcule les montants de chaque ligne puis les sous-totaux
// de zone. Idempotent : relancer sans mutation ne change rien.
func (d *Document) Recompute() {
	for zi := range d.Zones {
		z := &d.Zones[zi]
		z.SousTotal = 0
		z.SousMarge = 0
		for li := range z.Lignes {
			l := &z.Lignes[li]
			l.Total = round2(l.Quantite * l.PrixUnitaire)
			l.TotalTTC = round2(l.Total * (1 + l.TVA/100))
			l.Marge = round2(l.Total - l.Quantite*l.PrixAchat)
			z.SousTotal = round2(z.SousTotal + l.Total)
			z.SousMarge = round2(z.SousMarge + l.Marge)
		}
	}
}

// TotalHT est la somme des totaux de lignes de toutes les zones.
func (d *Document) TotalHT() float64 {
	var t float64
	for _, z := range d.Zones {
		t = round2(t + z.SousTotal)
	}
	return t
}

// MargeTotale est la somme des marges de lignes de toutes les zones.
func (d *Document) MargeTotale() float64 {
	var t float64
	for _, z := range d.Zones {
		t = round2(t + z.SousMarge)
	}
	return t
}

// CountLignes retourne le nombre total de lignes.
func (d *Document) CountLignes() int {
	var n int
	for _, z := range d.Zones {
		n += len(z.Lignes)
	}
	return n
}
