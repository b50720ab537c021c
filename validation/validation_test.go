package validation

import "testing"

func TestRequired(t *testing.T) {
	v := Violations{}
	v.Required("objet", "  ")
	if v["objet"] != "required" {
		t.Fatalf("expected required violation, got %v", v)
	}
	v = Violations{}
	v.Required("objet", "Mise en place")
	if !v.Empty() {
		t.Fatalf("expected no violation, got %v", v)
	}
}

func TestAddKeepsFirstViolation(t *testing.T) {
	v := Violations{}
	v.Add("quantite", "must_be_positive")
	v.Add("quantite", "out_of_range")
	if v["quantite"] != "must_be_positive" {
		t.Fatalf("expected first violation to win, got %s", v["quantite"])
	}
}

func TestNumericValidators(t *testing.T) {
	v := Violations{}
	v.PositiveFloat("quantite", 0)
	v.NonNegativeFloat("prix_unitaire", -1)
	v.Percentage("tva", 120)
	if len(v) != 3 {
		t.Fatalf("expected 3 violations, got %v", v)
	}
	v = Violations{}
	v.PositiveFloat("quantite", 2)
	v.NonNegativeFloat("prix_unitaire", 0)
	v.Percentage("tva", 20)
	if !v.Empty() {
		t.Fatalf("expected no violations, got %v", v)
	}
}
