package view

import (
	"testing"
	"time"
)

func TestFormatEuro(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0,00 €"},
		{5.88, "5,88 €"},
		{12000, "12 000,00 €"},
		{14394.12, "14 394,12 €"},
		{1234567.5, "1 234 567,50 €"},
		{-250.4, "-250,40 €"},
	}
	for _, c := range cases {
		if got := FormatEuro(c.in); got != c.want {
			t.Errorf("FormatEuro(%v) = %q, attendu %q", c.in, got, c.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 6, 1, 15, 4, 0, 0, time.UTC)
	if got := FormatDate(d); got != "01/06/2024" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatDate(time.Time{}); got != "" {
		t.Errorf("date zéro = %q, attendu vide", got)
	}
}
