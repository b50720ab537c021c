package validation

import "strings"

// Violations maps a field name to an error code. It is built during submit
// validation and returned to the client as-is; nothing is thrown mid-edit.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records a violation for field unless one is already present,
// so the first failed check per field wins.
func (v Violations) Add(field, code string) {
	if _, ok := v[field]; !ok {
		v[field] = code
	}
}

// Basic validators
func (v Violations) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
	}
}

func (v Violations) RequiredID(field string, id uint) {
	if id == 0 {
		v.Add(field, "required")
	}
}

func (v Violations) PositiveFloat(field string, val float64) {
	if val <= 0 {
		v.Add(field, "must_be_positive")
	}
}

func (v Violations) NonNegativeFloat(field string, val float64) {
	if val < 0 {
		v.Add(field, "must_not_be_negative")
	}
}

func (v Violations) RangeFloat(field string, val, minVal, maxVal float64) {
	if val < minVal || val > maxVal {
		v.Add(field, "out_of_range")
	}
}

// Percentage validates a VAT-style rate expressed in percent (0..100).
func (v Violations) Percentage(field string, val float64) {
	v.RangeFloat(field, val, 0, 100)
}
