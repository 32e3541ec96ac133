package ingredient

import "strings"

// The engine works with a small closed unit set: g, kg, ml, l and "unidade"
// for countable items. Anything else is left as-is and treated as unconvertible.
const (
	UnitGram       = "g"
	UnitKilogram   = "kg"
	UnitMilliliter = "ml"
	UnitLiter      = "l"
	UnitPiece      = "unidade"
)

// NormalizeUnit maps free-form unit spellings onto the closed set.
func NormalizeUnit(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "g", "gr", "grama", "gramas":
		return UnitGram
	case "kg", "quilo", "quilos":
		return UnitKilogram
	case "ml":
		return UnitMilliliter
	case "l", "litro", "litros":
		return UnitLiter
	case "un", "und", "unid", "unidade", "unidades", "":
		if raw == "" {
			return ""
		}
		return UnitPiece
	default:
		return strings.ToLower(strings.TrimSpace(raw))
	}
}

// ToBase converts a quantity to its base unit: grams for mass, milliliters for
// volume. The second return names the base ("g", "ml" or "unidade"); ok is
// false for units with no declared conversion, which are left unconstrained.
func ToBase(quantity float64, unit string) (float64, string, bool) {
	switch NormalizeUnit(unit) {
	case UnitGram:
		return quantity, UnitGram, true
	case UnitKilogram:
		return quantity * 1000, UnitGram, true
	case UnitMilliliter:
		return quantity, UnitMilliliter, true
	case UnitLiter:
		return quantity * 1000, UnitMilliliter, true
	case UnitPiece:
		return quantity, UnitPiece, true
	default:
		return quantity, "", false
	}
}

// IsPiece reports whether the unit denotes a discrete count.
func IsPiece(unit string) bool {
	return NormalizeUnit(unit) == UnitPiece
}
