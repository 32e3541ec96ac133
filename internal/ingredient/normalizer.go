package ingredient

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StockEntry is one parsed inventory item. Quantity is nil when the user gave
// only a name, in which case the entry imposes no stock constraint.
type StockEntry struct {
	Name     string
	Quantity *float64
	Unit     string
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases a name and strips diacritics so "Pão" and "pao" compare equal.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// ContainsFold reports whether needle occurs in haystack, ignoring case and accents.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}

// MatchesEitherWay reports a substring match in either direction, the fuzziness
// used for availability checks ("frango" matches "peito de frango" and vice versa).
func MatchesEitherWay(a, b string) bool {
	fa, fb := Fold(a), Fold(b)
	if fa == "" || fb == "" {
		return false
	}
	return strings.Contains(fa, fb) || strings.Contains(fb, fa)
}

// itemPattern captures "<qty> <unit>? de? <name>" with decimal comma or point.
var itemPattern = regexp.MustCompile(`^\s*(\d+(?:[.,]\d+)?)\s*(?:(unidades?|unid|und|un|gramas?|gr|kg|g|ml|litros?|l)\b)?\.?\s*(?:de\s+)?(.+)$`)

// Parse turns a free-text inventory line ("2kg de frango", "1,5 l leite",
// "tomate") into a StockEntry. Bare names come back with a nil quantity.
func Parse(raw string) StockEntry {
	trimmed := strings.TrimSpace(raw)
	m := itemPattern.FindStringSubmatch(strings.ToLower(trimmed))
	if m == nil {
		return StockEntry{Name: trimmed}
	}

	qty, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil || qty < 0 {
		return StockEntry{Name: trimmed}
	}

	name := strings.TrimSpace(m[3])
	if name == "" {
		return StockEntry{Name: trimmed}
	}

	// a count with no unit ("3 cenouras") is a declared stock of discrete items
	unit := NormalizeUnit(m[2])
	if unit == "" {
		unit = UnitPiece
	}

	return StockEntry{
		Name:     name,
		Quantity: &qty,
		Unit:     unit,
	}
}

// ParseAll parses every line of a caller-supplied inventory.
func ParseAll(raw []string) []StockEntry {
	entries := make([]StockEntry, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		entries = append(entries, Parse(r))
	}
	return entries
}

// Names returns just the ingredient names of the parsed entries.
func Names(entries []StockEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}
