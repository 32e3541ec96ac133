// Package diet maps a requested diet label onto a rule set of forbidden
// ingredient terms. Built-in diets resolve locally; anything else goes through
// an external knowledge lookup that must say "unknown" rather than invent
// rules. Unknown diets never restrict a plan.
package diet

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"prato-pronto/internal/ingredient"
	"prato-pronto/internal/llm"
	"prato-pronto/internal/shared"
)

// Status classifies how a diet label was resolved.
type Status string

const (
	StatusCanonical  Status = "canonical"
	StatusRecognized Status = "recognized"
	StatusUnknown    Status = "unknown"
)

// RuleSet is the resolved restriction set for one generation call.
type RuleSet struct {
	Status          Status
	Label           string
	ForbiddenTerms  []string
	GuidelineTokens []string
}

// Restricts reports whether the rule set should filter ingredients at all.
func (r RuleSet) Restricts() bool {
	return r.Status != StatusUnknown && len(r.ForbiddenTerms) > 0
}

// Bans reports whether the rule set forbids the ingredient name. Explicit
// substitutes ("leite vegetal") are never banned.
func (r RuleSet) Bans(name string) bool {
	if r.Status == StatusUnknown || IsExemptSubstitute(name) {
		return false
	}
	for _, term := range r.ForbiddenTerms {
		if term == "" {
			continue
		}
		if ingredient.ContainsFold(name, term) {
			return true
		}
	}
	return false
}

// canonicalDiet is a built-in diet with a hand-authored forbidden-term list.
type canonicalDiet struct {
	label     string
	forbidden []string
}

var canonicalDiets = map[string]canonicalDiet{
	"lowcarb": {
		label:     "low carb",
		forbidden: []string{"arroz", "batata", "pão", "macarrão", "açúcar", "farinha", "massa"},
	},
	"vegana": {
		label:     "vegana",
		forbidden: []string{"carne", "frango", "peixe", "camarão", "ovo", "leite", "queijo", "manteiga", "mel", "presunto", "bacon"},
	},
	"vegetariana": {
		label:     "vegetariana",
		forbidden: []string{"carne", "frango", "peixe", "camarão", "presunto", "bacon"},
	},
	"cetogenica": {
		label:     "cetogênica",
		forbidden: []string{"arroz", "batata", "pão", "macarrão", "açúcar", "farinha", "massa", "feijão", "milho"},
	},
	"semgluten": {
		label:     "sem glúten",
		forbidden: []string{"trigo", "pão", "macarrão", "farinha", "cevada", "centeio", "massa"},
	},
	"semlactose": {
		label:     "sem lactose",
		forbidden: []string{"leite", "queijo", "manteiga", "requeijão", "iogurte", "creme de leite"},
	},
}

// aliases map alternate spellings onto canonical keys.
var aliases = map[string]string{
	"baixocarboidrato": "lowcarb",
	"vegano":           "vegana",
	"vegan":            "vegana",
	"vegetariano":      "vegetariana",
	"vegetarian":       "vegetariana",
	"keto":             "cetogenica",
	"ketogenic":        "cetogenica",
	"glutenfree":       "semgluten",
	"lactosefree":      "semlactose",
}

// substituteExemptions are terms that mark an ingredient as a diet-compliant
// substitution ("leite vegetal", "queijo vegano"). Sanitization must not ban
// an ingredient whose name carries one of these, or the plan's own
// substitutions would be rejected.
var substituteExemptions = []string{
	"vegetal",
	"vegano",
	"vegana",
	"sem lactose",
	"sem glúten",
	"soja",
	"tofu",
}

// IsExemptSubstitute reports whether the ingredient name names an explicit
// diet-compliant substitution and is therefore exempt from diet bans.
func IsExemptSubstitute(name string) bool {
	for _, term := range substituteExemptions {
		if ingredient.ContainsFold(name, term) {
			return true
		}
	}
	return false
}

// SubstituteExemptions returns the exemption list, for tests and documentation.
func SubstituteExemptions() []string {
	out := make([]string, len(substituteExemptions))
	copy(out, substituteExemptions)
	return out
}

// collapseLabel folds a label and strips spaces and hyphens so "Low-Carb" and
// "low carb" resolve to the same key.
func collapseLabel(label string) string {
	folded := ingredient.Fold(label)
	folded = strings.ReplaceAll(folded, "-", "")
	folded = strings.ReplaceAll(folded, " ", "")
	return folded
}

// ResolveCanonical resolves a label against the built-in diet table alone,
// with no external call. The second return is false for labels outside the
// table, which then come back as an unknown rule set.
func ResolveCanonical(label string) (RuleSet, bool) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return RuleSet{Status: StatusUnknown}, false
	}

	key := collapseLabel(trimmed)
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	d, ok := canonicalDiets[key]
	if !ok {
		return RuleSet{Status: StatusUnknown, Label: trimmed}, false
	}
	return RuleSet{
		Status:         StatusCanonical,
		Label:          d.label,
		ForbiddenTerms: d.forbidden,
	}, true
}

// Resolver resolves diet labels, escalating unrecognized ones to an external
// knowledge lookup.
type Resolver struct {
	textGen llm.TextGenerator
}

// NewResolver creates a Resolver. textGen may be nil, in which case
// unrecognized labels resolve to unknown without an external call.
func NewResolver(textGen llm.TextGenerator) *Resolver {
	return &Resolver{textGen: textGen}
}

// Resolve maps a diet label to a RuleSet. It never returns an error: every
// failure path degrades to StatusUnknown, which restricts nothing. The
// returned AgentMeta is nil when no external call was made.
func (r *Resolver) Resolve(ctx context.Context, label string) (RuleSet, *shared.AgentMeta) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return RuleSet{Status: StatusUnknown}, nil
	}

	if rules, ok := ResolveCanonical(trimmed); ok {
		return rules, nil
	}

	if r.textGen == nil {
		return RuleSet{Status: StatusUnknown, Label: trimmed}, nil
	}
	return r.lookup(ctx, trimmed)
}

// lookupResponse is the JSON contract with the diet-knowledge backend.
type lookupResponse struct {
	IsKnown         bool     `json:"is_known"`
	NormalizedLabel string   `json:"normalized_label"`
	Rules           []string `json:"rules"`
}

func (r *Resolver) lookup(ctx context.Context, label string) (RuleSet, *shared.AgentMeta) {
	start := time.Now()
	prompt := buildLookupPrompt(label)

	resp, err := r.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("diet lookup failed for %q, treating as unknown: %v", label, err)
		return RuleSet{Status: StatusUnknown, Label: label}, nil
	}

	meta := &shared.AgentMeta{
		AgentName: "DietLookup",
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}

	var parsed lookupResponse
	if err := json.Unmarshal([]byte(llm.ExtractJSON(resp.Content)), &parsed); err != nil {
		log.Printf("diet lookup returned unparseable response for %q, treating as unknown: %v", label, err)
		return RuleSet{Status: StatusUnknown, Label: label}, meta
	}

	// Fail closed: a "known" claim without rules is treated as unknown.
	if !parsed.IsKnown || len(parsed.Rules) == 0 {
		return RuleSet{Status: StatusUnknown, Label: label}, meta
	}

	// A recognized label that names a canonical diet reuses the canonical terms.
	normalizedKey := collapseLabel(parsed.NormalizedLabel)
	if alias, ok := aliases[normalizedKey]; ok {
		normalizedKey = alias
	}
	if diet, ok := canonicalDiets[normalizedKey]; ok {
		return RuleSet{
			Status:         StatusCanonical,
			Label:          diet.label,
			ForbiddenTerms: diet.forbidden,
		}, meta
	}

	tokens := tokenizeRules(parsed.Rules)
	return RuleSet{
		Status:          StatusRecognized,
		Label:           strings.TrimSpace(parsed.NormalizedLabel),
		ForbiddenTerms:  tokens,
		GuidelineTokens: tokens,
	}, meta
}

func buildLookupPrompt(label string) string {
	return fmt.Sprintf(`Você é um consultor de dietas. Responda APENAS com um objeto JSON, sem nenhum outro texto.

Um usuário pediu um plano alimentar seguindo a dieta: "%s"

Se essa dieta for real e reconhecida, responda:
{"is_known": true, "normalized_label": "nome normalizado da dieta", "rules": ["alimento ou grupo proibido 1", "alimento proibido 2", ...]}

Se você não tiver certeza de que essa dieta existe, responda exatamente:
{"is_known": false}

NUNCA invente regras para dietas que você não reconhece. É melhor responder is_known:false do que fornecer orientações não verificadas.`, label)
}

// tokenizeRules splits rule strings into lowercase substring-match terms,
// dropping tokens shorter than 3 characters.
func tokenizeRules(rules []string) []string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, rule := range rules {
		fields := strings.FieldsFunc(strings.ToLower(rule), func(r rune) bool {
			return !unicode.IsLetter(r)
		})
		for _, f := range fields {
			if len([]rune(f)) < 3 {
				continue
			}
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			tokens = append(tokens, f)
		}
	}
	return tokens
}
