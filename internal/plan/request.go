package plan

import (
	"fmt"
	"strings"

	"prato-pronto/internal/diet"
	"prato-pronto/internal/ingredient"
)

const defaultVarieties = 3

// Request carries every caller-supplied constraint for one generation call.
type Request struct {
	// AvailableIngredients is free text; each entry may carry a quantity and
	// unit ("2kg de frango") or be a bare name ("tomate").
	AvailableIngredients []string
	Servings             int
	Varieties            int
	Exclusions           []string
	Objective            string
	AllowNewIngredients  bool
	Sophistication       string
	SkillLevel           string
	DietType             string
	// CalorieLimit is the per-serving kcal ceiling; 0 disables it.
	CalorieLimit int
	// AvailableTime is the cooking time budget in hours; 0 disables the check.
	AvailableTime float64
	UserFavorites []string
	UserDislikes  []string
}

// ValidationError reports unusable caller input. It is returned before any
// external call is attempted.
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{message: fmt.Sprintf(format, args...)}
}

// Validate fails fast on input no plan could satisfy, so no generative call is
// spent on it. It also applies defaults (variety count).
func (r *Request) Validate() error {
	if r.Servings <= 0 {
		return newValidationError("número de porções deve ser maior que zero, recebido %d", r.Servings)
	}
	if r.Varieties < 0 {
		return newValidationError("número de pratos não pode ser negativo, recebido %d", r.Varieties)
	}
	if r.Varieties == 0 {
		r.Varieties = defaultVarieties
	}

	if !r.AllowNewIngredients {
		// built-in diets are checked here too: a diet that bans the whole
		// inventory is caller error, not something worth a generative call
		rules, _ := diet.ResolveCanonical(r.DietType)
		usable := 0
		for _, raw := range r.AvailableIngredients {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			name := ingredient.Parse(raw).Name
			if matchesAnyExclusion(name, r.Exclusions) || rules.Bans(name) {
				continue
			}
			usable++
		}
		if usable == 0 {
			if rules.Restricts() {
				return newValidationError("nenhum ingrediente disponível pode ser usado: a dieta %s e as exclusões eliminam toda a lista", rules.Label)
			}
			return newValidationError("nenhum ingrediente disponível pode ser usado: a lista está vazia ou todos estão excluídos")
		}
	}

	return nil
}

func matchesAnyExclusion(name string, exclusions []string) bool {
	for _, ex := range exclusions {
		if strings.TrimSpace(ex) == "" {
			continue
		}
		if ingredient.ContainsFold(name, ex) {
			return true
		}
	}
	return false
}
