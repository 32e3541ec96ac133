package plan

import (
	"fmt"

	"prato-pronto/internal/diet"
	"prato-pronto/internal/ingredient"
)

// ErrNoDishes signals that sanitization removed every dish: the caller must
// substitute a fallback, never return an empty plan.
var ErrNoDishes = fmt.Errorf("sanitization removed every dish")

// banReason says which gate removed an ingredient. Gates are checked in strict
// precedence order and the first match is the one recorded.
type banReason int

const (
	banNone banReason = iota
	banExclusion
	banDiet
	banAvailability
)

// Sanitize filters every ingredient in every dish and in the shopping list
// against the user's exclusions, the diet rule set and, when new ingredients
// are disallowed, the available-ingredient inventory. Dishes left without
// ingredients are dropped. The input plan is not modified.
func Sanitize(
	p *MealPlan,
	exclusions []string,
	rules diet.RuleSet,
	availableIngredients []string,
	allowNewIngredients bool,
) (*MealPlan, []string, error) {
	out := *p
	out.Dishes = nil
	out.ShoppingList = nil
	var adjustments []string

	for _, dish := range p.Dishes {
		kept := make([]Ingredient, 0, len(dish.Ingredients))
		for _, ing := range dish.Ingredients {
			reason := checkIngredient(ing.Name, exclusions, rules, availableIngredients, allowNewIngredients)
			if reason == banNone {
				kept = append(kept, ing)
				continue
			}
			adjustments = append(adjustments, removalMessage(ing.Name, dish.Name, reason))
		}

		if len(kept) == 0 {
			adjustments = append(adjustments, fmt.Sprintf("Prato '%s' removido do plano por ficar sem ingredientes válidos", dish.Name))
			continue
		}

		dish.Ingredients = kept
		out.Dishes = append(out.Dishes, dish)
	}

	for _, item := range p.ShoppingList {
		reason := checkIngredient(item.Item, exclusions, rules, availableIngredients, allowNewIngredients)
		if reason == banNone {
			out.ShoppingList = append(out.ShoppingList, item)
			continue
		}
		adjustments = append(adjustments, fmt.Sprintf("Item '%s' removido da lista de compras (%s)", item.Item, reasonLabel(reason)))
	}

	if len(out.Dishes) == 0 {
		return nil, adjustments, ErrNoDishes
	}

	return &out, adjustments, nil
}

// checkIngredient applies the three gates in precedence order: user exclusion,
// diet ban, availability. First match wins.
func checkIngredient(
	name string,
	exclusions []string,
	rules diet.RuleSet,
	availableIngredients []string,
	allowNewIngredients bool,
) banReason {
	for _, ex := range exclusions {
		if ex == "" {
			continue
		}
		if ingredient.ContainsFold(name, ex) {
			return banExclusion
		}
	}

	if rules.Bans(name) {
		return banDiet
	}

	if !allowNewIngredients {
		found := false
		for _, avail := range availableIngredients {
			if ingredient.MatchesEitherWay(name, avail) {
				found = true
				break
			}
		}
		if !found {
			return banAvailability
		}
	}

	return banNone
}

func removalMessage(ingredientName, dishName string, reason banReason) string {
	return fmt.Sprintf("Ingrediente '%s' removido de '%s' (%s)", ingredientName, dishName, reasonLabel(reason))
}

func reasonLabel(reason banReason) string {
	switch reason {
	case banExclusion:
		return "exclusão do usuário"
	case banDiet:
		return "restrição da dieta"
	case banAvailability:
		return "não está entre os ingredientes disponíveis"
	default:
		return "motivo desconhecido"
	}
}
