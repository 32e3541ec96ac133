package plan

import (
	"fmt"

	"prato-pronto/internal/ingredient"
)

// stockConstraint is one declared stock amount in its base unit.
type stockConstraint struct {
	name     string
	folded   string
	amount   float64
	baseUnit string
}

// EnforceStock guarantees that no ingredient with declared stock is used, in
// aggregate across all dishes, beyond what the user reported having. Usage in
// excess is scaled down proportionally over every occurrence, preserving the
// relative composition of each dish. Calorie figures of affected dishes are
// recomputed afterwards, never left stale.
func EnforceStock(p *MealPlan, stock []ingredient.StockEntry) (*MealPlan, []string) {
	constraints := buildConstraints(stock)
	if len(constraints) == 0 {
		return p, nil
	}

	out := *p
	out.Dishes = cloneDishes(p.Dishes)
	var adjustments []string
	touched := false

	for _, c := range constraints {
		total := 0.0
		for _, dish := range out.Dishes {
			for _, ing := range dish.Ingredients {
				if !matchesStock(ing.Name, c) {
					continue
				}
				base, baseUnit, ok := ingredient.ToBase(ing.Quantity, ing.Unit)
				if !ok || baseUnit != c.baseUnit {
					continue
				}
				total += base
			}
		}

		if total <= c.amount || total == 0 {
			continue
		}

		factor := c.amount / total
		for di := range out.Dishes {
			for ii := range out.Dishes[di].Ingredients {
				ing := &out.Dishes[di].Ingredients[ii]
				if !matchesStock(ing.Name, c) {
					continue
				}
				_, baseUnit, ok := ingredient.ToBase(ing.Quantity, ing.Unit)
				if !ok || baseUnit != c.baseUnit {
					continue
				}
				ing.Quantity *= factor
			}
		}
		touched = true
		adjustments = append(adjustments, fmt.Sprintf(
			"Quantidade de '%s' reduzida para caber no estoque disponível (fator %.2f)", c.name, factor))
	}

	if touched {
		// quantities changed, so every derived calorie figure is recomputed
		recomputeCalories(&out)
	}

	return &out, adjustments
}

func buildConstraints(stock []ingredient.StockEntry) []stockConstraint {
	var constraints []stockConstraint
	for _, entry := range stock {
		// entries without a declared quantity impose no constraint
		if entry.Quantity == nil {
			continue
		}
		base, baseUnit, ok := ingredient.ToBase(*entry.Quantity, entry.Unit)
		if !ok {
			continue
		}
		constraints = append(constraints, stockConstraint{
			name:     entry.Name,
			folded:   ingredient.Fold(entry.Name),
			amount:   base,
			baseUnit: baseUnit,
		})
	}
	return constraints
}

func matchesStock(name string, c stockConstraint) bool {
	return ingredient.MatchesEitherWay(name, c.folded)
}

func cloneDishes(dishes []Dish) []Dish {
	out := make([]Dish, len(dishes))
	copy(out, dishes)
	for i := range out {
		ings := make([]Ingredient, len(out[i].Ingredients))
		copy(ings, out[i].Ingredients)
		out[i].Ingredients = ings
	}
	return out
}
