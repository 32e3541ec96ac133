package plan

import (
	"fmt"
)

// servingSlack is the tolerated excess of generated servings over the request.
// An excess of at most this many meals is left alone; any deficit, or a larger
// excess, triggers exact redistribution.
const servingSlack = 2

// EnforceVarietiesAndServings forces the dish count to equal the requested
// variety count and the serving total to match the requested servings. Variety
// enforcement runs first: serving redistribution needs the final dish count as
// its divisor.
func EnforceVarietiesAndServings(p *MealPlan, requestedVarieties, requestedServings int) (*MealPlan, []string) {
	out := *p
	out.Dishes = cloneDishes(p.Dishes)
	var adjustments []string

	if len(out.Dishes) == 0 || requestedVarieties <= 0 {
		return &out, nil
	}

	synthesized := false
	if len(out.Dishes) < requestedVarieties {
		synthesized = true
		missing := requestedVarieties - len(out.Dishes)
		base := out.Dishes
		for i := 0; i < missing; i++ {
			clone := cloneDish(base[i%len(base)])
			clone.Name = fmt.Sprintf("%s - Variação %d", base[i%len(base)].Name, i+1)
			clone.Servings = 0 // fixed up by the redistribution below
			out.Dishes = append(out.Dishes, clone)
		}
		adjustments = append(adjustments, fmt.Sprintf(
			"Adicionadas %d variações de pratos existentes para atingir %d pratos", missing, requestedVarieties))
	} else if len(out.Dishes) > requestedVarieties {
		excess := len(out.Dishes) - requestedVarieties
		out.Dishes = out.Dishes[:requestedVarieties]
		adjustments = append(adjustments, fmt.Sprintf(
			"Removidos %d pratos excedentes para respeitar os %d pratos solicitados", excess, requestedVarieties))
	}

	current := out.TotalServings()
	excess := current - requestedServings
	// synthesized variations start at zero servings, so redistribution must
	// run even when the total happens to match the request already
	if synthesized || (current != requestedServings && (excess < 0 || excess > servingSlack)) {
		perDish := requestedServings / len(out.Dishes)
		remainder := requestedServings % len(out.Dishes)
		for i := range out.Dishes {
			out.Dishes[i].Servings = perDish
			if i < remainder {
				out.Dishes[i].Servings++
			}
		}
		adjustments = append(adjustments, fmt.Sprintf(
			"Porções redistribuídas de %d para %d no total", current, requestedServings))
	}

	return &out, adjustments
}

func cloneDish(d Dish) Dish {
	clone := d
	clone.Ingredients = make([]Ingredient, len(d.Ingredients))
	copy(clone.Ingredients, d.Ingredients)
	clone.Steps = make([]string, len(d.Steps))
	copy(clone.Steps, d.Steps)
	if d.Variations != nil {
		clone.Variations = make([]string, len(d.Variations))
		copy(clone.Variations, d.Variations)
	}
	return clone
}
