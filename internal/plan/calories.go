package plan

import (
	"fmt"
	"math"

	"prato-pronto/internal/ingredient"
	"prato-pronto/internal/nutrition"
)

// EnrichIngredient fills in the kcal figures for one ingredient from the
// calorie table. Unknown ingredients come back unchanged with nil kcal; they
// contribute zero to sums and are reported separately by EnrichPlan.
func EnrichIngredient(ing Ingredient) Ingredient {
	info, ok := nutrition.Lookup(ing.Name)
	if !ok {
		ing.Kcal = nil
		ing.KcalPer100 = nil
		return ing
	}

	var kcal float64
	switch {
	case ingredient.IsPiece(ing.Unit) && info.KcalPerUnit > 0:
		kcal = info.KcalPerUnit * ing.Quantity
	case ingredient.IsPiece(ing.Unit):
		// discrete unit without a per-unit entry: the per-100 figure is
		// taken as an approximation of one unit
		kcal = info.KcalPer100 * ing.Quantity
	default:
		per100 := info.KcalPer100
		ing.KcalPer100 = &per100
		qty, _, convertible := ingredient.ToBase(ing.Quantity, ing.Unit)
		if !convertible {
			qty = ing.Quantity
		}
		kcal = per100 * qty / 100
	}

	ing.Kcal = &kcal
	return ing
}

// EnrichDish recomputes a dish's calorie totals from its ingredients.
// TotalKcal is always the sum of contained ingredient kcal, never stale.
func EnrichDish(d Dish) Dish {
	enriched := make([]Ingredient, len(d.Ingredients))
	total := 0.0
	for i, ing := range d.Ingredients {
		enriched[i] = EnrichIngredient(ing)
		if enriched[i].Kcal != nil {
			total += *enriched[i].Kcal
		}
	}
	d.Ingredients = enriched
	d.TotalKcal = &total

	perServing := 0.0
	if d.Servings > 0 {
		perServing = math.Round(total / float64(d.Servings))
	}
	d.KcalPerServing = &perServing
	return d
}

// EnrichPlan enriches every dish and computes plan-level totals. The second
// return lists ingredient names with no calorie data, so callers can warn the
// user instead of silently treating them as zero.
func EnrichPlan(p *MealPlan) (*MealPlan, []string) {
	out := *p
	out.Dishes = make([]Dish, len(p.Dishes))

	total := 0.0
	servings := 0
	var missing []string
	seenMissing := make(map[string]struct{})

	for i, dish := range p.Dishes {
		out.Dishes[i] = EnrichDish(dish)
		total += *out.Dishes[i].TotalKcal
		servings += out.Dishes[i].Servings
		for _, ing := range out.Dishes[i].Ingredients {
			if ing.Kcal != nil {
				continue
			}
			folded := ingredient.Fold(ing.Name)
			if _, dup := seenMissing[folded]; dup {
				continue
			}
			seenMissing[folded] = struct{}{}
			missing = append(missing, ing.Name)
		}
	}

	out.TotalKcal = &total
	avg := 0.0
	if servings > 0 {
		avg = math.Round(total / float64(servings))
	}
	out.AvgKcalPerServing = &avg

	return &out, missing
}

// recomputeCalories refreshes the derived calorie figures in place after a
// quantity mutation. Only plans that were already enriched need it.
func recomputeCalories(p *MealPlan) {
	enriched, _ := EnrichPlan(p)
	*p = *enriched
}

// AdjustServingsForCalorieLimit suggests a higher serving count for a dish
// whose kcal/serving exceeds the ceiling. The engine never removes food to cut
// calories; it only spreads the same food over more portions. The suggestion
// is advisory: the second return explains it, the third says whether a change
// is needed.
func AdjustServingsForCalorieLimit(d Dish, maxKcalPerServing int) (int, string, bool) {
	if maxKcalPerServing <= 0 || d.TotalKcal == nil || d.Servings <= 0 {
		return d.Servings, "", false
	}

	perServing := *d.TotalKcal / float64(d.Servings)
	if perServing <= float64(maxKcalPerServing) {
		return d.Servings, "", false
	}

	adjusted := int(math.Ceil(*d.TotalKcal / float64(maxKcalPerServing)))
	explanation := fmt.Sprintf(
		"Prato '%s' excedia o limite de %d kcal por porção; porções aumentadas de %d para %d",
		d.Name, maxKcalPerServing, d.Servings, adjusted)
	return adjusted, explanation, true
}
