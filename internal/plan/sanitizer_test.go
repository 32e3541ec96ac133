package plan

import (
	"errors"
	"strings"
	"testing"

	"prato-pronto/internal/diet"
)

func lowCarbRules() diet.RuleSet {
	return diet.RuleSet{
		Status:         diet.StatusCanonical,
		Label:          "low carb",
		ForbiddenTerms: []string{"arroz", "batata", "pão", "macarrão", "açúcar", "farinha", "massa"},
	}
}

func unknownRules() diet.RuleSet {
	return diet.RuleSet{Status: diet.StatusUnknown}
}

func testPlan() *MealPlan {
	return &MealPlan{
		Dishes: []Dish{
			{
				Name:     "Frango com arroz",
				Category: CategoryComplete,
				Ingredients: []Ingredient{
					{Name: "frango", Quantity: 500, Unit: "g"},
					{Name: "arroz", Quantity: 300, Unit: "g"},
					{Name: "tomate", Quantity: 2, Unit: "unidade"},
				},
				Steps:    []string{"Cozinhe tudo"},
				Servings: 4,
				PrepTime: 30,
			},
			{
				Name:     "Purê de batata",
				Category: CategoryCarb,
				Ingredients: []Ingredient{
					{Name: "batata", Quantity: 400, Unit: "g"},
				},
				Steps:    []string{"Amasse as batatas"},
				Servings: 2,
				PrepTime: 20,
			},
		},
		ShoppingList: []ShoppingItem{
			{Category: "hortifruti", Item: "tomate", Quantity: 2, Unit: "unidade"},
			{Category: "grãos", Item: "arroz", Quantity: 1, Unit: "kg"},
		},
		EstimatedCost: CostLow,
	}
}

func TestSanitizeDietFiltering(t *testing.T) {
	available := []string{"frango", "arroz", "batata", "pão", "tomate"}

	result, adjustments, err := Sanitize(testPlan(), nil, lowCarbRules(), available, true)
	if err != nil {
		t.Fatalf("Sanitize failed: %v", err)
	}

	for _, dish := range result.Dishes {
		for _, ing := range dish.Ingredients {
			for _, banned := range []string{"arroz", "batata", "pão"} {
				if strings.Contains(ing.Name, banned) {
					t.Errorf("Dish %q still contains banned ingredient %q", dish.Name, ing.Name)
				}
			}
		}
	}

	// "Purê de batata" loses its only ingredient and must be dropped entirely
	if len(result.Dishes) != 1 {
		t.Fatalf("Expected 1 dish after sanitization, got %d", len(result.Dishes))
	}
	if result.Dishes[0].Name != "Frango com arroz" {
		t.Errorf("Unexpected surviving dish %q", result.Dishes[0].Name)
	}

	foundDishRemoval := false
	for _, a := range adjustments {
		if strings.Contains(a, "Purê de batata") {
			foundDishRemoval = true
		}
	}
	if !foundDishRemoval {
		t.Errorf("Expected an adjustment naming the dropped dish, got %v", adjustments)
	}

	// shopping list is filtered with the same gates
	for _, item := range result.ShoppingList {
		if strings.Contains(item.Item, "arroz") {
			t.Errorf("Shopping list still contains %q", item.Item)
		}
	}
}

func TestSanitizeExclusionPrecedence(t *testing.T) {
	// "arroz" matches both the user exclusion and the diet ban; the recorded
	// reason must be the exclusion, which is always checked first
	_, adjustments, err := Sanitize(testPlan(), []string{"arroz"}, lowCarbRules(), nil, true)
	if err != nil {
		t.Fatalf("Sanitize failed: %v", err)
	}

	for _, a := range adjustments {
		if strings.Contains(a, "'arroz'") && strings.Contains(a, "removido de") {
			if !strings.Contains(a, "exclusão do usuário") {
				t.Errorf("Expected exclusion to win precedence, got %q", a)
			}
		}
	}
}

func TestSanitizeAccentInsensitiveExclusion(t *testing.T) {
	p := &MealPlan{
		Dishes: []Dish{
			{
				Name: "Macarrão ao sugo",
				Ingredients: []Ingredient{
					{Name: "Macarrão penne", Quantity: 300, Unit: "g"},
					{Name: "tomate", Quantity: 3, Unit: "unidade"},
				},
				Servings: 2,
			},
		},
	}

	result, _, err := Sanitize(p, []string{"macarrao"}, unknownRules(), nil, true)
	if err != nil {
		t.Fatalf("Sanitize failed: %v", err)
	}
	if len(result.Dishes[0].Ingredients) != 1 || result.Dishes[0].Ingredients[0].Name != "tomate" {
		t.Errorf("Expected accent-insensitive exclusion to remove 'Macarrão penne', got %v", result.Dishes[0].Ingredients)
	}
}

func TestSanitizeUnknownDietDoesNotRestrict(t *testing.T) {
	result, adjustments, err := Sanitize(testPlan(), nil, unknownRules(), nil, true)
	if err != nil {
		t.Fatalf("Sanitize failed: %v", err)
	}
	if len(result.Dishes) != 2 {
		t.Errorf("Unknown diet must not remove dishes, got %d", len(result.Dishes))
	}
	if len(adjustments) != 0 {
		t.Errorf("Unknown diet must not produce adjustments, got %v", adjustments)
	}
}

func TestSanitizeAvailabilityGate(t *testing.T) {
	available := []string{"frango", "tomate"}

	t.Run("Enforced", func(t *testing.T) {
		result, adjustments, err := Sanitize(testPlan(), nil, unknownRules(), available, false)
		if err != nil {
			t.Fatalf("Sanitize failed: %v", err)
		}
		for _, dish := range result.Dishes {
			for _, ing := range dish.Ingredients {
				if ing.Name == "arroz" || ing.Name == "batata" {
					t.Errorf("Unavailable ingredient %q survived", ing.Name)
				}
			}
		}
		found := false
		for _, a := range adjustments {
			if strings.Contains(a, "não está entre os ingredientes disponíveis") {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected availability removal messages, got %v", adjustments)
		}
	})

	t.Run("SkippedWhenNewIngredientsAllowed", func(t *testing.T) {
		result, _, err := Sanitize(testPlan(), nil, unknownRules(), available, true)
		if err != nil {
			t.Fatalf("Sanitize failed: %v", err)
		}
		if len(result.Dishes) != 2 {
			t.Errorf("allowNewIngredients=true must skip the availability gate")
		}
	})

	t.Run("SubstringEitherDirection", func(t *testing.T) {
		p := &MealPlan{
			Dishes: []Dish{
				{
					Name: "Frango grelhado",
					Ingredients: []Ingredient{
						{Name: "peito de frango", Quantity: 500, Unit: "g"},
					},
					Servings: 2,
				},
			},
		}
		result, _, err := Sanitize(p, nil, unknownRules(), []string{"frango"}, false)
		if err != nil {
			t.Fatalf("Sanitize failed: %v", err)
		}
		if len(result.Dishes[0].Ingredients) != 1 {
			t.Error("Expected 'peito de frango' to match available 'frango'")
		}
	})
}

func TestSanitizeSubstituteExemption(t *testing.T) {
	rules := diet.RuleSet{
		Status:         diet.StatusCanonical,
		Label:          "sem lactose",
		ForbiddenTerms: []string{"leite", "queijo", "manteiga"},
	}
	p := &MealPlan{
		Dishes: []Dish{
			{
				Name: "Molho branco vegano",
				Ingredients: []Ingredient{
					{Name: "leite vegetal", Quantity: 500, Unit: "ml"},
					{Name: "leite", Quantity: 200, Unit: "ml"},
				},
				Servings: 2,
			},
		},
	}

	result, _, err := Sanitize(p, nil, rules, nil, true)
	if err != nil {
		t.Fatalf("Sanitize failed: %v", err)
	}

	if len(result.Dishes[0].Ingredients) != 1 {
		t.Fatalf("Expected exactly the exempt substitute to survive, got %v", result.Dishes[0].Ingredients)
	}
	if result.Dishes[0].Ingredients[0].Name != "leite vegetal" {
		t.Errorf("Expected 'leite vegetal' to be exempt from the diet ban, got %q", result.Dishes[0].Ingredients[0].Name)
	}
}

func TestSanitizeAllDishesDropped(t *testing.T) {
	p := &MealPlan{
		Dishes: []Dish{
			{Name: "Risoto", Ingredients: []Ingredient{{Name: "arroz", Quantity: 300, Unit: "g"}}, Servings: 2},
		},
	}

	_, adjustments, err := Sanitize(p, []string{"arroz"}, unknownRules(), nil, true)
	if !errors.Is(err, ErrNoDishes) {
		t.Fatalf("Expected ErrNoDishes, got %v", err)
	}
	if len(adjustments) == 0 {
		t.Error("Expected the removals to be recorded even when everything is dropped")
	}
}

func TestSanitizeIdempotence(t *testing.T) {
	available := []string{"frango", "arroz", "batata", "pão", "tomate"}
	exclusions := []string{"batata"}

	first, firstAdjustments, err := Sanitize(testPlan(), exclusions, lowCarbRules(), available, false)
	if err != nil {
		t.Fatalf("First sanitize failed: %v", err)
	}
	if len(firstAdjustments) == 0 {
		t.Fatal("Expected the first pass to adjust something")
	}

	second, secondAdjustments, err := Sanitize(first, exclusions, lowCarbRules(), available, false)
	if err != nil {
		t.Fatalf("Second sanitize failed: %v", err)
	}
	if len(secondAdjustments) != 0 {
		t.Errorf("Sanitizing an already-sanitized plan must produce no adjustments, got %v", secondAdjustments)
	}
	if len(second.Dishes) != len(first.Dishes) {
		t.Errorf("Second pass changed the dish count: %d != %d", len(second.Dishes), len(first.Dishes))
	}
}
