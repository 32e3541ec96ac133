package plan

import (
	"math"
	"strings"
	"testing"

	"prato-pronto/internal/ingredient"
)

func floatPtr(v float64) *float64 { return &v }

func TestEnforceStockScalesProportionally(t *testing.T) {
	p := &MealPlan{
		Dishes: []Dish{
			{
				Name: "Frango grelhado",
				Ingredients: []Ingredient{
					{Name: "frango", Quantity: 300, Unit: "g"},
				},
				Servings: 2,
			},
			{
				Name: "Salada com frango",
				Ingredients: []Ingredient{
					{Name: "peito de frango", Quantity: 200, Unit: "g"},
					{Name: "alface", Quantity: 1, Unit: "unidade"},
				},
				Servings: 2,
			},
		},
	}
	stock := []ingredient.StockEntry{
		{Name: "frango", Quantity: floatPtr(100), Unit: "g"},
	}

	result, adjustments := EnforceStock(p, stock)

	// 500g of aggregate use against 100g of stock: factor 0.2
	if got := result.Dishes[0].Ingredients[0].Quantity; math.Abs(got-60) > 0.001 {
		t.Errorf("Expected first dish scaled to 60g, got %v", got)
	}
	if got := result.Dishes[1].Ingredients[0].Quantity; math.Abs(got-40) > 0.001 {
		t.Errorf("Expected second dish scaled to 40g, got %v", got)
	}
	// unrelated ingredients untouched
	if got := result.Dishes[1].Ingredients[1].Quantity; got != 1 {
		t.Errorf("Expected alface untouched, got %v", got)
	}

	total := result.Dishes[0].Ingredients[0].Quantity + result.Dishes[1].Ingredients[0].Quantity
	if total > 100.001 {
		t.Errorf("Aggregate use %v still exceeds the 100g stock", total)
	}

	if len(adjustments) != 1 || !strings.Contains(adjustments[0], "estoque") {
		t.Errorf("Expected one adjustment mentioning estoque, got %v", adjustments)
	}

	// input must not be mutated
	if p.Dishes[0].Ingredients[0].Quantity != 300 {
		t.Error("EnforceStock mutated its input plan")
	}
}

func TestEnforceStockUnitConversion(t *testing.T) {
	p := &MealPlan{
		Dishes: []Dish{
			{
				Name: "Arroz de forno",
				Ingredients: []Ingredient{
					{Name: "arroz", Quantity: 1.5, Unit: "kg"},
				},
				Servings: 6,
			},
		},
	}
	stock := []ingredient.StockEntry{
		{Name: "arroz", Quantity: floatPtr(1), Unit: "kg"},
	}

	result, adjustments := EnforceStock(p, stock)
	if got := result.Dishes[0].Ingredients[0].Quantity; math.Abs(got-1.0) > 0.001 {
		t.Errorf("Expected 1.5kg scaled down to 1kg, got %vkg", got)
	}
	if len(adjustments) != 1 {
		t.Errorf("Expected one adjustment, got %v", adjustments)
	}
}

func TestEnforceStockWithinLimits(t *testing.T) {
	p := &MealPlan{
		Dishes: []Dish{
			{
				Name: "Omelete",
				Ingredients: []Ingredient{
					{Name: "ovo", Quantity: 4, Unit: "unidade"},
				},
				Servings: 2,
			},
		},
	}
	stock := []ingredient.StockEntry{
		{Name: "ovo", Quantity: floatPtr(6), Unit: "unidade"},
	}

	result, adjustments := EnforceStock(p, stock)
	if len(adjustments) != 0 {
		t.Errorf("Usage within stock must produce no adjustments, got %v", adjustments)
	}
	if result.Dishes[0].Ingredients[0].Quantity != 4 {
		t.Errorf("Quantity changed without need: %v", result.Dishes[0].Ingredients[0].Quantity)
	}
}

func TestEnforceStockBareCountConstrains(t *testing.T) {
	p := &MealPlan{
		Dishes: []Dish{
			{
				Name: "Legumes assados",
				Ingredients: []Ingredient{
					{Name: "cenoura", Quantity: 6, Unit: "unidade"},
				},
				Servings: 4,
			},
		},
	}
	// "3 cenouras" parses as a stock of 3 discrete items
	stock := ingredient.ParseAll([]string{"3 cenouras"})

	result, adjustments := EnforceStock(p, stock)
	if got := result.Dishes[0].Ingredients[0].Quantity; math.Abs(got-3) > 0.001 {
		t.Errorf("Expected usage scaled down to the 3 declared units, got %v", got)
	}
	if len(adjustments) != 1 || !strings.Contains(adjustments[0], "estoque") {
		t.Errorf("Expected one adjustment mentioning estoque, got %v", adjustments)
	}
}

func TestEnforceStockIgnoresUnconstrainedEntries(t *testing.T) {
	p := &MealPlan{
		Dishes: []Dish{
			{
				Name: "Frango assado",
				Ingredients: []Ingredient{
					{Name: "frango", Quantity: 2000, Unit: "g"},
				},
				Servings: 4,
			},
		},
	}
	// stock entry with no declared quantity imposes no limit
	stock := []ingredient.StockEntry{
		{Name: "frango"},
	}

	result, adjustments := EnforceStock(p, stock)
	if len(adjustments) != 0 {
		t.Errorf("Unquantified stock must not constrain, got %v", adjustments)
	}
	if result.Dishes[0].Ingredients[0].Quantity != 2000 {
		t.Errorf("Quantity changed: %v", result.Dishes[0].Ingredients[0].Quantity)
	}
}

func TestEnforceStockRecomputesCalories(t *testing.T) {
	p := &MealPlan{
		Dishes: []Dish{
			{
				Name: "Frango grelhado",
				Ingredients: []Ingredient{
					{Name: "frango", Quantity: 200, Unit: "g"},
				},
				Servings: 1,
			},
		},
	}
	enriched, _ := EnrichPlan(p)
	before := *enriched.Dishes[0].TotalKcal

	stock := []ingredient.StockEntry{
		{Name: "frango", Quantity: floatPtr(100), Unit: "g"},
	}
	result, _ := EnforceStock(enriched, stock)

	after := *result.Dishes[0].TotalKcal
	if after >= before {
		t.Errorf("Expected calories recomputed after scaling, got %v (was %v)", after, before)
	}
	if math.Abs(after-before/2) > 0.5 {
		t.Errorf("Halving the quantity should roughly halve the calories: %v vs %v", after, before)
	}
}
