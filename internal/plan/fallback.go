package plan

import (
	"math"
)

// FallbackPlan returns the fixed, hand-authored plan used whenever the
// generative step fails irrecoverably: three balanced dishes, a complete
// shopping list and a batch-cooking schedule. It always succeeds.
func FallbackPlan(servings int) *MealPlan {
	if servings <= 0 {
		servings = 3
	}
	perDish := int(math.Ceil(float64(servings) / 3))

	return &MealPlan{
		Dishes: []Dish{
			{
				Name:     "Frango desfiado com temperos",
				Category: CategoryProtein,
				Ingredients: []Ingredient{
					{Name: "frango", Quantity: 600, Unit: "g"},
					{Name: "cebola", Quantity: 1, Unit: "unidade"},
					{Name: "alho", Quantity: 2, Unit: "unidade"},
				},
				Steps: []string{
					"Cozinhe o frango em água fervente por 25 minutos",
					"Desfie o frango com dois garfos",
					"Refogue cebola e alho, junte o frango e acerte o sal",
				},
				Servings: perDish,
				PrepTime: 40,
			},
			{
				Name:     "Arroz branco soltinho",
				Category: CategoryCarb,
				Ingredients: []Ingredient{
					{Name: "arroz", Quantity: 500, Unit: "g"},
					{Name: "alho", Quantity: 1, Unit: "unidade"},
				},
				Steps: []string{
					"Refogue o alho, adicione o arroz e frite rapidamente",
					"Adicione água fervente na proporção 2 para 1 e cozinhe em fogo baixo",
				},
				Servings: perDish,
				PrepTime: 25,
			},
			{
				Name:     "Legumes salteados",
				Category: CategoryVegetable,
				Ingredients: []Ingredient{
					{Name: "cenoura", Quantity: 2, Unit: "unidade"},
					{Name: "abobrinha", Quantity: 1, Unit: "unidade"},
				},
				Steps: []string{
					"Corte os legumes em cubos médios",
					"Salteie em frigideira quente com um fio de azeite até dourar",
				},
				Servings: perDish,
				PrepTime: 15,
			},
		},
		ShoppingList: []ShoppingItem{
			{Category: "proteína", Item: "frango", Quantity: 600, Unit: "g"},
			{Category: "grãos", Item: "arroz", Quantity: 500, Unit: "g"},
			{Category: "hortifruti", Item: "cebola", Quantity: 1, Unit: "unidade"},
			{Category: "hortifruti", Item: "alho", Quantity: 3, Unit: "unidade"},
			{Category: "hortifruti", Item: "cenoura", Quantity: 2, Unit: "unidade"},
			{Category: "hortifruti", Item: "abobrinha", Quantity: 1, Unit: "unidade"},
		},
		PrepSchedule: []PrepStep{
			{Order: 1, Action: "Colocar o frango para cozinhar", Duration: 25, Parallel: false},
			{Order: 2, Action: "Cozinhar o arroz enquanto o frango cozinha", Duration: 20, Parallel: true},
			{Order: 3, Action: "Cortar os legumes enquanto o frango cozinha", Duration: 10, Parallel: true},
			{Order: 4, Action: "Desfiar e refogar o frango", Duration: 15, Parallel: false},
			{Order: 5, Action: "Saltear os legumes", Duration: 10, Parallel: false},
		},
		EstimatedCost: CostLow,
		TotalPrepTime: 80,
	}
}
