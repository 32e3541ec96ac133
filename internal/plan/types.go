// Package plan implements the meal-plan generation and reconciliation engine:
// the candidate plan produced by the model is treated as untrusted input and is
// normalized, filtered, scaled and corrected until every caller constraint
// holds, with each deviation recorded in the adjustment trail.
package plan

import (
	"strings"
)

// Dish categories, as produced by the generative backend.
const (
	CategoryProtein   = "proteína"
	CategoryCarb      = "carboidrato"
	CategoryVegetable = "legume"
	CategoryComplete  = "completo"
)

// Estimated cost buckets.
const (
	CostLow    = "baixo"
	CostMedium = "médio"
	CostHigh   = "alto"
)

// Ingredient is one ingredient occurrence inside a dish. Ingredients are owned
// by value: the same name appearing in two dishes is two independent records.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	// Kcal is nil when the calorie table has no data for this ingredient.
	Kcal       *float64 `json:"kcal,omitempty"`
	KcalPer100 *float64 `json:"kcal_per_100,omitempty"`
}

// Dish is one prepared dish of the plan.
type Dish struct {
	Name            string       `json:"name"`
	Category        string       `json:"category"`
	Ingredients     []Ingredient `json:"ingredients"`
	Steps           []string     `json:"steps"`
	Servings        int          `json:"servings"`
	PrepTime        int          `json:"prep_time"`
	Variations      []string     `json:"variations,omitempty"`
	TotalKcal       *float64     `json:"total_kcal,omitempty"`
	KcalPerServing  *float64     `json:"kcal_per_serving,omitempty"`
}

// ShoppingItem is one consolidated shopping-list entry.
type ShoppingItem struct {
	Category string  `json:"category"`
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// PrepStep is one step of the batch-cooking schedule. Order is 1-based and
// dense; Parallel marks a step whose duration overlaps adjacent work.
type PrepStep struct {
	Order    int      `json:"order"`
	Action   string   `json:"action"`
	Duration int      `json:"duration"`
	Parallel bool     `json:"parallel"`
	Details  []string `json:"details,omitempty"`
	Tips     string   `json:"tips,omitempty"`
}

// MealPlan is the aggregate returned to callers.
type MealPlan struct {
	Dishes        []Dish         `json:"dishes"`
	ShoppingList  []ShoppingItem `json:"shopping_list"`
	PrepSchedule  []PrepStep     `json:"prep_schedule"`
	EstimatedCost string         `json:"estimated_cost"`
	TotalPrepTime int            `json:"total_prep_time"`

	TotalKcal         *float64 `json:"total_kcal,omitempty"`
	AvgKcalPerServing *float64 `json:"avg_kcal_per_serving,omitempty"`
	TotalPlanTime     int      `json:"total_plan_time,omitempty"`
	TimeFits          *bool    `json:"time_fits,omitempty"`

	// AdjustmentReason is the cumulative audit trail of every automatic
	// correction applied to the plan. Stages append, never overwrite.
	AdjustmentReason string `json:"adjustment_reason,omitempty"`
}

// TotalServings sums the serving count over all dishes.
func (p *MealPlan) TotalServings() int {
	total := 0
	for _, d := range p.Dishes {
		total += d.Servings
	}
	return total
}

// AppendAdjustments adds entries to the audit trail, preserving what is there.
func (p *MealPlan) AppendAdjustments(adjustments []string) {
	if len(adjustments) == 0 {
		return
	}
	joined := strings.Join(adjustments, "; ")
	if p.AdjustmentReason == "" {
		p.AdjustmentReason = joined
		return
	}
	p.AdjustmentReason += "; " + joined
}
