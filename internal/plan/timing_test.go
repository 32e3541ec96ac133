package plan

import (
	"strings"
	"testing"
)

func schedulePlan() *MealPlan {
	return &MealPlan{
		PrepSchedule: []PrepStep{
			{Order: 1, Action: "Temperar o frango", Duration: 25},
			{Order: 2, Action: "Cozinhar o arroz", Duration: 20, Parallel: true},
			{Order: 3, Action: "Cortar os legumes", Duration: 10, Parallel: true},
			{Order: 4, Action: "Grelhar o frango", Duration: 15},
			{Order: 5, Action: "Montar as marmitas", Duration: 10},
		},
	}
}

func TestEstimateTimeParallelOverlap(t *testing.T) {
	result, _ := EstimateTime(schedulePlan(), 0)

	// sequential 25+15+10 plus the longest step of the parallel run (20)
	if result.TotalPlanTime != 70 {
		t.Errorf("Expected 70 minutes, got %d", result.TotalPlanTime)
	}
	if result.TimeFits != nil {
		t.Error("Without a budget TimeFits must stay unset")
	}
}

func TestEstimateTimeAllSequential(t *testing.T) {
	p := &MealPlan{
		PrepSchedule: []PrepStep{
			{Order: 1, Duration: 10},
			{Order: 2, Duration: 20},
			{Order: 3, Duration: 5},
		},
	}
	result, _ := EstimateTime(p, 0)
	if result.TotalPlanTime != 35 {
		t.Errorf("Expected 35 minutes, got %d", result.TotalPlanTime)
	}
}

func TestEstimateTimeUnorderedSteps(t *testing.T) {
	p := &MealPlan{
		PrepSchedule: []PrepStep{
			{Order: 3, Duration: 15},
			{Order: 1, Duration: 10},
			{Order: 2, Duration: 30, Parallel: true},
		},
	}
	result, _ := EstimateTime(p, 0)
	// evaluated in Order: 10, then parallel 30, then 15
	if result.TotalPlanTime != 55 {
		t.Errorf("Expected 55 minutes, got %d", result.TotalPlanTime)
	}
}

func TestEstimateTimeTrailingParallelRun(t *testing.T) {
	p := &MealPlan{
		PrepSchedule: []PrepStep{
			{Order: 1, Duration: 10},
			{Order: 2, Duration: 40, Parallel: true},
			{Order: 3, Duration: 20, Parallel: true},
		},
	}
	result, _ := EstimateTime(p, 0)
	if result.TotalPlanTime != 50 {
		t.Errorf("Expected 50 minutes, got %d", result.TotalPlanTime)
	}
}

func TestEstimateTimeBudget(t *testing.T) {
	t.Run("Fits", func(t *testing.T) {
		result, adjustments := EstimateTime(schedulePlan(), 2)
		if result.TimeFits == nil || !*result.TimeFits {
			t.Error("70 minutes fits a 2 hour budget")
		}
		if len(adjustments) != 0 {
			t.Errorf("Expected no adjustments, got %v", adjustments)
		}
	})

	t.Run("Exceeds", func(t *testing.T) {
		result, adjustments := EstimateTime(schedulePlan(), 1)
		if result.TimeFits == nil || *result.TimeFits {
			t.Error("70 minutes does not fit a 1 hour budget")
		}
		if len(adjustments) != 1 || !strings.Contains(adjustments[0], "tempo") {
			t.Errorf("Expected one adjustment mentioning tempo, got %v", adjustments)
		}
	})

	t.Run("FractionalHours", func(t *testing.T) {
		result, _ := EstimateTime(schedulePlan(), 1.5)
		if result.TotalPlanTime != 70 {
			t.Errorf("Expected 70 minutes, got %d", result.TotalPlanTime)
		}
		if result.TimeFits == nil || !*result.TimeFits {
			t.Error("70 minutes fits a 90 minute budget")
		}
	})
}

func TestEstimateTimeEmptySchedule(t *testing.T) {
	result, adjustments := EstimateTime(&MealPlan{}, 1)
	if result.TotalPlanTime != 0 {
		t.Errorf("Empty schedule takes no time, got %d", result.TotalPlanTime)
	}
	if result.TimeFits == nil || !*result.TimeFits {
		t.Error("Zero minutes fits any positive budget")
	}
	if len(adjustments) != 0 {
		t.Errorf("Expected no adjustments, got %v", adjustments)
	}
}
