package plan

import (
	"fmt"
	"sort"
)

// EstimateTime computes the plan's wall-clock cooking time from the prep
// schedule. Sequential steps add up; a contiguous run of parallel steps
// overlaps with the surrounding sequential work, so only the longest step of
// the run counts. When the caller declared an available time budget (hours),
// the fit is checked and a miss is recorded mentioning "tempo".
func EstimateTime(p *MealPlan, availableTimeHours float64) (*MealPlan, []string) {
	out := *p

	steps := make([]PrepStep, len(p.PrepSchedule))
	copy(steps, p.PrepSchedule)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })

	total := 0
	parallelMax := 0
	for _, step := range steps {
		if step.Parallel {
			if step.Duration > parallelMax {
				parallelMax = step.Duration
			}
			continue
		}
		total += step.Duration + parallelMax
		parallelMax = 0
	}
	total += parallelMax

	out.TotalPlanTime = total

	var adjustments []string
	if availableTimeHours > 0 {
		budget := int(availableTimeHours * 60)
		fits := total <= budget
		out.TimeFits = &fits
		if !fits {
			adjustments = append(adjustments, fmt.Sprintf(
				"O tempo total de preparo (%d min) excede o tempo disponível (%d min)", total, budget))
		}
	}

	return &out, adjustments
}
