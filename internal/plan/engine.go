package plan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"prato-pronto/internal/diet"
	"prato-pronto/internal/ingredient"
	"prato-pronto/internal/llm"
	"prato-pronto/internal/shared"
)

// Engine runs the full generation pipeline: prompt construction, the untrusted
// generative call, then the deterministic reconciliation stages. Each engine
// invocation owns its plan exclusively; instances are safe for concurrent use.
type Engine struct {
	textGen llm.TextGenerator
	diets   *diet.Resolver
}

// New creates an Engine. The text generator is injected so tests can
// substitute a fake implementation.
func New(textGen llm.TextGenerator, diets *diet.Resolver) *Engine {
	return &Engine{textGen: textGen, diets: diets}
}

// GeneratePlan produces a plan satisfying every caller constraint. After input
// validation passes it never returns an error and never returns an empty plan:
// generative failures degrade to the fallback plan, diet lookup failures
// degrade to an unrestricted diet, and every correction lands in the plan's
// adjustment trail.
func (e *Engine) GeneratePlan(ctx context.Context, req Request) (*MealPlan, []shared.AgentMeta, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	var metas []shared.AgentMeta

	stock := ingredient.ParseAll(req.AvailableIngredients)
	ingredientNames := ingredient.Names(stock)

	rules, dietMeta := e.diets.Resolve(ctx, req.DietType)
	if dietMeta != nil {
		metas = append(metas, *dietMeta)
	}

	current, genMeta, err := generateCandidate(ctx, e.textGen, req, ingredientNames, rules)
	if genMeta != nil {
		metas = append(metas, *genMeta)
	}
	if err != nil {
		if !errors.Is(err, ErrUnusable) {
			// prompt construction problems are engine bugs, but the caller
			// still gets a valid plan
			log.Printf("candidate generation failed unexpectedly: %v", err)
		}
		current = e.fallback(req, rules)
		current.AppendAdjustments([]string{"Plano padrão utilizado: o gerador não retornou um plano utilizável"})
	} else {
		sanitized, adjustments, sanErr := Sanitize(current, req.Exclusions, rules, ingredientNames, req.AllowNewIngredients)
		if sanErr != nil {
			current = e.fallback(req, rules)
			current.AppendAdjustments(adjustments)
			current.AppendAdjustments([]string{"Plano padrão utilizado: nenhum prato gerado atendia às restrições"})
		} else {
			current = sanitized
			current.AppendAdjustments(adjustments)
		}
	}

	current = e.reconcile(current, req, stock)

	return current, metas, nil
}

// fallback produces the default plan, filtered through the same exclusion and
// diet gates as a generated candidate. The availability gate is deliberately
// skipped: the default dishes exist precisely for when the inventory yields
// nothing usable. If filtering would empty the fallback itself, the unfiltered
// plan is kept, since returning no plan at all is never an option.
func (e *Engine) fallback(req Request, rules diet.RuleSet) *MealPlan {
	p := FallbackPlan(req.Servings)
	sanitized, adjustments, err := Sanitize(p, req.Exclusions, rules, nil, true)
	if err != nil {
		return p
	}
	sanitized.AppendAdjustments(adjustments)
	return sanitized
}

// reconcile runs the deterministic post-generation stages in their fixed
// order: stock, variety/servings, calories, time.
func (e *Engine) reconcile(current *MealPlan, req Request, stock []ingredient.StockEntry) *MealPlan {
	enforced, adjustments := EnforceStock(current, stock)
	enforced.AppendAdjustments(adjustments)
	current = enforced

	balanced, adjustments := EnforceVarietiesAndServings(current, req.Varieties, req.Servings)
	balanced.AppendAdjustments(adjustments)
	current = balanced

	// synthesized variations duplicate ingredient quantities, which can push
	// aggregate use back over the declared stock; a second pass restores it
	enforced, adjustments = EnforceStock(current, stock)
	enforced.AppendAdjustments(adjustments)
	current = enforced

	enriched, missing := EnrichPlan(current)
	if len(missing) > 0 {
		enriched.AppendAdjustments([]string{fmt.Sprintf(
			"Sem informação calórica para: %s", strings.Join(missing, ", "))})
	}
	current = enriched

	if req.CalorieLimit > 0 {
		changed := false
		for i := range current.Dishes {
			adjusted, explanation, ok := AdjustServingsForCalorieLimit(current.Dishes[i], req.CalorieLimit)
			if !ok {
				continue
			}
			current.Dishes[i].Servings = adjusted
			current.AppendAdjustments([]string{explanation})
			changed = true
		}
		if changed {
			recomputeCalories(current)
		}
	}

	timed, adjustments := EstimateTime(current, req.AvailableTime)
	timed.AppendAdjustments(adjustments)

	return timed
}
