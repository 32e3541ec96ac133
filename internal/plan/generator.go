package plan

import (
	"bytes"
	"context"
	"encoding/json"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"prato-pronto/internal/diet"
	"prato-pronto/internal/llm"
	"prato-pronto/internal/shared"
)

//go:embed generator_prompt.md
var generatorPrompt string

// ErrUnusable marks a generative reply that cannot be turned into a plan:
// empty content, unparseable JSON or a plan with no dishes. The engine
// recovers from it with the fallback plan.
var ErrUnusable = fmt.Errorf("candidate plan is unusable")

type generatorPromptData struct {
	Varieties           int
	Servings            int
	Ingredients         string
	Exclusions          string
	DietDirective       string
	Objective           string
	Sophistication      string
	SkillLevel          string
	AllowNewIngredients bool
	Favorites           string
	Dislikes            string
}

// generateCandidate builds the constrained prompt, invokes the generative
// backend and decodes the raw candidate plan. The result is untrusted: every
// downstream stage re-validates it.
func generateCandidate(
	ctx context.Context,
	textGen llm.TextGenerator,
	req Request,
	ingredientNames []string,
	rules diet.RuleSet,
) (*MealPlan, *shared.AgentMeta, error) {
	start := time.Now()

	prompt, err := buildGeneratorPrompt(req, ingredientNames, rules)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build generator prompt: %w", err)
	}

	resp, err := textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnusable, err)
	}

	meta := &shared.AgentMeta{
		AgentName: "PlanGenerator",
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}

	if strings.TrimSpace(resp.Content) == "" {
		return nil, meta, fmt.Errorf("%w: empty response", ErrUnusable)
	}

	var candidate MealPlan
	if err := json.Unmarshal([]byte(llm.ExtractJSON(resp.Content)), &candidate); err != nil {
		return nil, meta, fmt.Errorf("%w: %v", ErrUnusable, err)
	}

	if len(candidate.Dishes) == 0 {
		return nil, meta, fmt.Errorf("%w: no dishes in candidate", ErrUnusable)
	}

	// Derived figures and adjustment text belong to the engine, never to the
	// model; whatever the candidate supplies for them is discarded.
	candidate.AdjustmentReason = ""
	candidate.TotalKcal = nil
	candidate.AvgKcalPerServing = nil
	candidate.TotalPlanTime = 0
	candidate.TimeFits = nil

	return &candidate, meta, nil
}

func buildGeneratorPrompt(req Request, ingredientNames []string, rules diet.RuleSet) (string, error) {
	tmpl, err := template.New("generator").Parse(generatorPrompt)
	if err != nil {
		return "", err
	}

	data := generatorPromptData{
		Varieties:           req.Varieties,
		Servings:            req.Servings,
		Ingredients:         strings.Join(ingredientNames, ", "),
		Exclusions:          strings.Join(req.Exclusions, ", "),
		DietDirective:       dietDirective(rules),
		Objective:           req.Objective,
		Sophistication:      req.Sophistication,
		SkillLevel:          req.SkillLevel,
		AllowNewIngredients: req.AllowNewIngredients,
		Favorites:           strings.Join(req.UserFavorites, ", "),
		Dislikes:            strings.Join(req.UserDislikes, ", "),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func dietDirective(rules diet.RuleSet) string {
	if !rules.Restricts() {
		return ""
	}
	return fmt.Sprintf("%s (evite: %s)", rules.Label, strings.Join(rules.ForbiddenTerms, ", "))
}
