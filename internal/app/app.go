// Package app wires the planner's services together and implements the CLI
// operations on top of them.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"prato-pronto/internal/config"
	"prato-pronto/internal/database"
	"prato-pronto/internal/importer"
	"prato-pronto/internal/metrics"
	"prato-pronto/internal/plan"
	"prato-pronto/internal/share"
)

// CLIUserID identifies plans generated through the command line, which has no
// account concept.
const CLIUserID = "cli"

// App holds the application's dependencies.
type App struct {
	engine       *plan.Engine
	importer     *importer.Importer
	metricsStore *metrics.Store
	planRepo     *plan.Repository
	signer       *share.Signer // nil when sharing is not configured
	cfg          *config.Config
	db           *database.DB
}

// NewApp creates and initializes an App instance.
func NewApp(
	engine *plan.Engine,
	imp *importer.Importer,
	metricsStore *metrics.Store,
	planRepo *plan.Repository,
	signer *share.Signer,
	cfg *config.Config,
	db *database.DB,
) *App {
	return &App{
		engine:       engine,
		importer:     imp,
		metricsStore: metricsStore,
		planRepo:     planRepo,
		signer:       signer,
		cfg:          cfg,
		db:           db,
	}
}

// GenerateMealPlan runs the engine for the given request, records metrics,
// stores the result and prints it.
func (a *App) GenerateMealPlan(ctx context.Context, req plan.Request) error {
	result, metas, err := a.engine.GeneratePlan(ctx, req)

	for _, meta := range metas {
		if recErr := a.metricsStore.RecordMeta(ctx, meta); recErr != nil {
			log.Printf("Warning: failed to record metrics for %s: %v", meta.AgentName, recErr)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to generate plan: %w", err)
	}

	planJSON, err := json.Marshal(result)
	if err != nil {
		log.Printf("Warning: failed to encode meal plan for saving: %v", err)
	} else if err := a.planRepo.Save(ctx, CLIUserID, planJSON); err != nil {
		log.Printf("Warning: failed to save meal plan to history: %v", err)
	}

	printPlan(result)
	return nil
}

// ImportIngredients extracts the ingredient list from a recipe URL and prints
// it as lines ready to paste into a generation request.
func (a *App) ImportIngredients(ctx context.Context, url string) error {
	extracted, meta, err := a.importer.ImportURL(ctx, url)
	if meta != nil {
		if recErr := a.metricsStore.RecordMeta(ctx, *meta); recErr != nil {
			log.Printf("Warning: failed to record importer metrics: %v", recErr)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to import ingredients: %w", err)
	}

	fmt.Printf("=== %s ===\n", extracted.Title)
	for _, ing := range extracted.Ingredients {
		fmt.Println(ing)
	}
	return nil
}

// ShowHistory prints the most recent stored plans.
func (a *App) ShowHistory(ctx context.Context, limit int) error {
	plans, err := a.planRepo.ListRecentByUserID(ctx, CLIUserID, limit)
	if err != nil {
		return fmt.Errorf("failed to load plan history: %w", err)
	}
	if len(plans) == 0 {
		fmt.Println("No plans in history yet.")
		return nil
	}

	for _, stored := range plans {
		var p plan.MealPlan
		if err := json.Unmarshal(stored.PlanData, &p); err != nil {
			log.Printf("Warning: skipping unreadable plan %d: %v", stored.ID, err)
			continue
		}
		fmt.Printf("--- Plan %d (%s) ---\n", stored.ID, stored.CreatedAt.Format("2006-01-02 15:04"))
		for _, d := range p.Dishes {
			fmt.Printf("  %s (%d porções)\n", d.Name, d.Servings)
		}
	}
	return nil
}

// SharePlan prints a signed share token for a stored plan.
func (a *App) SharePlan(_ context.Context, planID int64) error {
	if a.signer == nil {
		return fmt.Errorf("sharing is not configured: set SHARE_TOKEN_SECRET")
	}
	token, err := a.signer.Issue(planID)
	if err != nil {
		return fmt.Errorf("failed to issue share token: %w", err)
	}
	fmt.Println(token)
	return nil
}

// ShowSharedPlan verifies a share token and prints the plan it references.
func (a *App) ShowSharedPlan(ctx context.Context, token string) error {
	if a.signer == nil {
		return fmt.Errorf("sharing is not configured: set SHARE_TOKEN_SECRET")
	}
	planID, err := a.signer.Verify(token)
	if err != nil {
		return err
	}
	stored, err := a.planRepo.Get(ctx, planID)
	if err != nil {
		return err
	}

	var p plan.MealPlan
	if err := json.Unmarshal(stored.PlanData, &p); err != nil {
		return fmt.Errorf("stored plan %d is unreadable: %w", planID, err)
	}
	printPlan(&p)
	return nil
}

// CleanupMetrics removes execution metrics older than the given number of
// days.
func (a *App) CleanupMetrics(ctx context.Context, olderThanDays int) error {
	removed, err := a.metricsStore.Cleanup(ctx, olderThanDays)
	if err != nil {
		return fmt.Errorf("failed to clean up metrics: %w", err)
	}
	fmt.Printf("Removed %d metric records older than %d days.\n", removed, olderThanDays)
	return nil
}

func printPlan(p *plan.MealPlan) {
	fmt.Println("\n=== PLANO DE MARMITAS ===")
	for _, d := range p.Dishes {
		fmt.Printf("%s — %d porções", d.Name, d.Servings)
		if d.KcalPerServing != nil && *d.KcalPerServing > 0 {
			fmt.Printf(" (%.0f kcal/porção)", *d.KcalPerServing)
		}
		fmt.Println()
		for _, ing := range d.Ingredients {
			fmt.Printf("  - %s: %.6g %s\n", ing.Name, ing.Quantity, ing.Unit)
		}
	}

	if len(p.PrepSchedule) > 0 {
		fmt.Println("\n=== CRONOGRAMA DE PREPARO ===")
		for _, step := range p.PrepSchedule {
			marker := ""
			if step.Parallel {
				marker = " (em paralelo)"
			}
			fmt.Printf("%d. %s — %d min%s\n", step.Order, step.Action, step.Duration, marker)
		}
		fmt.Printf("Tempo total: %d min\n", p.TotalPlanTime)
	}

	fmt.Println("\n=== LISTA DE COMPRAS ===")
	if len(p.ShoppingList) == 0 {
		fmt.Println("Nada a comprar.")
	}
	for _, item := range p.ShoppingList {
		fmt.Printf("- %s: %.6g %s\n", item.Item, item.Quantity, item.Unit)
	}

	if p.AdjustmentReason != "" {
		fmt.Println("\n=== AJUSTES APLICADOS ===")
		fmt.Println(p.AdjustmentReason)
	}
}
