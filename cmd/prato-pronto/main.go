package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"prato-pronto/internal/app"
	"prato-pronto/internal/config"
	"prato-pronto/internal/database"
	"prato-pronto/internal/diet"
	"prato-pronto/internal/importer"
	"prato-pronto/internal/llm"
	"prato-pronto/internal/metrics"
	"prato-pronto/internal/plan"
	"prato-pronto/internal/share"
)

const usage = `Usage: prato-pronto <command> [flags]

Commands:
  plan             generate a meal plan
  import <url>     extract the ingredient list from a recipe page
  history          show recent plans
  share <plan-id>  issue a share token for a stored plan
  shared <token>   show the plan a share token grants access to
  metrics-cleanup  remove old execution metrics`

func main() {
	// .env is optional; real deployments use actual environment variables
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	groq := llm.NewGroqClient(cfg)

	// the diet resolver runs on Gemini when configured, mirroring the
	// generator/analyst split across backends; otherwise both share Groq
	dietGen := groq
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		if closer, ok := gemini.(llm.Closer); ok {
			defer closer.Close()
		}
		dietGen = gemini
	}

	var signer *share.Signer
	if cfg.ShareTokenSecret != "" {
		signer, err = share.NewSigner(cfg.ShareTokenSecret)
		if err != nil {
			log.Fatalf("Failed to initialize share signer: %v", err)
		}
	}

	engine := plan.New(groq, diet.NewResolver(dietGen))
	application := app.NewApp(
		engine,
		importer.NewImporter(groq),
		metrics.NewStore(db.SQL),
		plan.NewRepository(db.SQL),
		signer,
		cfg,
		db,
	)

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "plan":
		err = runPlan(ctx, application, args)
	case "import":
		if len(args) != 1 {
			log.Fatal("Usage: prato-pronto import <url>")
		}
		err = application.ImportIngredients(ctx, args[0])
	case "history":
		err = application.ShowHistory(ctx, 10)
	case "share":
		if len(args) != 1 {
			log.Fatal("Usage: prato-pronto share <plan-id>")
		}
		var planID int64
		planID, err = strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			log.Fatalf("Invalid plan id %q", args[0])
		}
		err = application.SharePlan(ctx, planID)
	case "shared":
		if len(args) != 1 {
			log.Fatal("Usage: prato-pronto shared <token>")
		}
		err = application.ShowSharedPlan(ctx, args[0])
	case "metrics-cleanup":
		err = runMetricsCleanup(ctx, application, args)
	default:
		fmt.Println(usage)
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runPlan(ctx context.Context, application *app.App, args []string) error {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	ingredients := fs.String("ingredientes", "", "comma-separated inventory lines (\"2kg de frango, 3 cenouras\")")
	servings := fs.Int("porcoes", 12, "total servings for the week")
	varieties := fs.Int("pratos", 0, "distinct dishes (0 uses the default)")
	exclusions := fs.String("exclusoes", "", "comma-separated ingredients to never use")
	dietType := fs.String("dieta", "", "diet label (\"low carb\", \"vegana\", ...)")
	objective := fs.String("objetivo", "", "free-text goal")
	calorieLimit := fs.Int("calorias", 0, "max kcal per serving (0 disables)")
	availableTime := fs.Float64("tempo", 0, "cooking time budget in hours (0 disables)")
	allowNew := fs.Bool("novos", false, "allow ingredients outside the inventory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := plan.Request{
		AvailableIngredients: splitList(*ingredients),
		Servings:             *servings,
		Varieties:            *varieties,
		Exclusions:           splitList(*exclusions),
		DietType:             *dietType,
		Objective:            *objective,
		CalorieLimit:         *calorieLimit,
		AvailableTime:        *availableTime,
		AllowNewIngredients:  *allowNew,
	}
	return application.GenerateMealPlan(ctx, req)
}

func runMetricsCleanup(ctx context.Context, application *app.App, args []string) error {
	fs := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
	days := fs.Int("dias", 90, "remove metrics older than this many days")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return application.CleanupMetrics(ctx, *days)
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}
