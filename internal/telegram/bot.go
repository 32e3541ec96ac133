// Package telegram exposes the planner over a Telegram webhook bot.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"prato-pronto/internal/config"
	"prato-pronto/internal/importer"
	"prato-pronto/internal/metrics"
	"prato-pronto/internal/plan"
	"prato-pronto/internal/share"
)

const defaultServings = 12

// Bot wraps the Telegram API, the plan engine and the supporting stores.
type Bot struct {
	api          *tgbotapi.BotAPI
	engine       *plan.Engine
	importer     *importer.Importer
	metricsStore *metrics.Store
	planRepo     *plan.Repository
	sessions     *SessionRepository
	signer       *share.Signer // nil when sharing is not configured
	cfg          *config.Config
}

// NewBot initializes the Telegram bot and registers the webhook.
func NewBot(
	cfg *config.Config,
	engine *plan.Engine,
	imp *importer.Importer,
	metricsStore *metrics.Store,
	planRepo *plan.Repository,
	sessions *SessionRepository,
	signer *share.Signer,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          api,
		engine:       engine,
		importer:     imp,
		metricsStore: metricsStore,
		planRepo:     planRepo,
		sessions:     sessions,
		signer:       signer,
		cfg:          cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	if b.cfg.TelegramAllowUserID != 0 && update.Message.From.ID != b.cfg.TelegramAllowUserID {
		log.Printf("Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == "/start" || text == "/ajuda":
		b.send(msg.Chat.ID, helpText)
	case text == "/metrics":
		b.handleMetricsCommand(msg.Chat.ID)
	case text == "/lista":
		b.handleShoppingListCommand(msg.Chat.ID)
	case text == "/compartilhar":
		b.handleShareCommand(msg.Chat.ID)
	case strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://"):
		b.handleImportRequest(msg)
	default:
		b.handlePlanRequest(msg)
	}
}

const helpText = `🍲 Prato Pronto

Envie sua lista no formato:

ingredientes: 2kg de frango, 1kg de arroz, 3 cenouras
porções: 12
pratos: 4
exclusões: pimentão
dieta: low carb
tempo: 2h

Ou envie o link de uma receita para importar os ingredientes.

Comandos:
/lista — reenviar a lista de compras do último plano
/compartilhar — gerar um link de compartilhamento do último plano
/ajuda — esta mensagem`

func (b *Bot) handleImportRequest(msg *tgbotapi.Message) {
	sentID := b.send(msg.Chat.ID, "🔗 Importando ingredientes da página...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	extracted, meta, err := b.importer.ImportURL(ctx, msg.Text)
	if meta != nil {
		if recErr := b.metricsStore.RecordMeta(ctx, *meta); recErr != nil {
			log.Printf("Warning: failed to record importer metrics: %v", recErr)
		}
	}
	if err != nil {
		log.Printf("Error importing ingredients: %v", err)
		b.edit(msg.Chat.ID, sentID, "❌ Não consegui extrair ingredientes dessa página.")
		return
	}

	session := Session{ChatID: msg.Chat.ID, State: "imported"}
	if existing, _ := b.sessions.Get(ctx, msg.Chat.ID); existing != nil {
		session.Data = existing.Data
	}
	session.Data.ImportedIngredients = extracted.Ingredients
	if err := b.sessions.Put(ctx, session); err != nil {
		log.Printf("Warning: failed to save session: %v", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ *%s*\n\nIngredientes importados:\n", extracted.Title))
	for _, ing := range extracted.Ingredients {
		sb.WriteString(fmt.Sprintf("• %s\n", ing))
	}
	sb.WriteString("\nEnvie `porções: N` e demais preferências para gerar o plano com eles.")
	b.edit(msg.Chat.ID, sentID, sb.String())
}

func (b *Bot) handlePlanRequest(msg *tgbotapi.Message) {
	sentID := b.send(msg.Chat.ID, "🧑‍🍳 Montando seu plano de marmitas...")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := parseRequestMessage(msg.Text)

	session, _ := b.sessions.Get(ctx, msg.Chat.ID)
	if len(req.AvailableIngredients) == 0 && session != nil && len(session.Data.ImportedIngredients) > 0 {
		req.AvailableIngredients = session.Data.ImportedIngredients
	}

	result, metas, err := b.engine.GeneratePlan(ctx, req)
	for _, m := range metas {
		if recErr := b.metricsStore.RecordMeta(ctx, m); recErr != nil {
			log.Printf("Warning: failed to record metrics: %v", recErr)
		}
	}
	if err != nil {
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		b.edit(msg.Chat.ID, sentID, fmt.Sprintf("❌ Não consegui gerar o plano: %s", safeErr))
		return
	}

	planID := b.persistPlan(ctx, msg, result, session)

	planText, shoppingText := formatPlanMarkdownParts(result)
	b.edit(msg.Chat.ID, sentID, planText)
	b.send(msg.Chat.ID, shoppingText)

	if planID == 0 {
		b.send(msg.Chat.ID, "⚠️ O plano não pôde ser salvo no histórico.")
	}
}

// persistPlan saves the delivered plan and points the session at it.
func (b *Bot) persistPlan(ctx context.Context, msg *tgbotapi.Message, result *plan.MealPlan, session *Session) int64 {
	payload, err := json.Marshal(result)
	if err != nil {
		log.Printf("Warning: failed to encode plan: %v", err)
		return 0
	}

	userID := fmt.Sprintf("%d", msg.From.ID)
	if err := b.planRepo.Save(ctx, userID, payload); err != nil {
		log.Printf("Warning: failed to save plan for user %s: %v", userID, err)
		return 0
	}

	stored, err := b.planRepo.ListRecentByUserID(ctx, userID, 1)
	if err != nil || len(stored) == 0 {
		return 0
	}

	s := Session{ChatID: msg.Chat.ID, State: "planned"}
	if session != nil {
		s.Data = session.Data
	}
	s.Data.LastPlanID = stored[0].ID
	if err := b.sessions.Put(ctx, s); err != nil {
		log.Printf("Warning: failed to save session: %v", err)
	}
	return stored[0].ID
}

func (b *Bot) handleShoppingListCommand(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stored := b.lastPlan(ctx, chatID)
	if stored == nil {
		b.send(chatID, "Nenhum plano no histórico ainda. Envie sua lista de ingredientes primeiro.")
		return
	}

	var p plan.MealPlan
	if err := json.Unmarshal(stored.PlanData, &p); err != nil {
		b.send(chatID, "❌ Não consegui ler o último plano salvo.")
		return
	}

	_, shoppingText := formatPlanMarkdownParts(&p)
	b.send(chatID, shoppingText)
}

func (b *Bot) handleShareCommand(chatID int64) {
	if b.signer == nil {
		b.send(chatID, "O compartilhamento não está configurado neste servidor.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stored := b.lastPlan(ctx, chatID)
	if stored == nil {
		b.send(chatID, "Nenhum plano no histórico ainda. Envie sua lista de ingredientes primeiro.")
		return
	}

	token, err := b.signer.Issue(stored.ID)
	if err != nil {
		log.Printf("Error issuing share token: %v", err)
		b.send(chatID, "❌ Não consegui gerar o link de compartilhamento.")
		return
	}
	b.send(chatID, fmt.Sprintf("🔗 Código de compartilhamento do plano (válido por 7 dias):\n\n`%s`", token))
}

func (b *Bot) lastPlan(ctx context.Context, chatID int64) *plan.StoredPlan {
	session, err := b.sessions.Get(ctx, chatID)
	if err != nil || session == nil || session.Data.LastPlanID == 0 {
		return nil
	}
	stored, err := b.planRepo.Get(ctx, session.Data.LastPlanID)
	if err != nil {
		log.Printf("Error loading plan %d: %v", session.Data.LastPlanID, err)
		return nil
	}
	return stored
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	usage, err := b.metricsStore.GetDailyUsage(ctx, 7)
	if err != nil {
		b.send(chatID, "❌ Error fetching metrics.")
		return
	}

	health := metrics.CollectSysHealth(b.cfg.DatabasePath)

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.StorageSize))

	b.send(chatID, sb.String())
}

func (b *Bot) send(chatID int64, text string) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Failed to send message: %v", err)
		return 0
	}
	return sent.MessageID
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	if messageID == 0 {
		b.send(chatID, text)
		return
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Failed to edit message: %v", err)
	}
}

// formatPlanMarkdownParts renders the delivered plan as two Telegram
// messages: the plan itself and the shopping list.
func formatPlanMarkdownParts(p *plan.MealPlan) (string, string) {
	var pb strings.Builder
	pb.WriteString("🍲 *Plano de Marmitas*\n\n")

	for _, d := range p.Dishes {
		pb.WriteString(fmt.Sprintf("*%s* — %d porções", d.Name, d.Servings))
		if d.KcalPerServing != nil && *d.KcalPerServing > 0 {
			pb.WriteString(fmt.Sprintf(" (%.0f kcal/porção)", *d.KcalPerServing))
		}
		pb.WriteString("\n")
		for _, ing := range d.Ingredients {
			pb.WriteString(fmt.Sprintf("  • %s: %.6g %s\n", ing.Name, ing.Quantity, ing.Unit))
		}
		pb.WriteString("\n")
	}

	if len(p.PrepSchedule) > 0 {
		pb.WriteString("⏱ *Cronograma de preparo*\n")
		for _, step := range p.PrepSchedule {
			marker := ""
			if step.Parallel {
				marker = " (em paralelo)"
			}
			pb.WriteString(fmt.Sprintf("%d. %s — %d min%s\n", step.Order, step.Action, step.Duration, marker))
		}
		pb.WriteString(fmt.Sprintf("\nTempo total: %d min\n", p.TotalPlanTime))
	}

	if p.TimeFits != nil && !*p.TimeFits {
		pb.WriteString("⚠️ O plano não cabe no tempo disponível informado.\n")
	}

	if p.AdjustmentReason != "" {
		pb.WriteString(fmt.Sprintf("\nℹ️ *Ajustes aplicados*\n_%s_\n", p.AdjustmentReason))
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Lista de Compras*\n\n")
	if len(p.ShoppingList) == 0 {
		sb.WriteString("_Nada a comprar: tudo já está no seu estoque._\n")
	}
	for _, item := range p.ShoppingList {
		sb.WriteString(fmt.Sprintf("• %s: %.6g %s\n", item.Item, item.Quantity, item.Unit))
	}

	return pb.String(), sb.String()
}
