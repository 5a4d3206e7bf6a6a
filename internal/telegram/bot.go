package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"meal-planner/internal/clipper"
	"meal-planner/internal/config"
	"meal-planner/internal/ghost"
	"meal-planner/internal/logger"
	"meal-planner/internal/mealtemplate"
	"meal-planner/internal/metrics"
	"meal-planner/internal/planner"
	"meal-planner/internal/scoring"
	"meal-planner/internal/shopping"
)

// Service is what the bot needs from the application.
type Service interface {
	CurrentPlan(ctx context.Context, userID string) (*planner.WeeklyMealPlan, error)
	GenerateWeeklyPlan(ctx context.Context, userID string, start time.Time) (*planner.WeeklyMealPlan, error)
	ShoppingList(ctx context.Context, userID string) (*shopping.ShoppingList, error)
	LatestQuizResult(ctx context.Context, userID string) (*scoring.QuizResult, error)
	DailyStats(ctx context.Context, days int) ([]metrics.DailyStats, error)
	ClipTemplate(ctx context.Context, url string, category mealtemplate.Category) (*ghost.Post, error)
}

// sender is the part of the Telegram API the bot uses to reply.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot answers plan, advice and shopping commands over a Telegram webhook.
type Bot struct {
	api     sender
	svc     Service
	cfg     *config.Config
	log     *logger.Logger
	now     func() time.Time
	timeout time.Duration
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, svc Service, log *logger.Logger) (*Bot, error) {
	if err := cfg.RequireTelegram(); err != nil {
		return nil, err
	}
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	log.Info("telegram bot authorized", "account", api.Self.UserName)

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}
	if _, err := api.Request(wh); err != nil {
		return nil, fmt.Errorf("failed to set webhook: %w", err)
	}

	return newBot(api, cfg, svc, log), nil
}

func newBot(api sender, cfg *config.Config, svc Service, log *logger.Logger) *Bot {
	return &Bot{
		api:     api,
		svc:     svc,
		cfg:     cfg,
		log:     log.With("component", "TelegramBot"),
		now:     time.Now,
		timeout: time.Minute,
	}
}

// HandleWebhook acknowledges an update immediately and processes it in the background.
func (b *Bot) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		b.log.Warn("failed to parse telegram update", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !b.allowed(msg.From.ID) {
		b.log.Warn("unauthorized telegram user", "user_id", msg.From.ID)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		b.handleMessage(ctx, msg)
	}()
}

func (b *Bot) allowed(id int64) bool {
	for _, allowed := range b.cfg.TelegramAllowedUserIDs {
		if id == allowed {
			return true
		}
	}
	return false
}

// handleMessage routes a command and sends the reply.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	text, err := b.reply(ctx, userID, msg.Text)
	if err != nil {
		b.log.Error("telegram command failed", "user_id", userID, "command", msg.Text, "error", err)
		text = errorText(err)
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(out); err != nil {
		b.log.Error("failed to send telegram reply", "chat_id", msg.Chat.ID, "error", err)
	}
}

func (b *Bot) reply(ctx context.Context, userID, text string) (string, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return helpText, nil
	}
	cmd, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch cmd {
	case "/plan":
		var plan *planner.WeeklyMealPlan
		var err error
		if len(fields) > 1 && strings.EqualFold(fields[1], "new") {
			plan, err = b.svc.GenerateWeeklyPlan(ctx, userID, b.now())
		} else {
			plan, err = b.svc.CurrentPlan(ctx, userID)
		}
		if err != nil {
			return "", err
		}
		return formatPlan(plan), nil
	case "/today":
		plan, err := b.svc.CurrentPlan(ctx, userID)
		if err != nil {
			return "", err
		}
		day := plan.Day(b.now())
		if day == nil {
			return "No meals planned for today. Send /plan new to start a new week.", nil
		}
		return formatDay(*day), nil
	case "/advice":
		res, err := b.svc.LatestQuizResult(ctx, userID)
		if err != nil {
			return "", err
		}
		return formatAdvice(res), nil
	case "/shopping":
		list, err := b.svc.ShoppingList(ctx, userID)
		if err != nil {
			return "", err
		}
		return formatShoppingList(list), nil
	case "/metrics":
		stats, err := b.svc.DailyStats(ctx, 7)
		if err != nil {
			return "", err
		}
		return formatStats(stats, metrics.GetSysHealth(filepath.Dir(b.cfg.DatabasePath))), nil
	case "/clip":
		if len(fields) < 2 {
			return "Usage: /clip URL followed by breakfast, lunch, dinner or snack when the page names no meal", nil
		}
		var category mealtemplate.Category
		if len(fields) > 2 {
			category = mealtemplate.Category(strings.ToLower(fields[2]))
		}
		post, err := b.svc.ClipTemplate(ctx, fields[1], category)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("✂️ Saved *%s* as a draft. Check nutrition and allergens, tag it and publish to add it to the catalog.", esc(post.Title)), nil
	default:
		return helpText, nil
	}
}

const helpText = "🥗 *Meal Planner*\n\n" +
	"/plan - this week's plan\n" +
	"/plan new - plan a new week starting today\n" +
	"/today - today's meals\n" +
	"/advice - tips from your last quiz\n" +
	"/shopping - shopping list for the plan\n" +
	"/metrics - generation stats\n" +
	"/clip URL meal - draft a template from a recipe page"

// errorText turns an application error into a reply. Precondition errors carry
// a message meant for the user; anything else stays generic.
func errorText(err error) string {
	switch {
	case errors.Is(err, planner.ErrQuizIncomplete):
		return "📝 Please complete the quiz first, then ask again."
	case errors.Is(err, planner.ErrNoSuitableTemplates):
		return "🤷 No suitable meal templates for your preferences. Try allowing more cooking time or complexity."
	case errors.Is(err, clipper.ErrNoRecipe):
		return "🔍 No recipe found on that page."
	default:
		return "❌ Something went wrong. Please try again later."
	}
}
