package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/care-planner/internal/bot/keyboards"
	"github.com/vladimiradmaev/care-planner/internal/bot/menus"
	"github.com/vladimiradmaev/care-planner/internal/bot/state"
	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/logger"
	"github.com/vladimiradmaev/care-planner/internal/services"
)

// TextHandler handles free text sent while the user is in an input state
type TextHandler struct {
	api          menus.Sender
	deps         Dependencies
	stateManager state.StateManager
}

// NewTextHandler creates a new text handler
func NewTextHandler(api menus.Sender, deps Dependencies, stateManager state.StateManager) *TextHandler {
	return &TextHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a text message
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	userState := h.stateManager.GetUserState(user.TelegramID)
	if userState == state.None || userState == "" {
		return h.handleDefaultText(message.Chat.ID)
	}
	return h.Process(ctx, message.Chat.ID, user, userState, message.Text)
}

// Process handles one input for the given state. Commands with inline
// arguments call it directly.
func (h *TextHandler) Process(ctx context.Context, chatID int64, user *domain.User, st, text string) error {
	text = strings.TrimSpace(text)

	switch st {
	case state.WaitingForGlucose:
		in, err := parseGlucose(text)
		if err != nil {
			return h.retry(chatID, "Please send a number, for example: 142 fasting")
		}
		return h.logReading(ctx, chatID, user, in)
	case state.WaitingForBloodPressure:
		in, err := parseBloodPressure(text)
		if err != nil {
			return h.retry(chatID, "Please send it as systolic/diastolic, for example: 135/85")
		}
		return h.logReading(ctx, chatID, user, in)
	case state.WaitingForActivity:
		minutes, note, err := parseValueWithNote(text)
		if err != nil {
			return h.retry(chatID, "Please send the minutes as a number, for example: 30 walking")
		}
		return h.logReading(ctx, chatID, user, services.ReadingInput{
			MetricType: domain.MetricActivityMinutes, PrimaryValue: minutes, Notes: note,
		})
	case state.WaitingForWater:
		ml, note, err := parseValueWithNote(text)
		if err != nil {
			return h.retry(chatID, "Please send the amount in ml, for example: 250")
		}
		if err := h.logReading(ctx, chatID, user, services.ReadingInput{
			MetricType: domain.MetricWaterML, PrimaryValue: ml, Notes: note,
		}); err != nil {
			return err
		}
		water, err := h.deps.Trends.WaterToday(ctx, user.ID)
		if err != nil {
			return replyError(h.api, chatID, err)
		}
		return menus.SendText(h.api, chatID, menus.FormatWater(water), nil)
	case state.WaitingForHbA1c:
		v, note, err := parseValueWithNote(strings.TrimSuffix(text, "%"))
		if err != nil {
			return h.retry(chatID, "Please send the result as a percentage, for example: 6.8")
		}
		return h.logReading(ctx, chatID, user, services.ReadingInput{
			MetricType: domain.MetricHbA1c, PrimaryValue: v, Notes: note,
		})
	case state.WaitingForFood:
		return h.analyzeFood(ctx, chatID, user, text)
	case state.WaitingForMedication:
		return h.addMedication(ctx, chatID, user, text)
	case state.WaitingForPhoto:
		return h.retry(chatID, "I'm waiting for a photo of your meal.")
	default:
		logger.Warn("Unknown conversation state", "state", st, "user_id", user.ID)
		finishInput(h.stateManager, user.TelegramID)
		return h.handleDefaultText(chatID)
	}
}

func (h *TextHandler) retry(chatID int64, hint string) error {
	markup := keyboards.BackMenu()
	return menus.SendText(h.api, chatID, hint, &markup)
}

func (h *TextHandler) logReading(ctx context.Context, chatID int64, user *domain.User, in services.ReadingInput) error {
	logged, err := h.deps.Readings.Log(ctx, user.ID, in)
	if err != nil {
		return replyError(h.api, chatID, err)
	}
	finishInput(h.stateManager, user.TelegramID)

	markup := keyboards.MainMenu()
	return menus.SendText(h.api, chatID, menus.FormatLoggedReading(logged), &markup)
}

func (h *TextHandler) analyzeFood(ctx context.Context, chatID int64, user *domain.User, text string) error {
	description, quantity := parseFood(text)
	if description == "" {
		return h.retry(chatID, prompts[state.WaitingForFood])
	}

	condition := defaultCondition(user)
	if c, ok := h.stateManager.GetTempData(user.TelegramID, state.KeyCondition); ok {
		condition = domain.Condition(c)
	}

	result, err := h.deps.Food.Analyze(ctx, user.ID, description, quantity, condition)
	if err != nil {
		return replyError(h.api, chatID, err)
	}
	finishInput(h.stateManager, user.TelegramID)

	markup := keyboards.MainMenu()
	if err := menus.SendText(h.api, chatID, menus.FormatFoodAnalysis(result), &markup); err != nil {
		return fmt.Errorf("failed to send food analysis: %w", err)
	}
	return nil
}

func (h *TextHandler) addMedication(ctx context.Context, chatID int64, user *domain.User, text string) error {
	in, err := parseMedication(text)
	if errors.Is(err, errFormat) {
		return h.retry(chatID, prompts[state.WaitingForMedication])
	}

	med, err := h.deps.Medications.Create(ctx, user.ID, in)
	if err != nil {
		return replyError(h.api, chatID, err)
	}
	finishInput(h.stateManager, user.TelegramID)

	meds, err := h.deps.Medications.ListActive(ctx, user.ID)
	if err != nil {
		return replyError(h.api, chatID, err)
	}
	markup := keyboards.MedicationMenu(meds)
	text = fmt.Sprintf("✅ Added %s\n\n%s", med.Name, menus.FormatMedications(meds))
	return menus.SendText(h.api, chatID, text, &markup)
}

// handleDefaultText handles text outside any conversation
func (h *TextHandler) handleDefaultText(chatID int64) error {
	markup := keyboards.MainMenu()
	return menus.SendText(h.api, chatID, "Choose an action from the menu or type /help.", &markup)
}
