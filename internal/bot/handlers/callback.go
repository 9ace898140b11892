package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/care-planner/internal/bot/keyboards"
	"github.com/vladimiradmaev/care-planner/internal/bot/menus"
	"github.com/vladimiradmaev/care-planner/internal/bot/state"
	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/logger"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	api          menus.Sender
	deps         Dependencies
	stateManager state.StateManager
	views        *ViewHandler
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api menus.Sender, deps Dependencies, stateManager state.StateManager, views *ViewHandler) *CallbackHandler {
	return &CallbackHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
		views:        views,
	}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery, user *domain.User) error {
	// Answer the callback query first
	callback := tgbotapi.NewCallback(query.ID, "")
	if _, err := h.api.Request(callback); err != nil {
		return err
	}
	if query.Message == nil {
		return nil
	}
	chatID := query.Message.Chat.ID

	switch {
	case strings.HasPrefix(query.Data, keyboards.PrefixTakeMed):
		return h.handleTakeMedication(ctx, chatID, user, strings.TrimPrefix(query.Data, keyboards.PrefixTakeMed))
	case strings.HasPrefix(query.Data, keyboards.PrefixStopMed):
		return h.handleStopMedication(ctx, chatID, user, strings.TrimPrefix(query.Data, keyboards.PrefixStopMed))
	case strings.HasPrefix(query.Data, keyboards.PrefixToggleDisease):
		disease := domain.Disease(strings.TrimPrefix(query.Data, keyboards.PrefixToggleDisease))
		return h.handleToggleDisease(ctx, query.Message, user, disease)
	}

	switch query.Data {
	case keyboards.CallbackMainMenu:
		finishInput(h.stateManager, user.TelegramID)
		return menus.SendMainMenu(h.api, chatID)
	case keyboards.CallbackGlucose:
		return h.startInput(chatID, user, state.WaitingForGlucose, "")
	case keyboards.CallbackBP:
		return h.startInput(chatID, user, state.WaitingForBloodPressure, "")
	case keyboards.CallbackFood:
		return h.startInput(chatID, user, state.WaitingForFood, domain.ConditionDiabetes)
	case keyboards.CallbackBPFood:
		return h.startInput(chatID, user, state.WaitingForFood, domain.ConditionHypertension)
	case keyboards.CallbackPhoto:
		return h.startInput(chatID, user, state.WaitingForPhoto, "")
	case keyboards.CallbackActivity:
		return h.startInput(chatID, user, state.WaitingForActivity, "")
	case keyboards.CallbackWater:
		return h.startInput(chatID, user, state.WaitingForWater, "")
	case keyboards.CallbackHbA1c:
		if err := h.views.HbA1c(ctx, chatID, user); err != nil {
			return err
		}
		return h.startInput(chatID, user, state.WaitingForHbA1c, "")
	case keyboards.CallbackAddMed:
		return h.startInput(chatID, user, state.WaitingForMedication, "")
	case keyboards.CallbackReports:
		return menus.SendReportsMenu(h.api, chatID)
	case keyboards.CallbackTrends:
		return h.views.Trends(ctx, chatID, user)
	case keyboards.CallbackWeekly:
		return h.views.WeeklyReport(ctx, chatID, user)
	case keyboards.CallbackAdjust:
		return h.views.Adjustments(ctx, chatID, user)
	case keyboards.CallbackCarePlan:
		return h.views.CarePlan(ctx, chatID, user)
	case keyboards.CallbackMedications:
		return h.views.Medications(ctx, chatID, user)
	case keyboards.CallbackConditions:
		return h.views.Conditions(chatID, user)
	case keyboards.CallbackHelp:
		return menus.SendText(h.api, chatID, menus.HelpText, nil)
	default:
		return h.handleUnknownCallback(chatID, query.Data)
	}
}

func (h *CallbackHandler) startInput(chatID int64, user *domain.User, st string, condition domain.Condition) error {
	finishInput(h.stateManager, user.TelegramID)
	return startInput(h.api, h.stateManager, chatID, user.TelegramID, st, condition)
}

func parseMedicationID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid medication id %q", raw)
	}
	return uint(id), nil
}

func (h *CallbackHandler) handleTakeMedication(ctx context.Context, chatID int64, user *domain.User, raw string) error {
	id, err := parseMedicationID(raw)
	if err != nil {
		return h.handleUnknownCallback(chatID, raw)
	}
	reading, err := h.deps.Medications.LogIntake(ctx, user.ID, id)
	if err != nil {
		return replyError(h.api, chatID, err)
	}
	return menus.SendText(h.api, chatID, fmt.Sprintf("✅ Logged a dose of %s at %s", reading.Notes, reading.Timestamp.Format("15:04")), nil)
}

func (h *CallbackHandler) handleStopMedication(ctx context.Context, chatID int64, user *domain.User, raw string) error {
	id, err := parseMedicationID(raw)
	if err != nil {
		return h.handleUnknownCallback(chatID, raw)
	}
	if err := h.deps.Medications.Deactivate(ctx, user.ID, id); err != nil {
		return replyError(h.api, chatID, err)
	}
	return h.views.Medications(ctx, chatID, user)
}

func (h *CallbackHandler) handleToggleDisease(ctx context.Context, message *tgbotapi.Message, user *domain.User, disease domain.Disease) error {
	diseases := make([]domain.Disease, 0, len(user.Diseases)+1)
	removed := false
	for _, d := range user.Diseases {
		if d == disease {
			removed = true
			continue
		}
		diseases = append(diseases, d)
	}
	if !removed {
		diseases = append(diseases, disease)
	}

	if err := h.deps.Users.SetDiseases(ctx, user.ID, diseases); err != nil {
		return replyError(h.api, message.Chat.ID, err)
	}
	user.Diseases = diseases
	return h.views.RefreshConditions(message.Chat.ID, message.MessageID, user)
}

// handleUnknownCallback handles stale or malformed buttons
func (h *CallbackHandler) handleUnknownCallback(chatID int64, data string) error {
	logger.Warn("Unknown callback", "data", data)
	return menus.SendMainMenu(h.api, chatID)
}
