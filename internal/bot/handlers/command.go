package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/care-planner/internal/bot/menus"
	"github.com/vladimiradmaev/care-planner/internal/bot/state"
	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/logger"
)

// inputCommands map a command to the input state it collects
var inputCommands = map[string]string{
	"glucose":  state.WaitingForGlucose,
	"bp":       state.WaitingForBloodPressure,
	"food":     state.WaitingForFood,
	"bpfood":   state.WaitingForFood,
	"activity": state.WaitingForActivity,
	"water":    state.WaitingForWater,
	"hba1c":    state.WaitingForHbA1c,
}

// CommandHandler handles bot commands
type CommandHandler struct {
	api          menus.Sender
	deps         Dependencies
	stateManager state.StateManager
	text         *TextHandler
	views        *ViewHandler
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api menus.Sender, deps Dependencies, stateManager state.StateManager, text *TextHandler, views *ViewHandler) *CommandHandler {
	return &CommandHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
		text:         text,
		views:        views,
	}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	command := message.Command()
	args := strings.TrimSpace(message.CommandArguments())
	chatID := message.Chat.ID
	logger.WithContext(ctx).Info("Handling command", "command", command, "user_id", user.ID)

	if st, ok := inputCommands[command]; ok {
		var condition domain.Condition
		switch command {
		case "food":
			condition = domain.ConditionDiabetes
		case "bpfood":
			condition = domain.ConditionHypertension
		}
		if args == "" {
			if command == "hba1c" {
				if err := h.views.HbA1c(ctx, chatID, user); err != nil {
					return err
				}
			}
			return startInput(h.api, h.stateManager, chatID, user.TelegramID, st, condition)
		}
		finishInput(h.stateManager, user.TelegramID)
		if condition != "" {
			h.stateManager.SetTempData(user.TelegramID, state.KeyCondition, string(condition))
		}
		return h.text.Process(ctx, chatID, user, st, args)
	}

	switch command {
	case "start":
		finishInput(h.stateManager, user.TelegramID)
		return menus.SendMainMenu(h.api, chatID)
	case "help":
		return menus.SendText(h.api, chatID, menus.HelpText, nil)
	case "med":
		if args != "" {
			return h.text.Process(ctx, chatID, user, state.WaitingForMedication, args)
		}
		return h.views.Medications(ctx, chatID, user)
	case "trends":
		return h.views.Trends(ctx, chatID, user)
	case "summary":
		return h.views.WeeklyReport(ctx, chatID, user)
	case "adjust":
		return h.views.Adjustments(ctx, chatID, user)
	case "plan":
		return h.views.CarePlan(ctx, chatID, user)
	case "conditions":
		return h.handleConditions(ctx, chatID, user, args)
	default:
		return h.handleUnknownCommand(chatID)
	}
}

func (h *CommandHandler) handleConditions(ctx context.Context, chatID int64, user *domain.User, args string) error {
	if args == "" {
		return h.views.Conditions(chatID, user)
	}
	diseases, err := parseDiseases(args)
	if err != nil {
		return menus.SendText(h.api, chatID, "I know these conditions: diabetes, hypertension, heart disease.", nil)
	}
	if err := h.deps.Users.SetDiseases(ctx, user.ID, diseases); err != nil {
		return replyError(h.api, chatID, err)
	}
	user.Diseases = diseases
	return h.views.Conditions(chatID, user)
}

// handleUnknownCommand handles unknown commands
func (h *CommandHandler) handleUnknownCommand(chatID int64) error {
	return menus.SendText(h.api, chatID, "Unknown command. Use /help to see what I can do.", nil)
}
