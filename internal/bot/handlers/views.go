package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/care-planner/internal/bot/keyboards"
	"github.com/vladimiradmaev/care-planner/internal/bot/menus"
	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/services"
)

// ViewHandler renders the read-only views shared by commands and buttons
type ViewHandler struct {
	api  menus.Sender
	deps Dependencies
}

func NewViewHandler(api menus.Sender, deps Dependencies) *ViewHandler {
	return &ViewHandler{api: api, deps: deps}
}

func (h *ViewHandler) send(chatID int64, text string) error {
	markup := keyboards.BackMenu()
	return menus.SendText(h.api, chatID, text, &markup)
}

func (h *ViewHandler) Trends(ctx context.Context, chatID int64, user *domain.User) error {
	report, err := h.deps.Trends.TrendReport(ctx, user.ID)
	if err != nil {
		return replyError(h.api, chatID, err)
	}
	return h.send(chatID, menus.FormatTrendReport(report))
}

func (h *ViewHandler) WeeklyReport(ctx context.Context, chatID int64, user *domain.User) error {
	report, err := h.deps.Trends.WeeklyReport(ctx, user.ID)
	if err != nil {
		return replyError(h.api, chatID, err)
	}
	return h.send(chatID, menus.FormatWeeklyReport(report))
}

func (h *ViewHandler) Adjustments(ctx context.Context, chatID int64, user *domain.User) error {
	plan, err := h.deps.Trends.Adjustments(ctx, user.ID)
	if err != nil {
		return replyError(h.api, chatID, err)
	}
	return h.send(chatID, menus.FormatAdjustments(plan))
}

func (h *ViewHandler) CarePlan(ctx context.Context, chatID int64, user *domain.User) error {
	plan, err := h.deps.Trends.CarePlan(ctx, user.ID)
	if err != nil {
		return replyError(h.api, chatID, err)
	}
	return h.send(chatID, menus.FormatCarePlan(plan))
}

func (h *ViewHandler) HbA1c(ctx context.Context, chatID int64, user *domain.User) error {
	status, err := h.deps.Trends.HbA1cStatus(ctx, user.ID)
	if err != nil {
		return replyError(h.api, chatID, err)
	}
	return h.send(chatID, menus.FormatHbA1c(status))
}

func (h *ViewHandler) Medications(ctx context.Context, chatID int64, user *domain.User) error {
	meds, err := h.deps.Medications.ListActive(ctx, user.ID)
	if err != nil {
		return replyError(h.api, chatID, err)
	}
	markup := keyboards.MedicationMenu(meds)
	return menus.SendText(h.api, chatID, menus.FormatMedications(meds), &markup)
}

func (h *ViewHandler) Conditions(chatID int64, user *domain.User) error {
	markup := keyboards.ConditionsMenu(services.KnownDiseases, user)
	return menus.SendText(h.api, chatID, conditionsText(user), &markup)
}

// RefreshConditions redraws the conditions keyboard in place after a toggle
func (h *ViewHandler) RefreshConditions(chatID int64, messageID int, user *domain.User) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, conditionsText(user),
		keyboards.ConditionsMenu(services.KnownDiseases, user))
	_, err := h.api.Send(edit)
	return err
}

func conditionsText(user *domain.User) string {
	if len(user.Diseases) == 0 {
		return "Which conditions do you manage? Tap to select."
	}
	labels := make([]string, 0, len(user.Diseases))
	for _, d := range user.Diseases {
		labels = append(labels, keyboards.DiseaseLabel(d))
	}
	return "You manage: " + strings.Join(labels, ", ") + "\nTap to change."
}
