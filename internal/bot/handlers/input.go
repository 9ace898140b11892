package handlers

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/care-planner/internal/bot/keyboards"
	"github.com/vladimiradmaev/care-planner/internal/bot/menus"
	"github.com/vladimiradmaev/care-planner/internal/bot/state"
	"github.com/vladimiradmaev/care-planner/internal/domain"
	apperrors "github.com/vladimiradmaev/care-planner/internal/errors"
	"github.com/vladimiradmaev/care-planner/internal/logger"
	"github.com/vladimiradmaev/care-planner/internal/services"
)

var prompts = map[string]string{
	state.WaitingForGlucose:       "🩸 Send your glucose in mg/dL, optionally with the context.\nExamples: 142 fasting, 180 after meal",
	state.WaitingForBloodPressure: "❤️ Send your blood pressure as systolic/diastolic.\nExample: 135/85",
	state.WaitingForFood:          "🍽️ Describe the meal. Add the quantity after a | if you like.\nExample: 2 idly with sambar | large",
	state.WaitingForActivity:      "🚶 How many minutes were you active? You can add what you did.\nExample: 30 walking",
	state.WaitingForWater:         "💧 How much water did you drink, in ml?\nExample: 250",
	state.WaitingForHbA1c:         "🧪 Send your HbA1c result in %.\nExample: 6.8",
	state.WaitingForMedication:    "💊 Send the medication as: name, dosage, frequency, times\nExample: Metformin, 500 mg, twice daily, 08:00 20:00",
	state.WaitingForPhoto:         "📷 Send a photo of your meal. A caption describing it improves the estimate.",
}

// startInput moves the user into an input state and asks for the value
func startInput(api menus.Sender, sm state.StateManager, chatID, telegramID int64, st string, condition domain.Condition) error {
	sm.SetUserState(telegramID, st)
	if condition != "" {
		sm.SetTempData(telegramID, state.KeyCondition, string(condition))
	}
	markup := keyboards.BackMenu()
	return menus.SendText(api, chatID, prompts[st], &markup)
}

// finishInput clears the conversation state once an input has been handled
func finishInput(sm state.StateManager, telegramID int64) {
	sm.ClearUserState(telegramID)
	sm.ClearTempData(telegramID)
}

// replyError turns a service error into a message the user can act on.
// Only unexpected errors are returned to the caller.
func replyError(api menus.Sender, chatID int64, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation, apperrors.ErrorTypeUnsupported:
			return menus.SendText(api, chatID, "⚠️ "+appErr.Message, nil)
		case apperrors.ErrorTypeNotFound:
			return menus.SendText(api, chatID, "I couldn't find that. It may have been removed.", nil)
		case apperrors.ErrorTypeRateLimit, apperrors.ErrorTypeExternal, apperrors.ErrorTypeTimeout:
			logger.Warn("Bot request failed on external service", "error", err)
			return menus.SendText(api, chatID, "The analysis service is busy right now. Please try again in a few minutes.", nil)
		}
	}
	logger.Error("Bot request failed", "error", err)
	if sendErr := menus.SendText(api, chatID, "Something went wrong. Please try again.", nil); sendErr != nil {
		return sendErr
	}
	return err
}

var errFormat = errors.New("invalid format")

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, errFormat
	}
	return v, nil
}

// parseValueWithNote splits "30 walking" into the number and the free text after it
func parseValueWithNote(text string) (float64, string, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, "", errFormat
	}
	v, err := parseNumber(fields[0])
	if err != nil {
		return 0, "", err
	}
	return v, strings.Join(fields[1:], " "), nil
}

// parseGlucose reads "142", "142 fasting" or "180 after meal"
func parseGlucose(text string) (services.ReadingInput, error) {
	v, note, err := parseValueWithNote(text)
	if err != nil {
		return services.ReadingInput{}, err
	}
	in := services.ReadingInput{MetricType: domain.MetricGlucose, PrimaryValue: v}
	switch strings.ToLower(note) {
	case "":
	case "fasting", "fast", "fbs":
		in.Context = domain.ContextFasting
	case "after meal", "after_meal", "aftermeal", "pp", "post meal", "postprandial":
		in.Context = domain.ContextAfterMeal
	default:
		in.Notes = note
	}
	return in, nil
}

// parseBloodPressure reads "135/85" or "135 85"
func parseBloodPressure(text string) (services.ReadingInput, error) {
	parts := strings.FieldsFunc(text, func(r rune) bool { return r == '/' || r == ' ' })
	if len(parts) < 2 {
		return services.ReadingInput{}, errFormat
	}
	systolic, err := parseNumber(parts[0])
	if err != nil {
		return services.ReadingInput{}, err
	}
	diastolic, err := parseNumber(parts[1])
	if err != nil {
		return services.ReadingInput{}, err
	}
	return services.ReadingInput{
		MetricType:     domain.MetricBloodPressure,
		PrimaryValue:   systolic,
		SecondaryValue: &diastolic,
		Notes:          strings.Join(parts[2:], " "),
	}, nil
}

// parseFood splits "description | quantity"
func parseFood(text string) (description, quantity string) {
	description, quantity, _ = strings.Cut(text, "|")
	return strings.TrimSpace(description), strings.TrimSpace(quantity)
}

// parseMedication reads "name, dosage, frequency, 08:00 20:00"
func parseMedication(text string) (services.MedicationInput, error) {
	parts := strings.Split(text, ",")
	if len(parts) < 3 {
		return services.MedicationInput{}, errFormat
	}
	in := services.MedicationInput{
		Name:      strings.TrimSpace(parts[0]),
		Dosage:    strings.TrimSpace(parts[1]),
		Frequency: strings.TrimSpace(parts[2]),
	}
	if len(parts) > 3 {
		in.Times = strings.Fields(strings.Join(parts[3:], " "))
	}
	return in, nil
}

// parseDiseases reads a comma separated list of condition names
func parseDiseases(text string) ([]domain.Disease, error) {
	var diseases []domain.Disease
	for _, part := range strings.Split(text, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, ok := services.ParseDisease(part)
		if !ok {
			return nil, fmt.Errorf("%w: unknown condition %q", errFormat, strings.TrimSpace(part))
		}
		if !slices.Contains(diseases, d) {
			diseases = append(diseases, d)
		}
	}
	return diseases, nil
}

// defaultCondition picks the meal analysis mode for a user who didn't choose one
func defaultCondition(user *domain.User) domain.Condition {
	if user.HasDisease(domain.DiseaseHypertension) && !user.HasDisease(domain.DiseaseDiabetes) {
		return domain.ConditionHypertension
	}
	return domain.ConditionDiabetes
}
