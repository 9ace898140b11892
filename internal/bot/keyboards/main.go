package keyboards

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/care-planner/internal/domain"
)

// Callback data
const (
	CallbackMainMenu    = "main_menu"
	CallbackGlucose     = "log_glucose"
	CallbackBP          = "log_bp"
	CallbackFood        = "analyze_food"
	CallbackBPFood      = "analyze_bp_food"
	CallbackPhoto       = "analyze_photo"
	CallbackActivity    = "log_activity"
	CallbackWater       = "log_water"
	CallbackHbA1c       = "log_hba1c"
	CallbackReports     = "reports"
	CallbackTrends      = "trends"
	CallbackWeekly      = "weekly_report"
	CallbackAdjust      = "adjustments"
	CallbackCarePlan    = "care_plan"
	CallbackMedications = "medications"
	CallbackAddMed      = "add_medication"
	CallbackConditions  = "conditions"
	CallbackHelp        = "help"
	PrefixTakeMed       = "take_med:"
	PrefixStopMed       = "stop_med:"
	PrefixToggleDisease = "toggle_disease:"
)

func backRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", CallbackMainMenu),
	)
}

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🩸 Glucose", CallbackGlucose),
			tgbotapi.NewInlineKeyboardButtonData("❤️ Blood pressure", CallbackBP),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍽️ Meal", CallbackFood),
			tgbotapi.NewInlineKeyboardButtonData("🧂 Meal (BP)", CallbackBPFood),
			tgbotapi.NewInlineKeyboardButtonData("📷 Photo", CallbackPhoto),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚶 Activity", CallbackActivity),
			tgbotapi.NewInlineKeyboardButtonData("💧 Water", CallbackWater),
			tgbotapi.NewInlineKeyboardButtonData("🧪 HbA1c", CallbackHbA1c),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💊 Medications", CallbackMedications),
			tgbotapi.NewInlineKeyboardButtonData("📊 Reports", CallbackReports),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ My conditions", CallbackConditions),
			tgbotapi.NewInlineKeyboardButtonData("❓ Help", CallbackHelp),
		),
	)
}

// ReportsMenu lists the derived reports
func ReportsMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📈 Trends", CallbackTrends),
			tgbotapi.NewInlineKeyboardButtonData("🗓️ Weekly report", CallbackWeekly),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔧 Adjustments", CallbackAdjust),
			tgbotapi.NewInlineKeyboardButtonData("📋 Care plan", CallbackCarePlan),
		),
		backRow(),
	)
}

// BackMenu is a single button back to the main menu
func BackMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(backRow())
}

// MedicationMenu lists active medications with take and stop buttons
func MedicationMenu(meds []domain.Medication) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, m := range meds {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Took "+m.Name, fmt.Sprintf("%s%d", PrefixTakeMed, m.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Stop", fmt.Sprintf("%s%d", PrefixStopMed, m.ID)),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➕ Add medication", CallbackAddMed)),
		backRow(),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// ConditionsMenu toggles each known condition
func ConditionsMenu(known []domain.Disease, user *domain.User) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, d := range known {
		mark := "⬜"
		if user.HasDisease(d) {
			mark = "✅"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mark+" "+DiseaseLabel(d), PrefixToggleDisease+string(d)),
		))
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// DiseaseLabel is the display name of a condition
func DiseaseLabel(d domain.Disease) string {
	switch d {
	case domain.DiseaseDiabetes:
		return "Type 2 diabetes"
	case domain.DiseaseHypertension:
		return "Hypertension"
	case domain.DiseaseHeart:
		return "Heart disease"
	}
	return string(d)
}
