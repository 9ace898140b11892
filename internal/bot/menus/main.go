package menus

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/care-planner/internal/bot/keyboards"
)

// Sender is the part of the Telegram API the bot writes through
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

const mainMenuText = `🩺 *Care Planner* helps you manage diabetes, hypertension and heart health

• Log glucose, blood pressure, activity, water and HbA1c
• Check meals for glucose spikes or sodium
• Track medications and adherence
• Get weekly trends and care plan adjustments

⚠️ *Important:* this is supportive information only, always consult your doctor!

Choose an action:`

// HelpText lists the commands
const HelpText = `Commands:
/start - main menu
/glucose 142 fasting - log blood glucose (mg/dL); context: fasting or after meal
/bp 135/85 - log blood pressure
/food 2 idly with sambar | large - analyze a meal for diabetes (quantity after |)
/bpfood pickle and rice - analyze a meal for hypertension
/activity 30 walking - log activity minutes
/water 250 - log water (ml)
/hba1c 6.8 - log an HbA1c result (%)
/med - list medications and log doses
/trends - weekly trend report
/summary - weekly diet, exercise and adherence scores
/adjust - care plan adjustments for this week
/plan - daily care plan
/conditions diabetes, hypertension - set your conditions

You can also send a food photo, with an optional caption describing it.`

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api Sender, chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, mainMenuText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

// SendText sends plain text with an optional keyboard
func SendText(api Sender, chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	_, err := api.Send(msg)
	return err
}

// SendReportsMenu sends the reports menu
func SendReportsMenu(api Sender, chatID int64) error {
	markup := keyboards.ReportsMenu()
	return SendText(api, chatID, "Which report would you like?", &markup)
}
