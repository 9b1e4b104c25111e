package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-delivery-bot/internal/flow"
	"telegram-delivery-bot/internal/models"
)

// Markup renders the flow's keyboard hint into Telegram reply markup.
// KeyboardNone returns nil: the previous keyboard stays as it is.
func Markup(k flow.Keyboard) interface{} {
	switch k {
	case flow.KeyboardRemove:
		return tgbotapi.NewRemoveKeyboard(false)

	case flow.KeyboardCancel:
		return tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(flow.BtnCancel),
			),
		)

	case flow.KeyboardContact:
		kb := tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButtonContact(flow.BtnSharePhone),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(flow.BtnCancel),
			),
		)
		kb.OneTimeKeyboard = true
		return kb

	case flow.KeyboardLocation:
		kb := tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButtonLocation(flow.BtnShareLocation),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(flow.BtnCancel),
			),
		)
		kb.OneTimeKeyboard = true
		return kb

	case flow.KeyboardServices:
		return tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(models.ServiceFood),
				tgbotapi.NewKeyboardButton(models.ServiceParcel),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(models.ServiceCourier),
				tgbotapi.NewKeyboardButton(flow.BtnCancel),
			),
		)

	case flow.KeyboardConfirm:
		return tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(flow.BtnConfirm),
				tgbotapi.NewKeyboardButton(flow.BtnReject),
			),
		)
	}
	return nil
}
