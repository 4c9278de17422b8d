package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/attestiz/internal/bank"
	"github.com/abhisek/attestiz/internal/session"
)

// questionKeyboard turns the action rows of v into inline buttons. It
// returns nil when there is nothing to press.
func questionKeyboard(v session.View) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range v.Actions {
		if len(row) == 0 {
			continue
		}
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, a := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(a.Label, ActionData(a)))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	if len(rows) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// roleKeyboard offers one button per role.
func roleKeyboard(roles []bank.RoleSet) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(roles))
	for _, r := range roles {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(r.Title, RoleData(r.Slug)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
