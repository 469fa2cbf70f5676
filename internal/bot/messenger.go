package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Messenger is the slice of the Telegram API the controller talks to
type Messenger interface {
	Send(chatID int64, text string, markdown bool, keyboard *Keyboard) error
	Edit(chatID int64, messageID int, text string, markdown bool, keyboard *Keyboard) error
	AnswerCallback(callbackID string) error
	SendDocument(chatID int64, name string, data []byte, caption string) error
}

// telegramMessenger sends through tgbotapi
type telegramMessenger struct {
	api *tgbotapi.BotAPI
}

func (t *telegramMessenger) Send(chatID int64, text string, markdown bool, keyboard *Keyboard) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	msg.DisableWebPagePreview = true
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	_, err := t.api.Send(msg)
	return err
}

func (t *telegramMessenger) Edit(chatID int64, messageID int, text string, markdown bool, keyboard *Keyboard) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if markdown {
		edit.ParseMode = tgbotapi.ModeMarkdown
	}
	edit.DisableWebPagePreview = true
	if keyboard != nil {
		edit.ReplyMarkup = keyboard
	}
	// Request, not Send: edits may answer with a bare boolean
	_, err := t.api.Request(edit)
	return err
}

func (t *telegramMessenger) AnswerCallback(callbackID string) error {
	_, err := t.api.Request(tgbotapi.NewCallback(callbackID, ""))
	return err
}

func (t *telegramMessenger) SendDocument(chatID int64, name string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	_, err := t.api.Send(doc)
	return err
}

// isNotModified matches Telegram's rejection of an edit that changes nothing
func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
