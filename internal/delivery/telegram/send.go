package telegram

import (
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/liveplace/liveplace-bot/pkg/logger"
)

const albumRetries = 3

// Errors Telegram reports when a photo URL itself is broken. Retrying
// cannot help, the caller falls back to a text-only card.
var permanentMediaErrors = []string{
	"WEBPAGE_CURL_FAILED",
	"WEBPAGE_MEDIA_EMPTY",
	"FILE_REFERENCE",
	"wrong file identifier",
}

// sendHTML sends an HTML-formatted text message with an optional keyboard.
func (h *BotHandler) sendHTML(chatID int64, text string, keyboard interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	_, err := h.bot.Send(msg)
	return err
}

// sendMediaAlbum sends the card text as the caption of a photo album.
// Transient failures are retried with backoff; URL-level failures are
// reported back so the caller can degrade to text.
func (h *BotHandler) sendMediaAlbum(chatID int64, caption string, photos []string) error {
	media := make([]interface{}, 0, len(photos))
	for i, url := range photos {
		photo := tgbotapi.NewInputMediaPhoto(tgbotapi.FileURL(url))
		if i == 0 {
			photo.Caption = caption
			photo.ParseMode = tgbotapi.ModeHTML
		}
		media = append(media, photo)
	}

	group := tgbotapi.NewMediaGroup(chatID, media)
	var err error
	for attempt := 1; attempt <= albumRetries; attempt++ {
		if _, err = h.bot.SendMediaGroup(group); err == nil {
			return nil
		}
		if isPermanentMediaError(err) {
			return err
		}
		logger.ErrorLogger.Printf("Media album attempt %d/%d failed: %v", attempt, albumRetries, err)
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	return err
}

func isPermanentMediaError(err error) bool {
	if err == nil {
		return false
	}
	text := err.Error()
	for _, marker := range permanentMediaErrors {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// setReaction puts an emoji reaction on a user message. The library has no
// typed helper for reactions, so the raw method is called directly. Failures
// are cosmetic and only logged.
func (h *BotHandler) setReaction(chatID int64, messageID int, emoji string) {
	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", chatID)
	params.AddNonZero("message_id", messageID)
	params["reaction"] = `[{"type":"emoji","emoji":"` + emoji + `"}]`
	if _, err := h.bot.MakeRequest("setMessageReaction", params); err != nil {
		logger.ErrorLogger.Printf("Failed to set reaction: %v", err)
	}
}

// answerCallback acknowledges a callback query, optionally with a toast.
func (h *BotHandler) answerCallback(callbackID, text string) {
	cb := tgbotapi.NewCallback(callbackID, text)
	if _, err := h.bot.Request(cb); err != nil {
		logger.ErrorLogger.Printf("Failed to answer callback: %v", err)
	}
}

// sendDocument uploads an in-memory file to the chat.
func (h *BotHandler) sendDocument(chatID int64, name string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	_, err := h.bot.Send(doc)
	return err
}
