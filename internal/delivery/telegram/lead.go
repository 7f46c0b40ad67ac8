package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
	"github.com/liveplace/liveplace-bot/pkg/logger"
)

const (
	leadSendRetries = 3
	leadSendDelay   = 2 * time.Second
)

// handleLeadInput consumes one answer of the two-step lead form.
func (h *BotHandler) handleLeadInput(ctx context.Context, msg *tgbotapi.Message, sess *entity.Session, text string) {
	chatID := msg.Chat.ID

	// Backing out of the form returns the user to the card they were on.
	if h.isButton(text, "btn_back") || h.isButton(text, "btn_home") {
		sess.LeadStage = entity.LeadNone
		sess.LeadName = ""
		h.sessions.Put(sess)
		h.showCurrent(ctx, chatID, sess)
		return
	}

	switch sess.LeadStage {
	case entity.LeadAwaitingName:
		sess.LeadName = text
		sess.LeadStage = entity.LeadAwaitingPhone
		if err := h.sendHTML(chatID, t(sess.Lang, "lead_phone"), nil); err != nil {
			logger.ErrorLogger.Printf("Failed to send phone prompt: %v", err)
		}

	case entity.LeadAwaitingPhone:
		lead := entity.NewLead(sess.UserID, sess.LeadName, text, sess.LeadAd)
		h.deliverLead(ctx, lead)

		sess.LeadStage = entity.LeadNone
		sess.LeadName = ""
		if err := h.sendHTML(chatID, t(sess.Lang, "lead_done"), mainMenu(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send lead confirmation: %v", err)
		}

		// Move on past the liked listing.
		sess.Cursor = sess.LeadIndex
		sess.Advance()
		h.showCurrent(ctx, chatID, sess)
	}
	h.sessions.Put(sess)
}

// deliverLead persists the lead and forwards it to the feedback channel,
// retrying the forward a few times. Persistence failure does not block the
// forward and vice versa.
func (h *BotHandler) deliverLead(ctx context.Context, lead entity.Lead) {
	if err := h.stats.LogLead(ctx, lead); err != nil {
		logger.ErrorLogger.Printf("Failed to persist lead %s: %v", lead.ID, err)
	}

	if h.cfg.FeedbackChatID == 0 {
		return
	}
	text := formatLeadNotice(lead)
	var err error
	for attempt := 1; attempt <= leadSendRetries; attempt++ {
		if err = h.sendHTML(h.cfg.FeedbackChatID, text, nil); err == nil {
			logger.InfoLogger.Printf("📨 Lead %s delivered to feedback channel", lead.ID)
			return
		}
		logger.ErrorLogger.Printf("Lead delivery attempt %d/%d failed: %v", attempt, leadSendRetries, err)
		time.Sleep(leadSendDelay)
	}
	logger.ErrorLogger.Printf("❌ Giving up on lead %s delivery: %v", lead.ID, err)
}

func formatLeadNotice(lead entity.Lead) string {
	l := lead.Listing
	return fmt.Sprintf(
		"🔥 <b>Новая заявка!</b>\n\n"+
			"👤 Имя: %s\n📱 Телефон: %s\n🆔 Telegram ID: %d\n\n"+
			"<b>Объявление:</b>\n🏠 %s\n📍 %s, %s\n💰 %s\n☎️ Владелец: %s",
		tgbotapi.EscapeText(tgbotapi.ModeHTML, lead.Name),
		tgbotapi.EscapeText(tgbotapi.ModeHTML, lead.Phone),
		lead.UserID,
		tgbotapi.EscapeText(tgbotapi.ModeHTML, l.Title("ru")),
		tgbotapi.EscapeText(tgbotapi.ModeHTML, l.City),
		tgbotapi.EscapeText(tgbotapi.ModeHTML, l.District),
		tgbotapi.EscapeText(tgbotapi.ModeHTML, l.Price),
		tgbotapi.EscapeText(tgbotapi.ModeHTML, l.Phone),
	)
}
