package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
	"github.com/liveplace/liveplace-bot/pkg/logger"
)

// Start runs the long-polling loop until the context is cancelled. Each
// update is handled in its own goroutine so a slow Sheets fetch for one user
// never blocks the rest.
func (h *BotHandler) Start(ctx context.Context) {
	logger.InfoLogger.Printf("🚀 Authorized on account %s", h.username)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			switch {
			case update.Message != nil:
				go h.handleMessage(ctx, update.Message)
			case update.CallbackQuery != nil:
				go h.handleCallback(ctx, update.CallbackQuery)
			}
		}
	}
}

func (h *BotHandler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	mu := h.userLock(msg.From.ID)
	mu.Lock()
	defer mu.Unlock()

	sess := h.session(msg.From)
	text := strings.TrimSpace(msg.Text)

	if err := h.stats.RegisterUser(ctx, msg.From.ID); err != nil {
		logger.ErrorLogger.Printf("Failed to register user %d: %v", msg.From.ID, err)
	}

	if msg.IsCommand() {
		h.handleCommand(ctx, msg, sess)
		return
	}

	// A lead form in progress consumes free text before anything else.
	if sess.LeadStage != entity.LeadNone {
		h.handleLeadInput(ctx, msg, sess, text)
		return
	}

	if h.isButton(text, "btn_back") {
		h.handleBack(ctx, msg.Chat.ID, sess)
		h.sessions.Put(sess)
		return
	}

	if h.handleMenuButton(ctx, msg, sess, text) {
		h.sessions.Put(sess)
		return
	}

	if sess.Stage != entity.StageIdle {
		h.handleWizardInput(ctx, msg, sess, text)
		h.sessions.Put(sess)
		return
	}

	// Catch-all. Known button texts in other states are ignored silently,
	// anything else gets a nudge towards the menu.
	if _, known := h.knownButtons[text]; known {
		return
	}
	h.logAction(ctx, sess.UserID, "unhandled_text", map[string]any{"text": text})
	if err := h.sendHTML(msg.Chat.ID, t(sess.Lang, "menu_hint"), mainMenu(sess.Lang)); err != nil {
		logger.ErrorLogger.Printf("Failed to send menu hint: %v", err)
	}
}

// isButton reports whether text matches the key's label in any language.
func (h *BotHandler) isButton(text, key string) bool {
	_, ok := buttonTexts(key)[text]
	return ok
}

// handleMenuButton dispatches main-menu reply buttons. Returns false when
// the text is not a menu button.
func (h *BotHandler) handleMenuButton(ctx context.Context, msg *tgbotapi.Message, sess *entity.Session, text string) bool {
	chatID := msg.Chat.ID
	switch {
	case h.isButton(text, "btn_fast"):
		h.logAction(ctx, sess.UserID, "quick_picks", nil)
		h.startQuickPicks(ctx, chatID, sess)
	case h.isButton(text, "btn_search"):
		h.logAction(ctx, sess.UserID, "search_start", nil)
		h.startWizard(chatID, sess)
	case h.isButton(text, "btn_latest"):
		h.logAction(ctx, sess.UserID, "latest", nil)
		h.showLatest(ctx, chatID, sess)
	case h.isButton(text, "btn_favs"):
		h.logAction(ctx, sess.UserID, "favorites_open", nil)
		h.showFavorites(ctx, chatID, sess)
	case h.isButton(text, "btn_language"):
		if err := h.sendHTML(chatID, t(sess.Lang, "choose_lang"), languageKeyboard()); err != nil {
			logger.ErrorLogger.Printf("Failed to send language keyboard: %v", err)
		}
	case h.isButton(text, "btn_about"):
		if err := h.sendHTML(chatID, t(sess.Lang, "about"), mainMenu(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send about: %v", err)
		}
	case h.isButton(text, "btn_home"):
		sess.ResetWizard()
		if err := h.sendHTML(chatID, t(sess.Lang, "menu_title"), mainMenu(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send menu: %v", err)
		}
	default:
		return false
	}
	return true
}

func (h *BotHandler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.From == nil || cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}
	mu := h.userLock(cb.From.ID)
	mu.Lock()
	defer mu.Unlock()

	sess := h.session(cb.From)
	chatID := cb.Message.Chat.ID

	action, arg := cb.Data, ""
	if i := strings.IndexByte(cb.Data, ':'); i >= 0 {
		action, arg = cb.Data[:i], cb.Data[i+1:]
	}

	switch action {
	case "like":
		h.handleLike(ctx, chatID, cb, sess, arg)
	case "dislike":
		h.handleDislike(ctx, chatID, cb, sess, arg)
	case "fav_add":
		h.handleFavAdd(ctx, cb, sess, arg)
	case "fav_del":
		h.handleFavDel(ctx, cb, sess, arg)
	case "lang":
		h.handleLangSwitch(chatID, cb, sess, arg)
	case "repeat":
		h.handleRepeatCallback(ctx, chatID, cb, sess, arg)
	case "stats":
		h.handleStatsCallback(ctx, chatID, cb, arg)
	case "export":
		h.handleExportCallback(ctx, chatID, cb, arg)
	default:
		h.answerCallback(cb.ID, "")
	}
	h.sessions.Put(sess)
}

func (h *BotHandler) handleLangSwitch(chatID int64, cb *tgbotapi.CallbackQuery, sess *entity.Session, lang string) {
	if _, ok := T["menu_title"][lang]; ok {
		sess.Lang = lang
	}
	h.answerCallback(cb.ID, "")
	if err := h.sendHTML(chatID, t(sess.Lang, "menu_title"), mainMenu(sess.Lang)); err != nil {
		logger.ErrorLogger.Printf("Failed to send menu after language switch: %v", err)
	}
}

// logAction records a UI event, swallowing storage errors.
func (h *BotHandler) logAction(ctx context.Context, userID int64, action string, data map[string]any) {
	if err := h.stats.LogAction(ctx, userID, action, data); err != nil {
		logger.ErrorLogger.Printf("Failed to log action %q: %v", action, err)
	}
}
