package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
	"github.com/liveplace/liveplace-bot/internal/domain/repository"
	"github.com/liveplace/liveplace-bot/internal/usecase"
	"github.com/liveplace/liveplace-bot/pkg/logger"
)

func (h *BotHandler) handleCommand(ctx context.Context, msg *tgbotapi.Message, sess *entity.Session) {
	chatID := msg.Chat.ID
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		h.logAction(ctx, sess.UserID, "start", map[string]any{"payload": args})
		sess.ResetWizard()
		sess.LeadStage = entity.LeadNone
		// Deep links arrive as /start go_<mode>.
		if mode, ok := strings.CutPrefix(args, "go_"); ok {
			h.runModeSearch(ctx, chatID, sess, mode)
			h.sessions.Put(sess)
			return
		}
		if err := h.sendHTML(chatID, t(sess.Lang, "start"), mainMenu(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send start: %v", err)
		}

	case "menu":
		sess.ResetWizard()
		sess.LeadStage = entity.LeadNone
		if err := h.sendHTML(chatID, t(sess.Lang, "menu_title"), mainMenu(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send menu: %v", err)
		}

	case "about":
		if err := h.sendHTML(chatID, t(sess.Lang, "about"), mainMenu(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send about: %v", err)
		}

	case "go":
		h.logAction(ctx, sess.UserID, "go", map[string]any{"query": args})
		h.runGoSearch(ctx, chatID, sess, args)

	case "repeat":
		h.logAction(ctx, sess.UserID, "repeat", nil)
		h.sendRepeatMenu(ctx, chatID, sess)

	case "health":
		if !h.isAdmin(msg.From.ID) {
			return
		}
		text := fmt.Sprintf(
			"💚 <b>Health</b>\n\n📦 Cache: %d rows\n⏱ Cache age: %ds\n🔄 Refresh interval: %ds",
			h.listings.Size(), int(h.listings.Age().Seconds()), int(h.cfg.RefreshInterval.Seconds()))
		if err := h.sendHTML(chatID, text, nil); err != nil {
			logger.ErrorLogger.Printf("Failed to send health: %v", err)
		}

	case "gs":
		if !h.isAdmin(msg.From.ID) {
			return
		}
		status := "enabled"
		if !h.cfg.SheetsEnabled {
			status = "disabled"
		}
		text := fmt.Sprintf(
			"📋 <b>Google Sheets</b>\n\nStatus: %s\nSheet: <code>%s</code>\nTab: <code>%s</code>\nRows cached: %d\nCache age: %ds",
			status, h.cfg.SheetID, h.cfg.SheetTab, h.listings.Size(), int(h.listings.Age().Seconds()))
		if err := h.sendHTML(chatID, text, nil); err != nil {
			logger.ErrorLogger.Printf("Failed to send sheets info: %v", err)
		}

	case "refresh", "reload":
		if !h.isAdmin(msg.From.ID) {
			return
		}
		rows := h.listings.Get(ctx, true)
		text := fmt.Sprintf("🔄 Cache refreshed: %d rows", len(rows))
		if err := h.sendHTML(chatID, text, nil); err != nil {
			logger.ErrorLogger.Printf("Failed to send refresh result: %v", err)
		}

	case "stats":
		if !h.isAdmin(msg.From.ID) {
			return
		}
		h.sendStatsMenu(chatID)

	default:
		if err := h.sendHTML(chatID, t(sess.Lang, "menu_hint"), mainMenu(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send command fallback: %v", err)
		}
	}
	h.sessions.Put(sess)
}

func (h *BotHandler) isAdmin(userID int64) bool {
	return h.cfg.AdminChatID != 0 && userID == h.cfg.AdminChatID
}

// runModeSearch runs a one-constraint search straight from a deep link,
// skipping the wizard.
func (h *BotHandler) runModeSearch(ctx context.Context, chatID int64, sess *entity.Session, raw string) {
	mode := usecase.NormalizeMode(raw)
	if mode == "" {
		if err := h.sendHTML(chatID, t(sess.Lang, "unknown_mode"), mainMenu(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send mode error: %v", err)
		}
		return
	}
	sess.ResetWizard()
	sess.Criteria = entity.Criteria{Mode: mode}
	h.finishSearch(ctx, chatID, sess)
}

// runGoSearch runs /go, which takes either a bare mode ("/go rent") or a
// query string ("/go mode=rent&city=Тбилиси&rooms=2&price=500-1000").
func (h *BotHandler) runGoSearch(ctx context.Context, chatID int64, sess *entity.Session, raw string) {
	if !strings.Contains(raw, "=") {
		h.runModeSearch(ctx, chatID, sess, raw)
		return
	}
	criteria, ok := parseGoQuery(raw)
	if !ok {
		if err := h.sendHTML(chatID, t(sess.Lang, "unknown_mode"), mainMenu(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send query error: %v", err)
		}
		return
	}
	sess.ResetWizard()
	sess.Criteria = criteria
	h.finishSearch(ctx, chatID, sess)
}

// parseGoQuery turns a key=value&key=value query into search criteria.
// Unknown keys and empty values are skipped; ok is false when no usable
// constraint was found.
func parseGoQuery(raw string) (entity.Criteria, bool) {
	var c entity.Criteria
	ok := false
	for _, pair := range strings.Split(raw, "&") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch key {
		case "mode":
			mode := usecase.NormalizeMode(value)
			if mode == "" {
				continue
			}
			c.Mode = mode
		case "city":
			c.City = value
		case "district":
			c.District = value
		case "rooms":
			c.Rooms = value
		case "price":
			c.Price = value
		default:
			continue
		}
		ok = true
	}
	return c, ok
}

const repeatMenuSize = 3

// sendRepeatMenu offers the user's last persisted searches as buttons.
func (h *BotHandler) sendRepeatMenu(ctx context.Context, chatID int64, sess *entity.Session) {
	records, err := h.stats.RecentSearches(ctx, sess.UserID, repeatMenuSize)
	if err != nil {
		logger.ErrorLogger.Printf("Failed to load recent searches: %v", err)
	}
	if len(records) == 0 {
		if err := h.sendHTML(chatID, t(sess.Lang, "repeat_none"), mainMenu(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send repeat fallback: %v", err)
		}
		return
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(records))
	for i, r := range records {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(repeatLabel(r), fmt.Sprintf("repeat:%d", i)),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	if err := h.sendHTML(chatID, t(sess.Lang, "repeat_header"), kb); err != nil {
		logger.ErrorLogger.Printf("Failed to send repeat menu: %v", err)
	}
}

// repeatLabel summarizes one past search on a button.
func repeatLabel(r repository.SearchRecord) string {
	parts := []string{}
	for _, p := range []string{r.Mode, r.City, r.District} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if r.Rooms != "" {
		parts = append(parts, r.Rooms+" 🛏")
	}
	switch {
	case r.Price != "":
		parts = append(parts, r.Price)
	case r.PriceMin != nil && r.PriceMax != nil:
		parts = append(parts, fmt.Sprintf("%.0f-%.0f", *r.PriceMin, *r.PriceMax))
	case r.PriceMin != nil:
		parts = append(parts, fmt.Sprintf("%.0f+", *r.PriceMin))
	case r.PriceMax != nil:
		parts = append(parts, fmt.Sprintf("-%.0f", *r.PriceMax))
	}
	if len(parts) == 0 {
		return "🔎 —"
	}
	return "🔎 " + strings.Join(parts, " • ")
}

// handleRepeatCallback replays the picked past search. The list is
// re-fetched, so a stale index after new searches lands on the freshest
// equivalent rather than erroring.
func (h *BotHandler) handleRepeatCallback(ctx context.Context, chatID int64, cb *tgbotapi.CallbackQuery, sess *entity.Session, arg string) {
	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 0 || idx >= repeatMenuSize {
		h.answerCallback(cb.ID, "")
		return
	}
	records, err := h.stats.RecentSearches(ctx, sess.UserID, repeatMenuSize)
	if err != nil {
		logger.ErrorLogger.Printf("Failed to load recent searches: %v", err)
	}
	if len(records) == 0 {
		h.answerCallback(cb.ID, "")
		return
	}
	if idx >= len(records) {
		idx = len(records) - 1
	}
	h.answerCallback(cb.ID, "🔁")

	r := records[idx]
	sess.ResetWizard()
	sess.Criteria = entity.Criteria{
		Mode:     r.Mode,
		City:     r.City,
		District: r.District,
		Rooms:    r.Rooms,
		Price:    r.Price,
		PriceMin: r.PriceMin,
		PriceMax: r.PriceMax,
	}
	h.finishSearch(ctx, chatID, sess)
}
