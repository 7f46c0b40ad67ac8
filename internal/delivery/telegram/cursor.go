package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
	"github.com/liveplace/liveplace-bot/internal/usecase"
	"github.com/liveplace/liveplace-bot/pkg/logger"
)

// feedLimit caps the unfiltered feeds (quick picks, latest) at the 20 most
// recently published listings.
const feedLimit = 20

// showCurrent renders the listing under the cursor as a photo album with an
// action keyboard, degrading to a text card when the photos are unusable.
func (h *BotHandler) showCurrent(ctx context.Context, chatID int64, sess *entity.Session) {
	listing, ok := sess.Current()
	if !ok {
		if err := h.sendHTML(chatID, t(sess.Lang, "viewed_all"), mainMenu(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send exhausted notice: %v", err)
		}
		return
	}

	caption := formatCard(listing, sess.Lang) +
		fmt.Sprintf("\n\n%s", fmt.Sprintf(t(sess.Lang, "card_counter"), sess.Cursor+1, len(sess.Results)))
	keyboard := cardKeyboard(sess.Lang, sess.Cursor, sess.IsFavorite(listing.IdentityHash()))

	photos := collectPhotos(listing)
	if len(photos) > 0 {
		if err := h.sendMediaAlbum(chatID, caption, photos); err != nil {
			logger.ErrorLogger.Printf("Falling back to text card: %v", err)
			caption = t(sess.Lang, "photos_broken") + "\n\n" + caption
			if err := h.sendHTML(chatID, caption, keyboard); err != nil {
				logger.ErrorLogger.Printf("Failed to send text card: %v", err)
			}
			return
		}
		// Albums cannot carry inline keyboards, so the actions ride on a
		// follow-up message.
		if err := h.sendHTML(chatID, t(sess.Lang, "choose_action"), keyboard); err != nil {
			logger.ErrorLogger.Printf("Failed to send card actions: %v", err)
		}
		return
	}

	if err := h.sendHTML(chatID, caption, keyboard); err != nil {
		logger.ErrorLogger.Printf("Failed to send text card: %v", err)
	}
}

// startQuickPicks shows the freshest listings with no filters.
func (h *BotHandler) startQuickPicks(ctx context.Context, chatID int64, sess *entity.Session) {
	rows := usecase.SortByPublishedDesc(h.listings.Get(ctx, false))
	if len(rows) > feedLimit {
		rows = rows[:feedLimit]
	}
	if len(rows) == 0 {
		if err := h.sendHTML(chatID, t(sess.Lang, "no_listings"), mainMenu(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send empty notice: %v", err)
		}
		return
	}
	sess.ResetWizard()
	sess.SetResults(rows)
	if err := h.sendHTML(chatID, t(sess.Lang, "quick_header"), mainMenu(sess.Lang)); err != nil {
		logger.ErrorLogger.Printf("Failed to send quick picks header: %v", err)
	}
	h.showCurrent(ctx, chatID, sess)
}

// showLatest shows the most recently published listings, capped.
func (h *BotHandler) showLatest(ctx context.Context, chatID int64, sess *entity.Session) {
	rows := usecase.SortByPublishedDesc(h.listings.Get(ctx, false))
	if len(rows) > feedLimit {
		rows = rows[:feedLimit]
	}
	if len(rows) == 0 {
		if err := h.sendHTML(chatID, t(sess.Lang, "no_listings"), mainMenu(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send empty notice: %v", err)
		}
		return
	}
	sess.ResetWizard()
	sess.SetResults(rows)
	h.showCurrent(ctx, chatID, sess)
}

// showFavorites loads the saved cards into the cursor.
func (h *BotHandler) showFavorites(ctx context.Context, chatID int64, sess *entity.Session) {
	if len(sess.Favorites) == 0 {
		if err := h.sendHTML(chatID, t(sess.Lang, "no_favs"), mainMenu(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send favorites notice: %v", err)
		}
		return
	}
	rows := make([]entity.Listing, 0, len(sess.Favorites))
	for _, f := range sess.Favorites {
		rows = append(rows, f.Listing)
	}
	sess.ResetWizard()
	sess.SetResults(rows)
	h.showCurrent(ctx, chatID, sess)
}

// handleLike starts the lead form for the liked listing.
func (h *BotHandler) handleLike(ctx context.Context, chatID int64, cb *tgbotapi.CallbackQuery, sess *entity.Session, arg string) {
	idx, ok := cursorIndex(sess, arg)
	if !ok {
		h.answerCallback(cb.ID, "")
		return
	}
	h.answerCallback(cb.ID, "❤️")
	h.setReaction(chatID, cb.Message.MessageID, "❤")
	h.logAction(ctx, sess.UserID, "like", map[string]any{"index": idx})

	sess.LeadStage = entity.LeadAwaitingName
	sess.LeadIndex = idx
	sess.LeadAd = sess.Results[idx]
	if err := h.sendHTML(chatID, t(sess.Lang, "lead_intro"), tgbotapi.NewRemoveKeyboard(false)); err != nil {
		logger.ErrorLogger.Printf("Failed to send lead intro: %v", err)
	}
}

// handleDislike advances the cursor past the rejected listing.
func (h *BotHandler) handleDislike(ctx context.Context, chatID int64, cb *tgbotapi.CallbackQuery, sess *entity.Session, arg string) {
	idx, ok := cursorIndex(sess, arg)
	if !ok {
		h.answerCallback(cb.ID, "")
		return
	}
	h.answerCallback(cb.ID, "👎")
	h.logAction(ctx, sess.UserID, "dislike", map[string]any{"index": idx})

	sess.Cursor = idx
	sess.Advance()
	h.maybeShowAd(ctx, chatID, sess)
	h.showCurrent(ctx, chatID, sess)
}

func (h *BotHandler) handleFavAdd(ctx context.Context, cb *tgbotapi.CallbackQuery, sess *entity.Session, arg string) {
	idx, ok := cursorIndex(sess, arg)
	if !ok {
		h.answerCallback(cb.ID, "")
		return
	}
	listing := sess.Results[idx]
	if !sess.IsFavorite(listing.IdentityHash()) {
		sess.ToggleFavorite(listing)
		if err := h.stats.LogFavorite(ctx, sess.UserID, "add", listing); err != nil {
			logger.ErrorLogger.Printf("Failed to log favorite: %v", err)
		}
	}
	h.answerCallback(cb.ID, "⭐")
	h.refreshCardKeyboard(cb, sess, idx)
}

func (h *BotHandler) handleFavDel(ctx context.Context, cb *tgbotapi.CallbackQuery, sess *entity.Session, arg string) {
	idx, ok := cursorIndex(sess, arg)
	if !ok {
		h.answerCallback(cb.ID, "")
		return
	}
	listing := sess.Results[idx]
	if sess.IsFavorite(listing.IdentityHash()) {
		sess.ToggleFavorite(listing)
		if err := h.stats.LogFavorite(ctx, sess.UserID, "remove", listing); err != nil {
			logger.ErrorLogger.Printf("Failed to log favorite removal: %v", err)
		}
	}
	h.answerCallback(cb.ID, "🗑")
	h.refreshCardKeyboard(cb, sess, idx)
}

// refreshCardKeyboard flips the favorite button in place under the card.
func (h *BotHandler) refreshCardKeyboard(cb *tgbotapi.CallbackQuery, sess *entity.Session, idx int) {
	listing := sess.Results[idx]
	kb := cardKeyboard(sess.Lang, idx, sess.IsFavorite(listing.IdentityHash()))
	edit := tgbotapi.NewEditMessageReplyMarkup(cb.Message.Chat.ID, cb.Message.MessageID, kb)
	if _, err := h.bot.Request(edit); err != nil {
		logger.ErrorLogger.Printf("Failed to refresh card keyboard: %v", err)
	}
}

// cursorIndex parses a callback index and checks it against the result set.
// Stale callbacks from cards of a previous search are rejected.
func cursorIndex(sess *entity.Session, arg string) (int, bool) {
	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 0 || idx >= len(sess.Results) {
		return 0, false
	}
	return idx, true
}
