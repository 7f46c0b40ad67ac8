package telegram

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"net/url"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
	"github.com/liveplace/liveplace-bot/pkg/logger"
)

// Promo entries rotated between listing cards.
var defaultAds = []entity.Ad{
	{
		ID:   "transfer",
		Text: "🚕 <b>Трансфер из аэропорта</b>\n\nВстретим в аэропорту и довезём до нового дома. Фиксированная цена, оплата на месте.",
		URL:  "https://liveplace.ge/transfer",
	},
	{
		ID:   "cleaning",
		Text: "🧹 <b>Клининг перед заселением</b>\n\nПрофессиональная уборка квартиры перед вашим въездом. Скидка 10% по промокоду LIVEPLACE.",
		URL:  "https://liveplace.ge/cleaning",
	},
}

// maybeShowAd injects a promo between cards: only when enabled, rolled by
// probability, rate-limited per user, and never the same ad twice in a row.
func (h *BotHandler) maybeShowAd(ctx context.Context, chatID int64, sess *entity.Session) {
	if !h.shouldShowAd(sess) {
		return
	}
	ad := h.pickAd(sess.LastAdID)

	sess.LastAdAt = time.Now()
	sess.LastAdID = ad.ID
	h.logAction(ctx, sess.UserID, "ad_shown", map[string]any{"ad_id": ad.ID})

	link := buildUTMURL(ad, sess.UserID, h.cfg.UTMSource, h.cfg.UTMMedium, h.cfg.UTMCampaign)
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("👉 Подробнее", link)),
	)
	if err := h.sendHTML(chatID, ad.Text, kb); err != nil {
		logger.ErrorLogger.Printf("Failed to send ad %s: %v", ad.ID, err)
	}
}

func (h *BotHandler) shouldShowAd(sess *entity.Session) bool {
	if !h.cfg.AdsEnabled || len(h.ads) == 0 {
		return false
	}
	if time.Since(sess.LastAdAt) < h.cfg.AdsCooldown {
		return false
	}
	return rand.Float64() < h.cfg.AdsProbability
}

// pickAd avoids repeating the previously shown ad when there is a choice.
func (h *BotHandler) pickAd(lastID string) entity.Ad {
	candidates := h.ads
	if len(candidates) > 1 && lastID != "" {
		filtered := make([]entity.Ad, 0, len(candidates)-1)
		for _, ad := range candidates {
			if ad.ID != lastID {
				filtered = append(filtered, ad)
			}
		}
		candidates = filtered
	}
	return candidates[rand.Intn(len(candidates))]
}

// buildUTMURL attaches campaign parameters and a click token to the ad URL.
// The token is stable within a day for one user and ad, letting the landing
// side deduplicate clicks without carrying the raw user id.
func buildUTMURL(ad entity.Ad, userID int64, source, medium, campaign string) string {
	u, err := url.Parse(ad.URL)
	if err != nil {
		return ad.URL
	}
	q := u.Query()
	q.Set("utm_source", source)
	q.Set("utm_medium", medium)
	q.Set("utm_campaign", campaign)
	q.Set("utm_content", ad.ID)
	q.Set("token", clickToken(userID, ad.ID, time.Now()))
	u.RawQuery = q.Encode()
	return u.String()
}

func clickToken(userID int64, adID string, now time.Time) string {
	seed := fmt.Sprintf("%d:%s:%s", userID, now.Format("20060102"), adID)
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])[:16]
}
