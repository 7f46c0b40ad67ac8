package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
	"github.com/liveplace/liveplace-bot/internal/usecase"
	"github.com/liveplace/liveplace-bot/pkg/logger"
)

// startWizard clears previous criteria and asks for the mode.
func (h *BotHandler) startWizard(chatID int64, sess *entity.Session) {
	sess.ResetWizard()
	sess.Stage = entity.StageMode
	if err := h.sendHTML(chatID, t(sess.Lang, "choose_mode"), modeKeyboard(sess.Lang)); err != nil {
		logger.ErrorLogger.Printf("Failed to send mode prompt: %v", err)
	}
}

// handleWizardInput advances the wizard by one answer. The session is
// mutated in place; the caller persists it.
func (h *BotHandler) handleWizardInput(ctx context.Context, msg *tgbotapi.Message, sess *entity.Session, text string) {
	chatID := msg.Chat.ID
	skip := h.isButton(text, "btn_skip")

	switch sess.Stage {
	case entity.StageMode:
		mode := usecase.NormalizeMode(text)
		if mode == "" {
			if err := h.sendHTML(chatID, t(sess.Lang, "unknown_mode"), modeKeyboard(sess.Lang)); err != nil {
				logger.ErrorLogger.Printf("Failed to re-prompt mode: %v", err)
			}
			return
		}
		sess.Criteria.Mode = mode
		h.askCity(ctx, chatID, sess)

	case entity.StageCity:
		if !skip {
			sess.Criteria.City = cleanButtonText(text)
		}
		h.askDistrict(ctx, chatID, sess)

	case entity.StageDistrict:
		if !skip {
			sess.Criteria.District = cleanButtonText(text)
		}
		sess.Stage = entity.StageRooms
		if err := h.sendHTML(chatID, t(sess.Lang, "choose_rooms"), roomsKeyboard(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send rooms prompt: %v", err)
		}

	case entity.StageRooms:
		if !skip {
			sess.Criteria.Rooms = text
		}
		sess.Stage = entity.StagePriceMethod
		if err := h.sendHTML(chatID, t(sess.Lang, "price_method"), priceMethodKeyboard(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send price method prompt: %v", err)
		}

	case entity.StagePriceMethod:
		switch {
		case skip:
			h.finishSearch(ctx, chatID, sess)
		case h.isButton(text, "btn_standard_ranges"):
			sess.Stage = entity.StagePrice
			if err := h.sendHTML(chatID, t(sess.Lang, "choose_range"), priceRangeKeyboard(sess.Lang, sess.Criteria.Mode)); err != nil {
				logger.ErrorLogger.Printf("Failed to send price range prompt: %v", err)
			}
		case h.isButton(text, "btn_custom_price"):
			sess.Stage = entity.StagePriceMin
			if err := h.sendHTML(chatID, t(sess.Lang, "enter_min"), tgbotapi.NewRemoveKeyboard(false)); err != nil {
				logger.ErrorLogger.Printf("Failed to send min price prompt: %v", err)
			}
		default:
			if err := h.sendHTML(chatID, t(sess.Lang, "price_method"), priceMethodKeyboard(sess.Lang)); err != nil {
				logger.ErrorLogger.Printf("Failed to re-prompt price method: %v", err)
			}
		}

	case entity.StagePrice:
		if !skip {
			sess.Criteria.Price = text
		}
		h.finishSearch(ctx, chatID, sess)

	case entity.StagePriceMin:
		if skip {
			sess.Stage = entity.StagePriceMax
			if err := h.sendHTML(chatID, t(sess.Lang, "enter_max"), nil); err != nil {
				logger.ErrorLogger.Printf("Failed to send max price prompt: %v", err)
			}
			return
		}
		v, err := parseUserPrice(text)
		if err != nil {
			if err := h.sendHTML(chatID, t(sess.Lang, "bad_number"), nil); err != nil {
				logger.ErrorLogger.Printf("Failed to re-prompt min price: %v", err)
			}
			return
		}
		if v < 0 {
			if err := h.sendHTML(chatID, t(sess.Lang, "price_negative"), nil); err != nil {
				logger.ErrorLogger.Printf("Failed to re-prompt min price: %v", err)
			}
			return
		}
		sess.Criteria.PriceMin = &v
		sess.Stage = entity.StagePriceMax
		if err := h.sendHTML(chatID, t(sess.Lang, "enter_max"), nil); err != nil {
			logger.ErrorLogger.Printf("Failed to send max price prompt: %v", err)
		}

	case entity.StagePriceMax:
		if !skip && !isUnlimited(text) {
			v, err := parseUserPrice(text)
			if err != nil {
				if err := h.sendHTML(chatID, t(sess.Lang, "bad_number"), nil); err != nil {
					logger.ErrorLogger.Printf("Failed to re-prompt max price: %v", err)
				}
				return
			}
			if v < 0 {
				if err := h.sendHTML(chatID, t(sess.Lang, "price_negative"), nil); err != nil {
					logger.ErrorLogger.Printf("Failed to re-prompt max price: %v", err)
				}
				return
			}
			sess.Criteria.PriceMax = &v
		}
		h.finishSearch(ctx, chatID, sess)
	}
}

func (h *BotHandler) askCity(ctx context.Context, chatID int64, sess *entity.Session) {
	sess.Stage = entity.StageCity
	rows := h.listings.Get(ctx, false)
	options := usecase.CityCounts(rows, sess.Criteria.Mode)
	if err := h.sendHTML(chatID, t(sess.Lang, "choose_city"), optionsKeyboard(sess.Lang, options, true)); err != nil {
		logger.ErrorLogger.Printf("Failed to send city prompt: %v", err)
	}
}

func (h *BotHandler) askDistrict(ctx context.Context, chatID int64, sess *entity.Session) {
	sess.Stage = entity.StageDistrict
	rows := h.listings.Get(ctx, false)
	options := usecase.DistrictCounts(rows, sess.Criteria.Mode, sess.Criteria.City)
	if err := h.sendHTML(chatID, t(sess.Lang, "choose_district"), optionsKeyboard(sess.Lang, options, false)); err != nil {
		logger.ErrorLogger.Printf("Failed to send district prompt: %v", err)
	}
}

// handleBack steps the wizard one stage back, re-prompting with fresh
// option counts.
func (h *BotHandler) handleBack(ctx context.Context, chatID int64, sess *entity.Session) {
	switch sess.Stage {
	case entity.StageCity:
		sess.Criteria.Mode = ""
		sess.Stage = entity.StageMode
		if err := h.sendHTML(chatID, t(sess.Lang, "choose_mode"), modeKeyboard(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send mode prompt: %v", err)
		}
	case entity.StageDistrict:
		sess.Criteria.City = ""
		h.askCity(ctx, chatID, sess)
	case entity.StageRooms:
		sess.Criteria.District = ""
		h.askDistrict(ctx, chatID, sess)
	case entity.StagePriceMethod:
		sess.Criteria.Rooms = ""
		sess.Stage = entity.StageRooms
		if err := h.sendHTML(chatID, t(sess.Lang, "choose_rooms"), roomsKeyboard(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send rooms prompt: %v", err)
		}
	case entity.StagePrice, entity.StagePriceMin:
		sess.Criteria.Price = ""
		sess.Criteria.PriceMin = nil
		sess.Criteria.PriceMax = nil
		sess.Stage = entity.StagePriceMethod
		if err := h.sendHTML(chatID, t(sess.Lang, "price_method"), priceMethodKeyboard(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send price method prompt: %v", err)
		}
	case entity.StagePriceMax:
		sess.Criteria.PriceMax = nil
		sess.Stage = entity.StagePriceMin
		if err := h.sendHTML(chatID, t(sess.Lang, "enter_min"), tgbotapi.NewRemoveKeyboard(false)); err != nil {
			logger.ErrorLogger.Printf("Failed to send min price prompt: %v", err)
		}
	default:
		sess.ResetWizard()
		if err := h.sendHTML(chatID, t(sess.Lang, "menu_title"), mainMenu(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send menu: %v", err)
		}
	}
}

// finishSearch runs the collected criteria against the cache and shows the
// first result.
func (h *BotHandler) finishSearch(ctx context.Context, chatID int64, sess *entity.Session) {
	rows := h.listings.Get(ctx, false)
	found := h.engine.Filter(rows, sess.Criteria)

	if err := h.stats.LogSearch(ctx, sess.UserID, sess.Criteria, len(found)); err != nil {
		logger.ErrorLogger.Printf("Failed to log search: %v", err)
	}

	sess.SetResults(found)
	sess.ResetWizard()

	if len(found) == 0 {
		if err := h.sendHTML(chatID, t(sess.Lang, "nothing_found"), mainMenu(sess.Lang)); err != nil {
			logger.ErrorLogger.Printf("Failed to send empty result: %v", err)
		}
		return
	}
	if err := h.sendHTML(chatID, fmt.Sprintf(t(sess.Lang, "found_count"), len(found)), mainMenu(sess.Lang)); err != nil {
		logger.ErrorLogger.Printf("Failed to send result count: %v", err)
	}
	h.showCurrent(ctx, chatID, sess)
}

// parseUserPrice turns free-form user input like "500$" or "1 200" into a
// number. Minus signs survive cleanup so negative input can be rejected
// with a dedicated message.
func parseUserPrice(text string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", " ", "", ",", ".").Replace(strings.TrimSpace(text))
	return strconv.ParseFloat(cleaned, 64)
}

func isUnlimited(text string) bool {
	_, ok := unlimitedWords[strings.ToLower(strings.TrimSpace(text))]
	return ok
}
