package telegram

import (
	"fmt"
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/liveplace/liveplace-bot/internal/usecase"
)

// maxOptionRows caps wizard keyboards so Telegram doesn't reject them.
const maxOptionRows = 42

var cityIcons = map[string]string{
	"тбилиси": "🏙",
	"батуми":  "🌊",
	"кутаиси": "⛰",
}

// Symbolic price ranges offered per mode.
var priceRanges = map[string][]string{
	"sale":  {"35000$-", "35000$-50000$", "50000$-75000$", "75000$-100000$", "100000$-150000$", "150000$+"},
	"rent":  {"300$-", "300$-500$", "500$-700$", "700$-900$", "900$-1100$", "1100$+"},
	"daily": {},
}

func mainMenu(lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(t(lang, "btn_fast"))),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(t(lang, "btn_search")),
			tgbotapi.NewKeyboardButton(t(lang, "btn_latest")),
		),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(t(lang, "btn_favs"))),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(t(lang, "btn_language")),
			tgbotapi.NewKeyboardButton(t(lang, "btn_about")),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func modeKeyboard(lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(t(lang, "btn_rent"))),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(t(lang, "btn_sale"))),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(t(lang, "btn_daily"))),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(t(lang, "btn_back"))),
	)
	kb.ResizeKeyboard = true
	return kb
}

// optionsKeyboard builds one-button-per-row option keyboards for the city
// and district steps, with skip/back appended.
func optionsKeyboard(lang string, options []usecase.OptionCount, withIcons bool) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(options)+2)
	for _, opt := range options {
		label := fmt.Sprintf("%s (%d)", opt.Name, opt.Count)
		if withIcons {
			icon := cityIcons[usecase.Normalize(opt.Name)]
			if icon == "" {
				icon = "🏠"
			}
			label = fmt.Sprintf("%s %s (%d)", icon, opt.Name, opt.Count)
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(label)))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(t(lang, "btn_skip"))))
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(t(lang, "btn_back"))))
	if len(rows) > maxOptionRows {
		rows = rows[:maxOptionRows]
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func roomsKeyboard(lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("1"),
			tgbotapi.NewKeyboardButton("2"),
			tgbotapi.NewKeyboardButton("3"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("4"),
			tgbotapi.NewKeyboardButton("5+"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(t(lang, "btn_skip")),
			tgbotapi.NewKeyboardButton(t(lang, "btn_back")),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func priceMethodKeyboard(lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(t(lang, "btn_standard_ranges"))),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(t(lang, "btn_custom_price"))),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(t(lang, "btn_back"))),
	)
	kb.ResizeKeyboard = true
	return kb
}

func priceRangeKeyboard(lang, mode string) tgbotapi.ReplyKeyboardMarkup {
	ranges := priceRanges[mode]
	if len(ranges) == 0 {
		ranges = priceRanges["sale"]
	}
	rows := make([][]tgbotapi.KeyboardButton, 0, len(ranges)+2)
	for _, r := range ranges {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(r)))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(t(lang, "btn_skip"))))
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(t(lang, "btn_back"))))
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

// cardKeyboard builds the inline action row under a listing card.
func cardKeyboard(lang string, index int, favorited bool) tgbotapi.InlineKeyboardMarkup {
	favText, favData := t(lang, "btn_fav_add"), fmt.Sprintf("fav_add:%d", index)
	if favorited {
		favText, favData = t(lang, "btn_fav_del"), fmt.Sprintf("fav_del:%d", index)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(t(lang, "btn_like"), fmt.Sprintf("like:%d", index)),
			tgbotapi.NewInlineKeyboardButtonData(t(lang, "btn_dislike"), fmt.Sprintf("dislike:%d", index)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(favText, favData),
		),
	)
}

func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(langs))
	for _, lang := range langs {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(strings.ToUpper(lang), "lang:"+lang),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

var (
	leadingEmoji  = regexp.MustCompile(`^[^\p{L}\p{N}]+`)
	trailingCount = regexp.MustCompile(`\s*\(\d+\)\s*$`)
)

// cleanButtonText strips the icon prefix and "(N)" count suffix that option
// keyboards add, recovering the raw city/district value.
func cleanButtonText(text string) string {
	text = leadingEmoji.ReplaceAllString(text, "")
	text = trailingCount.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
