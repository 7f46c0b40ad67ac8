package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"

	"github.com/liveplace/liveplace-bot/internal/domain/repository"
	"github.com/liveplace/liveplace-bot/pkg/logger"
)

var statsPeriods = []struct {
	Days  int
	Label string
}{
	{1, "📅 За день"},
	{7, "📅 За неделю"},
	{30, "📅 За месяц"},
	{365, "📅 За год"},
}

func periodName(days int) string {
	switch days {
	case 1:
		return "за день"
	case 7:
		return "за неделю"
	case 30:
		return "за месяц"
	case 365:
		return "за год"
	}
	return fmt.Sprintf("за %d дн.", days)
}

func (h *BotHandler) sendStatsMenu(chatID int64) {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(statsPeriods))
	for _, p := range statsPeriods {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(p.Label, fmt.Sprintf("stats:%d", p.Days)),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	if err := h.sendHTML(chatID, "📊 <b>Статистика</b>\n\nВыберите период:", kb); err != nil {
		logger.ErrorLogger.Printf("Failed to send stats menu: %v", err)
	}
}

func (h *BotHandler) handleStatsCallback(ctx context.Context, chatID int64, cb *tgbotapi.CallbackQuery, arg string) {
	if !h.isAdmin(cb.From.ID) {
		h.answerCallback(cb.ID, "")
		return
	}
	days, err := strconv.Atoi(arg)
	if err != nil || days <= 0 {
		h.answerCallback(cb.ID, "")
		return
	}
	h.answerCallback(cb.ID, "")

	stats, err := h.stats.GetStats(ctx, days)
	if err != nil {
		logger.ErrorLogger.Printf("Failed to collect stats: %v", err)
		if err := h.sendHTML(chatID, "❌ Не удалось собрать статистику", nil); err != nil {
			logger.ErrorLogger.Printf("Failed to send stats error: %v", err)
		}
		return
	}

	if err := h.sendHTML(chatID, formatStats(stats), statsReportKeyboard(days)); err != nil {
		logger.ErrorLogger.Printf("Failed to send stats: %v", err)
	}
}

// statsReportKeyboard offers exports plus a refresh re-firing the same period.
func statsReportKeyboard(days int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 JSON", fmt.Sprintf("export:json:%d", days)),
			tgbotapi.NewInlineKeyboardButtonData("📊 Excel", fmt.Sprintf("export:xlsx:%d", days)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Обновить", fmt.Sprintf("stats:%d", days)),
		),
	)
}

func formatStats(s repository.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>Статистика %s</b>\n\n", periodName(s.PeriodDays))
	fmt.Fprintf(&b, "👥 Уникальных пользователей: %d\n", s.UniqueUsers)
	fmt.Fprintf(&b, "🆕 Новых пользователей: %d\n", s.NewUsers)
	fmt.Fprintf(&b, "⚡ Всего действий: %d\n\n", s.TotalActions)
	fmt.Fprintf(&b, "🔎 Поисков: %d\n", s.Searches)
	fmt.Fprintf(&b, "📈 Среднее результатов на поиск: %.1f\n", s.AvgResultsPerSearch)
	fmt.Fprintf(&b, "📝 Заявок: %d\n", s.Leads)
	fmt.Fprintf(&b, "💹 Конверсия в заявку: %.1f%%\n", s.ConversionRate)
	fmt.Fprintf(&b, "⭐ В избранное: %d (убрано: %d)\n", s.FavoritesAdded, s.FavoritesRemoved)

	if len(s.ModeCounts) > 0 {
		b.WriteString("\n<b>По режимам:</b>\n")
		for _, kv := range sortedCounts(s.ModeCounts) {
			fmt.Fprintf(&b, "  • %s: %d\n", kv.key, kv.count)
		}
	}
	if len(s.CityCounts) > 0 {
		b.WriteString("\n<b>Топ городов:</b>\n")
		for _, kv := range sortedCounts(s.CityCounts) {
			fmt.Fprintf(&b, "  • %s: %d\n", kv.key, kv.count)
		}
	}
	return b.String()
}

type keyCount struct {
	key   string
	count int
}

func sortedCounts(m map[string]int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, v := range m {
		out = append(out, keyCount{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}

func (h *BotHandler) handleExportCallback(ctx context.Context, chatID int64, cb *tgbotapi.CallbackQuery, arg string) {
	if !h.isAdmin(cb.From.ID) {
		h.answerCallback(cb.ID, "")
		return
	}
	format, daysArg, ok := strings.Cut(arg, ":")
	if !ok {
		h.answerCallback(cb.ID, "")
		return
	}
	days, err := strconv.Atoi(daysArg)
	if err != nil || days <= 0 {
		h.answerCallback(cb.ID, "")
		return
	}
	h.answerCallback(cb.ID, "⏳")

	data, err := h.stats.Export(ctx, days)
	if err != nil {
		logger.ErrorLogger.Printf("Failed to export stats: %v", err)
		if err := h.sendHTML(chatID, "❌ Не удалось выгрузить данные", nil); err != nil {
			logger.ErrorLogger.Printf("Failed to send export error: %v", err)
		}
		return
	}

	stamp := data.ExportDate.Format("2006-01-02")
	caption := fmt.Sprintf("Экспорт %s", periodName(days))

	switch format {
	case "json":
		payload, err := json.MarshalIndent(exportDoc(data), "", "  ")
		if err != nil {
			logger.ErrorLogger.Printf("Failed to marshal export: %v", err)
			return
		}
		name := fmt.Sprintf("liveplace_export_%s_%dd.json", stamp, days)
		if err := h.sendDocument(chatID, name, payload, caption); err != nil {
			logger.ErrorLogger.Printf("Failed to send JSON export: %v", err)
		}
	case "xlsx":
		payload, err := buildXLSX(data)
		if err != nil {
			logger.ErrorLogger.Printf("Failed to build workbook: %v", err)
			return
		}
		name := fmt.Sprintf("liveplace_export_%s_%dd.xlsx", stamp, days)
		if err := h.sendDocument(chatID, name, payload, caption); err != nil {
			logger.ErrorLogger.Printf("Failed to send Excel export: %v", err)
		}
	}
}

// exportDoc shapes ExportData for a stable JSON layout.
func exportDoc(data repository.ExportData) map[string]any {
	searches := make([]map[string]any, 0, len(data.Searches))
	for _, s := range data.Searches {
		searches = append(searches, map[string]any{
			"user_id":       s.UserID,
			"mode":          s.Mode,
			"city":          s.City,
			"district":      s.District,
			"rooms":         s.Rooms,
			"price":         s.Price,
			"price_min":     s.PriceMin,
			"price_max":     s.PriceMax,
			"results_count": s.ResultsCount,
			"timestamp":     s.Timestamp.Format(time.RFC3339),
		})
	}
	leads := make([]map[string]any, 0, len(data.Leads))
	for _, l := range data.Leads {
		leads = append(leads, map[string]any{
			"lead_id":   l.ID,
			"user_id":   l.UserID,
			"name":      l.Name,
			"phone":     l.Phone,
			"ad_data":   l.AdData,
			"timestamp": l.Timestamp.Format(time.RFC3339),
		})
	}
	favorites := make([]map[string]any, 0, len(data.Favorites))
	for _, f := range data.Favorites {
		favorites = append(favorites, map[string]any{
			"user_id":   f.UserID,
			"action":    f.Action,
			"ad_data":   f.AdData,
			"timestamp": f.Timestamp.Format(time.RFC3339),
		})
	}
	return map[string]any{
		"export_date": data.ExportDate.Format(time.RFC3339),
		"period_days": data.PeriodDays,
		"searches":    searches,
		"leads":       leads,
		"favorites":   favorites,
	}
}

// buildXLSX writes one sheet per exported table.
func buildXLSX(data repository.ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	writeSheet := func(name string, header []string, rows [][]any) error {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
		for col, title := range header {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, title); err != nil {
				return err
			}
		}
		for r, row := range rows {
			for c, value := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+2)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(name, cell, value); err != nil {
					return err
				}
			}
		}
		return nil
	}

	searchRows := make([][]any, 0, len(data.Searches))
	for _, s := range data.Searches {
		searchRows = append(searchRows, []any{
			s.UserID, s.Mode, s.City, s.District, s.Rooms, s.Price,
			floatOrEmpty(s.PriceMin), floatOrEmpty(s.PriceMax),
			s.ResultsCount, s.Timestamp.Format(time.RFC3339),
		})
	}
	if err := writeSheet("Searches",
		[]string{"user_id", "mode", "city", "district", "rooms", "price", "price_min", "price_max", "results_count", "timestamp"},
		searchRows); err != nil {
		return nil, err
	}

	leadRows := make([][]any, 0, len(data.Leads))
	for _, l := range data.Leads {
		leadRows = append(leadRows, []any{l.ID, l.UserID, l.Name, l.Phone, l.AdData, l.Timestamp.Format(time.RFC3339)})
	}
	if err := writeSheet("Leads",
		[]string{"lead_id", "user_id", "name", "phone", "ad_data", "timestamp"},
		leadRows); err != nil {
		return nil, err
	}

	favRows := make([][]any, 0, len(data.Favorites))
	for _, fav := range data.Favorites {
		favRows = append(favRows, []any{fav.UserID, fav.Action, fav.AdData, fav.Timestamp.Format(time.RFC3339)})
	}
	if err := writeSheet("Favorites",
		[]string{"user_id", "action", "ad_data", "timestamp"},
		favRows); err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func floatOrEmpty(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
