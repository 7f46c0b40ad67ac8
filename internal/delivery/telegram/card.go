package telegram

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
)

// formatCard renders one listing as the HTML message body: title, info line,
// price, publish date, description and phone. A dash stands in when both
// description and phone are empty.
func formatCard(l entity.Listing, lang string) string {
	var lines []string

	if title := strings.TrimSpace(l.Title(lang)); title != "" {
		lines = append(lines, fmt.Sprintf("<b>%s</b>", title))
	}

	location := strings.Trim(fmt.Sprintf("%s, %s", strings.TrimSpace(l.City), strings.TrimSpace(l.District)), ", ")
	var infoParts []string
	for _, p := range []string{strings.TrimSpace(l.Type), strings.TrimSpace(l.Rooms), location} {
		if p != "" {
			infoParts = append(infoParts, p)
		}
	}
	if len(infoParts) > 0 {
		lines = append(lines, strings.Join(infoParts, " • "))
	}

	if price := strings.TrimSpace(l.Price); price != "" {
		lines = append(lines, "💰 "+price)
	}
	if pub := publishedText(l.Published); pub != "" {
		lines = append(lines, "📅 "+pub)
	}

	desc := strings.TrimSpace(l.Description(lang))
	phone := strings.TrimSpace(l.Phone)
	if desc != "" {
		lines = append(lines, "\n"+desc)
	}
	if phone != "" {
		lines = append(lines, fmt.Sprintf("\n<b>☎️ Телефон:</b> %s", phone))
	}
	if desc == "" && phone == "" {
		lines = append(lines, "—")
	}
	return strings.Join(lines, "\n")
}

// publishedText reformats an ISO-8601 publish date as yyyy-mm-dd, falling
// back to the raw string when it doesn't parse.
func publishedText(published string) string {
	published = strings.TrimSpace(published)
	if published == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if dt, err := time.Parse(layout, published); err == nil {
			return dt.Format("2006-01-02")
		}
	}
	return published
}

var (
	drivePathID  = regexp.MustCompile(`/d/([A-Za-z0-9_-]{20,})/`)
	driveQueryID = regexp.MustCompile(`[?&]id=([A-Za-z0-9_-]{20,})`)
)

// driveDirect rewrites known Google Drive share-link shapes into
// direct-download URLs Telegram can fetch.
func driveDirect(raw string) string {
	if raw == "" {
		return raw
	}
	if m := drivePathID.FindStringSubmatch(raw); m != nil {
		return "https://drive.google.com/uc?export=download&id=" + m[1]
	}
	if m := driveQueryID.FindStringSubmatch(raw); m != nil {
		return "https://drive.google.com/uc?export=download&id=" + m[1]
	}
	return raw
}

func looksLikeImage(raw string) bool {
	if raw == "" {
		return false
	}
	u := strings.ToLower(raw)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".webp"} {
		if strings.HasSuffix(u, ext) {
			return true
		}
	}
	return strings.Contains(u, "googleusercontent.com") ||
		strings.Contains(u, "google.com/uc?export=download")
}

func isValidPhotoURL(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	return looksLikeImage(raw)
}

// collectPhotos gathers up to 10 usable photo URLs from the listing's photo
// columns, skipping malformed entries.
func collectPhotos(l entity.Listing) []string {
	var out []string
	for _, raw := range l.Photos {
		u := strings.TrimSpace(raw)
		if u == "" {
			continue
		}
		u = driveDirect(u)
		if !isValidPhotoURL(u) {
			continue
		}
		out = append(out, u)
		if len(out) == entity.MaxPhotos {
			break
		}
	}
	return out
}
