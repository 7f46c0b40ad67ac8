package telegram

import (
	"strings"
	"testing"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
)

func TestFormatCardFieldOrder(t *testing.T) {
	l := entity.Listing{
		Mode:      "rent",
		City:      "Тбилиси",
		District:  "Ваке",
		Type:      "Квартира",
		Rooms:     "2",
		Price:     "800$",
		Published: "2026-04-01T10:00:00Z",
		Phone:     "+995 555 000 111",
		TitleRU:   "Уютная двушка",
		DescRU:    "Рядом метро.",
	}

	card := formatCard(l, "ru")

	wantOrder := []string{
		"<b>Уютная двушка</b>",
		"Квартира • 2 • Тбилиси, Ваке",
		"💰 800$",
		"📅 2026-04-01",
		"Рядом метро.",
		"<b>☎️ Телефон:</b> +995 555 000 111",
	}
	pos := -1
	for _, part := range wantOrder {
		i := strings.Index(card, part)
		if i < 0 {
			t.Fatalf("card missing %q:\n%s", part, card)
		}
		if i <= pos {
			t.Fatalf("card field %q out of order:\n%s", part, card)
		}
		pos = i
	}
}

func TestFormatCardEmptyDescAndPhone(t *testing.T) {
	card := formatCard(entity.Listing{TitleRU: "Дом"}, "ru")
	if !strings.Contains(card, "—") {
		t.Fatalf("expected dash placeholder, got:\n%s", card)
	}
}

func TestFormatCardLanguageFallback(t *testing.T) {
	l := entity.Listing{TitleRU: "Дом", TitleEN: "House"}
	if card := formatCard(l, "en"); !strings.Contains(card, "House") {
		t.Fatalf("expected English title, got:\n%s", card)
	}
	if card := formatCard(l, "ka"); !strings.Contains(card, "Дом") {
		t.Fatalf("expected Russian fallback, got:\n%s", card)
	}
}

func TestPublishedText(t *testing.T) {
	cases := map[string]string{
		"":                     "",
		"2026-04-01T10:00:00Z": "2026-04-01",
		"2026-04-01T10:00:00":  "2026-04-01",
		"2026-04-01":           "2026-04-01",
		"вчера":                "вчера",
	}
	for in, want := range cases {
		if got := publishedText(in); got != want {
			t.Errorf("publishedText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDriveDirect(t *testing.T) {
	id := "1AbCdEfGhIjKlMnOpQrStUvWx"
	cases := map[string]string{
		"https://drive.google.com/file/d/" + id + "/view?usp=sharing": "https://drive.google.com/uc?export=download&id=" + id,
		"https://drive.google.com/open?id=" + id:                      "https://drive.google.com/uc?export=download&id=" + id,
		"https://example.com/photo.jpg":                               "https://example.com/photo.jpg",
		"": "",
	}
	for in, want := range cases {
		if got := driveDirect(in); got != want {
			t.Errorf("driveDirect(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCollectPhotos(t *testing.T) {
	var l entity.Listing
	l.Photos[0] = "https://example.com/a.jpg"
	l.Photos[1] = "   "
	l.Photos[2] = "not-a-url"
	l.Photos[3] = "ftp://example.com/b.png"
	l.Photos[4] = "https://drive.google.com/file/d/1AbCdEfGhIjKlMnOpQrStUvWx/view"
	l.Photos[5] = "https://example.com/c.webp"

	got := collectPhotos(l)
	want := []string{
		"https://example.com/a.jpg",
		"https://drive.google.com/uc?export=download&id=1AbCdEfGhIjKlMnOpQrStUvWx",
		"https://example.com/c.webp",
	}
	if len(got) != len(want) {
		t.Fatalf("collectPhotos returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("photo %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCleanButtonText(t *testing.T) {
	cases := map[string]string{
		"🏙 Тбилиси (120)": "Тбилиси",
		"Ваке (14)":       "Ваке",
		"🏠 Кутаиси":       "Кутаиси",
		"Сабуртало":       "Сабуртало",
	}
	for in, want := range cases {
		if got := cleanButtonText(in); got != want {
			t.Errorf("cleanButtonText(%q) = %q, want %q", in, got, want)
		}
	}
}
