package telegram

import (
	"net/url"
	"testing"
	"time"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
)

func TestClickTokenStableWithinDay(t *testing.T) {
	morning := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 4, 1, 21, 0, 0, 0, time.UTC)
	nextDay := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	a := clickToken(42, "transfer", morning)
	b := clickToken(42, "transfer", evening)
	c := clickToken(42, "transfer", nextDay)

	if len(a) != 16 {
		t.Fatalf("token length = %d, want 16", len(a))
	}
	if a != b {
		t.Errorf("token changed within one day: %q vs %q", a, b)
	}
	if a == c {
		t.Errorf("token did not rotate across days")
	}
	if a == clickToken(43, "transfer", morning) {
		t.Errorf("token does not depend on user")
	}
	if a == clickToken(42, "cleaning", morning) {
		t.Errorf("token does not depend on ad")
	}
}

func TestBuildUTMURL(t *testing.T) {
	ad := entity.Ad{ID: "transfer", URL: "https://liveplace.ge/transfer?ref=bot"}
	raw := buildUTMURL(ad, 42, "telegram", "bot", "liveplace")

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("buildUTMURL produced unparsable URL: %v", err)
	}
	q := u.Query()
	for key, want := range map[string]string{
		"utm_source":   "telegram",
		"utm_medium":   "bot",
		"utm_campaign": "liveplace",
		"utm_content":  "transfer",
		"ref":          "bot",
	} {
		if got := q.Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
	if len(q.Get("token")) != 16 {
		t.Errorf("token = %q, want 16 hex chars", q.Get("token"))
	}
}

func TestPickAdAvoidsRepeat(t *testing.T) {
	h := &BotHandler{ads: defaultAds}
	for i := 0; i < 50; i++ {
		if ad := h.pickAd("transfer"); ad.ID == "transfer" {
			t.Fatalf("pickAd repeated the previous ad")
		}
	}
	// With a single candidate the repeat rule cannot apply.
	h.ads = defaultAds[:1]
	if ad := h.pickAd(defaultAds[0].ID); ad.ID != defaultAds[0].ID {
		t.Fatalf("pickAd with one ad returned %q", ad.ID)
	}
}
