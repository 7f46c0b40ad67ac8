package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/liveplace/liveplace-bot/config"
	"github.com/liveplace/liveplace-bot/internal/domain/entity"
	"github.com/liveplace/liveplace-bot/internal/infrastructure/storage"
	"github.com/liveplace/liveplace-bot/internal/usecase"
)

type apiStub struct {
	texts []string
}

func (a *apiStub) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if mc, ok := c.(tgbotapi.MessageConfig); ok {
		a.texts = append(a.texts, mc.Text)
	}
	return tgbotapi.Message{}, nil
}

func (a *apiStub) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (a *apiStub) SendMediaGroup(tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error) {
	return nil, nil
}

func (a *apiStub) MakeRequest(string, tgbotapi.Params) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (a *apiStub) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	ch := make(chan tgbotapi.Update)
	close(ch)
	return ch
}

func (a *apiStub) StopReceivingUpdates() {}

func (a *apiStub) lastText() string {
	if len(a.texts) == 0 {
		return ""
	}
	return a.texts[len(a.texts)-1]
}

type fixedListings struct {
	rows []entity.Listing
}

func (f fixedListings) Load(context.Context) ([]entity.Listing, error) {
	return f.rows, nil
}

func newTestHandler(rows []entity.Listing) (*BotHandler, *apiStub) {
	stub := &apiStub{}
	h := &BotHandler{
		bot:          stub,
		cfg:          &config.Config{},
		listings:     storage.NewListingCache(fixedListings{rows: rows}, time.Minute),
		engine:       usecase.NewFilterEngine(true),
		sessions:     storage.NewMemorySessionStore(0),
		stats:        storage.NoopStats{},
		userLocks:    make(map[int64]*sync.Mutex),
		knownButtons: make(map[string]struct{}),
	}
	h.indexButtons()
	return h, stub
}

func userMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: 1},
		From: &tgbotapi.User{ID: 1},
	}
}

func testRows() []entity.Listing {
	return []entity.Listing{
		{Mode: "rent", City: "Тбилиси", District: "Ваке", Rooms: "2", Price: "550$", TitleRU: "Двушка"},
		{Mode: "rent", City: "Тбилиси", District: "Сабуртало", Rooms: "3", Price: "1200$", TitleRU: "Трёшка"},
		{Mode: "sale", City: "Батуми", District: "Центр", Rooms: "1", Price: "60000$", TitleRU: "Студия у моря"},
	}
}

func TestWizardBackReturnsToCityKeepingMode(t *testing.T) {
	h, _ := newTestHandler(testRows())
	ctx := context.Background()
	sess := entity.NewSession(1, "ru")
	h.sessions.Put(sess)

	h.startWizard(1, sess)
	if sess.Stage != entity.StageMode {
		t.Fatalf("after start stage = %v, want StageMode", sess.Stage)
	}

	h.handleWizardInput(ctx, userMessage("🏘 Аренда"), sess, "🏘 Аренда")
	if sess.Stage != entity.StageCity || sess.Criteria.Mode != "rent" {
		t.Fatalf("after mode: stage = %v, mode = %q", sess.Stage, sess.Criteria.Mode)
	}

	h.handleWizardInput(ctx, userMessage("🏙 Тбилиси (2)"), sess, "🏙 Тбилиси (2)")
	if sess.Stage != entity.StageDistrict || sess.Criteria.City != "Тбилиси" {
		t.Fatalf("after city: stage = %v, city = %q", sess.Stage, sess.Criteria.City)
	}

	h.handleBack(ctx, 1, sess)
	if sess.Stage != entity.StageCity {
		t.Fatalf("after back: stage = %v, want StageCity", sess.Stage)
	}
	if sess.Criteria.City != "" {
		t.Errorf("after back: city = %q, want cleared", sess.Criteria.City)
	}
	if sess.Criteria.Mode != "rent" {
		t.Errorf("after back: mode = %q, want retained rent", sess.Criteria.Mode)
	}
}

func TestWizardMalformedPriceReprompts(t *testing.T) {
	h, stub := newTestHandler(testRows())
	ctx := context.Background()
	sess := entity.NewSession(1, "ru")
	h.sessions.Put(sess)
	skip := t2("ru", "btn_skip")

	h.startWizard(1, sess)
	h.handleWizardInput(ctx, userMessage("rent"), sess, "rent")
	h.handleWizardInput(ctx, userMessage(skip), sess, skip)
	h.handleWizardInput(ctx, userMessage(skip), sess, skip)
	h.handleWizardInput(ctx, userMessage(skip), sess, skip)
	custom := t2("ru", "btn_custom_price")
	h.handleWizardInput(ctx, userMessage(custom), sess, custom)
	if sess.Stage != entity.StagePriceMin {
		t.Fatalf("stage = %v, want StagePriceMin", sess.Stage)
	}

	h.handleWizardInput(ctx, userMessage("abc"), sess, "abc")
	if sess.Stage != entity.StagePriceMin {
		t.Fatalf("malformed input moved stage to %v", sess.Stage)
	}
	if stub.lastText() != t2("ru", "bad_number") {
		t.Errorf("expected re-prompt %q, got %q", t2("ru", "bad_number"), stub.lastText())
	}

	h.handleWizardInput(ctx, userMessage("-100"), sess, "-100")
	if sess.Stage != entity.StagePriceMin {
		t.Fatalf("negative input moved stage to %v", sess.Stage)
	}
	if stub.lastText() != t2("ru", "price_negative") {
		t.Errorf("expected negative re-prompt, got %q", stub.lastText())
	}
}

func TestWizardBackFromMaxStepsToMin(t *testing.T) {
	h, stub := newTestHandler(testRows())
	ctx := context.Background()
	sess := entity.NewSession(1, "ru")
	h.sessions.Put(sess)
	skip := t2("ru", "btn_skip")

	h.startWizard(1, sess)
	h.handleWizardInput(ctx, userMessage("rent"), sess, "rent")
	h.handleWizardInput(ctx, userMessage(skip), sess, skip)
	h.handleWizardInput(ctx, userMessage(skip), sess, skip)
	h.handleWizardInput(ctx, userMessage(skip), sess, skip)
	custom := t2("ru", "btn_custom_price")
	h.handleWizardInput(ctx, userMessage(custom), sess, custom)
	h.handleWizardInput(ctx, userMessage("500"), sess, "500")
	if sess.Stage != entity.StagePriceMax {
		t.Fatalf("stage = %v, want StagePriceMax", sess.Stage)
	}

	h.handleBack(ctx, 1, sess)
	if sess.Stage != entity.StagePriceMin {
		t.Fatalf("back from max: stage = %v, want StagePriceMin", sess.Stage)
	}
	if sess.Criteria.PriceMax != nil {
		t.Errorf("back from max: PriceMax not cleared")
	}
	if stub.lastText() != t2("ru", "enter_min") {
		t.Errorf("expected min prompt, got %q", stub.lastText())
	}

	h.handleWizardInput(ctx, userMessage("500"), sess, "500")
	h.handleWizardInput(ctx, userMessage("1000"), sess, "1000")
	if sess.Stage != entity.StageIdle {
		t.Fatalf("after search: stage = %v, want StageIdle", sess.Stage)
	}
	if len(sess.Results) != 1 {
		t.Fatalf("results = %d, want 1 (the 550$ rent listing)", len(sess.Results))
	}
	if sess.Results[0].Price != "550$" {
		t.Errorf("result price = %q, want 550$", sess.Results[0].Price)
	}
}
