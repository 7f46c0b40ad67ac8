package telegram

import (
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/liveplace/liveplace-bot/config"
	"github.com/liveplace/liveplace-bot/internal/domain/entity"
	"github.com/liveplace/liveplace-bot/internal/domain/repository"
	"github.com/liveplace/liveplace-bot/internal/infrastructure/storage"
	"github.com/liveplace/liveplace-bot/internal/usecase"
	"github.com/liveplace/liveplace-bot/pkg/logger"
)

// botAPI is the slice of the Telegram client the handler actually calls.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMediaGroup(cfg tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// BotHandler ties the Telegram transport to the listing cache, filter
// engine, session store and stats repository. One handler serves all users;
// per-user state lives in the session store.
type BotHandler struct {
	bot      botAPI
	username string
	cfg      *config.Config
	listings *storage.ListingCache
	engine   *usecase.FilterEngine
	sessions repository.SessionStore
	stats    repository.StatsRepository
	ads      []entity.Ad

	// Updates run in parallel goroutines but a user's session must never
	// be mutated concurrently, so dispatch is serialized per user.
	userMu    sync.Mutex
	userLocks map[int64]*sync.Mutex

	// Reply-keyboard texts in every language; the catch-all ignores them
	// so specific handlers aren't duplicated by the fallback.
	knownButtons map[string]struct{}
}

// NewBotHandler authorizes the bot account and assembles the handler.
func NewBotHandler(
	cfg *config.Config,
	listings *storage.ListingCache,
	engine *usecase.FilterEngine,
	sessions repository.SessionStore,
	stats repository.StatsRepository,
) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.APIToken)
	if err != nil {
		return nil, fmt.Errorf("telegram authorization: %w", err)
	}

	h := &BotHandler{
		bot:          bot,
		username:     bot.Self.UserName,
		cfg:          cfg,
		listings:     listings,
		engine:       engine,
		sessions:     sessions,
		stats:        stats,
		ads:          defaultAds,
		userLocks:    make(map[int64]*sync.Mutex),
		knownButtons: make(map[string]struct{}),
	}
	h.indexButtons()
	return h, nil
}

func (h *BotHandler) indexButtons() {
	for _, key := range []string{
		"btn_fast", "btn_search", "btn_latest", "btn_favs",
		"btn_language", "btn_about", "btn_home", "btn_daily",
		"btn_rent", "btn_sale", "btn_back",
	} {
		for text := range buttonTexts(key) {
			h.knownButtons[text] = struct{}{}
		}
	}
}

// userLock returns the dispatch mutex for a user, creating it on first use.
func (h *BotHandler) userLock(userID int64) *sync.Mutex {
	h.userMu.Lock()
	defer h.userMu.Unlock()
	mu, ok := h.userLocks[userID]
	if !ok {
		mu = &sync.Mutex{}
		h.userLocks[userID] = mu
	}
	return mu
}

// BotUsername returns the authorized account name.
func (h *BotHandler) BotUsername() string {
	return h.username
}

// session returns the user's session, creating one with the language
// derived from the Telegram client when absent.
func (h *BotHandler) session(user *tgbotapi.User) *entity.Session {
	sess, ok := h.sessions.Get(user.ID)
	if ok {
		return sess
	}
	sess = entity.NewSession(user.ID, langFromCode(user.LanguageCode))
	h.sessions.Put(sess)
	return sess
}

// NotifyStartup reports the loaded cache to the admin chat, when configured.
func (h *BotHandler) NotifyStartup() {
	if h.cfg.AdminChatID == 0 {
		return
	}
	text := fmt.Sprintf(
		"✅ <b>LivePlace bot started</b>\n\n📊 Loaded: %d ads\n🔄 Auto-refresh: every %ds\n📢 Feedback channel: %d",
		h.listings.Size(), int(h.cfg.RefreshInterval.Seconds()), h.cfg.FeedbackChatID)
	if err := h.sendHTML(h.cfg.AdminChatID, text, nil); err != nil {
		logger.ErrorLogger.Printf("Failed to notify admin on startup: %v", err)
	}
}

// NotifyShutdown reports the stop to the admin chat, when configured.
func (h *BotHandler) NotifyShutdown() {
	if h.cfg.AdminChatID == 0 {
		return
	}
	if err := h.sendHTML(h.cfg.AdminChatID, "⚠️ <b>LivePlace bot stopped</b>", nil); err != nil {
		logger.ErrorLogger.Printf("Failed to notify admin on shutdown: %v", err)
	}
}
