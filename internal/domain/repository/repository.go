package repository

import (
	"context"
	"time"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
)

// ListingProvider fetches the full listing table from the external source.
type ListingProvider interface {
	Load(ctx context.Context) ([]entity.Listing, error)
}

// SessionStore is keyed per-user session storage. Lifetime policy belongs to
// the implementation: the in-memory store keeps sessions for the process
// lifetime unless a TTL is configured.
type SessionStore interface {
	Get(userID int64) (*entity.Session, bool)
	Put(session *entity.Session)
}

// SearchRecord is one logged search, as persisted.
type SearchRecord struct {
	UserID       int64
	Mode         string
	City         string
	District     string
	Rooms        string
	Price        string
	PriceMin     *float64
	PriceMax     *float64
	ResultsCount int
	Timestamp    time.Time
}

// Stats is the aggregate report for one period.
type Stats struct {
	PeriodDays          int
	UniqueUsers         int
	NewUsers            int
	TotalActions        int
	Searches            int
	Leads               int
	FavoritesAdded      int
	FavoritesRemoved    int
	ActionCounts        map[string]int
	ModeCounts          map[string]int
	CityCounts          map[string]int
	AvgResultsPerSearch float64
	ConversionRate      float64
}

// StatsRepository records user activity for reporting. Implementations must
// be safe to call from concurrent handlers; callers log and ignore errors.
type StatsRepository interface {
	RegisterUser(ctx context.Context, userID int64) error
	LogAction(ctx context.Context, userID int64, action string, data map[string]any) error
	LogSearch(ctx context.Context, userID int64, criteria entity.Criteria, resultsCount int) error
	LogLead(ctx context.Context, lead entity.Lead) error
	LogFavorite(ctx context.Context, userID int64, action string, listing entity.Listing) error

	GetStats(ctx context.Context, days int) (Stats, error)
	RecentSearches(ctx context.Context, userID int64, limit int) ([]SearchRecord, error)
	Export(ctx context.Context, days int) (ExportData, error)
}

// LeadRecord is one persisted lead, as exported.
type LeadRecord struct {
	ID        string
	UserID    int64
	Name      string
	Phone     string
	AdData    string
	Timestamp time.Time
}

// FavoriteRecord is one persisted favorite toggle, as exported.
type FavoriteRecord struct {
	UserID    int64
	Action    string
	AdData    string
	Timestamp time.Time
}

// ExportData bundles raw reporting rows for one period.
type ExportData struct {
	ExportDate time.Time
	PeriodDays int
	Searches   []SearchRecord
	Leads      []LeadRecord
	Favorites  []FavoriteRecord
}
