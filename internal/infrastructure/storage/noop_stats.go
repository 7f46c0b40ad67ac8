package storage

import (
	"context"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
	"github.com/liveplace/liveplace-bot/internal/domain/repository"
)

// NoopStats satisfies StatsRepository when no DATABASE_URL is configured.
type NoopStats struct{}

func (NoopStats) RegisterUser(context.Context, int64) error { return nil }
func (NoopStats) LogAction(context.Context, int64, string, map[string]any) error {
	return nil
}
func (NoopStats) LogSearch(context.Context, int64, entity.Criteria, int) error { return nil }
func (NoopStats) LogLead(context.Context, entity.Lead) error                   { return nil }
func (NoopStats) LogFavorite(context.Context, int64, string, entity.Listing) error {
	return nil
}
func (NoopStats) GetStats(_ context.Context, days int) (repository.Stats, error) {
	return repository.Stats{
		PeriodDays:   days,
		ActionCounts: map[string]int{},
		ModeCounts:   map[string]int{},
		CityCounts:   map[string]int{},
	}, nil
}
func (NoopStats) RecentSearches(context.Context, int64, int) ([]repository.SearchRecord, error) {
	return nil, nil
}
func (NoopStats) Export(_ context.Context, days int) (repository.ExportData, error) {
	return repository.ExportData{PeriodDays: days}, nil
}
