package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
	"github.com/liveplace/liveplace-bot/internal/domain/repository"
	"github.com/liveplace/liveplace-bot/pkg/logger"
)

const (
	postgresConnectAttempts = 10
	postgresConnectDelay    = 2 * time.Second
)

// PostgresStats records user activity in five append-only tables. Every
// write is fire-and-forget from the caller's point of view: errors are
// returned for logging but never block the conversation.
type PostgresStats struct {
	db *sql.DB
}

// NewPostgresStats connects with bounded retries and ensures the schema.
func NewPostgresStats(dsn string) (*PostgresStats, error) {
	db, err := openPostgresWithRetry(dsn)
	if err != nil {
		return nil, err
	}
	s := &PostgresStats{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.InfoLogger.Println("✅ Stats database initialized")
	return s, nil
}

func openPostgresWithRetry(dsn string) (*sql.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= postgresConnectAttempts; attempt++ {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			if pingErr := db.Ping(); pingErr == nil {
				return db, nil
			} else {
				err = pingErr
			}
		}
		if db != nil {
			_ = db.Close()
		}
		lastErr = err
		if attempt < postgresConnectAttempts {
			time.Sleep(postgresConnectDelay)
		}
	}
	return nil, fmt.Errorf("postgres connect: %w", lastErr)
}

func (s *PostgresStats) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user_actions (
			id BIGSERIAL PRIMARY KEY,
			uid BIGINT NOT NULL,
			action TEXT NOT NULL,
			data TEXT,
			ts TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS searches (
			id BIGSERIAL PRIMARY KEY,
			uid BIGINT NOT NULL,
			mode TEXT,
			city TEXT,
			district TEXT,
			rooms TEXT,
			price TEXT,
			price_min DOUBLE PRECISION,
			price_max DOUBLE PRECISION,
			results_count INTEGER,
			ts TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS leads (
			id BIGSERIAL PRIMARY KEY,
			lead_id TEXT,
			uid BIGINT NOT NULL,
			name TEXT,
			phone TEXT,
			ad_data TEXT,
			ts TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS favorites (
			id BIGSERIAL PRIMARY KEY,
			uid BIGINT NOT NULL,
			action TEXT NOT NULL,
			ad_data TEXT,
			ts TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS first_seen (
			uid BIGINT PRIMARY KEY,
			ts TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_ts ON user_actions(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_uid ON user_actions(uid)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_ts ON searches(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_ts ON leads(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_favorites_ts ON favorites(ts)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStats) Close() error { return s.db.Close() }

func (s *PostgresStats) RegisterUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO first_seen (uid) VALUES ($1) ON CONFLICT (uid) DO NOTHING`, userID)
	return err
}

func (s *PostgresStats) LogAction(ctx context.Context, userID int64, action string, data map[string]any) error {
	var payload sql.NullString
	if len(data) > 0 {
		b, err := json.Marshal(data)
		if err == nil {
			payload = sql.NullString{String: string(b), Valid: true}
		}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_actions (uid, action, data) VALUES ($1, $2, $3)`,
		userID, action, payload)
	return err
}

func (s *PostgresStats) LogSearch(ctx context.Context, userID int64, c entity.Criteria, resultsCount int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (uid, mode, city, district, rooms, price, price_min, price_max, results_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		userID, c.Mode, c.City, c.District, c.Rooms, c.Price,
		nullFloat(c.PriceMin), nullFloat(c.PriceMax), resultsCount)
	return err
}

func (s *PostgresStats) LogLead(ctx context.Context, lead entity.Lead) error {
	adData, _ := json.Marshal(map[string]string{
		"title":    lead.Listing.TitleRU,
		"city":     lead.Listing.City,
		"district": lead.Listing.District,
		"price":    lead.Listing.Price,
		"phone":    lead.Listing.Phone,
	})
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (lead_id, uid, name, phone, ad_data) VALUES ($1, $2, $3, $4, $5)`,
		lead.ID, lead.UserID, lead.Name, lead.Phone, string(adData))
	return err
}

func (s *PostgresStats) LogFavorite(ctx context.Context, userID int64, action string, listing entity.Listing) error {
	adData, _ := json.Marshal(map[string]string{
		"title":    listing.TitleRU,
		"city":     listing.City,
		"district": listing.District,
		"price":    listing.Price,
	})
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO favorites (uid, action, ad_data) VALUES ($1, $2, $3)`,
		userID, action, string(adData))
	return err
}

func (s *PostgresStats) GetStats(ctx context.Context, days int) (repository.Stats, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	out := repository.Stats{
		PeriodDays:   days,
		ActionCounts: map[string]int{},
		ModeCounts:   map[string]int{},
		CityCounts:   map[string]int{},
	}

	scalars := []struct {
		dst   *int
		query string
	}{
		{&out.UniqueUsers, `SELECT COUNT(DISTINCT uid) FROM user_actions WHERE ts >= $1`},
		{&out.NewUsers, `SELECT COUNT(*) FROM first_seen WHERE ts >= $1`},
		{&out.TotalActions, `SELECT COUNT(*) FROM user_actions WHERE ts >= $1`},
		{&out.Searches, `SELECT COUNT(*) FROM searches WHERE ts >= $1`},
		{&out.Leads, `SELECT COUNT(*) FROM leads WHERE ts >= $1`},
		{&out.FavoritesAdded, `SELECT COUNT(*) FROM favorites WHERE action = 'add' AND ts >= $1`},
		{&out.FavoritesRemoved, `SELECT COUNT(*) FROM favorites WHERE action = 'remove' AND ts >= $1`},
	}
	for _, q := range scalars {
		if err := s.db.QueryRowContext(ctx, q.query, cutoff).Scan(q.dst); err != nil {
			return out, err
		}
	}

	if err := s.scanCounts(ctx, out.ActionCounts,
		`SELECT action, COUNT(*) FROM user_actions WHERE ts >= $1 GROUP BY action`, cutoff); err != nil {
		return out, err
	}
	if err := s.scanCounts(ctx, out.ModeCounts,
		`SELECT mode, COUNT(*) FROM searches WHERE ts >= $1 AND mode <> '' GROUP BY mode`, cutoff); err != nil {
		return out, err
	}
	if err := s.scanCounts(ctx, out.CityCounts,
		`SELECT city, COUNT(*) FROM searches WHERE ts >= $1 AND city <> '' GROUP BY city ORDER BY COUNT(*) DESC LIMIT 10`, cutoff); err != nil {
		return out, err
	}

	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx,
		`SELECT AVG(results_count) FROM searches WHERE ts >= $1 AND results_count > 0`, cutoff).Scan(&avg); err != nil {
		return out, err
	}
	if avg.Valid {
		out.AvgResultsPerSearch = avg.Float64
	}
	if out.Searches > 0 {
		out.ConversionRate = float64(out.Leads) / float64(out.Searches) * 100
	}
	return out, nil
}

func (s *PostgresStats) scanCounts(ctx context.Context, dst map[string]int, query string, cutoff time.Time) error {
	rows, err := s.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		dst[key] = count
	}
	return rows.Err()
}

func (s *PostgresStats) RecentSearches(ctx context.Context, userID int64, limit int) ([]repository.SearchRecord, error) {
	if limit <= 0 {
		limit = 3
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT uid, mode, city, district, rooms, price, price_min, price_max, results_count, ts
		 FROM searches WHERE uid = $1 ORDER BY id DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSearchRecords(rows)
}

func (s *PostgresStats) Export(ctx context.Context, days int) (repository.ExportData, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	out := repository.ExportData{ExportDate: time.Now().UTC(), PeriodDays: days}

	searchRows, err := s.db.QueryContext(ctx,
		`SELECT uid, mode, city, district, rooms, price, price_min, price_max, results_count, ts
		 FROM searches WHERE ts >= $1 ORDER BY id`, cutoff)
	if err != nil {
		return out, err
	}
	out.Searches, err = scanSearchRecords(searchRows)
	searchRows.Close()
	if err != nil {
		return out, err
	}

	leadRows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(lead_id, ''), uid, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(ad_data, ''), ts
		 FROM leads WHERE ts >= $1 ORDER BY id`, cutoff)
	if err != nil {
		return out, err
	}
	defer leadRows.Close()
	for leadRows.Next() {
		var r repository.LeadRecord
		if err := leadRows.Scan(&r.ID, &r.UserID, &r.Name, &r.Phone, &r.AdData, &r.Timestamp); err != nil {
			return out, err
		}
		out.Leads = append(out.Leads, r)
	}
	if err := leadRows.Err(); err != nil {
		return out, err
	}

	favRows, err := s.db.QueryContext(ctx,
		`SELECT uid, action, COALESCE(ad_data, ''), ts FROM favorites WHERE ts >= $1 ORDER BY id`, cutoff)
	if err != nil {
		return out, err
	}
	defer favRows.Close()
	for favRows.Next() {
		var r repository.FavoriteRecord
		if err := favRows.Scan(&r.UserID, &r.Action, &r.AdData, &r.Timestamp); err != nil {
			return out, err
		}
		out.Favorites = append(out.Favorites, r)
	}
	return out, favRows.Err()
}

func scanSearchRecords(rows *sql.Rows) ([]repository.SearchRecord, error) {
	var out []repository.SearchRecord
	for rows.Next() {
		var r repository.SearchRecord
		var pmin, pmax sql.NullFloat64
		if err := rows.Scan(&r.UserID, &r.Mode, &r.City, &r.District, &r.Rooms, &r.Price,
			&pmin, &pmax, &r.ResultsCount, &r.Timestamp); err != nil {
			return nil, err
		}
		if pmin.Valid {
			r.PriceMin = &pmin.Float64
		}
		if pmax.Valid {
			r.PriceMax = &pmax.Float64
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
