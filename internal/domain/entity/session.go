package entity

import (
	"sync"
	"time"
)

// Stage is the wizard conversation state.
type Stage int

const (
	StageIdle Stage = iota
	StageMode
	StageCity
	StageDistrict
	StageRooms
	StagePriceMethod
	StagePrice
	StagePriceMin
	StagePriceMax
)

// LeadStage is the lead-capture sub-state. While it is not LeadNone, free
// text messages are routed to the lead form instead of the wizard.
type LeadStage int

const (
	LeadNone LeadStage = iota
	LeadAwaitingName
	LeadAwaitingPhone
)

// Favorite is one favorited listing, keyed by identity hash.
type Favorite struct {
	Identity string
	Listing  Listing
}

// Session is all per-user transient state: language, wizard progress, the
// current result cursor, favorites and the pending lead form. The store
// hands the same pointer to every update of a user, so cursor and favorite
// methods take the session's own mutex. Direct field access is safe only
// under the per-user dispatch lock.
type Session struct {
	mu sync.Mutex

	UserID   int64
	Lang     string
	Stage    Stage
	Criteria Criteria

	Results []Listing
	Cursor  int

	Favorites []Favorite

	LeadStage LeadStage
	LeadName  string
	LeadIndex int
	LeadAd    Listing

	LastAdAt time.Time
	LastAdID string

	LastSeen time.Time
}

// NewSession returns an idle session for a user.
func NewSession(userID int64, lang string) *Session {
	return &Session{UserID: userID, Lang: lang, LastSeen: time.Now()}
}

// SetResults replaces the result set and rewinds the cursor.
func (s *Session) SetResults(rows []Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Results = rows
	s.Cursor = 0
}

// Current returns the listing under the cursor. ok is false when the result
// set is exhausted or empty.
func (s *Session) Current() (Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

func (s *Session) currentLocked() (Listing, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Results) {
		return Listing{}, false
	}
	return s.Results[s.Cursor], true
}

// Advance moves the cursor forward. It saturates at len(Results), the
// "exhausted" position, and reports whether a listing is available there.
func (s *Session) Advance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Cursor < len(s.Results) {
		s.Cursor++
	}
	_, ok := s.currentLocked()
	return ok
}

// Retreat moves the cursor back, saturating at 0.
func (s *Session) Retreat() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Cursor > 0 {
		s.Cursor--
	}
	_, ok := s.currentLocked()
	return ok
}

// Exhausted reports whether the cursor ran past the last listing.
func (s *Session) Exhausted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Results) == 0 || s.Cursor >= len(s.Results)
}

// IsFavorite reports whether the identity is currently favorited.
func (s *Session) IsFavorite(identity string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.Favorites {
		if f.Identity == identity {
			return true
		}
	}
	return false
}

// ToggleFavorite adds the listing to favorites, or removes it when already
// present. Returns true when the listing ended up favorited.
func (s *Session) ToggleFavorite(listing Listing) bool {
	identity := listing.IdentityHash()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.Favorites {
		if f.Identity == identity {
			s.Favorites = append(s.Favorites[:i], s.Favorites[i+1:]...)
			return false
		}
	}
	s.Favorites = append(s.Favorites, Favorite{Identity: identity, Listing: listing})
	return true
}

// ResetWizard drops wizard progress but keeps results, favorites and language.
func (s *Session) ResetWizard() {
	s.Stage = StageIdle
	s.Criteria = Criteria{}
}
