package entity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorAdvanceSaturates(t *testing.T) {
	s := NewSession(1, "ru")
	s.SetResults([]Listing{{City: "Tbilisi"}, {City: "Batumi"}})

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Tbilisi", cur.City)

	require.True(t, s.Advance())
	cur, _ = s.Current()
	assert.Equal(t, "Batumi", cur.City)

	// Advancing past the last index yields exhausted, never panics.
	assert.False(t, s.Advance())
	assert.True(t, s.Exhausted())
	assert.False(t, s.Advance())
	assert.Equal(t, 2, s.Cursor)

	require.True(t, s.Retreat())
	cur, _ = s.Current()
	assert.Equal(t, "Batumi", cur.City)
}

func TestCursorEmptyResults(t *testing.T) {
	s := NewSession(1, "ru")
	_, ok := s.Current()
	assert.False(t, ok)
	assert.True(t, s.Exhausted())
	assert.False(t, s.Retreat())
}

func TestToggleFavoriteIdempotent(t *testing.T) {
	s := NewSession(1, "ru")
	l := Listing{City: "Tbilisi", Price: "500$", TitleRU: "Квартира"}

	assert.True(t, s.ToggleFavorite(l))
	require.Len(t, s.Favorites, 1)

	// Same identity again removes it.
	assert.False(t, s.ToggleFavorite(l))
	assert.Empty(t, s.Favorites)

	// Add twice through distinct value copies: still deduped by identity.
	s.ToggleFavorite(l)
	dup := l
	s.ToggleFavorite(dup)
	assert.Empty(t, s.Favorites)
}

func TestIdentityHashStability(t *testing.T) {
	a := Listing{City: "Tbilisi", Price: "500$"}
	b := Listing{City: "Tbilisi", Price: "500$"}
	c := Listing{City: "Batumi", Price: "500$"}

	assert.Equal(t, a.IdentityHash(), b.IdentityHash())
	assert.NotEqual(t, a.IdentityHash(), c.IdentityHash())
}

func TestTitleFallback(t *testing.T) {
	l := Listing{TitleRU: "Квартира", TitleEN: "Apartment"}
	assert.Equal(t, "Apartment", l.Title("en"))
	assert.Equal(t, "Квартира", l.Title("ka"))
	assert.Equal(t, "Квартира", l.Title("ru"))
}

func TestResetWizardKeepsResults(t *testing.T) {
	s := NewSession(1, "ru")
	s.Stage = StagePriceMax
	s.Criteria = Criteria{Mode: "rent"}
	s.SetResults([]Listing{{}})

	s.ResetWizard()
	assert.Equal(t, StageIdle, s.Stage)
	assert.True(t, s.Criteria.IsEmpty())
	assert.Len(t, s.Results, 1)
}

func TestConcurrentCursorAndFavorites(t *testing.T) {
	s := NewSession(1, "ru")
	rows := make([]Listing, 50)
	for i := range rows {
		rows[i] = Listing{City: "Tbilisi", Rooms: string(rune('0' + i%10))}
	}
	s.SetResults(rows)

	// Rapid taps land as parallel updates sharing this session pointer.
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				switch w % 4 {
				case 0:
					s.Advance()
				case 1:
					s.Retreat()
				case 2:
					s.Current()
					s.Exhausted()
				case 3:
					s.ToggleFavorite(rows[i%len(rows)])
					s.IsFavorite(rows[i%len(rows)].IdentityHash())
				}
			}
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, s.Cursor, 0)
	assert.LessOrEqual(t, s.Cursor, len(rows))
}
