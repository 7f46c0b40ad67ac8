package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
)

func f64(v float64) *float64 { return &v }

func TestNormalizeMode(t *testing.T) {
	cases := map[string]string{
		"rent":        "rent",
		"Аренда":      "rent",
		"ქირავდება":   "rent",
		"  SALE  ":    "sale",
		"Продажа":     "sale",
		"იყიდება":     "sale",
		"посуточно":   "daily",
		"Daily":       "daily",
		"დღიურად":     "daily",
		"🏘 Аренда":    "rent",
		"whatever":    "",
		"":            "",
		"продажа!!!":  "sale",
		"long-term??": "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeMode(in), "input %q", in)
	}
}

func TestParseRooms(t *testing.T) {
	assert.Equal(t, 0.5, ParseRooms("студия"))
	assert.Equal(t, 0.5, ParseRooms("Studio"))
	assert.Equal(t, 0.5, ParseRooms("სტუდიო"))
	assert.Equal(t, 3.0, ParseRooms("3"))
	assert.Equal(t, 3.0, ParseRooms("3+"))
	assert.Equal(t, -1.0, ParseRooms("three"))
	assert.Equal(t, -1.0, ParseRooms(""))
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, 500.0, ParsePrice("500$"))
	assert.Equal(t, 1200.5, ParsePrice(" 1 200.5 USD "))
	assert.Equal(t, 0.0, ParsePrice("договорная"))
	assert.Equal(t, 0.0, ParsePrice(""))
}

func listing(mode, city, district, rooms, price string) entity.Listing {
	return entity.Listing{Mode: mode, City: city, District: district, Rooms: rooms, Price: price}
}

func TestFilterIdentity(t *testing.T) {
	e := NewFilterEngine(true)
	l := listing("rent", "Tbilisi", "Vake", "2", "600$")
	got := e.Filter([]entity.Listing{l}, entity.Criteria{})
	require.Len(t, got, 1)
	assert.Equal(t, l, got[0])
}

func TestFilterMode(t *testing.T) {
	e := NewFilterEngine(true)
	rows := []entity.Listing{
		listing("Аренда", "Tbilisi", "", "", ""),
		listing("sale", "Tbilisi", "", "", ""),
	}
	got := e.Filter(rows, entity.Criteria{Mode: "rent"})
	require.Len(t, got, 1)
	assert.Equal(t, "Аренда", got[0].Mode)
}

func TestFilterCityCaseInsensitive(t *testing.T) {
	e := NewFilterEngine(true)
	rows := []entity.Listing{
		listing("rent", "  tbilisi ", "", "", ""),
		listing("rent", "Batumi", "", "", ""),
	}
	got := e.Filter(rows, entity.Criteria{City: "Tbilisi"})
	require.Len(t, got, 1)
	assert.Equal(t, "  tbilisi ", got[0].City)
}

func TestFilterRoomsPlus(t *testing.T) {
	e := NewFilterEngine(true)
	rows := []entity.Listing{
		listing("", "", "", "2", ""),
		listing("", "", "", "3", ""),
		listing("", "", "", "5", ""),
		listing("", "", "", "garbage", ""),
	}
	got := e.Filter(rows, entity.Criteria{Rooms: "3+"})
	require.Len(t, got, 2)
	assert.Equal(t, "3", got[0].Rooms)
	assert.Equal(t, "5", got[1].Rooms)
}

func TestFilterRoomsExactAndStudio(t *testing.T) {
	e := NewFilterEngine(true)
	rows := []entity.Listing{
		listing("", "", "", "2", ""),
		listing("", "", "", "студия", ""),
		listing("", "", "", "0.5", ""),
	}
	got := e.Filter(rows, entity.Criteria{Rooms: "2"})
	require.Len(t, got, 1)

	got = e.Filter(rows, entity.Criteria{Rooms: "0.5"})
	assert.Len(t, got, 2)
}

func TestFilterExplicitPriceBounds(t *testing.T) {
	e := NewFilterEngine(true)
	rows := []entity.Listing{
		listing("", "", "", "", "400$"),
		listing("", "", "", "", "750$"),
		listing("", "", "", "", "1200$"),
		listing("", "", "", "", ""), // unspecified, passes
	}
	got := e.Filter(rows, entity.Criteria{PriceMin: f64(500), PriceMax: f64(1000)})
	require.Len(t, got, 2)
	assert.Equal(t, "750$", got[0].Price)
	assert.Equal(t, "", got[1].Price)

	// Unbounded max.
	got = e.Filter(rows, entity.Criteria{PriceMin: f64(500)})
	assert.Len(t, got, 3)
}

func TestFilterSymbolicPrice(t *testing.T) {
	e := NewFilterEngine(true)
	rows := []entity.Listing{
		listing("", "", "", "", "400$"),
		listing("", "", "", "", "750$"),
		listing("", "", "", "", "1200$"),
		listing("", "", "", "", "0"),
	}

	got := e.Filter(rows, entity.Criteria{Price: "500-1000"})
	require.Len(t, got, 2)
	assert.Equal(t, "750$", got[0].Price)
	assert.Equal(t, "0", got[1].Price)

	// Open-ended range.
	got = e.Filter(rows, entity.Criteria{Price: "1100$+"})
	require.Len(t, got, 2)
	assert.Equal(t, "1200$", got[0].Price)

	// Bare cap.
	got = e.Filter(rows, entity.Criteria{Price: "500"})
	assert.Len(t, got, 2)

	// Skip word acts as a wildcard.
	got = e.Filter(rows, entity.Criteria{Price: "Пропустить"})
	assert.Len(t, got, 4)
}

func TestFilterUnpricedFlag(t *testing.T) {
	strict := NewFilterEngine(false)
	rows := []entity.Listing{
		listing("", "", "", "", ""),
		listing("", "", "", "", "600$"),
	}
	got := strict.Filter(rows, entity.Criteria{Price: "500-1000"})
	require.Len(t, got, 1)
	assert.Equal(t, "600$", got[0].Price)

	got = strict.Filter(rows, entity.Criteria{PriceMin: f64(100)})
	require.Len(t, got, 1)
}

func TestFilterEndToEnd(t *testing.T) {
	e := NewFilterEngine(true)
	rows := []entity.Listing{
		listing("rent", "Tbilisi", "Vake", "2", "500$"),
		listing("rent", "Tbilisi", "Saburtalo", "2", "600$"),
		listing("sale", "Tbilisi", "Vake", "2", "90000$"),
		listing("rent", "Batumi", "Old Town", "2", "450$"),
		listing("rent", "Tbilisi", "Vake", "3", "800$"),
	}
	got := e.Filter(rows, entity.Criteria{Mode: "rent", City: "Tbilisi", Rooms: "2"})
	require.Len(t, got, 2)
	assert.Equal(t, "Vake", got[0].District)
	assert.Equal(t, "Saburtalo", got[1].District)
}

func TestSortByPublishedDesc(t *testing.T) {
	rows := []entity.Listing{
		{Published: "2024-01-05"},
		{Published: "2024-03-01"},
		{Published: "2023-12-31"},
	}
	sorted := SortByPublishedDesc(rows)
	assert.Equal(t, "2024-03-01", sorted[0].Published)
	assert.Equal(t, "2023-12-31", sorted[2].Published)
	// Input untouched.
	assert.Equal(t, "2024-01-05", rows[0].Published)
}

func TestCityAndDistrictCounts(t *testing.T) {
	rows := []entity.Listing{
		listing("rent", "Tbilisi", "Vake", "", ""),
		listing("rent", "Tbilisi", "Vake", "", ""),
		listing("rent", "Tbilisi", "Saburtalo", "", ""),
		listing("rent", "Batumi", "", "", ""),
		listing("sale", "Kutaisi", "", "", ""),
	}
	cities := CityCounts(rows, "rent")
	require.Len(t, cities, 2)
	assert.Equal(t, OptionCount{Name: "Tbilisi", Count: 3}, cities[0])
	assert.Equal(t, OptionCount{Name: "Batumi", Count: 1}, cities[1])

	districts := DistrictCounts(rows, "rent", "tbilisi")
	require.Len(t, districts, 2)
	assert.Equal(t, OptionCount{Name: "Vake", Count: 2}, districts[0])
}
