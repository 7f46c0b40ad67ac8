package usecase

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
)

// Mode alias table, built once. Listing rows and user replies come in three
// languages plus free-form spellings; all of them normalize to one of
// rent/sale/daily or "".
var modeAliases = func() map[string]string {
	out := make(map[string]string)
	add := func(canonical string, aliases ...string) {
		out[canonical] = canonical
		for _, a := range aliases {
			out[a] = canonical
		}
	}
	add("rent", "аренда", "long", "longterm", "долгосрочно", "ქირავდება")
	add("sale", "продажа", "buy", "sell", "იყიდება")
	add("daily", "посуточно", "sutki", "сутки", "short", "shortterm", "day", "დღიურად")
	return out
}()

var (
	nonModeChars  = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
	nonPriceChars = regexp.MustCompile(`[^\d.]`)
	digitsOnly    = regexp.MustCompile(`[^\d]`)
)

// Normalize lowercases, trims and collapses inner whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// NormalizeMode maps a raw mode value to rent/sale/daily, or "" when the
// value is not recognized.
func NormalizeMode(s string) string {
	v := strings.TrimSpace(nonModeChars.ReplaceAllString(Normalize(s), ""))
	return modeAliases[v]
}

// ParseRooms parses a room count: plain number, "N+" or a studio word
// (mapped to 0.5). Returns -1 when unparsable.
func ParseRooms(s string) float64 {
	v := Normalize(s)
	switch v {
	case "студия", "studio", "stud", "სტუდიო":
		return 0.5
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(v, "+", ""), 64)
	if err != nil {
		return -1
	}
	return n
}

// ParsePrice extracts a numeric price from a free-form cell by stripping
// currency symbols and separators. Unparsable values come back as 0, which
// the filter treats as "price unspecified".
func ParsePrice(s string) float64 {
	v := nonPriceChars.ReplaceAllString(strings.TrimSpace(s), "")
	if v == "" {
		return 0
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return n
}

// price skip phrases: a symbolic criterion equal to the localized "skip"
// button is a wildcard.
var priceSkipWords = map[string]struct{}{
	"пропустить": {}, "skip": {}, "გამოტოვება": {},
}

// FilterEngine applies Criteria against a listing snapshot. IncludeUnpriced
// keeps the original permissive behaviour: a listing whose price parses to
// zero passes any price criterion.
type FilterEngine struct {
	IncludeUnpriced bool
}

// NewFilterEngine builds a filter engine.
func NewFilterEngine(includeUnpriced bool) *FilterEngine {
	return &FilterEngine{IncludeUnpriced: includeUnpriced}
}

// Filter returns listings matching the criteria, preserving snapshot order.
func (e *FilterEngine) Filter(rows []entity.Listing, c entity.Criteria) []entity.Listing {
	out := make([]entity.Listing, 0, len(rows))
	for _, r := range rows {
		if e.matches(r, c) {
			out = append(out, r)
		}
	}
	return out
}

func (e *FilterEngine) matches(r entity.Listing, c entity.Criteria) bool {
	if c.Mode != "" && NormalizeMode(r.Mode) != NormalizeMode(c.Mode) {
		return false
	}
	if v := strings.TrimSpace(c.City); v != "" && Normalize(r.City) != Normalize(v) {
		return false
	}
	if v := strings.TrimSpace(c.District); v != "" && Normalize(r.District) != Normalize(v) {
		return false
	}
	if !e.matchesRooms(r, c) {
		return false
	}
	return e.matchesPrice(r, c)
}

func (e *FilterEngine) matchesRooms(r entity.Listing, c entity.Criteria) bool {
	want := strings.TrimSpace(c.Rooms)
	if want == "" {
		return true
	}
	need, err := strconv.ParseFloat(strings.ReplaceAll(Normalize(want), "+", ""), 64)
	if err != nil {
		// Unparsable criterion is ignored, not enforced.
		return true
	}
	have := ParseRooms(r.Rooms)
	if have < 0 {
		return false
	}
	if strings.Contains(want, "+") {
		return have >= need
	}
	if need == 0.5 || have == 0.5 {
		return need == have
	}
	return int(need) == int(have)
}

func (e *FilterEngine) matchesPrice(r entity.Listing, c entity.Criteria) bool {
	if c.HasPriceBounds() {
		p := ParsePrice(r.Price)
		if p == 0 {
			return e.IncludeUnpriced
		}
		if c.PriceMin != nil && p < *c.PriceMin {
			return false
		}
		if c.PriceMax != nil && p > *c.PriceMax {
			return false
		}
		return true
	}

	expr := strings.TrimSpace(c.Price)
	if expr == "" {
		return true
	}
	if _, skip := priceSkipWords[Normalize(expr)]; skip {
		return true
	}

	p := ParsePrice(r.Price)
	if strings.HasSuffix(expr, "+") && !strings.Contains(expr, "-") {
		// "1500+" means left and above.
		if p == 0 {
			return e.IncludeUnpriced
		}
		return p >= parseBound(expr)
	}
	if strings.Contains(expr, "-") {
		parts := strings.SplitN(expr, "-", 2)
		left := parseBound(parts[0])
		right := 0.0
		if len(parts) > 1 {
			right = parseBound(parts[1])
		}
		if p == 0 {
			return e.IncludeUnpriced
		}
		if right == 0 {
			// "1500-" and "1500+" mean left and above.
			return p >= left
		}
		return p >= left && p <= right
	}

	// Bare value means "at most this value".
	limit := ParsePrice(expr)
	if p == 0 {
		return e.IncludeUnpriced
	}
	return limit <= 0 || p <= limit
}

// parseBound parses one side of a symbolic range, digits only ("500$" → 500).
func parseBound(s string) float64 {
	v := digitsOnly.ReplaceAllString(s, "")
	if v == "" {
		return 0
	}
	n, _ := strconv.ParseFloat(v, 64)
	return n
}

// SortByPublishedDesc returns a copy sorted most-recent-first by string
// comparison of the published field (the sheet stores ISO-8601 dates, so
// lexicographic order is chronological).
func SortByPublishedDesc(rows []entity.Listing) []entity.Listing {
	out := make([]entity.Listing, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Published > out[j].Published
	})
	return out
}

// OptionCount is one wizard keyboard option with its listing count.
type OptionCount struct {
	Name  string
	Count int
}

// CityCounts returns distinct cities reachable under the chosen mode,
// ordered by count desc then name.
func CityCounts(rows []entity.Listing, mode string) []OptionCount {
	counts := make(map[string]int)
	for _, r := range rows {
		if NormalizeMode(r.Mode) != mode {
			continue
		}
		city := strings.TrimSpace(r.City)
		if city != "" {
			counts[city]++
		}
	}
	return sortedOptions(counts)
}

// DistrictCounts returns distinct districts reachable under mode+city.
func DistrictCounts(rows []entity.Listing, mode, city string) []OptionCount {
	counts := make(map[string]int)
	for _, r := range rows {
		if NormalizeMode(r.Mode) != mode || Normalize(r.City) != Normalize(city) {
			continue
		}
		district := strings.TrimSpace(r.District)
		if district != "" {
			counts[district]++
		}
	}
	return sortedOptions(counts)
}

func sortedOptions(counts map[string]int) []OptionCount {
	out := make([]OptionCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, OptionCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
