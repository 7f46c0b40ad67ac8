package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// MaxPhotos is the number of photo columns in the source sheet.
const MaxPhotos = 10

// Listing is one real-estate record sourced from the spreadsheet. Fields are
// kept verbatim as strings; normalization happens at filter time.
type Listing struct {
	Mode      string
	City      string
	District  string
	Type      string
	Rooms     string
	Price     string
	Published string
	Phone     string

	TitleRU string
	TitleEN string
	TitleKA string
	DescRU  string
	DescEN  string
	DescKA  string

	// Photos holds the raw photo1..photo10 cells, empty cells included.
	Photos [MaxPhotos]string
}

// Title returns the listing title for a language, falling back to Russian.
func (l Listing) Title(lang string) string {
	switch lang {
	case "en":
		if l.TitleEN != "" {
			return l.TitleEN
		}
	case "ka":
		if l.TitleKA != "" {
			return l.TitleKA
		}
	}
	return l.TitleRU
}

// Description returns the listing description for a language, falling back
// to Russian.
func (l Listing) Description(lang string) string {
	switch lang {
	case "en":
		if l.DescEN != "" {
			return l.DescEN
		}
	case "ka":
		if l.DescKA != "" {
			return l.DescKA
		}
	}
	return l.DescRU
}

// IdentityHash derives the listing identity from its visible fields. The
// source sheet guarantees no stable id column, so this is best-effort: two
// listings with identical visible fields collide and are treated as one
// (known limitation, acceptable for favorites dedup).
func (l Listing) IdentityHash() string {
	h := sha256.New()
	for _, part := range []string{
		l.Mode, l.City, l.District, l.Type, l.Rooms, l.Price,
		l.Published, l.Phone, l.TitleRU,
	} {
		h.Write([]byte(strings.TrimSpace(part)))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
