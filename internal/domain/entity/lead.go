package entity

import (
	"time"

	"github.com/google/uuid"
)

// Lead is a captured contact request for one listing.
type Lead struct {
	ID        string
	UserID    int64
	Name      string
	Phone     string
	Listing   Listing
	CreatedAt time.Time
}

// NewLead builds a lead with a fresh id.
func NewLead(userID int64, name, phone string, listing Listing) Lead {
	return Lead{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Phone:     phone,
		Listing:   listing,
		CreatedAt: time.Now().UTC(),
	}
}

// Ad is one injectable promo entry.
type Ad struct {
	ID   string
	Text string
	URL  string
}
