package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
	"github.com/liveplace/liveplace-bot/pkg/logger"
)

// Client reads the listing table from one Google Sheets tab. The first row
// is the header; every following row becomes a Listing.
type Client struct {
	service *sheets.Service
	sheetID string
	tab     string
}

// NewClient builds a read-only Sheets client from service-account JSON.
func NewClient(ctx context.Context, credentialsJSON, sheetID, tab string) (*Client, error) {
	if strings.TrimSpace(credentialsJSON) == "" {
		return nil, fmt.Errorf("GOOGLE_CREDENTIALS_JSON is missing")
	}
	service, err := sheets.NewService(ctx,
		option.WithCredentialsJSON([]byte(credentialsJSON)),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	if tab == "" {
		tab = "Ads"
	}
	return &Client{service: service, sheetID: sheetID, tab: tab}, nil
}

// Load fetches all rows of the tab and maps them to listings.
func (c *Client) Load(ctx context.Context) ([]entity.Listing, error) {
	resp, err := c.service.Spreadsheets.Values.
		Get(c.sheetID, c.tab).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %s!%s: %w", c.sheetID, c.tab, err)
	}
	if len(resp.Values) < 2 {
		return nil, nil
	}

	header := make([]string, len(resp.Values[0]))
	for i, cell := range resp.Values[0] {
		header[i] = strings.ToLower(strings.TrimSpace(fmt.Sprint(cell)))
	}

	rows := make([]entity.Listing, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := make(map[string]string, len(header))
		for i, cell := range raw {
			if i >= len(header) {
				break
			}
			row[header[i]] = strings.TrimSpace(fmt.Sprint(cell))
		}
		rows = append(rows, listingFromRow(row))
	}
	logger.InfoLogger.Printf("✅ Loaded %d rows from Sheets [%s]", len(rows), c.tab)
	return rows, nil
}

func listingFromRow(row map[string]string) entity.Listing {
	l := entity.Listing{
		Mode:      row["mode"],
		City:      row["city"],
		District:  row["district"],
		Type:      row["type"],
		Rooms:     row["rooms"],
		Price:     row["price"],
		Published: row["published"],
		Phone:     row["phone"],
		TitleRU:   row["title_ru"],
		TitleEN:   row["title_en"],
		TitleKA:   row["title_ka"],
		DescRU:    row["description_ru"],
		DescEN:    row["description_en"],
		DescKA:    row["description_ka"],
	}
	for i := 0; i < entity.MaxPhotos; i++ {
		l.Photos[i] = row[fmt.Sprintf("photo%d", i+1)]
	}
	return l
}
