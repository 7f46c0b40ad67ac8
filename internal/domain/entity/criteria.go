package entity

// Criteria is the set of search constraints collected across wizard turns.
// Empty string fields and nil price bounds act as wildcards.
//
// Price is expressed in exactly one of two ways: a symbolic range string
// ("500-1000", "1500+", bare cap "1000") in Price, or an explicit numeric
// pair in PriceMin/PriceMax. The wizard never populates both.
type Criteria struct {
	Mode     string
	City     string
	District string
	Rooms    string

	Price    string
	PriceMin *float64
	PriceMax *float64
}

// IsEmpty reports whether every constraint is a wildcard.
func (c Criteria) IsEmpty() bool {
	return c.Mode == "" && c.City == "" && c.District == "" && c.Rooms == "" &&
		c.Price == "" && c.PriceMin == nil && c.PriceMax == nil
}

// HasPriceBounds reports whether an explicit numeric price pair is set.
func (c Criteria) HasPriceBounds() bool {
	return c.PriceMin != nil || c.PriceMax != nil
}
