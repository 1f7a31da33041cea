package models

// Ad is one entry of the catalog served by GET /api/ads.
type Ad struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    int     `json:"duration"` // seconds
	Earnings    float64 `json:"earnings"`
	Category    string  `json:"category,omitempty"`
}

// AdCatalog is the envelope of GET /api/ads.
type AdCatalog struct {
	Ads []Ad `json:"ads"`
}
