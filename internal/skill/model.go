package skill

import "time"

// Listing is a skill-exchange posting. Listings are append-only; rating is
// initialized to zero and never updated in this scope.
type Listing struct {
	ID          int64     `json:"id"`
	Offering    string    `json:"offering"`
	Wanting     string    `json:"wanting"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	OwnerEmail  string    `json:"owner_email"`
	Rating      int       `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
}

// SearchParams are the optional listing filters. All present filters compose
// conjunctively.
type SearchParams struct {
	// Text matches case-insensitively against offering, wanting, or
	// description (OR across the three fields).
	Text string
	// Category is an exact-match filter.
	Category string
	// Tags requires every supplied tag to be present on the listing.
	Tags []string
}

// CreateInput is the payload for a new listing.
type CreateInput struct {
	Offering    string   `json:"offering"`
	Wanting     string   `json:"wanting"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}
