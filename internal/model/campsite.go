package model

import "time"

// Campsite represents a bookable campsite, including its comment thread.
//
// The `json:"..."` tags tell Go's encoding/json package how to serialize this
// struct. The comment thread is embedded in the campsite (a campsite "owns"
// its comments — they have no life of their own), mirroring how the records
// are read back: every campsite fetch joins its comments and their authors.
//
// WHY Cost int64 AND NOT float64?
// Cost is a fixed-point currency value stored in cents. Floating point is the
// classic currency bug: 0.1 + 0.2 != 0.3. Integers of the smallest unit are
// exact, compare cleanly, and survive round-trips through JSON and SQL.
type Campsite struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Elevation   int       `json:"elevation"`
	Cost        int64     `json:"cost"` // cents
	Featured    bool      `json:"featured"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Comment is a rated remark left on a campsite by a user.
//
// AuthorID is a weak reference: it is recorded at creation time and looked up
// for display, but nothing maintains it if the user record ever disappears
// (no API route deletes users, so the orphan path is unreachable today).
// Author is the resolved view, populated on reads; it is nil when the
// reference no longer resolves.
//
// Rating is constrained to 1..5 inclusive — enforced by the service layer on
// create and update, and by a CHECK constraint in the schema as a backstop.
type Comment struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	AuthorID  string    `json:"-"`
	Author    *Author   `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
