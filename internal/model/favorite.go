package model

// Favorite is a user's set of favorited campsites.
//
// It behaves as a set: adding a campsite that is already present is a no-op
// that still counts as success, and adding to a user who has no favorites yet
// implicitly creates the record. Storage-wise there is no "favorite document"
// — just (user_id, campsite_id) rows with a uniqueness constraint — but the
// API presents the one-record-per-user shape clients expect, with the campsite
// references resolved into full records for display.
type Favorite struct {
	UserID    string     `json:"user"`
	Campsites []Campsite `json:"campsites"`
}
