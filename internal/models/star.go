package models

// StarType classifies how a star was earned
type StarType string

const (
	StarDaily             StarType = "daily"
	StarBonus             StarType = "bonus"
	StarBalloonConversion StarType = "balloon_conversion"
)

// Valid reports whether t is one of the known star types
func (t StarType) Valid() bool {
	switch t {
	case StarDaily, StarBonus, StarBalloonConversion:
		return true
	}
	return false
}

// Star is a single entry in a kid's reward ledger. Deleting it revokes it.
type Star struct {
	ID          int64    `json:"id"`
	KidID       int64    `json:"kid_id"`
	DateAwarded string   `json:"date_awarded"`
	Type        StarType `json:"type"`
	Reason      string   `json:"reason"`
}
