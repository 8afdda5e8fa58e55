package model

import "time"

// Player represents a registered game participant with identity and score
type Player struct {
	ID             PlayerID  `json:"id"`
	Handle         string    `json:"handle"`
	ContactAddress string    `json:"contact_address"`
	GivenName      string    `json:"given_name"`
	FamilyName     string    `json:"family_name"`
	Wins           int64     `json:"wins"`
	TotalPoints    int64     `json:"total_points"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PlayerPatch describes a partial profile update. ID, CreatedAt and the
// score counters are deliberately not representable here: the only write
// path for wins/total_points is the scoring engine's atomic increment.
type PlayerPatch struct {
	Handle         *string
	ContactAddress *string
	GivenName      *string
	FamilyName     *string
	IsActive       *bool
}

// IsZero reports whether the patch carries no changes
func (p PlayerPatch) IsZero() bool {
	return p.Handle == nil && p.ContactAddress == nil &&
		p.GivenName == nil && p.FamilyName == nil && p.IsActive == nil
}

// ScoreTotals is the result of an atomic score increment
type ScoreTotals struct {
	Wins        int64
	TotalPoints int64
}
