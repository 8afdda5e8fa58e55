package request

// CreatePlayerRequest is the request body for registering a player
type CreatePlayerRequest struct {
	Handle         string `json:"handle"`
	ContactAddress string `json:"contact_address"`
	GivenName      string `json:"given_name"`
	FamilyName     string `json:"family_name"`
}

// UpdatePlayerRequest is the request body for a partial profile update.
// Absent fields are left untouched; wins and total_points are not
// updatable through this endpoint.
type UpdatePlayerRequest struct {
	Handle         *string `json:"handle,omitempty"`
	ContactAddress *string `json:"contact_address,omitempty"`
	GivenName      *string `json:"given_name,omitempty"`
	FamilyName     *string `json:"family_name,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

// RecordWinRequest is the request body for recording a win directly
type RecordWinRequest struct {
	Source string `json:"source"`
	Points int    `json:"points"`
}

// RiddleAttemptRequest is the request body for logging a riddle attempt
type RiddleAttemptRequest struct {
	RiddleID  string  `json:"riddle_id"`
	Location  string  `json:"location"`
	IsCorrect bool    `json:"is_correct"`
	TimeTaken float64 `json:"time_taken"`
}

// TreasureFoundRequest is the request body for logging a treasure find
type TreasureFoundRequest struct {
	TreasureID string  `json:"treasure_id"`
	Location   string  `json:"location"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}
