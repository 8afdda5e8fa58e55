package model

import (
	"encoding/json"
	"time"
)

// EventType identifies the type of ledger event
type EventType string

const (
	EventWin           EventType = "win"
	EventRiddleAttempt EventType = "riddle_attempt"
	EventTreasureFound EventType = "treasure_found"
)

// GameEvent is an immutable record of a single gameplay occurrence.
// Events are appended once and never changed or removed; aggregate
// statistics can always be recomputed from them.
type GameEvent struct {
	ID        EventID         `json:"id"`
	PlayerID  PlayerID        `json:"player_id"`
	Type      EventType       `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// Coordinates is a GPS position
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// WinPayload contains data for win events
type WinPayload struct {
	Source          string `json:"source"`
	PointsEarned    int    `json:"points_earned"`
	ResultingWins   int64  `json:"resulting_wins"`
	ResultingPoints int64  `json:"resulting_points"`
}

// RiddleAttemptPayload contains data for riddle attempt events
type RiddleAttemptPayload struct {
	RiddleID  string  `json:"riddle_id"`
	Location  string  `json:"location"`
	IsCorrect bool    `json:"is_correct"`
	TimeTaken float64 `json:"time_taken"`
}

// TreasureFoundPayload contains data for treasure found events
type TreasureFoundPayload struct {
	TreasureID  string      `json:"treasure_id"`
	Location    string      `json:"location"`
	Coordinates Coordinates `json:"coordinates"`
}
