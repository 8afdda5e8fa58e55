package response

import (
	"encoding/json"
	"time"

	"github.com/huntbase/treasurehunt/internal/model"
	"github.com/huntbase/treasurehunt/internal/services/activity"
	"github.com/huntbase/treasurehunt/internal/services/scoring"
)

// Player represents a player in API responses
type Player struct {
	ID             string    `json:"id"`
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

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:             string(p.ID),
		Handle:         p.Handle,
		ContactAddress: p.ContactAddress,
		GivenName:      p.GivenName,
		FamilyName:     p.FamilyName,
		Wins:           p.Wins,
		TotalPoints:    p.TotalPoints,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// PlayerList is a paginated list of players
type PlayerList struct {
	Players []Player `json:"players"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}

// PlayerListFromModels converts a page of model players
func PlayerListFromModels(players []*model.Player, limit, offset int) PlayerList {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return PlayerList{Players: out, Limit: limit, Offset: offset}
}

// Count is a bare counter response
type Count struct {
	Count int64 `json:"count"`
}

// Modified reports how many records an update touched
type Modified struct {
	Modified int `json:"modified"`
}

// WinResult is the response after recording a win
type WinResult struct {
	PlayerID     string `json:"player_id"`
	PointsEarned int    `json:"points_earned"`
	Wins         int64  `json:"wins"`
	TotalPoints  int64  `json:"total_points"`
}

// WinResultFromService converts a scoring.WinResult
func WinResultFromService(r *scoring.WinResult) WinResult {
	return WinResult{
		PlayerID:     string(r.PlayerID),
		PointsEarned: r.PointsEarned,
		Wins:         r.Wins,
		TotalPoints:  r.TotalPoints,
	}
}

// LeaderboardEntry is one leaderboard row
type LeaderboardEntry struct {
	Position    int    `json:"position"`
	PlayerID    string `json:"player_id"`
	Handle      string `json:"handle"`
	GivenName   string `json:"given_name"`
	FamilyName  string `json:"family_name"`
	Wins        int64  `json:"wins"`
	TotalPoints int64  `json:"total_points"`
}

// Leaderboard is the leaderboard response
type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardFromService converts scoring leaderboard entries
func LeaderboardFromService(entries []scoring.LeaderboardEntry) Leaderboard {
	out := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntry{
			Position:    e.Position,
			PlayerID:    string(e.PlayerID),
			Handle:      e.Handle,
			GivenName:   e.GivenName,
			FamilyName:  e.FamilyName,
			Wins:        e.Wins,
			TotalPoints: e.TotalPoints,
		}
	}
	return Leaderboard{Entries: out}
}

// GameEvent is a ledger event in API responses
type GameEvent struct {
	ID        string          `json:"id"`
	PlayerID  string          `json:"player_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// GameEventFromModel converts a model.GameEvent
func GameEventFromModel(e *model.GameEvent) GameEvent {
	return GameEvent{
		ID:        string(e.ID),
		PlayerID:  string(e.PlayerID),
		EventType: string(e.Type),
		Payload:   e.Payload,
		Timestamp: e.Timestamp,
	}
}

// EventList is a list of ledger events, newest first
type EventList struct {
	Events []GameEvent `json:"events"`
}

// EventListFromModels converts model events
func EventListFromModels(events []*model.GameEvent) EventList {
	out := make([]GameEvent, len(events))
	for i, e := range events {
		out[i] = GameEventFromModel(e)
	}
	return EventList{Events: out}
}

// Stats is the per-player statistics response
type Stats struct {
	PlayerID       string           `json:"player_id"`
	Handle         string           `json:"handle"`
	Wins           int64            `json:"wins"`
	TotalPoints    int64            `json:"total_points"`
	TotalEvents    int64            `json:"total_events"`
	EventBreakdown map[string]int64 `json:"event_breakdown"`
	RecentEvents   []GameEvent      `json:"recent_events"`
	Rank           int              `json:"rank"`
}

// StatsFromService converts scoring.Stats
func StatsFromService(s *scoring.Stats) Stats {
	breakdown := make(map[string]int64, len(s.EventBreakdown))
	for t, n := range s.EventBreakdown {
		breakdown[string(t)] = n
	}
	recent := make([]GameEvent, len(s.RecentEvents))
	for i, e := range s.RecentEvents {
		recent[i] = GameEventFromModel(e)
	}
	return Stats{
		PlayerID:       string(s.PlayerID),
		Handle:         s.Handle,
		Wins:           s.Wins,
		TotalPoints:    s.TotalPoints,
		TotalEvents:    s.TotalEvents,
		EventBreakdown: breakdown,
		RecentEvents:   recent,
		Rank:           s.Rank,
	}
}

// Rank is the response for a rank lookup; 0 means unranked
type Rank struct {
	PlayerID string `json:"player_id"`
	Rank     int    `json:"rank"`
}

// AttemptResult is the response after logging a riddle attempt
type AttemptResult struct {
	PlayerID     string `json:"player_id"`
	RiddleID     string `json:"riddle_id"`
	IsCorrect    bool   `json:"is_correct"`
	PointsEarned int    `json:"points_earned"`
}

// AttemptResultFromService converts an activity.AttemptResult
func AttemptResultFromService(r *activity.AttemptResult) AttemptResult {
	return AttemptResult{
		PlayerID:     string(r.PlayerID),
		RiddleID:     r.RiddleID,
		IsCorrect:    r.IsCorrect,
		PointsEarned: r.PointsEarned,
	}
}

// FindResult is the response after logging a treasure find
type FindResult struct {
	PlayerID     string `json:"player_id"`
	TreasureID   string `json:"treasure_id"`
	PointsEarned int    `json:"points_earned"`
}

// FindResultFromService converts an activity.FindResult
func FindResultFromService(r *activity.FindResult) FindResult {
	return FindResult{
		PlayerID:     string(r.PlayerID),
		TreasureID:   r.TreasureID,
		PointsEarned: r.PointsEarned,
	}
}

// RiddleHistory is the riddle attempt history response
type RiddleHistory struct {
	Attempts []activity.RiddleAttemptRecord `json:"attempts"`
}

// TreasureHistory is the treasure find history response
type TreasureHistory struct {
	Finds []activity.TreasureFindRecord `json:"finds"`
}
