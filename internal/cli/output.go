package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case PlayerList:
		o.printPlayerList(v)
	case CountResult:
		fmt.Printf("Count: %d\n", v.Count)
	case ModifiedResult:
		fmt.Printf("Modified: %d\n", v.Modified)
	case WinResult:
		o.printWinResult(v)
	case RankResult:
		o.printRankResult(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case Stats:
		o.printStats(v)
	case AttemptResult:
		o.printAttemptResult(v)
	case FindResult:
		o.printFindResult(v)
	case RiddleHistory:
		o.printRiddleHistory(v)
	case TreasureHistory:
		o.printTreasureHistory(v)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
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

// PlayerList response type
type PlayerList struct {
	Players []Player `json:"players"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}

// CountResult response type
type CountResult struct {
	Count int64 `json:"count"`
}

// ModifiedResult response type
type ModifiedResult struct {
	Modified int `json:"modified"`
}

// WinResult response type
type WinResult struct {
	PlayerID     string `json:"player_id"`
	PointsEarned int    `json:"points_earned"`
	Wins         int64  `json:"wins"`
	TotalPoints  int64  `json:"total_points"`
}

// RankResult response type
type RankResult struct {
	PlayerID string `json:"player_id"`
	Rank     int    `json:"rank"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Position    int    `json:"position"`
	PlayerID    string `json:"player_id"`
	Handle      string `json:"handle"`
	GivenName   string `json:"given_name"`
	FamilyName  string `json:"family_name"`
	Wins        int64  `json:"wins"`
	TotalPoints int64  `json:"total_points"`
}

// Leaderboard response type
type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// GameEvent response type
type GameEvent struct {
	ID        string          `json:"id"`
	PlayerID  string          `json:"player_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// Stats response type
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

// AttemptResult response type
type AttemptResult struct {
	PlayerID     string `json:"player_id"`
	RiddleID     string `json:"riddle_id"`
	IsCorrect    bool   `json:"is_correct"`
	PointsEarned int    `json:"points_earned"`
}

// FindResult response type
type FindResult struct {
	PlayerID     string `json:"player_id"`
	TreasureID   string `json:"treasure_id"`
	PointsEarned int    `json:"points_earned"`
}

// RiddleAttempt response type
type RiddleAttempt struct {
	RiddleID  string    `json:"riddle_id"`
	Location  string    `json:"location"`
	IsCorrect bool      `json:"is_correct"`
	TimeTaken float64   `json:"time_taken"`
	Timestamp time.Time `json:"timestamp"`
}

// RiddleHistory response type
type RiddleHistory struct {
	Attempts []RiddleAttempt `json:"attempts"`
}

// TreasureFind response type
type TreasureFind struct {
	TreasureID string    `json:"treasure_id"`
	Location   string    `json:"location"`
	Timestamp  time.Time `json:"timestamp"`
}

// TreasureHistory response type
type TreasureHistory struct {
	Finds []TreasureFind `json:"finds"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	activeStr := "active"
	if !p.IsActive {
		activeStr = "inactive"
	}
	fmt.Printf("Player: %s (%s)\n", p.Handle, p.ID)
	fmt.Printf("Name: %s %s\n", p.GivenName, p.FamilyName)
	fmt.Printf("Contact: %s\n", p.ContactAddress)
	fmt.Printf("Wins: %d, Points: %d (%s)\n", p.Wins, p.TotalPoints, activeStr)
}

func (o *Output) printPlayerList(l PlayerList) {
	fmt.Printf("Players (%d, offset %d):\n", len(l.Players), l.Offset)
	for _, p := range l.Players {
		marker := ""
		if !p.IsActive {
			marker = " [inactive]"
		}
		fmt.Printf("  - %s (%s): %d wins, %d points%s\n", p.Handle, p.ID, p.Wins, p.TotalPoints, marker)
	}
}

func (o *Output) printWinResult(w WinResult) {
	fmt.Printf("Win recorded: +%d points\n", w.PointsEarned)
	fmt.Printf("Totals: %d wins, %d points\n", w.Wins, w.TotalPoints)
}

func (o *Output) printRankResult(r RankResult) {
	if r.Rank == 0 {
		fmt.Println("Rank: unranked")
		return
	}
	fmt.Printf("Rank: #%d\n", r.Rank)
}

func (o *Output) printLeaderboard(l Leaderboard) {
	fmt.Printf("Leaderboard (%d):\n", len(l.Entries))
	for _, e := range l.Entries {
		fmt.Printf("  %d. %s - %d points (%d wins)\n", e.Position, e.Handle, e.TotalPoints, e.Wins)
	}
}

func (o *Output) printStats(s Stats) {
	fmt.Printf("Stats for %s (%s):\n", s.Handle, s.PlayerID)
	fmt.Printf("  Wins: %d\n", s.Wins)
	fmt.Printf("  Points: %d\n", s.TotalPoints)
	if s.Rank == 0 {
		fmt.Println("  Rank: unranked")
	} else {
		fmt.Printf("  Rank: #%d\n", s.Rank)
	}
	fmt.Printf("  Events: %d\n", s.TotalEvents)
	for t, n := range s.EventBreakdown {
		fmt.Printf("    %s: %d\n", t, n)
	}
	if len(s.RecentEvents) > 0 {
		fmt.Println("  Recent:")
		for _, e := range s.RecentEvents {
			fmt.Printf("    - %s at %s\n", e.EventType, e.Timestamp.Format(time.RFC3339))
		}
	}
}

func (o *Output) printAttemptResult(a AttemptResult) {
	if a.IsCorrect {
		fmt.Printf("Riddle %s solved: +%d points\n", a.RiddleID, a.PointsEarned)
	} else {
		fmt.Printf("Riddle %s attempt logged (incorrect)\n", a.RiddleID)
	}
}

func (o *Output) printFindResult(f FindResult) {
	fmt.Printf("Treasure %s found: +%d points\n", f.TreasureID, f.PointsEarned)
}

func (o *Output) printRiddleHistory(h RiddleHistory) {
	fmt.Printf("Riddle attempts (%d):\n", len(h.Attempts))
	for _, a := range h.Attempts {
		result := "incorrect"
		if a.IsCorrect {
			result = "correct"
		}
		fmt.Printf("  - %s at %s: %s (%.1fs)\n", a.RiddleID, a.Location, result, a.TimeTaken)
	}
}

func (o *Output) printTreasureHistory(h TreasureHistory) {
	fmt.Printf("Treasure finds (%d):\n", len(h.Finds))
	for _, f := range h.Finds {
		fmt.Printf("  - %s at %s (%s)\n", f.TreasureID, f.Location, f.Timestamp.Format(time.RFC3339))
	}
}
