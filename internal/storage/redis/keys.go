package redis

import (
	"fmt"

	"github.com/huntbase/treasurehunt/internal/model"
)

// Key prefix for all hunt-related data
const keyPrefix = "hunt"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player hash
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// handleIndexKey returns the Redis key for the handle -> player_id index
func handleIndexKey(handle string) string {
	return fmt.Sprintf("%s:idx:handle:%s", keyPrefix, handle)
}

// contactIndexKey returns the Redis key for the contact -> player_id index
func contactIndexKey(contact string) string {
	return fmt.Sprintf("%s:idx:contact:%s", keyPrefix, contact)
}

// playersKey returns the Redis key for the insertion-order player LIST
func playersKey() string {
	return fmt.Sprintf("%s:players", keyPrefix)
}

// leaderboardKey returns the Redis key for the active-player ZSET by points
func leaderboardKey() string {
	return fmt.Sprintf("%s:leaderboard", keyPrefix)
}

// eventKey returns the Redis key for a GameEvent document
func eventKey(id model.EventID) string {
	return fmt.Sprintf("%s:event:%s", keyPrefix, id)
}

// playerEventsKey returns the Redis key for a player's event LIST (newest first)
func playerEventsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:events:%s", keyPrefix, playerID)
}

// playerEventsByTypeKey returns the Redis key for a player's per-type event LIST
func playerEventsByTypeKey(playerID model.PlayerID, eventType model.EventType) string {
	return fmt.Sprintf("%s:idx:events:%s:%s", keyPrefix, playerID, eventType)
}

// eventCountsKey returns the Redis key for a player's event-type count HASH
func eventCountsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:event_counts:%s", keyPrefix, playerID)
}
