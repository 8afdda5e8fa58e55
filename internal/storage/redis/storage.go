package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/huntbase/treasurehunt/internal/model"
	"github.com/huntbase/treasurehunt/internal/storage"
)

// Hash field names for player documents
const (
	fieldHandle      = "handle"
	fieldContact     = "contact_address"
	fieldGivenName   = "given_name"
	fieldFamilyName  = "family_name"
	fieldWins        = "wins"
	fieldTotalPoints = "total_points"
	fieldIsActive    = "is_active"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
)

// Storage is a Redis-backed implementation of the storage interface.
//
// Players are hash documents so the score counters can be advanced with
// HINCRBY, a single atomic increment at the store; uniqueness of handle and
// contact address is enforced with SETNX index keys so a concurrent
// check-then-insert cannot slip through; active players live in a ZSET
// keyed by total points for rank and leaderboard queries.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	// Claim both unique keys first; SETNX makes the reservation atomic.
	claimed, err := s.client.SetNX(ctx, handleIndexKey(player.Handle), string(player.ID), 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return model.ErrDuplicateHandle
	}

	claimed, err = s.client.SetNX(ctx, contactIndexKey(player.ContactAddress), string(player.ID), 0).Result()
	if err != nil || !claimed {
		// Release the handle claim so a retry with a fresh contact works
		s.client.Del(ctx, handleIndexKey(player.Handle))
		if err != nil {
			return err
		}
		return model.ErrDuplicateContact
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, playerKey(player.ID), playerFields(player))
	pipe.RPush(ctx, playersKey(), string(player.ID))
	if player.IsActive {
		pipe.ZAdd(ctx, leaderboardKey(), redis.Z{
			Score:  float64(player.TotalPoints),
			Member: string(player.ID),
		})
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	fields, err := s.client.HGetAll(ctx, playerKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, model.ErrPlayerNotFound
	}
	return playerFromFields(id, fields)
}

func (s *Storage) GetPlayerByHandle(ctx context.Context, handle string) (*model.Player, error) {
	return s.getByIndex(ctx, handleIndexKey(handle))
}

func (s *Storage) GetPlayerByContact(ctx context.Context, contact string) (*model.Player, error) {
	return s.getByIndex(ctx, contactIndexKey(contact))
}

func (s *Storage) getByIndex(ctx context.Context, indexKey string) (*model.Player, error) {
	id, err := s.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return s.GetPlayer(ctx, model.PlayerID(id))
}

func (s *Storage) ListPlayers(ctx context.Context, limit, offset int) ([]*model.Player, error) {
	if limit == 0 {
		return []*model.Player{}, nil
	}

	ids, err := s.client.LRange(ctx, playersKey(), int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, err
	}
	return s.fetchPlayers(ctx, ids)
}

func (s *Storage) UpdatePlayer(ctx context.Context, id model.PlayerID, patch model.PlayerPatch, now time.Time) (int, error) {
	current, err := s.GetPlayer(ctx, id)
	if err != nil {
		return 0, err
	}

	newHandle := patch.Handle != nil && *patch.Handle != current.Handle
	newContact := patch.ContactAddress != nil && *patch.ContactAddress != current.ContactAddress

	// Claim renamed unique keys before writing anything
	if newHandle {
		claimed, err := s.client.SetNX(ctx, handleIndexKey(*patch.Handle), string(id), 0).Result()
		if err != nil {
			return 0, err
		}
		if !claimed {
			return 0, model.ErrDuplicateHandle
		}
	}
	if newContact {
		claimed, err := s.client.SetNX(ctx, contactIndexKey(*patch.ContactAddress), string(id), 0).Result()
		if err != nil || !claimed {
			if newHandle {
				s.client.Del(ctx, handleIndexKey(*patch.Handle))
			}
			if err != nil {
				return 0, err
			}
			return 0, model.ErrDuplicateContact
		}
	}

	fields := make(map[string]any)
	if newHandle {
		fields[fieldHandle] = *patch.Handle
	}
	if newContact {
		fields[fieldContact] = *patch.ContactAddress
	}
	if patch.GivenName != nil && *patch.GivenName != current.GivenName {
		fields[fieldGivenName] = *patch.GivenName
	}
	if patch.FamilyName != nil && *patch.FamilyName != current.FamilyName {
		fields[fieldFamilyName] = *patch.FamilyName
	}
	activeFlip := patch.IsActive != nil && *patch.IsActive != current.IsActive
	if activeFlip {
		fields[fieldIsActive] = boolField(*patch.IsActive)
	}

	if len(fields) == 0 {
		return 0, nil
	}
	fields[fieldUpdatedAt] = now.Format(time.RFC3339Nano)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, playerKey(id), fields)
	if newHandle {
		pipe.Del(ctx, handleIndexKey(current.Handle))
	}
	if newContact {
		pipe.Del(ctx, contactIndexKey(current.ContactAddress))
	}
	if activeFlip {
		// Soft-deleted players drop out of the leaderboard ZSET;
		// reactivation re-adds them with their current points.
		if *patch.IsActive {
			pipe.ZAdd(ctx, leaderboardKey(), redis.Z{
				Score:  float64(current.TotalPoints),
				Member: string(id),
			})
		} else {
			pipe.ZRem(ctx, leaderboardKey(), string(id))
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return 1, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	current, err := s.GetPlayer(ctx, id)
	if err != nil {
		return err
	}

	// Ledger entries are left intact; they are the durable audit trail
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, playerKey(id))
	pipe.Del(ctx, handleIndexKey(current.Handle))
	pipe.Del(ctx, contactIndexKey(current.ContactAddress))
	pipe.LRem(ctx, playersKey(), 1, string(id))
	pipe.ZRem(ctx, leaderboardKey(), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) DeletePlayerByContact(ctx context.Context, contact string) error {
	id, err := s.client.Get(ctx, contactIndexKey(contact)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ErrPlayerNotFound
		}
		return err
	}
	return s.DeletePlayer(ctx, model.PlayerID(id))
}

func (s *Storage) CountPlayers(ctx context.Context, activeOnly bool) (int64, error) {
	if activeOnly {
		return s.client.ZCard(ctx, leaderboardKey()).Result()
	}
	return s.client.LLen(ctx, playersKey()).Result()
}

// Scoring operations

func (s *Storage) IncrementScore(ctx context.Context, id model.PlayerID, points int, now time.Time) (*model.ScoreTotals, error) {
	active, err := s.client.HGet(ctx, playerKey(id), fieldIsActive).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	pipe := s.client.TxPipeline()
	winsCmd := pipe.HIncrBy(ctx, playerKey(id), fieldWins, 1)
	pointsCmd := pipe.HIncrBy(ctx, playerKey(id), fieldTotalPoints, int64(points))
	pipe.HSet(ctx, playerKey(id), fieldUpdatedAt, now.Format(time.RFC3339Nano))
	if active == "1" {
		pipe.ZIncrBy(ctx, leaderboardKey(), float64(points), string(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	return &model.ScoreTotals{
		Wins:        winsCmd.Val(),
		TotalPoints: pointsCmd.Val(),
	}, nil
}

func (s *Storage) PlayerRank(ctx context.Context, id model.PlayerID) (int, error) {
	points, err := s.client.HGet(ctx, playerKey(id), fieldTotalPoints).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, model.ErrPlayerNotFound
		}
		return 0, err
	}

	// Tie-aware: 1 + number of active players strictly above this score
	higher, err := s.client.ZCount(ctx, leaderboardKey(), "("+points, "+inf").Result()
	if err != nil {
		return 0, err
	}
	return int(higher) + 1, nil
}

func (s *Storage) TopPlayers(ctx context.Context, limit int) ([]*model.Player, error) {
	if limit <= 0 {
		return []*model.Player{}, nil
	}

	ids, err := s.client.ZRevRange(ctx, leaderboardKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	return s.fetchPlayers(ctx, ids)
}

// Event ledger operations

func (s *Storage) AppendEvent(ctx context.Context, event *model.GameEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	key := eventKey(event.ID)

	// LPUSH keeps the per-player indexes newest first
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.LPush(ctx, playerEventsKey(event.PlayerID), key)
	pipe.LPush(ctx, playerEventsByTypeKey(event.PlayerID, event.Type), key)
	pipe.HIncrBy(ctx, eventCountsKey(event.PlayerID), string(event.Type), 1)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) QueryEvents(ctx context.Context, playerID model.PlayerID, eventType model.EventType, limit int) ([]*model.GameEvent, error) {
	if limit <= 0 {
		return []*model.GameEvent{}, nil
	}

	indexKey := playerEventsKey(playerID)
	if eventType != "" {
		indexKey = playerEventsByTypeKey(playerID, eventType)
	}

	keys, err := s.client.LRange(ctx, indexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.GameEvent{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	events := make([]*model.GameEvent, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var event model.GameEvent
		if err := json.Unmarshal([]byte(val.(string)), &event); err != nil {
			continue // Skip invalid data
		}
		events = append(events, &event)
	}
	return events, nil
}

func (s *Storage) CountEvents(ctx context.Context, playerID model.PlayerID) (int64, error) {
	return s.client.LLen(ctx, playerEventsKey(playerID)).Result()
}

func (s *Storage) EventBreakdown(ctx context.Context, playerID model.PlayerID) (map[model.EventType]int64, error) {
	counts, err := s.client.HGetAll(ctx, eventCountsKey(playerID)).Result()
	if err != nil {
		return nil, err
	}

	breakdown := make(map[model.EventType]int64, len(counts))
	for t, n := range counts {
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			continue
		}
		breakdown[model.EventType(t)] = parsed
	}
	return breakdown, nil
}

// fetchPlayers loads player hashes for the given ids, skipping stale entries
func (s *Storage) fetchPlayers(ctx context.Context, ids []string) ([]*model.Player, error) {
	if len(ids) == 0 {
		return []*model.Player{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, playerKey(model.PlayerID(id)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue // Player may have been deleted
		}
		player, err := playerFromFields(model.PlayerID(ids[i]), fields)
		if err != nil {
			continue
		}
		players = append(players, player)
	}
	return players, nil
}

// playerFields maps a Player to its hash representation
func playerFields(p *model.Player) map[string]any {
	return map[string]any{
		fieldHandle:      p.Handle,
		fieldContact:     p.ContactAddress,
		fieldGivenName:   p.GivenName,
		fieldFamilyName:  p.FamilyName,
		fieldWins:        p.Wins,
		fieldTotalPoints: p.TotalPoints,
		fieldIsActive:    boolField(p.IsActive),
		fieldCreatedAt:   p.CreatedAt.Format(time.RFC3339Nano),
		fieldUpdatedAt:   p.UpdatedAt.Format(time.RFC3339Nano),
	}
}

// playerFromFields rebuilds a Player from its hash representation
func playerFromFields(id model.PlayerID, fields map[string]string) (*model.Player, error) {
	wins, err := strconv.ParseInt(fields[fieldWins], 10, 64)
	if err != nil {
		return nil, err
	}
	points, err := strconv.ParseInt(fields[fieldTotalPoints], 10, 64)
	if err != nil {
		return nil, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields[fieldCreatedAt])
	if err != nil {
		return nil, err
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, fields[fieldUpdatedAt])
	if err != nil {
		return nil, err
	}

	return &model.Player{
		ID:             id,
		Handle:         fields[fieldHandle],
		ContactAddress: fields[fieldContact],
		GivenName:      fields[fieldGivenName],
		FamilyName:     fields[fieldFamilyName],
		Wins:           wins,
		TotalPoints:    points,
		IsActive:       fields[fieldIsActive] == "1",
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
