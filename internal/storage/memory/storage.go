package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/huntbase/treasurehunt/internal/model"
	"github.com/huntbase/treasurehunt/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players      map[model.PlayerID]*model.Player
	order        []model.PlayerID
	handleIndex  map[string]model.PlayerID
	contactIndex map[string]model.PlayerID

	events      map[model.PlayerID][]*model.GameEvent
	eventCounts map[model.PlayerID]map[model.EventType]int64
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:      make(map[model.PlayerID]*model.Player),
		handleIndex:  make(map[string]model.PlayerID),
		contactIndex: make(map[string]model.PlayerID),
		events:       make(map[model.PlayerID][]*model.GameEvent),
		eventCounts:  make(map[model.PlayerID]map[model.EventType]int64),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.handleIndex[player.Handle]; taken {
		return model.ErrDuplicateHandle
	}
	if _, taken := s.contactIndex[player.ContactAddress]; taken {
		return model.ErrDuplicateContact
	}

	p := *player
	s.players[p.ID] = &p
	s.order = append(s.order, p.ID)
	s.handleIndex[p.Handle] = p.ID
	s.contactIndex[p.ContactAddress] = p.ID
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(id)
}

func (s *Storage) GetPlayerByHandle(ctx context.Context, handle string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.handleIndex[handle]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return s.getLocked(id)
}

func (s *Storage) GetPlayerByContact(ctx context.Context, contact string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.contactIndex[contact]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return s.getLocked(id)
}

func (s *Storage) ListPlayers(ctx context.Context, limit, offset int) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if offset >= len(s.order) {
		return []*model.Player{}, nil
	}
	end := offset + limit
	if end > len(s.order) {
		end = len(s.order)
	}

	page := make([]*model.Player, 0, end-offset)
	for _, id := range s.order[offset:end] {
		if p, ok := s.players[id]; ok {
			c := *p
			page = append(page, &c)
		}
	}
	return page, nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, id model.PlayerID, patch model.PlayerPatch, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return 0, model.ErrPlayerNotFound
	}

	// Check both unique keys before touching anything, so a collision
	// fails without a partial apply.
	if patch.Handle != nil && *patch.Handle != p.Handle {
		if owner, taken := s.handleIndex[*patch.Handle]; taken && owner != id {
			return 0, model.ErrDuplicateHandle
		}
	}
	if patch.ContactAddress != nil && *patch.ContactAddress != p.ContactAddress {
		if owner, taken := s.contactIndex[*patch.ContactAddress]; taken && owner != id {
			return 0, model.ErrDuplicateContact
		}
	}

	modified := false
	if patch.Handle != nil && *patch.Handle != p.Handle {
		delete(s.handleIndex, p.Handle)
		p.Handle = *patch.Handle
		s.handleIndex[p.Handle] = id
		modified = true
	}
	if patch.ContactAddress != nil && *patch.ContactAddress != p.ContactAddress {
		delete(s.contactIndex, p.ContactAddress)
		p.ContactAddress = *patch.ContactAddress
		s.contactIndex[p.ContactAddress] = id
		modified = true
	}
	if patch.GivenName != nil && *patch.GivenName != p.GivenName {
		p.GivenName = *patch.GivenName
		modified = true
	}
	if patch.FamilyName != nil && *patch.FamilyName != p.FamilyName {
		p.FamilyName = *patch.FamilyName
		modified = true
	}
	if patch.IsActive != nil && *patch.IsActive != p.IsActive {
		p.IsActive = *patch.IsActive
		modified = true
	}

	if !modified {
		return 0, nil
	}
	p.UpdatedAt = now
	return 1, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id)
}

func (s *Storage) DeletePlayerByContact(ctx context.Context, contact string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.contactIndex[contact]
	if !ok {
		return model.ErrPlayerNotFound
	}
	return s.deleteLocked(id)
}

func (s *Storage) CountPlayers(ctx context.Context, activeOnly bool) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !activeOnly {
		return int64(len(s.players)), nil
	}
	var n int64
	for _, p := range s.players {
		if p.IsActive {
			n++
		}
	}
	return n, nil
}

// Scoring operations

func (s *Storage) IncrementScore(ctx context.Context, id model.PlayerID, points int, now time.Time) (*model.ScoreTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}

	p.Wins++
	p.TotalPoints += int64(points)
	p.UpdatedAt = now

	return &model.ScoreTotals{Wins: p.Wins, TotalPoints: p.TotalPoints}, nil
}

func (s *Storage) PlayerRank(ctx context.Context, id model.PlayerID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return 0, model.ErrPlayerNotFound
	}

	rank := 1
	for _, other := range s.players {
		if other.IsActive && other.TotalPoints > p.TotalPoints {
			rank++
		}
	}
	return rank, nil
}

func (s *Storage) TopPlayers(ctx context.Context, limit int) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	top := make([]*model.Player, 0, limit)
	for _, id := range s.order {
		p, ok := s.players[id]
		if !ok || !p.IsActive {
			continue
		}
		c := *p
		top = append(top, &c)
	}

	// Stable sort keeps insertion order for tied scores
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].TotalPoints > top[j].TotalPoints
	})

	if len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

// Event ledger operations

func (s *Storage) AppendEvent(ctx context.Context, event *model.GameEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := *event
	s.events[e.PlayerID] = append(s.events[e.PlayerID], &e)

	counts, ok := s.eventCounts[e.PlayerID]
	if !ok {
		counts = make(map[model.EventType]int64)
		s.eventCounts[e.PlayerID] = counts
	}
	counts[e.Type]++
	return nil
}

func (s *Storage) QueryEvents(ctx context.Context, playerID model.PlayerID, eventType model.EventType, limit int) ([]*model.GameEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.events[playerID]
	result := make([]*model.GameEvent, 0, limit)
	for i := len(all) - 1; i >= 0 && len(result) < limit; i-- {
		if eventType != "" && all[i].Type != eventType {
			continue
		}
		c := *all[i]
		result = append(result, &c)
	}
	return result, nil
}

func (s *Storage) CountEvents(ctx context.Context, playerID model.PlayerID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.events[playerID])), nil
}

func (s *Storage) EventBreakdown(ctx context.Context, playerID model.PlayerID) (map[model.EventType]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	breakdown := make(map[model.EventType]int64, len(s.eventCounts[playerID]))
	for t, n := range s.eventCounts[playerID] {
		breakdown[t] = n
	}
	return breakdown, nil
}

// getLocked returns a copy of the player; callers hold at least a read lock
func (s *Storage) getLocked(id model.PlayerID) (*model.Player, error) {
	p, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	c := *p
	return &c, nil
}

// deleteLocked removes the player and its index entries; the event ledger
// is left intact, it is the durable audit trail.
func (s *Storage) deleteLocked(id model.PlayerID) error {
	p, ok := s.players[id]
	if !ok {
		return model.ErrPlayerNotFound
	}

	delete(s.players, id)
	delete(s.handleIndex, p.Handle)
	delete(s.contactIndex, p.ContactAddress)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
