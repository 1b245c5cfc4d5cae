package game

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/arena-games/config"
	"github.com/user/arena-games/internal/interfaces"
	"github.com/user/arena-games/internal/types"
	"go.uber.org/zap"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameFinished = errors.New("game already finished")
	ErrEmptyRoster  = errors.New("roster has no participants")
	ErrStepLimit    = errors.New("step limit reached before a winner emerged")
)

// gameEntry serialises steps of a single game
type gameEntry struct {
	mu   sync.Mutex
	game *types.Game
}

// GameManager hosts independent games and advances them on request or by autoplay
type GameManager struct {
	games     map[string]*gameEntry
	stateLock sync.RWMutex
	engine    *Engine
	config    config.Config
	Logger    *zap.Logger
	eventSys  *EventSystem
	sink      interfaces.EventSink
}

// Ensure GameManager satifies the interfaces.GameManager interface
var _ interfaces.GameManager = (*GameManager)(nil)

// NewGameManager creates a new game manager. Engine options override the ones derived from cfg.
func NewGameManager(cfg config.Config, opts ...Option) *GameManager {
	rng := NewDiceRoller()
	if cfg.Game.Seed != 0 {
		rng = NewSeededDiceRoller(cfg.Game.Seed)
	}

	engineOpts := append([]Option{
		WithRandomizer(rng),
		WithDefaultHP(cfg.Game.DefaultHP),
	}, opts...)

	gm := &GameManager{
		games:  make(map[string]*gameEntry),
		engine: NewEngine(engineOpts...),
		config: cfg,
		Logger: zap.NewNop(), // Will be set by the server
	}

	// Initialize event system
	gm.eventSys = NewEventSystem(gm, cfg.Game.AutoplayInterval)

	return gm
}

// SetLogger sets the logger used by the manager and its engine
func (gm *GameManager) SetLogger(logger *zap.Logger) {
	gm.Logger = logger
	gm.engine.logger = logger.Named("engine")
}

// SetEventSink sets where the events of each step are published
func (gm *GameManager) SetEventSink(sink interfaces.EventSink) {
	gm.sink = sink
}

// CreateGame initializes a game from a roster and stores it under a fresh id
func (gm *GameManager) CreateGame(roster []types.Participant) (*types.Game, error) {
	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}

	now := time.Now()
	game := &types.Game{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
		State:     gm.engine.InitializeGame(roster),
	}

	gm.stateLock.Lock()
	gm.games[game.ID] = &gameEntry{game: game}
	gm.stateLock.Unlock()

	gm.Logger.Info("Game created",
		zap.String("game_id", game.ID),
		zap.Int("participants", len(game.State.Participants)))

	return game.Clone(), nil
}

func (gm *GameManager) entry(id string) (*gameEntry, error) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	entry, exists := gm.games[id]
	if !exists {
		return nil, ErrGameNotFound
	}
	return entry, nil
}

// GetGame returns a snapshot of a game
func (gm *GameManager) GetGame(id string) (*types.Game, error) {
	entry, err := gm.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.game.Clone(), nil
}

// ListGames returns snapshots of every game, oldest first
func (gm *GameManager) ListGames() []*types.Game {
	gm.stateLock.RLock()
	entries := make([]*gameEntry, 0, len(gm.games))
	for _, entry := range gm.games {
		entries = append(entries, entry)
	}
	gm.stateLock.RUnlock()

	games := make([]*types.Game, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		games = append(games, entry.game.Clone())
		entry.mu.Unlock()
	}

	sort.Slice(games, func(i, j int) bool {
		if games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].ID < games[j].ID
		}
		return games[i].CreatedAt.Before(games[j].CreatedAt)
	})
	return games
}

// DeleteGame removes a game
func (gm *GameManager) DeleteGame(id string) error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if _, exists := gm.games[id]; !exists {
		return ErrGameNotFound
	}
	delete(gm.games, id)

	gm.Logger.Info("Game deleted", zap.String("game_id", id))
	return nil
}

// Advance runs one step of a game and returns the new state with the events the step produced.
// The stored state is only replaced once the step has completed.
func (gm *GameManager) Advance(id string) (*types.GameState, []types.GameEvent, error) {
	entry, err := gm.entry(id)
	if err != nil {
		return nil, nil, err
	}

	snapshot, events, err := gm.step(entry)
	if err != nil {
		return nil, nil, err
	}

	if snapshot.Finished() && snapshot.Winner != nil {
		gm.Logger.Info("Game finished",
			zap.String("game_id", id),
			zap.String("winner", snapshot.Winner.Name),
			zap.Int("day", snapshot.Day))
	}

	if gm.sink != nil && len(events) > 0 {
		if err := gm.sink.Publish(id, events); err != nil {
			gm.Logger.Error("Failed to publish events",
				zap.String("game_id", id),
				zap.Error(err))
		}
	}

	return snapshot, events, nil
}

// step simulates the next phase under the game's lock
func (gm *GameManager) step(entry *gameEntry) (*types.GameState, []types.GameEvent, error) {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	game := entry.game
	if game.State.Finished() {
		return nil, nil, ErrGameFinished
	}

	before := len(game.State.Events)
	next := gm.engine.SimulateNextPhase(game.State)

	game.State = next
	game.Steps++
	game.UpdatedAt = time.Now()

	events := make([]types.GameEvent, 0, len(next.Events)-before)
	for _, e := range next.Events[before:] {
		events = append(events, e.Clone())
	}
	return next.Clone(), events, nil
}

// RunToCompletion advances a game until it is won or maxSteps is reached.
// A maxSteps of zero or less uses the configured limit.
func (gm *GameManager) RunToCompletion(id string, maxSteps int) (*types.GameState, error) {
	if maxSteps <= 0 {
		maxSteps = gm.config.Game.MaxSteps
	}

	game, err := gm.GetGame(id)
	if err != nil {
		return nil, err
	}
	state := game.State

	for steps := 0; !state.Finished(); steps++ {
		if maxSteps > 0 && steps >= maxSteps {
			return state, fmt.Errorf("game %s: %w", id, ErrStepLimit)
		}
		next, _, err := gm.Advance(id)
		if errors.Is(err, ErrGameFinished) {
			// finished concurrently, e.g. by autoplay
			game, err := gm.GetGame(id)
			if err != nil {
				return nil, err
			}
			return game.State, nil
		}
		if err != nil {
			return nil, err
		}
		state = next
	}

	return state, nil
}

// SetAutoplay flags a game for the autoplay ticker
func (gm *GameManager) SetAutoplay(id string, enabled bool) error {
	entry, err := gm.entry(id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if enabled && entry.game.State.Finished() {
		return ErrGameFinished
	}
	entry.game.Autoplay = enabled

	gm.Logger.Info("Autoplay changed",
		zap.String("game_id", id),
		zap.Bool("enabled", enabled))
	return nil
}

// autoplayGames returns the ids of games flagged for autoplay
func (gm *GameManager) autoplayGames() []string {
	gm.stateLock.RLock()
	entries := make(map[string]*gameEntry, len(gm.games))
	for id, entry := range gm.games {
		entries[id] = entry
	}
	gm.stateLock.RUnlock()

	var ids []string
	for id, entry := range entries {
		entry.mu.Lock()
		if entry.game.Autoplay {
			ids = append(ids, id)
		}
		entry.mu.Unlock()
	}
	sort.Strings(ids)
	return ids
}

// SetAutoplayInterval changes the autoplay tick period
func (gm *GameManager) SetAutoplayInterval(d time.Duration) {
	gm.eventSys.SetInterval(d)
}

// StartEventSystem starts the autoplay ticker
func (gm *GameManager) StartEventSystem() {
	gm.eventSys.Start()
}

// StopEventSystem stops the autoplay ticker
func (gm *GameManager) StopEventSystem() {
	gm.eventSys.Stop()
}
