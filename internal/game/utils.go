package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/user/arena-games/internal/types"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Randomizer is the source of randomness for the engine
type Randomizer interface {
	// Float64 returns a value in [0,1)
	Float64() float64
	// Intn returns a value in [0,n)
	Intn(n int) int
}

// DiceRoller handles dice rolling for the game. It is safe for concurrent use.
type DiceRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ Randomizer = (*DiceRoller)(nil)

// NewDiceRoller creates a new dice roller with a time seeded random number generator
func NewDiceRoller() *DiceRoller {
	return NewSeededDiceRoller(time.Now().UnixNano())
}

// NewSeededDiceRoller creates a dice roller that replays the same sequence for the same seed
func NewSeededDiceRoller(seed int64) *DiceRoller {
	return &DiceRoller{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Float64 returns a value in [0,1)
func (dr *DiceRoller) Float64() float64 {
	dr.mu.Lock()
	defer dr.mu.Unlock()
	return dr.rng.Float64()
}

// Intn returns a value in [0,n)
func (dr *DiceRoller) Intn(n int) int {
	dr.mu.Lock()
	defer dr.mu.Unlock()
	return dr.rng.Intn(n)
}

// rollRange returns an integer in [min,max]
func rollRange(rng Randomizer, min, max int) int {
	return min + rng.Intn(max-min+1)
}

// DataLoader handles loading game data from files
type DataLoader struct {
	basePath string
}

// NewDataLoader creates a new data loader; relative paths are resolved against basePath
func NewDataLoader(basePath string) *DataLoader {
	return &DataLoader{
		basePath: basePath,
	}
}

// LoadRoster loads and validates a roster file (.yaml, .yml or .json)
func (dl *DataLoader) LoadRoster(path string) ([]types.Participant, error) {
	var entries []RosterEntry
	if err := dl.decode(path, &entries); err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	if err := ValidateRoster(entries); err != nil {
		return nil, fmt.Errorf("invalid roster %s: %w", path, err)
	}
	return ToParticipants(entries), nil
}

// LoadCatalog loads and validates an item catalog file
func (dl *DataLoader) LoadCatalog(path string) (*Catalog, error) {
	var items []types.Item
	if err := dl.decode(path, &items); err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if len(items) == 0 {
		return nil, errors.New("catalog is empty")
	}
	for i := range items {
		if err := validate.Struct(items[i]); err != nil {
			return nil, fmt.Errorf("invalid catalog item %d (%s): %w", i, items[i].Name, err)
		}
	}
	return NewCatalog(items), nil
}

func (dl *DataLoader) decode(path string, out interface{}) error {
	if !filepath.IsAbs(path) {
		path = filepath.Join(dl.basePath, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
	return nil
}

// EventSystem advances autoplay games on a ticker
type EventSystem struct {
	gameManager *GameManager
	ticker      *time.Ticker
	stopChan    chan struct{}
	startOnce   sync.Once
	stopOnce    sync.Once
}

// NewEventSystem creates a new event system
func NewEventSystem(gameManager *GameManager, eventInterval time.Duration) *EventSystem {
	if eventInterval <= 0 {
		eventInterval = time.Second
	}
	return &EventSystem{
		gameManager: gameManager,
		ticker:      time.NewTicker(eventInterval),
		stopChan:    make(chan struct{}),
	}
}

// Start begins the event scheduling system
func (es *EventSystem) Start() {
	es.startOnce.Do(func() {
		go func() {
			for {
				select {
				case <-es.ticker.C:
					es.advanceGames()
				case <-es.stopChan:
					return
				}
			}
		}()
	})
}

// Stop halts the event scheduling system. It is safe to call more than once.
func (es *EventSystem) Stop() {
	es.stopOnce.Do(func() {
		es.ticker.Stop()
		close(es.stopChan)
	})
}

// SetInterval changes the tick period
func (es *EventSystem) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-es.stopChan:
		return
	default:
	}
	es.ticker.Reset(d)
	es.gameManager.Logger.Info("Autoplay interval changed", zap.Duration("interval", d))
}

// advanceGames steps every game flagged for autoplay once
func (es *EventSystem) advanceGames() {
	gm := es.gameManager
	ids := gm.autoplayGames()
	if len(ids) == 0 {
		return
	}
	gm.Logger.Debug("Starting autoplay cycle", zap.Int("games", len(ids)))

	for _, id := range ids {
		game, err := gm.GetGame(id)
		if err != nil {
			continue
		}
		if limit := gm.config.Game.MaxSteps; limit > 0 && game.Steps >= limit {
			gm.Logger.Warn("Autoplay step limit reached",
				zap.String("game_id", id),
				zap.Int("steps", game.Steps))
			_ = gm.SetAutoplay(id, false)
			continue
		}

		state, err := es.advance(id)
		if err != nil {
			if !errors.Is(err, ErrGameFinished) {
				gm.Logger.Error("Failed to advance game",
					zap.String("game_id", id),
					zap.Error(err))
			}
			_ = gm.SetAutoplay(id, false)
			continue
		}
		if state.Finished() {
			_ = gm.SetAutoplay(id, false)
		}
	}
}

// advance steps one game, turning an engine panic into an error so the ticker keeps running
func (es *EventSystem) advance(id string) (state *types.GameState, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine panic: %v", r)
		}
	}()
	state, _, err = es.gameManager.Advance(id)
	return state, err
}
