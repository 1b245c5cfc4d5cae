package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/user/arena-games/internal/types"
	"go.uber.org/zap"
)

// ErrEmptyPool signals a selection from an empty participant pool. It is raised with panic:
// reaching it means the caller broke the engine's contract.
var ErrEmptyPool = errors.New("cannot select a participant from an empty pool")

// DefaultHP is the hp and max hp given to participants that do not set one
const DefaultHP = 100

// Engine runs the phase state machine over a GameState
type Engine struct {
	catalog   *Catalog
	templates TemplateSet
	rng       Randomizer
	logger    *zap.Logger
	defaultHP int
	newID     func() string
}

// Option configures an Engine
type Option func(*Engine)

// WithCatalog replaces the item catalog
func WithCatalog(c *Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithTemplates replaces the narration templates
func WithTemplates(ts TemplateSet) Option {
	return func(e *Engine) { e.templates = ts }
}

// WithRandomizer replaces the random source
func WithRandomizer(r Randomizer) Option {
	return func(e *Engine) { e.rng = r }
}

// WithLogger sets the engine logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithDefaultHP sets the hp given to roster entries without one
func WithDefaultHP(hp int) Option {
	return func(e *Engine) {
		if hp > 0 {
			e.defaultHP = hp
		}
	}
}

// NewEngine creates an engine with the default catalog, templates and a time-seeded dice roller
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		catalog:   DefaultCatalog(),
		templates: DefaultTemplates(),
		rng:       NewDiceRoller(),
		logger:    zap.NewNop(),
		defaultHP: DefaultHP,
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// InitializeGame builds the starting state from a roster
func (e *Engine) InitializeGame(roster []types.Participant) *types.GameState {
	state := &types.GameState{
		Participants: make([]*types.Participant, 0, len(roster)),
		Events:       []types.GameEvent{},
		Day:          1,
		Phase:        types.PhaseBloodbath,
		ActiveTraps:  []types.ActiveTrap{},
	}

	for i := range roster {
		p := roster[i].Clone()
		if p.ID == "" {
			p.ID = e.newID()
		}
		p.Status = types.StatusAlive
		if p.MaxHP <= 0 {
			p.MaxHP = e.defaultHP
		}
		if p.HP <= 0 || p.HP > p.MaxHP {
			p.HP = p.MaxHP
		}
		if p.Mood == "" {
			p.Mood = types.MoodCalm
		}
		if p.Kills < 0 {
			p.Kills = 0
		}
		if p.Allies == nil {
			p.Allies = []string{}
		}
		if p.Inventory == nil {
			p.Inventory = []types.Item{}
		}
		for j := range p.Inventory {
			if p.Inventory[j].ID == "" {
				p.Inventory[j].ID = e.newID()
			}
		}
		state.Participants = append(state.Participants, p)
	}

	// keep only allies that exist and make the relation symmetric
	for _, p := range state.Participants {
		declared := p.Allies
		p.Allies = []string{}
		for _, id := range declared {
			if other := state.Participant(id); other != nil && other.ID != p.ID {
				p.AddAlly(id)
				other.AddAlly(p.ID)
			}
		}
	}

	e.logger.Info("Game initialized", zap.Int("participants", len(state.Participants)))
	return state
}

// SimulateNextPhase runs one step on a copy of state and returns the copy.
// A finished game is returned unchanged.
func (e *Engine) SimulateNextPhase(current *types.GameState) *types.GameState {
	state := current.Clone()
	if state.Finished() {
		return state
	}

	alive := state.Alive()

	if len(alive) == 2 && alive[0].HasAlly(alive[1].ID) {
		e.dissolve(state, alive[0], alive[1])
	}

	if len(alive) <= 1 {
		state.Phase = types.PhaseVictory
		if len(alive) == 1 {
			state.Winner = alive[0]
			e.logger.Info("Victory",
				zap.Int("day", state.Day),
				zap.String("winner_id", alive[0].ID),
				zap.String("winner", alive[0].Name))
		} else {
			e.logger.Info("Game ended without survivors", zap.Int("day", state.Day))
		}
		return state
	}

	var events []types.GameEvent
	switch state.Phase {
	case types.PhaseFallen:
		if summary, ok := e.fallenSummary(state); ok {
			events = append(events, summary)
		}
	case types.PhaseDay:
		e.updateMoods(state)
		events = e.generatePhaseEvents(state, alive)
	default:
		events = e.generatePhaseEvents(state, alive)
	}
	state.Events = append(state.Events, events...)

	from := state.Phase
	advancePhase(state)

	e.logger.Info("Phase advanced",
		zap.String("from", string(from)),
		zap.String("to", string(state.Phase)),
		zap.Int("day", state.Day),
		zap.Int("events", len(events)),
		zap.Int("alive", len(state.Alive())))
	return state
}

// advancePhase moves along bloodbath -> day -> night -> fallen -> day(+1)
func advancePhase(state *types.GameState) {
	switch state.Phase {
	case types.PhaseBloodbath:
		state.Phase = types.PhaseDay
	case types.PhaseDay:
		state.Phase = types.PhaseNight
	case types.PhaseNight:
		state.Phase = types.PhaseFallen
	case types.PhaseFallen:
		state.Day++
		state.Phase = types.PhaseDay
	}
}

// dissolve breaks the alliance of the final two
func (e *Engine) dissolve(state *types.GameState, a, b *types.Participant) {
	a.RemoveAlly(b.ID)
	b.RemoveAlly(a.ID)
	state.Events = append(state.Events, types.GameEvent{
		ID:           e.newID(),
		Day:          state.Day,
		Phase:        state.Phase,
		Type:         types.EventAlliance,
		Action:       types.ActionDissolve,
		Description:  fmt.Sprintf("%s and %s's alliance dissolves as they realize only two remain.", a.Name, b.Name),
		Participants: []string{a.ID, b.ID},
	})
	e.logger.Info("Alliance dissolved", zap.String("a", a.Name), zap.String("b", b.Name))
}

// updateMoods recomputes every living participant's mood; first matching rule wins
func (e *Engine) updateMoods(state *types.GameState) {
	for _, p := range state.Participants {
		if !p.IsAlive() {
			continue
		}
		hp := float64(p.HP)
		maxHP := float64(p.MaxHP)
		switch {
		case hp < maxHP*0.25:
			p.Mood = types.MoodDesperate
		case hp < maxHP*0.6:
			p.Mood = types.MoodCautious
		case killedToday(state, p.ID):
			p.Mood = types.MoodAggressive
		case len(p.Allies) > 0:
			p.Mood = types.MoodBrave
		default:
			p.Mood = types.MoodCalm
		}
	}
}

func killedToday(state *types.GameState, id string) bool {
	for _, ev := range state.Events {
		if ev.Type == types.EventKill && ev.Day == state.Day && len(ev.Participants) > 0 && ev.Participants[0] == id {
			return true
		}
	}
	return false
}

// fallenSummary lists who died during the current day
func (e *Engine) fallenSummary(state *types.GameState) (types.GameEvent, bool) {
	var fallen []string
	for _, ev := range state.Events {
		if ev.Day != state.Day {
			continue
		}
		var victimID string
		switch {
		case ev.Type == types.EventKill && len(ev.Participants) > 1:
			victimID = ev.Participants[1]
		case ev.Type == types.EventTrap && ev.Action == types.ActionTriggerTrap:
			victimID = ev.Participants[0]
		default:
			continue
		}
		victim := state.Participant(victimID)
		if victim == nil || victim.IsAlive() || containsID(fallen, victimID) {
			continue
		}
		fallen = append(fallen, victimID)
	}
	if len(fallen) == 0 {
		return types.GameEvent{}, false
	}

	noun := "tribute"
	if len(fallen) > 1 {
		noun = "tributes"
	}
	return types.GameEvent{
		ID:           e.newID(),
		Day:          state.Day,
		Phase:        types.PhaseFallen,
		Type:         types.EventSurvival,
		Action:       types.ActionSummary,
		Description:  fmt.Sprintf("%d %s fell today.", len(fallen), noun),
		Participants: fallen,
	}, true
}

// shuffle permutes pool in place (Fisher-Yates)
func (e *Engine) shuffle(pool []*types.Participant) {
	for i := len(pool) - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
}

var defaultEngine = NewEngine()

// InitializeGame builds a starting state with the default engine
func InitializeGame(roster []types.Participant) *types.GameState {
	return defaultEngine.InitializeGame(roster)
}

// SimulateNextPhase advances a state with the default engine
func SimulateNextPhase(state *types.GameState) *types.GameState {
	return defaultEngine.SimulateNextPhase(state)
}
