package interfaces

import "github.com/user/arena-games/internal/types"

// EventSink receives the events produced by each step of a game
type EventSink interface {
	Publish(gameID string, events []types.GameEvent) error
}

// GameManager defines the interface for game operations
type GameManager interface {
	CreateGame(roster []types.Participant) (*types.Game, error)
	GetGame(id string) (*types.Game, error)
	ListGames() []*types.Game
	DeleteGame(id string) error
	Advance(id string) (*types.GameState, []types.GameEvent, error)
	RunToCompletion(id string, maxSteps int) (*types.GameState, error)
	SetAutoplay(id string, enabled bool) error
}
