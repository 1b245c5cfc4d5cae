package game

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/user/arena-games/config"
	"github.com/user/arena-games/internal/types"
)

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Publish(gameID string, events []types.GameEvent) error {
	args := m.Called(gameID, events)
	return args.Error(0)
}

func testRoster() []types.Participant {
	return []types.Participant{
		{ID: "1", Name: "Katniss", Attributes: &types.Attributes{Strength: 6, Intelligence: 8, AllianceTendency: 4}},
		{ID: "2", Name: "Peeta", Attributes: &types.Attributes{Strength: 7, Intelligence: 6, AllianceTendency: 5}},
		{ID: "3", Name: "Cato", Attributes: &types.Attributes{Strength: 10, Intelligence: 5, AllianceTendency: 3}},
		{ID: "4", Name: "Rue", Attributes: &types.Attributes{Strength: 3, Intelligence: 9, AllianceTendency: 7}},
	}
}

func testManager() *GameManager {
	cfg := config.DefaultConfig()
	cfg.Game.Seed = 11
	return NewGameManager(cfg)
}

func TestCreateGame(t *testing.T) {
	// Setup
	gameManager := testManager()

	// Test case 1: Create a game
	game, err := gameManager.CreateGame(testRoster())
	assert.NoError(t, err)
	require.NotNil(t, game)
	assert.NotEmpty(t, game.ID)
	assert.Equal(t, types.PhaseBloodbath, game.State.Phase)
	assert.Len(t, game.State.Participants, 4)
	assert.Equal(t, 0, game.Steps)

	// Test case 2: Empty roster
	_, err = gameManager.CreateGame(nil)
	assert.ErrorIs(t, err, ErrEmptyRoster)

	// Test case 3: Get created game
	retrieved, err := gameManager.GetGame(game.ID)
	assert.NoError(t, err)
	assert.Equal(t, game.ID, retrieved.ID)

	// Test case 4: Snapshots do not leak into the stored game
	retrieved.State.Participants[0].HP = 1
	again, _ := gameManager.GetGame(game.ID)
	assert.Equal(t, 100, again.State.Participants[0].HP)

	// Test case 5: Unknown game
	_, err = gameManager.GetGame("missing")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestListAndDeleteGames(t *testing.T) {
	// Setup
	gameManager := testManager()
	first, _ := gameManager.CreateGame(testRoster())
	second, _ := gameManager.CreateGame(testRoster())

	// Test case 1: Both listed
	games := gameManager.ListGames()
	require.Len(t, games, 2)
	ids := []string{games[0].ID, games[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)

	// Test case 2: Delete one
	assert.NoError(t, gameManager.DeleteGame(first.ID))
	games = gameManager.ListGames()
	require.Len(t, games, 1)
	assert.Equal(t, second.ID, games[0].ID)

	// Test case 3: Delete again
	assert.ErrorIs(t, gameManager.DeleteGame(first.ID), ErrGameNotFound)
}

func TestAdvance(t *testing.T) {
	// Setup
	gameManager := testManager()
	sink := &mockSink{}
	sink.On("Publish", mock.Anything, mock.Anything).Return(nil)
	gameManager.SetEventSink(sink)
	game, _ := gameManager.CreateGame(testRoster())

	// Test case 1: First step leaves the bloodbath
	state, events, err := gameManager.Advance(game.ID)
	require.NoError(t, err)
	assert.Equal(t, types.PhaseDay, state.Phase)
	assert.Equal(t, events, state.Events)

	stored, _ := gameManager.GetGame(game.ID)
	assert.Equal(t, 1, stored.Steps)
	assert.Equal(t, state, stored.State)

	// Test case 2: The sink saw the step's events
	if len(events) > 0 {
		sink.AssertCalled(t, "Publish", game.ID, events)
	}

	// Test case 3: Only new events are returned
	before := len(state.Events)
	state, events, err = gameManager.Advance(game.ID)
	require.NoError(t, err)
	assert.Len(t, events, len(state.Events)-before)

	// Test case 4: Unknown game
	_, _, err = gameManager.Advance("missing")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestRunToCompletion(t *testing.T) {
	// Setup
	gameManager := testManager()
	game, _ := gameManager.CreateGame(testRoster())

	// Test case 1: Step limit
	state, err := gameManager.RunToCompletion(game.ID, 1)
	assert.ErrorIs(t, err, ErrStepLimit)
	assert.Equal(t, types.PhaseDay, state.Phase)

	// Test case 2: Play it out
	state, err = gameManager.RunToCompletion(game.ID, 0)
	require.NoError(t, err)
	assert.True(t, state.Finished())

	// Test case 3: Finished games reject further steps
	_, _, err = gameManager.Advance(game.ID)
	assert.ErrorIs(t, err, ErrGameFinished)
	assert.ErrorIs(t, gameManager.SetAutoplay(game.ID, true), ErrGameFinished)

	// Test case 4: Running a finished game returns it as is
	again, err := gameManager.RunToCompletion(game.ID, 0)
	assert.NoError(t, err)
	assert.Equal(t, state, again)
}

func TestSinkErrorsDoNotFailSteps(t *testing.T) {
	// Setup
	gameManager := testManager()
	sink := &mockSink{}
	sink.On("Publish", mock.Anything, mock.Anything).Return(errors.New("closed"))
	gameManager.SetEventSink(sink)
	game, _ := gameManager.CreateGame(testRoster())

	// Test case 1: Advance succeeds anyway
	_, _, err := gameManager.Advance(game.ID)
	assert.NoError(t, err)
}

func TestConcurrentAdvance(t *testing.T) {
	// Setup
	gameManager := testManager()
	game, _ := gameManager.CreateGame(testRoster())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gameManager.Advance(game.ID)
		}()
	}
	wg.Wait()

	// Test case 1: Steps were serialised
	stored, err := gameManager.GetGame(game.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, stored.Steps, 8)
	assert.GreaterOrEqual(t, stored.Steps, 1)
}

func TestEventSystem(t *testing.T) {
	// Setup
	cfg := config.DefaultConfig()
	cfg.Game.Seed = 5
	cfg.Game.MaxSteps = 3
	gameManager := NewGameManager(cfg)
	auto, _ := gameManager.CreateGame(testRoster())
	manual, _ := gameManager.CreateGame(testRoster())
	require.NoError(t, gameManager.SetAutoplay(auto.ID, true))

	// Test case 1: Only autoplay games advance
	gameManager.eventSys.advanceGames()
	a, _ := gameManager.GetGame(auto.ID)
	m, _ := gameManager.GetGame(manual.ID)
	assert.Equal(t, 1, a.Steps)
	assert.Equal(t, 0, m.Steps)

	// Test case 2: The step limit switches autoplay off
	gameManager.eventSys.advanceGames()
	gameManager.eventSys.advanceGames()
	gameManager.eventSys.advanceGames()
	a, _ = gameManager.GetGame(auto.ID)
	if !a.State.Finished() {
		assert.Equal(t, 3, a.Steps)
	}
	assert.False(t, a.Autoplay)

	// Test case 3: Start and Stop are safe to repeat
	gameManager.SetAutoplayInterval(10 * time.Millisecond)
	gameManager.StartEventSystem()
	gameManager.StartEventSystem()
	gameManager.StopEventSystem()
	gameManager.StopEventSystem()
}

func TestEventSystemTicks(t *testing.T) {
	// Setup
	cfg := config.DefaultConfig()
	cfg.Game.Seed = 9
	cfg.Game.AutoplayInterval = 5 * time.Millisecond
	gameManager := NewGameManager(cfg)
	game, _ := gameManager.CreateGame(testRoster())
	require.NoError(t, gameManager.SetAutoplay(game.ID, true))

	gameManager.StartEventSystem()
	defer gameManager.StopEventSystem()

	// Test case 1: The ticker plays the game to the end
	assert.Eventually(t, func() bool {
		g, err := gameManager.GetGame(game.ID)
		return err == nil && g.State.Finished()
	}, 5*time.Second, 10*time.Millisecond)

	g, _ := gameManager.GetGame(game.ID)
	assert.False(t, g.Autoplay)
}

func TestEventSystemStopBeforeStart(t *testing.T) {
	// Setup
	cfg := config.DefaultConfig()
	cfg.Game.Seed = 3
	cfg.Game.AutoplayInterval = 5 * time.Millisecond
	gameManager := NewGameManager(cfg)
	game, _ := gameManager.CreateGame(testRoster())
	require.NoError(t, gameManager.SetAutoplay(game.ID, true))

	// Test case 1: Stopping an unstarted system stops its ticker
	gameManager.StopEventSystem()
	select {
	case <-gameManager.eventSys.ticker.C:
		t.Fatal("ticker still running after Stop")
	case <-time.After(30 * time.Millisecond):
	}

	// Test case 2: Retuning a stopped system does not revive the ticker
	gameManager.SetAutoplayInterval(5 * time.Millisecond)
	select {
	case <-gameManager.eventSys.ticker.C:
		t.Fatal("ticker revived by SetAutoplayInterval")
	case <-time.After(30 * time.Millisecond):
	}

	// Test case 3: Starting after Stop advances nothing
	gameManager.StartEventSystem()
	time.Sleep(30 * time.Millisecond)
	g, err := gameManager.GetGame(game.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Steps)
}

func TestWriterSink(t *testing.T) {
	// Setup
	var buf bytes.Buffer
	sink := NewWriterSink(&buf)

	// Test case 1: Headings separate phases
	err := sink.Publish("g", []types.GameEvent{
		{Day: 1, Phase: types.PhaseBloodbath, Description: "Cato grabs a Sword from the cornucopia."},
		{Day: 1, Phase: types.PhaseBloodbath, Description: "Rue runs away from the cornucopia without grabbing anything."},
		{Day: 1, Phase: types.PhaseDay, Description: "Rue explores the arena."},
	})
	require.NoError(t, err)
	assert.Equal(t, "\n== Day 1: bloodbath ==\n"+
		"- Cato grabs a Sword from the cornucopia.\n"+
		"- Rue runs away from the cornucopia without grabbing anything.\n"+
		"\n== Day 1: day ==\n"+
		"- Rue explores the arena.\n", buf.String())
}
