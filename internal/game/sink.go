package game

import (
	"fmt"
	"io"
	"sync"

	"github.com/user/arena-games/internal/interfaces"
	"github.com/user/arena-games/internal/types"
	"go.uber.org/zap"
)

// WriterSink prints each step's narration as plain text
type WriterSink struct {
	mu        sync.Mutex
	w         io.Writer
	lastDay   int
	lastPhase types.Phase
}

var _ interfaces.EventSink = (*WriterSink)(nil)

// NewWriterSink creates a sink writing to w
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Publish writes a heading whenever the day or phase changes, then one line per event
func (s *WriterSink) Publish(gameID string, events []types.GameEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		if e.Day != s.lastDay || e.Phase != s.lastPhase {
			if _, err := fmt.Fprintf(s.w, "\n== Day %d: %s ==\n", e.Day, e.Phase); err != nil {
				return err
			}
			s.lastDay, s.lastPhase = e.Day, e.Phase
		}
		if _, err := fmt.Fprintf(s.w, "- %s\n", e.Description); err != nil {
			return err
		}
	}
	return nil
}

// LogSink records events in the structured log
type LogSink struct {
	logger *zap.Logger
}

var _ interfaces.EventSink = (*LogSink)(nil)

// NewLogSink creates a sink logging at info level
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Publish logs one entry per event
func (s *LogSink) Publish(gameID string, events []types.GameEvent) error {
	for _, e := range events {
		s.logger.Info("Game event",
			zap.String("game_id", gameID),
			zap.Int("day", e.Day),
			zap.String("phase", string(e.Phase)),
			zap.String("type", string(e.Type)),
			zap.String("description", e.Description))
	}
	return nil
}
