package types

import "time"

// Game is a stored contest hosted by the manager
type Game struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Steps     int        `json:"steps"`
	Autoplay  bool       `json:"autoplay"`
	State     *GameState `json:"state"`
}

// Clone returns a deep copy safe to hand out of the manager
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	cp := *g
	cp.State = g.State.Clone()
	return &cp
}
