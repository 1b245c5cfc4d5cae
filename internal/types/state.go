package types

// Uses returns a pointer to n, for literal item declarations
func Uses(n int) *int {
	return &n
}

// IsAlive reports whether the participant is still in the game
func (p *Participant) IsAlive() bool {
	return p.Status == StatusAlive
}

// Wounded reports whether the participant is below max hp
func (p *Participant) Wounded() bool {
	return p.HP < p.MaxHP
}

// HasAlly reports whether id is in the participant's ally set
func (p *Participant) HasAlly(id string) bool {
	for _, a := range p.Allies {
		if a == id {
			return true
		}
	}
	return false
}

// AddAlly inserts id into the ally set if missing
func (p *Participant) AddAlly(id string) {
	if id == p.ID || p.HasAlly(id) {
		return
	}
	p.Allies = append(p.Allies, id)
}

// RemoveAlly drops id from the ally set
func (p *Participant) RemoveAlly(id string) {
	kept := p.Allies[:0]
	for _, a := range p.Allies {
		if a != id {
			kept = append(kept, a)
		}
	}
	p.Allies = kept
}

// FindItem returns the index of the first inventory item of the given type, or -1
func (p *Participant) FindItem(t ItemType) int {
	for i := range p.Inventory {
		if p.Inventory[i].Type == t {
			return i
		}
	}
	return -1
}

// HasItem reports whether the participant holds an item of the given type
func (p *Participant) HasItem(t ItemType) bool {
	return p.FindItem(t) >= 0
}

// ItemIndex returns the index of the inventory item with the given id, or -1
func (p *Participant) ItemIndex(id string) int {
	for i := range p.Inventory {
		if p.Inventory[i].ID == id {
			return i
		}
	}
	return -1
}

// RemoveItemAt drops the inventory item at index i
func (p *Participant) RemoveItemAt(i int) {
	p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
}

// Clone returns a deep copy of the participant
func (p *Participant) Clone() *Participant {
	c := *p
	if p.Allies != nil {
		c.Allies = make([]string, len(p.Allies))
		copy(c.Allies, p.Allies)
	}
	if p.Inventory != nil {
		c.Inventory = make([]Item, len(p.Inventory))
		for i := range p.Inventory {
			c.Inventory[i] = p.Inventory[i].Clone()
		}
	}
	if p.Attributes != nil {
		attrs := *p.Attributes
		c.Attributes = &attrs
	}
	return &c
}

// Clone returns a deep copy of the item
func (it Item) Clone() Item {
	c := it
	if it.Effects != nil {
		c.Effects = make([]ItemEffect, len(it.Effects))
		copy(c.Effects, it.Effects)
	}
	if it.Uses != nil {
		c.Uses = Uses(*it.Uses)
	}
	return c
}

// Effect returns the first effect of the given type
func (it Item) Effect(t EffectType) (ItemEffect, bool) {
	for _, e := range it.Effects {
		if e.Type == t {
			return e, true
		}
	}
	return ItemEffect{}, false
}

// Alive returns the participants still alive, in roster order
func (s *GameState) Alive() []*Participant {
	alive := make([]*Participant, 0, len(s.Participants))
	for _, p := range s.Participants {
		if p.IsAlive() {
			alive = append(alive, p)
		}
	}
	return alive
}

// Participant looks up a participant by id, dead or alive
func (s *GameState) Participant(id string) *Participant {
	for _, p := range s.Participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Finished reports whether the game reached its terminal phase
func (s *GameState) Finished() bool {
	return s.Phase == PhaseVictory
}

// Clone returns a deep copy of the state; the winner points into the copied roster
func (s *GameState) Clone() *GameState {
	c := &GameState{
		Day:   s.Day,
		Phase: s.Phase,
	}
	if s.Participants != nil {
		c.Participants = make([]*Participant, len(s.Participants))
		for i, p := range s.Participants {
			c.Participants[i] = p.Clone()
		}
	}
	if s.Events != nil {
		c.Events = make([]GameEvent, len(s.Events))
		for i, e := range s.Events {
			c.Events[i] = e.Clone()
		}
	}
	if s.ActiveTraps != nil {
		c.ActiveTraps = make([]ActiveTrap, len(s.ActiveTraps))
		for i, t := range s.ActiveTraps {
			c.ActiveTraps[i] = ActiveTrap{ID: t.ID, SetterID: t.SetterID, Item: t.Item.Clone()}
		}
	}
	if s.Winner != nil {
		c.Winner = c.Participant(s.Winner.ID)
	}
	return c
}

// Clone returns a deep copy of the event
func (e GameEvent) Clone() GameEvent {
	c := e
	if e.Participants != nil {
		c.Participants = make([]string, len(e.Participants))
		copy(c.Participants, e.Participants)
	}
	if e.ItemUsed != nil {
		item := e.ItemUsed.Clone()
		c.ItemUsed = &item
	}
	return c
}

// EventsFor filters the chronicle; a zero day or empty phase matches everything
func (s *GameState) EventsFor(day int, phase Phase) []GameEvent {
	out := []GameEvent{}
	for _, e := range s.Events {
		if day > 0 && e.Day != day {
			continue
		}
		if phase != "" && e.Phase != phase {
			continue
		}
		out = append(out, e.Clone())
	}
	return out
}
