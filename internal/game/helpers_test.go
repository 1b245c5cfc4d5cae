package game

import (
	"github.com/user/arena-games/internal/types"
)

// scriptedRandom replays fixed rolls; once a script runs out it returns the fallbacks
type scriptedRandom struct {
	floats        []float64
	ints          []int
	fallbackFloat float64
}

func (s *scriptedRandom) Float64() float64 {
	if len(s.floats) == 0 {
		return s.fallbackFloat
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRandom) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func newTestEngine(rng Randomizer) *Engine {
	return NewEngine(WithRandomizer(rng))
}

func tribute(id, name string) *types.Participant {
	return &types.Participant{
		ID:        id,
		Name:      name,
		Status:    types.StatusAlive,
		HP:        100,
		MaxHP:     100,
		Mood:      types.MoodCalm,
		Allies:    []string{},
		Inventory: []types.Item{},
	}
}

func stateOf(phase types.Phase, participants ...*types.Participant) *types.GameState {
	return &types.GameState{
		Participants: participants,
		Events:       []types.GameEvent{},
		Day:          1,
		Phase:        phase,
		ActiveTraps:  []types.ActiveTrap{},
	}
}

func weapon(id, name string, damage, uses int) types.Item {
	return types.Item{
		ID:      id,
		Name:    name,
		Type:    types.ItemWeapon,
		Rarity:  types.RarityCommon,
		Effects: []types.ItemEffect{{Type: types.EffectDamage, Value: damage}},
		Uses:    types.Uses(uses),
	}
}

func armor(id, name string, block, uses int) types.Item {
	return types.Item{
		ID:      id,
		Name:    name,
		Type:    types.ItemArmor,
		Rarity:  types.RarityRare,
		Effects: []types.ItemEffect{{Type: types.EffectBlockChance, Value: block}},
		Uses:    types.Uses(uses),
	}
}

func trap(id, name string, damage int) types.Item {
	return types.Item{
		ID:      id,
		Name:    name,
		Type:    types.ItemTrap,
		Rarity:  types.RarityRare,
		Effects: []types.ItemEffect{{Type: types.EffectDamage, Value: damage}},
		Uses:    types.Uses(1),
	}
}

func medicine(id, name string, healing, uses int) types.Item {
	return types.Item{
		ID:      id,
		Name:    name,
		Type:    types.ItemMedicine,
		Rarity:  types.RarityCommon,
		Effects: []types.ItemEffect{{Type: types.EffectHealing, Value: healing}},
		Uses:    types.Uses(uses),
	}
}
