package game

import (
	"fmt"
	"strings"

	"github.com/user/arena-games/internal/types"
)

// Combat odds
const (
	criticalChance = 0.2
	lootChance     = 0.5
	minBaseDamage  = 50
	maxBaseDamage  = 100
)

// resolve applies the gameplay consequences of an event to the state
func (e *Engine) resolve(state *types.GameState, event *types.GameEvent) {
	switch event.Type {
	case types.EventKill:
		e.resolveKill(state, event)
	case types.EventItem:
		e.resolveItem(state, event)
	case types.EventAlliance:
		resolveAlliance(state, event)
	case types.EventTrap:
		resolveTrap(state, event)
	}
}

func (e *Engine) resolveKill(state *types.GameState, event *types.GameEvent) {
	if len(event.Participants) < 2 {
		return
	}
	killer := state.Participant(event.Participants[0])
	victim := state.Participant(event.Participants[1])
	if victim == nil || !victim.IsAlive() {
		return
	}

	if killer != nil && e.blocked(event, killer, victim) {
		return
	}

	if e.rng.Float64() < criticalChance {
		dealt := victim.HP
		victim.HP = 0
		event.Description += fmt.Sprintf(", dealing a critical hit of %d damage!", dealt)
	} else {
		bonus := 0
		if killer != nil && killer.Attributes != nil {
			bonus = killer.Attributes.Strength / 2
		}

		var damage int
		if eff, ok := itemEffect(event.ItemUsed, types.EffectDamage); ok {
			damage = eff.Value + bonus
		} else {
			damage = rollRange(e.rng, minBaseDamage, maxBaseDamage) + bonus
		}

		dealt := applyDamage(victim, damage)
		event.Description += fmt.Sprintf(", dealing %d damage.", dealt)

		if killer != nil && event.ItemUsed != nil && event.ItemUsed.Type == types.ItemWeapon {
			if idx := killer.ItemIndex(event.ItemUsed.ID); idx >= 0 {
				name := killer.Inventory[idx].Name
				if consumeUse(killer, idx) {
					event.Description += fmt.Sprintf(" Their %s broke from the effort.", name)
				}
			}
		}
	}

	if victim.HP > 0 {
		return
	}
	victim.Status = types.StatusDead
	if killer == nil {
		return
	}
	killer.Kills++

	var looted []string
	for _, item := range victim.Inventory {
		if e.rng.Float64() < lootChance {
			loot := item.Clone()
			loot.ID = e.newID()
			killer.Inventory = append(killer.Inventory, loot)
			looted = append(looted, item.Name)
		}
	}
	if len(looted) > 0 {
		event.Description += fmt.Sprintf(" %s loots %s from the body.", killer.Name, strings.Join(looted, ", "))
	}
}

// blocked rolls the victim's block items in inventory order; the first success absorbs the attack
func (e *Engine) blocked(event *types.GameEvent, killer, victim *types.Participant) bool {
	for i := range victim.Inventory {
		item := victim.Inventory[i]
		eff, ok := item.Effect(types.EffectBlockChance)
		if !ok || item.Uses == nil || *item.Uses <= 0 {
			continue
		}
		if e.rng.Float64() >= float64(eff.Value)/100 {
			continue
		}

		desc := fmt.Sprintf("%s's attack on %s was blocked by their %s!", killer.Name, victim.Name, item.Name)
		if consumeUse(victim, i) {
			desc += fmt.Sprintf(" However, the %s broke in the process.", item.Name)
		}
		event.Description = desc
		return true
	}
	return false
}

func (e *Engine) resolveItem(state *types.GameState, event *types.GameEvent) {
	if event.ItemUsed == nil || len(event.Participants) == 0 {
		return
	}
	p := state.Participant(event.Participants[0])
	if p == nil {
		return
	}

	switch event.Action {
	case types.ActionUse:
		idx := p.ItemIndex(event.ItemUsed.ID)
		if idx < 0 {
			for i, it := range p.Inventory {
				if it.Name == event.ItemUsed.Name && it.Type == event.ItemUsed.Type {
					idx = i
					break
				}
			}
		}
		if idx < 0 {
			return
		}
		heal(p, p.Inventory[idx])
		consumeUse(p, idx)

	case types.ActionAcquire:
		heal(p, *event.ItemUsed)
		item := event.ItemUsed.Clone()
		item.ID = e.newID()
		p.Inventory = append(p.Inventory, item)
	}
}

func resolveAlliance(state *types.GameState, event *types.GameEvent) {
	if event.Action == types.ActionDissolve || len(event.Participants) < 2 {
		return
	}
	a := state.Participant(event.Participants[0])
	b := state.Participant(event.Participants[1])
	if a == nil || b == nil || a.ID == b.ID {
		return
	}
	a.AddAlly(b.ID)
	b.AddAlly(a.ID)
}

func resolveTrap(state *types.GameState, event *types.GameEvent) {
	if event.Action != types.ActionTriggerTrap || event.ItemUsed == nil || len(event.Participants) < 2 {
		return
	}
	victim := state.Participant(event.Participants[0])
	if victim == nil || !victim.IsAlive() {
		return
	}

	damage := 0
	if eff, ok := event.ItemUsed.Effect(types.EffectDamage); ok {
		damage = eff.Value
	}
	dealt := applyDamage(victim, damage)
	event.Description += fmt.Sprintf(" It explodes, dealing %d damage.", dealt)

	if victim.HP > 0 {
		return
	}
	victim.Status = types.StatusDead
	// the setter keeps the credit even if they died after placing the trap
	if setter := state.Participant(event.Participants[1]); setter != nil {
		setter.Kills++
	}
}

// applyDamage lowers hp, clamped at zero, and returns the damage actually dealt
func applyDamage(p *types.Participant, damage int) int {
	if damage < 0 {
		damage = 0
	}
	dealt := damage
	if dealt > p.HP {
		dealt = p.HP
	}
	p.HP -= dealt
	return dealt
}

func heal(p *types.Participant, item types.Item) {
	for _, eff := range item.Effects {
		if eff.Type != types.EffectHealing {
			continue
		}
		p.HP += eff.Value
		if p.HP > p.MaxHP {
			p.HP = p.MaxHP
		}
	}
}

// consumeUse decrements a finite item and drops it at zero; it reports whether the item was removed
func consumeUse(p *types.Participant, idx int) bool {
	item := &p.Inventory[idx]
	if item.Uses == nil {
		return false
	}
	if *item.Uses > 0 {
		*item.Uses--
	}
	if *item.Uses == 0 {
		p.RemoveItemAt(idx)
		return true
	}
	return false
}

func itemEffect(item *types.Item, t types.EffectType) (types.ItemEffect, bool) {
	if item == nil {
		return types.ItemEffect{}, false
	}
	return item.Effect(t)
}
