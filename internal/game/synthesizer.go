package game

import (
	"fmt"
	"strings"

	"github.com/user/arena-games/internal/types"
	"go.uber.org/zap"
)

// Template priority odds
const (
	healPriority   = 0.5
	trapPriority   = 0.3
	attackPriority = 0.4

	// bloodbathGrabShare of the roster gets a cornucopia item before the general pool is sized
	bloodbathGrabShare = 4
)

// generatePhaseEvents produces and resolves the batch of events for the current phase
func (e *Engine) generatePhaseEvents(state *types.GameState, alive []*types.Participant) []types.GameEvent {
	var events []types.GameEvent
	templates := e.templates.For(state.Phase)

	pool := append([]*types.Participant(nil), alive...)
	if state.Phase == types.PhaseBloodbath {
		e.shuffle(pool)
		lucky := len(alive) / bloodbathGrabShare
		for _, p := range pool[:lucky] {
			events = append(events, e.emit(state, grabTemplate, p, nil))
		}
		pool = pool[lucky:]
	}

	general := make([]Template, 0, len(templates))
	for _, t := range templates {
		if t.Intent == IntentBetrayal {
			continue
		}
		if state.Phase == types.PhaseBloodbath && t.Intent == IntentItemGrab {
			continue
		}
		general = append(general, t)
	}
	if len(general) == 0 {
		return events
	}

	count := len(pool)/2 + e.rng.Intn(3)
	if count > len(pool) {
		count = len(pool)
	}

	unassigned := pool
	for i := 0; i < count && len(unassigned) > 0; i++ {
		tmpl := e.chooseTemplate(unassigned, general)

		actor := selectWeighted(e.rng, unassigned, tmpl.Hint)
		unassigned = withoutParticipant(unassigned, actor.ID)

		var target *types.Participant
		tmpl, target = e.resolveTarget(tmpl, actor, unassigned)
		if target != nil {
			unassigned = withoutParticipant(unassigned, target.ID)
		}

		events = append(events, e.emit(state, tmpl, actor, target))
	}

	return events
}

// emit synthesises one event, resolves its effects and logs it
func (e *Engine) emit(state *types.GameState, tmpl Template, actor, target *types.Participant) types.GameEvent {
	event := e.synthesize(state, tmpl, actor, target)
	e.resolve(state, &event)
	e.logger.Debug("Event generated",
		zap.Int("day", event.Day),
		zap.String("phase", string(event.Phase)),
		zap.String("type", string(event.Type)),
		zap.Strings("participants", event.Participants),
		zap.String("description", event.Description))
	return event
}

// chooseTemplate applies the heal > trap > attack > uniform priority
func (e *Engine) chooseTemplate(unassigned []*types.Participant, general []Template) Template {
	heals := withIntent(general, IntentSelfHeal)
	traps := withIntent(general, IntentTrapSet)
	attacks := withIntent(general, IntentAttack)

	healers := len(heals) > 0 && anyParticipant(unassigned, func(p *types.Participant) bool {
		return p.Wounded() && p.HasItem(types.ItemMedicine)
	})
	trappers := len(traps) > 0 && anyParticipant(unassigned, func(p *types.Participant) bool {
		return p.HasItem(types.ItemTrap)
	})
	attackers := len(attacks) > 0 && anyParticipant(unassigned, func(p *types.Participant) bool {
		return p.HasItem(types.ItemWeapon) && (p.Mood == types.MoodAggressive || p.Mood == types.MoodBrave)
	})

	switch {
	case healers && e.rng.Float64() < healPriority:
		return heals[e.rng.Intn(len(heals))]
	case trappers && e.rng.Float64() < trapPriority:
		return traps[e.rng.Intn(len(traps))]
	case attackers && e.rng.Float64() < attackPriority:
		return attacks[e.rng.Intn(len(attacks))]
	default:
		return general[e.rng.Intn(len(general))]
	}
}

// resolveTarget picks the second participant; attack templates may turn into a betrayal or a standoff
func (e *Engine) resolveTarget(tmpl Template, actor *types.Participant, unassigned []*types.Participant) (Template, *types.Participant) {
	if tmpl.Intent != IntentAttack {
		if tmpl.Pair() && len(unassigned) > 0 {
			return tmpl, pickParticipant(e.rng, unassigned)
		}
		return tmpl, nil
	}

	if len(unassigned) == 0 {
		return tmpl, nil
	}

	allies, others := partitionAllies(actor, unassigned)
	if len(allies) > 0 && e.rng.Float64() < betrayalChance(actor) {
		return betrayalTemplate, pickParticipant(e.rng, allies)
	}
	if len(others) > 0 {
		return tmpl, pickParticipant(e.rng, others)
	}
	return standoffTemplate, pickParticipant(e.rng, unassigned)
}

// synthesize turns a template and its subjects into a concrete event.
// Steals, trap placement and trap triggering mutate state here; everything else is left to resolve.
func (e *Engine) synthesize(state *types.GameState, tmpl Template, actor, target *types.Participant) types.GameEvent {
	event := types.GameEvent{
		ID:           e.newID(),
		Day:          state.Day,
		Phase:        state.Phase,
		Type:         types.EventSurvival,
		Participants: []string{actor.ID},
	}
	desc := render(tmpl.Text, actor, target)

	switch tmpl.Intent {
	case IntentExplore:
		if item, ok := e.discover(actor); ok {
			event.Type = types.EventItem
			event.Action = types.ActionAcquire
			event.ItemUsed = &item
			desc = fmt.Sprintf("%s finds a %s while %s.", actor.Name, item.Name, tmpl.Activity)
		}

	case IntentSteal:
		if target == nil {
			desc = fmt.Sprintf("%s looks for someone to steal from but finds no one.", actor.Name)
			break
		}
		event.Type = types.EventSteal
		event.Participants = append(event.Participants, target.ID)
		desc = e.steal(&event, actor, target)

	case IntentAttack, IntentBetrayal:
		if target == nil {
			desc = fmt.Sprintf("%s searches for someone to fight but finds no one.", actor.Name)
			break
		}
		event.Type = types.EventKill
		event.Participants = append(event.Participants, target.ID)
		if idx := actor.FindItem(types.ItemWeapon); idx >= 0 {
			weapon := actor.Inventory[idx].Clone()
			event.ItemUsed = &weapon
			desc = strings.ReplaceAll(desc, "{weapon}", weapon.Name)
		} else {
			desc = strings.ReplaceAll(desc, " with a {weapon}", "")
		}

	case IntentSponsorFood, IntentSponsorMedicine:
		kind := types.ItemFood
		if tmpl.Intent == IntentSponsorMedicine {
			kind = types.ItemMedicine
		}
		if item, ok := pickItem(e.rng, e.catalog.ByType(kind)); ok {
			event.Type = types.EventItem
			event.Action = types.ActionAcquire
			event.ItemUsed = &item
			desc = fmt.Sprintf("%s receives a %s from a sponsor.", actor.Name, item.Name)
		}

	case IntentItemGrab:
		if item, ok := e.catalog.Random(e.rng); ok {
			event.Type = types.EventItem
			event.Action = types.ActionAcquire
			event.ItemUsed = &item
			desc = strings.ReplaceAll(desc, "{item}", item.Name)
		}

	case IntentTrapSet:
		idx := actor.FindItem(types.ItemTrap)
		if idx < 0 {
			desc = fmt.Sprintf("%s looks for a good place to set a trap.", actor.Name)
			break
		}
		trap := actor.Inventory[idx].Clone()
		actor.RemoveItemAt(idx)
		state.ActiveTraps = append(state.ActiveTraps, types.ActiveTrap{
			ID:       e.newID(),
			SetterID: actor.ID,
			Item:     trap,
		})
		event.Type = types.EventTrap
		event.Action = types.ActionSetTrap
		event.ItemUsed = &trap
		desc = fmt.Sprintf("%s sets a trap using a %s.", actor.Name, trap.Name)

	case IntentTrapTrigger:
		desc = e.triggerTrap(state, &event, actor)

	case IntentSelfHeal:
		if idx := actor.FindItem(types.ItemMedicine); idx >= 0 {
			med := actor.Inventory[idx].Clone()
			event.Type = types.EventItem
			event.Action = types.ActionUse
			event.ItemUsed = &med
			desc = fmt.Sprintf("%s tends to their wounds using a %s.", actor.Name, med.Name)
		}

	case IntentPractice:
		if idx := actor.FindItem(types.ItemWeapon); idx >= 0 {
			weapon := actor.Inventory[idx].Clone()
			event.ItemUsed = &weapon
			desc = fmt.Sprintf("%s practices with their %s.", actor.Name, weapon.Name)
		} else {
			desc = fmt.Sprintf("%s practices their combat moves.", actor.Name)
		}

	case IntentAlliance:
		if target != nil {
			event.Type = types.EventAlliance
		}

	default:
		if strings.Contains(desc, "{item}") || strings.Contains(desc, "{weapon}") {
			if item, ok := e.catalog.Random(e.rng); ok {
				desc = strings.ReplaceAll(desc, "{item}", item.Name)
				desc = strings.ReplaceAll(desc, "{weapon}", item.Name)
			}
		}
	}

	if target != nil && !containsID(event.Participants, target.ID) {
		event.Participants = append(event.Participants, target.ID)
	}

	desc = strings.ReplaceAll(desc, "{item}", "supplies")
	desc = strings.ReplaceAll(desc, "{weapon}", "fists")
	event.Description = desc
	return event
}

// discover rolls for an intelligence-driven item find
func (e *Engine) discover(p *types.Participant) (types.Item, bool) {
	if p.Attributes == nil {
		return types.Item{}, false
	}
	intel := float64(p.Attributes.Intelligence)
	if e.rng.Float64() >= 0.10+intel*0.05 {
		return types.Item{}, false
	}

	roll := e.rng.Float64()
	var rarity types.Rarity
	switch {
	case roll < 0.01+intel*0.01:
		rarity = types.RarityLegendary
	case roll < 0.05+intel*0.02:
		rarity = types.RarityRare
	case roll < 0.20+intel*0.03:
		rarity = types.RarityUncommon
	default:
		rarity = types.RarityCommon
	}
	return pickItem(e.rng, e.catalog.ByRarity(rarity))
}

// steal runs the intelligence contest and moves an item on success
func (e *Engine) steal(event *types.GameEvent, thief, mark *types.Participant) string {
	if thief.Attributes == nil || mark.Attributes == nil || len(mark.Inventory) == 0 {
		return fmt.Sprintf("%s tries to steal from %s but finds nothing.", thief.Name, mark.Name)
	}

	thiefRoll := thief.Attributes.Intelligence + rollRange(e.rng, 1, 10)
	markRoll := mark.Attributes.Intelligence + rollRange(e.rng, 1, 6)
	if thiefRoll <= markRoll {
		return fmt.Sprintf("%s fails to steal from %s and is caught!", thief.Name, mark.Name)
	}

	idx := e.rng.Intn(len(mark.Inventory))
	stolen := mark.Inventory[idx]
	mark.RemoveItemAt(idx)
	thief.Inventory = append(thief.Inventory, stolen)

	snapshot := stolen.Clone()
	event.ItemUsed = &snapshot
	return fmt.Sprintf("%s successfully steals from %s!", thief.Name, mark.Name)
}

// triggerTrap springs a random trap set by someone other than the victim
func (e *Engine) triggerTrap(state *types.GameState, event *types.GameEvent, victim *types.Participant) string {
	if len(state.ActiveTraps) == 0 {
		return fmt.Sprintf("%s cautiously explores the area, finding nothing amiss.", victim.Name)
	}

	var candidates []int
	for i, t := range state.ActiveTraps {
		if t.SetterID != victim.ID && state.Participant(t.SetterID) != nil {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return fmt.Sprintf("%s carefully navigates around a suspicious area.", victim.Name)
	}

	idx := candidates[e.rng.Intn(len(candidates))]
	trap := state.ActiveTraps[idx]
	state.ActiveTraps = append(state.ActiveTraps[:idx], state.ActiveTraps[idx+1:]...)

	setter := state.Participant(trap.SetterID)
	item := trap.Item.Clone()
	event.Type = types.EventTrap
	event.Action = types.ActionTriggerTrap
	event.ItemUsed = &item
	event.Participants = []string{victim.ID, setter.ID}
	return fmt.Sprintf("%s accidentally triggers a trap set by %s!", victim.Name, setter.Name)
}

func render(text string, actor, target *types.Participant) string {
	out := strings.ReplaceAll(text, "{participant1}", actor.Name)
	other := "another tribute"
	if target != nil {
		other = target.Name
	}
	return strings.ReplaceAll(out, "{participant2}", other)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
