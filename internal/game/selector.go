package game

import (
	"github.com/user/arena-games/internal/types"
)

// moodWeight returns the selection weight of a mood under a template hint
func moodWeight(mood types.Mood, hint Hint) float64 {
	switch hint {
	case HintAttack:
		switch mood {
		case types.MoodAggressive:
			return 4
		case types.MoodBrave:
			return 2
		case types.MoodCautious:
			return 0.5
		}
	case HintExplore:
		switch mood {
		case types.MoodBrave:
			return 3
		case types.MoodCalm:
			return 2
		}
	case HintHide:
		switch mood {
		case types.MoodCautious:
			return 4
		case types.MoodDesperate:
			return 3
		}
	}
	return 1
}

// selectWeighted draws one participant from pool, favouring moods that suit the hint.
// It panics with ErrEmptyPool when pool is empty.
func selectWeighted(rng Randomizer, pool []*types.Participant, hint Hint) *types.Participant {
	if len(pool) == 0 {
		panic(ErrEmptyPool)
	}

	weights := make([]float64, len(pool))
	total := 0.0
	for i, p := range pool {
		weights[i] = moodWeight(p.Mood, hint)
		total += weights[i]
	}
	if total <= 0 {
		return pool[rng.Intn(len(pool))]
	}

	draw := rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if draw < cumulative {
			return pool[i]
		}
	}
	return pool[len(pool)-1]
}

// pickParticipant draws uniformly from pool; it panics with ErrEmptyPool when pool is empty
func pickParticipant(rng Randomizer, pool []*types.Participant) *types.Participant {
	if len(pool) == 0 {
		panic(ErrEmptyPool)
	}
	return pool[rng.Intn(len(pool))]
}

// partitionAllies splits pool into the actor's allies and everyone else
func partitionAllies(actor *types.Participant, pool []*types.Participant) (allies, others []*types.Participant) {
	for _, p := range pool {
		if p.ID == actor.ID {
			continue
		}
		if actor.HasAlly(p.ID) {
			allies = append(allies, p)
		} else {
			others = append(others, p)
		}
	}
	return allies, others
}

// betrayalChance is the probability that an attack is turned on an ally
func betrayalChance(p *types.Participant) float64 {
	chance := 0.05
	switch p.Mood {
	case types.MoodAggressive:
		chance += 0.10
	case types.MoodDesperate:
		chance += 0.15
	case types.MoodBrave:
		chance -= 0.05
	}
	if p.Attributes != nil {
		chance += float64(10-p.Attributes.AllianceTendency) * 0.02
	}
	if chance < 0 {
		return 0
	}
	if chance > 1 {
		return 1
	}
	return chance
}

// withoutParticipant returns pool minus the participant with the given id
func withoutParticipant(pool []*types.Participant, id string) []*types.Participant {
	out := make([]*types.Participant, 0, len(pool))
	for _, p := range pool {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func anyParticipant(pool []*types.Participant, match func(*types.Participant) bool) bool {
	for _, p := range pool {
		if match(p) {
			return true
		}
	}
	return false
}
