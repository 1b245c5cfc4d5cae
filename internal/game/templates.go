package game

import (
	"strings"

	"github.com/user/arena-games/internal/types"
)

// Intent tags what a narration template does mechanically
type Intent int

const (
	IntentGeneric Intent = iota
	IntentAttack
	IntentBetrayal
	IntentStandoff
	IntentSelfHeal
	IntentItemGrab
	IntentExplore
	IntentSponsorFood
	IntentSponsorMedicine
	IntentTrapSet
	IntentTrapTrigger
	IntentAlliance
	IntentSteal
	IntentPractice
)

// Hint biases which participant is picked as subject
type Hint int

const (
	HintNone Hint = iota
	HintAttack
	HintExplore
	HintHide
)

// Template is a narration pattern with {participant1}, {participant2}, {item} and {weapon} placeholders
type Template struct {
	Text   string
	Intent Intent
	Hint   Hint
	// Activity names what an explore template is doing ("hunting", "exploring")
	Activity string
}

// Pair reports whether the template names a second participant
func (t Template) Pair() bool {
	return strings.Contains(t.Text, "{participant2}")
}

// TemplateSet maps each phase to the templates that can fire during it
type TemplateSet map[types.Phase][]Template

// For returns the templates of a phase; phases without an entry fall back to day
func (ts TemplateSet) For(phase types.Phase) []Template {
	if tmpls, ok := ts[phase]; ok {
		return tmpls
	}
	return ts[types.PhaseDay]
}

var (
	grabTemplate = Template{
		Text:   "{participant1} grabs a {item} from the cornucopia.",
		Intent: IntentItemGrab,
	}
	betrayalTemplate = Template{
		Text:   "{participant1} betrays and attacks their ally, {participant2}",
		Intent: IntentBetrayal,
		Hint:   HintAttack,
	}
	standoffTemplate = Template{
		Text:   "{participant1} sizes up {participant2} but decides not to strike.",
		Intent: IntentStandoff,
	}
)

// DefaultTemplates returns the standard narration for every phase
func DefaultTemplates() TemplateSet {
	return TemplateSet{
		types.PhaseBloodbath: {
			grabTemplate,
			{Text: "{participant1} and {participant2} fight for a bag. {participant1} gives up and retreats.", Hint: HintHide},
			{Text: "{participant1} attacks {participant2} with a {weapon}", Intent: IntentAttack, Hint: HintAttack},
			{Text: "{participant1} finds a hiding spot and waits for the bloodbath to end.", Hint: HintHide},
			{Text: "{participant1} runs away from the cornucopia without grabbing anything."},
			{Text: "{participant1} grabs a backpack and retreats.", Hint: HintHide},
			{Text: "{participant1} and {participant2} work together to get supplies.", Intent: IntentAlliance},
		},
		types.PhaseDay: {
			{Text: "{participant1} hunts for other tributes.", Hint: HintExplore},
			{Text: "{participant1} camouflages themselves in the bushes.", Hint: HintHide},
			{Text: "{participant1} goes hunting for food.", Intent: IntentExplore, Hint: HintExplore, Activity: "hunting"},
			{Text: "{participant1} receives fresh food from a sponsor.", Intent: IntentSponsorFood},
			{Text: "{participant1} finds a water source."},
			{Text: "{participant1} practices with their {weapon}.", Intent: IntentPractice},
			{Text: "{participant1} explores the arena.", Intent: IntentExplore, Hint: HintExplore, Activity: "exploring"},
			{Text: "{participant1} ambushes {participant2} while they were sleeping", Intent: IntentAttack, Hint: HintAttack},
			{Text: "{participant1} and {participant2} form an alliance.", Intent: IntentAlliance},
			{Text: "{participant1} sets a trap.", Intent: IntentTrapSet},
			{Text: "{participant1} accidentally springs a trap!", Intent: IntentTrapTrigger},
			{Text: "{participant1} tries to steal from {participant2} while they are sleeping.", Intent: IntentSteal},
			{Text: "{participant1} launches a surprise attack on {participant2}", Intent: IntentAttack, Hint: HintAttack},
			{Text: "{participant1} and {participant2} engage in a fierce battle", Intent: IntentAttack, Hint: HintAttack},
			{Text: "{participant1} corners {participant2} in a clearing", Intent: IntentAttack, Hint: HintAttack},
			{Text: "{participant1} finds {participant2} injured and decides to attack", Intent: IntentAttack, Hint: HintAttack},
			{Text: "{participant1} stalks {participant2} through the dense forest", Intent: IntentAttack, Hint: HintAttack},
		},
		types.PhaseNight: {
			{Text: "{participant1} starts a fire to keep warm."},
			{Text: "{participant1} looks at the night sky and thinks of home."},
			{Text: "{participant1} receives medical supplies from a sponsor.", Intent: IntentSponsorMedicine},
			{Text: "{participant1} quietly stalks {participant2}."},
			{Text: "{participant1} attacks {participant2} in their sleep", Intent: IntentAttack, Hint: HintAttack},
			{Text: "{participant1} stays awake all night, paranoid.", Hint: HintHide},
			{Text: "{participant1} and {participant2} huddle for warmth."},
			{Text: "{participant1} tends to their wounds.", Intent: IntentSelfHeal},
			{Text: "{participant1} hears strange noises in the distance."},
			{Text: "{participant1} attempts to steal from {participant2}'s supplies.", Intent: IntentSteal},
			{Text: "{participant1} silently creeps into {participant2}'s camp to attack", Intent: IntentAttack, Hint: HintAttack},
			{Text: "{participant1} ambushes {participant2} by the water source", Intent: IntentAttack, Hint: HintAttack},
			{Text: "{participant1} prepares an assault on {participant2}'s shelter", Intent: IntentAttack, Hint: HintAttack},
		},
		types.PhaseFallen:  {},
		types.PhaseVictory: {},
	}
}

func withIntent(tmpls []Template, intent Intent) []Template {
	var out []Template
	for _, t := range tmpls {
		if t.Intent == intent {
			out = append(out, t)
		}
	}
	return out
}
