package types

// GameState represents one running contest
type GameState struct {
	Participants []*Participant `json:"participants"`
	Events       []GameEvent    `json:"events"`
	Day          int            `json:"day"`
	Phase        Phase          `json:"phase"`
	Winner       *Participant   `json:"winner,omitempty"`
	ActiveTraps  []ActiveTrap   `json:"active_traps"`
}

// Phase is a stage of the day/night cycle
type Phase string

const (
	PhaseBloodbath Phase = "bloodbath"
	PhaseDay       Phase = "day"
	PhaseNight     Phase = "night"
	PhaseFallen    Phase = "fallen"
	PhaseVictory   Phase = "victory"
)

// Status is the life status of a participant
type Status string

const (
	StatusAlive Status = "alive"
	StatusDead  Status = "dead"
)

// Mood drives participant selection and betrayal odds
type Mood string

const (
	MoodCalm       Mood = "Calm"
	MoodBrave      Mood = "Brave"
	MoodCautious   Mood = "Cautious"
	MoodAggressive Mood = "Aggressive"
	MoodDesperate  Mood = "Desperate"
)

// Participant represents a tribute in the arena
type Participant struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Image      string      `json:"image,omitempty"`
	Status     Status      `json:"status"`
	HP         int         `json:"hp"`
	MaxHP      int         `json:"max_hp"`
	Mood       Mood        `json:"mood"`
	Kills      int         `json:"kills"`
	Allies     []string    `json:"allies"`
	Inventory  []Item      `json:"inventory"`
	Attributes *Attributes `json:"attributes,omitempty"`
}

// Attributes are optional per-participant stats, each in [1,10]
type Attributes struct {
	Strength         int `json:"strength" yaml:"strength" validate:"min=1,max=10"`
	Intelligence     int `json:"intelligence" yaml:"intelligence" validate:"min=1,max=10"`
	AllianceTendency int `json:"alliance_tendency" yaml:"alliance_tendency" validate:"min=1,max=10"`
}

// ItemType classifies an item
type ItemType string

const (
	ItemWeapon   ItemType = "weapon"
	ItemMedicine ItemType = "medicine"
	ItemFood     ItemType = "food"
	ItemWater    ItemType = "water"
	ItemArmor    ItemType = "armor"
	ItemTrap     ItemType = "trap"
	ItemTool     ItemType = "tool"
)

// Rarity is the discovery tier of an item
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// EffectType is the kind of numeric effect an item carries
type EffectType string

const (
	EffectDamage       EffectType = "damage"
	EffectHealing      EffectType = "healing"
	EffectStrength     EffectType = "strength"
	EffectIntelligence EffectType = "intelligence"
	EffectStealth      EffectType = "stealth"
	EffectBlockChance  EffectType = "block_chance"
)

// Item represents an acquirable object
type Item struct {
	ID          string       `json:"id" yaml:"id,omitempty"`
	Name        string       `json:"name" yaml:"name" validate:"required"`
	Description string       `json:"description" yaml:"description"`
	Type        ItemType     `json:"type" yaml:"type" validate:"required,oneof=weapon medicine food water armor trap tool"`
	Rarity      Rarity       `json:"rarity" yaml:"rarity" validate:"required,oneof=common uncommon rare legendary"`
	Effects     []ItemEffect `json:"effects" yaml:"effects" validate:"dive"`
	// Uses is nil for unlimited items
	Uses *int `json:"uses,omitempty" yaml:"uses,omitempty" validate:"omitempty,min=1"`
}

// ItemEffect is a typed numeric effect
type ItemEffect struct {
	Type  EffectType `json:"type" yaml:"type" validate:"required,oneof=damage healing strength intelligence stealth block_chance"`
	Value int        `json:"value" yaml:"value"`
	// Duration is carried but no resolution path consumes it yet
	Duration *int     `json:"duration,omitempty" yaml:"duration,omitempty"`
	Chance   *float64 `json:"chance,omitempty" yaml:"chance,omitempty"`
}

// ActiveTrap is a placed hazard waiting for a victim
type ActiveTrap struct {
	ID       string `json:"id"`
	SetterID string `json:"setter_id"`
	Item     Item   `json:"item"`
}

// EventType determines the mechanical effect of an event
type EventType string

const (
	EventKill     EventType = "kill"
	EventAlliance EventType = "alliance"
	EventItem     EventType = "item"
	EventSurvival EventType = "survival"
	EventTrap     EventType = "trap"
	EventSteal    EventType = "steal"
)

// EventAction refines how the resolver treats an event
type EventAction string

const (
	ActionNone        EventAction = ""
	ActionUse         EventAction = "use"
	ActionAcquire     EventAction = "acquire"
	ActionSetTrap     EventAction = "set_trap"
	ActionTriggerTrap EventAction = "trigger_trap"
	ActionDissolve    EventAction = "dissolve"
	ActionSummary     EventAction = "summary"
)

// GameEvent is a narrated record of something that happened during a step
type GameEvent struct {
	ID           string      `json:"id"`
	Day          int         `json:"day"`
	Phase        Phase       `json:"phase"`
	Type         EventType   `json:"type"`
	Action       EventAction `json:"action,omitempty"`
	Description  string      `json:"description"`
	Participants []string    `json:"participants"`
	ItemUsed     *Item       `json:"item_used,omitempty"`
}
