package game

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/user/arena-games/internal/types"
)

var validate = validator.New()

// RosterEntry is a participant as written in a roster file or an API request
type RosterEntry struct {
	ID    string     `json:"id,omitempty" yaml:"id,omitempty"`
	Name  string     `json:"name" yaml:"name" validate:"required"`
	Image string     `json:"image,omitempty" yaml:"image,omitempty"`
	HP    int        `json:"hp,omitempty" yaml:"hp,omitempty" validate:"omitempty,min=1"`
	MaxHP int        `json:"max_hp,omitempty" yaml:"max_hp,omitempty" validate:"omitempty,min=1"`
	Mood  types.Mood `json:"mood,omitempty" yaml:"mood,omitempty" validate:"omitempty,oneof=Calm Brave Cautious Aggressive Desperate"`
	// Allies may name other entries by id or by name
	Allies     []string          `json:"allies,omitempty" yaml:"allies,omitempty"`
	Inventory  []types.Item      `json:"inventory,omitempty" yaml:"inventory,omitempty" validate:"dive"`
	Attributes *types.Attributes `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// ValidateRoster checks every entry and rejects empty rosters and duplicate ids or names
func ValidateRoster(entries []RosterEntry) error {
	if len(entries) == 0 {
		return ErrEmptyRoster
	}

	ids := make(map[string]bool)
	names := make(map[string]bool)
	for i, entry := range entries {
		if err := validate.Struct(entry); err != nil {
			return fmt.Errorf("participant %d: %w", i, err)
		}
		if entry.ID != "" {
			if ids[entry.ID] {
				return fmt.Errorf("participant %d: duplicate id %q", i, entry.ID)
			}
			ids[entry.ID] = true
		}
		if names[entry.Name] {
			return fmt.Errorf("participant %d: duplicate name %q", i, entry.Name)
		}
		names[entry.Name] = true
	}
	return nil
}

// ToParticipants converts roster entries into engine participants, resolving allies by id or name
func ToParticipants(entries []RosterEntry) []types.Participant {
	participants := make([]types.Participant, len(entries))
	byKey := make(map[string]string)

	for i, entry := range entries {
		id := entry.ID
		if id == "" {
			id = uuid.New().String()
		}
		byKey[id] = id
		byKey[entry.Name] = id

		var attrs *types.Attributes
		if entry.Attributes != nil {
			a := *entry.Attributes
			attrs = &a
		}
		inventory := make([]types.Item, len(entry.Inventory))
		for j, item := range entry.Inventory {
			inventory[j] = item.Clone()
		}

		participants[i] = types.Participant{
			ID:         id,
			Name:       entry.Name,
			Image:      entry.Image,
			HP:         entry.HP,
			MaxHP:      entry.MaxHP,
			Mood:       entry.Mood,
			Inventory:  inventory,
			Attributes: attrs,
		}
	}

	for i, entry := range entries {
		for _, key := range entry.Allies {
			if id, ok := byKey[key]; ok {
				participants[i].Allies = append(participants[i].Allies, id)
			}
		}
	}
	return participants
}
