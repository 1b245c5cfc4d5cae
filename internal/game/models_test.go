package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/arena-games/internal/types"
)

func TestValidateRoster(t *testing.T) {
	// Test case 1: Empty roster
	assert.ErrorIs(t, ValidateRoster(nil), ErrEmptyRoster)

	// Test case 2: Valid roster
	assert.NoError(t, ValidateRoster([]RosterEntry{
		{Name: "Katniss", Attributes: &types.Attributes{Strength: 6, Intelligence: 8, AllianceTendency: 4}},
		{Name: "Peeta"},
	}))

	// Test case 3: Missing name
	assert.Error(t, ValidateRoster([]RosterEntry{{Name: ""}}))

	// Test case 4: Attribute out of range
	assert.Error(t, ValidateRoster([]RosterEntry{
		{Name: "Cato", Attributes: &types.Attributes{Strength: 11, Intelligence: 5, AllianceTendency: 5}},
	}))

	// Test case 5: Unknown mood
	assert.Error(t, ValidateRoster([]RosterEntry{{Name: "Cato", Mood: "Angry"}}))

	// Test case 6: Bad inventory item
	assert.Error(t, ValidateRoster([]RosterEntry{{Name: "Cato", Inventory: []types.Item{{Name: "Thing", Type: "gadget", Rarity: types.RarityCommon}}}}))

	// Test case 7: Duplicates
	err := ValidateRoster([]RosterEntry{{ID: "1", Name: "A"}, {ID: "1", Name: "B"}})
	assert.ErrorContains(t, err, "duplicate id")
	err = ValidateRoster([]RosterEntry{{Name: "A"}, {Name: "A"}})
	assert.ErrorContains(t, err, "duplicate name")
}

func TestToParticipants(t *testing.T) {
	// Setup
	entries := []RosterEntry{
		{ID: "k", Name: "Katniss", Allies: []string{"Rue"}},
		{Name: "Rue", Allies: []string{"k", "nobody"}},
	}

	participants := ToParticipants(entries)

	// Test case 1: Ids are assigned and allies resolve by id or name
	require.Len(t, participants, 2)
	assert.Equal(t, "k", participants[0].ID)
	assert.NotEmpty(t, participants[1].ID)
	assert.Equal(t, []string{participants[1].ID}, participants[0].Allies)
	assert.Equal(t, []string{"k"}, participants[1].Allies)
}

func TestDataLoader(t *testing.T) {
	// Setup
	dir := t.TempDir()
	loader := NewDataLoader(dir)

	yamlRoster := `
- name: Katniss
  attributes: {strength: 6, intelligence: 8, alliance_tendency: 4}
  allies: [Rue]
- name: Rue
  inventory:
    - name: Sling
      type: weapon
      rarity: common
      effects: [{type: damage, value: 20}]
      uses: 3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roster.yaml"), []byte(yamlRoster), 0644))

	jsonRoster := `[{"name": "Thresh", "max_hp": 120}, {"name": "Cato", "mood": "Aggressive"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roster.json"), []byte(jsonRoster), 0644))

	catalog := `
- name: Spear
  type: weapon
  rarity: common
  effects: [{type: damage, value: 30}]
  uses: 8
- name: Snare
  type: trap
  rarity: uncommon
  effects: [{type: damage, value: 40}]
  uses: 1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.yml"), []byte(catalog), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("- name: \"\"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roster.txt"), []byte("Katniss"), 0644))

	// Test case 1: YAML roster
	roster, err := loader.LoadRoster("roster.yaml")
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "Katniss", roster[0].Name)
	assert.Equal(t, 8, roster[0].Attributes.Intelligence)
	assert.Equal(t, []string{roster[1].ID}, roster[0].Allies)
	require.Len(t, roster[1].Inventory, 1)
	assert.Equal(t, 3, *roster[1].Inventory[0].Uses)

	// Test case 2: JSON roster by absolute path
	roster, err = loader.LoadRoster(filepath.Join(dir, "roster.json"))
	require.NoError(t, err)
	assert.Equal(t, 120, roster[0].MaxHP)
	assert.Equal(t, types.MoodAggressive, roster[1].Mood)

	// Test case 3: Catalog
	c, err := loader.LoadCatalog("catalog.yml")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Len(t, c.ByType(types.ItemTrap), 1)

	// Test case 4: Failures
	_, err = loader.LoadRoster("bad.yaml")
	assert.Error(t, err)
	_, err = loader.LoadRoster("roster.txt")
	assert.ErrorContains(t, err, "unsupported file type")
	_, err = loader.LoadRoster("missing.yaml")
	assert.Error(t, err)
	_, err = loader.LoadCatalog("bad.yaml")
	assert.Error(t, err)
}

func TestBundledData(t *testing.T) {
	// Setup
	loader := NewDataLoader("../../assets/data")

	// Test case 1: The sample roster and catalog load
	roster, err := loader.LoadRoster("roster.yaml")
	require.NoError(t, err)
	assert.NotEmpty(t, roster)

	c, err := loader.LoadCatalog("catalog.yaml")
	require.NoError(t, err)
	assert.Greater(t, c.Len(), 0)
}
