package game

import (
	"github.com/google/uuid"
	"github.com/user/arena-games/internal/types"
)

// Catalog is the read-only table of items that can turn up in the arena
type Catalog struct {
	items []types.Item
}

// NewCatalog builds a catalog from the given items. Items without an id get one.
func NewCatalog(items []types.Item) *Catalog {
	c := &Catalog{items: make([]types.Item, len(items))}
	for i, item := range items {
		c.items[i] = item.Clone()
		if c.items[i].ID == "" {
			c.items[i].ID = uuid.New().String()
		}
	}
	return c
}

// Len returns the number of catalog entries
func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns a copy of every catalog entry
func (c *Catalog) Items() []types.Item {
	return c.filter(func(types.Item) bool { return true })
}

// ByRarity returns the entries of the given rarity
func (c *Catalog) ByRarity(r types.Rarity) []types.Item {
	return c.filter(func(it types.Item) bool { return it.Rarity == r })
}

// ByType returns the entries of the given type
func (c *Catalog) ByType(t types.ItemType) []types.Item {
	return c.filter(func(it types.Item) bool { return it.Type == t })
}

// Random draws a uniformly random entry
func (c *Catalog) Random(rng Randomizer) (types.Item, bool) {
	return pickItem(rng, c.items)
}

func (c *Catalog) filter(keep func(types.Item) bool) []types.Item {
	out := make([]types.Item, 0, len(c.items))
	for _, it := range c.items {
		if keep(it) {
			out = append(out, it.Clone())
		}
	}
	return out
}

func pickItem(rng Randomizer, items []types.Item) (types.Item, bool) {
	if len(items) == 0 {
		return types.Item{}, false
	}
	return items[rng.Intn(len(items))].Clone(), true
}

// DefaultCatalog returns the standard arena items
func DefaultCatalog() *Catalog {
	return NewCatalog([]types.Item{
		{
			Name:        "Bow and Arrows",
			Description: "A reliable ranged weapon for hunting and combat",
			Type:        types.ItemWeapon,
			Rarity:      types.RarityUncommon,
			Effects:     []types.ItemEffect{{Type: types.EffectDamage, Value: 35}},
			Uses:        types.Uses(2),
		},
		{
			Name:        "Crossbow",
			Description: "A powerful ranged weapon for silent takedowns.",
			Type:        types.ItemWeapon,
			Rarity:      types.RarityRare,
			Effects:     []types.ItemEffect{{Type: types.EffectDamage, Value: 45}},
			Uses:        types.Uses(1),
		},
		{
			Name:        "Sword",
			Description: "A sharp blade for close combat",
			Type:        types.ItemWeapon,
			Rarity:      types.RarityCommon,
			Effects:     []types.ItemEffect{{Type: types.EffectDamage, Value: 35}},
			Uses:        types.Uses(2),
		},
		{
			Name:        "Dagger",
			Description: "A small, easily concealed blade for quick strikes.",
			Type:        types.ItemWeapon,
			Rarity:      types.RarityCommon,
			Effects:     []types.ItemEffect{{Type: types.EffectDamage, Value: 15}},
			Uses:        types.Uses(1),
		},
		{
			Name:        "Medical Kit",
			Description: "Essential supplies for treating wounds",
			Type:        types.ItemMedicine,
			Rarity:      types.RarityRare,
			Effects:     []types.ItemEffect{{Type: types.EffectHealing, Value: 60}},
			Uses:        types.Uses(1),
		},
		{
			Name:        "Herbal Poultice",
			Description: "A collection of healing herbs.",
			Type:        types.ItemMedicine,
			Rarity:      types.RarityCommon,
			Effects:     []types.ItemEffect{{Type: types.EffectHealing, Value: 25}},
			Uses:        types.Uses(2),
		},
		{
			Name:        "Antidote",
			Description: "A potent remedy for poisons and toxins.",
			Type:        types.ItemMedicine,
			Rarity:      types.RarityRare,
			Effects:     []types.ItemEffect{{Type: types.EffectHealing, Value: 40}},
			Uses:        types.Uses(1),
		},
		{
			Name:        "Bread",
			Description: "Nutritious food to maintain strength",
			Type:        types.ItemFood,
			Rarity:      types.RarityCommon,
			Effects:     []types.ItemEffect{{Type: types.EffectStrength, Value: 4, Duration: types.Uses(3)}},
			Uses:        types.Uses(1),
		},
		{
			Name:        "Water Bottle",
			Description: "Clean water for hydration",
			Type:        types.ItemWater,
			Rarity:      types.RarityCommon,
			Effects:     []types.ItemEffect{{Type: types.EffectHealing, Value: 20}},
			Uses:        types.Uses(2),
		},
		{
			Name:        "Body Armor",
			Description: "Protective gear that offers a 20% chance to block an attack.",
			Type:        types.ItemArmor,
			Rarity:      types.RarityRare,
			Effects:     []types.ItemEffect{{Type: types.EffectBlockChance, Value: 20}},
			Uses:        types.Uses(5),
		},
		{
			Name:        "Riot Shield",
			Description: "A heavy shield that provides a 50% chance to block an attack.",
			Type:        types.ItemArmor,
			Rarity:      types.RarityLegendary,
			Effects:     []types.ItemEffect{{Type: types.EffectBlockChance, Value: 50}},
			Uses:        types.Uses(3),
		},
		{
			Name:        "Explosive Trap",
			Description: "A deadly trap for unsuspecting enemies",
			Type:        types.ItemTrap,
			Rarity:      types.RarityLegendary,
			Effects:     []types.ItemEffect{{Type: types.EffectDamage, Value: 75}},
			Uses:        types.Uses(1),
		},
		{
			Name:        "Bear Trap",
			Description: "A heavy-duty trap designed to incapacitate.",
			Type:        types.ItemTrap,
			Rarity:      types.RarityRare,
			Effects:     []types.ItemEffect{{Type: types.EffectDamage, Value: 50}},
			Uses:        types.Uses(1),
		},
		{
			Name:        "Spike Pit",
			Description: "A concealed pit with sharpened spikes.",
			Type:        types.ItemTrap,
			Rarity:      types.RarityUncommon,
			Effects:     []types.ItemEffect{{Type: types.EffectDamage, Value: 30}},
			Uses:        types.Uses(3),
		},
	})
}
