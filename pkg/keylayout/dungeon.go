package keylayout

import "github.com/trackerlab/keylogic/pkg/ids"

// Dungeon carries the key pool of one dungeon.
type Dungeon struct {
	ID ids.DungeonID
	// SmallKeys is the number of small keys placed in chests.
	SmallKeys int
	// KeyDrops is the number of extra keys held by enemy and pot drops,
	// which join the pool when key drops are shuffled.
	KeyDrops int
}

// TotalKeys returns the small key pool for the given key drop mode.
func (d Dungeon) TotalKeys(keyDropShuffle bool) int {
	if keyDropShuffle {
		return d.SmallKeys + d.KeyDrops
	}
	return d.SmallKeys
}

var defaultDungeons = [ids.DungeonCount]Dungeon{
	ids.HyruleCastle:     {ID: ids.HyruleCastle, SmallKeys: 1, KeyDrops: 3},
	ids.EasternPalace:    {ID: ids.EasternPalace, SmallKeys: 0, KeyDrops: 2},
	ids.DesertPalace:     {ID: ids.DesertPalace, SmallKeys: 1, KeyDrops: 3},
	ids.TowerOfHera:      {ID: ids.TowerOfHera, SmallKeys: 1, KeyDrops: 0},
	ids.AgahnimsTower:    {ID: ids.AgahnimsTower, SmallKeys: 2, KeyDrops: 2},
	ids.PalaceOfDarkness: {ID: ids.PalaceOfDarkness, SmallKeys: 6, KeyDrops: 0},
	ids.SwampPalace:      {ID: ids.SwampPalace, SmallKeys: 1, KeyDrops: 5},
	ids.SkullWoods:       {ID: ids.SkullWoods, SmallKeys: 3, KeyDrops: 2},
	ids.ThievesTown:      {ID: ids.ThievesTown, SmallKeys: 1, KeyDrops: 2},
	ids.IcePalace:        {ID: ids.IcePalace, SmallKeys: 2, KeyDrops: 4},
	ids.MiseryMire:       {ID: ids.MiseryMire, SmallKeys: 3, KeyDrops: 3},
	ids.TurtleRock:       {ID: ids.TurtleRock, SmallKeys: 4, KeyDrops: 2},
	ids.GanonsTower:      {ID: ids.GanonsTower, SmallKeys: 4, KeyDrops: 4},
}

// DefaultDungeon returns the stock key pool for id.
func DefaultDungeon(id ids.DungeonID) (Dungeon, bool) {
	if !id.Valid() {
		return Dungeon{}, false
	}
	return defaultDungeons[id], true
}
