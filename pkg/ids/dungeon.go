package ids

// DungeonID identifies a dungeon.
type DungeonID uint16

const (
	HyruleCastle DungeonID = iota
	EasternPalace
	DesertPalace
	TowerOfHera
	AgahnimsTower
	PalaceOfDarkness
	SwampPalace
	SkullWoods
	ThievesTown
	IcePalace
	MiseryMire
	TurtleRock
	GanonsTower

	dungeonCount
)

// DungeonCount is the size of the dungeon identity space.
const DungeonCount = int(dungeonCount)

var dungeonNames = newEnumTable[DungeonID]("dungeon", []string{
	"HyruleCastle",
	"EasternPalace",
	"DesertPalace",
	"TowerOfHera",
	"AgahnimsTower",
	"PalaceOfDarkness",
	"SwampPalace",
	"SkullWoods",
	"ThievesTown",
	"IcePalace",
	"MiseryMire",
	"TurtleRock",
	"GanonsTower",
})

func init() {
	if len(dungeonNames.names) != DungeonCount {
		panic("ids: dungeon name table out of sync")
	}
}

// Dungeons lists every dungeon in enumeration order.
func Dungeons() []DungeonID {
	out := make([]DungeonID, DungeonCount)
	for i := range out {
		out[i] = DungeonID(i)
	}
	return out
}

func (d DungeonID) String() string { return dungeonNames.name(d) }

func (d DungeonID) Valid() bool { return dungeonNames.valid(d) }

// ParseDungeon resolves a dungeon name.
func ParseDungeon(s string) (DungeonID, error) { return dungeonNames.parse(s) }

func (d DungeonID) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DungeonID) UnmarshalText(text []byte) error {
	v, err := ParseDungeon(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
