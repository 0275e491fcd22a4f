package ids

// LocationID identifies an item location inside a dungeon.
type LocationID uint16

const (
	EPCannonballChest LocationID = iota
	EPMapChest
	EPCompassChest
	EPBigChest
	EPBigKeyChest
	EPBoss
	EPDarkSquarePot
	EPDarkEyegoreDrop

	DPMapChest
	DPTorch
	DPCompassChest
	DPBigKeyChest
	DPBigChest
	DPBoss
	DPDesertTilesOnePot
	DPBeamosHallPot
	DPDesertTilesTwoPot

	ToHBasementCage
	ToHMapChest
	ToHBigKeyChest
	ToHCompassChest
	ToHBigChest
	ToHBoss

	ATRoomOne
	ATDarkMaze
	ATDarkArcherDrop
	ATCircleOfPotsDrop

	PoDShooterRoom
	PoDBigKeyChest
	PoDStalfosBasement
	PoDArenaBridge
	PoDArenaLedge
	PoDMapChest
	PoDCompassChest
	PoDHarmlessHellway
	PoDDarkBasementLeft
	PoDDarkBasementRight
	PoDDarkMazeTop
	PoDDarkMazeBottom
	PoDBigChest
	PoDBoss

	locationCount
)

// LocationCount is the size of the location identity space.
const LocationCount = int(locationCount)

type locationInfo struct {
	name    string
	dungeon DungeonID
	keyDrop bool
}

var locations = [...]locationInfo{
	EPCannonballChest: {"EPCannonballChest", EasternPalace, false},
	EPMapChest:        {"EPMapChest", EasternPalace, false},
	EPCompassChest:    {"EPCompassChest", EasternPalace, false},
	EPBigChest:        {"EPBigChest", EasternPalace, false},
	EPBigKeyChest:     {"EPBigKeyChest", EasternPalace, false},
	EPBoss:            {"EPBoss", EasternPalace, false},
	EPDarkSquarePot:   {"EPDarkSquarePot", EasternPalace, true},
	EPDarkEyegoreDrop: {"EPDarkEyegoreDrop", EasternPalace, true},

	DPMapChest:          {"DPMapChest", DesertPalace, false},
	DPTorch:             {"DPTorch", DesertPalace, false},
	DPCompassChest:      {"DPCompassChest", DesertPalace, false},
	DPBigKeyChest:       {"DPBigKeyChest", DesertPalace, false},
	DPBigChest:          {"DPBigChest", DesertPalace, false},
	DPBoss:              {"DPBoss", DesertPalace, false},
	DPDesertTilesOnePot: {"DPDesertTilesOnePot", DesertPalace, true},
	DPBeamosHallPot:     {"DPBeamosHallPot", DesertPalace, true},
	DPDesertTilesTwoPot: {"DPDesertTilesTwoPot", DesertPalace, true},

	ToHBasementCage: {"ToHBasementCage", TowerOfHera, false},
	ToHMapChest:     {"ToHMapChest", TowerOfHera, false},
	ToHBigKeyChest:  {"ToHBigKeyChest", TowerOfHera, false},
	ToHCompassChest: {"ToHCompassChest", TowerOfHera, false},
	ToHBigChest:     {"ToHBigChest", TowerOfHera, false},
	ToHBoss:         {"ToHBoss", TowerOfHera, false},

	ATRoomOne:          {"ATRoomOne", AgahnimsTower, false},
	ATDarkMaze:         {"ATDarkMaze", AgahnimsTower, false},
	ATDarkArcherDrop:   {"ATDarkArcherDrop", AgahnimsTower, true},
	ATCircleOfPotsDrop: {"ATCircleOfPotsDrop", AgahnimsTower, true},

	PoDShooterRoom:       {"PoDShooterRoom", PalaceOfDarkness, false},
	PoDBigKeyChest:       {"PoDBigKeyChest", PalaceOfDarkness, false},
	PoDStalfosBasement:   {"PoDStalfosBasement", PalaceOfDarkness, false},
	PoDArenaBridge:       {"PoDArenaBridge", PalaceOfDarkness, false},
	PoDArenaLedge:        {"PoDArenaLedge", PalaceOfDarkness, false},
	PoDMapChest:          {"PoDMapChest", PalaceOfDarkness, false},
	PoDCompassChest:      {"PoDCompassChest", PalaceOfDarkness, false},
	PoDHarmlessHellway:   {"PoDHarmlessHellway", PalaceOfDarkness, false},
	PoDDarkBasementLeft:  {"PoDDarkBasementLeft", PalaceOfDarkness, false},
	PoDDarkBasementRight: {"PoDDarkBasementRight", PalaceOfDarkness, false},
	PoDDarkMazeTop:       {"PoDDarkMazeTop", PalaceOfDarkness, false},
	PoDDarkMazeBottom:    {"PoDDarkMazeBottom", PalaceOfDarkness, false},
	PoDBigChest:          {"PoDBigChest", PalaceOfDarkness, false},
	PoDBoss:              {"PoDBoss", PalaceOfDarkness, false},
}

var locationNames = func() *enumTable[LocationID] {
	names := make([]string, len(locations))
	for i, l := range locations {
		names[i] = l.name
	}
	return newEnumTable[LocationID]("location", names)
}()

func init() {
	if len(locations) != LocationCount {
		panic("ids: location table out of sync")
	}
}

func (l LocationID) String() string { return locationNames.name(l) }

func (l LocationID) Valid() bool { return locationNames.valid(l) }

// Dungeon returns the dungeon that contains l.
func (l LocationID) Dungeon() DungeonID {
	if !l.Valid() {
		return dungeonCount
	}
	return locations[l].dungeon
}

// KeyDrop reports whether l is an enemy or pot drop that only holds an item
// when key drops are shuffled.
func (l LocationID) KeyDrop() bool {
	return l.Valid() && locations[l].keyDrop
}

// ParseLocation resolves a location name.
func ParseLocation(s string) (LocationID, error) { return locationNames.parse(s) }

// LocationsIn lists the locations of dungeon d in enumeration order.
func LocationsIn(d DungeonID) []LocationID {
	var out []LocationID
	for i, l := range locations {
		if l.dungeon == d {
			out = append(out, LocationID(i))
		}
	}
	return out
}

func (l LocationID) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *LocationID) UnmarshalText(text []byte) error {
	v, err := ParseLocation(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
