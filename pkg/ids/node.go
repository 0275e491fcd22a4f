package ids

// NodeID identifies a vertex of the world graph.
type NodeID uint16

const (
	Start NodeID = iota
	LinksHouse
	LightWorld
	LightWorldNotBunny
	LightWorldDashable
	LightWorldHammerable
	LightWorldFlute
	HyruleCastleCourtyard
	HyruleCastleTop
	Sanctuary
	LostWoods
	KakarikoVillage
	DesertLedge
	DesertBack
	LakeHylia
	LakeHyliaIsland
	WaterfallFairy
	ZorasArea
	DeathMountainEntry
	DeathMountainWestBottom
	DeathMountainWestTop
	DeathMountainEastBottom
	DeathMountainEastTop
	SpectacleRockTop
	AgahnimTower
	Agahnim
	DarkWorldSouth
	DarkWorldSouthEast
	DarkWorldNorthEast
	DarkWorldNorthWest
	DarkWorldWitch
	DarkWorldSouthWest
	DarkWorldMire
	PyramidLedge
	DarkDeathMountainWestBottom
	DarkDeathMountainEastBottom
	DarkDeathMountainEastTop
	TurtleRockLedge
	HCSanctuaryEntrance
	HCFrontEntrance
	HCBackEntrance
	EPEntrance
	DPFrontEntrance
	DPBackEntrance
	DPLeftEntrance
	DPRightEntrance
	ToHEntrance
	ATEntrance
	PoDEntrance
	SPEntrance
	SWFrontEntrance
	SWBackEntrance
	TTEntrance
	IPEntrance
	MMEntrance
	TRFrontEntrance
	TRMiddleEntrance
	TRBackEntrance
	GTEntrance

	nodeCount
)

// NodeCount is the size of the node identity space.
const NodeCount = int(nodeCount)

var nodeNames = newEnumTable[NodeID]("node", []string{
	"Start",
	"LinksHouse",
	"LightWorld",
	"LightWorldNotBunny",
	"LightWorldDashable",
	"LightWorldHammerable",
	"LightWorldFlute",
	"HyruleCastleCourtyard",
	"HyruleCastleTop",
	"Sanctuary",
	"LostWoods",
	"KakarikoVillage",
	"DesertLedge",
	"DesertBack",
	"LakeHylia",
	"LakeHyliaIsland",
	"WaterfallFairy",
	"ZorasArea",
	"DeathMountainEntry",
	"DeathMountainWestBottom",
	"DeathMountainWestTop",
	"DeathMountainEastBottom",
	"DeathMountainEastTop",
	"SpectacleRockTop",
	"AgahnimTower",
	"Agahnim",
	"DarkWorldSouth",
	"DarkWorldSouthEast",
	"DarkWorldNorthEast",
	"DarkWorldNorthWest",
	"DarkWorldWitch",
	"DarkWorldSouthWest",
	"DarkWorldMire",
	"PyramidLedge",
	"DarkDeathMountainWestBottom",
	"DarkDeathMountainEastBottom",
	"DarkDeathMountainEastTop",
	"TurtleRockLedge",
	"HCSanctuaryEntrance",
	"HCFrontEntrance",
	"HCBackEntrance",
	"EPEntrance",
	"DPFrontEntrance",
	"DPBackEntrance",
	"DPLeftEntrance",
	"DPRightEntrance",
	"ToHEntrance",
	"ATEntrance",
	"PoDEntrance",
	"SPEntrance",
	"SWFrontEntrance",
	"SWBackEntrance",
	"TTEntrance",
	"IPEntrance",
	"MMEntrance",
	"TRFrontEntrance",
	"TRMiddleEntrance",
	"TRBackEntrance",
	"GTEntrance",
})

func init() {
	if len(nodeNames.names) != NodeCount {
		panic("ids: node name table out of sync")
	}
}

func (n NodeID) String() string { return nodeNames.name(n) }

// Valid reports whether n belongs to the enumeration.
func (n NodeID) Valid() bool { return nodeNames.valid(n) }

// ParseNode resolves a node name.
func ParseNode(s string) (NodeID, error) { return nodeNames.parse(s) }

func (n NodeID) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

func (n *NodeID) UnmarshalText(text []byte) error {
	v, err := ParseNode(string(text))
	if err != nil {
		return err
	}
	*n = v
	return nil
}
