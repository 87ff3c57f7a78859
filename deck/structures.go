package deck

const (
	Trellis      = "trellis"
	Irrigation   = "irrigation"
	Yoke         = "yoke"
	Windmill     = "windmill"
	Cottage      = "cottage"
	TastingRoom  = "tastingRoom"
	MediumCellar = "mediumCellar"
	LargeCellar  = "largeCellar"
)

// Structure describes a buildable structure
type Structure struct {
	ID       string
	Cost     int
	Requires string
}

var structureTable = []Structure{
	{ID: Trellis, Cost: 2},
	{ID: Irrigation, Cost: 3},
	{ID: Yoke, Cost: 2},
	{ID: Windmill, Cost: 5},
	{ID: Cottage, Cost: 4},
	{ID: TastingRoom, Cost: 6},
	{ID: MediumCellar, Cost: 4},
	{ID: LargeCellar, Cost: 6, Requires: MediumCellar},
}

// StructureIDs lists every structure in table order
func StructureIDs() []string {
	ids := make([]string, 0, len(structureTable))
	for _, s := range structureTable {
		ids = append(ids, s.ID)
	}
	return ids
}

// LookupStructure returns a structure by id
func LookupStructure(id string) (Structure, error) {
	for _, s := range structureTable {
		if s.ID == id {
			return s, nil
		}
	}
	return Structure{}, unknownCard("structure", id, StructureIDs())
}
