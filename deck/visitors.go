package deck

// VisitorCard describes a visitor. Its effect lives with the game rules.
type VisitorCard struct {
	ID     string
	Season Season
}

var visitorTable = []VisitorCard{
	{"surveyor", Summer},
	{"broker", Summer},
	{"wineCritic", Summer},
	{"blacksmith", Summer},
	{"contractor", Summer},
	{"tourGuide", Summer},
	{"noviceGuide", Summer},
	{"uncertifiedBroker", Summer},
	{"planter", Summer},
	{"buyer", Summer},
	{"landscaper", Summer},
	{"architect", Summer},
	{"uncertifiedArchitect", Summer},
	{"patron", Summer},
	{"auctioneer", Summer},
	{"vendor", Summer},
	{"handyman", Summer},
	{"banker", Summer},
	{"swindler", Summer},
	{"weddingParty", Summer},

	{"merchant", Winter},
	{"crusher", Winter},
	{"judge", Winter},
	{"oenologist", Winter},
	{"marketer", Winter},
	{"crushExpert", Winter},
	{"uncertifiedTeacher", Winter},
	{"teacher", Winter},
	{"benefactor", Winter},
	{"assessor", Winter},
	{"queen", Winter},
	{"harvester", Winter},
	{"professor", Winter},
	{"masterVintner", Winter},
	{"uncertifiedOenologist", Winter},
	{"promoter", Winter},
	{"mentor", Winter},
	{"innkeeper", Winter},
	{"jackOfAllTrades", Winter},
	{"politician", Winter},
}

// Visitors lists every visitor in table order
func Visitors() []VisitorCard {
	return append([]VisitorCard{}, visitorTable...)
}

// LookupVisitor returns a visitor by id
func LookupVisitor(id string) (VisitorCard, error) {
	for _, v := range visitorTable {
		if v.ID == id {
			return v, nil
		}
	}
	ids := make([]string, 0, len(visitorTable))
	for _, v := range visitorTable {
		ids = append(ids, v.ID)
	}
	return VisitorCard{}, unknownCard("visitor", id, ids)
}
