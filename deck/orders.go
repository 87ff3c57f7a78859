package deck

import (
	"github.com/vsiao/oenology-sub000/tokens"
)

// MaxResidual caps a player's residual income
const MaxResidual = 5

// OrderCard describes a wine order
type OrderCard struct {
	ID             string
	Wines          []tokens.Requirement
	VictoryPoints  int
	ResidualIncome int
}

func req(color tokens.Color, value int) tokens.Requirement {
	return tokens.Requirement{Color: color, Value: value}
}

var orderTable = []OrderCard{
	{ID: "order-01", Wines: []tokens.Requirement{req(tokens.Red, 3)}, VictoryPoints: 2, ResidualIncome: 1},
	{ID: "order-02", Wines: []tokens.Requirement{req(tokens.White, 3)}, VictoryPoints: 2, ResidualIncome: 1},
	{ID: "order-03", Wines: []tokens.Requirement{req(tokens.Red, 2), req(tokens.White, 2)}, VictoryPoints: 3, ResidualIncome: 1},
	{ID: "order-04", Wines: []tokens.Requirement{req(tokens.Blush, 4)}, VictoryPoints: 3, ResidualIncome: 1},
	{ID: "order-05", Wines: []tokens.Requirement{req(tokens.Red, 5)}, VictoryPoints: 3, ResidualIncome: 2},
	{ID: "order-06", Wines: []tokens.Requirement{req(tokens.White, 5)}, VictoryPoints: 3, ResidualIncome: 2},
	{ID: "order-07", Wines: []tokens.Requirement{req(tokens.Blush, 5), req(tokens.Red, 2)}, VictoryPoints: 4, ResidualIncome: 1},
	{ID: "order-08", Wines: []tokens.Requirement{req(tokens.Sparkling, 7)}, VictoryPoints: 5, ResidualIncome: 2},
	{ID: "order-09", Wines: []tokens.Requirement{req(tokens.Red, 4), req(tokens.White, 4)}, VictoryPoints: 4, ResidualIncome: 2},
	{ID: "order-10", Wines: []tokens.Requirement{req(tokens.Red, 6), req(tokens.White, 3)}, VictoryPoints: 5, ResidualIncome: 1},
	{ID: "order-11", Wines: []tokens.Requirement{req(tokens.Blush, 6)}, VictoryPoints: 4, ResidualIncome: 2},
	{ID: "order-12", Wines: []tokens.Requirement{req(tokens.Red, 7)}, VictoryPoints: 4, ResidualIncome: 2},
	{ID: "order-13", Wines: []tokens.Requirement{req(tokens.White, 7)}, VictoryPoints: 4, ResidualIncome: 2},
	{ID: "order-14", Wines: []tokens.Requirement{req(tokens.Sparkling, 8)}, VictoryPoints: 6, ResidualIncome: 1},
	{ID: "order-15", Wines: []tokens.Requirement{req(tokens.Red, 3), req(tokens.Red, 3)}, VictoryPoints: 3, ResidualIncome: 1},
	{ID: "order-16", Wines: []tokens.Requirement{req(tokens.White, 2), req(tokens.White, 2), req(tokens.White, 2)}, VictoryPoints: 4, ResidualIncome: 1},
	{ID: "order-17", Wines: []tokens.Requirement{req(tokens.Blush, 7), req(tokens.Sparkling, 7)}, VictoryPoints: 7, ResidualIncome: 2},
	{ID: "order-18", Wines: []tokens.Requirement{req(tokens.Red, 5), req(tokens.White, 5), req(tokens.Blush, 5)}, VictoryPoints: 6, ResidualIncome: 3},
}

var ordersByID = func() map[string]OrderCard {
	m := make(map[string]OrderCard, len(orderTable))
	for _, o := range orderTable {
		m[o.ID] = o
	}
	return m
}()

// LookupOrder returns an order card by id
func LookupOrder(id string) (OrderCard, error) {
	if o, ok := ordersByID[id]; ok {
		return o, nil
	}
	ids := make([]string, 0, len(orderTable))
	for _, o := range orderTable {
		ids = append(ids, o.ID)
	}
	return OrderCard{}, unknownCard("order", id, ids)
}
