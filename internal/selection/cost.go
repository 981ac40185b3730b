package selection

import (
	"math"
)

const (
	// DefaultBaseCost is the layout cost of one entry on the page
	DefaultBaseCost = 1.5
	// DefaultNewTitlePenalty is the extra cost of the header block printed the first time a title appears
	DefaultNewTitlePenalty = 2.0
	// DefaultBudget is the capacity of one page in cost units
	DefaultBudget = 30.0
)

// CostModel prices a record by whether its title is already on the page
type CostModel struct {
	BaseCost        float64 `json:"base_cost"`
	NewTitlePenalty float64 `json:"new_title_penalty"`
}

// DefaultCostModel returns the tuned page costs
func DefaultCostModel() CostModel {
	return CostModel{
		BaseCost:        DefaultBaseCost,
		NewTitlePenalty: DefaultNewTitlePenalty,
	}
}

// Cost returns the incremental cost of placing a record
func (m CostModel) Cost(titleSeen bool) float64 {
	if titleSeen {
		return m.BaseCost
	}
	return m.BaseCost + m.NewTitlePenalty
}

func (m CostModel) validate() error {
	if math.IsNaN(m.BaseCost) || math.IsInf(m.BaseCost, 0) || m.BaseCost <= 0 {
		return &CostModelError{Message: "base cost must be a positive finite number"}
	}
	if math.IsNaN(m.NewTitlePenalty) || math.IsInf(m.NewTitlePenalty, 0) || m.NewTitlePenalty < 0 {
		return &CostModelError{Message: "new title penalty must be a non-negative finite number"}
	}
	return nil
}
