package selection

import (
	"math"
	"sort"

	"github.com/jonathan/resume-packer/internal/types"
)

// Selector admits ranked records into a page budget.
// It holds no mutable state and is safe for concurrent use.
type Selector struct {
	cost CostModel
}

// New returns a Selector using the given cost model
func New(cost CostModel) (*Selector, error) {
	if err := cost.validate(); err != nil {
		return nil, err
	}
	return &Selector{cost: cost}, nil
}

// CostModel returns the cost model the selector prices records with
func (s *Selector) CostModel() CostModel {
	return s.cost
}

// Select ranks experience and project records together and admits them with the default cost model.
func Select(experience, projects []types.ContentRecord, budget float64) (*types.SelectionResult, error) {
	s := &Selector{cost: DefaultCostModel()}
	return s.Select(experience, projects, budget)
}

// Select merges both collections, orders them by keyword count then similarity (both
// descending, input order on full ties) and walks that order admitting records while
// the running cost stays within budget. The walk stops at the first record that does
// not fit; later records are never considered, so the output is always a prefix of the
// global order.
//
// A budget that is not a positive finite number yields an empty result. Any malformed
// record rejects the whole batch.
func (s *Selector) Select(experience, projects []types.ContentRecord, budget float64) (*types.SelectionResult, error) {
	ranked, err := merge(experience, projects)
	if err != nil {
		return nil, err
	}

	result := &types.SelectionResult{
		Experience: []types.ContentRecord{},
		Projects:   []types.ContentRecord{},
		Budget:     budget,
	}
	if math.IsNaN(budget) || math.IsInf(budget, 0) || budget <= 0 {
		return result, nil
	}

	Rank(ranked)

	included := make(map[string]bool)
	for _, rec := range ranked {
		cost := s.cost.Cost(included[rec.Title])
		if result.TotalCost+cost > budget {
			break
		}
		result.TotalCost += cost
		included[rec.Title] = true
		if rec.Kind == types.KindExperience {
			result.Experience = append(result.Experience, rec)
		} else {
			result.Projects = append(result.Projects, rec)
		}
	}

	return result, nil
}

// Rank sorts records in place into admission order: keyword count descending, then
// similarity descending, keeping input order on full ties.
func Rank(records []types.ContentRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return Less(records[i], records[j])
	})
}

// Less reports whether a is visited before b
func Less(a, b types.ContentRecord) bool {
	if a.KeywordCount != b.KeywordCount {
		return a.KeywordCount > b.KeywordCount
	}
	return a.Similarity > b.Similarity
}

// merge validates and tags both collections into one working slice.
// Records are copied; the callers' slices are left alone.
func merge(experience, projects []types.ContentRecord) ([]types.ContentRecord, error) {
	merged := make([]types.ContentRecord, 0, len(experience)+len(projects))
	for i, rec := range experience {
		if err := checkRecord(types.KindExperience, i, rec); err != nil {
			return nil, err
		}
		rec.Kind = types.KindExperience
		merged = append(merged, rec)
	}
	for i, rec := range projects {
		if err := checkRecord(types.KindProject, i, rec); err != nil {
			return nil, err
		}
		rec.Kind = types.KindProject
		merged = append(merged, rec)
	}
	return merged, nil
}

func checkRecord(kind types.Kind, index int, rec types.ContentRecord) error {
	switch {
	case rec.Title == "":
		return &MalformedRecordError{Kind: kind, Index: index, Field: "title", Reason: "must not be empty"}
	case rec.KeywordCount < 0:
		return &MalformedRecordError{Kind: kind, Index: index, Field: "keyword_count", Reason: "must be non-negative"}
	case math.IsNaN(rec.Similarity) || math.IsInf(rec.Similarity, 0):
		return &MalformedRecordError{Kind: kind, Index: index, Field: "similarity", Reason: "must be a finite number"}
	case rec.Kind != "" && rec.Kind != kind:
		return &MalformedRecordError{Kind: kind, Index: index, Field: "kind", Reason: "conflicts with the collection it was supplied in"}
	}
	return nil
}
