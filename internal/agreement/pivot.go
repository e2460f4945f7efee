package agreement

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// otherLabel fills pivot cells the coder never labeled; it lets the
// metrics treat "no label" as its own class instead of dropping data.
const otherLabel = "OTHER"

// scorePair computes one pair's score and support. Pairs with no common
// items, or none left after dropping unannotated rows, contribute nothing
// (ok=false) and are excluded from the averages.
func (s *Scorer) scorePair(a, b string, fn metricFunc) (score, support float64, ok bool) {
	// cells[item][coder] collects every label the coder gave the item;
	// more than one label per cell switches the pair to multi-label
	// scoring.
	cells := make(map[string]map[string][]string)
	supportA := make(map[string]bool)
	supportB := make(map[string]bool)
	for _, it := range s.items {
		if it.Coder != a && it.Coder != b {
			continue
		}
		if it.Coder == a {
			supportA[it.Item] = true
		} else {
			supportB[it.Item] = true
		}
		byCoder, found := cells[it.Item]
		if !found {
			byCoder = make(map[string][]string, 2)
			cells[it.Item] = byCoder
		}
		byCoder[it.Coder] = append(byCoder[it.Coder], it.Label)
	}

	var common []string
	for item := range supportA {
		if supportB[item] {
			common = append(common, item)
		}
	}
	if len(common) == 0 {
		return 0, 0, false
	}
	sort.Strings(common)

	if isMultiLabel(cells, common) {
		return s.scoreMultiLabel(a, b, cells, common, fn)
	}
	return s.scoreSingleLabel(a, b, cells, common, fn)
}

func isMultiLabel(cells map[string]map[string][]string, common []string) bool {
	for _, item := range common {
		for _, labels := range cells[item] {
			if len(distinct(labels)) > 1 {
				return true
			}
		}
	}
	return false
}

// scoreSingleLabel builds a single item-by-coder pivot table (first
// aggregation) and applies the metric to the two columns.
func (s *Scorer) scoreSingleLabel(a, b string, cells map[string]map[string][]string, common []string, fn metricFunc) (float64, float64, bool) {
	var colA, colB []string
	for _, item := range common {
		va := firstLabel(cells[item][a])
		vb := firstLabel(cells[item][b])
		if s.dropUnannotated && va == otherLabel && vb == otherLabel {
			continue
		}
		colA = append(colA, va)
		colB = append(colB, vb)
	}
	if len(colA) == 0 {
		return 0, 0, false
	}
	return fn(colA, colB), float64(len(colA)), true
}

// scoreMultiLabel builds one boolean present/absent table per distinct
// label value and averages the metric across labels, weighting by table
// row count.
func (s *Scorer) scoreMultiLabel(a, b string, cells map[string]map[string][]string, common []string, fn metricFunc) (float64, float64, bool) {
	values := make(map[string]bool)
	for _, item := range common {
		for _, labels := range cells[item] {
			for _, l := range labels {
				if l != "" {
					values[l] = true
				}
			}
		}
	}
	ordered := make([]string, 0, len(values))
	for v := range values {
		ordered = append(ordered, v)
	}
	sort.Strings(ordered)
	if len(ordered) == 0 {
		return 0, 0, false
	}

	var scores, weights []float64
	for _, value := range ordered {
		var colA, colB []string
		for _, item := range common {
			va := boolLabel(contains(cells[item][a], value))
			vb := boolLabel(contains(cells[item][b], value))
			colA = append(colA, va)
			colB = append(colB, vb)
		}
		scores = append(scores, fn(colA, colB))
		weights = append(weights, float64(len(colA)))
	}
	support := stat.Mean(weights, nil)
	return stat.Mean(scores, weights), support, true
}

func firstLabel(labels []string) string {
	for _, l := range labels {
		if l != "" {
			return l
		}
	}
	return otherLabel
}

func distinct(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	var out []string
	for _, l := range labels {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

func contains(labels []string, value string) bool {
	for _, l := range labels {
		if l == value {
			return true
		}
	}
	return false
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
