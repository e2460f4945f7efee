// Package agreement computes pairwise inter-annotator agreement scores
// (percentage agreement, Cohen's kappa, micro-F1) over item tuples.
package agreement

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Item is one (coder, item, label) observation. Label may be empty when
// the coder saw the item but assigned nothing (an outside token).
type Item struct {
	Coder string `json:"coder"`
	Item  string `json:"item"`
	Label string `json:"label"`
}

// Metric selects the pairwise scoring function.
type Metric string

const (
	MetricPercentage Metric = "percentage"
	MetricKappa      Metric = "kappa"
	MetricF1         Metric = "f1"
)

// goldCoder is the dataset builder's majority pseudo-coder; scoring it
// against real coders would inflate pair counts, so it is excluded unless
// explicitly whitelisted.
const goldCoder = "MAJORITY"

// Scorer computes agreement over a fixed set of item tuples.
type Scorer struct {
	items           []Item
	blacklist       map[string]bool
	dropUnannotated bool
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithBlacklist excludes the named coders from scoring.
func WithBlacklist(coders ...string) Option {
	return func(s *Scorer) {
		for _, c := range coders {
			s.blacklist[c] = true
		}
	}
}

// WithGoldCoder includes the MAJORITY pseudo-coder in scoring.
func WithGoldCoder() Option {
	return func(s *Scorer) {
		delete(s.blacklist, goldCoder)
	}
}

// KeepUnannotated keeps item rows where neither coder of a pair assigned a
// real label; by default such rows are dropped before scoring.
func KeepUnannotated() Option {
	return func(s *Scorer) {
		s.dropUnannotated = false
	}
}

// NewScorer creates a scorer over the given item tuples.
func NewScorer(items []Item, opts ...Option) *Scorer {
	s := &Scorer{
		items:           items,
		blacklist:       map[string]bool{goldCoder: true},
		dropUnannotated: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the selected metric for every coder pair and returns the
// score table: one row per pair plus Average and Average (weighted) rows.
// Fewer than two coders, or no pair with overlapping items, yields an
// empty table.
func (s *Scorer) Score(metric Metric) (*ScoreTable, error) {
	var fn metricFunc
	switch metric {
	case MetricPercentage:
		fn = percentage
	case MetricKappa:
		fn = kappa
	case MetricF1:
		fn = microF1
	default:
		return nil, fmt.Errorf("unknown agreement metric %q", metric)
	}

	table := &ScoreTable{Rows: []ScoreRow{}}
	var scores, weights []float64
	for _, pair := range s.pairs() {
		score, support, ok := s.scorePair(pair[0], pair[1], fn)
		if !ok {
			continue
		}
		table.Rows = append(table.Rows, ScoreRow{
			Annotators: pair[0] + " & " + pair[1],
			Agreement:  score,
			Support:    support,
		})
		scores = append(scores, score)
		weights = append(weights, support)
	}
	if len(scores) == 0 {
		return table, nil
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	table.Rows = append(table.Rows,
		ScoreRow{Annotators: "Average", Agreement: stat.Mean(scores, nil), Support: total},
		ScoreRow{Annotators: "Average (weighted)", Agreement: stat.Mean(scores, weights), Support: total},
	)
	return table, nil
}

// coders returns the sorted distinct non-blacklisted coder names.
func (s *Scorer) coders() []string {
	seen := make(map[string]bool)
	for _, it := range s.items {
		if !s.blacklist[it.Coder] {
			seen[it.Coder] = true
		}
	}
	names := make([]string, 0, len(seen))
	for c := range seen {
		names = append(names, c)
	}
	sort.Strings(names)
	return names
}

// pairs enumerates all unordered coder pairs in lexical order.
func (s *Scorer) pairs() [][2]string {
	coders := s.coders()
	var pairs [][2]string
	for i := 0; i < len(coders); i++ {
		for j := i + 1; j < len(coders); j++ {
			pairs = append(pairs, [2]string{coders[i], coders[j]})
		}
	}
	return pairs
}
