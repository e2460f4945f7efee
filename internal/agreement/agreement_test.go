package agreement

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// twoCoderItems builds the 10-item high/low fixture with a known 0.7
// observed agreement between r1 and r2.
func twoCoderItems() []Item {
	labels := [][2]string{
		{"high", "high"},
		{"high", "high"},
		{"high", "low"},
		{"low", "high"},
		{"low", "low"},
		{"low", "low"},
		{"low", "low"},
		{"low", "high"},
		{"low", "low"},
		{"low", "low"},
	}
	var items []Item
	for i, pair := range labels {
		item := string(rune('A' + i))
		items = append(items, Item{Coder: "r1", Item: item, Label: pair[0]})
		items = append(items, Item{Coder: "r2", Item: item, Label: pair[1]})
	}
	return items
}

func TestScorePercentage(t *testing.T) {
	scorer := NewScorer(twoCoderItems())

	table, err := scorer.Score(MetricPercentage)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	pair := table.Rows[0]
	require.Equal(t, "r1 & r2", pair.Annotators)
	require.InDelta(t, 0.7, pair.Agreement, 1e-9)
	require.Equal(t, 10.0, pair.Support)

	// With a single pair both averages equal the pair score.
	require.Equal(t, "Average", table.Rows[1].Annotators)
	require.InDelta(t, 0.7, table.Rows[1].Agreement, 1e-9)
	require.Equal(t, "Average (weighted)", table.Rows[2].Annotators)
	require.InDelta(t, 0.7, table.Rows[2].Agreement, 1e-9)
}

func TestScoreKappa(t *testing.T) {
	scorer := NewScorer(twoCoderItems())

	table, err := scorer.Score(MetricKappa)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)
	require.InDelta(t, 0.348, table.Rows[0].Agreement, 0.0005)
}

func TestScoreF1(t *testing.T) {
	scorer := NewScorer(twoCoderItems())

	table, err := scorer.Score(MetricF1)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)
	require.Greater(t, table.Rows[0].Agreement, 0.0)
	require.LessOrEqual(t, table.Rows[0].Agreement, 1.0)
}

func TestScoreUnknownMetric(t *testing.T) {
	_, err := NewScorer(twoCoderItems()).Score(Metric("bogus"))
	require.Error(t, err)
}

func TestScoreEmptyInputs(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
	}{
		{name: "no items", items: nil},
		{name: "one coder", items: []Item{
			{Coder: "r1", Item: "A", Label: "x"},
			{Coder: "r1", Item: "B", Label: "y"},
		}},
		{name: "disjoint items", items: []Item{
			{Coder: "r1", Item: "A", Label: "x"},
			{Coder: "r2", Item: "B", Label: "x"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, metric := range []Metric{MetricPercentage, MetricKappa, MetricF1} {
				table, err := NewScorer(tt.items).Score(metric)
				require.NoError(t, err)
				require.True(t, table.Empty())
			}
		})
	}
}

func TestScoreIdenticalLabels(t *testing.T) {
	items := []Item{
		{Coder: "r1", Item: "A", Label: "x"},
		{Coder: "r2", Item: "A", Label: "x"},
		{Coder: "r1", Item: "B", Label: "x"},
		{Coder: "r2", Item: "B", Label: "x"},
	}

	table, err := NewScorer(items).Score(MetricPercentage)
	require.NoError(t, err)
	require.InDelta(t, 1.0, table.Rows[0].Agreement, 1e-9)

	// Kappa is undefined with a single observed class; it must come back
	// as 0, not NaN.
	table, err = NewScorer(items).Score(MetricKappa)
	require.NoError(t, err)
	require.Equal(t, 0.0, table.Rows[0].Agreement)
}

func TestScoreExcludesMajorityCoder(t *testing.T) {
	items := append(twoCoderItems(),
		Item{Coder: "MAJORITY", Item: "A", Label: "high"},
		Item{Coder: "MAJORITY", Item: "B", Label: "high"},
	)

	table, err := NewScorer(items).Score(MetricPercentage)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)
	require.Equal(t, "r1 & r2", table.Rows[0].Annotators)

	table, err = NewScorer(items, WithGoldCoder()).Score(MetricPercentage)
	require.NoError(t, err)
	// Three coders once MAJORITY is whitelisted: three pairs plus the two
	// aggregate rows.
	require.Len(t, table.Rows, 5)
	require.Equal(t, "MAJORITY & r1", table.Rows[0].Annotators)
}

func TestScoreBlacklist(t *testing.T) {
	table, err := NewScorer(twoCoderItems(), WithBlacklist("r2")).Score(MetricPercentage)
	require.NoError(t, err)
	require.True(t, table.Empty())
}

func TestScoreDropsUnannotatedRows(t *testing.T) {
	items := []Item{
		{Coder: "r1", Item: "A", Label: "x"},
		{Coder: "r2", Item: "A", Label: "x"},
		{Coder: "r1", Item: "B", Label: ""},
		{Coder: "r2", Item: "B", Label: ""},
	}

	table, err := NewScorer(items).Score(MetricPercentage)
	require.NoError(t, err)
	require.Equal(t, 1.0, table.Rows[0].Support)

	table, err = NewScorer(items, KeepUnannotated()).Score(MetricPercentage)
	require.NoError(t, err)
	require.Equal(t, 2.0, table.Rows[0].Support)
}

func TestScorePartialOverlapUsesCommonItems(t *testing.T) {
	items := []Item{
		{Coder: "r1", Item: "A", Label: "x"},
		{Coder: "r2", Item: "A", Label: "x"},
		{Coder: "r1", Item: "B", Label: "y"},
		// r2 never saw B; r3 saw only C.
		{Coder: "r3", Item: "C", Label: "x"},
	}

	table, err := NewScorer(items).Score(MetricPercentage)
	require.NoError(t, err)
	// r1&r2 share item A only; r1&r3 and r2&r3 share nothing and are
	// skipped.
	require.Len(t, table.Rows, 3)
	require.Equal(t, "r1 & r2", table.Rows[0].Annotators)
	require.Equal(t, 1.0, table.Rows[0].Support)
}

func TestScoreMissingCellGetsSentinel(t *testing.T) {
	// Both coders labeled A; only r1 labeled B with a real value while r2's
	// observation on B is empty, so r2's cell falls back to OTHER and the
	// row disagrees.
	items := []Item{
		{Coder: "r1", Item: "A", Label: "x"},
		{Coder: "r2", Item: "A", Label: "x"},
		{Coder: "r1", Item: "B", Label: "x"},
		{Coder: "r2", Item: "B", Label: ""},
	}

	table, err := NewScorer(items).Score(MetricPercentage)
	require.NoError(t, err)
	require.Equal(t, 2.0, table.Rows[0].Support)
	require.InDelta(t, 0.5, table.Rows[0].Agreement, 1e-9)
}

func TestScoreMultiLabel(t *testing.T) {
	// r1 applied two labels to item A, switching the pair to per-label
	// boolean tables.
	items := []Item{
		{Coder: "r1", Item: "A", Label: "x"},
		{Coder: "r1", Item: "A", Label: "y"},
		{Coder: "r2", Item: "A", Label: "x"},
		{Coder: "r1", Item: "B", Label: "y"},
		{Coder: "r2", Item: "B", Label: "y"},
	}

	table, err := NewScorer(items).Score(MetricPercentage)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	// Label x: A true/true, B false/false -> 1.0. Label y: A true/false,
	// B true/true -> 0.5. Equal row counts, so the pair scores 0.75.
	require.InDelta(t, 0.75, table.Rows[0].Agreement, 1e-9)
	require.Equal(t, 2.0, table.Rows[0].Support)
}

func TestScoreAveragesAcrossPairs(t *testing.T) {
	// r1&r2 agree on both items; r1&r3 and r2&r3 overlap on one item each
	// and disagree.
	items := []Item{
		{Coder: "r1", Item: "A", Label: "x"},
		{Coder: "r2", Item: "A", Label: "x"},
		{Coder: "r1", Item: "B", Label: "y"},
		{Coder: "r2", Item: "B", Label: "y"},
		{Coder: "r3", Item: "A", Label: "y"},
	}

	table, err := NewScorer(items).Score(MetricPercentage)
	require.NoError(t, err)
	require.Len(t, table.Rows, 5)
	require.Equal(t, "r1 & r2", table.Rows[0].Annotators)
	require.Equal(t, "r1 & r3", table.Rows[1].Annotators)
	require.Equal(t, "r2 & r3", table.Rows[2].Annotators)

	average := table.Rows[3]
	require.Equal(t, "Average", average.Annotators)
	require.InDelta(t, (1.0+0.0+0.0)/3, average.Agreement, 1e-9)
	require.Equal(t, 4.0, average.Support)

	weighted := table.Rows[4]
	require.Equal(t, "Average (weighted)", weighted.Annotators)
	require.InDelta(t, (1.0*2+0.0*1+0.0*1)/4, weighted.Agreement, 1e-9)
}
