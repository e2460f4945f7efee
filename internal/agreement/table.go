package agreement

// ScoreRow is one line of a score table: a coder pair or an aggregate.
type ScoreRow struct {
	Annotators string  `json:"annotators"`
	Agreement  float64 `json:"agreement"`
	Support    float64 `json:"support"`
}

// ScoreTable holds pairwise scores in insertion order: pairs first, then
// the Average and Average (weighted) rows. An empty table has zero rows.
type ScoreTable struct {
	Rows []ScoreRow `json:"rows"`
}

// Empty reports whether the table has no scored pairs.
func (t *ScoreTable) Empty() bool {
	return len(t.Rows) == 0
}
