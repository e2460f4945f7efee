package dataset

import (
	"sort"

	"github.com/ysenarath/textflow/internal/domain/annotation"
	"github.com/ysenarath/textflow/internal/domain/project"
	"github.com/ysenarath/textflow/internal/tokenize"
)

// buildSequence builds token-level BIO records. Every coder starts with an
// all-outside sequence; span annotations write B/I tags over covered
// tokens, first annotation wins per token.
func buildSequence(bundles []annotation.SetBundle) *Dataset {
	ids, grouped := groupByDocument(bundles)
	ds := &Dataset{Type: project.TypeSequenceLabeling}
	for _, id := range ids {
		group := grouped[id]
		doc := group[0].Document
		rec := &Record{
			ID:        doc.ID,
			SourceID:  doc.SourceID,
			Text:      doc.Text,
			Tokens:    tokenize.Tokenize(doc.Text),
			SeqLabels: make(map[string][]TokenLabel),
		}
		index := tokenize.Index(rec.Tokens)
		for _, b := range group {
			rec.SeqLabels[b.Coder] = applySpans(b.Annotations, len(rec.Tokens), index)
		}
		rec.SeqLabels[MajorityCoder] = majoritySequence(rec)
		ds.Records = append(ds.Records, rec)
	}
	return ds
}

// applySpans projects one coder's span annotations onto the token grid.
// Whole-document annotations carry no span and are ignored here.
func applySpans(anns []annotation.Annotation, numTokens int, index map[int]int) []TokenLabel {
	labels := make([]TokenLabel, numTokens)
	for i := range labels {
		labels[i] = TokenLabel{Tag: TagOutside}
	}
	for _, ann := range anns {
		if ann.Span == nil || len(ann.Labels) == 0 {
			continue
		}
		value := ann.Labels[0].Value
		covered := coveredTokens(*ann.Span, index)
		for pos, ti := range covered {
			if labels[ti].Tag != TagOutside || labels[ti].Value != "" {
				// First annotation covering the token wins.
				continue
			}
			tag := TagInside
			if pos == 0 {
				tag = TagBegin
			}
			labels[ti] = TokenLabel{Tag: tag, Value: value}
		}
	}
	return labels
}

// coveredTokens returns the ordered distinct token indices a span covers.
func coveredTokens(span annotation.Span, index map[int]int) []int {
	seen := make(map[int]bool)
	var covered []int
	for off := span.Start; off < span.Start+span.Length; off++ {
		ti, ok := index[off]
		if !ok || seen[ti] {
			continue
		}
		seen[ti] = true
		covered = append(covered, ti)
	}
	sort.Ints(covered)
	return covered
}

// majoritySequence computes the per-token majority vote over all coders of
// the record. A value wins only with a strict majority (more than half of
// the coders); otherwise the token is marked unknown. Ties on equal counts
// go to the lexicographically smallest value so the vote is deterministic.
func majoritySequence(rec *Record) []TokenLabel {
	coders := rec.Coders()
	n := len(coders)
	threshold := n/2 + 1
	gold := make([]TokenLabel, len(rec.Tokens))

	prevTag := TagOutside
	for t := range rec.Tokens {
		counts := make(map[string]int, n)
		for _, coder := range coders {
			counts[rec.SeqLabels[coder][t].Value]++
		}
		winner, count := topValue(counts)

		var tl TokenLabel
		switch {
		case count < threshold:
			tl = TokenLabel{Tag: TagUnknown}
		case winner == "":
			tl = TokenLabel{Tag: TagOutside}
		default:
			tag := TagBegin
			if prevTag != TagOutside && prevTag != TagUnknown {
				tag = agreedTag(rec, coders, t, winner)
			}
			tl = TokenLabel{Tag: tag, Value: winner}
		}
		gold[t] = tl
		prevTag = tl.Tag
	}
	return gold
}

// topValue returns the most frequent value, breaking count ties by the
// lexicographically smallest value.
func topValue(counts map[string]int) (string, int) {
	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Strings(values)
	best, bestCount := "", -1
	for _, v := range values {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best, bestCount
}

// agreedTag returns the most common BIO tag among the coders that assigned
// the winning value at token t, so a continuation chained from a prior B
// stays I. Ties prefer B.
func agreedTag(rec *Record, coders []string, t int, winner string) string {
	begins, insides := 0, 0
	for _, coder := range coders {
		tl := rec.SeqLabels[coder][t]
		if tl.Value != winner {
			continue
		}
		switch tl.Tag {
		case TagBegin:
			begins++
		case TagInside:
			insides++
		}
	}
	if insides > begins {
		return TagInside
	}
	return TagBegin
}
