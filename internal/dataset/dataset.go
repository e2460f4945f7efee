// Package dataset turns completed annotation sets into per-document,
// per-coder label structures with a majority-voted gold coder, feeding the
// agreement engine and dataset downloads.
package dataset

import (
	"fmt"
	"sort"

	"github.com/ysenarath/textflow/internal/agreement"
	"github.com/ysenarath/textflow/internal/domain/annotation"
	"github.com/ysenarath/textflow/internal/domain/project"
	"github.com/ysenarath/textflow/internal/tokenize"
)

// MajorityCoder is the pseudo-coder holding the majority-voted labels.
const MajorityCoder = "MAJORITY"

// BIO tags for sequence labeling. TagUnknown marks tokens where no label
// value reached a strict majority.
const (
	TagOutside = "O"
	TagBegin   = "B"
	TagInside  = "I"
	TagUnknown = "?"
)

// TokenLabel is one token's tag and label value. Value is empty for
// outside and unknown tokens.
type TokenLabel struct {
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// Record is one document with every coder's labels. SeqLabels is populated
// for sequence-labeling projects (one TokenLabel per token), DocLabels for
// document classification (sorted label sets). Both maps include the
// MAJORITY pseudo-coder.
type Record struct {
	ID        int64                   `json:"id"`
	SourceID  string                  `json:"source_id,omitempty"`
	Text      string                  `json:"text"`
	Tokens    []tokenize.Token        `json:"tokens"`
	SeqLabels map[string][]TokenLabel `json:"seq_labels,omitempty"`
	DocLabels map[string][]string     `json:"doc_labels,omitempty"`
}

// Coders returns the record's coder names excluding MAJORITY, sorted.
func (r *Record) Coders() []string {
	var names []string
	if r.SeqLabels != nil {
		for name := range r.SeqLabels {
			if name != MajorityCoder {
				names = append(names, name)
			}
		}
	} else {
		for name := range r.DocLabels {
			if name != MajorityCoder {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Dataset holds records in ascending document-id order.
type Dataset struct {
	Type    project.Type
	Records []*Record
}

// Build constructs a dataset from completed annotation-set bundles. The
// project type selects the label shape; an unknown type is an error.
func Build(bundles []annotation.SetBundle, typ project.Type) (*Dataset, error) {
	switch typ {
	case project.TypeSequenceLabeling:
		return buildSequence(bundles), nil
	case project.TypeDocumentClassification:
		return buildClassification(bundles), nil
	default:
		return nil, fmt.Errorf("unknown project type %q", typ)
	}
}

// groupByDocument buckets bundles per document, preserving ascending
// document-id order for deterministic record order.
func groupByDocument(bundles []annotation.SetBundle) ([]int64, map[int64][]annotation.SetBundle) {
	grouped := make(map[int64][]annotation.SetBundle)
	for _, b := range bundles {
		grouped[b.Document.ID] = append(grouped[b.Document.ID], b)
	}
	ids := make([]int64, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, grouped
}

// ItemTuples flattens the dataset into (coder, item, label) tuples for the
// agreement engine. Sequence items are keyed by document and token index
// and carry the label value only, never the BIO tag. Classification items
// are keyed by document and label value with a boolean-as-string label.
// The MAJORITY pseudo-coder is included; scoring excludes it by default.
func (d *Dataset) ItemTuples() []agreement.Item {
	var items []agreement.Item
	for _, rec := range d.Records {
		switch d.Type {
		case project.TypeSequenceLabeling:
			for coder, labels := range rec.SeqLabels {
				for idx := range rec.Tokens {
					value := ""
					if idx < len(labels) {
						value = labels[idx].Value
					}
					items = append(items, agreement.Item{
						Coder: coder,
						Item:  fmt.Sprintf("%d_%d", rec.ID, idx),
						Label: value,
					})
				}
			}
		case project.TypeDocumentClassification:
			universe := make(map[string]bool)
			for _, values := range rec.DocLabels {
				for _, v := range values {
					universe[v] = true
				}
			}
			ordered := make([]string, 0, len(universe))
			for v := range universe {
				ordered = append(ordered, v)
			}
			sort.Strings(ordered)
			for coder, values := range rec.DocLabels {
				applied := make(map[string]bool, len(values))
				for _, v := range values {
					applied[v] = true
				}
				for _, v := range ordered {
					items = append(items, agreement.Item{
						Coder: coder,
						Item:  fmt.Sprintf("%d_%s", rec.ID, v),
						Label: fmt.Sprintf("%t", applied[v]),
					})
				}
			}
		}
	}
	return items
}

// Classes returns the distinct label values in the dataset, sorted. BIO
// tags are not part of the values.
func (d *Dataset) Classes() []string {
	seen := make(map[string]bool)
	for _, rec := range d.Records {
		for _, labels := range rec.SeqLabels {
			for _, tl := range labels {
				if tl.Value != "" {
					seen[tl.Value] = true
				}
			}
		}
		for _, values := range rec.DocLabels {
			for _, v := range values {
				seen[v] = true
			}
		}
	}
	classes := make([]string, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Strings(classes)
	return classes
}

// X returns the raw token strings per document, in record order.
func (d *Dataset) X() [][]string {
	out := make([][]string, len(d.Records))
	for i, rec := range d.Records {
		tokens := make([]string, len(rec.Tokens))
		for j, tok := range rec.Tokens {
			tokens[j] = tok.Text
		}
		out[i] = tokens
	}
	return out
}

// Y returns the majority-voted targets per document: BIO-formatted tags
// with label suffix for sequence labeling (B-x, I-x, O, ?), or the sorted
// label set for document classification.
func (d *Dataset) Y() [][]string {
	out := make([][]string, len(d.Records))
	for i, rec := range d.Records {
		switch d.Type {
		case project.TypeSequenceLabeling:
			gold := rec.SeqLabels[MajorityCoder]
			target := make([]string, len(gold))
			for j, tl := range gold {
				if tl.Value == "" {
					target[j] = tl.Tag
				} else {
					target[j] = tl.Tag + "-" + tl.Value
				}
			}
			out[i] = target
		case project.TypeDocumentClassification:
			out[i] = append([]string(nil), rec.DocLabels[MajorityCoder]...)
		}
	}
	return out
}
