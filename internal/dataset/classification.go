package dataset

import (
	"sort"

	"github.com/ysenarath/textflow/internal/domain/annotation"
	"github.com/ysenarath/textflow/internal/domain/project"
	"github.com/ysenarath/textflow/internal/tokenize"
)

// buildClassification builds document-level label-set records. A coder's
// labels are every value they applied anywhere in the document, span or
// not; a label enters MAJORITY when a strict majority of the document's
// coders applied it.
func buildClassification(bundles []annotation.SetBundle) *Dataset {
	ids, grouped := groupByDocument(bundles)
	ds := &Dataset{Type: project.TypeDocumentClassification}
	for _, id := range ids {
		group := grouped[id]
		doc := group[0].Document
		rec := &Record{
			ID:        doc.ID,
			SourceID:  doc.SourceID,
			Text:      doc.Text,
			Tokens:    tokenize.Tokenize(doc.Text),
			DocLabels: make(map[string][]string),
		}
		for _, b := range group {
			rec.DocLabels[b.Coder] = labelSet(b.Annotations)
		}
		rec.DocLabels[MajorityCoder] = majorityLabels(rec)
		ds.Records = append(ds.Records, rec)
	}
	return ds
}

// labelSet collects the sorted distinct label values of one coder's
// annotations.
func labelSet(anns []annotation.Annotation) []string {
	seen := make(map[string]bool)
	for _, ann := range anns {
		for _, label := range ann.Labels {
			seen[label.Value] = true
		}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// majorityLabels keeps the labels applied by a strict majority of the
// coders who annotated this document.
func majorityLabels(rec *Record) []string {
	coders := rec.Coders()
	threshold := len(coders)/2 + 1
	counts := make(map[string]int)
	for _, coder := range coders {
		for _, v := range rec.DocLabels[coder] {
			counts[v]++
		}
	}
	var gold []string
	for v, c := range counts {
		if c >= threshold {
			gold = append(gold, v)
		}
	}
	sort.Strings(gold)
	return gold
}
