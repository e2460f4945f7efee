package agreement

import "math"

// metricFunc scores two equal-length label columns.
type metricFunc func(a, b []string) float64

// percentage is the fraction of rows where both coders agree.
func percentage(a, b []string) float64 {
	if len(a) == 0 {
		return 0
	}
	equal := 0
	for i := range a {
		if a[i] == b[i] {
			equal++
		}
	}
	return float64(equal) / float64(len(a))
}

// kappa is the two-rater Cohen's kappa. When chance agreement is 1 (a
// single observed class) kappa is undefined and reported as 0.
func kappa(a, b []string) float64 {
	n := len(a)
	if n == 0 {
		return 0
	}
	countsA := make(map[string]int)
	countsB := make(map[string]int)
	for i := range a {
		countsA[a[i]]++
		countsB[b[i]]++
	}
	po := percentage(a, b)
	pe := 0.0
	for label, ca := range countsA {
		pe += (float64(ca) / float64(n)) * (float64(countsB[label]) / float64(n))
	}
	denom := 1 - pe
	if denom == 0 {
		return 0
	}
	k := (po - pe) / denom
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return 0
	}
	return k
}

// microF1 is the micro-averaged F1 between the two columns, pooling true
// positives and errors over all observed classes. Undefined results are
// reported as 0.
func microF1(a, b []string) float64 {
	if len(a) == 0 {
		return 0
	}
	classes := make(map[string]bool)
	for i := range a {
		classes[a[i]] = true
		classes[b[i]] = true
	}
	tp, fp, fn := 0, 0, 0
	for class := range classes {
		for i := range a {
			switch {
			case a[i] == class && b[i] == class:
				tp++
			case a[i] != class && b[i] == class:
				fp++
			case a[i] == class && b[i] != class:
				fn++
			}
		}
	}
	if tp == 0 && (fp > 0 || fn > 0) {
		return 0
	}
	if tp == 0 {
		return 0
	}
	precision := float64(tp) / float64(tp+fp)
	recall := float64(tp) / float64(tp+fn)
	if precision+recall == 0 {
		return 0
	}
	f1 := 2 * precision * recall / (precision + recall)
	if math.IsNaN(f1) {
		return 0
	}
	return f1
}
