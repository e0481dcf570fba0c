// Package summary computes per-contrast descriptive statistics of the
// derived differential-expression tables.
package summary

import (
	"math"

	"degview/domain/contrast"
	"degview/domain/deg"
	"degview/internal/jsonx"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ContrastSummary describes the logFC/padj distribution of one contrast
// under the active thresholds. Float fields may be NaN (serialized null)
// when the contrast has no finite values.
type ContrastSummary struct {
	Contrast    string `json:"contrast"`
	DisplayName string `json:"display_name"`

	Genes     int `json:"genes"`
	Evaluated int `json:"evaluated"`
	Up        int `json:"up"`
	Down      int `json:"down"`
	NoSig     int `json:"no_sig"`
	NoEval    int `json:"no_eval"`

	MeanLogFC   jsonx.Float `json:"mean_logfc"`
	MedianLogFC jsonx.Float `json:"median_logfc"`
	StdDevLogFC jsonx.Float `json:"stddev_logfc"`
	Skewness    jsonx.Float `json:"skewness"`
	ExKurtosis  jsonx.Float `json:"ex_kurtosis"`
	MinPadj     jsonx.Float `json:"min_padj"`

	// Tail check against a normal fit of logFC: the observed fraction
	// beyond mean +/- 2 sd versus the fraction a fitted normal predicts.
	// A large gap hints at heavier-than-normal effect-size tails.
	ObservedTailFrac jsonx.Float `json:"observed_tail_frac"`
	ExpectedTailFrac jsonx.Float `json:"expected_tail_frac"`
}

// Summarize computes the summary for one contrast's derived table. NaN rows
// are excluded from the distribution moments but counted as No eval.
func Summarize(contrastID string, t deg.Table, thr deg.Thresholds) ContrastSummary {
	nan := jsonx.Float(math.NaN())
	s := ContrastSummary{
		Contrast:    contrastID,
		DisplayName: contrast.DisplayName(contrastID),
		Genes:       len(t),
		MeanLogFC:   nan,
		MedianLogFC: nan,
		StdDevLogFC: nan,
		Skewness:    nan,
		ExKurtosis:  nan,
		MinPadj:     nan,
	}

	counts := deg.CountByCategory(deg.ClassifyAll(t, thr))
	s.Up = counts[deg.CategoryUp]
	s.Down = counts[deg.CategoryDown]
	s.NoSig = counts[deg.CategoryNoSig]
	s.NoEval = counts[deg.CategoryNoEval]
	s.Evaluated = s.Genes - s.NoEval

	logFC := finiteValues(t, func(r deg.Row) float64 { return r.LogFC })
	padj := finiteValues(t, func(r deg.Row) float64 { return r.Padj })

	if len(padj) > 0 {
		if min, err := stats.Min(padj); err == nil {
			s.MinPadj = jsonx.Float(min)
		}
	}
	if len(logFC) == 0 {
		return s
	}

	mean := math.NaN()
	sd := math.NaN()
	if m, err := stats.Mean(logFC); err == nil {
		mean = m
		s.MeanLogFC = jsonx.Float(m)
	}
	if median, err := stats.Median(logFC); err == nil {
		s.MedianLogFC = jsonx.Float(median)
	}
	if v, err := stats.StandardDeviation(logFC); err == nil {
		sd = v
		s.StdDevLogFC = jsonx.Float(v)
	}

	if len(logFC) >= 3 {
		s.Skewness = jsonx.Float(stat.Skew(logFC, nil))
		s.ExKurtosis = jsonx.Float(stat.ExKurtosis(logFC, nil))
	}

	if sd > 0 && !math.IsNaN(mean) {
		s.ObservedTailFrac = jsonx.Float(observedTailFraction(logFC, mean, sd))
		normal := distuv.Normal{Mu: mean, Sigma: sd}
		upper := mean + 2*sd
		lower := mean - 2*sd
		s.ExpectedTailFrac = jsonx.Float((1 - normal.CDF(upper)) + normal.CDF(lower))
	}

	return s
}

// SummarizeAll summarizes every contrast of a dataset in detection order.
// build is called per contrast and may fail for individual contrasts; those
// are skipped.
func SummarizeAll(info contrast.Info, thr deg.Thresholds, build func(id string) (deg.Table, error)) []ContrastSummary {
	summaries := make([]ContrastSummary, 0, len(info.IDs))
	for _, id := range info.IDs {
		t, err := build(id)
		if err != nil {
			continue
		}
		summaries = append(summaries, Summarize(id, t, thr))
	}
	return summaries
}

func finiteValues(t deg.Table, pick func(deg.Row) float64) []float64 {
	values := make([]float64, 0, len(t))
	for _, r := range t {
		v := pick(r)
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			values = append(values, v)
		}
	}
	return values
}

func observedTailFraction(values []float64, mean, sd float64) float64 {
	if len(values) == 0 {
		return 0
	}
	outside := 0
	for _, v := range values {
		if v > mean+2*sd || v < mean-2*sd {
			outside++
		}
	}
	return float64(outside) / float64(len(values))
}
