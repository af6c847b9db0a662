// Package score ranks candidate plaintexts against a language model. Every
// metric follows the same convention: lower is better and 0 is the best
// attainable value.
package score

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RowanDark/monocrack/internal/lang"
)

// DefaultNgramOrder is the n-gram order used when none is configured.
const DefaultNgramOrder = 3

// Scorer assigns a fitness score to a candidate plaintext.
type Scorer interface {
	Score(text string) float64
}

// Metric names one scoring function. A crack uses exactly one metric.
type Metric string

const (
	MetricNgram              Metric = "ngram"
	MetricSquaredDifferences Metric = "squared-differences"
	MetricChiSquared         Metric = "chi-squared"
)

// ErrUnknownMetric is returned for a metric name ParseMetric does not know.
var ErrUnknownMetric = errors.New("unknown metric")

// Metrics lists the supported metrics.
func Metrics() []Metric {
	return []Metric{MetricNgram, MetricSquaredDifferences, MetricChiSquared}
}

// ParseMetric resolves a metric name. The empty string selects MetricNgram.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ngram", "ngrams", "trigram":
		return MetricNgram, nil
	case "squared-differences", "squared_differences", "sqdiff":
		return MetricSquaredDifferences, nil
	case "chi-squared", "chi_squared", "chi2":
		return MetricChiSquared, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownMetric, name)
}

// New builds the scorer for metric over model. For MetricNgram the table of
// order n is loaded, which fails with lang.ErrResourceUnavailable when the
// model has no corpus for it.
func New(metric Metric, model *lang.Model, n int) (Scorer, error) {
	switch metric {
	case MetricNgram, "":
		return ForModel(model, n)
	case MetricSquaredDifferences:
		return NewFrequencyScorer(model, false), nil
	case MetricChiSquared:
		return NewFrequencyScorer(model, true), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownMetric, metric)
}
