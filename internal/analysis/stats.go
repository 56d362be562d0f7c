package analysis

import (
	"math"
	"slices"
)

// Sample is one slot of a sparse duration series. Known is false for holes.
type Sample struct {
	Value uint64
	Known bool
}

// SummaryKind selects which average a Summary recommends.
type SummaryKind int

const (
	// DaySummary recommends the plain mean.
	DaySummary SummaryKind = iota
	// SleepSummary recommends the trimmed mean.
	SleepSummary
)

// Bounds of the central slice used for the trimmed statistics.
const (
	trimLow  = 0.2
	trimHigh = 0.8
)

// Summary describes the known values of a sparse series. All fields are zero
// when there are no known values.
type Summary struct {
	Count                    int
	Mean                     float64
	StandardDeviation        float64
	Median                   float64
	InterquartileRange       float64
	TrimmedMean              float64
	TrimmedStandardDeviation float64
	RecommendedAverage       float64
}

// Summarise computes robust statistics over the known samples. Zero values
// are treated as holes.
//
// Percentiles use ceiling rank selection on the sorted values: the median is
// sorted[n/2] and the IQR is sorted[ceil((n-1)*0.75)] - sorted[ceil((n-1)*0.25)].
// The trimmed statistics cover sorted[floor((n-1)*0.2) : ceil((n-1)*0.8)+1].
func Summarise(samples []Sample, kind SummaryKind) Summary {
	values := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s.Known && s.Value != 0 {
			values = append(values, float64(s.Value))
		}
	}
	if len(values) == 0 {
		return Summary{}
	}

	slices.Sort(values)
	n := len(values)
	last := float64(n - 1)

	mean, sd := meanAndDeviation(values)
	trimmed := values[int(math.Floor(last*trimLow)) : int(math.Ceil(last*trimHigh))+1]
	trimmedMean, trimmedSD := meanAndDeviation(trimmed)

	s := Summary{
		Count:                    n,
		Mean:                     mean,
		StandardDeviation:        sd,
		Median:                   values[n/2],
		InterquartileRange:       values[int(math.Ceil(last*0.75))] - values[int(math.Ceil(last*0.25))],
		TrimmedMean:              trimmedMean,
		TrimmedStandardDeviation: trimmedSD,
	}
	if kind == SleepSummary {
		s.RecommendedAverage = s.TrimmedMean
	} else {
		s.RecommendedAverage = s.Mean
	}
	return s
}

// meanAndDeviation returns the mean and population standard deviation.
func meanAndDeviation(values []float64) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}
