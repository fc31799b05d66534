package stats

import mstats "github.com/montanaflynn/stats"

// UtilizationSummary is the mean/median of a series of channel-utilization
// percentage samples gathered across one or more runs.
type UtilizationSummary struct {
	Mean   float64
	Median float64
}

// SummarizeUtilization computes the mean and median of a set of per-run
// utilization samples.
func SummarizeUtilization(samples []float64) (UtilizationSummary, error) {
	data := mstats.LoadRawData(samples)
	mean, err := data.Mean()
	if err != nil {
		return UtilizationSummary{}, err
	}
	median, err := data.Median()
	if err != nil {
		return UtilizationSummary{}, err
	}
	return UtilizationSummary{Mean: mean, Median: median}, nil
}
