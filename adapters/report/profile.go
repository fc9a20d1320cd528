package report

import (
	"sort"

	mstats "github.com/montanaflynn/stats"

	"oceanqc/domain/qcframe"
)

// VisitDigest is a compact statistical summary of one visit's sample rows
// across all parameters: how many rows it has and the min/max/median of
// their depths. It never influences a check's verdict;
// it exists purely to help an operator spot a visit whose profile looks
// unusual (too shallow, too sparse) at a glance.
type VisitDigest struct {
	VisitKey    string
	SampleCount int
	MinDepth    float64
	MaxDepth    float64
	MedianDepth float64
}

// ProfileDigests computes one VisitDigest per visit_key present in frame,
// sorted by visit key for stable reporting output.
func ProfileDigests(frame *qcframe.Frame) []VisitDigest {
	groups := qcframe.GroupByVisit(frame.Rows())

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	digests := make([]VisitDigest, 0, len(keys))
	for _, key := range keys {
		rows := groups[key]
		depths := make(mstats.Float64Data, 0, len(rows))
		for _, row := range rows {
			depths = append(depths, row.Deph)
		}
		if len(depths) == 0 {
			continue
		}
		min, _ := depths.Min()
		max, _ := depths.Max()
		median, _ := depths.Median()
		digests = append(digests, VisitDigest{
			VisitKey:    key,
			SampleCount: len(depths),
			MinDepth:    min,
			MaxDepth:    max,
			MedianDepth: median,
		})
	}
	return digests
}
