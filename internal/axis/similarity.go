package axis

import "math"

// maxAxisDiff is the widest possible gap between two averages on one axis.
const maxAxisDiff = MaxScore - MinScore

// Similarity compares two users' score maps and returns a 0-100 match
// percentage. Only axes present in both maps are compared; with no overlap
// the result is 0. Identical non-empty maps score 100, a single axis at
// opposite extremes scores 0.
func Similarity(a, b map[Code]Aggregate) int {
	totalDiff := 0.0
	compared := 0

	for _, code := range AllCodes {
		sa, okA := a[code]
		sb, okB := b[code]
		if !okA || !okB {
			continue
		}
		totalDiff += math.Abs(sa.Average - sb.Average)
		compared++
	}

	if compared == 0 {
		return 0
	}

	maxDiff := float64(compared * maxAxisDiff)
	return int(math.Round((maxDiff - totalDiff) / maxDiff * 100))
}
