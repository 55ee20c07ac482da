// Package catalog decides which objects a user qualifies for. Eligibility
// is a pure query over the season's object list: no call here errors, and
// empty inputs yield empty results.
package catalog

import (
	"fmt"

	"github.com/hyejinmo/pixelo/internal/axis"
	"github.com/hyejinmo/pixelo/internal/model"
)

// Acquisition pairs an unlockable object with the stable reason string
// that gets persisted on the grant ("default", "day_<n>" or
// "axis_<code>_<score>").
type Acquisition struct {
	Object model.Object `json:"object"`
	Reason string       `json:"reason"`
}

// DayReason builds the reason tag for a day-based unlock.
func DayReason(day int) string {
	return fmt.Sprintf("day_%d", day)
}

// AxisReason builds the reason tag for an axis-score unlock.
func AxisReason(code axis.Code, score int) string {
	return fmt.Sprintf("axis_%s_%d", code, score)
}

// ScoreInRange reports whether score falls inside [min ?? 1, max ?? 5]
// inclusive. With both bounds absent the condition always holds.
func ScoreInRange(score int, min, max *int) bool {
	if min == nil && max == nil {
		return true
	}
	lo, hi := axis.MinScore, axis.MaxScore
	if min != nil {
		lo = *min
	}
	if max != nil {
		hi = *max
	}
	return score >= lo && score <= hi
}

// ByAxisScore returns the axis_score objects matching the axis whose score
// falls in their range.
func ByAxisScore(objects []model.Object, code axis.Code, score int) []model.Object {
	var matched []model.Object
	for _, obj := range objects {
		if obj.AcquisitionType != model.AcquireByAxisScore {
			continue
		}
		if obj.AxisCode == nil || *obj.AxisCode != code {
			continue
		}
		if ScoreInRange(score, obj.MinScore, obj.MaxScore) {
			matched = append(matched, obj)
		}
	}
	return matched
}

// ByDay returns the day objects unlocked exactly on the given day.
func ByDay(objects []model.Object, day int) []model.Object {
	var matched []model.Object
	for _, obj := range objects {
		if obj.AcquisitionType == model.AcquireByDay && obj.AcquisitionDay != nil && *obj.AcquisitionDay == day {
			matched = append(matched, obj)
		}
	}
	return matched
}

// Defaults returns the objects granted unconditionally.
func Defaults(objects []model.Object) []model.Object {
	var matched []model.Object
	for _, obj := range objects {
		if obj.AcquisitionType == model.AcquireDefault {
			matched = append(matched, obj)
		}
	}
	return matched
}

// NewlyAcquirable resolves the unlocks triggered by one answer: day
// objects for the answered question's day plus axis_score objects for the
// single axis whose score changed. Objects already acquired are never
// re-emitted. An object satisfiable both ways appears once, keeping the
// day reason (day matches are collected first; de-dup is first-match-wins
// by object id).
func NewlyAcquirable(objects []model.Object, day int, code axis.Code, score int, acquiredIDs []int64) []Acquisition {
	acquired := make(map[int64]bool, len(acquiredIDs))
	for _, id := range acquiredIDs {
		acquired[id] = true
	}

	var candidates []model.Object
	for _, obj := range objects {
		if !acquired[obj.ID] {
			candidates = append(candidates, obj)
		}
	}

	var result []Acquisition
	seen := make(map[int64]bool)

	for _, obj := range ByDay(candidates, day) {
		if seen[obj.ID] {
			continue
		}
		seen[obj.ID] = true
		result = append(result, Acquisition{Object: obj, Reason: DayReason(day)})
	}

	for _, obj := range ByAxisScore(candidates, code, score) {
		if seen[obj.ID] {
			continue
		}
		seen[obj.ID] = true
		result = append(result, Acquisition{Object: obj, Reason: AxisReason(code, score)})
	}

	return result
}

// Acquirable takes the full snapshot view used for inventory sync: every
// default object plus every axis_score match at each present axis's final
// score.
func Acquirable(objects []model.Object, scores map[axis.Code]axis.Aggregate) []Acquisition {
	var result []Acquisition

	for _, obj := range Defaults(objects) {
		result = append(result, Acquisition{Object: obj, Reason: "default"})
	}

	for _, code := range axis.AllCodes {
		agg, ok := scores[code]
		if !ok {
			continue
		}
		for _, obj := range ByAxisScore(objects, code, agg.Final) {
			result = append(result, Acquisition{Object: obj, Reason: AxisReason(code, agg.Final)})
		}
	}

	return result
}

// BuildAxisIndex precomputes, per axis and per score 1-5, which axis_score
// objects would unlock. Used by admin tooling to audit catalog coverage.
func BuildAxisIndex(objects []model.Object) map[axis.Code]map[int][]model.Object {
	index := make(map[axis.Code]map[int][]model.Object, len(axis.AllCodes))
	for _, code := range axis.AllCodes {
		byScore := make(map[int][]model.Object, axis.MaxScore)
		for score := axis.MinScore; score <= axis.MaxScore; score++ {
			byScore[score] = ByAxisScore(objects, code, score)
		}
		index[code] = byScore
	}
	return index
}
