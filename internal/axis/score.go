package axis

import "math"

// MinScore and MaxScore bound every choice value and final score.
const (
	MinScore = 1
	MaxScore = 5
)

// Answer is one user's response to one question, already resolved to the
// axis and score value of the chosen option.
type Answer struct {
	QuestionID int64
	ChoiceID   int64
	Axis       Code
	Score      int // 1-5
}

// Aggregate is the running per-axis statistic. Average is only meaningful
// when AnswerCount > 0; callers get a nil *Aggregate instead of a
// zero-filled one when an axis has no answers yet.
type Aggregate struct {
	Axis        Code    `json:"axis_code"`
	TotalScore  int     `json:"total_score"`
	AnswerCount int     `json:"answer_count"`
	Average     float64 `json:"average_score"` // 2 decimals
	Final       int     `json:"final_score"`   // 1-5
}

// AllScores is the result of aggregating a full answer history.
type AllScores struct {
	Scores        map[Code]Aggregate
	TotalAnswers  int
	CompletedAxes int
}

// CalculateAxisScore aggregates the answers belonging to one axis.
// Returns nil when no answer matches; absence is distinct from a minimum
// score.
func CalculateAxisScore(answers []Answer, code Code) *Aggregate {
	total := 0
	count := 0
	for _, a := range answers {
		if a.Axis != code {
			continue
		}
		total += a.Score
		count++
	}
	if count == 0 {
		return nil
	}

	avg := roundTo2(float64(total) / float64(count))
	return &Aggregate{
		Axis:        code,
		TotalScore:  total,
		AnswerCount: count,
		Average:     avg,
		Final:       NormalizeScore(avg),
	}
}

// CalculateAllScores aggregates every axis. Axes without answers are absent
// from the map.
func CalculateAllScores(answers []Answer) AllScores {
	result := AllScores{
		Scores:       make(map[Code]Aggregate, len(AllCodes)),
		TotalAnswers: len(answers),
	}
	for _, code := range AllCodes {
		if agg := CalculateAxisScore(answers, code); agg != nil {
			result.Scores[code] = *agg
			result.CompletedAxes++
		}
	}
	return result
}

// UpdateAxisScore folds one new answer into an existing aggregate. A nil
// existing aggregate starts from zero. Folding answers one at a time yields
// exactly the same aggregate as CalculateAxisScore over the full history.
func UpdateAxisScore(existing *Aggregate, ans Answer) Aggregate {
	if existing == nil {
		return Aggregate{
			Axis:        ans.Axis,
			TotalScore:  ans.Score,
			AnswerCount: 1,
			Average:     float64(ans.Score),
			Final:       NormalizeScore(float64(ans.Score)),
		}
	}

	total := existing.TotalScore + ans.Score
	count := existing.AnswerCount + 1
	avg := roundTo2(float64(total) / float64(count))
	return Aggregate{
		Axis:        existing.Axis,
		TotalScore:  total,
		AnswerCount: count,
		Average:     avg,
		Final:       NormalizeScore(avg),
	}
}

// NormalizeScore clamps a raw average into [1,5] and rounds half up.
func NormalizeScore(raw float64) int {
	if raw < MinScore {
		return MinScore
	}
	if raw > MaxScore {
		return MaxScore
	}
	return int(math.Round(raw))
}

// ScoreToPercentage maps a 1-5 score onto 0-100 for radar-style output.
func ScoreToPercentage(score float64) float64 {
	return (score - MinScore) / (MaxScore - MinScore) * 100
}

// PercentageToScore is the inverse of ScoreToPercentage.
func PercentageToScore(pct float64) float64 {
	return pct/100*(MaxScore-MinScore) + MinScore
}

// RangeLabel names a band of the 1-5 spectrum.
type RangeLabel struct {
	Min   float64
	Max   float64
	Label string
}

var rangeLabels = []RangeLabel{
	{1.0, 1.8, "very low"},
	{1.81, 2.6, "low"},
	{2.61, 3.4, "neutral"},
	{3.41, 4.2, "high"},
	{4.21, 5.0, "very high"},
}

// ScoreRangeLabel returns the band a score falls in. Out-of-range values
// report neutral.
func ScoreRangeLabel(score float64) RangeLabel {
	for _, r := range rangeLabels {
		if score >= r.Min && score <= r.Max {
			return r
		}
	}
	return rangeLabels[2]
}

// TendencyDescription summarizes which end of the axis the average leans to.
func TendencyDescription(code Code, average float64) string {
	meta, ok := MetadataFor(code)
	if !ok {
		return ""
	}
	switch {
	case average < 2.5:
		return "Leans strongly " + meta.LowEnd
	case average > 3.5:
		return "Leans strongly " + meta.HighEnd
	default:
		return "Balanced between " + meta.LowEnd + " and " + meta.HighEnd
	}
}

// roundTo2 rounds half up at the second decimal place.
func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
