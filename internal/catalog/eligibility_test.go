package catalog

import (
	"testing"

	"github.com/hyejinmo/pixelo/internal/axis"
	"github.com/hyejinmo/pixelo/internal/model"
)

func intp(v int) *int { return &v }

func axisp(c axis.Code) *axis.Code { return &c }

func axisObject(id int64, code axis.Code, min, max *int) model.Object {
	return model.Object{
		ID:              id,
		Name:            "obj",
		AcquisitionType: model.AcquireByAxisScore,
		AxisCode:        axisp(code),
		MinScore:        min,
		MaxScore:        max,
	}
}

func dayObject(id int64, day int) model.Object {
	return model.Object{
		ID:              id,
		Name:            "obj",
		AcquisitionType: model.AcquireByDay,
		AcquisitionDay:  intp(day),
	}
}

func TestScoreInRange(t *testing.T) {
	tests := []struct {
		score    int
		min, max *int
		want     bool
	}{
		{3, nil, nil, true}, // no bounds always matches
		{1, intp(1), intp(2), true},
		{2, intp(1), intp(2), true},
		{3, intp(1), intp(2), false},
		{5, intp(4), nil, true},  // open max defaults to 5
		{3, intp(4), nil, false},
		{2, nil, intp(2), true},  // open min defaults to 1
		{3, nil, intp(2), false},
	}
	for _, tt := range tests {
		if got := ScoreInRange(tt.score, tt.min, tt.max); got != tt.want {
			t.Errorf("ScoreInRange(%d, %v, %v) = %v, want %v", tt.score, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestByAxisScore(t *testing.T) {
	objects := []model.Object{
		axisObject(1, axis.Energy, intp(4), intp(5)),
		axisObject(2, axis.Energy, intp(1), intp(2)),
		axisObject(3, axis.Lifestyle, intp(4), intp(5)),
		axisObject(4, axis.Energy, nil, nil), // unconditional axis unlock
		dayObject(5, 3),
	}

	matched := ByAxisScore(objects, axis.Energy, 4)
	if len(matched) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matched))
	}
	if matched[0].ID != 1 || matched[1].ID != 4 {
		t.Errorf("got ids %d, %d", matched[0].ID, matched[1].ID)
	}
}

func TestByDay(t *testing.T) {
	objects := []model.Object{
		dayObject(1, 3),
		dayObject(2, 5),
		axisObject(3, axis.Energy, nil, nil),
	}

	matched := ByDay(objects, 5)
	if len(matched) != 1 || matched[0].ID != 2 {
		t.Fatalf("unexpected day matches: %+v", matched)
	}
	if got := ByDay(objects, 4); got != nil {
		t.Errorf("day 4 should match nothing, got %+v", got)
	}
}

func TestNewlyAcquirableIdempotent(t *testing.T) {
	objects := []model.Object{
		dayObject(1, 5),
		axisObject(2, axis.Energy, intp(4), intp(5)),
		axisObject(3, axis.Energy, intp(4), intp(5)),
	}

	got := NewlyAcquirable(objects, 5, axis.Energy, 4, []int64{1, 2})
	if len(got) != 1 {
		t.Fatalf("expected 1 acquisition, got %d", len(got))
	}
	if got[0].Object.ID != 3 {
		t.Errorf("object id = %d, want 3", got[0].Object.ID)
	}

	// Everything already acquired yields nothing.
	if got := NewlyAcquirable(objects, 5, axis.Energy, 4, []int64{1, 2, 3}); len(got) != 0 {
		t.Errorf("expected no acquisitions, got %+v", got)
	}
}

func TestNewlyAcquirableReasons(t *testing.T) {
	objects := []model.Object{
		dayObject(1, 5),
		axisObject(2, axis.Emotion, intp(2), intp(3)),
	}

	got := NewlyAcquirable(objects, 5, axis.Emotion, 3, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 acquisitions, got %d", len(got))
	}
	// Day matches precede axis matches.
	if got[0].Reason != "day_5" {
		t.Errorf("reason[0] = %q, want day_5", got[0].Reason)
	}
	if got[1].Reason != "axis_emotion_3" {
		t.Errorf("reason[1] = %q, want axis_emotion_3", got[1].Reason)
	}
}

// An object satisfiable by both the day and the axis path appears once,
// with the day reason.
func TestNewlyAcquirableDayAxisCollision(t *testing.T) {
	both := model.Object{
		ID:              7,
		AcquisitionType: model.AcquireByDay,
		AcquisitionDay:  intp(5),
		AxisCode:        axisp(axis.Energy),
		MinScore:        intp(3),
		MaxScore:        intp(5),
	}
	// A second entry for the same id arriving via the axis path.
	axisTwin := both
	axisTwin.AcquisitionType = model.AcquireByAxisScore

	got := NewlyAcquirable([]model.Object{both, axisTwin}, 5, axis.Energy, 4, nil)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 acquisition, got %d", len(got))
	}
	if got[0].Reason != "day_5" {
		t.Errorf("reason = %q, want day_5", got[0].Reason)
	}
}

func TestNewlyAcquirableEmptyCatalog(t *testing.T) {
	if got := NewlyAcquirable(nil, 1, axis.Energy, 3, nil); len(got) != 0 {
		t.Errorf("empty catalog should yield nothing, got %+v", got)
	}
}

func TestAcquirableSnapshot(t *testing.T) {
	objects := []model.Object{
		{ID: 1, AcquisitionType: model.AcquireDefault},
		axisObject(2, axis.Energy, intp(4), intp(5)),
		axisObject(3, axis.Social, intp(1), intp(2)),
		dayObject(4, 2),
	}
	scores := map[axis.Code]axis.Aggregate{
		axis.Energy: {Axis: axis.Energy, Average: 4.33, Final: 4},
	}

	got := Acquirable(objects, scores)
	if len(got) != 2 {
		t.Fatalf("expected 2 acquisitions, got %d", len(got))
	}
	if got[0].Object.ID != 1 || got[0].Reason != "default" {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Object.ID != 2 || got[1].Reason != "axis_energy_4" {
		t.Errorf("got[1] = %+v", got[1])
	}

	// Empty score map yields default-only.
	defaultOnly := Acquirable(objects, nil)
	if len(defaultOnly) != 1 || defaultOnly[0].Reason != "default" {
		t.Errorf("expected default-only, got %+v", defaultOnly)
	}
}

func TestBuildAxisIndex(t *testing.T) {
	objects := []model.Object{
		axisObject(1, axis.Energy, intp(1), intp(2)),
		axisObject(2, axis.Energy, intp(4), intp(5)),
	}

	index := BuildAxisIndex(objects)
	if got := index[axis.Energy][1]; len(got) != 1 || got[0].ID != 1 {
		t.Errorf("score 1: %+v", got)
	}
	if got := index[axis.Energy][3]; len(got) != 0 {
		t.Errorf("score 3 should be empty, got %+v", got)
	}
	if got := index[axis.Energy][5]; len(got) != 1 || got[0].ID != 2 {
		t.Errorf("score 5: %+v", got)
	}
	if got := index[axis.Lifestyle][3]; len(got) != 0 {
		t.Errorf("other axis should be empty, got %+v", got)
	}
}
