package axis

import (
	"math/rand"
	"testing"
)

func scoresOf(pairs map[Code]float64) map[Code]Aggregate {
	m := make(map[Code]Aggregate, len(pairs))
	for code, avg := range pairs {
		m[code] = Aggregate{Axis: code, Average: avg, Final: NormalizeScore(avg)}
	}
	return m
}

func TestSimilarityIdentical(t *testing.T) {
	s := scoresOf(map[Code]float64{Energy: 3.2, Emotion: 4.1, Social: 1.5})
	if got := Similarity(s, s); got != 100 {
		t.Errorf("similarity with self = %d, want 100", got)
	}
}

func TestSimilarityOpposite(t *testing.T) {
	a := scoresOf(map[Code]float64{Energy: 1})
	b := scoresOf(map[Code]float64{Energy: 5})
	if got := Similarity(a, b); got != 0 {
		t.Errorf("similarity of opposite extremes = %d, want 0", got)
	}
}

func TestSimilarityNoOverlap(t *testing.T) {
	a := scoresOf(map[Code]float64{Energy: 3})
	b := scoresOf(map[Code]float64{Lifestyle: 3})
	if got := Similarity(a, b); got != 0 {
		t.Errorf("similarity with no shared axes = %d, want 0", got)
	}
	if got := Similarity(nil, nil); got != 0 {
		t.Errorf("similarity of empty maps = %d, want 0", got)
	}
}

func TestSimilaritySymmetricAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	randomScores := func() map[Code]Aggregate {
		m := make(map[Code]Aggregate)
		for _, code := range AllCodes {
			if rng.Intn(2) == 0 {
				continue
			}
			avg := 1 + rng.Float64()*4
			m[code] = Aggregate{Axis: code, Average: avg}
		}
		return m
	}

	for i := 0; i < 100; i++ {
		a, b := randomScores(), randomScores()
		ab, ba := Similarity(a, b), Similarity(b, a)
		if ab != ba {
			t.Fatalf("asymmetric: %d vs %d", ab, ba)
		}
		if ab < 0 || ab > 100 {
			t.Fatalf("out of bounds: %d", ab)
		}
	}
}

func TestSimilarityPartialOverlap(t *testing.T) {
	// Shared axes: energy (diff 1) and social (diff 0). Max diff = 2*4 = 8.
	// similarity = round((8-1)/8*100) = 88.
	a := scoresOf(map[Code]float64{Energy: 2, Social: 3, Emotion: 5})
	b := scoresOf(map[Code]float64{Energy: 3, Social: 3, Challenge: 1})
	if got := Similarity(a, b); got != 88 {
		t.Errorf("similarity = %d, want 88", got)
	}
}
