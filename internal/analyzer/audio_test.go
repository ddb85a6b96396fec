package analyzer

import (
	"math"
	"testing"
)

func TestRMSPerSecond_NormalizesToRange(t *testing.T) {
	const sr = 1000
	samples := make([]float32, 3*sr)
	// Quiet, loud, medium seconds.
	for i := 0; i < sr; i++ {
		samples[i] = 0.01
		samples[sr+i] = 0.9
		samples[2*sr+i] = 0.4
	}
	scores := rmsPerSecond(samples, sr, 3)
	if len(scores) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(scores))
	}
	if scores[0] > 1 {
		t.Fatalf("quiet second should normalize near 0, got %v", scores[0])
	}
	if scores[1] < 99 {
		t.Fatalf("loud second should normalize near 100, got %v", scores[1])
	}
	if scores[2] <= scores[0] || scores[2] >= scores[1] {
		t.Fatalf("medium second should rank between: %v", scores)
	}
}

func TestRMSPerSecond_RespectsDuration(t *testing.T) {
	const sr = 100
	samples := make([]float32, 5*sr)
	scores := rmsPerSecond(samples, sr, 2)
	if len(scores) != 2 {
		t.Fatalf("expected scores clipped to duration, got %d", len(scores))
	}
}

func TestAddOnsetBonus_CapsAtHundred(t *testing.T) {
	const sr = 1000
	samples := make([]float32, 2*sr)
	// Silence then a hard impact halfway through second 1.
	for i := sr + sr/2; i < 2*sr; i++ {
		samples[i] = 1.0
	}
	scores := rmsPerSecond(samples, sr, 2)
	addOnsetBonus(scores, samples, sr, 2)
	for ts, v := range scores {
		if v < 0 || v > 100 {
			t.Fatalf("score at %v out of range after onset bonus: %v", ts, v)
		}
	}
	if scores[1] <= scores[0] {
		t.Fatalf("impact second should outscore silence: %v", scores)
	}
}

func TestMinMax(t *testing.T) {
	lo, hi := minMax([]float64{3, -1, 7, 2})
	if lo != -1 || hi != 7 {
		t.Fatalf("minMax = (%v, %v)", lo, hi)
	}
	lo, hi = minMax(nil)
	if lo != 0 || hi != 0 {
		t.Fatalf("empty minMax = (%v, %v)", lo, hi)
	}
	if math.IsNaN(lo) {
		t.Fatal("unexpected NaN")
	}
}
