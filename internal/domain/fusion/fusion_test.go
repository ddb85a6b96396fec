package fusion

import (
	"math"
	"testing"

	"github.com/clipforge/clipforge/internal/domain/signal"
	"github.com/clipforge/clipforge/internal/types"
)

func TestSelectWeights_SumToOne(t *testing.T) {
	for _, hasContent := range []bool{true, false} {
		w := SelectWeights(hasContent)
		sum := w.Audio + w.Motion + w.Scene + w.Faces + w.Content
		if math.Abs(sum-1.0) > 1e-9 {
			t.Fatalf("hasContent=%v: weights sum to %v, want 1.0", hasContent, sum)
		}
		if hasContent && w.Content != 0.30 {
			t.Fatalf("expected content weight 0.30, got %v", w.Content)
		}
		if !hasContent && w.Content != 0 {
			t.Fatalf("expected content weight 0, got %v", w.Content)
		}
	}
}

func TestCombine_CompositeStaysInRange(t *testing.T) {
	in := Inputs{
		Duration: 5,
		Audio:    signal.Timeline{0: 100, 1: 100, 2: 100, 3: 100, 4: 100},
		Scene:    signal.Timeline{0: 100, 2: 100, 4: 100},
		Motion:   signal.Timeline{1: 100, 3: 100},
		Faces:    signal.Timeline{0: 100, 1: 100, 2: 100, 3: 100, 4: 100},
		Content:  signal.Timeline{0: 100, 3: 100},
	}
	for _, seg := range Combine(in) {
		if seg.Score < 0 || seg.Score > 100 {
			t.Fatalf("segment %d score out of range: %v", seg.Start, seg.Score)
		}
	}
}

func TestCombine_AudioSpikeRanksFirst(t *testing.T) {
	audio := signal.Timeline{}
	for i := 0; i < 10; i++ {
		audio[float64(i)] = 10
	}
	audio[5] = 90

	segs := Combine(Inputs{Duration: 10, Audio: audio})
	if len(segs) != 10 {
		t.Fatalf("expected 10 segments, got %d", len(segs))
	}
	top := segs[0]
	if top.Start != 5 {
		t.Fatalf("expected second 5 to rank first, got %d", top.Start)
	}
	// audio 90 at weight 0.30, all other signals zero
	if top.Score != 27 {
		t.Fatalf("expected composite 27, got %v", top.Score)
	}
	if top.Details.Content != nil {
		t.Fatalf("details.content must be nil without vision judgements")
	}
}

func TestCombine_OneSegmentPerSecond(t *testing.T) {
	segs := Combine(Inputs{Duration: 7.9})
	if len(segs) != 7 {
		t.Fatalf("expected floor(duration) segments, got %d", len(segs))
	}
	seen := map[int]bool{}
	for _, s := range segs {
		if seen[s.Start] {
			t.Fatalf("duplicate start %d", s.Start)
		}
		seen[s.Start] = true
	}
}

func TestCombine_Reasons(t *testing.T) {
	in := Inputs{
		Duration: 1,
		Audio:    signal.Timeline{0: 75},
		Motion:   signal.Timeline{0: 55},
		Scene:    signal.Timeline{0: 45},
		Faces:    signal.Timeline{0: 35},
		Content:  signal.Timeline{0: 90},
		Judgements: signal.JudgementMap{
			0: {
				Score:          90,
				Description:    "Crowd erupts after the winning goal",
				ContentType:    "action",
				Mood:           "exciting",
				ViralPotential: "high",
			},
		},
	}
	segs := Combine(in)
	want := []string{
		"High audio energy",
		"High motion",
		"Visual interest",
		"Face detected",
		"High viral potential: Crowd erupts after the winning goal",
		"Exciting moment",
	}
	got := segs[0].Reasons
	if len(got) != len(want) {
		t.Fatalf("reasons = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("reason[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if segs[0].AI == nil || segs[0].AI.ContentType != "action" {
		t.Fatalf("expected ai_insights populated, got %+v", segs[0].AI)
	}
}

func TestCombine_AIDetectedReasonWithoutHighViral(t *testing.T) {
	in := Inputs{
		Duration: 1,
		Content:  signal.Timeline{0: 80},
		Judgements: signal.JudgementMap{
			0: {Score: 80, ContentType: "tutorial", Mood: "informative", ViralPotential: "medium"},
		},
	}
	segs := Combine(in)
	if len(segs[0].Reasons) != 1 || segs[0].Reasons[0] != "AI detected: tutorial content" {
		t.Fatalf("unexpected reasons: %v", segs[0].Reasons)
	}
}

func TestCombine_ContentDetailsZeroVsNil(t *testing.T) {
	// Content timeline present but sparse: seconds beyond tolerance
	// report 0, not null.
	in := Inputs{
		Duration: 10,
		Content:  signal.Timeline{0: 80},
	}
	segs := Combine(in)
	byStart := map[int]types.Segment{}
	for _, s := range segs {
		byStart[s.Start] = s
	}
	if byStart[9].Details.Content == nil {
		t.Fatalf("expected non-nil content detail when vision ran")
	}
	if *byStart[9].Details.Content != 0 {
		t.Fatalf("expected 0 beyond tolerance, got %v", *byStart[9].Details.Content)
	}
	if *byStart[3].Details.Content != 80 {
		t.Fatalf("expected 80 within tolerance, got %v", *byStart[3].Details.Content)
	}
}
