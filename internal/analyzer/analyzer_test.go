package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/clipforge/clipforge/internal/types"
)

type fakeVideoTool struct {
	probe      types.MediaProbe
	probeErr   error
	grayFrames func(fps float64, w, h int) ([][]byte, error)
	jpegCalls  int
}

func (f *fakeVideoTool) Probe(context.Context, string) (types.MediaProbe, error) {
	return f.probe, f.probeErr
}

func (f *fakeVideoTool) ExtractAudioMono16k(context.Context, string, string) error {
	return errors.New("no audio track")
}

func (f *fakeVideoTool) SampleGrayFrames(_ context.Context, _ string, fps float64, w, h int) ([][]byte, error) {
	if f.grayFrames == nil {
		return nil, errors.New("decoder crash")
	}
	return f.grayFrames(fps, w, h)
}

func (f *fakeVideoTool) ExtractFrameJPEG(context.Context, string, float64) ([]byte, error) {
	f.jpegCalls++
	return []byte{0xff, 0xd8}, nil
}

func (f *fakeVideoTool) RenderVertical(context.Context, string, float64, int, int, int, string) error {
	return nil
}

func (f *fakeVideoTool) Thumbnail(context.Context, string, float64, int, int, string) error {
	return nil
}

type fakeJudge struct {
	available  bool
	judgement  types.ContentJudgement
	judgeErr   error
	judgeCalls int
	probeCalls int
}

func (f *fakeJudge) Available(context.Context) bool {
	f.probeCalls++
	return f.available
}

func (f *fakeJudge) Judge(context.Context, []byte) (types.ContentJudgement, error) {
	f.judgeCalls++
	return f.judgement, f.judgeErr
}

func TestAnalyze_DegradesWhenEverySignalFails(t *testing.T) {
	// No audio track, decoder crashes on frames, vision unreachable: the
	// analysis must still produce one zero-scored segment per second.
	video := &fakeVideoTool{probe: types.MediaProbe{Duration: 10, Width: 1920, Height: 1080}}
	a := New(video, &fakeJudge{}, Config{WorkDir: t.TempDir()}, nil)

	segs, err := a.Analyze(context.Background(), "in.mp4")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(segs) != 10 {
		t.Fatalf("expected 10 segments, got %d", len(segs))
	}
	for _, s := range segs {
		if s.Score != 0 {
			t.Fatalf("expected zero score with all signals absent, got %v", s.Score)
		}
		if s.Details.Content != nil {
			t.Fatalf("content detail must be nil when vision never ran")
		}
	}
}

func TestAnalyze_ProbeFailureIsFatal(t *testing.T) {
	video := &fakeVideoTool{probeErr: errors.New("ffprobe: no such file")}
	a := New(video, &fakeJudge{}, Config{WorkDir: t.TempDir()}, nil)
	if _, err := a.Analyze(context.Background(), "missing.mp4"); err == nil {
		t.Fatal("expected probe error to propagate")
	}
}

func TestAnalyze_SceneSignalFeedsFusion(t *testing.T) {
	video := &fakeVideoTool{
		probe: types.MediaProbe{Duration: 4, Width: 1920, Height: 1080},
		grayFrames: func(fps float64, w, h int) ([][]byte, error) {
			if w != sceneWidth {
				// Only feed the scene extractor in this test.
				return nil, errors.New("unavailable")
			}
			flat := make([]byte, w*h)
			bright := make([]byte, w*h)
			for i := range bright {
				bright[i] = 255
			}
			// Hard cut between samples 3 and 4 (t=2.0s).
			return [][]byte{flat, flat, flat, flat, bright, bright, bright, bright}, nil
		},
	}
	a := New(video, &fakeJudge{}, Config{WorkDir: t.TempDir()}, nil)

	segs, err := a.Analyze(context.Background(), "in.mp4")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if segs[0].Start != 2 {
		t.Fatalf("expected the cut second to rank first, got %d", segs[0].Start)
	}
	if segs[0].Details.Scene != 100 {
		t.Fatalf("expected scene detail 100 at the cut, got %v", segs[0].Details.Scene)
	}
}

func TestAnalyze_ContentSignalAndInsights(t *testing.T) {
	judge := &fakeJudge{
		available: true,
		judgement: types.ContentJudgement{
			Score:          80,
			Description:    "Streamer reacts to a jump scare",
			ContentType:    "reaction",
			Mood:           "funny",
			ViralPotential: "high",
		},
	}
	video := &fakeVideoTool{probe: types.MediaProbe{Duration: 9, Width: 1280, Height: 720}}
	a := New(video, judge, Config{WorkDir: t.TempDir(), SampleInterval: 3, MaxVisionFrames: 50}, nil)

	segs, err := a.Analyze(context.Background(), "in.mp4")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	// 9s / 3s interval = 3 judged frames.
	if judge.judgeCalls != 3 {
		t.Fatalf("expected 3 judged frames, got %d", judge.judgeCalls)
	}
	for _, s := range segs {
		// 80 + 15 (high) + 12 (reaction) caps at 100; weight 0.30.
		if s.Score != 30 {
			t.Fatalf("expected composite 30 at second %d, got %v", s.Start, s.Score)
		}
		if s.AI == nil || s.AI.Mood != "funny" {
			t.Fatalf("expected ai_insights at second %d", s.Start)
		}
	}
}

func TestAnalyze_AvailabilityProbedOnce(t *testing.T) {
	judge := &fakeJudge{available: false}
	video := &fakeVideoTool{probe: types.MediaProbe{Duration: 6}}
	a := New(video, judge, Config{WorkDir: t.TempDir()}, nil)

	for i := 0; i < 3; i++ {
		if _, err := a.Analyze(context.Background(), "in.mp4"); err != nil {
			t.Fatalf("analyze: %v", err)
		}
	}
	if judge.probeCalls != 1 {
		t.Fatalf("expected a single availability probe, got %d", judge.probeCalls)
	}
	if video.jpegCalls != 0 {
		t.Fatalf("no frames should be extracted when vision is unavailable")
	}
}

func TestBoost(t *testing.T) {
	tests := []struct {
		name string
		j    types.ContentJudgement
		want int
	}{
		{"viral reaction caps at 100", types.ContentJudgement{Score: 80, ViralPotential: "high", ContentType: "reaction"}, 100},
		{"medium tutorial", types.ContentJudgement{Score: 40, ViralPotential: "medium", ContentType: "tutorial"}, 53},
		{"no bonuses", types.ContentJudgement{Score: 50, ViralPotential: "low", ContentType: "other"}, 50},
		{"unknown labels get nothing", types.ContentJudgement{Score: 50, ViralPotential: "??", ContentType: "??"}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Boost(tt.j); got != tt.want {
				t.Fatalf("Boost = %d, want %d", got, tt.want)
			}
		})
	}
}
