package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clipforge/clipforge/internal/types"
)

func TestParseJudgement_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want types.ContentJudgement
	}{
		{
			name: "clean json",
			in:   `{"score": 85, "description": "Dog catches frisbee mid-air", "content_type": "action", "has_person": false, "has_text": false, "mood": "exciting", "viral_potential": "high"}`,
			want: types.ContentJudgement{Score: 85, Description: "Dog catches frisbee mid-air", ContentType: "action", Mood: "exciting", ViralPotential: "high"},
		},
		{
			name: "json wrapped in prose and fences",
			in:   "Sure! Here is the analysis:\n```json\n{\"score\": 40, \"content_type\": \"tutorial\", \"mood\": \"informative\", \"viral_potential\": \"low\"}\n```",
			want: types.ContentJudgement{Score: 40, Description: "Analysis unavailable", ContentType: "tutorial", Mood: "informative", ViralPotential: "low"},
		},
		{
			name: "quoted score",
			in:   `{"score": "73", "content_type": "entertainment", "mood": "funny", "viral_potential": "medium"}`,
			want: types.ContentJudgement{Score: 73, Description: "Analysis unavailable", ContentType: "entertainment", Mood: "funny", ViralPotential: "medium"},
		},
		{
			name: "unparsable falls back to default",
			in:   "I cannot analyze this image.",
			want: types.DefaultJudgement(),
		},
		{
			name: "broken json falls back to default",
			in:   `{"score": 90, "mood": `,
			want: types.DefaultJudgement(),
		},
		{
			name: "out of range score clamps",
			in:   `{"score": 250, "content_type": "other", "mood": "calm", "viral_potential": "low"}`,
			want: types.ContentJudgement{Score: 100, Description: "Analysis unavailable", ContentType: "other", Mood: "calm", ViralPotential: "low"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseJudgement(tt.in)
			if got != tt.want {
				t.Fatalf("ParseJudgement = %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestAvailable_ModelListed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]string{{"name": "llava:latest"}, {"name": "llama3.2:3b"}},
		})
	}))
	defer srv.Close()

	a := New(srv.URL, "llava", nil)
	if !a.Available(context.Background()) {
		t.Fatal("expected model llava to be available")
	}
}

func TestAvailable_PullFallback(t *testing.T) {
	var pulled bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_ = json.NewEncoder(w).Encode(map[string]any{"models": []map[string]string{}})
		case "/api/pull":
			pulled = true
			w.WriteHeader(http.StatusOK)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	a := New(srv.URL, "llava", nil)
	if !a.Available(context.Background()) {
		t.Fatal("expected availability after successful pull")
	}
	if !pulled {
		t.Fatal("expected a pull attempt")
	}
}

func TestAvailable_ServerDown(t *testing.T) {
	a := New("http://127.0.0.1:1", "llava", nil)
	if a.Available(context.Background()) {
		t.Fatal("expected unavailable when server is unreachable")
	}
}

func TestJudge_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Images []string `json:"images"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "llava" || len(req.Messages) != 1 || len(req.Messages[0].Images) != 1 {
			t.Fatalf("malformed request: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{
				"content": `{"score": 66, "description": "Person assembles furniture", "content_type": "tutorial", "has_person": true, "has_text": false, "mood": "informative", "viral_potential": "medium"}`,
			},
		})
	}))
	defer srv.Close()

	a := New(srv.URL, "llava", nil)
	j, err := a.Judge(context.Background(), []byte{0xff, 0xd8, 0xff})
	if err != nil {
		t.Fatalf("judge: %v", err)
	}
	if j.Score != 66 || j.ContentType != "tutorial" || !j.HasPerson {
		t.Fatalf("unexpected judgement: %+v", j)
	}
}

func TestJudge_MalformedContentFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"content": "the image shows a sunset, very calm"},
		})
	}))
	defer srv.Close()

	a := New(srv.URL, "llava", nil)
	j, err := a.Judge(context.Background(), []byte{0xff})
	if err != nil {
		t.Fatalf("judge: %v", err)
	}
	if j != types.DefaultJudgement() {
		t.Fatalf("expected default judgement, got %+v", j)
	}
}

func TestDisabled(t *testing.T) {
	var d Disabled
	if d.Available(context.Background()) {
		t.Fatal("disabled judge must never be available")
	}
	if _, err := d.Judge(context.Background(), nil); err == nil {
		t.Fatal("disabled judge must refuse to judge")
	}
}
