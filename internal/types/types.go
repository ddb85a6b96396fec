package types

// MediaInfo describes a fetched source video on local disk.
type MediaInfo struct {
	Path      string  `json:"path"`
	Title     string  `json:"title"`
	Channel   string  `json:"channel"`
	Duration  float64 `json:"duration"`
	Thumbnail string  `json:"thumbnail,omitempty"`
	ViewCount int64   `json:"view_count,omitempty"`
	Cached    bool    `json:"cached,omitempty"`
}

// MediaProbe holds the stream properties needed by the analysis stages.
type MediaProbe struct {
	Duration float64
	Width    int
	Height   int
	FPS      float64
}

// ContentJudgement is one frame's verdict from the vision model.
type ContentJudgement struct {
	Score          int    `json:"score"`
	Description    string `json:"description"`
	ContentType    string `json:"content_type"`
	HasPerson      bool   `json:"has_person"`
	HasText        bool   `json:"has_text"`
	Mood           string `json:"mood"`
	ViralPotential string `json:"viral_potential"`
}

// DefaultJudgement is returned when a vision response cannot be parsed.
// The sample is kept with a neutral verdict instead of being dropped.
func DefaultJudgement() ContentJudgement {
	return ContentJudgement{
		Score:          50,
		Description:    "Analysis unavailable",
		ContentType:    "other",
		Mood:           "calm",
		ViralPotential: "low",
	}
}

// ScoreDetails is the per-signal breakdown behind a segment score.
// Content is a pointer so it serializes as null when the vision signal
// was absent for the whole run, as opposed to a resolved zero.
type ScoreDetails struct {
	Audio   float64  `json:"audio"`
	Motion  float64  `json:"motion"`
	Scene   float64  `json:"scene"`
	Faces   float64  `json:"faces"`
	Content *float64 `json:"content"`
}

// AIInsights is the judgement-derived summary attached to a segment.
type AIInsights struct {
	Description    string `json:"description"`
	ContentType    string `json:"content_type"`
	Mood           string `json:"mood"`
	ViralPotential string `json:"viral_potential"`
	HasPerson      bool   `json:"has_person"`
	HasText        bool   `json:"has_text"`
}

// Segment is one scored second of the timeline.
type Segment struct {
	Start   int          `json:"start"`
	Score   float64      `json:"score"`
	Reasons []string     `json:"reasons"`
	Details ScoreDetails `json:"details"`
	AI      *AIInsights  `json:"ai_insights,omitempty"`
}

// ClipInfo describes one exported vertical clip.
type ClipInfo struct {
	Index     int      `json:"index"`
	StartTime float64  `json:"start_time"`
	EndTime   float64  `json:"end_time"`
	Score     float64  `json:"score"`
	Filename  string   `json:"filename"`
	Reasons   []string `json:"reasons"`
	FileSize  int64    `json:"file_size,omitempty"`
}
