// Package ollama adapts a local Ollama server into the vision-judge
// capability. A judgement is requested per frame from a vision model;
// responses that cannot be parsed fall back to a neutral default instead
// of surfacing an error.
package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clipforge/clipforge/internal/types"
)

const (
	defaultHost  = "http://localhost:11434"
	defaultModel = "llava"

	requestTimeout = 90 * time.Second
)

const framePrompt = `Analyze this video frame for short-form video potential.

Rate the ENGAGEMENT SCORE from 0-100 based on:
- Visual interest and composition
- Action or movement present
- Emotional content (reactions, expressions)
- Viral potential for platforms like TikTok/YouTube Shorts

Respond in this exact JSON format only:
{
    "score": <0-100>,
    "description": "<brief 10-word description>",
    "content_type": "<action|reaction|tutorial|entertainment|other>",
    "has_person": <true|false>,
    "has_text": <true|false>,
    "mood": "<exciting|funny|emotional|informative|calm>",
    "viral_potential": "<high|medium|low>"
}`

type Adapter struct {
	host   string
	model  string
	client *http.Client
	log    *logrus.Entry
}

func New(host, model string, log *logrus.Logger) *Adapter {
	if host == "" {
		host = defaultHost
	}
	if model == "" {
		model = defaultModel
	}
	if log == nil {
		log = logrus.New()
	}
	return &Adapter{
		host:   strings.TrimRight(host, "/"),
		model:  model,
		client: &http.Client{Timeout: 5 * time.Minute},
		log:    log.WithField("component", "ollama"),
	}
}

// Available reports whether the server is reachable and the model is
// present, attempting one pull if it is not listed. Callers cache the
// result; this is not cheap.
func (a *Adapter) Available(ctx context.Context) bool {
	models, err := a.listModels(ctx)
	if err != nil {
		a.log.WithError(err).Warn("ollama not reachable")
		return false
	}
	base := baseName(a.model)
	for _, m := range models {
		if baseName(m) == base {
			return true
		}
	}
	a.log.WithField("model", a.model).Info("model not present, attempting pull")
	if err := a.pull(ctx); err != nil {
		a.log.WithError(err).Warn("model pull failed")
		return false
	}
	return true
}

func (a *Adapter) listModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.host+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama tags: status %d", resp.StatusCode)
	}

	var out struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out.Models))
	for _, m := range out.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func (a *Adapter) pull(ctx context.Context) error {
	body, err := json.Marshal(map[string]any{"name": a.model, "stream": false})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.host+"/api/pull", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama pull: status %d", resp.StatusCode)
	}
	_, err = io.Copy(io.Discard, resp.Body)
	return err
}

// Judge sends one JPEG frame to the vision model and parses its verdict.
// Malformed model output yields the default judgement, never an error.
func (a *Adapter) Judge(ctx context.Context, jpegFrame []byte) (types.ContentJudgement, error) {
	payload := map[string]any{
		"model":  a.model,
		"stream": false,
		"messages": []map[string]any{{
			"role":    "user",
			"content": framePrompt,
			"images":  []string{base64.StdEncoding.EncodeToString(jpegFrame)},
		}},
		"options": map[string]any{
			// Low temperature keeps scoring consistent across frames.
			"temperature": 0.3,
			"num_predict": 300,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return types.ContentJudgement{}, fmt.Errorf("marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, a.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return types.ContentJudgement{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return types.ContentJudgement{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		rb, _ := io.ReadAll(resp.Body)
		return types.ContentJudgement{}, fmt.Errorf("ollama chat: status %d: %s", resp.StatusCode, truncate(string(rb), 200))
	}

	var raw struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return types.ContentJudgement{}, err
	}
	return ParseJudgement(raw.Message.Content), nil
}

// ParseJudgement extracts the structured verdict from raw model output.
// Vision models routinely wrap their JSON in prose or code fences, so the
// slice between the first '{' and the last '}' is what gets parsed; when
// that still fails the neutral default judgement is returned.
func ParseJudgement(content string) types.ContentJudgement {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return types.DefaultJudgement()
	}

	var data struct {
		Score          any    `json:"score"`
		Description    string `json:"description"`
		ContentType    string `json:"content_type"`
		HasPerson      bool   `json:"has_person"`
		HasText        bool   `json:"has_text"`
		Mood           string `json:"mood"`
		ViralPotential string `json:"viral_potential"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &data); err != nil {
		return types.DefaultJudgement()
	}

	j := types.DefaultJudgement()
	// Models sometimes quote the score; accept both forms.
	switch v := data.Score.(type) {
	case float64:
		j.Score = clampScore(int(v))
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			j.Score = clampScore(int(f))
		}
	}
	if data.Description != "" {
		j.Description = data.Description
	}
	if data.ContentType != "" {
		j.ContentType = data.ContentType
	}
	if data.Mood != "" {
		j.Mood = data.Mood
	}
	if data.ViralPotential != "" {
		j.ViralPotential = data.ViralPotential
	}
	j.HasPerson = data.HasPerson
	j.HasText = data.HasText
	return j
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func baseName(model string) string {
	name, _, _ := strings.Cut(model, ":")
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Disabled is the vision capability with no backend; it never judges.
type Disabled struct{}

func (Disabled) Available(context.Context) bool { return false }

func (Disabled) Judge(context.Context, []byte) (types.ContentJudgement, error) {
	return types.ContentJudgement{}, fmt.Errorf("vision judge disabled")
}
