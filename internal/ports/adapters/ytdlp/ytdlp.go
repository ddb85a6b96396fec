// Package ytdlp fetches source videos with the yt-dlp CLI. The metadata
// probe runs first so over-long videos and live streams are rejected
// before any bytes are downloaded.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/clipforge/clipforge/internal/types"
)

const downloadFormat = "bestvideo[ext=mp4][height<=1080]+bestaudio[ext=m4a]/best[ext=mp4]/best"

type Adapter struct {
	bin string
}

func New(binPath string) *Adapter {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &Adapter{bin: binPath}
}

type probeInfo struct {
	Title     string  `json:"title"`
	Channel   string  `json:"channel"`
	Duration  float64 `json:"duration"`
	IsLive    bool    `json:"is_live"`
	Thumbnail string  `json:"thumbnail"`
	ViewCount int64   `json:"view_count"`
}

func (a *Adapter) Fetch(ctx context.Context, url string, maxDuration int, outPath string) (types.MediaInfo, error) {
	info, err := a.probe(ctx, url)
	if err != nil {
		return types.MediaInfo{}, fmt.Errorf("%w: %v", types.ErrVideoNotFound, err)
	}
	if err := checkFetchable(info, maxDuration); err != nil {
		return types.MediaInfo{}, err
	}

	if err := a.download(ctx, url, outPath); err != nil {
		return types.MediaInfo{}, err
	}
	if _, err := os.Stat(outPath); err != nil {
		return types.MediaInfo{}, fmt.Errorf("download completed but file missing: %w", err)
	}

	return types.MediaInfo{
		Path:      outPath,
		Title:     info.Title,
		Channel:   info.Channel,
		Duration:  info.Duration,
		Thumbnail: info.Thumbnail,
		ViewCount: info.ViewCount,
	}, nil
}

func (a *Adapter) probe(ctx context.Context, url string) (probeInfo, error) {
	cmd := exec.CommandContext(ctx, a.bin,
		"--dump-json",
		"--no-warnings",
		"--no-playlist",
		url,
	)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return probeInfo{}, fmt.Errorf("yt-dlp probe: %w: %s", err, firstLine(stderr.String()))
	}
	return parseProbe(out.Bytes())
}

func checkFetchable(info probeInfo, maxDuration int) error {
	if info.IsLive {
		return types.ErrLiveStream
	}
	if maxDuration > 0 && info.Duration > float64(maxDuration) {
		return fmt.Errorf("%w: video is %.0fs, maximum is %ds (%d minutes)",
			types.ErrVideoTooLong, info.Duration, maxDuration, maxDuration/60)
	}
	return nil
}

func parseProbe(raw []byte) (probeInfo, error) {
	var info probeInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return probeInfo{}, fmt.Errorf("parse yt-dlp metadata: %w", err)
	}
	return info, nil
}

func (a *Adapter) download(ctx context.Context, url, outPath string) error {
	// yt-dlp appends the container extension itself; hand it the path
	// without one and it merges into mp4 at the expected location.
	template := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".%(ext)s"
	cmd := exec.CommandContext(ctx, a.bin,
		"-f", downloadFormat,
		"--merge-output-format", "mp4",
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		"-o", template,
		url,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("yt-dlp download: %w\n%s", err, string(b))
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
