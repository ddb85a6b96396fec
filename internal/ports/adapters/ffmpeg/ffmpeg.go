package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/clipforge/clipforge/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

type probeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func (a *Adapter) Probe(ctx context.Context, in string) (types.MediaProbe, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		in,
	)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return types.MediaProbe{}, fmt.Errorf("ffprobe: %w\n%s", err, stderr.String())
	}

	var po probeOutput
	if err := json.Unmarshal(out.Bytes(), &po); err != nil {
		return types.MediaProbe{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	probe := types.MediaProbe{}
	if po.Format.Duration != "" {
		d, err := strconv.ParseFloat(po.Format.Duration, 64)
		if err != nil {
			return types.MediaProbe{}, fmt.Errorf("parse duration %q: %w", po.Format.Duration, err)
		}
		probe.Duration = d
	}
	for _, s := range po.Streams {
		if s.CodecType != "video" {
			continue
		}
		probe.Width = s.Width
		probe.Height = s.Height
		probe.FPS = parseFrameRate(s.RFrameRate)
		break
	}
	if probe.Width == 0 || probe.Height == 0 {
		return types.MediaProbe{}, fmt.Errorf("no video stream in %s", in)
	}
	return probe, nil
}

func parseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, in, outWav string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", in,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(b))
	}
	return nil
}

// SampleGrayFrames decodes the input at the given sample rate into raw
// 8-bit grayscale frames, streamed over stdout so nothing touches disk.
func (a *Adapter) SampleGrayFrames(ctx context.Context, in string, fps float64, width, height int) ([][]byte, error) {
	vf := fmt.Sprintf("fps=%s,scale=%d:%d,format=gray",
		strconv.FormatFloat(fps, 'f', -1, 64), width, height)
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-i", in,
		"-vf", vf,
		"-f", "rawvideo",
		"-pix_fmt", "gray",
		"-",
	)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg sample frames: %w\n%s", err, stderr.String())
	}

	frameSize := width * height
	raw := out.Bytes()
	frames := make([][]byte, 0, len(raw)/frameSize)
	for off := 0; off+frameSize <= len(raw); off += frameSize {
		frames = append(frames, raw[off:off+frameSize])
	}
	return frames, nil
}

func (a *Adapter) ExtractFrameJPEG(ctx context.Context, in string, at float64) ([]byte, error) {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-ss", fmtSeconds(at),
		"-i", in,
		"-frames:v", "1",
		"-q:v", "4",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-",
	)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg extract frame: %w\n%s", err, stderr.String())
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("no frame at %s in %s", fmtSeconds(at), in)
	}
	return out.Bytes(), nil
}

// RenderVertical cuts the requested window out of the input, crops to a
// centered 9:16 region and scales to the output size, encoded for mobile
// playback.
func (a *Adapter) RenderVertical(ctx context.Context, in string, start float64, duration, outW, outH int, out string) error {
	probe, err := a.Probe(ctx, in)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-ss", fmtSeconds(start),
		"-i", in,
		"-t", strconv.Itoa(duration),
		"-vf", buildVerticalFilter(probe.Width, probe.Height, outW, outH),
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		"-pix_fmt", "yuv420p",
		out,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg render clip: %w\n%s", err, string(b))
	}
	return nil
}

// buildVerticalFilter crops the input to a centered 9:16 window and
// scales it. Wider-than-9:16 inputs lose their sides; taller inputs lose
// top and bottom.
func buildVerticalFilter(inW, inH, outW, outH int) string {
	const targetRatio = 9.0 / 16.0
	if float64(inW)/float64(inH) > targetRatio {
		cropW := int(float64(inH) * targetRatio)
		cropX := (inW - cropW) / 2
		return fmt.Sprintf("crop=%d:%d:%d:0,scale=%d:%d", cropW, inH, cropX, outW, outH)
	}
	cropH := int(float64(inW) / targetRatio)
	cropY := (inH - cropH) / 2
	return fmt.Sprintf("crop=%d:%d:0:%d,scale=%d:%d", inW, cropH, cropY, outW, outH)
}

func (a *Adapter) Thumbnail(ctx context.Context, in string, at float64, outW, outH int, out string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-ss", fmtSeconds(at),
		"-i", in,
		"-vframes", "1",
		"-vf", fmt.Sprintf("scale=%d:%d", outW, outH),
		out,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg thumbnail: %w\n%s", err, string(b))
	}
	return nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
