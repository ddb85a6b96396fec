package ports

import (
	"context"

	"github.com/clipforge/clipforge/internal/types"
)

// MediaSource fetches a remote video to local disk. Implementations must
// reject sources longer than maxDuration seconds and live streams before
// downloading anything.
type MediaSource interface {
	Fetch(ctx context.Context, url string, maxDuration int, outPath string) (types.MediaInfo, error)
}

// VideoTool wraps the media probing, decoding and transcoding operations
// the pipeline needs.
type VideoTool interface {
	Probe(ctx context.Context, in string) (types.MediaProbe, error)
	ExtractAudioMono16k(ctx context.Context, in, outWav string) error

	// SampleGrayFrames decodes the video at the given sample rate into
	// 8-bit grayscale frames of exactly width*height bytes each.
	SampleGrayFrames(ctx context.Context, in string, fps float64, width, height int) ([][]byte, error)

	// ExtractFrameJPEG grabs a single JPEG-encoded frame at the offset.
	ExtractFrameJPEG(ctx context.Context, in string, at float64) ([]byte, error)

	// RenderVertical cuts [start, start+duration) out of the input, crops
	// it to a centered 9:16 window and scales to outW x outH.
	RenderVertical(ctx context.Context, in string, start float64, duration int, outW, outH int, out string) error

	// Thumbnail extracts a single scaled still at the offset.
	Thumbnail(ctx context.Context, in string, at float64, outW, outH int, out string) error
}

// VisionJudge is the content-understanding capability. A backend may be
// unreachable or disabled; callers probe Available once and skip the
// signal entirely when it reports false.
type VisionJudge interface {
	Available(ctx context.Context) bool
	Judge(ctx context.Context, jpegFrame []byte) (types.ContentJudgement, error)
}
