package analyzer

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/clipforge/clipforge/internal/domain/signal"
)

// analyzeAudio scores each second by short-time RMS energy, with an
// onset-strength bonus for percussive moments (beats, impacts). A video
// with no audio track yields an empty timeline.
func (a *Analyzer) analyzeAudio(ctx context.Context, mediaPath string, duration float64) signal.Timeline {
	wavPath := filepath.Join(a.cfg.WorkDir, "audio.wav")
	if err := a.video.ExtractAudioMono16k(ctx, mediaPath, wavPath); err != nil {
		a.log.WithError(err).Warn("audio analysis skipped: extract failed")
		return signal.Timeline{}
	}
	defer os.Remove(wavPath)

	buf, err := decodeWAV(wavPath)
	if err != nil {
		a.log.WithError(err).Warn("audio analysis skipped: decode failed")
		return signal.Timeline{}
	}
	samples, sampleRate := buf.Data, buf.Format.SampleRate
	if len(samples) == 0 || sampleRate <= 0 {
		return signal.Timeline{}
	}

	scores := rmsPerSecond(samples, sampleRate, duration)
	addOnsetBonus(scores, samples, sampleRate, duration)

	a.log.WithField("timestamps", len(scores)).Debug("audio analysis complete")
	return scores
}

func decodeWAV(path string) (*audio.Float32Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	if buf == nil || buf.Format == nil {
		return nil, errors.New("wav has no decodable PCM data")
	}
	return buf.AsFloat32Buffer(), nil
}

// rmsPerSecond computes RMS energy over 1-second non-overlapping windows
// and min-max normalizes the whole track to [0,100].
func rmsPerSecond(samples []float32, sampleRate int, duration float64) signal.Timeline {
	scores := signal.Timeline{}
	var rms []float64
	for off := 0; off < len(samples); off += sampleRate {
		end := off + sampleRate
		if end > len(samples) {
			end = len(samples)
		}
		var sum float64
		for _, s := range samples[off:end] {
			sum += float64(s) * float64(s)
		}
		rms = append(rms, math.Sqrt(sum/float64(end-off)))
	}
	lo, hi := minMax(rms)
	for i, v := range rms {
		ts := float64(i)
		if ts >= duration {
			break
		}
		scores[ts] = (v - lo) / (hi - lo + 1e-6) * 100
	}
	return scores
}

// addOnsetBonus derives an onset-strength envelope (half-wave rectified
// energy flux over short hops), normalizes it to [0,50] and adds each
// onset to the score at its nearest integer second, capping at 100.
func addOnsetBonus(scores signal.Timeline, samples []float32, sampleRate int, duration float64) {
	hop := sampleRate / 20 // 50ms
	if hop <= 0 {
		return
	}
	var energies []float64
	for off := 0; off+hop <= len(samples); off += hop {
		var sum float64
		for _, s := range samples[off : off+hop] {
			sum += float64(s) * float64(s)
		}
		energies = append(energies, sum/float64(hop))
	}
	if len(energies) < 2 {
		return
	}
	onsets := make([]float64, len(energies)-1)
	for i := 1; i < len(energies); i++ {
		if d := energies[i] - energies[i-1]; d > 0 {
			onsets[i-1] = d
		}
	}
	lo, hi := minMax(onsets)
	for i, v := range onsets {
		strength := (v - lo) / (hi - lo + 1e-6) * 50
		sec := float64(int(float64((i+1)*hop) / float64(sampleRate)))
		if sec >= duration {
			break
		}
		if cur, ok := scores[sec]; ok {
			scores[sec] = math.Min(100, cur+strength)
		} else {
			scores[sec] = strength
		}
	}
}

func minMax(vs []float64) (lo, hi float64) {
	if len(vs) == 0 {
		return 0, 0
	}
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
