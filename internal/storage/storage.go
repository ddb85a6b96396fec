// Package storage manages the temp-dir layout shared by downloads and
// exported clips, and reclaims space from finished jobs.
package storage

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Layout under the temp dir.
const (
	DownloadsDir = "downloads"
	OutputsDir   = "outputs"
)

// EnsureDirs creates the expected directory layout.
func EnsureDirs(tempDir string) error {
	for _, d := range []string{tempDir, filepath.Join(tempDir, DownloadsDir), filepath.Join(tempDir, OutputsDir)} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// DownloadPath is the cached download location for a video ID.
func DownloadPath(tempDir, videoID string) string {
	return filepath.Join(tempDir, DownloadsDir, videoID+".mp4")
}

// OutputDir is the per-job clip directory.
func OutputDir(tempDir, jobID string) string {
	return filepath.Join(tempDir, OutputsDir, jobID)
}

// CleanupOld removes downloads and job output directories older than
// maxAge. A zero maxAge removes everything. Returns how many entries
// were deleted.
func CleanupOld(tempDir string, maxAge time.Duration, log *logrus.Logger) int {
	if log == nil {
		log = logrus.New()
	}
	threshold := time.Now().Add(-maxAge)
	deleted := 0

	downloads := filepath.Join(tempDir, DownloadsDir)
	entries, _ := os.ReadDir(downloads)
	for _, e := range entries {
		p := filepath.Join(downloads, e.Name())
		info, err := e.Info()
		if err != nil {
			continue
		}
		if maxAge == 0 || info.ModTime().Before(threshold) {
			if err := os.Remove(p); err != nil {
				log.WithError(err).WithField("path", p).Error("cleanup failed")
				continue
			}
			deleted++
			log.WithField("file", e.Name()).Info("deleted old download")
		}
	}

	outputs := filepath.Join(tempDir, OutputsDir)
	entries, _ = os.ReadDir(outputs)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p := filepath.Join(outputs, e.Name())
		info, err := e.Info()
		if err != nil {
			continue
		}
		if maxAge == 0 || info.ModTime().Before(threshold) {
			if err := os.RemoveAll(p); err != nil {
				log.WithError(err).WithField("path", p).Error("cleanup failed")
				continue
			}
			deleted++
			log.WithField("job", e.Name()).Info("deleted old job directory")
		}
	}
	return deleted
}

// Usage reports the total size and file count under the temp dir.
func Usage(tempDir string) (totalBytes int64, files int) {
	_ = filepath.Walk(tempDir, func(_ string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		totalBytes += info.Size()
		files++
		return nil
	})
	return totalBytes, files
}
