package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// mimeByExtension lists the recording formats the coaching model accepts
// inline.
var mimeByExtension = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
}

// FileLoader resolves audio refs as paths on the local filesystem.
// Relative refs are anchored at baseDir when one is set.
type FileLoader struct {
	baseDir string
}

// NewFileLoader creates a FileLoader rooted at baseDir. An empty baseDir
// resolves relative refs against the working directory.
func NewFileLoader(baseDir string) *FileLoader {
	return &FileLoader{baseDir: baseDir}
}

// Load reads the recording behind ref and reports its MIME type.
func (l *FileLoader) Load(_ context.Context, ref string) ([]byte, string, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, "", fmt.Errorf("audio ref is empty")
	}

	path := ref
	if l.baseDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(l.baseDir, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	mimeType, ok := mimeByExtension[ext]
	if !ok {
		return nil, "", fmt.Errorf("unsupported audio format %q", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read audio file: %w", err)
	}
	return data, mimeType, nil
}
