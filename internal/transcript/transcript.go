// Package transcript reads transcript files produced by the transcription step.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// HeaderPrefix starts the optional source line at the top of a transcript file.
const HeaderPrefix = "Video URL: "

var (
	reSrtTime  = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}[,.]\d{3}\s+-->`)
	reSrtIndex = regexp.MustCompile(`^\d+$`)
)

// Transcript is the text to summarize plus where it came from.
type Transcript struct {
	Name      string // file name without extension
	Ext       string // source extension without the dot, e.g. "srt"
	SourceURL string
	Text      string
}

// Load reads a .txt or .srt transcript.
func Load(path string) (Transcript, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Transcript{}, fmt.Errorf("read transcript: %w", err)
	}

	ext := filepath.Ext(path)
	name := strings.TrimSuffix(filepath.Base(path), ext)
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "srt" {
		return Transcript{Name: name, Ext: ext, Text: FromSRT(string(content))}, nil
	}

	url, text := splitHeader(string(content))
	return Transcript{Name: name, Ext: ext, SourceURL: url, Text: text}, nil
}

// splitHeader separates a leading "Video URL: ..." line and the blank line
// after it. Both LF and CRLF line endings are accepted.
func splitHeader(content string) (string, string) {
	if !strings.HasPrefix(content, HeaderPrefix) {
		return "", content
	}
	line, rest, _ := strings.Cut(content, "\n")
	if r, ok := strings.CutPrefix(rest, "\r\n"); ok {
		rest = r
	} else {
		rest = strings.TrimPrefix(rest, "\n")
	}
	return strings.TrimSpace(strings.TrimPrefix(line, HeaderPrefix)), rest
}

// FromSRT keeps only the dialogue of an SRT file, joined by single spaces.
// Consecutive duplicate lines, which whisper emits on long pauses, are dropped.
func FromSRT(srt string) string {
	var (
		words []string
		prev  string
	)
	for _, line := range strings.Split(srt, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || reSrtIndex.MatchString(trimmed) || reSrtTime.MatchString(trimmed) {
			continue
		}
		if trimmed == prev {
			continue
		}
		prev = trimmed
		words = append(words, strings.Fields(trimmed)...)
	}
	return strings.Join(words, " ")
}

// IsSupported reports whether path has a transcript extension.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".srt":
		return true
	default:
		return false
	}
}
