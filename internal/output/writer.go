// Package output persists a finished digest next to its transcript.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/transcript-digest/internal/transcript"
)

// SummarySeparator divides the transcript from its summary in the text file.
const SummarySeparator = "====SUMMARY===="

// Digest is everything written for one transcript.
type Digest struct {
	Transcript  transcript.Transcript
	Summary     string
	Parts       []string // partial summaries in chunk order, used for the docx sections
	TotalTokens int
}

// Format renders d as the text file layout:
// optional URL header, transcript, separator, token count, summary.
func Format(d Digest) string {
	var sb strings.Builder
	if d.Transcript.SourceURL != "" {
		fmt.Fprintf(&sb, "%s%s\n\n", transcript.HeaderPrefix, d.Transcript.SourceURL)
	}
	sb.WriteString(d.Transcript.Text)
	fmt.Fprintf(&sb, "\n\n%s\nNumber of tokens in transcript: %d\n\n%s\n\n",
		SummarySeparator, d.TotalTokens, d.Summary)
	return sb.String()
}

// Writer writes digests into a directory.
type Writer struct {
	dir  string
	docx bool
}

// NewWriter creates dir if needed. With docx set, a .docx rendition of the
// summary is written as well.
func NewWriter(dir string, docx bool) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Writer{dir: dir, docx: docx}, nil
}

// Write returns the paths it wrote. Output names keep the source extension
// so talk.txt and talk.srt do not overwrite each other.
func (w *Writer) Write(d Digest) ([]string, error) {
	stem := outputStem(d.Transcript)
	txtPath := filepath.Join(w.dir, stem+".txt")
	if err := os.WriteFile(txtPath, []byte(Format(d)), 0644); err != nil {
		return nil, fmt.Errorf("write digest: %w", err)
	}
	paths := []string{txtPath}

	if w.docx {
		docxPath := filepath.Join(w.dir, stem+".docx")
		if err := writeDocx(d, docxPath); err != nil {
			return paths, fmt.Errorf("write docx: %w", err)
		}
		paths = append(paths, docxPath)
	}

	return paths, nil
}

func outputStem(t transcript.Transcript) string {
	if t.Ext == "" {
		return t.Name
	}
	return t.Name + "." + t.Ext
}
