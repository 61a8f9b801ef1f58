package output

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/ctypes"

	"github.com/nguyentantai21042004/transcript-digest/internal/transcript"
)

const (
	fontName = "Times New Roman"
	fontSize = 13

	// twips
	listIndent  = 720
	listHanging = 360
)

var (
	reHeading  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet   = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reNumbered = regexp.MustCompile(`^(\d+)[.)]\s+(.+)$`)
)

// writeDocx renders the digest: title, source and token count, then one
// section per partial summary so chunk boundaries stay visible.
func writeDocx(d Digest, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	if _, err := doc.AddHeading(d.Transcript.Name, 0); err != nil {
		return err
	}
	if d.Transcript.SourceURL != "" {
		addRichText(doc.AddParagraph(""), transcript.HeaderPrefix+d.Transcript.SourceURL)
	}
	addRichText(doc.AddParagraph(""), fmt.Sprintf("Number of tokens in transcript: %d", d.TotalTokens))

	parts := d.Parts
	if len(parts) == 0 {
		parts = []string{d.Summary}
	}
	for i, part := range parts {
		if len(parts) > 1 {
			if _, err := doc.AddHeading(fmt.Sprintf("Part %d of %d", i+1, len(parts)), 2); err != nil {
				return err
			}
		}
		if err := renderMarkdown(doc, part); err != nil {
			return err
		}
	}

	return doc.SaveTo(path)
}

// renderMarkdown handles the light markdown models tend to answer with.
// Headings nest below the part heading.
func renderMarkdown(doc *docx.RootDoc, markdown string) error {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		switch {
		case reHeading.MatchString(trimmed):
			m := reHeading.FindStringSubmatch(trimmed)
			level := min(len(m[1])+2, 9)
			if _, err := doc.AddHeading(cleanMarkdownInline(m[2]), uint(level)); err != nil {
				return err
			}

		case reBullet.MatchString(trimmed):
			p := listParagraph(doc)
			addRichText(p, "•\t"+reBullet.FindStringSubmatch(trimmed)[1])

		case reNumbered.MatchString(trimmed):
			m := reNumbered.FindStringSubmatch(trimmed)
			p := listParagraph(doc)
			p.AddText(m[1] + ".\t").Font(fontName).Size(fontSize).Bold(true)
			addRichText(p, m[2])

		default:
			addRichText(doc.AddParagraph(""), trimmed)
		}
	}
	return nil
}

func listParagraph(doc *docx.RootDoc) *docx.Paragraph {
	left := listIndent
	hanging := uint64(listHanging)
	p := doc.AddParagraph("")
	p.Indent(&ctypes.Indent{Left: &left, Hanging: &hanging})
	return p
}

// addRichText writes text as runs, bolding **spans**.
func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize)
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
