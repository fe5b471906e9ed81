// Package ingest turns poem files (.txt, .md, .docx, .pdf) into plain text with stanza
// breaks preserved as blank lines.
package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

type Document struct {
	Title string
	Path  string
	Text  string
}

// Extensions lists the supported file types.
var Extensions = []string{".txt", ".md", ".docx", ".pdf"}

func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func ParseFile(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	doc, err := Parse(filepath.Base(path), raw)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// Parse extracts text from raw file content; name selects the format by extension.
func Parse(name string, raw []byte) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(name))
	title := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	var (
		text string
		err  error
	)
	switch ext {
	case ".txt":
		text = string(raw)
	case ".md":
		var heading string
		heading, text = parseMarkdown(string(raw))
		if heading != "" {
			title = heading
		}
	case ".docx":
		text, err = parseDOCX(raw)
	case ".pdf":
		text, err = parsePDF(raw)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
	if err != nil {
		return nil, err
	}
	return &Document{Title: title, Text: normalizeWhitespace(text)}, nil
}

var (
	mdHeading  = regexp.MustCompile(`^#{1,6}\s+(.*)$`)
	mdEmphasis = regexp.MustCompile(`(\*\*|__|\*|_)(\S(?:.*?\S)?)(\*\*|__|\*|_)`)
)

// parseMarkdown drops headings, fences and emphasis markers. The first heading becomes
// the title.
func parseMarkdown(src string) (title, text string) {
	var out []string
	inFence := false
	for _, line := range strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if m := mdHeading.FindStringSubmatch(trimmed); m != nil {
			if title == "" {
				title = strings.TrimSpace(m[1])
			}
			continue
		}
		if !inFence {
			trimmed = strings.TrimPrefix(trimmed, "> ")
			trimmed = strings.TrimSuffix(trimmed, "\\")
			trimmed = mdEmphasis.ReplaceAllString(trimmed, "$2")
		}
		out = append(out, trimmed)
	}
	return title, strings.Join(out, "\n")
}

func parseDOCX(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open docx zip: %w", err)
	}

	var xmlData []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, openErr := f.Open()
			if openErr != nil {
				return "", fmt.Errorf("open document.xml: %w", openErr)
			}
			defer rc.Close()
			xmlData, err = io.ReadAll(rc)
			if err != nil {
				return "", fmt.Errorf("read document.xml: %w", err)
			}
			break
		}
	}
	if len(xmlData) == 0 {
		return "", fmt.Errorf("word/document.xml not found")
	}

	// Every paragraph is a line; an empty paragraph is a stanza break. <w:br/> is a soft
	// line break inside a paragraph.
	decoder := xml.NewDecoder(bytes.NewReader(xmlData))
	var b strings.Builder
	inText := false
	paragraphs := 0
	for {
		tok, tokenErr := decoder.Token()
		if tokenErr == io.EOF {
			break
		}
		if tokenErr != nil {
			return "", fmt.Errorf("decode document.xml: %w", tokenErr)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "p":
				if paragraphs > 0 {
					b.WriteString("\n")
				}
				paragraphs++
			case "br":
				b.WriteString("\n")
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.WriteString(string(t))
			}
		}
	}
	return b.String(), nil
}

func parsePDF(raw []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		// A page break ends a stanza.
		b.WriteString(content)
		b.WriteString("\n\n")
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("no extractable text found in pdf")
	}
	return b.String(), nil
}

// normalizeWhitespace trims every line, collapses inner runs of spaces and folds runs
// of blank lines into one stanza break.
func normalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
