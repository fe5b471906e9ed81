package ingest

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestParseDOCXKeepsStanzaBreaks(t *testing.T) {
	raw := buildDOCX(t, `<w:document><w:body>`+
		`<w:p><w:r><w:t>Roses are red</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>Violets are </w:t></w:r><w:r><w:t>blue</w:t></w:r></w:p>`+
		`<w:p></w:p>`+
		`<w:p><w:r><w:t>Sugar is sweet</w:t><w:br/><w:t>And so are you</w:t></w:r></w:p>`+
		`</w:body></w:document>`)
	doc, err := Parse("valentine.docx", raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := "Roses are red\nViolets are blue\n\nSugar is sweet\nAnd so are you"
	if doc.Text != want {
		t.Fatalf("unexpected text:\n%q\nwant\n%q", doc.Text, want)
	}
	if doc.Title != "valentine" {
		t.Fatalf("unexpected title %q", doc.Title)
	}
}

func TestParseFileText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pond.txt")
	body := "  An old silent pond  \r\nA frog   jumps into the lake\n\n\n\nSplash! Silence again\n\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	want := "An old silent pond\nA frog jumps into the lake\n\nSplash! Silence again"
	if doc.Text != want {
		t.Fatalf("unexpected text %q", doc.Text)
	}
	if doc.Path != path || doc.Title != "pond" {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestParseMarkdown(t *testing.T) {
	src := "# Ozymandias\n\nI met a *traveller* from an **antique** land\\\nWho said\n"
	doc, err := Parse("poem.md", []byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.Title != "Ozymandias" {
		t.Fatalf("unexpected title %q", doc.Title)
	}
	if doc.Text != "I met a traveller from an antique land\nWho said" {
		t.Fatalf("unexpected text %q", doc.Text)
	}
}

func TestParseUnsupported(t *testing.T) {
	if _, err := Parse("poem.rtf", []byte("hello")); err == nil {
		t.Fatal("expected unsupported file type error")
	}
	if Supported("poem.rtf") || !Supported("POEM.TXT") {
		t.Fatal("unexpected Supported result")
	}
}

func TestParseBrokenPDF(t *testing.T) {
	if _, err := Parse("poem.pdf", []byte("not a pdf")); err == nil {
		t.Fatal("expected pdf error")
	}
}

func buildDOCX(t *testing.T, bodyXML string) []byte {
	t.Helper()
	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	xml := `<?xml version="1.0" encoding="UTF-8"?>` + bodyXML
	if _, err := f.Write([]byte(xml)); err != nil {
		t.Fatalf("write xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return b.Bytes()
}
