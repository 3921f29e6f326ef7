package parser

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"utf8", []byte("Crème brûlée."), "Crème brûlée."},
		{"bom", []byte("\xef\xbb\xbfHello."), "Hello."},
		{"latin1 fallback", []byte("Caf\xe9 au lait"), "Café au lait"},
		{"windows-1252 quotes", []byte("\x93quoted\x94"), "“quoted”"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeText(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDecode_Unsupported(t *testing.T) {
	_, err := Decode("slides.pptx", []byte("data"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDecode_Markdown(t *testing.T) {
	src := []byte("# Title\n\nSome *emphasis* and a [link](http://example.com).\nSecond line.\n\n```go\nfmt.Println(1)\n```\n\n- item one\n- item two\n")
	got, err := Decode("notes.md", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Title", "Some emphasis and a link.", "Second line.", "item one", "item two"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
	for _, unwanted := range []string{"#", "*", "](", "Println"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("unexpected %q in %q", unwanted, got)
		}
	}
}

func TestDecode_PDFFallback(t *testing.T) {
	data := []byte("%PDF-1.4\nHello\nWorld\n%%EOF")
	got, err := Decode("article.PDF", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "Hello") || !strings.Contains(got, "World") {
		t.Errorf("expected printable fallback text, got %q", got)
	}
}

func TestDecode_DOCX(t *testing.T) {
	data := buildDOCX(t, `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`+
		`<w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>Tom &amp; Jerry</w:t></w:r><w:r><w:t xml:space="preserve"> ran.</w:t></w:r></w:p>`+
		`</w:body></w:document>`)
	got, err := Decode("essay.docx", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "First paragraph.\nTom & Jerry ran." {
		t.Errorf("unexpected text %q", got)
	}
}

func TestDecode_XLSX(t *testing.T) {
	f := excelize.NewFile()
	if err := f.SetCellValue("Sheet1", "A1", "Revenue"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if err := f.SetCellValue("Sheet1", "B1", "grew"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	got, err := Decode("figures.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Revenue\tgrew" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestDecode_BrokenDOCX(t *testing.T) {
	if _, err := Decode("broken.docx", []byte("not a zip")); err == nil {
		t.Fatalf("expected an error for a broken docx")
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synopsis.txt")
	if err := os.WriteFile(path, []byte("A short synopsis."), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	got, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "A short synopsis." {
		t.Errorf("unexpected text %q", got)
	}

	if _, err := DecodeFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"word/document.xml": documentXML,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}
