package parser

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/encoding/charmap"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

var (
	xmlTagRe     = regexp.MustCompile(`<[^>]+>`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

// Decode turns an uploaded document into a single text string. The format
// is picked from the file extension. Plain text and PDF never fail: bad
// encodings and broken PDFs degrade to a best-effort decoding instead.
func Decode(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", "":
		return DecodeText(data), nil
	case ".pdf":
		return parsePDF(data), nil
	case ".docx":
		return parseDOCX(data)
	case ".xlsx":
		return parseXLSX(data)
	case ".md", ".markdown":
		return parseMarkdown(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func DecodeFile(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return Decode(filePath, data)
}

// DecodeText reads data as UTF-8, falling back to Windows-1252 (a superset
// of Latin-1) when the bytes are not valid UTF-8.
func DecodeText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		log.Warn().Err(err).Msg("Latin-1 decoding failed, dropping invalid bytes")
		return strings.ToValidUTF8(string(data), "")
	}
	return string(decoded)
}

// parsePDF extracts the text of every page, one page per line block.
func parsePDF(data []byte) (out string) {
	defer func() {
		// ledongthuc/pdf panics on some malformed files
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Msg("PDF parser failed, using printable text")
			out = extractPrintableText(data)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		log.Warn().Err(err).Msg("Cannot open PDF, using printable text")
		return extractPrintableText(data)
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			log.Warn().Err(err).Int("page", i).Msg("Skipping unreadable PDF page")
			continue
		}
		pages = append(pages, pageText)
	}
	return strings.Join(pages, "\n")
}

func parseDOCX(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read docx: %w", err)
	}
	defer r.Close()

	return extractTextFromXML(r.Editable().GetContent()), nil
}

// extractTextFromXML keeps the text runs of a WordprocessingML body, one
// paragraph per line.
func extractTextFromXML(xmlContent string) string {
	xmlContent = strings.ReplaceAll(xmlContent, "</w:p>", "\n")
	xmlContent = strings.ReplaceAll(xmlContent, "<w:tab/>", "\t")
	plain := html.UnescapeString(xmlTagRe.ReplaceAllString(xmlContent, ""))
	return cleanLines(plain)
}

// parseXLSX treats each sheet as a page: rows become tab separated lines.
func parseXLSX(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to read xlsx: %w", err)
	}
	defer f.Close()

	var sheets []string
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			log.Warn().Err(err).Str("sheet", sheetName).Msg("Skipping unreadable sheet")
			continue
		}
		var text strings.Builder
		for _, row := range rows {
			text.WriteString(strings.Join(row, "\t"))
			text.WriteString("\n")
		}
		if s := strings.TrimSpace(text.String()); s != "" {
			sheets = append(sheets, s)
		}
	}
	return strings.Join(sheets, "\n"), nil
}

// parseMarkdown renders markdown to its plain prose, dropping markup and
// code blocks.
func parseMarkdown(data []byte) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(data))

	var buf strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				buf.Write(node.Segment.Value(data))
				switch {
				case node.HardLineBreak():
					buf.WriteString("\n")
				case node.SoftLineBreak():
					buf.WriteString(" ")
				}
			}
		case *ast.String:
			if entering {
				buf.Write(node.Value)
			}
		default:
			if !entering && n.Type() == ast.TypeBlock {
				buf.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk markdown: %w", err)
	}
	return cleanLines(buf.String()), nil
}

func cleanLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(blankLinesRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

func extractPrintableText(in []byte) string {
	var out strings.Builder
	for len(in) > 0 {
		r, size := utf8.DecodeRune(in)
		in = in[size:]
		if r == utf8.RuneError && size == 1 {
			continue
		}
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 && r != 127 {
			out.WriteRune(r)
		}
	}
	return out.String()
}
