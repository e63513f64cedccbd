// Package pptx reads slide titles and tables from PowerPoint files.
package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/risklists/internal/core/domain"
	"github.com/custodia-labs/risklists/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.PresentationParser = Parser{}

const (
	presentationPart = "ppt/presentation.xml"
	presentationRels = "ppt/_rels/presentation.xml.rels"

	// maxPartSize bounds a single decompressed XML part.
	maxPartSize = 64 << 20
)

// Parser is the driven.PresentationParser backed by ExtractTables.
type Parser struct{}

// ExtractTables implements driven.PresentationParser.
func (Parser) ExtractTables(data []byte) ([]domain.Slide, error) {
	return ExtractTables(data)
}

type presentationXML struct {
	SlideIDs []struct {
		RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
}

type relationshipsXML struct {
	Relationships []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type slideXML struct {
	Tree struct {
		Shapes []shapeXML `xml:",any"`
	} `xml:"cSld>spTree"`
}

type shapeXML struct {
	XMLName     xml.Name
	Placeholder *struct {
		Type string `xml:"type,attr"`
	} `xml:"nvSpPr>nvPr>ph"`
	Paragraphs []paragraphXML `xml:"txBody>p"`
	Table      *tableXML      `xml:"graphic>graphicData>tbl"`
}

type paragraphXML struct {
	Items []struct {
		XMLName xml.Name
		Text    string `xml:"t"`
	} `xml:",any"`
}

type tableXML struct {
	Rows []struct {
		Cells []struct {
			Paragraphs []paragraphXML `xml:"txBody>p"`
		} `xml:"tc"`
	} `xml:"tr"`
}

// ExtractTables returns, per slide in presentation order, the slide title
// and every top-level table. The first row of a table is its columns.
// Empty cells are dropped.
func ExtractTables(data []byte) ([]domain.Slide, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a pptx archive: %v", domain.ErrInvalidInput, err)
	}

	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[f.Name] = f
	}

	slidePaths, err := slideOrder(parts)
	if err != nil {
		return nil, err
	}

	slides := make([]domain.Slide, 0, len(slidePaths))
	for _, p := range slidePaths {
		var sx slideXML
		if err := decodePart(parts, p, &sx); err != nil {
			return nil, err
		}
		slides = append(slides, toSlide(sx))
	}
	return slides, nil
}

func slideOrder(parts map[string]*zip.File) ([]string, error) {
	var pres presentationXML
	if err := decodePart(parts, presentationPart, &pres); err != nil {
		return nil, err
	}
	var rels relationshipsXML
	if err := decodePart(parts, presentationRels, &rels); err != nil {
		return nil, err
	}

	targets := make(map[string]string, len(rels.Relationships))
	for _, r := range rels.Relationships {
		targets[r.ID] = r.Target
	}

	paths := make([]string, 0, len(pres.SlideIDs))
	for _, s := range pres.SlideIDs {
		target, ok := targets[s.RelID]
		if !ok {
			return nil, fmt.Errorf("%w: slide relationship %q missing", domain.ErrInvalidInput, s.RelID)
		}
		if strings.HasPrefix(target, "/") {
			paths = append(paths, strings.TrimPrefix(target, "/"))
			continue
		}
		paths = append(paths, path.Join("ppt", target))
	}
	return paths, nil
}

func decodePart(parts map[string]*zip.File, name string, v any) error {
	f, ok := parts[name]
	if !ok {
		return fmt.Errorf("%w: pptx part %s missing", domain.ErrInvalidInput, name)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	if err := xml.NewDecoder(io.LimitReader(rc, maxPartSize)).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrInvalidInput, name, err)
	}
	return nil
}

func toSlide(sx slideXML) domain.Slide {
	slide := domain.Slide{Content: domain.SlideContent{Tables: []domain.Table{}}}

	for _, sh := range sx.Tree.Shapes {
		switch {
		case sh.XMLName.Local == "sp" && slide.Title == nil && isTitle(sh):
			title := CleanText(joinParagraphs(sh.Paragraphs))
			slide.Title = &title
		case sh.XMLName.Local == "graphicFrame" && sh.Table != nil:
			slide.Content.Tables = append(slide.Content.Tables, toTable(*sh.Table, len(slide.Content.Tables)+1))
		}
	}
	return slide
}

func isTitle(sh shapeXML) bool {
	if sh.Placeholder == nil {
		return false
	}
	return sh.Placeholder.Type == "title" || sh.Placeholder.Type == "ctrTitle"
}

func toTable(tx tableXML, number int) domain.Table {
	rows := make([][]string, 0, len(tx.Rows))
	for _, r := range tx.Rows {
		cells := []string{}
		for _, c := range r.Cells {
			if text := CleanText(joinParagraphs(c.Paragraphs)); text != "" {
				cells = append(cells, text)
			}
		}
		rows = append(rows, cells)
	}

	t := domain.Table{TableNo: number, Columns: []string{}, Rows: [][]string{}}
	if len(rows) > 0 {
		t.Columns = rows[0]
		t.Rows = rows[1:]
	}
	return t
}

func joinParagraphs(ps []paragraphXML) string {
	lines := make([]string, len(ps))
	for i, p := range ps {
		var b strings.Builder
		for _, item := range p.Items {
			b.WriteString(item.Text)
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// CleanText removes every whitespace character except the plain space and
// returns the NFC form.
func CleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		if r != ' ' && unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return norm.NFC.String(s)
}
