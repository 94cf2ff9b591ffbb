package export

import (
	"archive/zip"
	"bytes"
	"embed"
	"encoding/xml"
	"fmt"
	"io"
	"text/template"
	"time"
)

//go:embed templates/*.xml.tmpl
var templateFS embed.FS

var parts = template.Must(template.New("pptx").Funcs(template.FuncMap{
	"x":   escapeXML,
	"add": func(a, b int) int { return a + b },
}).ParseFS(templateFS, "templates/*.xml.tmpl"))

func escapeXML(s string) (string, error) {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type part struct {
	name string
	tmpl string
	data any
	raw  []byte
}

// packageParts lists the zip entries of d in write order.
func packageParts(d *deck) []part {
	out := []part{
		{name: "[Content_Types].xml", tmpl: "content_types.xml.tmpl", data: d},
		{name: "_rels/.rels", tmpl: "root_rels.xml.tmpl", data: d},
		{name: "docProps/core.xml", tmpl: "core.xml.tmpl", data: d},
		{name: "docProps/app.xml", tmpl: "app.xml.tmpl", data: d},
		{name: "ppt/presentation.xml", tmpl: "presentation.xml.tmpl", data: d},
		{name: "ppt/_rels/presentation.xml.rels", tmpl: "presentation_rels.xml.tmpl", data: d},
		{name: "ppt/presProps.xml", tmpl: "pres_props.xml.tmpl", data: d},
		{name: "ppt/slideMasters/slideMaster1.xml", tmpl: "slide_master.xml.tmpl", data: d},
		{name: "ppt/slideMasters/_rels/slideMaster1.xml.rels", tmpl: "slide_master_rels.xml.tmpl", data: d},
		{name: "ppt/slideLayouts/slideLayout1.xml", tmpl: "slide_layout.xml.tmpl", data: d},
		{name: "ppt/slideLayouts/_rels/slideLayout1.xml.rels", tmpl: "slide_layout_rels.xml.tmpl", data: d},
		{name: "ppt/notesMasters/notesMaster1.xml", tmpl: "notes_master.xml.tmpl", data: d},
		{name: "ppt/notesMasters/_rels/notesMaster1.xml.rels", tmpl: "notes_master_rels.xml.tmpl", data: d},
		{name: "ppt/theme/theme1.xml", tmpl: "theme.xml.tmpl", data: d.Theme},
		{name: "ppt/theme/theme2.xml", tmpl: "theme.xml.tmpl", data: d.Theme},
	}
	for i := range d.Slides {
		s := &d.Slides[i]
		out = append(out,
			part{name: fmt.Sprintf("ppt/slides/slide%d.xml", s.Number), tmpl: "slide.xml.tmpl", data: s},
			part{name: fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", s.Number), tmpl: "slide_rels.xml.tmpl", data: s},
			part{name: fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", s.Number), tmpl: "notes_slide.xml.tmpl", data: s},
			part{name: fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", s.Number), tmpl: "notes_slide_rels.xml.tmpl", data: s},
		)
	}
	if d.Cover != nil {
		out = append(out, part{name: "ppt/media/" + coverMedia, raw: d.Cover})
	}
	return out
}

// writePackage streams d as an OOXML presentation package.
func writePackage(w io.Writer, d *deck, modified time.Time) error {
	zw := zip.NewWriter(w)
	for _, p := range packageParts(d) {
		method := zip.Deflate
		if p.raw != nil {
			method = zip.Store
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: method, Modified: modified})
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if p.raw != nil {
			if _, err := fw.Write(p.raw); err != nil {
				return fmt.Errorf("write %s: %w", p.name, err)
			}
			continue
		}
		if err := parts.ExecuteTemplate(fw, p.tmpl, p.data); err != nil {
			return fmt.Errorf("render %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close package: %w", err)
	}
	return nil
}
