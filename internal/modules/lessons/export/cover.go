package export

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	coverWidth  = 1280
	coverHeight = 720
)

// fonts holds the parsed faces used for the cover card.
type fonts struct {
	bold    *truetype.Font
	regular *truetype.Font
}

// loadFonts parses the Go fonts, or the TTF at path for both weights when set.
func loadFonts(path string) (*fonts, error) {
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
		f, err := truetype.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font: %w", err)
		}
		return &fonts{bold: f, regular: f}, nil
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	return &fonts{bold: bold, regular: regular}, nil
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// renderCover draws the title card shown on the first slide.
func renderCover(fs *fonts, theme Theme, title, subtitle string) ([]byte, error) {
	dc := gg.NewContext(coverWidth, coverHeight)

	dc.SetColor(hexColor(theme.Title))
	dc.DrawRectangle(0, 0, coverWidth, coverHeight)
	dc.Fill()

	dc.SetColor(hexColor(theme.Accent))
	dc.DrawRectangle(0, coverHeight-48, coverWidth, 48)
	dc.Fill()

	margin := 96.0
	dc.SetFontFace(face(fs.bold, 72))
	dc.SetColor(hexColor(theme.Background))
	dc.DrawStringWrapped(title, margin, coverHeight/2-40, 0, 1, coverWidth-2*margin, 1.2, gg.AlignLeft)

	if subtitle != "" {
		dc.SetFontFace(face(fs.regular, 36))
		dc.SetColor(hexColor(theme.Callout))
		dc.DrawStringWrapped(subtitle, margin, coverHeight/2+20, 0, 0, coverWidth-2*margin, 1.3, gg.AlignLeft)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
