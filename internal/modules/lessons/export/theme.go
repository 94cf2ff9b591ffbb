package export

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"

	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

// Theme holds the deck colours as six digit RGB hex strings.
type Theme struct {
	Title      string
	Subtitle   string
	Body       string
	Callout    string
	Background string
	Accent     string
}

func DefaultTheme() Theme {
	return Theme{
		Title:      "2C3E50",
		Subtitle:   "7F8C8D",
		Body:       "34495E",
		Callout:    "95A5A6",
		Background: "FFFFFF",
		Accent:     "2980B9",
	}
}

// resolve normalizes every colour, replacing invalid ones with the default.
func (t Theme) resolve(log *logger.Logger) Theme {
	def := DefaultTheme()
	pick := func(name, raw, fallback string) string {
		if strings.TrimSpace(raw) == "" {
			return fallback
		}
		h, err := normalizeHex(raw)
		if err != nil {
			log.Warn("Ignoring theme colour", "field", name, "value", raw, "error", err)
			return fallback
		}
		return h
	}
	return Theme{
		Title:      pick("title", t.Title, def.Title),
		Subtitle:   pick("subtitle", t.Subtitle, def.Subtitle),
		Body:       pick("body", t.Body, def.Body),
		Callout:    pick("callout", t.Callout, def.Callout),
		Background: pick("background", t.Background, def.Background),
		Accent:     pick("accent", t.Accent, def.Accent),
	}
}

// normalizeHex accepts "#2c3e50" or "2C3E50" and returns "2C3E50".
func normalizeHex(s string) (string, error) {
	s = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if len(s) != 6 {
		return "", fmt.Errorf("expected 6 hex chars, got %q", s)
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("invalid hex %q", s)
	}
	return s, nil
}

func hexColor(s string) color.NRGBA {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 3 {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 255}
}
