package components

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/weirdtraffic/internal/ui/theme"
)

var thumbCache sync.Map // thumbKey -> string

type thumbKey struct {
	ref        string
	cols, rows int
}

// Thumbnail renders an image reference (a data URI or raw base64) as
// cols × rows terminal cells using upper half blocks, two pixels per cell.
// Undecodable images render as a labelled placeholder.
func Thumbnail(ref string, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	key := thumbKey{ref: ref, cols: cols, rows: rows}
	if v, ok := thumbCache.Load(key); ok {
		return v.(string)
	}

	img, err := DecodeImage(ref)
	var out string
	if err != nil {
		out = placeholder(cols, rows)
	} else {
		out = halfBlocks(img, cols, rows)
	}
	thumbCache.Store(key, out)
	return out
}

// DecodeImage decodes a data URI or raw base64 PNG/JPEG payload.
func DecodeImage(ref string) (image.Image, error) {
	payload := ref
	if strings.HasPrefix(ref, "data:") {
		i := strings.Index(ref, ",")
		if i < 0 {
			return nil, fmt.Errorf("malformed data URI")
		}
		payload = ref[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding base64: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

func halfBlocks(img image.Image, cols, rows int) string {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return placeholder(cols, rows)
	}
	sample := func(cx, py int) (x, y int) {
		return b.Min.X + cx*b.Dx()/cols, b.Min.Y + py*b.Dy()/(rows*2)
	}

	var sb strings.Builder
	for r := range rows {
		for c := range cols {
			tx, ty := sample(c, r*2)
			bx, by := sample(c, r*2+1)
			sb.WriteString(lipgloss.NewStyle().
				Foreground(img.At(tx, ty)).
				Background(img.At(bx, by)).
				Render("▀"))
		}
		if r < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func placeholder(cols, rows int) string {
	return lipgloss.NewStyle().
		Width(cols).
		Height(rows).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.TextDim).
		Background(theme.BgCard).
		Render("no preview")
}
